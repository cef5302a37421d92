package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/testagent/cli/internal/api"
	clierrors "github.com/testagent/cli/internal/errors"
	"github.com/testagent/cli/internal/ui"
)

var (
	reportFailedOnly bool
	reportJSON       bool
)

var reportCmd = &cobra.Command{
	Use:     "report",
	Short:   "Show test run reports",
	GroupID: groupChecks,
}

var reportPytestCmd = &cobra.Command{
	Use:   "pytest <url|file>",
	Short: "Summarize a pytest-json-report document",
	Long: `Summarize a pytest JSON report read from a local file, an absolute URL
or a backend path starting with '/'.`,
	Example: `  testagent report pytest .report.json
  testagent report pytest /api/reports/pytest/latest --failed-only`,
	Args: cobra.ExactArgs(1),
	RunE: runReportPytest,
}

func init() {
	reportPytestCmd.Flags().BoolVar(&reportFailedOnly, "failed-only", false, "List only failed tests")
	reportPytestCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the parsed report as JSON")

	reportCmd.AddCommand(reportPytestCmd)
	rootCmd.AddCommand(reportCmd)
}

// loadPytestReport reads a local file when source names one, else fetches it
func loadPytestReport(cmd *cobra.Command, source string) (*api.PytestReport, error) {
	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, clierrors.NewValidationError(err, "Cannot read "+source)
		}
		return api.ParsePytestReport(data)
	}

	client, _, err := newAPIClient(true)
	if err != nil {
		return nil, err
	}
	return client.FetchPytestReport(cmd.Context(), source)
}

func runReportPytest(cmd *cobra.Command, args []string) error {
	report, err := loadPytestReport(cmd, args[0])
	if errors.Is(err, api.ErrNoReport) {
		printLine(cmd, "No report available yet")
		return nil
	}
	if err != nil {
		var cliErr *clierrors.CLIError
		if errors.As(err, &cliErr) {
			return err
		}
		if errors.Is(err, api.ErrMalformedReport) {
			return clierrors.NewValidationError(err, "The report is not valid pytest JSON")
		}
		return wrapAPIError(err, "fetch the pytest report")
	}

	if reportJSON {
		return writeJSON(cmd.OutOrStdout(), report)
	}

	s := report.Summary
	printLine(cmd, ui.BoldStyle.Render("Pytest Report"))
	printLine(cmd, ui.Rule(41))
	printf(cmd, "  Total:     %d\n", s.Total)
	printf(cmd, "  Passed:    %s\n", ui.SuccessStyle.Render(fmt.Sprint(s.Passed)))
	printf(cmd, "  Failed:    %s\n", ui.StatusStyle(failedStatus(s.Failed)).Render(fmt.Sprint(s.Failed)))
	if s.Skipped > 0 {
		printf(cmd, "  Skipped:   %d\n", s.Skipped)
	}
	if s.Errors > 0 {
		printf(cmd, "  Errors:    %d\n", s.Errors)
	}
	printf(cmd, "  Pass rate: %.1f%%\n", report.PassRate())
	printf(cmd, "  Duration:  %.2fs\n", report.Duration)

	tests := report.Tests
	if reportFailedOnly {
		tests = report.Failed()
	}
	if len(tests) == 0 {
		return nil
	}

	printLine(cmd)
	for _, t := range tests {
		printf(cmd, "  %s %s %s\n",
			ui.StatusStyle(t.Outcome).Render(ui.Cell(t.Outcome, 8)),
			t.NodeID,
			ui.FaintStyle.Render(fmt.Sprintf("(%.2fs)", t.Duration())))
		if msg := t.FailureMessage(); msg != "" {
			printf(cmd, "           %s\n", ui.Truncate(msg, 100))
		}
	}
	return nil
}
