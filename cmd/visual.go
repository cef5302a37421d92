package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	clierrors "github.com/testagent/cli/internal/errors"
	"github.com/testagent/cli/internal/logger"
	"github.com/testagent/cli/internal/ui"
)

var (
	visualSaveDir string
	visualJSON    bool
)

var visualCmd = &cobra.Command{
	Use:     "visual <baseline> <current>",
	Short:   "Compare two screenshots for visual regressions",
	GroupID: groupChecks,
	Example: `  testagent visual shots/home-v1.png shots/home-v2.png
  testagent visual baseline.png current.png --save-dir diff/`,
	Args: cobra.ExactArgs(2),
	RunE: runVisual,
}

func init() {
	visualCmd.Flags().StringVar(&visualSaveDir, "save-dir", "", "Write the baseline and annotated images to this directory")
	visualCmd.Flags().BoolVar(&visualJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(visualCmd)
}

func runVisual(cmd *cobra.Command, args []string) error {
	client, _, err := newAPIClient(true)
	if err != nil {
		return err
	}

	printLine(cmd, "⏳ Comparing images...")
	result, err := client.CompareImages(cmd.Context(), args[0], args[1])
	if err != nil {
		return wrapAPIError(err, "compare images")
	}

	if visualSaveDir != "" {
		if err := saveVisualImages(cmd, visualSaveDir, result.Baseline, result.AnnotatedCurrent); err != nil {
			return err
		}
	}

	data := result.Data
	if visualJSON {
		return writeJSON(cmd.OutOrStdout(), data.Report)
	}

	status := data.Report.Status
	if status == "" {
		status = "unknown"
	}
	printLine(cmd)
	printf(cmd, "Status:     %s\n", ui.StatusStyle(status).Render(status))
	printf(cmd, "SSIM score: %.4f\n", data.SSIMScore)
	if data.Report.Summary != "" {
		printf(cmd, "Summary:    %s\n", data.Report.Summary)
	}

	if len(data.Report.Differences) == 0 {
		printLine(cmd, ui.SuccessStyle.Render("✓ No differences reported"))
		return nil
	}

	printf(cmd, "\n%s\n", ui.BoldStyle.Render(fmt.Sprintf("Differences (%d)", len(data.Report.Differences))))
	for i, d := range data.Report.Differences {
		loc := d.Location
		printf(cmd, "  %d. [%s] %s\n", i+1, ui.StatusStyle(severityStatus(d.Severity)).Render(d.Severity), d.Description)
		printf(cmd, "     %s\n", ui.FaintStyle.Render(fmt.Sprintf("at %d,%d %dx%d  confidence %.0f%%", loc.X, loc.Y, loc.W, loc.H, d.Confidence*100)))
	}
	return nil
}

func severityStatus(severity string) string {
	switch severity {
	case "high", "critical":
		return "failed"
	case "low":
		return "ok"
	}
	return severity
}

// saveVisualImages decodes the echoed images into dir
func saveVisualImages(cmd *cobra.Command, dir string, baseline, annotated func() ([]byte, error)) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return clierrors.NewError(err, "Failed to create "+dir)
	}

	images := []struct {
		name   string
		decode func() ([]byte, error)
	}{
		{"baseline.png", baseline},
		{"annotated-current.png", annotated},
	}
	for _, img := range images {
		data, err := img.decode()
		if err != nil {
			return clierrors.NewError(err, "The backend returned an unreadable "+img.name)
		}
		if len(data) == 0 {
			logger.Debug("No %s in visual result", img.name)
			continue
		}
		path := filepath.Join(dir, img.name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return clierrors.NewError(err, "Failed to write "+path)
		}
		printf(cmd, "  Saved %s\n", ui.ShortenPath(path))
	}
	return nil
}
