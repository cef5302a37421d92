package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/testagent/cli/internal/api"
	clierrors "github.com/testagent/cli/internal/errors"
	"github.com/testagent/cli/internal/ui"
)

var (
	perfMethod       string
	perfMode         string
	perfDuration     int
	perfStartUsers   int
	perfMaxUsers     int
	perfStepUsers    int
	perfStepDuration int
	perfHeaders      []string
	perfBody         string
	perfJSON         bool
)

var perfCmd = &cobra.Command{
	Use:     "perf <url>",
	Short:   "Run a load or stress test against a URL",
	GroupID: groupChecks,
	Example: `  testagent perf https://shop.example.com/api/health --duration 30
  testagent perf https://shop.example.com/api/orders --method POST --body '{"sku":"A1"}' -H "Content-Type: application/json"
  testagent perf https://shop.example.com --mode stress --start-users 5 --max-users 50 --step-users 5 --step-duration 10`,
	Args: cobra.ExactArgs(1),
	RunE: runPerf,
}

func init() {
	perfCmd.Flags().StringVarP(&perfMethod, "method", "X", "GET", "HTTP method")
	perfCmd.Flags().StringVar(&perfMode, "mode", api.ModeLoad, "Test mode: load or stress")
	perfCmd.Flags().IntVar(&perfDuration, "duration", 10, "Load test duration in seconds")
	perfCmd.Flags().IntVar(&perfStartUsers, "start-users", 1, "Stress test: initial virtual users")
	perfCmd.Flags().IntVar(&perfMaxUsers, "max-users", 10, "Stress test: maximum virtual users")
	perfCmd.Flags().IntVar(&perfStepUsers, "step-users", 1, "Stress test: users added per step")
	perfCmd.Flags().IntVar(&perfStepDuration, "step-duration", 5, "Stress test: seconds per step")
	perfCmd.Flags().StringArrayVarP(&perfHeaders, "header", "H", nil, "Request header as 'Name: value' (repeatable)")
	perfCmd.Flags().StringVar(&perfBody, "body", "", "Request body")
	perfCmd.Flags().BoolVar(&perfJSON, "json", false, "Print the raw result as JSON")
	rootCmd.AddCommand(perfCmd)
}

// parseHeaders turns 'Name: value' flags into a header map
func parseHeaders(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, expected 'Name: value'", v)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

func runPerf(cmd *cobra.Command, args []string) error {
	headers, err := parseHeaders(perfHeaders)
	if err != nil {
		return clierrors.NewUsageError(err.Error())
	}

	req := api.PerformanceRequest{
		URL:      args[0],
		Method:   perfMethod,
		TestMode: strings.ToLower(perfMode),
		Headers:  headers,
		Body:     perfBody,
	}
	if req.TestMode == api.ModeStress {
		req.StressConfig = &api.StressConfig{
			StartUsers:   perfStartUsers,
			MaxUsers:     perfMaxUsers,
			StepUsers:    perfStepUsers,
			StepDuration: perfStepDuration,
		}
	} else {
		req.Duration = perfDuration
	}

	client, _, err := newAPIClient(true)
	if err != nil {
		return err
	}

	printf(cmd, "⏳ Running %s test against %s...\n", req.TestMode, args[0])
	result, err := client.RunPerformanceTest(cmd.Context(), req)
	if err != nil {
		return wrapAPIError(err, "run the performance test")
	}

	if perfJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	printLine(cmd)
	printLine(cmd, ui.BoldStyle.Render("Performance Results"))
	printLine(cmd, ui.Rule(41))
	if result.HasMetrics() {
		printf(cmd, "  Avg latency:    %.2f ms\n", result.AvgLatency)
		printf(cmd, "  Requests/sec:   %.2f\n", result.RequestsPerSec)
		printf(cmd, "  Success rate:   %s\n", successRate(result.SuccessRate))
		printf(cmd, "  Total requests: %d\n", result.TotalRequests)
	}
	if result.Report != "" {
		printLine(cmd)
		printLine(cmd, result.Report)
	}
	if !result.HasMetrics() && result.Report == "" {
		printLine(cmd, "  No metrics returned")
	}
	return nil
}

// successRate colours a percentage by how healthy it is
func successRate(rate float64) string {
	s := fmt.Sprintf("%.1f%%", rate)
	switch {
	case rate >= 99:
		return ui.SuccessStyle.Render(s)
	case rate >= 90:
		return ui.WarnStyle.Render(s)
	default:
		return ui.ErrorStyle.Render(s)
	}
}
