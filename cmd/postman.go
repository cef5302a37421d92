package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	clierrors "github.com/testagent/cli/internal/errors"
	"github.com/testagent/cli/internal/logger"
	"github.com/testagent/cli/internal/ui"
)

var (
	postmanEnvironment string
	postmanSaveResults string
	postmanPDF         string
	postmanPDFOutput   string
	postmanForce       bool
)

var postmanCmd = &cobra.Command{
	Use:     "postman",
	Short:   "Run Postman collections and render their reports",
	GroupID: groupChecks,
}

var postmanRunCmd = &cobra.Command{
	Use:   "run <collection>",
	Short: "Run a Postman collection on the backend",
	Example: `  testagent postman run api.postman_collection.json
  testagent postman run api.postman_collection.json -e staging.postman_environment.json --pdf report.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runPostmanRun,
}

var postmanPDFCmd = &cobra.Command{
	Use:   "pdf <results.json>",
	Short: "Render saved run results as a PDF report",
	Example: `  testagent postman pdf run-results.json -o report.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runPostmanPDF,
}

func init() {
	postmanRunCmd.Flags().StringVarP(&postmanEnvironment, "environment", "e", "", "Postman environment file")
	postmanRunCmd.Flags().StringVar(&postmanSaveResults, "save-results", "", "Write the run results to this JSON file")
	postmanRunCmd.Flags().StringVar(&postmanPDF, "pdf", "", "Also render a PDF report to this path")
	postmanRunCmd.Flags().BoolVar(&postmanForce, "force", false, "Overwrite existing files without prompting")

	postmanPDFCmd.Flags().StringVarP(&postmanPDFOutput, "output", "o", "postman-report.pdf", "PDF file to write")
	postmanPDFCmd.Flags().BoolVar(&postmanForce, "force", false, "Overwrite the PDF without prompting")

	postmanCmd.AddCommand(postmanRunCmd)
	postmanCmd.AddCommand(postmanPDFCmd)
	rootCmd.AddCommand(postmanCmd)
}

func runPostmanRun(cmd *cobra.Command, args []string) error {
	client, _, err := newAPIClient(true)
	if err != nil {
		return err
	}

	printf(cmd, "⏳ Running %s...\n", ui.ShortenPath(args[0]))
	run, err := client.RunPostmanCollection(cmd.Context(), args[0], postmanEnvironment)
	if err != nil {
		return wrapAPIError(err, "run the collection")
	}

	printLine(cmd)
	printf(cmd, "  Total:  %d\n", run.Total)
	printf(cmd, "  Passed: %s\n", ui.SuccessStyle.Render(strconv.Itoa(run.Passed)))
	printf(cmd, "  Failed: %s\n", ui.StatusStyle(failedStatus(run.Failed)).Render(strconv.Itoa(run.Failed)))

	if postmanSaveResults != "" {
		if !confirmWrite(cmd, postmanSaveResults, postmanForce) {
			printLine(cmd, "Skipped saving results")
		} else if err := os.WriteFile(postmanSaveResults, run.Results, 0644); err != nil {
			return clierrors.NewError(err, "Failed to write "+postmanSaveResults)
		} else {
			printf(cmd, "✓ Results saved to %s\n", ui.ShortenPath(postmanSaveResults))
		}
	}

	if postmanPDF != "" {
		return writePostmanPDF(cmd, run.Results, postmanPDF)
	}
	return nil
}

func runPostmanPDF(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return clierrors.NewValidationError(err, "Cannot read "+args[0])
	}

	// Accept either the bare results or a whole saved run
	var run struct {
		Results json.RawMessage `json:"results"`
	}
	if json.Unmarshal(data, &run) == nil && len(run.Results) > 0 {
		data = run.Results
	}
	if !json.Valid(data) {
		return clierrors.NewValidationError(nil, args[0]+" does not contain JSON run results")
	}

	return writePostmanPDF(cmd, data, postmanPDFOutput)
}

func writePostmanPDF(cmd *cobra.Command, results json.RawMessage, path string) error {
	if !confirmWrite(cmd, path, postmanForce) {
		printLine(cmd, "PDF generation cancelled")
		return nil
	}

	client, _, err := newAPIClient(true)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return clierrors.NewError(err, "Failed to create "+dir)
		}
	}

	tempFile := path + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return clierrors.NewError(err, "Failed to create "+path)
	}

	progress := ui.NewProgressBar(0)
	progress.SetOutput(cmd.ErrOrStderr())
	if quietMode {
		progress.SetOutput(io.Discard)
	}

	n, err := client.GeneratePostmanPDF(cmd.Context(), results, &pdfSink{file: f, progress: progress})
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempFile)
		return wrapAPIError(err, "generate the PDF report")
	}
	progress.Finish()

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return clierrors.NewError(err, "Failed to write "+path)
	}

	logger.Info("Wrote Postman PDF report %s (%d bytes)", path, n)
	printf(cmd, "✓ PDF report saved to %s\n", ui.ShortenPath(path))
	return nil
}

// pdfSink tees the download into the file and the progress bar
type pdfSink struct {
	file     *os.File
	progress *ui.ProgressBar
}

func (s *pdfSink) Write(p []byte) (int, error) {
	n, err := s.file.Write(p)
	s.progress.Write(p[:n])
	return n, err
}

func (s *pdfSink) SetTotal(total int64) {
	s.progress.SetTotal(total)
}

func failedStatus(failed int) string {
	if failed > 0 {
		return "failed"
	}
	return "passed"
}
