package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	clierrors "github.com/testagent/cli/internal/errors"
	"github.com/testagent/cli/internal/export"
	"github.com/testagent/cli/internal/logger"
	"github.com/testagent/cli/internal/testcase"
	"github.com/testagent/cli/internal/ui"
	"github.com/testagent/cli/internal/upload"
)

var (
	generateFRD       []string
	generateStories   []string
	generatePostman   []string
	generateSwagger   []string
	generateRecursive bool
	generateOutput    string
	generateXLSX      bool
	generateForce     bool
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Short:   "Generate test cases from requirement documents",
	GroupID: groupTestCases,
	Long: `Upload FRDs, user stories, Postman collections and Swagger specs and
write the generated test suite to a collection file.

Each flag accepts files, directories and glob patterns. Files that are
missing, empty or of the wrong type are skipped and listed.`,
	Example: `  testagent generate --frd docs/frd.pdf --stories docs/stories/
  testagent generate --frd "docs/*.md" --swagger api/openapi.yaml -o suite.yaml
  testagent generate --frd docs/ -r --xlsx`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringSliceVar(&generateFRD, "frd", nil, "Functional requirement documents")
	generateCmd.Flags().StringSliceVar(&generateStories, "stories", nil, "User story documents")
	generateCmd.Flags().StringSliceVar(&generatePostman, "postman", nil, "Postman collections")
	generateCmd.Flags().StringSliceVar(&generateSwagger, "swagger", nil, "Swagger/OpenAPI specifications")
	generateCmd.Flags().BoolVarP(&generateRecursive, "recursive", "r", false, "Scan directories recursively")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "testcases.json", "Collection file to write (.json, .yaml)")
	generateCmd.Flags().BoolVar(&generateXLSX, "xlsx", false, "Also export the full workbook to the output directory")
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "Overwrite existing files without prompting")
	rootCmd.AddCommand(generateCmd)
}

// collectInputs resolves and validates every input flag
func collectInputs() ([]upload.File, []upload.UploadResult, error) {
	inputs := []struct {
		kind upload.Kind
		args []string
	}{
		{upload.KindFRD, generateFRD},
		{upload.KindUserStories, generateStories},
		{upload.KindPostman, generatePostman},
		{upload.KindSwagger, generateSwagger},
	}

	var files []upload.File
	var skipped []upload.UploadResult
	for _, in := range inputs {
		if len(in.args) == 0 {
			continue
		}
		paths, err := upload.ResolveFiles(in.args, generateRecursive, in.kind)
		if err != nil {
			return nil, nil, err
		}
		valid, bad := upload.ValidateFiles(paths, in.kind)
		files = append(files, valid...)
		skipped = append(skipped, bad...)
	}
	return files, skipped, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if len(generateFRD)+len(generateStories)+len(generatePostman)+len(generateSwagger) == 0 {
		return clierrors.NewUsageError("Provide at least one of --frd, --stories, --postman or --swagger")
	}
	if _, err := testcase.FormatFromPath(generateOutput); err != nil {
		return clierrors.NewUsageError("Output file must end in .json, .yaml or .yml")
	}

	files, skipped, err := collectInputs()
	if err != nil {
		return clierrors.NewUsageError(err.Error())
	}

	for _, s := range skipped {
		printf(cmd, "  %s %s: %s\n", ui.WarnStyle.Render("⊘"), ui.ShortenPath(s.FilePath), s.Message)
	}
	if len(files) == 0 {
		displayUploadSummary(cmd, skipped)
		return clierrors.NewValidationError(upload.ErrMissing, "No valid input documents to upload")
	}

	if !confirmWrite(cmd, generateOutput, generateForce) {
		printLine(cmd, "Generation cancelled")
		return nil
	}

	client, session, err := newAPIClient(true)
	if err != nil {
		return err
	}
	if err := requireAuth(session); err != nil {
		return err
	}

	printf(cmd, "⏳ Uploading %d document(s)...\n", len(files))
	result, err := client.GenerateTestCases(cmd.Context(), files)

	results := make([]upload.UploadResult, 0, len(files)+len(skipped))
	for _, f := range files {
		r := upload.UploadResult{FilePath: f.Path, FileName: f.Name(), Kind: f.Kind, Status: upload.StatusSuccess}
		if err != nil {
			r.Status = upload.StatusFailed
			r.Error = err
		}
		results = append(results, r)
	}
	results = append(results, skipped...)
	displayUploadSummary(cmd, results)

	if err != nil {
		return wrapAPIError(err, "generate test cases")
	}

	if err := testcase.NewResultFile(generateOutput, result).Save(); err != nil {
		return clierrors.NewError(err, "Failed to write "+generateOutput)
	}
	logger.Info("Wrote %d generated test cases to %s", len(result.Records()), generateOutput)

	printf(cmd, "\n✓ Generated %d test case(s) → %s\n", len(result.Records()), ui.ShortenPath(generateOutput))
	if result.TestCases != nil {
		printf(cmd, "  Coverage: %g%%\n", result.TestCases.CoveragePercentage)
	}

	if generateXLSX {
		artifact, err := export.Workbook(result, now())
		if errors.Is(err, export.ErrNoTestCases) {
			printLine(cmd, ui.WarnStyle.Render("⚠ No test cases generated, skipping workbook"))
			return nil
		}
		if err != nil {
			return clierrors.NewError(err, "Failed to build workbook")
		}
		return saveArtifact(cmd, artifact, currentConfig().OutputDir, generateForce)
	}
	return nil
}

func displayUploadSummary(cmd *cobra.Command, results []upload.UploadResult) {
	summary := upload.NewUploadSummary(results)

	printLine(cmd)
	printLine(cmd, ui.Rule(41))
	printLine(cmd, "Summary")
	printLine(cmd, ui.Rule(41))
	printf(cmd, "  Total files:  %d\n", summary.Total)
	printf(cmd, "  Success:      %d\n", summary.Success)
	printf(cmd, "  Failed:       %d\n", summary.Failed)
	printf(cmd, "  Skipped:      %d\n", summary.Skipped)
	printLine(cmd, ui.Rule(41))

	// Show status message
	if summary.Failed == 0 && summary.Skipped == 0 {
		printf(cmd, "\n✓ Successfully uploaded %d file(s)\n", summary.Success)
	} else if summary.Success == 0 {
		printLine(cmd, "\n✗ All uploads failed or were skipped")
	} else {
		printf(cmd, "\n⚠ Uploaded %d file(s), %d failed, %d skipped\n",
			summary.Success, summary.Failed, summary.Skipped)
	}
}

// confirmWrite asks before replacing path unless force is set
func confirmWrite(cmd *cobra.Command, path string, force bool) bool {
	if force {
		return true
	}
	if _, err := os.Stat(path); err != nil {
		return true
	}
	ok, err := ui.NewPrompterWith(cmd.InOrStdin(), cmd.OutOrStdout()).ConfirmOverwrite(path)
	return err == nil && ok
}

// saveArtifact writes an export, asking once before replacing a file
func saveArtifact(cmd *cobra.Command, artifact export.Artifact, dir string, force bool) error {
	path, err := artifact.Save(dir, force)
	if errors.Is(err, export.ErrFileExists) {
		if !confirmWrite(cmd, path, false) {
			printLine(cmd, "Export cancelled")
			return nil
		}
		path, err = artifact.Save(dir, true)
	}
	if err != nil {
		return clierrors.NewError(err, "Failed to write "+artifact.Name)
	}

	logger.Info("Exported %s (%d bytes)", path, len(artifact.Data))
	printf(cmd, "✓ Exported %s\n", ui.ShortenPath(path))
	return nil
}
