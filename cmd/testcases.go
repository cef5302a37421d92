package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	clierrors "github.com/testagent/cli/internal/errors"
	"github.com/testagent/cli/internal/export"
	"github.com/testagent/cli/internal/logger"
	"github.com/testagent/cli/internal/testcase"
	"github.com/testagent/cli/internal/ui"
)

// Export formats
const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

var (
	previewOnlyUnmatched bool
	previewIssues        bool
	previewJSON          bool

	editIndex  int
	editID     string
	editField  string
	editValue  string
	editOutput string

	exportFormat string
	exportSimple bool
	exportDir    string
	exportForce  bool
)

// now is swapped in tests to pin export file names
var now = time.Now

var testcasesCmd = &cobra.Command{
	Use:     "testcases",
	Aliases: []string{"tc"},
	Short:   "Review, edit and export test case collections",
	GroupID: groupTestCases,
	Long: `Work with collection files written by 'generate' or 'routes extract'.

A collection file is JSON or YAML holding a list of test cases, a route
preview (testCasesPreview) or a generation result (test_cases).`,
}

var testcasesPreviewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Show test cases with their route matching",
	Example: `  testagent testcases preview testcases-preview.json
  testagent testcases preview testcases.json --only-unmatched --issues`,
	Args: cobra.ExactArgs(1),
	RunE: runTestcasesPreview,
}

var testcasesEditCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Change one field of one test case",
	Example: `  testagent testcases edit testcases-preview.json --index 3 --field edited_route --value "/api/orders"
  testagent testcases edit testcases.json --id TC-007 --field priority --value High -o edited.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runTestcasesEdit,
}

var testcasesExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export test cases to CSV or a spreadsheet",
	Example: `  testagent testcases export testcases-preview.json                 # CSV into the output directory
  testagent testcases export testcases.json --format xlsx           # Full workbook with summary sheets
  testagent testcases export testcases.json --format xlsx --simple  # Test cases sheet only`,
	Args: cobra.ExactArgs(1),
	RunE: runTestcasesExport,
}

func init() {
	testcasesPreviewCmd.Flags().BoolVar(&previewOnlyUnmatched, "only-unmatched", false, "Show only test cases without a route")
	testcasesPreviewCmd.Flags().BoolVar(&previewIssues, "issues", false, "Show unknown enumerated values")
	testcasesPreviewCmd.Flags().BoolVar(&previewJSON, "json", false, "Print the listed records as JSON")

	testcasesEditCmd.Flags().IntVar(&editIndex, "index", -1, "Zero-based position of the test case")
	testcasesEditCmd.Flags().StringVar(&editID, "id", "", "Test case id to edit")
	testcasesEditCmd.Flags().StringVar(&editField, "field", "", "Field to change (e.g. test_steps, edited_route)")
	testcasesEditCmd.Flags().StringVar(&editValue, "value", "", "New value")
	testcasesEditCmd.Flags().StringVarP(&editOutput, "output", "o", "", "Write to another file instead of in place")
	testcasesEditCmd.MarkFlagsMutuallyExclusive("index", "id")
	_ = testcasesEditCmd.MarkFlagRequired("field")

	testcasesExportCmd.Flags().StringVarP(&exportFormat, "format", "f", formatCSV, "Export format: csv or xlsx")
	testcasesExportCmd.Flags().BoolVar(&exportSimple, "simple", false, "Single-sheet workbook even for generation results")
	testcasesExportCmd.Flags().StringVar(&exportDir, "dir", "", "Output directory (default: configured output_dir)")
	testcasesExportCmd.Flags().BoolVar(&exportForce, "force", false, "Overwrite an existing export without prompting")

	testcasesCmd.AddCommand(testcasesPreviewCmd)
	testcasesCmd.AddCommand(testcasesEditCmd)
	testcasesCmd.AddCommand(testcasesExportCmd)
	rootCmd.AddCommand(testcasesCmd)
}

// loadCollection reads a collection file with CLI-level errors
func loadCollection(path string) (*testcase.File, error) {
	file, err := testcase.LoadFile(path)
	if err != nil {
		return nil, clierrors.NewValidationError(err, "Cannot read collection "+path+": "+err.Error())
	}
	logger.Debug("Loaded %d test cases from %s (%s, %s)", len(file.Records()), path, file.Format, file.Shape)
	return file, nil
}

func runTestcasesPreview(cmd *cobra.Command, args []string) error {
	file, err := loadCollection(args[0])
	if err != nil {
		return err
	}
	records := file.Records()

	// indices keep file order so they can be passed to edit --index
	listed := make([]int, 0, len(records))
	for i, r := range records {
		if previewOnlyUnmatched && r.IsMatched() {
			continue
		}
		listed = append(listed, i)
	}

	if previewJSON {
		out := make(testcase.Collection, 0, len(listed))
		for _, i := range listed {
			out = append(out, records[i])
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	printLine(cmd, previewHeader())
	for _, i := range listed {
		r := records[i]
		printLine(cmd, ui.RowStyle(r.IsMatched()).Render(previewRow(i, r)))
		if previewIssues {
			for _, issue := range r.Issues() {
				printf(cmd, "       %s %s\n", ui.WarnStyle.Render("⚠"), issue)
			}
		}
	}

	printLine(cmd)
	printLine(cmd, ui.BoldStyle.Render(records.MatchSummary().String()))
	if file.Shape == testcase.ShapePreview && len(file.Preview.RoutesPreview) > 0 {
		printf(cmd, "%s\n", ui.FaintStyle.Render(fmt.Sprintf("%d route(s) in preview", len(file.Preview.RoutesPreview))))
	}
	return nil
}

func previewHeader() string {
	return ui.HeaderStyle.Render(strings.Join([]string{
		ui.Cell("#", 4),
		ui.Cell("ID", 10),
		ui.Cell("Feature", 18),
		ui.Cell("Scenario", 36),
		ui.Cell("Route", 24),
	}, " "))
}

func previewRow(index int, r testcase.Record) string {
	route := r.Route()
	if route == "" {
		route = "(unmatched)"
	}
	return strings.Join([]string{
		ui.Cell(strconv.Itoa(index), 4),
		ui.Cell(testcase.Normalize(r, testcase.FieldTestCaseID), 10),
		ui.Cell(testcase.Normalize(r, testcase.FieldFeatureName), 18),
		ui.Cell(testcase.Normalize(r, testcase.FieldTestScenario), 36),
		ui.Cell(route, 24),
	}, " ")
}

// resolveIndex finds the record addressed by --index or --id
func resolveIndex(records testcase.Collection) (int, error) {
	if editID != "" {
		for i, r := range records {
			if r.TestCaseID.String() == editID {
				return i, nil
			}
		}
		return -1, clierrors.NewValidationError(nil, fmt.Sprintf("No test case with id %q", editID))
	}
	if editIndex < 0 {
		return -1, clierrors.NewUsageError("Provide --index or --id")
	}
	if editIndex >= len(records) {
		return -1, clierrors.NewValidationError(nil,
			fmt.Sprintf("Index %d is out of range (collection has %d test cases)", editIndex, len(records)))
	}
	return editIndex, nil
}

func runTestcasesEdit(cmd *cobra.Command, args []string) error {
	field, err := testcase.ParseField(editField)
	if err != nil {
		return clierrors.NewUsageError(err.Error())
	}
	if !field.Editable() {
		return clierrors.NewValidationError(nil, fmt.Sprintf("Field %s cannot be edited", field))
	}

	target := args[0]
	if editOutput != "" {
		target = editOutput
	}
	if _, err := testcase.FormatFromPath(target); err != nil {
		return clierrors.NewUsageError("Output file must end in .json, .yaml or .yml")
	}

	file, err := loadCollection(args[0])
	if err != nil {
		return err
	}
	records := file.Records()

	index, err := resolveIndex(records)
	if err != nil {
		return err
	}

	before := testcase.Normalize(records[index], field)
	updated := records.UpdateField(index, field, editValue)
	file.SetRecords(updated)

	if err := file.SaveAs(target); err != nil {
		return clierrors.NewError(err, "Failed to write "+target)
	}
	logger.Info("Edited %s of test case %d in %s", field, index, target)

	printf(cmd, "✓ Updated %s of test case %d\n", field, index)
	printf(cmd, "  %s %s\n", ui.FaintStyle.Render("-"), ui.Truncate(before, 80))
	printf(cmd, "  %s %s\n", ui.SuccessStyle.Render("+"), ui.Truncate(testcase.Normalize(updated[index], field), 80))
	if records[index].IsMatched() != updated[index].IsMatched() {
		printf(cmd, "  %s\n", updated.MatchSummary())
	}
	return nil
}

func runTestcasesExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(exportFormat)
	if format != formatCSV && format != formatXLSX {
		return clierrors.NewUsageError(fmt.Sprintf("Unknown format %q (use csv or xlsx)", exportFormat))
	}

	file, err := loadCollection(args[0])
	if err != nil {
		return err
	}

	dir := exportDir
	if dir == "" {
		dir = currentConfig().OutputDir
	}

	var artifact export.Artifact
	switch {
	case format == formatCSV:
		artifact = export.CSV(file.Records(), now())
	case file.Shape == testcase.ShapeResult && !exportSimple:
		artifact, err = export.Workbook(file.Result, now())
	default:
		artifact, err = export.TestCasesWorkbook(file.Records(), now())
	}
	if errors.Is(err, export.ErrNoTestCases) {
		return clierrors.NewValidationError(err, "No test cases to export in "+args[0])
	}
	if err != nil {
		return clierrors.NewError(err, "Failed to build the export")
	}

	return saveArtifact(cmd, artifact, dir, exportForce)
}
