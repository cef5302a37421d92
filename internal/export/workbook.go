package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/testagent/cli/internal/logger"
	"github.com/testagent/cli/internal/testcase"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the generated workbook
const (
	SheetTestCases       = "Test Cases"
	SheetSummary         = "Summary"
	SheetFeatureMappings = "Feature Mappings"

	defaultSheet = "Sheet1"
)

// testCaseColumns pairs each Test Cases header with its fixed width
var testCaseColumns = []struct {
	Header string
	Width  float64
}{
	{"Test Case ID", 15},
	{"Feature Name", 25},
	{"Test Scenario", 40},
	{"Test Type", 15},
	{"Preconditions", 35},
	{"Test Steps", 50},
	{"Test Data", 35},
	{"Expected Result", 45},
	{"Priority", 12},
	{"Automation Status", 20},
}

var featureMappingHeader = []string{
	"Feature Name",
	"FRD Reference",
	"User Story Reference",
	"Feature Flow",
	"Functions Covered",
	"Is Complete",
}

// WorkbookFileName returns test-cases-<YYYY-MM-DD>.xlsx
func WorkbookFileName(now time.Time) string {
	return "test-cases-" + isoDate(now) + ".xlsx"
}

// PreviewWorkbookFileName returns test-cases-preview-<YYYY-MM-DD>.xlsx
func PreviewWorkbookFileName(now time.Time) string {
	return "test-cases-preview-" + isoDate(now) + ".xlsx"
}

// Workbook renders a generation result as a multi-sheet workbook: the test
// cases, the summary metrics and, when present, the feature mappings.
// It returns ErrNoTestCases without producing a file when the result holds
// no test cases.
func Workbook(result *testcase.GenerationResult, now time.Time) (Artifact, error) {
	records := result.Records()
	if len(records) == 0 {
		return Artifact{}, ErrNoTestCases
	}

	wb, err := newWorkbook()
	if err != nil {
		return Artifact{}, err
	}
	defer wb.close()

	if err := wb.writeTestCases(records); err != nil {
		return Artifact{}, err
	}
	if err := wb.writeSummary(result); err != nil {
		return Artifact{}, err
	}
	if mappings := result.FeatureMappings(); len(mappings) > 0 {
		if err := wb.writeFeatureMappings(mappings); err != nil {
			return Artifact{}, err
		}
	}

	data, err := wb.bytes()
	if err != nil {
		return Artifact{}, err
	}

	logger.Debug("Built workbook with %d test cases, %d feature mappings", len(records), len(result.FeatureMappings()))

	return Artifact{Name: WorkbookFileName(now), MIMEType: MIMETypeXLSX, Data: data}, nil
}

// TestCasesWorkbook renders only the Test Cases sheet, for callers holding a
// plain record collection
func TestCasesWorkbook(records testcase.Collection, now time.Time) (Artifact, error) {
	if len(records) == 0 {
		return Artifact{}, ErrNoTestCases
	}

	wb, err := newWorkbook()
	if err != nil {
		return Artifact{}, err
	}
	defer wb.close()

	if err := wb.writeTestCases(records); err != nil {
		return Artifact{}, err
	}

	data, err := wb.bytes()
	if err != nil {
		return Artifact{}, err
	}

	return Artifact{Name: PreviewWorkbookFileName(now), MIMEType: MIMETypeXLSX, Data: data}, nil
}

type workbook struct {
	f           *excelize.File
	headerStyle int
	cellStyle   int
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Vertical: "center",
			WrapText: true,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create cell style: %w", err)
	}

	return &workbook{f: f, headerStyle: headerStyle, cellStyle: cellStyle}, nil
}

func (w *workbook) close() {
	if err := w.f.Close(); err != nil {
		logger.Warn("Failed to close workbook: %v", err)
	}
}

func (w *workbook) bytes() ([]byte, error) {
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheet renames the default sheet for the first call and adds new ones after
func (w *workbook) sheet(name string) error {
	idx, err := w.f.GetSheetIndex(defaultSheet)
	if err != nil {
		return err
	}
	if idx >= 0 {
		return w.f.SetSheetName(defaultSheet, name)
	}
	_, err = w.f.NewSheet(name)
	return err
}

func (w *workbook) writeRow(sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return w.f.SetSheetRow(sheet, cell, &values)
}

func (w *workbook) styleRow(sheet string, row, columns, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, first, last, style)
}

func (w *workbook) writeHeader(sheet string, header []string) error {
	values := make([]interface{}, len(header))
	for i, h := range header {
		values[i] = h
	}
	if err := w.writeRow(sheet, 1, values); err != nil {
		return err
	}
	return w.styleRow(sheet, 1, len(header), w.headerStyle)
}

func (w *workbook) writeTestCases(records testcase.Collection) error {
	if err := w.sheet(SheetTestCases); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", SheetTestCases, err)
	}

	header := make([]string, len(testCaseColumns))
	for i, col := range testCaseColumns {
		header[i] = col.Header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := w.f.SetColWidth(SheetTestCases, name, name, col.Width); err != nil {
			return err
		}
	}
	if err := w.writeHeader(SheetTestCases, header); err != nil {
		return err
	}

	for i, r := range records {
		row := i + 2
		if err := w.writeRow(SheetTestCases, row, testCaseCells(r)); err != nil {
			return fmt.Errorf("failed to write test case row %d: %w", row, err)
		}
		if err := w.styleRow(SheetTestCases, row, len(testCaseColumns), w.cellStyle); err != nil {
			return err
		}
	}
	return nil
}

// testCaseCells keeps Expected Result raw; the workbook does not merge routes
func testCaseCells(r testcase.Record) []interface{} {
	fields := []testcase.Field{
		testcase.FieldTestCaseID,
		testcase.FieldFeatureName,
		testcase.FieldTestScenario,
		testcase.FieldTestType,
		testcase.FieldPreconditions,
		testcase.FieldTestSteps,
		testcase.FieldTestData,
		testcase.FieldExpectedResult,
		testcase.FieldPriority,
		testcase.FieldAutomationStatus,
	}
	cells := make([]interface{}, len(fields))
	for i, f := range fields {
		cells[i] = testcase.Normalize(r, f)
	}
	return cells
}

// SummaryRow is one metric/value pair of the Summary sheet
type SummaryRow struct {
	Metric string
	Value  interface{}
}

// SummaryRows derives the six Summary pairs, defaulting missing metrics to 0
// and the summary text to ""
func SummaryRows(result *testcase.GenerationResult) []SummaryRow {
	var extraction testcase.Extraction
	var suite testcase.Suite
	if result != nil && result.Extraction != nil {
		extraction = *result.Extraction
	}
	if result != nil && result.TestCases != nil {
		suite = *result.TestCases
	}

	return []SummaryRow{
		{"Total Features", extraction.TotalFeatures},
		{"Total User Stories", extraction.TotalUserStories},
		{"Features Mapped", extraction.FeaturesMapped},
		{"Total Test Cases", suite.TotalTestCases},
		{"Coverage Percentage", strconv.FormatFloat(suite.CoveragePercentage, 'f', -1, 64) + "%"},
		{"Summary", suite.Summary},
	}
}

func (w *workbook) writeSummary(result *testcase.GenerationResult) error {
	if err := w.sheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", SheetSummary, err)
	}
	if err := w.f.SetColWidth(SheetSummary, "A", "A", 25); err != nil {
		return err
	}
	if err := w.f.SetColWidth(SheetSummary, "B", "B", 60); err != nil {
		return err
	}
	if err := w.writeHeader(SheetSummary, []string{"Metric", "Value"}); err != nil {
		return err
	}

	for i, pair := range SummaryRows(result) {
		if err := w.writeRow(SheetSummary, i+2, []interface{}{pair.Metric, pair.Value}); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbook) writeFeatureMappings(mappings []testcase.FeatureMapping) error {
	if err := w.sheet(SheetFeatureMappings); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", SheetFeatureMappings, err)
	}

	widths := []float64{25, 20, 25, 45, 40, 12}
	for i, width := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := w.f.SetColWidth(SheetFeatureMappings, name, name, width); err != nil {
			return err
		}
	}
	if err := w.writeHeader(SheetFeatureMappings, featureMappingHeader); err != nil {
		return err
	}

	for i, m := range mappings {
		complete := "No"
		if m.IsComplete {
			complete = "Yes"
		}
		row := []interface{}{
			m.FeatureName,
			m.FRDReference,
			m.UserStoryReference,
			m.FeatureFlow,
			strings.Join(m.FunctionsCovered, ", "),
			complete,
		}
		if err := w.writeRow(SheetFeatureMappings, i+2, row); err != nil {
			return err
		}
		if err := w.styleRow(SheetFeatureMappings, i+2, len(featureMappingHeader), w.cellStyle); err != nil {
			return err
		}
	}
	return nil
}
