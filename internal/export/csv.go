package export

import (
	"regexp"
	"strings"
	"time"

	"github.com/testagent/cli/internal/testcase"
)

// CSVHeader is the fixed column order of the preview CSV
var CSVHeader = []string{
	"Test Case ID",
	"Feature Name",
	"Test Scenario",
	"Test Type",
	"Preconditions",
	"Test Steps",
	"Test Data",
	"Expected Result",
	"Priority",
	"Automation Status",
}

// NotAvailable fills cells whose field is missing
const NotAvailable = "N/A"

var newlines = regexp.MustCompile(`\r\n|\r|\n`)

// CSVFileName returns test-cases-preview-<YYYY-MM-DD>.csv
func CSVFileName(now time.Time) string {
	return "test-cases-preview-" + isoDate(now) + ".csv"
}

// CSV renders records as the preview CSV download.
//
// Every cell is quoted. Preconditions, Test Steps and Expected Result fall
// back to an empty cell when missing; every other column falls back to N/A.
// The Expected Result cell carries the user-edited route when there is one.
func CSV(records testcase.Collection, now time.Time) Artifact {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, csvLine(CSVHeader))

	for _, r := range records {
		lines = append(lines, csvLine(CSVRow(r)))
	}

	return Artifact{
		Name:     CSVFileName(now),
		MIMEType: MIMETypeCSV,
		Data:     []byte(strings.Join(lines, "\n")),
	}
}

// CSVRow returns the ten unquoted cells of one record
func CSVRow(r testcase.Record) []string {
	orNA := func(f testcase.Field) string {
		if v := testcase.Normalize(r, f); v != "" {
			return v
		}
		return NotAvailable
	}

	return []string{
		orNA(testcase.FieldTestCaseID),
		orNA(testcase.FieldFeatureName),
		orNA(testcase.FieldTestScenario),
		orNA(testcase.FieldTestType),
		testcase.Normalize(r, testcase.FieldPreconditions),
		testcase.Normalize(r, testcase.FieldTestSteps),
		orNA(testcase.FieldTestData),
		MergedExpectedResult(r),
		orNA(testcase.FieldPriority),
		orNA(testcase.FieldAutomationStatus),
	}
}

// MergedExpectedResult appends "; <edited_route>" to the expected result
// when the user linked the test case to a route
func MergedExpectedResult(r testcase.Record) string {
	expected := testcase.Normalize(r, testcase.FieldExpectedResult)
	if route := testcase.Normalize(r, testcase.FieldEditedRoute); route != "" {
		return expected + testcase.ListSeparator + route
	}
	return expected
}

func csvLine(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = quoteCell(c)
	}
	return strings.Join(quoted, ",")
}

// quoteCell flattens line breaks and applies CSV double-quote escaping
func quoteCell(s string) string {
	s = newlines.ReplaceAllString(s, testcase.ListSeparator)
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
