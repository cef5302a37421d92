package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clierrors "github.com/testagent/cli/internal/errors"
	"github.com/testagent/cli/internal/testcase"
	"github.com/xuri/excelize/v2"
)

const previewJSONDoc = `{
  "routesPreview": [{"method": "GET", "path": "/users", "source_file": "app/routes.py"}],
  "testCasesPreview": [
    {"testcase_id": "TC1", "feature_name": "Users", "test_scenario": "List users", "matched_route": "GET /users"},
    {"testcase_id": "TC2", "feature_name": "Orders", "test_scenario": "Create order", "priority": "Urgent"}
  ]
}`

const resultJSONDoc = `{
  "extraction": {"total_features": 2, "total_user_stories": 3, "features_mapped": 2},
  "test_cases": {
    "total_test_cases": 1,
    "coverage_percentage": 50,
    "test_cases": [{"testcase_id": "TC1", "test_steps": ["Open", "Submit"]}]
  }
}`

func resetPreviewFlags(t *testing.T) {
	setFlag(t, &previewOnlyUnmatched, false)
	setFlag(t, &previewIssues, false)
	setFlag(t, &previewJSON, false)
}

func resetEditFlags(t *testing.T) {
	setFlag(t, &editIndex, -1)
	setFlag(t, &editID, "")
	setFlag(t, &editField, "")
	setFlag(t, &editValue, "")
	setFlag(t, &editOutput, "")
}

func resetExportFlags(t *testing.T, dir string) {
	setFlag(t, &exportFormat, formatCSV)
	setFlag(t, &exportSimple, false)
	setFlag(t, &exportDir, dir)
	setFlag(t, &exportForce, false)
	setFlag(t, &now, fixedNow)
}

func TestTestcasesPreview(t *testing.T) {
	resetPreviewFlags(t)
	path := writeTempFile(t, "preview.json", previewJSONDoc)

	c, out := newTestCmd(t, "")
	require.NoError(t, runTestcasesPreview(c, []string{path}))

	assert.Contains(t, out.String(), "TC1")
	assert.Contains(t, out.String(), "TC2")
	assert.Contains(t, out.String(), "(unmatched)")
	assert.Contains(t, out.String(), "1 auto-matched / 2 total")
	assert.Contains(t, out.String(), "1 route(s) in preview")
}

func TestTestcasesPreview_OnlyUnmatchedWithIssues(t *testing.T) {
	resetPreviewFlags(t)
	setFlag(t, &previewOnlyUnmatched, true)
	setFlag(t, &previewIssues, true)
	path := writeTempFile(t, "preview.json", previewJSONDoc)

	c, out := newTestCmd(t, "")
	require.NoError(t, runTestcasesPreview(c, []string{path}))

	assert.NotContains(t, out.String(), "TC1")
	assert.Contains(t, out.String(), "TC2")
	assert.Contains(t, out.String(), `unknown priority "Urgent"`)
	// the summary still counts the whole collection
	assert.Contains(t, out.String(), "1 auto-matched / 2 total")
}

func TestTestcasesPreview_BadFile(t *testing.T) {
	resetPreviewFlags(t)
	path := writeTempFile(t, "preview.json", `{"something": "else"}`)

	c, _ := newTestCmd(t, "")
	err := runTestcasesPreview(c, []string{path})
	assert.Equal(t, clierrors.ExitValidationError, exitCode(err))
}

func TestTestcasesEdit_InPlace(t *testing.T) {
	resetEditFlags(t)
	setFlag(t, &editIndex, 1)
	setFlag(t, &editField, "edited-route")
	setFlag(t, &editValue, "/orders")
	path := writeTempFile(t, "preview.json", previewJSONDoc)

	c, out := newTestCmd(t, "")
	require.NoError(t, runTestcasesEdit(c, []string{path}))
	assert.Contains(t, out.String(), "2 auto-matched / 2 total")

	file, err := testcase.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testcase.ShapePreview, file.Shape)
	records := file.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "/orders", records[1].Route())
	assert.Equal(t, "GET /users", records[0].Route())
	require.Len(t, file.Preview.RoutesPreview, 1)
}

func TestTestcasesEdit_ByIDToOtherFile(t *testing.T) {
	resetEditFlags(t)
	path := writeTempFile(t, "preview.json", previewJSONDoc)
	target := filepath.Join(t.TempDir(), "edited.yaml")
	setFlag(t, &editID, "TC2")
	setFlag(t, &editField, "priority")
	setFlag(t, &editValue, "High")
	setFlag(t, &editOutput, target)

	c, _ := newTestCmd(t, "")
	require.NoError(t, runTestcasesEdit(c, []string{path}))

	edited, err := testcase.LoadFile(target)
	require.NoError(t, err)
	assert.Equal(t, testcase.FormatYAML, edited.Format)
	assert.Equal(t, "High", edited.Records()[1].Priority.String())

	// source untouched
	original, err := testcase.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Urgent", original.Records()[1].Priority.String())
}

func TestTestcasesEdit_Rejections(t *testing.T) {
	path := writeTempFile(t, "preview.json", previewJSONDoc)

	tests := []struct {
		name  string
		index int
		id    string
		field string
		want  clierrors.ExitCode
	}{
		{"protected field", 0, "", "matched_route", clierrors.ExitValidationError},
		{"id is fixed", 0, "", "testcase_id", clierrors.ExitValidationError},
		{"unknown field", 0, "", "colour", clierrors.ExitUsageError},
		{"index out of range", 5, "", "priority", clierrors.ExitValidationError},
		{"unknown id", -1, "TC9", "priority", clierrors.ExitValidationError},
		{"no selector", -1, "", "priority", clierrors.ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetEditFlags(t)
			setFlag(t, &editIndex, tt.index)
			setFlag(t, &editID, tt.id)
			setFlag(t, &editField, tt.field)
			setFlag(t, &editValue, "x")

			c, _ := newTestCmd(t, "")
			err := runTestcasesEdit(c, []string{path})
			assert.Equal(t, tt.want, exitCode(err))
		})
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, previewJSONDoc, string(data))
}

func TestTestcasesExport_CSV(t *testing.T) {
	dir := t.TempDir()
	resetExportFlags(t, dir)
	useConfig(t, nil)
	path := writeTempFile(t, "preview.json", previewJSONDoc)

	c, out := newTestCmd(t, "")
	require.NoError(t, runTestcasesExport(c, []string{path}))
	assert.Contains(t, out.String(), "Exported")

	data, err := os.ReadFile(filepath.Join(dir, "test-cases-preview-2026-03-09.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"TC2","Orders","Create order"`)
}

func TestTestcasesExport_ExistingFilePrompts(t *testing.T) {
	dir := t.TempDir()
	resetExportFlags(t, dir)
	useConfig(t, nil)
	path := writeTempFile(t, "preview.json", previewJSONDoc)
	target := filepath.Join(dir, "test-cases-preview-2026-03-09.csv")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0644))

	c, out := newTestCmd(t, "n\n")
	require.NoError(t, runTestcasesExport(c, []string{path}))
	assert.Contains(t, out.String(), "Export cancelled")
	data, _ := os.ReadFile(target)
	assert.Equal(t, "old", string(data))

	c, _ = newTestCmd(t, "y\n")
	require.NoError(t, runTestcasesExport(c, []string{path}))
	data, _ = os.ReadFile(target)
	assert.Contains(t, string(data), "TC1")
}

func TestTestcasesExport_FullWorkbookForResults(t *testing.T) {
	dir := t.TempDir()
	resetExportFlags(t, dir)
	setFlag(t, &exportFormat, "XLSX")
	useConfig(t, nil)
	path := writeTempFile(t, "result.json", resultJSONDoc)

	c, _ := newTestCmd(t, "")
	require.NoError(t, runTestcasesExport(c, []string{path}))

	f, err := excelize.OpenFile(filepath.Join(dir, "test-cases-2026-03-09.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Summary")
}

func TestTestcasesExport_SimpleWorkbook(t *testing.T) {
	dir := t.TempDir()
	resetExportFlags(t, dir)
	setFlag(t, &exportFormat, formatXLSX)
	setFlag(t, &exportSimple, true)
	useConfig(t, nil)
	path := writeTempFile(t, "result.json", resultJSONDoc)

	c, _ := newTestCmd(t, "")
	require.NoError(t, runTestcasesExport(c, []string{path}))

	f, err := excelize.OpenFile(filepath.Join(dir, "test-cases-preview-2026-03-09.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Test Cases"}, f.GetSheetList())
}

func TestTestcasesExport_Rejections(t *testing.T) {
	dir := t.TempDir()
	useConfig(t, nil)

	t.Run("unknown format", func(t *testing.T) {
		resetExportFlags(t, dir)
		setFlag(t, &exportFormat, "pdf")
		c, _ := newTestCmd(t, "")
		err := runTestcasesExport(c, []string{writeTempFile(t, "p.json", previewJSONDoc)})
		assert.Equal(t, clierrors.ExitUsageError, exitCode(err))
	})

	t.Run("empty workbook", func(t *testing.T) {
		resetExportFlags(t, dir)
		setFlag(t, &exportFormat, formatXLSX)
		c, _ := newTestCmd(t, "")
		err := runTestcasesExport(c, []string{writeTempFile(t, "empty.json", `[]`)})
		assert.Equal(t, clierrors.ExitValidationError, exitCode(err))
		entries, _ := os.ReadDir(dir)
		assert.Empty(t, entries)
	})
}
