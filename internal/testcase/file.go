package testcase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a collection file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Shape is the top-level layout found in a collection file
type Shape string

const (
	// ShapeList is a bare array of records
	ShapeList Shape = "list"
	// ShapePreview is a route extraction preview with testCasesPreview
	ShapePreview Shape = "preview"
	// ShapeResult is a test-case generation result
	ShapeResult Shape = "result"
)

// File is a collection file loaded from disk. Edits go through SetRecords so
// the original shape is preserved when saving.
type File struct {
	Path    string
	Format  Format
	Shape   Shape
	Preview *RoutePreview
	Result  *GenerationResult
	records Collection
}

// Records returns the test cases held by the file
func (f *File) Records() Collection {
	return f.records
}

// SetRecords replaces the records in whichever shape the file holds
func (f *File) SetRecords(c Collection) {
	f.records = c
	switch f.Shape {
	case ShapePreview:
		f.Preview.TestCasesPreview = c
	case ShapeResult:
		if f.Result.TestCases == nil {
			f.Result.TestCases = &Suite{}
		}
		f.Result.TestCases.TestCases = c
	}
}

// FormatFromPath picks the encoding from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported collection file extension %q (use .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// LoadFile reads a collection file in any supported shape
func LoadFile(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}

	var f *File
	if format == FormatJSON {
		f, err = decodeJSON(data)
	} else {
		f, err = decodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	f.Path = path
	f.Format = format
	return f, nil
}

func decodeJSON(data []byte) (*File, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	if data[0] == '[' {
		var c Collection
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return &File{Shape: ShapeList, records: c}, nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, err
	}

	shape, err := detectShape(func(k string) bool { _, ok := keys[k]; return ok })
	if err != nil {
		return nil, err
	}

	if shape == ShapePreview {
		var p RoutePreview
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return &File{Shape: shape, Preview: &p, records: p.TestCasesPreview}, nil
	}

	var r GenerationResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &File{Shape: shape, Result: &r, records: r.Records()}, nil
}

func decodeYAML(data []byte) (*File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	root := doc.Content[0]

	switch root.Kind {
	case yaml.SequenceNode:
		var c Collection
		if err := root.Decode(&c); err != nil {
			return nil, err
		}
		return &File{Shape: ShapeList, records: c}, nil
	case yaml.MappingNode:
	default:
		return nil, fmt.Errorf("line %d: expected a list of test cases or a mapping", root.Line)
	}

	keys := make(map[string]bool)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keys[root.Content[i].Value] = true
	}

	shape, err := detectShape(func(k string) bool { return keys[k] })
	if err != nil {
		return nil, err
	}

	if shape == ShapePreview {
		var p RoutePreview
		if err := root.Decode(&p); err != nil {
			return nil, err
		}
		return &File{Shape: shape, Preview: &p, records: p.TestCasesPreview}, nil
	}

	var r GenerationResult
	if err := root.Decode(&r); err != nil {
		return nil, err
	}
	return &File{Shape: shape, Result: &r, records: r.Records()}, nil
}

func detectShape(has func(string) bool) (Shape, error) {
	if has("testCasesPreview") || has("routesPreview") {
		return ShapePreview, nil
	}
	if has("test_cases") || has("extraction") {
		return ShapeResult, nil
	}
	return "", fmt.Errorf("unrecognised document: expected testCasesPreview, test_cases or extraction")
}

// Save writes the file back to its path in its original format and shape
func (f *File) Save() error {
	return f.SaveAs(f.Path)
}

// SaveAs writes the file to path, picking the format from its extension
func (f *File) SaveAs(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var doc interface{}
	switch f.Shape {
	case ShapePreview:
		doc = f.Preview
	case ShapeResult:
		doc = f.Result
	default:
		records := f.records
		if records == nil {
			records = Collection{}
		}
		doc = records
	}

	var data []byte
	if format == FormatJSON {
		data, err = json.MarshalIndent(doc, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	} else {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(doc)
		if err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	}
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}

	// Write to temporary file first, then rename over the target
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return err
	}
	return nil
}

// NewFile wraps records as a bare list collection file
func NewFile(path string, c Collection) *File {
	format, _ := FormatFromPath(path)
	return &File{Path: path, Format: format, Shape: ShapeList, records: c}
}

// NewPreviewFile wraps a route preview for saving
func NewPreviewFile(path string, p *RoutePreview) *File {
	format, _ := FormatFromPath(path)
	return &File{Path: path, Format: format, Shape: ShapePreview, Preview: p, records: p.TestCasesPreview}
}

// NewResultFile wraps a generation result for saving
func NewResultFile(path string, r *GenerationResult) *File {
	format, _ := FormatFromPath(path)
	return &File{Path: path, Format: format, Shape: ShapeResult, Result: r, records: r.Records()}
}
