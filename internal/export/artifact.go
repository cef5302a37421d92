package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	MIMETypeCSV  = "text/csv;charset=utf-8"
	MIMETypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ErrNoTestCases is returned when there is nothing to export
var ErrNoTestCases = errors.New("no test cases to export")

// ErrFileExists is returned by Save when the target exists and overwrite is off
var ErrFileExists = errors.New("file already exists")

// Artifact is a generated download: a file name, its MIME type and content
type Artifact struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Save writes the artifact into dir and returns the written path.
// The write goes through a temp file and a rename so a partially written
// export never replaces an existing one.
func (a Artifact) Save(dir string, overwrite bool) (string, error) {
	if a.Name == "" {
		return "", fmt.Errorf("artifact has no file name")
	}
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	target := filepath.Join(dir, a.Name)
	if !overwrite {
		if _, err := os.Stat(target); err == nil {
			return target, fmt.Errorf("%w: %s", ErrFileExists, target)
		}
	}

	tempFile := target + ".tmp"
	if err := os.WriteFile(tempFile, a.Data, 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tempFile, target); err != nil {
		os.Remove(tempFile)
		return "", err
	}

	return target, nil
}

// isoDate is the calendar date component used in export file names
func isoDate(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}
