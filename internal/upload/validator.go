package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Validation failures, matched with errors.Is
var (
	ErrMissing     = errors.New("file not found")
	ErrDirectory   = errors.New("path is a directory, not a file")
	ErrEmpty       = errors.New("file is empty")
	ErrUnsupported = errors.New("unsupported file type")
)

// ValidateFile checks that path is a non-empty regular file accepted by kind
func ValidateFile(path string, kind Kind) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrMissing)
		}
		return err
	}

	if info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrDirectory)
	}

	if !kind.Accepts(path) {
		return fmt.Errorf("%s: %w for %s (want %s)", path, ErrUnsupported, kind,
			strings.Join(kind.Extensions(), ", "))
	}

	if info.Size() == 0 {
		return fmt.Errorf("%s: %w", path, ErrEmpty)
	}

	return nil
}

// ValidateFiles splits files into valid inputs and skipped results
func ValidateFiles(files []string, kind Kind) ([]File, []UploadResult) {
	var valid []File
	var skipped []UploadResult

	for _, path := range files {
		if err := ValidateFile(path, kind); err != nil {
			skipped = append(skipped, UploadResult{
				FilePath: path,
				FileName: filepath.Base(path),
				Kind:     kind,
				Status:   StatusSkipped,
				Error:    err,
				Message:  skipMessage(err),
			})
			continue
		}
		valid = append(valid, File{Kind: kind, Path: path})
	}

	return valid, skipped
}

func skipMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissing):
		return "File not found"
	case errors.Is(err, ErrDirectory):
		return "Path is a directory, not a file"
	case errors.Is(err, ErrUnsupported):
		return "Unsupported file type"
	case errors.Is(err, ErrEmpty):
		return "File is empty"
	default:
		return err.Error()
	}
}
