package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveFiles expands arguments into file paths for kind. Each argument may
// be a file, a glob pattern or a directory; directories are scanned for files
// with an accepted extension (recursively when asked). Explicit files are
// kept even if their extension is wrong so validation can report them.
func ResolveFiles(args []string, recursive bool, kind Kind) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) error {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", path, err)
		}
		if seen[absPath] {
			return nil
		}
		seen[absPath] = true
		files = append(files, absPath)
		return nil
	}

	for _, arg := range args {
		if strings.ContainsAny(arg, "*?[") {
			matches, err := filepath.Glob(arg)
			if err != nil {
				return nil, fmt.Errorf("invalid glob pattern %s: %w", arg, err)
			}
			for _, match := range matches {
				if info, err := os.Stat(match); err == nil && info.IsDir() {
					continue
				}
				if err := add(match); err != nil {
					return nil, err
				}
			}
			continue
		}

		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			dirFiles, err := scanDirectory(arg, recursive, kind)
			if err != nil {
				return nil, err
			}
			for _, f := range dirFiles {
				if err := add(f); err != nil {
					return nil, err
				}
			}
			continue
		}

		// Single file, missing ones are reported by ValidateFiles
		if err := add(arg); err != nil {
			return nil, err
		}
	}

	return files, nil
}

// scanDirectory scans a directory for files accepted by kind
func scanDirectory(dir string, recursive bool, kind Kind) ([]string, error) {
	var files []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip files with errors
		}

		if info.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		if !kind.Accepts(path) {
			return nil
		}

		files = append(files, path)
		return nil
	}

	if err := filepath.Walk(dir, walkFn); err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", dir, err)
	}

	return files, nil
}
