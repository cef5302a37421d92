package upload

import (
	"path/filepath"
	"slices"
	"strings"
)

// Kind identifies what an uploaded input document is
type Kind string

const (
	KindFRD                Kind = "frd"
	KindUserStories        Kind = "user_stories"
	KindPostman            Kind = "postman"
	KindPostmanEnvironment Kind = "postman_environment"
	KindSwagger            Kind = "swagger"
	KindImage              Kind = "image"
)

var kindExtensions = map[Kind][]string{
	KindFRD:                {".pdf", ".docx", ".doc", ".md", ".txt"},
	KindUserStories:        {".pdf", ".docx", ".doc", ".md", ".txt", ".csv", ".json"},
	KindPostman:            {".json"},
	KindPostmanEnvironment: {".json"},
	KindSwagger:            {".json", ".yaml", ".yml"},
	KindImage:              {".png", ".jpg", ".jpeg", ".webp"},
}

// Extensions returns the accepted lower-case file extensions for k
func (k Kind) Extensions() []string {
	return kindExtensions[k]
}

// Accepts reports whether path has an extension allowed for k
func (k Kind) Accepts(path string) bool {
	return slices.Contains(kindExtensions[k], strings.ToLower(filepath.Ext(path)))
}

// File is a local input document bound to its kind
type File struct {
	Kind Kind
	Path string
}

// Name returns the base file name
func (f File) Name() string {
	return filepath.Base(f.Path)
}

// UploadStatus represents the status of a file upload
type UploadStatus string

const (
	StatusSuccess UploadStatus = "success"
	StatusFailed  UploadStatus = "failed"
	StatusSkipped UploadStatus = "skipped"
)

// UploadResult represents the result of checking or uploading a single file
type UploadResult struct {
	FilePath string
	FileName string
	Kind     Kind
	Status   UploadStatus
	Error    error
	Message  string
}

// UploadSummary contains aggregated upload results
type UploadSummary struct {
	Total   int
	Success int
	Failed  int
	Skipped int
	Results []UploadResult
}

// NewUploadSummary creates a new UploadSummary from results
func NewUploadSummary(results []UploadResult) *UploadSummary {
	summary := &UploadSummary{
		Total:   len(results),
		Results: results,
	}
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			summary.Success++
		case StatusFailed:
			summary.Failed++
		case StatusSkipped:
			summary.Skipped++
		}
	}
	return summary
}
