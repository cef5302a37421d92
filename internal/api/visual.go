package api

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/testagent/cli/internal/upload"
)

// Location is the bounding box of a visual difference
type Location struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Difference is one region that changed between baseline and current
type Difference struct {
	Severity    string   `json:"severity"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description"`
	Location    Location `json:"location"`
}

// VisualReport summarizes a comparison
type VisualReport struct {
	Status      string       `json:"status"`
	Summary     string       `json:"summary"`
	Differences []Difference `json:"differences"`
}

// VisualData is the payload of a visual comparison
type VisualData struct {
	Report                 VisualReport `json:"report"`
	SSIMScore              float64      `json:"ssim_score"`
	BaselineBase64         string       `json:"baseline_base64"`
	AnnotatedCurrentBase64 string       `json:"annotated_current_base64"`
}

// VisualResult is the answer of the visual testing endpoint
type VisualResult struct {
	Data VisualData `json:"data"`
}

// Baseline decodes the baseline image echoed by the backend
func (r *VisualResult) Baseline() ([]byte, error) {
	return decodeImage(r.Data.BaselineBase64)
}

// AnnotatedCurrent decodes the current image with differences drawn on it
func (r *VisualResult) AnnotatedCurrent() ([]byte, error) {
	return decodeImage(r.Data.AnnotatedCurrentBase64)
}

// decodeImage accepts raw base64 or a data: URL
func decodeImage(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	for i := 0; i < len(s) && i < 64; i++ {
		if s[i] == ',' {
			s = s[i+1:]
			break
		}
	}
	return base64.StdEncoding.DecodeString(s)
}

// CompareImages uploads a baseline and a current screenshot for diffing.
// Both images must be present before anything is sent.
func (c *Client) CompareImages(ctx context.Context, baselinePath, currentPath string) (*VisualResult, error) {
	if baselinePath == "" || currentPath == "" {
		return nil, fmt.Errorf("%w: both a baseline and a current image are required", ErrInvalidRequest)
	}
	for _, p := range []string{baselinePath, currentPath} {
		if err := upload.ValidateFile(p, upload.KindImage); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}

	form := newMultipartForm()
	if err := form.addFile("baseline", baselinePath); err != nil {
		return nil, err
	}
	if err := form.addFile("current", currentPath); err != nil {
		return nil, err
	}
	if err := form.close(); err != nil {
		return nil, err
	}

	var result VisualResult
	if err := c.postMultipart(ctx, "/api/visual-testing", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
