package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/testagent/cli/internal/upload"
)

// PostmanRun is the outcome of a collection run. Results is kept raw so it
// can be handed back for PDF generation unchanged.
type PostmanRun struct {
	Total   int             `json:"total"`
	Passed  int             `json:"passed"`
	Failed  int             `json:"failed"`
	Results json.RawMessage `json:"results"`
}

// RunPostmanCollection executes a collection, optionally with an environment
func (c *Client) RunPostmanCollection(ctx context.Context, collection string, environment string) (*PostmanRun, error) {
	if collection == "" {
		return nil, fmt.Errorf("%w: a collection file is required", ErrInvalidRequest)
	}
	if err := upload.ValidateFile(collection, upload.KindPostman); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if environment != "" {
		if err := upload.ValidateFile(environment, upload.KindPostmanEnvironment); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}

	form := newMultipartForm()
	if err := form.addFile("collection", collection); err != nil {
		return nil, err
	}
	if environment != "" {
		if err := form.addFile("environment", environment); err != nil {
			return nil, err
		}
	}
	if err := form.close(); err != nil {
		return nil, err
	}

	var run PostmanRun
	if err := c.postMultipart(ctx, "/api/integrations/postman/run-collection", form, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// GeneratePostmanPDF renders run results as a PDF report written to w. If w
// has a SetTotal(int64) method it is told the expected size first.
func (c *Client) GeneratePostmanPDF(ctx context.Context, results json.RawMessage, w io.Writer) (int64, error) {
	if len(results) == 0 || string(results) == "null" {
		return 0, fmt.Errorf("%w: no run results to render", ErrInvalidRequest)
	}

	payload := struct {
		Results json.RawMessage `json:"results"`
	}{results}

	return c.download(ctx, "/api/integrations/postman/generate-pdf", payload, "application/pdf", w)
}
