package api

import (
	"context"
	"fmt"

	"github.com/testagent/cli/internal/logger"
	"github.com/testagent/cli/internal/testcase"
	"github.com/testagent/cli/internal/upload"
)

// GenerateTestCases uploads the input documents and returns the generated
// suite. Each file is sent under a form field named after its kind.
func (c *Client) GenerateTestCases(ctx context.Context, files []upload.File) (*testcase.GenerationResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: at least one input document is required", ErrInvalidRequest)
	}

	form := newMultipartForm()
	for _, f := range files {
		if err := upload.ValidateFile(f.Path, f.Kind); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		if err := form.addFile(string(f.Kind), f.Path); err != nil {
			return nil, err
		}
		logger.Debug("Attached %s as %s", f.Name(), f.Kind)
	}
	if err := form.close(); err != nil {
		return nil, err
	}

	var result testcase.GenerationResult
	if err := c.postMultipart(ctx, c.config.GeneratePath, form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
