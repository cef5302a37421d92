package api

import (
	"context"
	"fmt"

	"github.com/testagent/cli/internal/testcase"
)

// RouteQuery selects the repository revision to scan for routes
type RouteQuery struct {
	Username string `json:"username"`
	Repo     string `json:"repo"`
	Branch   string `json:"branch"`
}

func (q RouteQuery) validate() error {
	if q.Username == "" || q.Repo == "" || q.Branch == "" {
		return fmt.Errorf("%w: username, repo and branch are required", ErrInvalidRequest)
	}
	return nil
}

// RouteExtractRequest asks for routes and matched test cases. RouteFiles can
// be empty to let the backend use every discovered file.
type RouteExtractRequest struct {
	RouteQuery
	RouteFiles []string `json:"routeFiles,omitempty"`
}

type discoverResponse struct {
	RouteFiles []string `json:"routeFiles"`
}

// DiscoverRouteFiles returns the source files that declare API routes
func (c *Client) DiscoverRouteFiles(ctx context.Context, q RouteQuery) ([]string, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if _, err := c.githubToken(); err != nil {
		return nil, err
	}

	var resp discoverResponse
	if err := c.postJSON(ctx, c.config.RouteDiscoverPath, q, &resp); err != nil {
		return nil, err
	}
	return resp.RouteFiles, nil
}

// ExtractRoutes runs route extraction and matching for the given files
func (c *Client) ExtractRoutes(ctx context.Context, r RouteExtractRequest) (*testcase.RoutePreview, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	if _, err := c.githubToken(); err != nil {
		return nil, err
	}

	var preview testcase.RoutePreview
	if err := c.postJSON(ctx, c.config.RouteExtractPath, r, &preview); err != nil {
		return nil, err
	}
	return &preview, nil
}
