package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/testagent/cli/internal/auth"
	"github.com/testagent/cli/internal/config"
	"github.com/testagent/cli/internal/logger"
	"github.com/testagent/cli/internal/utils"
	"golang.org/x/time/rate"
)

// maxResponseSize bounds JSON responses; binary downloads stream instead
const maxResponseSize = 20 * 1024 * 1024

// ErrNotAuthenticated is returned when a call needs a GitHub token and the
// session has none
var ErrNotAuthenticated = errors.New("not authenticated, run 'testagent login' first")

// ErrInvalidRequest marks input rejected before anything is sent
var ErrInvalidRequest = errors.New("invalid request")

// APIError is a non-2xx answer from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Client talks to the test agent backend
type Client struct {
	baseURL    string
	baseHost   string
	config     *config.UserConfig
	session    *auth.Session
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the instrumented default client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter throttles every outgoing request
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a backend client for cfg. session may be nil for calls
// that need no identity.
func NewClient(cfg *config.UserConfig, session *auth.Session, opts ...Option) *Client {
	c := &Client{
		baseURL:    cfg.GetAPIEndpoint(),
		config:     cfg,
		session:    session,
		httpClient: utils.NewHTTPClient(),
	}
	if u, err := url.Parse(c.baseURL); err == nil {
		c.baseHost = u.Host
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root without trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) githubToken() (string, error) {
	if c.session == nil || !c.session.IsAuthenticated() {
		return "", ErrNotAuthenticated
	}
	return c.session.GitHubToken(), nil
}

// send waits for the limiter, attaches the session and performs req. Any
// non-2xx status is turned into an *APIError.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	// Credentials only go to the backend, never to caller-supplied hosts
	if c.session != nil && req.URL.Host == c.baseHost {
		if token := c.session.GitHubToken(); token != "" && req.Header.Get("Authorization") == "" {
			req.Header.Set("Authorization", "token "+token)
		}
		if st := c.session.SessionToken(); st != "" {
			req.Header.Set("X-Session-Token", st)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, utils.WrapNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer utils.DrainAndClose(resp.Body)
		return nil, parseError(resp)
	}

	return resp, nil
}

// parseError builds an APIError from an error response
func parseError(resp *http.Response) error {
	body, _ := utils.ReadResponseBody(resp, 64*1024)
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch {
		case errResp.Message != "":
			apiErr.Message = errResp.Message
		case errResp.Detail != "":
			apiErr.Message = errResp.Detail
		case errResp.Error != "":
			apiErr.Message = errResp.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}

	logger.Debug("API error %d: %s", apiErr.StatusCode, apiErr.Message)
	return apiErr
}

// endpoint joins path onto the base URL
func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// getJSON performs a GET and decodes the JSON answer into out
func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.doJSON(req, out)
}

// postJSON sends in as JSON and decodes the answer into out
func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := utils.NewRequestWithJSON(ctx, http.MethodPost, c.endpoint(path), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.doJSON(req, out)
}

// readBody performs req and returns the bounded response body
func (c *Client) readBody(req *http.Request) ([]byte, error) {
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer utils.DrainAndClose(resp.Body)

	return utils.ReadResponseBody(resp, maxResponseSize)
}

func (c *Client) doJSON(req *http.Request, out interface{}) error {
	body, err := c.readBody(req)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// postMultipart sends a prepared multipart body and decodes the answer
func (c *Client) postMultipart(ctx context.Context, path string, form *multipartForm, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(form.body.Bytes()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.contentType())
	return c.doJSON(req, out)
}

// download POSTs in as JSON and copies the binary answer into w
func (c *Client) download(ctx context.Context, path string, in interface{}, accept string, w io.Writer) (int64, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := utils.NewRequestWithJSON(ctx, http.MethodPost, c.endpoint(path), body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", accept)

	resp, err := c.send(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if pw, ok := w.(interface{ SetTotal(int64) }); ok {
		pw.SetTotal(resp.ContentLength)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read response body: %w", err)
	}
	return n, nil
}
