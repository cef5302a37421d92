package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Performance test modes
const (
	ModeLoad   = "load"
	ModeStress = "stress"
)

// StressConfig ramps virtual users up in steps
type StressConfig struct {
	StartUsers   int `json:"startUsers"`
	MaxUsers     int `json:"maxUsers"`
	StepUsers    int `json:"stepUsers"`
	StepDuration int `json:"stepDuration"`
}

// PerformanceRequest describes a load or stress run against URL
type PerformanceRequest struct {
	URL          string            `json:"url"`
	Method       string            `json:"method"`
	TestMode     string            `json:"testMode"`
	Duration     int               `json:"duration,omitempty"`
	StressConfig *StressConfig     `json:"stressConfig,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	Body         string            `json:"body,omitempty"`
}

// Validate rejects requests the backend could not run
func (r *PerformanceRequest) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return fmt.Errorf("%w: target URL is required", ErrInvalidRequest)
	}
	if u, err := url.Parse(r.URL); err != nil || u.Host == "" {
		return fmt.Errorf("%w: target URL %q is not absolute", ErrInvalidRequest, r.URL)
	}

	if r.Method == "" {
		r.Method = http.MethodGet
	}
	r.Method = strings.ToUpper(r.Method)

	switch r.TestMode {
	case "", ModeLoad:
		r.TestMode = ModeLoad
		if r.Duration <= 0 {
			return fmt.Errorf("%w: load test needs a positive duration", ErrInvalidRequest)
		}
		r.StressConfig = nil
	case ModeStress:
		sc := r.StressConfig
		if sc == nil {
			return fmt.Errorf("%w: stress test needs a stress configuration", ErrInvalidRequest)
		}
		if sc.StartUsers <= 0 || sc.MaxUsers < sc.StartUsers || sc.StepUsers <= 0 || sc.StepDuration <= 0 {
			return fmt.Errorf("%w: stress configuration needs 0 < start <= max users, a positive step and step duration", ErrInvalidRequest)
		}
		r.Duration = 0
	default:
		return fmt.Errorf("%w: unknown test mode %q", ErrInvalidRequest, r.TestMode)
	}
	return nil
}

// PerformanceResult carries aggregate metrics, or a free-form report
type PerformanceResult struct {
	AvgLatency     float64 `json:"avgLatency"`
	RequestsPerSec float64 `json:"requestsPerSec"`
	SuccessRate    float64 `json:"successRate"`
	TotalRequests  int     `json:"totalRequests"`
	Report         string  `json:"report,omitempty"`
}

// HasMetrics reports whether the answer carried numbers rather than a report
func (r *PerformanceResult) HasMetrics() bool {
	return r.TotalRequests > 0 || r.AvgLatency > 0 || r.RequestsPerSec > 0
}

// RunPerformanceTest validates req and runs it on the backend
func (c *Client) RunPerformanceTest(ctx context.Context, req PerformanceRequest) (*PerformanceResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var result PerformanceResult
	if err := c.postJSON(ctx, "/api/performance/test", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
