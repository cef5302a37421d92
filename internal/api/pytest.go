package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Report states, matched with errors.Is
var (
	// ErrNoReport means there is no pytest report to show yet
	ErrNoReport = errors.New("no pytest report available")
	// ErrMalformedReport means the document is not pytest JSON
	ErrMalformedReport = errors.New("malformed pytest report")
)

// PytestSummary counts outcomes across the run
type PytestSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped,omitempty"`
	Errors  int `json:"error,omitempty"`
}

// PytestCrash points at the line that raised
type PytestCrash struct {
	Path    string `json:"path"`
	LineNo  int    `json:"lineno"`
	Message string `json:"message"`
}

// PytestTraceEntry is one frame of a failure traceback
type PytestTraceEntry struct {
	Path    string `json:"path"`
	LineNo  int    `json:"lineno"`
	Message string `json:"message"`
}

// PytestStage is the setup, call or teardown phase of a test
type PytestStage struct {
	Outcome   string             `json:"outcome"`
	Duration  float64            `json:"duration"`
	Crash     *PytestCrash       `json:"crash,omitempty"`
	LongRepr  string             `json:"longrepr,omitempty"`
	Traceback []PytestTraceEntry `json:"traceback,omitempty"`
}

// PytestTest is a single collected test
type PytestTest struct {
	NodeID   string       `json:"nodeid"`
	Outcome  string       `json:"outcome"`
	LineNo   int          `json:"lineno"`
	Keywords []string     `json:"keywords"`
	Setup    *PytestStage `json:"setup,omitempty"`
	Call     *PytestStage `json:"call,omitempty"`
	Teardown *PytestStage `json:"teardown,omitempty"`
}

// Duration sums the phases that ran
func (t PytestTest) Duration() float64 {
	var d float64
	for _, s := range []*PytestStage{t.Setup, t.Call, t.Teardown} {
		if s != nil {
			d += s.Duration
		}
	}
	return d
}

// FailureMessage returns the most specific failure text available
func (t PytestTest) FailureMessage() string {
	for _, s := range []*PytestStage{t.Call, t.Setup, t.Teardown} {
		if s == nil || s.Outcome == "passed" {
			continue
		}
		if s.Crash != nil && s.Crash.Message != "" {
			return s.Crash.Message
		}
		if s.LongRepr != "" {
			return s.LongRepr
		}
	}
	return ""
}

// PytestReport is a pytest-json-report document
type PytestReport struct {
	Summary  PytestSummary `json:"summary"`
	Tests    []PytestTest  `json:"tests"`
	Duration float64       `json:"duration"`
	Created  float64       `json:"created"`
	ExitCode int           `json:"exitcode"`
}

// Failed returns tests whose outcome is failed or error
func (r *PytestReport) Failed() []PytestTest {
	var out []PytestTest
	for _, t := range r.Tests {
		if t.Outcome == "failed" || t.Outcome == "error" {
			out = append(out, t)
		}
	}
	return out
}

// PassRate is passed/total as a percentage, 0 for an empty run
func (r *PytestReport) PassRate() float64 {
	if r.Summary.Total == 0 {
		return 0
	}
	return float64(r.Summary.Passed) / float64(r.Summary.Total) * 100
}

// ParsePytestReport decodes a report. Missing content yields ErrNoReport.
func ParsePytestReport(data []byte) (*PytestReport, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" || string(data) == "{}" {
		return nil, ErrNoReport
	}

	// longrepr is a string in most reports but an object in some plugins
	var report PytestReport
	if err := json.Unmarshal(data, &report); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %w", ErrMalformedReport, err)
		}
		report = PytestReport{}
		if err := decodeLenient(data, &report); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedReport, err)
		}
	}
	return &report, nil
}

// decodeLenient retries with longrepr dropped from every stage
func decodeLenient(data []byte, report *PytestReport) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var tests []map[string]json.RawMessage
	if t, ok := raw["tests"]; ok {
		if err := json.Unmarshal(t, &tests); err != nil {
			return err
		}
	}
	for _, test := range tests {
		for _, phase := range []string{"setup", "call", "teardown"} {
			stage, ok := test[phase]
			if !ok {
				continue
			}
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(stage, &fields); err != nil {
				continue
			}
			if lr, ok := fields["longrepr"]; ok && !bytes.HasPrefix(lr, []byte(`"`)) {
				delete(fields, "longrepr")
			}
			test[phase], _ = json.Marshal(fields)
		}
	}
	raw["tests"], _ = json.Marshal(tests)

	fixed, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(fixed, report)
}

// FetchPytestReport downloads a report from rawURL. A path starting with /
// is resolved against the backend. 404 and empty bodies yield ErrNoReport.
func (c *Client) FetchPytestReport(ctx context.Context, rawURL string) (*PytestReport, error) {
	if strings.HasPrefix(rawURL, "/") {
		rawURL = c.endpoint(rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	raw, err := c.readBody(req)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, ErrNoReport
	}
	if err != nil {
		return nil, err
	}
	return ParsePytestReport(raw)
}
