package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testagent/cli/internal/api"
	"github.com/testagent/cli/internal/auth"
	"github.com/testagent/cli/internal/config"
	clierrors "github.com/testagent/cli/internal/errors"
)

func TestConsumeLoginURL(t *testing.T) {
	session := auth.NewSession(auth.NewMemoryStore())

	c, out := newTestCmd(t, "")
	require.NoError(t, consumeLoginURL(c, session, "http://localhost:3000/?user=alice&token=gho_abcdefghijkl"))

	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "alice", session.GitHubUser())
	assert.Contains(t, out.String(), "Logged in as")
}

func TestConsumeLoginURL_NoCredentials(t *testing.T) {
	session := auth.NewSession(auth.NewMemoryStore())

	c, _ := newTestCmd(t, "")
	err := consumeLoginURL(c, session, "http://localhost:3000/dashboard")

	assert.Equal(t, clierrors.ExitAuthError, exitCode(err))
	assert.False(t, session.IsAuthenticated())
}

func TestRepos_RequiresLogin(t *testing.T) {
	useConfig(t, nil)
	setFlag(t, &reposConcurrency, 4)

	c, _ := newTestCmd(t, "")
	err := runRepos(c, nil)
	assert.Equal(t, clierrors.ExitAuthError, exitCode(err))
}

func TestRepos_BadConcurrency(t *testing.T) {
	useConfig(t, nil)
	setFlag(t, &reposConcurrency, 0)

	c, _ := newTestCmd(t, "")
	assert.Equal(t, clierrors.ExitUsageError, exitCode(runRepos(c, nil)))
}

func TestGenerate_Rejections(t *testing.T) {
	useConfig(t, nil)
	setFlag(t, &generateOutput, filepath.Join(t.TempDir(), "out.json"))
	setFlag(t, &generateStories, []string(nil))
	setFlag(t, &generatePostman, []string(nil))
	setFlag(t, &generateSwagger, []string(nil))

	t.Run("no inputs", func(t *testing.T) {
		setFlag(t, &generateFRD, []string(nil))
		c, _ := newTestCmd(t, "")
		assert.Equal(t, clierrors.ExitUsageError, exitCode(runGenerate(c, nil)))
	})

	t.Run("only invalid inputs", func(t *testing.T) {
		empty := writeTempFile(t, "empty.md", "")
		setFlag(t, &generateFRD, []string{empty, filepath.Join(t.TempDir(), "missing.pdf")})

		c, out := newTestCmd(t, "")
		err := runGenerate(c, nil)
		assert.Equal(t, clierrors.ExitValidationError, exitCode(err))
		assert.Contains(t, out.String(), "Skipped:      2")
	})

	t.Run("bad output extension", func(t *testing.T) {
		setFlag(t, &generateFRD, []string{"frd.md"})
		setFlag(t, &generateOutput, "out.txt")
		c, _ := newTestCmd(t, "")
		assert.Equal(t, clierrors.ExitUsageError, exitCode(runGenerate(c, nil)))
	})
}

func resetPerfFlags(t *testing.T) {
	setFlag(t, &perfMethod, "GET")
	setFlag(t, &perfMode, api.ModeLoad)
	setFlag(t, &perfDuration, 10)
	setFlag(t, &perfStartUsers, 1)
	setFlag(t, &perfMaxUsers, 10)
	setFlag(t, &perfStepUsers, 1)
	setFlag(t, &perfStepDuration, 5)
	setFlag(t, &perfHeaders, []string(nil))
	setFlag(t, &perfBody, "")
	setFlag(t, &perfJSON, false)
}

func TestPerf(t *testing.T) {
	resetPerfFlags(t)
	setFlag(t, &perfMode, "STRESS")
	setFlag(t, &perfHeaders, []string{"Accept: text/plain"})

	var got api.PerformanceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/performance/test", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"avgLatency": 42.5, "requestsPerSec": 12.5, "successRate": 99.5, "totalRequests": 250}`))
	}))
	defer srv.Close()
	useConfig(t, func(c *config.UserConfig) { c.APIEndpoint = srv.URL })

	c, out := newTestCmd(t, "")
	require.NoError(t, runPerf(c, []string{"https://shop.example.com"}))

	assert.Equal(t, api.ModeStress, got.TestMode)
	require.NotNil(t, got.StressConfig)
	assert.Equal(t, 10, got.StressConfig.MaxUsers)
	assert.Equal(t, "text/plain", got.Headers["Accept"])
	assert.Contains(t, out.String(), "Requests/sec:   12.50")
	assert.Contains(t, out.String(), "Total requests: 250")
}

func TestPerf_MissingURLNeverDispatched(t *testing.T) {
	resetPerfFlags(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer srv.Close()
	useConfig(t, func(c *config.UserConfig) { c.APIEndpoint = srv.URL })

	c, _ := newTestCmd(t, "")
	assert.Equal(t, clierrors.ExitValidationError, exitCode(runPerf(c, []string{" "})))
}

func TestVisual_MissingImageNeverDispatched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer srv.Close()
	useConfig(t, func(c *config.UserConfig) { c.APIEndpoint = srv.URL })
	setFlag(t, &visualSaveDir, "")

	baseline := writeTempFile(t, "baseline.png", "png-bytes")
	c, _ := newTestCmd(t, "")
	err := runVisual(c, []string{baseline, filepath.Join(t.TempDir(), "current.png")})
	assert.Equal(t, clierrors.ExitValidationError, exitCode(err))
}

func TestReportPytest_FromFile(t *testing.T) {
	useConfig(t, nil)
	setFlag(t, &reportFailedOnly, true)
	setFlag(t, &reportJSON, false)
	path := writeTempFile(t, "report.json", `{
		"summary": {"total": 2, "passed": 1, "failed": 1},
		"tests": [
			{"nodeid": "tests/test_a.py::test_ok", "outcome": "passed"},
			{"nodeid": "tests/test_a.py::test_bad", "outcome": "failed",
			 "call": {"outcome": "failed", "duration": 0.5, "crash": {"message": "AssertionError: 401 != 200"}}}
		]
	}`)

	c, out := newTestCmd(t, "")
	require.NoError(t, runReportPytest(c, []string{path}))

	assert.Contains(t, out.String(), "Pass rate: 50.0%")
	assert.Contains(t, out.String(), "test_bad")
	assert.Contains(t, out.String(), "AssertionError: 401 != 200")
	assert.NotContains(t, out.String(), "test_ok")
}

func TestReportPytest_NoReportYet(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	useConfig(t, func(c *config.UserConfig) { c.APIEndpoint = srv.URL })
	setFlag(t, &reportFailedOnly, false)
	setFlag(t, &reportJSON, false)

	c, out := newTestCmd(t, "")
	require.NoError(t, runReportPytest(c, []string{"/api/reports/pytest/latest"}))
	assert.Contains(t, out.String(), "No report available yet")
}

func TestReportPytest_Malformed(t *testing.T) {
	useConfig(t, nil)
	path := writeTempFile(t, "report.json", `["not", "a", "report"]`)

	c, _ := newTestCmd(t, "")
	err := runReportPytest(c, []string{path})
	assert.Equal(t, clierrors.ExitValidationError, exitCode(err))
}
