package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testagent/cli/internal/auth"
	"github.com/testagent/cli/internal/config"
	"golang.org/x/time/rate"
)

// newTestClient serves handler and returns a client signed in as alice
func newTestClient(t *testing.T, handler http.Handler) (*Client, *auth.Session) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.APIEndpoint = server.URL

	session := auth.NewSession(auth.NewMemoryStore())
	require.NoError(t, session.SetGitHub("alice", "gho_abc"))

	return NewClient(cfg, session), session
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func tempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestClient_APIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message field", http.StatusBadRequest, `{"message":"repo is required"}`, "repo is required"},
		{"fastapi detail", http.StatusUnprocessableEntity, `{"detail":"bad payload"}`, "bad payload"},
		{"error field", http.StatusForbidden, `{"error":"forbidden"}`, "forbidden"},
		{"plain text", http.StatusBadGateway, "upstream down\n", "upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))

			_, err := client.LoginURL(context.Background(), "")

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestClient_NoRetry(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := client.LoginURL(context.Background(), "")
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestClient_SessionHeaders(t *testing.T) {
	var gotAuth, gotSession string
	client, session := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotSession = r.Header.Get("X-Session-Token")
		writeJSON(t, w, http.StatusOK, map[string]string{"auth_url": "https://github.com/login"})
	}))
	require.NoError(t, session.SetSessionToken("st_1"))

	_, err := client.LoginURL(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "token gho_abc", gotAuth)
	assert.Equal(t, "st_1", gotSession)
}

func TestClient_NoCredentialsToForeignHosts(t *testing.T) {
	var gotAuth string
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"summary":{"total":1,"passed":1,"failed":0},"tests":[]}`)
	}))
	defer foreign.Close()

	client, _ := newTestClient(t, http.NotFoundHandler())

	_, err := client.FetchPytestReport(context.Background(), foreign.URL+"/report.json")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_Limiter(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{"auth_url": "x"})
	}))
	WithLimiter(rate.NewLimiter(rate.Every(time.Hour), 1))(client)

	ctx := context.Background()
	_, err := client.LoginURL(ctx, "")
	require.NoError(t, err)

	// the only token is spent, so the next call gives up at the deadline
	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = client.LoginURL(ctx, "")
	assert.Error(t, err)
}

func TestNewClient_LimiterFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Nil(t, NewClient(cfg, nil).limiter)

	cfg.RequestsPerSecond = 4
	client := NewClient(cfg, nil)
	require.NotNil(t, client.limiter)
	assert.Equal(t, rate.Limit(4), client.limiter.Limit())
}
