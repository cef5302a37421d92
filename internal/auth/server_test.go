package auth

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackServer_Handler(t *testing.T) {
	session := NewSession(NewMemoryStore())
	srv := NewCallbackServer("127.0.0.1:8765", session)
	assert.Equal(t, "http://127.0.0.1:8765/callback", srv.RedirectURI())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?user=alice&token=gho_abc", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged in")
	assert.Equal(t, "gho_abc", session.GitHubToken())

	select {
	case r := <-srv.Results():
		assert.NoError(t, r.Err)
		assert.Equal(t, "alice", r.User)
		assert.False(t, r.HasSession)
	default:
		t.Fatal("expected a callback result")
	}
}

func TestCallbackServer_IgnoresEmptyCallback(t *testing.T) {
	srv := NewCallbackServer("127.0.0.1:0", NewSession(NewMemoryStore()))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, srv.Results())
}

func TestCallbackServer_ErrorParam(t *testing.T) {
	srv := NewCallbackServer("127.0.0.1:0", NewSession(NewMemoryStore()))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?error=access_denied", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	r := <-srv.Results()
	assert.ErrorContains(t, r.Err, "access_denied")
}

func TestCallbackServer_RejectsPost(t *testing.T) {
	srv := NewCallbackServer("127.0.0.1:0", NewSession(NewMemoryStore()))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/callback?token=x", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCallbackServer_Serve(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	session := NewSession(NewMemoryStore())
	srv := NewCallbackServer(ln.Addr().String(), session)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type outcome struct {
		result CallbackResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := srv.serve(ctx, ln)
		done <- outcome{r, err}
	}()

	resp, err := http.Get(fmt.Sprintf("%s?user=carol&token=t&session_token=s", srv.RedirectURI()))
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	got := <-done
	require.NoError(t, got.err)
	assert.Equal(t, "carol", got.result.User)
	assert.True(t, got.result.HasSession)
}

func TestCallbackServer_ServeCancelled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewCallbackServer(ln.Addr().String(), NewSession(NewMemoryStore()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = srv.serve(ctx, ln)
	assert.ErrorIs(t, err, context.Canceled)
}
