package auth

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/testagent/cli/internal/logger"
)

// CallbackPath is where the OAuth redirect lands on the loopback listener
const CallbackPath = "/callback"

var callbackPage = template.Must(template.New("callback").Parse(`<!doctype html>
<html><head><title>testagent</title></head>
<body><h3>{{.Title}}</h3><p>{{.Message}}</p></body></html>
`))

// CallbackResult is handed to the waiting login command
type CallbackResult struct {
	User       string
	HasSession bool
	Err        error
}

// CallbackServer receives the OAuth redirect on a local address
type CallbackServer struct {
	addr    string
	session *Session
	router  *mux.Router
	results chan CallbackResult
}

// NewCallbackServer builds a server that will listen on addr
func NewCallbackServer(addr string, session *Session) *CallbackServer {
	s := &CallbackServer{
		addr:    addr,
		session: session,
		results: make(chan CallbackResult, 1),
	}

	router := mux.NewRouter()
	router.HandleFunc(CallbackPath, s.callbackHandler).Methods(http.MethodGet)
	s.router = router
	return s
}

// Handler exposes the router, mainly for httptest
func (s *CallbackServer) Handler() http.Handler {
	return s.router
}

// RedirectURI is the URL the backend should redirect to after login
func (s *CallbackServer) RedirectURI() string {
	return "http://" + s.addr + CallbackPath
}

// Results delivers the outcome of each accepted callback
func (s *CallbackServer) Results() <-chan CallbackResult {
	return s.results
}

func (s *CallbackServer) callbackHandler(w http.ResponseWriter, r *http.Request) {
	if msg := r.URL.Query().Get("error"); msg != "" {
		s.render(w, http.StatusUnauthorized, "Login failed", msg)
		s.deliver(CallbackResult{Err: fmt.Errorf("login rejected: %s", msg)})
		return
	}

	_, consumed, err := ConsumeCallback(s.session, r.URL.String())
	if err != nil {
		s.render(w, http.StatusInternalServerError, "Login failed", "The session could not be stored.")
		s.deliver(CallbackResult{Err: err})
		return
	}
	if !consumed {
		// Unrelated hit, keep waiting for the real redirect
		s.render(w, http.StatusBadRequest, "Nothing to do", "This callback carried no credentials.")
		return
	}

	s.render(w, http.StatusOK, "Logged in", "You can close this tab and return to the terminal.")
	s.deliver(CallbackResult{
		User:       s.session.GitHubUser(),
		HasSession: s.session.SessionToken() != "",
	})
}

func (s *CallbackServer) render(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := callbackPage.Execute(w, struct{ Title, Message string }{title, message}); err != nil {
		logger.Warn("failed to render callback page: %v", err)
	}
}

// deliver never blocks; only the first outcome matters
func (s *CallbackServer) deliver(r CallbackResult) {
	select {
	case s.results <- r:
	default:
	}
}

// Wait listens until a callback is accepted or ctx is done
func (s *CallbackServer) Wait(ctx context.Context) (CallbackResult, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return CallbackResult{}, fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *CallbackServer) serve(ctx context.Context, ln net.Listener) (CallbackResult, error) {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("callback server shutdown: %v", err)
		}
	}()

	logger.Debug("Waiting for OAuth callback on %s", ln.Addr())

	select {
	case r := <-s.results:
		return r, r.Err
	case err := <-serveErr:
		return CallbackResult{}, err
	case <-ctx.Done():
		return CallbackResult{}, ctx.Err()
	}
}
