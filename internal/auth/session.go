package auth

import (
	"errors"
	"fmt"
	"net/url"
)

// Fixed session keys shared with the web dashboard
const (
	KeyGitHubToken  = "github_token"
	KeyGitHubUser   = "github_user"
	KeySessionToken = "session_token"
)

var sessionKeys = []string{KeyGitHubToken, KeyGitHubUser, KeySessionToken}

// Session holds the signed-in identity. It is passed explicitly to whatever
// needs it instead of living in global state.
type Session struct {
	store Store
}

// NewSession returns a session backed by store
func NewSession(store Store) *Session {
	return &Session{store: store}
}

func (s *Session) get(key string) string {
	v, err := s.store.Get(key)
	if err != nil {
		return ""
	}
	return v
}

// GitHubToken returns the stored GitHub token, or "" when signed out
func (s *Session) GitHubToken() string { return s.get(KeyGitHubToken) }

// GitHubUser returns the stored GitHub login
func (s *Session) GitHubUser() string { return s.get(KeyGitHubUser) }

// SessionToken returns the platform session token
func (s *Session) SessionToken() string { return s.get(KeySessionToken) }

// IsAuthenticated reports whether a GitHub token is present
func (s *Session) IsAuthenticated() bool {
	return s.GitHubToken() != ""
}

// SetGitHub stores the GitHub identity returned by the OAuth callback
func (s *Session) SetGitHub(user, token string) error {
	if err := s.store.Set(KeyGitHubUser, user); err != nil {
		return err
	}
	return s.store.Set(KeyGitHubToken, token)
}

// SetSessionToken stores the platform session token
func (s *Session) SetSessionToken(token string) error {
	return s.store.Set(KeySessionToken, token)
}

// Clear removes every session key
func (s *Session) Clear() error {
	var errs []error
	for _, key := range sessionKeys {
		if err := s.store.Remove(key); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// ConsumeCallback persists the credentials carried by an OAuth callback URL.
// It accepts ?user=&token= and/or ?session_token=. The returned URL has its
// query string removed whether or not anything was consumed.
func ConsumeCallback(s *Session, rawURL string) (string, bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false, fmt.Errorf("invalid callback URL: %w", err)
	}

	q := u.Query()
	u.RawQuery = ""
	u.ForceQuery = false
	clean := u.String()

	consumed := false
	if token := q.Get("token"); token != "" {
		if err := s.SetGitHub(q.Get("user"), token); err != nil {
			return clean, false, err
		}
		consumed = true
	}
	if st := q.Get("session_token"); st != "" {
		if err := s.SetSessionToken(st); err != nil {
			return clean, consumed, err
		}
		consumed = true
	}

	return clean, consumed, nil
}
