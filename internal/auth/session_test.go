package auth

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores() map[string]func() Store {
	return map[string]func() Store{
		"memory":  func() Store { return NewMemoryStore() },
		"keyring": func() Store { return NewKeyringStore(keyring.NewArrayKeyring(nil)) },
	}
}

func TestStore_Contract(t *testing.T) {
	for name, open := range stores() {
		t.Run(name, func(t *testing.T) {
			s := open()

			_, err := s.Get(KeyGitHubToken)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(KeyGitHubToken, "gho_abc"))
			v, err := s.Get(KeyGitHubToken)
			require.NoError(t, err)
			assert.Equal(t, "gho_abc", v)

			require.NoError(t, s.Remove(KeyGitHubToken))
			assert.NoError(t, s.Remove(KeyGitHubToken), "removing twice is fine")

			_, err = s.Get(KeyGitHubToken)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSession_AuthenticatedAndClear(t *testing.T) {
	session := NewSession(NewMemoryStore())
	assert.False(t, session.IsAuthenticated())

	require.NoError(t, session.SetGitHub("alice", "gho_abc"))
	require.NoError(t, session.SetSessionToken("st_1"))

	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "alice", session.GitHubUser())
	assert.Equal(t, "st_1", session.SessionToken())

	require.NoError(t, session.Clear())
	assert.False(t, session.IsAuthenticated())
	assert.Empty(t, session.GitHubUser())
	assert.Empty(t, session.SessionToken())
}

func TestConsumeCallback(t *testing.T) {
	tests := []struct {
		name         string
		rawURL       string
		wantClean    string
		wantConsumed bool
		wantUser     string
		wantToken    string
		wantSession  string
	}{
		{
			name:         "github identity",
			rawURL:       "http://localhost:3000/dashboard?user=alice&token=gho_abc",
			wantClean:    "http://localhost:3000/dashboard",
			wantConsumed: true,
			wantUser:     "alice",
			wantToken:    "gho_abc",
		},
		{
			name:         "session token only",
			rawURL:       "http://localhost:3000/?session_token=st_9",
			wantClean:    "http://localhost:3000/",
			wantConsumed: true,
			wantSession:  "st_9",
		},
		{
			name:         "both",
			rawURL:       "/callback?user=bob&token=t1&session_token=s1",
			wantClean:    "/callback",
			wantConsumed: true,
			wantUser:     "bob",
			wantToken:    "t1",
			wantSession:  "s1",
		},
		{
			name:      "nothing to consume still strips query",
			rawURL:    "http://localhost:3000/dashboard?tab=repos",
			wantClean: "http://localhost:3000/dashboard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := NewSession(NewMemoryStore())

			clean, consumed, err := ConsumeCallback(session, tt.rawURL)
			require.NoError(t, err)

			assert.Equal(t, tt.wantClean, clean)
			assert.Equal(t, tt.wantConsumed, consumed)
			assert.Equal(t, tt.wantUser, session.GitHubUser())
			assert.Equal(t, tt.wantToken, session.GitHubToken())
			assert.Equal(t, tt.wantSession, session.SessionToken())
		})
	}
}

func TestConsumeCallback_InvalidURL(t *testing.T) {
	_, _, err := ConsumeCallback(NewSession(NewMemoryStore()), "http://[::1")
	assert.Error(t, err)
}
