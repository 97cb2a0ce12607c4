// Package session holds the client-side auth state: bearer token plus
// the user it belongs to. The token survives restarts in a small JSON
// file; everything else is transient. The session is passed explicitly
// into whatever issues authenticated requests, never ambient.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the authenticated account as returned by the auth endpoints.
type User struct {
	ID    string `json:"id,omitempty"`
	Nome  string `json:"nome,omitempty"`
	Email string `json:"email,omitempty"`
}

type credentials struct {
	AccessToken string    `json:"access_token"`
	User        *User     `json:"user,omitempty"`
	SavedAt     time.Time `json:"saved_at"`
}

// Session is the explicit auth context for one run of the client.
// Single-user, sequential writers only; no locking needed.
type Session struct {
	path   string
	token  string
	user   *User
	logger *slog.Logger
}

// Load initializes a session from the token file. A missing file,
// unreadable file or expired token all yield a valid unauthenticated
// session; load never fails the caller.
func Load(path string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{path: path, logger: logger}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("session.load.read_error", "path", path, "error", err)
		}
		return s
	}

	var creds credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		logger.Warn("session.load.decode_error", "path", path, "error", err)
		return s
	}
	if creds.AccessToken == "" || tokenExpired(creds.AccessToken) {
		logger.Info("session.load.token_expired", "path", path)
		return s
	}

	s.token = creds.AccessToken
	s.user = creds.User
	logger.Info("session.load.ok", "authenticated", true)
	return s
}

// Token returns the bearer token, empty when unauthenticated.
func (s *Session) Token() string { return s.token }

// User returns the account attached to the session, nil when unknown.
func (s *Session) User() *User { return s.user }

// Authenticated reports whether the session carries a usable token.
func (s *Session) Authenticated() bool { return s.token != "" }

// SetCredentials installs a fresh token and user and persists them.
func (s *Session) SetCredentials(token string, user *User) error {
	s.token = token
	s.user = user

	creds := credentials{AccessToken: token, User: user, SavedAt: time.Now().UTC()}
	raw, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	s.logger.Info("session.credentials.saved", "path", s.path)
	return nil
}

// SetUser refreshes the cached account without touching the token.
func (s *Session) SetUser(user *User) { s.user = user }

// Logout tears the session down: memory cleared, token file removed.
func (s *Session) Logout() error {
	s.token = ""
	s.user = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	s.logger.Info("session.logout.ok")
	return nil
}

// tokenExpired decodes the JWT exp claim without verifying the
// signature; verification is the server's job, the client only avoids
// presenting a token it already knows is stale. Malformed tokens count
// as expired.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
