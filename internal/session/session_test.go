package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := signedToken(t, time.Now().Add(time.Hour))

	s := Load(path, nil)
	if s.Authenticated() {
		t.Fatal("fresh session should be unauthenticated")
	}

	user := &User{ID: "u1", Nome: "Ana", Email: "ana@example.com"}
	if err := s.SetCredentials(token, user); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}

	// A new process load must see the persisted credentials.
	reloaded := Load(path, nil)
	if !reloaded.Authenticated() {
		t.Fatal("reloaded session should be authenticated")
	}
	if reloaded.Token() != token {
		t.Error("token did not survive the round trip")
	}
	if u := reloaded.User(); u == nil || u.Email != "ana@example.com" {
		t.Errorf("user did not survive the round trip: %+v", u)
	}
}

func TestLoadExpiredToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	s := Load(path, nil)
	if err := s.SetCredentials(signedToken(t, time.Now().Add(-time.Hour)), nil); err != nil {
		t.Fatal(err)
	}

	if Load(path, nil).Authenticated() {
		t.Error("expired token must not authenticate a fresh session")
	}
}

func TestLoadGarbageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if Load(path, nil).Authenticated() {
		t.Error("unreadable token file must yield an unauthenticated session")
	}
}

func TestLogout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	s := Load(path, nil)
	if err := s.SetCredentials(signedToken(t, time.Now().Add(time.Hour)), &User{ID: "u1"}); err != nil {
		t.Fatal(err)
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.Authenticated() || s.User() != nil {
		t.Error("logout must clear in-memory state")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("logout must remove the token file")
	}

	// Logging out twice is fine.
	if err := s.Logout(); err != nil {
		t.Errorf("second Logout: %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	if tokenExpired(signedToken(t, time.Now().Add(time.Minute))) {
		t.Error("future token reported expired")
	}
	if !tokenExpired(signedToken(t, time.Now().Add(-time.Minute))) {
		t.Error("past token reported valid")
	}
	if !tokenExpired("garbage") {
		t.Error("malformed token must count as expired")
	}
}
