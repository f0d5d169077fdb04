package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kd-consultores/katy-agent/internal/api"
	"github.com/kd-consultores/katy-agent/internal/keychain"
	"github.com/kd-consultores/katy-agent/internal/session"
)

func mintToken(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	claims := &session.Claims{
		UID:   "u1",
		Role:  role,
		Email: "eva@kd.cl",
		Name:  "Eva Duarte",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}

func newTestSession(t *testing.T) *session.Context {
	t.Helper()
	return session.Load(keychain.NewMockKeychain(), filepath.Join(t.TempDir(), "user.json"))
}

// setTestClient installs a session-bound client so commands never touch
// the real config or keychain; the previous client is restored on
// cleanup.
func setTestClient(t *testing.T, baseURL string, sess *session.Context) *api.AuthenticatedClient {
	t.Helper()
	prev := activeClient
	activeClient = api.NewAuthenticatedClient(baseURL, sess)
	t.Cleanup(func() { activeClient = prev })
	return activeClient
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestGuardUnauthenticated(t *testing.T) {
	setTestClient(t, "http://localhost:0", newTestSession(t))

	_, err := execute(t, "reports", "list")
	if !errors.Is(err, errSigninRequired) {
		t.Fatalf("expected signin-required error, got %v", err)
	}
}

func TestGuardExpiredToken(t *testing.T) {
	sess := newTestSession(t)
	if err := sess.SetToken(mintToken(t, "admin", time.Now().Add(-time.Hour))); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	setTestClient(t, "http://localhost:0", sess)

	_, err := execute(t, "reports", "list")
	if !errors.Is(err, errSigninRequired) {
		t.Fatalf("expected signin-required error for expired token, got %v", err)
	}
}

func TestGuardWrongRole(t *testing.T) {
	sess := newTestSession(t)
	if err := sess.SetToken(mintToken(t, "client", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	setTestClient(t, "http://localhost:0", sess)

	// Admin-only surfaces reject a client account
	for _, args := range [][]string{
		{"reports", "list"},
		{"companies", "list"},
		{"admin", "user-new"},
	} {
		if _, err := execute(t, args...); !errors.Is(err, errWrongRole) {
			t.Errorf("%v: expected wrong-role error, got %v", args, err)
		}
	}

	// And an admin cannot use the client portal
	sess2 := newTestSession(t)
	if err := sess2.SetToken(mintToken(t, "admin", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	setTestClient(t, "http://localhost:0", sess2)
	if _, err := execute(t, "client", "reports", "list"); !errors.Is(err, errWrongRole) {
		t.Fatalf("expected wrong-role error, got %v", err)
	}
}

func TestHomeMenuSignedOut(t *testing.T) {
	setTestClient(t, "http://localhost:0", newTestSession(t))

	out, err := execute(t)
	if err != nil {
		t.Fatalf("root command failed: %v", err)
	}
	if !strings.Contains(out, "signin") || !strings.Contains(out, "signup") {
		t.Errorf("signed-out menu should offer signin and signup, got:\n%s", out)
	}
	if strings.Contains(out, "reports list") {
		t.Errorf("signed-out menu must not show protected entries, got:\n%s", out)
	}
}

func TestHomeMenuAdmin(t *testing.T) {
	sess := newTestSession(t)
	if err := sess.SetToken(mintToken(t, "admin", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	setTestClient(t, "http://localhost:0", sess)

	out, err := execute(t)
	if err != nil {
		t.Fatalf("root command failed: %v", err)
	}
	for _, want := range []string{"INFORMES", "EMPRESAS", "ADMIN", "workorders list", "Eva Duarte"} {
		if !strings.Contains(out, want) {
			t.Errorf("admin menu missing %q, got:\n%s", want, out)
		}
	}
}

func TestHomeMenuClient(t *testing.T) {
	sess := newTestSession(t)
	if err := sess.SetToken(mintToken(t, "client", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	setTestClient(t, "http://localhost:0", sess)

	out, err := execute(t)
	if err != nil {
		t.Fatalf("root command failed: %v", err)
	}
	if !strings.Contains(out, "client reports list") {
		t.Errorf("client menu missing portal entry, got:\n%s", out)
	}
	if strings.Contains(out, "EMPRESAS") || strings.Contains(out, "admin user-new") {
		t.Errorf("client menu must not show admin entries, got:\n%s", out)
	}
}

func TestUnknownSubcommandFallsBackToMenu(t *testing.T) {
	setTestClient(t, "http://localhost:0", newTestSession(t))

	out, err := execute(t, "no-such-screen")
	if err != nil {
		t.Fatalf("unknown subcommand should land on the menu, got %v", err)
	}
	if !strings.Contains(out, "KATY") {
		t.Errorf("expected the menu, got:\n%s", out)
	}
}
