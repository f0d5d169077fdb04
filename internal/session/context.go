package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kd-consultores/katy-agent/internal/keychain"
)

// User is the in-memory projection of the signed-in account. Company is
// only present for client accounts; the profile endpoint fills it in.
type User struct {
	ID      string   `json:"_id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Role    string   `json:"role"`
	RUT     string   `json:"rut,omitempty"`
	Company *Company `json:"company,omitempty"`
}

// Company is the client company a user belongs to
type Company struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	RUT  string `json:"rut,omitempty"`
}

// Context owns the session state for the lifetime of one agent process:
// the bearer token, the last-known user, and their durable mirrors.
// It is constructed once in command wiring and injected everywhere a
// session is needed.
type Context struct {
	store     keychain.Keychain
	cachePath string

	token string
	user  *User
	gen   uint64

	// Now is the clock used for expiry checks. Tests override it.
	Now func() time.Time
}

// Load builds a Context from durable storage. It never fails: a missing
// or unreadable token or user cache simply yields an unauthenticated
// context, so a corrupted keychain can't lock the user out of signin.
func Load(store keychain.Keychain, cachePath string) *Context {
	c := &Context{
		store:     store,
		cachePath: cachePath,
		Now:       time.Now,
	}

	if raw, err := store.Get(keychain.KeyAccessToken); err == nil {
		c.token = normalizeToken(raw)
	}

	if user, err := readUserCache(cachePath); err == nil {
		c.user = user
	}

	return c
}

// normalizeToken strips the JSON quoting that pre-1.0 releases applied
// when persisting the token
func normalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if len(token) >= 2 && strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`) {
		token = token[1 : len(token)-1]
	}
	return token
}

func readUserCache(path string) (*User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to parse user cache: %w", err)
	}

	// Validate at the boundary: a cache entry with an unknown role is
	// worse than no cache entry.
	if _, ok := ParseRole(user.Role); !ok {
		return nil, fmt.Errorf("user cache has unknown role %q", user.Role)
	}

	return &user, nil
}

// Token returns the current bearer token, or "" when signed out
func (c *Context) Token() string {
	return c.token
}

// User returns the current user, or nil when none is known
func (c *Context) User() *User {
	return c.user
}

// Generation identifies the current sign-in epoch. It changes whenever
// the token is cleared, so responses that started before a logout can
// be recognized as stale (see SetUserIfCurrent).
func (c *Context) Generation() uint64 {
	return c.gen
}

// SetToken replaces the session token and synchronizes durable storage.
// A non-empty token is persisted and decoded; when no user is set yet a
// provisional one is populated from the claims so the UI has an
// identity before the profile fetch lands. Decode failures are
// swallowed; the token may still be honored by the backend.
func (c *Context) SetToken(token string) error {
	c.token = token

	if token == "" {
		c.gen++
		if err := c.store.Delete(keychain.KeyAccessToken); err != nil {
			return fmt.Errorf("failed to clear stored token: %w", err)
		}
		return nil
	}

	if err := c.store.Set(keychain.KeyAccessToken, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	if claims, err := Decode(token); err == nil && c.user == nil {
		c.user = &User{
			ID:    claims.UID,
			Name:  claims.Name,
			Email: claims.Email,
			Role:  claims.Role,
		}
		// Best effort: the provisional user is replaced by /auth/me
		// anyway, so a failed cache write must not fail the sign-in.
		_ = c.writeUserCache(c.user)
	}

	return nil
}

// SetUser replaces the current user and mirrors it to the durable
// cache; passing nil clears both.
func (c *Context) SetUser(user *User) error {
	c.user = user
	return c.writeUserCache(user)
}

// SetUserIfCurrent applies SetUser only when gen still matches the
// context's generation. Callers capture Generation() before a profile
// fetch; a logout while the fetch is in flight bumps the generation and
// the late response is discarded instead of resurrecting the user.
func (c *Context) SetUserIfCurrent(gen uint64, user *User) error {
	if gen != c.gen {
		return nil
	}
	return c.SetUser(user)
}

func (c *Context) writeUserCache(user *User) error {
	if user == nil {
		if err := os.Remove(c.cachePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to clear user cache: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0700); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	if err := os.WriteFile(c.cachePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write user cache: %w", err)
	}
	return nil
}

// IsAuthenticated derives the authentication state on every call: a
// token must be present, decodable, and unexpired. Any decode failure
// counts as signed out.
func (c *Context) IsAuthenticated() bool {
	if c.token == "" {
		return false
	}
	claims, err := Decode(c.token)
	if err != nil {
		return false
	}
	return !claims.Expired(c.Now())
}

// Logout clears the token and the user, including both durable
// entries. It is purely client side: the backend token stays valid
// until it expires on its own.
func (c *Context) Logout() error {
	err := c.SetToken("")
	if uerr := c.SetUser(nil); uerr != nil && err == nil {
		err = uerr
	}
	return err
}
