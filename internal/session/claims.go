package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role classifies an account. The backend only ever issues these two.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// ParseRole parses a string into a Role, reporting whether it is one of
// the known values
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	return role, role.IsValid()
}

// IsValid reports whether the role is part of the closed set
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleClient:
		return true
	default:
		return false
	}
}

// Landing returns the command a user of this role lands on after
// signing in: admins manage reports, clients browse their own.
func (r Role) Landing() string {
	if r == RoleAdmin {
		return "katy reports list"
	}
	return "katy client reports list"
}

// DecodeError wraps any failure to decode a session token. Callers must
// treat it as "no usable session", never as a fatal condition.
type DecodeError struct {
	cause error
}

func (e *DecodeError) Error() string {
	return "malformed session token: " + e.cause.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.cause
}

// Claims are the payload fields the backend encodes into the token
type Claims struct {
	UID   string `json:"_id,omitempty"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Decode extracts the claims from a token without verifying its
// signature. Verification is the backend's job; the agent only holds
// the token as a bearer credential and reads role and expiry from it.
func Decode(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, &DecodeError{cause: err}
	}
	return claims, nil
}

// Expired reports whether the token's exp claim has passed at now.
// Tokens without an exp claim never expire.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.UnixMilli() <= now.UnixMilli()
}
