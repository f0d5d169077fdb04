package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kd-consultores/katy-agent/internal/session"
)

// AuthenticatedClient wraps Client with the current session. Every
// request carries `Authorization: Bearer <token>` while a token is
// attached; without one requests go out unauthenticated and the backend
// rejects the protected ones.
type AuthenticatedClient struct {
	client  *Client
	session *session.Context
}

// NewAuthenticatedClient creates an API client bound to a session
func NewAuthenticatedClient(baseURL string, sess *session.Context) *AuthenticatedClient {
	return &AuthenticatedClient{
		client:  NewClient(baseURL),
		session: sess,
	}
}

// Session exposes the bound session context
func (ac *AuthenticatedClient) Session() *session.Context {
	return ac.session
}

func (ac *AuthenticatedClient) do(req *http.Request) (*http.Response, error) {
	if token := ac.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ac.client.retryableRequest(req)
}

func (ac *AuthenticatedClient) newJSONRequest(method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	var data []byte

	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ac.client.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		}
	}
	return req, nil
}

// getJSON performs a GET and decodes the response into out
func (ac *AuthenticatedClient) getJSON(path string, out any) error {
	req, err := ac.newJSONRequest(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return ac.doJSON(req, out)
}

func (ac *AuthenticatedClient) doJSON(req *http.Request, out any) error {
	return ac.sendJSON(ac.do, req, out)
}

func (ac *AuthenticatedClient) sendJSON(send func(*http.Request) (*http.Response, error), req *http.Request, out any) error {
	resp, err := send(req)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}

	body, err := readLimitedResponse(resp.Body, MaxResponseSize)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// SigninResponse is the payload of POST /auth/signin
type SigninResponse struct {
	Token string        `json:"token"`
	User  *session.User `json:"user"`
}

// Signin exchanges credentials for a bearer token. The request goes
// out without an Authorization header even when a stale token is still
// attached. It does not touch the session; the signin command owns the
// SetToken/SetUser sequence.
func (ac *AuthenticatedClient) Signin(email, password string) (*SigninResponse, error) {
	req, err := ac.newJSONRequest(http.MethodPost, "/auth/signin", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var signin SigninResponse
	if err := ac.sendJSON(ac.client.retryableRequest, req, &signin); err != nil {
		return nil, err
	}
	if signin.Token == "" {
		return nil, fmt.Errorf("signin response carried no token")
	}
	return &signin, nil
}

// Signup registers a new account
func (ac *AuthenticatedClient) Signup(name, email, password, role string) error {
	if _, ok := session.ParseRole(role); !ok {
		return fmt.Errorf("unknown role %q", role)
	}
	req, err := ac.newJSONRequest(http.MethodPost, "/auth/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
	})
	if err != nil {
		return err
	}
	return ac.doJSON(req, nil)
}

// Me fetches the authoritative profile for the current session,
// including role and company
func (ac *AuthenticatedClient) Me() (*session.User, error) {
	var user session.User
	if err := ac.getJSON("/auth/me", &user); err != nil {
		return nil, err
	}
	if _, ok := session.ParseRole(user.Role); !ok {
		return nil, fmt.Errorf("profile has unknown role %q", user.Role)
	}
	return &user, nil
}
