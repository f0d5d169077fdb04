package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/kd-consultores/katy-agent/internal/session"
)

// CreateUser registers an account through the admin endpoint
func (ac *AuthenticatedClient) CreateUser(name, email, password, role string) (*session.User, error) {
	if _, ok := session.ParseRole(role); !ok {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	req, err := ac.newJSONRequest(http.MethodPost, "/admin/users", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
	})
	if err != nil {
		return nil, err
	}
	var user session.User
	if err := ac.doJSON(req, &user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// UploadSignature stores the caller's signature image, used when
// stamping reports and work orders
func (ac *AuthenticatedClient) UploadSignature(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open signature file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("signature", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to read signature file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish upload: %w", err)
	}

	data := buf.Bytes()
	req, err := http.NewRequest(http.MethodPost, ac.client.baseURL+"/users/me/signature", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	if err := ac.doJSON(req, nil); err != nil {
		return fmt.Errorf("failed to upload signature: %w", err)
	}
	return nil
}
