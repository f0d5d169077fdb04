package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("expected /health, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","service":"katy-backend","version":"1.4.0"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	health, err := client.Health()
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("unexpected status: %s", health.Status)
	}
	if health.Version != "1.4.0" {
		t.Errorf("unexpected version: %s", health.Version)
	}
}

func TestRetryableRequest_RetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

	resp, err := client.retryableRequest(req)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("unexpected status: %d", resp.StatusCode)
	}
}

func TestRetryableRequest_NoRetryOnClientError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

	resp, err := client.retryableRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if attempts != 1 {
		t.Errorf("4xx responses must not be retried, got %d attempts", attempts)
	}
}

func TestReadLimitedResponse_RejectsOversized(t *testing.T) {
	_, err := readLimitedResponse(strings.NewReader("0123456789"), 5)
	if err == nil {
		t.Fatal("expected error for oversized body")
	}
}

func TestAPIError_UsesBackendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Ya existe una empresa con ese RUT"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	resp, err := client.retryableRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	apiErr := apiError(resp)
	var typed *APIError
	if !errors.As(apiErr, &typed) {
		t.Fatalf("expected *APIError, got %T", apiErr)
	}
	if typed.Status != http.StatusConflict {
		t.Errorf("unexpected status: %d", typed.Status)
	}
	if !strings.Contains(typed.Error(), "Ya existe una empresa") {
		t.Errorf("expected backend message in error, got %q", typed.Error())
	}
}
