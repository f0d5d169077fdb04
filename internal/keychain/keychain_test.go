package keychain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMockKeychain_SetGetDelete(t *testing.T) {
	kc := NewMockKeychain()

	if err := kc.Set(KeyAccessToken, "abc.def.ghi"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := kc.Get(KeyAccessToken)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "abc.def.ghi" {
		t.Errorf("expected 'abc.def.ghi', got '%s'", value)
	}

	if err := kc.Delete(KeyAccessToken); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err = kc.Get(KeyAccessToken)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMockKeychain_GetMissing(t *testing.T) {
	kc := NewMockKeychain()
	_, err := kc.Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileKeychain_SetGetDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "creds")
	kc := NewFileKeychain(dir)

	if err := kc.Set(KeyAccessToken, "abc.def.ghi"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Credential files must not be world readable
	info, err := os.Stat(filepath.Join(dir, KeyAccessToken))
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	value, err := kc.Get(KeyAccessToken)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "abc.def.ghi" {
		t.Errorf("expected 'abc.def.ghi', got '%s'", value)
	}

	if err := kc.Delete(KeyAccessToken); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, err = kc.Get(KeyAccessToken)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFileKeychain_DeleteMissingIsNoop(t *testing.T) {
	kc := NewFileKeychain(t.TempDir())
	if err := kc.Delete("never-stored"); err != nil {
		t.Errorf("expected nil for missing key, got %v", err)
	}
}
