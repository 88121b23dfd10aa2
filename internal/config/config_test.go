package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONTACTS_BASE_URL", "")
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.RequestTimeout != 0 {
		t.Fatalf("expected no request timeout by default, got %v", cfg.RequestTimeout)
	}
	if cfg.CleanupCreated {
		t.Fatalf("cleanup must be disabled by default")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CONTACTS_BASE_URL", "http://contacts.internal:8080/")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://contacts.internal:8080" {
		t.Fatalf("unexpected BaseURL %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("unexpected RequestTimeout %v", cfg.RequestTimeout)
	}
}

func TestLoadFlagWinsOverEnv(t *testing.T) {
	t.Setenv("CONTACTS_BASE_URL", "http://from-env:1")

	cfg, err := Load([]string{"--base-url", "http://from-flag:2"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://from-flag:2" {
		t.Fatalf("expected flag value, got %q", cfg.BaseURL)
	}
}

func TestLoadRejectsInvalidBaseURL(t *testing.T) {
	t.Setenv("CONTACTS_BASE_URL", "localhost:3000")
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for base url without scheme")
	}
}

func TestLoadRejectsNegativeTimeout(t *testing.T) {
	t.Setenv("CONTACTS_BASE_URL", "")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "-1")
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for negative timeout")
	}
}
