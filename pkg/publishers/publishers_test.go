package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestLoadRegistryJSONDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.json")
	raw := `{"publishers":[{"id":" hook ","type":"HTTP","http":{"url":" https://example.com/hook ","headers":{"X-Empty":" "}}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("hook")
	if !ok {
		t.Fatalf("hook not found")
	}
	if cfg.Type != TypeHTTP || cfg.HTTP.Method != "POST" || cfg.HTTP.TimeoutSeconds != 5 {
		t.Fatalf("defaults not applied: %+v %+v", cfg, cfg.HTTP)
	}
	if cfg.HTTP.URL != "https://example.com/hook" || cfg.HTTP.Headers != nil {
		t.Fatalf("sanitize not applied: %+v", cfg.HTTP)
	}
	if !cfg.EnabledValue() {
		t.Fatalf("enabled should default to true")
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: dup
    type: http
    http:
      url: https://a.example
  - id: dup
    type: http
    http:
      url: https://b.example
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfigCloudSinks(t *testing.T) {
	cases := []PublisherConfig{
		{ID: "s1", Type: TypeSNS},
		{ID: "s2", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn:aws:sns:::t"}},
		{ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{Region: "us-east-1"}},
		{ID: "g1", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubPublisherConfig{ProjectID: "p"}},
	}
	for _, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("expected validation error for %s", cfg.ID)
		}
	}

	ok := PublisherConfig{ID: "g2", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubPublisherConfig{ProjectID: "p", Topic: "t"}}
	if err := validatePublisherConfig(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
