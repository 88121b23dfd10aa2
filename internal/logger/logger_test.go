package logger

import (
	"testing"

	"github.com/samvad-hq/contacts-prober/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestZapLoggerWritesObjectField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := ZapLogger{L: zap.New(core)}

	log.WarnObj("probe failed", "probe_error", map[string]any{"probe": "read"})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "probe failed" {
		t.Fatalf("unexpected message %q", entries[0].Message)
	}
	if _, ok := entries[0].ContextMap()["probe_error"]; !ok {
		t.Fatalf("probe_error field missing: %#v", entries[0].ContextMap())
	}
}

func TestInitSetsPackageLogger(t *testing.T) {
	t.Cleanup(func() { S = nil })

	if _, err := Init(&config.Config{AppName: "test", LogLevel: "error"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if S == nil {
		t.Fatalf("package logger not set")
	}
	InfoObj("suppressed", "k", "v")
}
