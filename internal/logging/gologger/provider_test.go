package gologger

import (
	"testing"
)

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewProviderDefaults(t *testing.T) {
	provider, err := NewProvider(Config{})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	logger := provider.GetLogger("ssg.build")
	if logger == nil {
		t.Fatal("expected logger")
	}
	// Exercise the adapter surface; output goes to the console handler.
	logger.Debug("adapter smoke test", "key", "value")
	logger.WithContext(t.Context()).Debug("with context")
}

func TestNilProviderFallsBackToNoOp(t *testing.T) {
	var provider *Provider
	logger := provider.GetLogger("anything")
	if logger == nil {
		t.Fatal("expected no-op logger")
	}
	logger.Info("must not panic")
}

func TestNormalizeLevel(t *testing.T) {
	cases := map[string]bool{
		"debug":   true,
		"WARN":    true,
		"warning": true,
		"":        false,
		"loud":    false,
	}
	for level, want := range cases {
		if got := normalizeLevel(level) != ""; got != want {
			t.Fatalf("normalizeLevel(%q): expected resolvable=%v", level, want)
		}
	}
}
