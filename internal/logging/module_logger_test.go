package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-ssg/pkg/interfaces"
)

type captureLogger struct {
	fields map[string]any
	infos  []string
}

func (c *captureLogger) Trace(string, ...any)      {}
func (c *captureLogger) Debug(string, ...any)      {}
func (c *captureLogger) Info(msg string, _ ...any) { c.infos = append(c.infos, msg) }
func (c *captureLogger) Warn(string, ...any)       {}
func (c *captureLogger) Error(string, ...any)      {}
func (c *captureLogger) Fatal(string, ...any)      {}

func (c *captureLogger) WithContext(context.Context) interfaces.Logger { return c }

func (c *captureLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := make(map[string]any, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &captureLogger{fields: merged}
}

type captureProvider struct {
	requested []string
	logger    *captureLogger
}

func (p *captureProvider) GetLogger(name string) interfaces.Logger {
	p.requested = append(p.requested, name)
	return p.logger
}

func TestModuleLoggerNilProviderIsNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "ssg.content")
	if logger == nil {
		t.Fatal("expected logger")
	}
	// Must not panic.
	logger.Info("message")
	logger.WithContext(context.Background()).Debug("message")
}

func TestModuleLoggerScopesByModule(t *testing.T) {
	provider := &captureProvider{logger: &captureLogger{}}

	logger := ContentLogger(provider)
	if logger == nil {
		t.Fatal("expected logger")
	}
	if len(provider.requested) != 1 || provider.requested[0] != "ssg.content" {
		t.Fatalf("unexpected namespaces requested: %v", provider.requested)
	}

	capture, ok := logger.(*captureLogger)
	if !ok {
		t.Fatalf("expected fields-applied capture logger, got %T", logger)
	}
	if capture.fields["module"] != "ssg.content" {
		t.Fatalf("expected module field, got %v", capture.fields)
	}
}

func TestWithUnitContextSkipsEmptyValues(t *testing.T) {
	base := &captureLogger{}

	logger := WithUnitContext(base, "posts/a.md", "", "post")
	capture, ok := logger.(*captureLogger)
	if !ok {
		t.Fatalf("expected capture logger, got %T", logger)
	}
	if capture.fields["source_path"] != "posts/a.md" {
		t.Fatalf("expected source path field, got %v", capture.fields)
	}
	if _, ok := capture.fields["output_path"]; ok {
		t.Fatalf("empty output path must be skipped, got %v", capture.fields)
	}
	if capture.fields["layout"] != "post" {
		t.Fatalf("expected layout field, got %v", capture.fields)
	}
}

func TestWithFieldsPassthroughWithoutExtension(t *testing.T) {
	logger := NoOp()
	if got := WithFields(logger, map[string]any{"k": "v"}); got == nil {
		t.Fatal("expected logger")
	}
}
