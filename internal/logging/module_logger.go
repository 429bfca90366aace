package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-ssg/pkg/interfaces"
)

const (
	rootModule      = "ssg"
	contentModule   = "ssg.content"
	templatesModule = "ssg.templates"
	indexModule     = "ssg.index"
	buildModule     = "ssg.build"
)

const (
	fieldSourcePath = "source_path"
	fieldOutputPath = "output_path"
	fieldLayout     = "layout"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ContentLogger returns the logger namespace reserved for content loading.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// TemplatesLogger returns the logger namespace reserved for template rendering.
func TemplatesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, templatesModule)
}

// IndexLogger returns the logger namespace reserved for the collection indexer.
func IndexLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, indexModule)
}

// BuildLogger returns the logger namespace reserved for the site builder.
func BuildLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, buildModule)
}

// WithUnitContext enriches the provided logger with common content fields
// such as source path, output path, and layout. Empty values are ignored.
func WithUnitContext(logger interfaces.Logger, source, output, layout string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(source); trimmed != "" {
		fields[fieldSourcePath] = trimmed
	}
	if trimmed := strings.TrimSpace(output); trimmed != "" {
		fields[fieldOutputPath] = trimmed
	}
	if trimmed := strings.TrimSpace(layout); trimmed != "" {
		fields[fieldLayout] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
