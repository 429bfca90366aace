package ssg

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goliatone/go-ssg/internal/config"
	"github.com/goliatone/go-ssg/internal/generator"
	"github.com/goliatone/go-ssg/pkg/interfaces"
)

// Site exports the site configuration consumed by the builder.
type Site = config.Site

// BuildOptions exports the per-run build options.
type BuildOptions = generator.BuildOptions

// BuildResult exports the aggregated build report.
type BuildResult = generator.BuildResult

// GeneratorService exports the static site build contract.
type GeneratorService = generator.Service

// ArtifactWriter exports the output storage contract.
type ArtifactWriter = generator.ArtifactWriter

// DefaultConfig returns the conventional site configuration.
func DefaultConfig() Site {
	return config.Default()
}

// LoadConfig reads and validates a site.yml, overlaying it on the defaults.
func LoadConfig(path string) (Site, error) {
	return config.Load(path)
}

// Module is the top level runtime façade: a configured site plus the wired
// generator service.
type Module struct {
	site     config.Site
	root     string
	content  fs.FS
	layouts  fs.FS
	assets   fs.FS
	writer   generator.ArtifactWriter
	provider interfaces.LoggerProvider

	gen generator.Service
}

// Option customizes module construction.
type Option func(*Module)

// WithRoot resolves the configured content, layout, and asset directories
// relative to dir instead of the working directory.
func WithRoot(dir string) Option {
	return func(m *Module) {
		m.root = dir
	}
}

// WithLogger supplies the logger provider used by every component.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		m.provider = provider
	}
}

// WithWriter overrides the artifact writer, replacing the default
// filesystem writer rooted at the configured output directory.
func WithWriter(writer generator.ArtifactWriter) Option {
	return func(m *Module) {
		m.writer = writer
	}
}

// WithFilesystems supplies the source trees directly, bypassing directory
// resolution. Useful for embedding and tests.
func WithFilesystems(content, layouts, assets fs.FS) Option {
	return func(m *Module) {
		m.content = content
		m.layouts = layouts
		m.assets = assets
	}
}

// New constructs a module from the provided site configuration.
func New(site config.Site, opts ...Option) (*Module, error) {
	if err := site.Validate(); err != nil {
		return nil, err
	}

	m := &Module{site: site}
	for _, opt := range opts {
		opt(m)
	}

	if m.content == nil {
		m.content = os.DirFS(m.resolve(site.Content.Dir))
	}
	if m.layouts == nil {
		m.layouts = os.DirFS(m.resolve(site.Content.Layouts))
	}
	if m.assets == nil {
		if dir := m.resolve(site.Content.Assets); dirExists(dir) {
			m.assets = os.DirFS(dir)
		}
	}
	if m.writer == nil {
		m.writer = generator.NewFilesystemWriter(m.resolve(site.Output))
	}

	gen, err := generator.NewService(site, generator.Dependencies{
		Content: m.content,
		Layouts: m.layouts,
		Assets:  m.assets,
		Writer:  m.writer,
		Logger:  m.provider,
	})
	if err != nil {
		return nil, err
	}
	m.gen = gen

	return m, nil
}

// Generator returns the configured build service.
func (m *Module) Generator() GeneratorService {
	return m.gen
}

// Site returns the module's site configuration.
func (m *Module) Site() Site {
	return m.site
}

// Build runs a full site build.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	return m.gen.Build(ctx, opts)
}

func (m *Module) resolve(dir string) string {
	if m.root == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.root, dir)
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
