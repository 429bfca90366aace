package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
)

// ThemingConfig controls the optional go-theme integration. When Dir is
// empty the build runs without a theme and templates see an empty theme
// context.
type ThemingConfig struct {
	Dir               string
	Name              string
	Variant           string
	CSSVariablePrefix string
	PartialFallbacks  map[string]string
}

type themeManifestLoader interface {
	Load(themePath string) (*gotheme.Manifest, error)
}

type fsThemeManifestLoader struct{}

func (fsThemeManifestLoader) Load(themePath string) (*gotheme.Manifest, error) {
	cleaned := filepath.Clean(strings.TrimSpace(themePath))
	if cleaned == "" {
		return nil, fmt.Errorf("theme path required")
	}

	return gotheme.LoadDir(os.DirFS(cleaned), ".")
}

type themeSelector struct {
	registry       *gotheme.MemoryRegistry
	loader         themeManifestLoader
	defaultTheme   string
	defaultVariant string

	mu        sync.Mutex
	manifests map[string]*gotheme.Manifest
}

func newThemeSelector(cfg ThemingConfig, loader themeManifestLoader) *themeSelector {
	if loader == nil {
		loader = fsThemeManifestLoader{}
	}
	return &themeSelector{
		registry:       gotheme.NewRegistry(),
		loader:         loader,
		defaultTheme:   strings.TrimSpace(cfg.Name),
		defaultVariant: strings.TrimSpace(cfg.Variant),
		manifests:      map[string]*gotheme.Manifest{},
	}
}

// Selection loads (once) and selects the theme configured for the build.
func (s *themeSelector) Selection(themeDir, name, variant string) (*gotheme.Selection, error) {
	if strings.TrimSpace(themeDir) == "" {
		return nil, nil
	}

	manifest, err := s.ensureManifest(themeDir, name)
	if err != nil {
		return nil, err
	}

	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   s.defaultTheme,
		DefaultVariant: s.defaultVariant,
	}

	resolvedVariant := strings.TrimSpace(variant)
	if resolvedVariant == "" {
		resolvedVariant = s.defaultVariant
	}

	selection, err := selector.Select(manifest.Name, resolvedVariant)
	if err != nil {
		return nil, fmt.Errorf("select theme %s: %w", manifest.Name, err)
	}
	return selection, nil
}

func (s *themeSelector) ensureManifest(themeDir, name string) (*gotheme.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := filepath.Clean(themeDir)
	if manifest, ok := s.manifests[key]; ok {
		return manifest, nil
	}

	manifest, err := s.loader.Load(themeDir)
	if err != nil {
		return nil, fmt.Errorf("load theme manifest from %s: %w", themeDir, err)
	}

	normalized := *manifest
	if trimmed := strings.TrimSpace(name); trimmed != "" && !strings.EqualFold(normalized.Name, trimmed) {
		normalized.Name = trimmed
	}
	if strings.TrimSpace(normalized.Name) == "" {
		return nil, fmt.Errorf("theme name required for manifest registration")
	}

	if err := s.registry.Register(&normalized); err != nil {
		return nil, fmt.Errorf("register theme manifest: %w", err)
	}
	s.manifests[key] = &normalized
	return &normalized, nil
}

// themeContextData projects a theme selection into template data. A nil
// selection yields empty maps so templates stay fail-soft.
func themeContextData(selection *gotheme.Selection, cfg ThemingConfig) map[string]any {
	if selection == nil {
		return map[string]any{
			"name":     "",
			"variant":  "",
			"tokens":   map[string]string{},
			"css_vars": map[string]string{},
			"partials": map[string]string{},
		}
	}

	return map[string]any{
		"name":     selection.Theme,
		"variant":  selection.Variant,
		"tokens":   selection.Tokens(),
		"css_vars": selection.CSSVariables(cfg.CSSVariablePrefix),
		"partials": selection.Partials(cfg.PartialFallbacks),
	}
}
