package generator

import (
	"errors"
	"strings"
	"testing"

	gotheme "github.com/goliatone/go-theme"
)

type fakeManifestLoader struct {
	loads    int
	lastPath string
	manifest *gotheme.Manifest
	err      error
}

func (l *fakeManifestLoader) Load(themePath string) (*gotheme.Manifest, error) {
	l.loads++
	l.lastPath = themePath
	if l.err != nil {
		return nil, l.err
	}
	manifest := *l.manifest
	return &manifest, nil
}

func auroraManifest() *gotheme.Manifest {
	return &gotheme.Manifest{
		Name:    "aurora",
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-bg":   "#ffffff",
			"color-text": "#111111",
		},
		Templates: map[string]string{
			"header": "partials/header.html",
		},
		Variants: map[string]gotheme.Variant{
			"dark": {
				Tokens: map[string]string{"color-bg": "#000000"},
			},
		},
	}
}

func TestThemeSelectorSkipsWhenNoThemeDir(t *testing.T) {
	loader := &fakeManifestLoader{manifest: auroraManifest()}
	selector := newThemeSelector(ThemingConfig{}, loader)

	selection, err := selector.Selection("", "aurora", "dark")
	if err != nil {
		t.Fatalf("selection: %v", err)
	}
	if selection != nil {
		t.Fatalf("expected no selection without a theme dir, got %+v", selection)
	}
	if loader.loads != 0 {
		t.Fatalf("loader must not run without a theme dir, ran %d times", loader.loads)
	}
}

func TestThemeSelectorResolvesVariantTokens(t *testing.T) {
	loader := &fakeManifestLoader{manifest: auroraManifest()}
	selector := newThemeSelector(ThemingConfig{Name: "aurora", Variant: "dark"}, loader)

	selection, err := selector.Selection("themes/aurora", "aurora", "dark")
	if err != nil {
		t.Fatalf("selection: %v", err)
	}
	if selection == nil {
		t.Fatal("expected a selection")
	}
	if selection.Theme != "aurora" || selection.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", selection.Theme, selection.Variant)
	}

	tokens := selection.Tokens()
	if tokens["color-bg"] != "#000000" {
		t.Fatalf("variant token must override base, got %q", tokens["color-bg"])
	}
	if tokens["color-text"] != "#111111" {
		t.Fatalf("base token must survive the merge, got %q", tokens["color-text"])
	}
}

func TestThemeSelectorFallsBackToDefaultVariant(t *testing.T) {
	loader := &fakeManifestLoader{manifest: auroraManifest()}
	selector := newThemeSelector(ThemingConfig{Name: "aurora", Variant: "dark"}, loader)

	selection, err := selector.Selection("themes/aurora", "aurora", "")
	if err != nil {
		t.Fatalf("selection: %v", err)
	}
	if selection.Variant != "dark" {
		t.Fatalf("empty variant must fall back to the configured default, got %q", selection.Variant)
	}
}

func TestThemeSelectorLoadsManifestOnce(t *testing.T) {
	loader := &fakeManifestLoader{manifest: auroraManifest()}
	selector := newThemeSelector(ThemingConfig{Name: "aurora"}, loader)

	for i := 0; i < 3; i++ {
		if _, err := selector.Selection("themes/aurora", "aurora", ""); err != nil {
			t.Fatalf("selection %d: %v", i, err)
		}
	}
	if loader.loads != 1 {
		t.Fatalf("manifest must load once per directory, loaded %d times", loader.loads)
	}
	if loader.lastPath != "themes/aurora" {
		t.Fatalf("unexpected load path %q", loader.lastPath)
	}
}

func TestThemeSelectorOverridesManifestName(t *testing.T) {
	loader := &fakeManifestLoader{manifest: auroraManifest()}
	selector := newThemeSelector(ThemingConfig{Name: "midnight"}, loader)

	selection, err := selector.Selection("themes/aurora", "midnight", "")
	if err != nil {
		t.Fatalf("selection: %v", err)
	}
	if selection.Theme != "midnight" {
		t.Fatalf("configured name must win over the manifest name, got %q", selection.Theme)
	}
}

func TestThemeSelectorPropagatesLoaderErrors(t *testing.T) {
	loader := &fakeManifestLoader{err: errors.New("missing theme.yml")}
	selector := newThemeSelector(ThemingConfig{Name: "aurora"}, loader)

	_, err := selector.Selection("themes/aurora", "aurora", "")
	if err == nil {
		t.Fatal("expected loader error to propagate")
	}
	if !strings.Contains(err.Error(), "themes/aurora") {
		t.Fatalf("error must name the theme directory, got %v", err)
	}
}

func TestThemeContextDataProjectsSelection(t *testing.T) {
	loader := &fakeManifestLoader{manifest: auroraManifest()}
	cfg := ThemingConfig{
		Name:              "aurora",
		Variant:           "dark",
		CSSVariablePrefix: "--ssg-",
		PartialFallbacks: map[string]string{
			"header": "fallback/header.html",
			"footer": "fallback/footer.html",
		},
	}
	selector := newThemeSelector(cfg, loader)

	selection, err := selector.Selection("themes/aurora", "aurora", "dark")
	if err != nil {
		t.Fatalf("selection: %v", err)
	}

	data := themeContextData(selection, cfg)
	if data["name"] != "aurora" || data["variant"] != "dark" {
		t.Fatalf("unexpected identity: %v", data)
	}

	cssVars, ok := data["css_vars"].(map[string]string)
	if !ok {
		t.Fatalf("expected css_vars map, got %T", data["css_vars"])
	}
	if cssVars["--ssg-color-bg"] != "#000000" {
		t.Fatalf("expected prefixed variant css var, got %v", cssVars)
	}

	partials, ok := data["partials"].(map[string]string)
	if !ok {
		t.Fatalf("expected partials map, got %T", data["partials"])
	}
	if partials["header"] != "partials/header.html" {
		t.Fatalf("manifest template must win over fallback, got %v", partials)
	}
	if partials["footer"] != "fallback/footer.html" {
		t.Fatalf("missing template must use its fallback, got %v", partials)
	}
}

func TestThemeContextDataNilSelection(t *testing.T) {
	data := themeContextData(nil, ThemingConfig{})
	if data["name"] != "" || data["variant"] != "" {
		t.Fatalf("nil selection must project empty identity: %v", data)
	}
	tokens, ok := data["tokens"].(map[string]string)
	if !ok || len(tokens) != 0 {
		t.Fatalf("nil selection must project empty tokens: %v", data["tokens"])
	}
}
