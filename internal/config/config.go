package config

import (
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goccy/go-yaml"
)

// Site holds the process-wide site configuration. It is loaded once at
// startup and treated as read-only by the indexer, templates, and builder.
type Site struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"base_url"`

	Author Author `yaml:"author"`

	Pagination Pagination `yaml:"pagination"`
	Excerpt    Excerpt    `yaml:"excerpt"`

	Content ContentDirs `yaml:"content"`
	Output  string      `yaml:"output"`

	Layouts LayoutDefaults `yaml:"layouts"`
	Theme   Theme          `yaml:"theme"`

	Feed    Feed `yaml:"feed"`
	Sitemap bool `yaml:"sitemap"`

	// Params carries arbitrary site-wide values surfaced to templates as
	// site.params.
	Params map[string]any `yaml:"params"`
}

// Author describes the site owner shown by templates.
type Author struct {
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	AvatarURL string `yaml:"avatar_url"`
}

// Pagination controls how the blog index is split into pages.
type Pagination struct {
	Size int    `yaml:"size"`
	Path string `yaml:"path"`
}

// Excerpt controls automatic excerpt derivation for posts without one.
type Excerpt struct {
	Length int `yaml:"length"`
}

// ContentDirs names the source directories scanned during a build.
type ContentDirs struct {
	Dir      string `yaml:"dir"`
	PostsDir string `yaml:"posts_dir"`
	Layouts  string `yaml:"layouts_dir"`
	Assets   string `yaml:"assets_dir"`
}

// LayoutDefaults names the layout applied when front matter omits one.
type LayoutDefaults struct {
	Post  string `yaml:"post"`
	Page  string `yaml:"page"`
	Index string `yaml:"index"`
}

// Theme configures the optional go-theme integration.
type Theme struct {
	Dir               string            `yaml:"dir"`
	Name              string            `yaml:"name"`
	Variant           string            `yaml:"variant"`
	CSSVariablePrefix string            `yaml:"css_variable_prefix"`
	PartialFallbacks  map[string]string `yaml:"partial_fallbacks"`
}

// Feed configures RSS feed generation.
type Feed struct {
	Enabled  bool   `yaml:"enabled"`
	Path     string `yaml:"path"`
	MaxItems int    `yaml:"max_items"`
}

// Default returns a Site populated with the conventional directory layout
// and sensible defaults. Callers typically overlay a site.yml on top.
func Default() Site {
	return Site{
		Title: "My Site",
		Pagination: Pagination{
			Size: 5,
			Path: "/blog/page/:number/",
		},
		Excerpt: Excerpt{Length: 200},
		Content: ContentDirs{
			Dir:      "content",
			PostsDir: "_posts",
			Layouts:  "layouts",
			Assets:   "assets",
		},
		Output: "public",
		Layouts: LayoutDefaults{
			Post:  "post",
			Page:  "page",
			Index: "blog",
		},
		Feed: Feed{
			Enabled:  true,
			Path:     "feed.xml",
			MaxItems: 20,
		},
		Sitemap: true,
	}
}

// Load reads and validates a site configuration file. Missing optional keys
// fall back to Default values.
func Load(path string) (Site, error) {
	site := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Site{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &site); err != nil {
		return Site{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := site.Validate(); err != nil {
		return Site{}, fmt.Errorf("config: validate %s: %w", path, err)
	}
	return site, nil
}

// Validate enforces the structural invariants templates and the indexer
// depend on.
func (s Site) Validate() error {
	if err := validation.ValidateStruct(&s,
		validation.Field(&s.Title, validation.Required),
		validation.Field(&s.Output, validation.Required),
	); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&s.Pagination,
		validation.Field(&s.Pagination.Size, validation.Required, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}

	if err := validation.ValidateStruct(&s.Excerpt,
		validation.Field(&s.Excerpt.Length, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("excerpt: %w", err)
	}

	if err := validation.ValidateStruct(&s.Content,
		validation.Field(&s.Content.Dir, validation.Required),
		validation.Field(&s.Content.Layouts, validation.Required),
	); err != nil {
		return fmt.Errorf("content: %w", err)
	}

	return nil
}

// NormalizedBaseURL returns the base URL without a trailing slash.
func (s Site) NormalizedBaseURL() string {
	return strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
}

// TemplateContext projects the configuration into the map templates resolve
// site.* lookups against.
func (s Site) TemplateContext() map[string]any {
	params := make(map[string]any, len(s.Params))
	for key, value := range s.Params {
		params[key] = value
	}

	return map[string]any{
		"title":       s.Title,
		"description": s.Description,
		"base_url":    s.NormalizedBaseURL(),
		"author": map[string]any{
			"name":       s.Author.Name,
			"email":      s.Author.Email,
			"avatar_url": s.Author.AvatarURL,
		},
		"params": params,
	}
}
