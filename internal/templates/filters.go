package templates

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-ssg/internal/markdown"
)

var registerOnce sync.Once

// FilterOptions configure the site-specific filters exposed to templates.
type FilterOptions struct {
	// ExcerptLength is the default rune limit for the excerpt filter.
	ExcerptLength int
	// BaseURL prefixes relative paths passed through absolute_url.
	BaseURL string
}

// RegisterSiteFilters installs the filters this generator adds on top of the
// pongo2 built-ins (truncatechars, striptags, date, upper, lower, ...).
// pongo2 keeps one process-wide filter registry, so registration runs once
// and the first caller's options (excerpt length, base URL) apply to every
// later engine in the process. Builds that need different options must run
// in separate processes.
func RegisterSiteFilters(engine *Engine, opts FilterOptions) error {
	var err error
	registerOnce.Do(func() {
		err = registerSiteFilters(engine, opts)
	})
	return err
}

func registerSiteFilters(engine *Engine, opts FilterOptions) error {
	excerptLength := opts.ExcerptLength
	if excerptLength <= 0 {
		excerptLength = 200
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")

	// excerpt strips markup and truncates to the configured length, ending
	// with an ellipsis when text was cut. An integer parameter overrides the
	// length: {{ post.body|excerpt:80 }}
	if err := engine.RegisterFilter("excerpt", func(input any, param any) (any, error) {
		text := toString(input)
		length := excerptLength
		if n, ok := toInt(param); ok && n > 0 {
			length = n
		}
		return markdown.Excerpt(text, length), nil
	}); err != nil {
		return err
	}

	// absolute_url prefixes a path with the configured site base URL.
	if err := engine.RegisterFilter("absolute_url", func(input any, param any) (any, error) {
		value := strings.TrimSpace(toString(input))
		if value == "" {
			return baseURL, nil
		}
		if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
			return value, nil
		}
		if !strings.HasPrefix(value, "/") {
			value = "/" + value
		}
		return baseURL + value, nil
	}); err != nil {
		return err
	}

	return nil
}

func toString(input any) string {
	switch value := input.(type) {
	case nil:
		return ""
	case string:
		return value
	case []byte:
		return string(value)
	default:
		return fmt.Sprint(value)
	}
}

func toInt(input any) (int, bool) {
	switch value := input.(type) {
	case int:
		return value, true
	case int64:
		return int(value), true
	case float64:
		return int(value), true
	default:
		return 0, false
	}
}
