package generator

import (
	"fmt"
	"path"
	"strings"

	slug "github.com/goliatone/go-slug"

	"github.com/goliatone/go-ssg/internal/content"
)

// routeForUnit derives the site-relative route a unit is published at. An
// explicit permalink wins; otherwise posts follow the
// /:categories/:year/:month/:day/:slug/ convention and pages mirror their
// source location.
func routeForUnit(unit *content.Unit) (string, error) {
	if permalink := strings.TrimSpace(unit.FrontMatter.Permalink); permalink != "" {
		return normalizeRoute(permalink), nil
	}

	name, err := normalizeSlug(unit.SlugSource())
	if err != nil {
		return "", fmt.Errorf("generator: derive slug for %s: %w", unit.SourcePath, err)
	}

	if unit.IsPost() {
		segments := make([]string, 0, len(unit.FrontMatter.Categories)+4)
		for _, category := range unit.FrontMatter.Categories {
			normalized, err := normalizeSlug(category)
			if err != nil {
				return "", fmt.Errorf("generator: derive category slug for %s: %w", unit.SourcePath, err)
			}
			segments = append(segments, normalized)
		}

		if date := unit.Date(); !date.IsZero() {
			segments = append(segments,
				fmt.Sprintf("%04d", date.Year()),
				fmt.Sprintf("%02d", int(date.Month())),
				fmt.Sprintf("%02d", date.Day()),
			)
		}
		segments = append(segments, name)
		return normalizeRoute(path.Join(segments...)), nil
	}

	dir := path.Dir(unit.SourcePath)
	if dir == "." {
		if name == "index" {
			return "/", nil
		}
		return normalizeRoute(name), nil
	}
	if name == "index" {
		return normalizeRoute(dir), nil
	}
	return normalizeRoute(path.Join(dir, name)), nil
}

// outputPathForRoute maps a route to the file the static tree stores it in.
// Pretty routes become directory indexes; explicit file permalinks (ending
// in an extension such as .html or .xml) are honored as-is.
func outputPathForRoute(route string) string {
	clean := strings.Trim(strings.TrimSpace(route), "/")
	if clean == "" {
		return "index.html"
	}
	if path.Ext(clean) != "" {
		return clean
	}
	return path.Join(clean, "index.html")
}

// normalizeRoute guarantees routes are absolute and end with a trailing
// slash unless they point at an explicit file.
func normalizeRoute(route string) string {
	clean := strings.Trim(strings.TrimSpace(route), "/")
	if clean == "" {
		return "/"
	}
	if path.Ext(clean) != "" {
		return "/" + clean
	}
	return "/" + clean + "/"
}

func normalizeSlug(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("empty slug source")
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil || normalized == "" {
		return "", fmt.Errorf("normalize %q: %w", value, err)
	}
	return normalized, nil
}
