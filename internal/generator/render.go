package generator

import (
	"time"

	"github.com/goliatone/go-ssg/internal/content"
	"github.com/goliatone/go-ssg/internal/index"
)

// RenderedPage captures one written output file.
type RenderedPage struct {
	SourcePath string
	Route      string
	Output     string
	Layout     string
	HTML       string
	Checksum   string
	Duration   time.Duration
	LastMod    time.Time
}

// RenderDiagnostic records rendering timing and errors for individual units.
type RenderDiagnostic struct {
	SourcePath string
	Route      string
	Layout     string
	Duration   time.Duration
	Skipped    bool
	Err        error
}

// pageContext projects a unit into the map templates resolve page.* lookups
// against. Front matter keys stay available verbatim under the page key so
// arbitrary fields remain reachable.
func pageContext(unit *content.Unit, route string, html string, excerpt string) map[string]any {
	page := make(map[string]any, len(unit.FrontMatter.Raw)+6)
	for key, value := range unit.FrontMatter.Raw {
		page[key] = value
	}

	page["title"] = unit.Title()
	page["url"] = route
	page["kind"] = string(unit.Kind)
	page["excerpt"] = excerpt
	page["content"] = html
	if date := unit.Date(); !date.IsZero() {
		page["date"] = date
	}
	return page
}

// paginatorContext projects an index page into template data. Post entries
// reuse pageContext so listing templates see the same shape as post layouts.
func paginatorContext(page *index.Page, entries []map[string]any) map[string]any {
	return map[string]any{
		"number":      page.Number,
		"total_pages": page.TotalPages,
		"posts":       entries,
		"has_prev":    page.HasPrev,
		"has_next":    page.HasNext,
		"prev_url":    page.PrevURL,
		"next_url":    page.NextURL,
		"url":         page.URL,
	}
}

// buildContext surfaces high level build information to templates.
func buildContextData(buildID string, generatedAt time.Time) map[string]any {
	return map[string]any{
		"id":           buildID,
		"generated_at": generatedAt,
	}
}
