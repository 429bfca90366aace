package markdown

import (
	"strings"
	"testing"
)

func TestStripTagsCollapsesWhitespace(t *testing.T) {
	html := "<p>Hello   <strong>world</strong></p>\n<p>Second</p>"
	got := StripTags(html)
	if got != "Hello world Second" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExcerptTruncatesOnWordBoundary(t *testing.T) {
	html := "<p>The quick brown fox jumps over the lazy dog</p>"
	got := Excerpt(html, 20)

	if !strings.HasSuffix(got, Ellipsis) {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	if strings.Contains(got, "jump") {
		t.Fatalf("expected truncation before limit, got %q", got)
	}
	// No word should be split in half.
	text := strings.TrimSuffix(got, Ellipsis)
	if !strings.HasSuffix(text, "fox") {
		t.Fatalf("expected break at word boundary, got %q", got)
	}
}

func TestExcerptShortTextUnchanged(t *testing.T) {
	got := Excerpt("<p>Short.</p>", 200)
	if got != "Short." {
		t.Fatalf("expected unmodified text, got %q", got)
	}
}

func TestTruncateZeroLengthReturnsInput(t *testing.T) {
	if got := Truncate("anything", 0); got != "anything" {
		t.Fatalf("expected input unchanged, got %q", got)
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	text := "héllo wörld wíth áccents everywhere"
	got := Truncate(text, 12)
	if !strings.HasSuffix(got, Ellipsis) {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if strings.Count(got, "wörld") == 0 {
		t.Fatalf("expected multi-byte runes preserved, got %q", got)
	}
}
