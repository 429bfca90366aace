package content

import (
	"path"
	"regexp"
	"strings"
	"time"
)

// Kind distinguishes dated blog posts from standalone pages.
type Kind string

const (
	// KindPost marks units discovered under the posts directory.
	KindPost Kind = "post"
	// KindPage marks every other content unit.
	KindPage Kind = "page"
)

// Unit is a single content file after loading: parsed front matter plus the
// raw markup body. Units are immutable once loaded.
type Unit struct {
	// SourcePath is the slash-separated path relative to the content root.
	SourcePath   string
	Kind         Kind
	FrontMatter  FrontMatter
	Body         []byte
	LastModified time.Time
	Checksum     []byte
}

var postFilePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})-(.+)$`)

// Title returns the front matter title, falling back to the filename stem.
func (u *Unit) Title() string {
	if title := strings.TrimSpace(u.FrontMatter.Title); title != "" {
		return title
	}
	_, stem := splitFilename(u.SourcePath)
	return stem
}

// Date returns the publication date: front matter first, then the
// YYYY-MM-DD filename prefix posts conventionally carry.
func (u *Unit) Date() time.Time {
	if !u.FrontMatter.Date.IsZero() {
		return u.FrontMatter.Date
	}
	if date, _, ok := parsePostFilename(u.SourcePath); ok {
		return date
	}
	return time.Time{}
}

// SlugSource returns the string permalink slugs derive from: the filename
// stem with any date prefix removed, or the title when the stem is empty.
func (u *Unit) SlugSource() string {
	if _, stem, ok := parsePostFilename(u.SourcePath); ok {
		return stem
	}
	_, stem := splitFilename(u.SourcePath)
	if stem != "" {
		return stem
	}
	return u.Title()
}

// IsPost reports whether the unit belongs to the blog post collection.
func (u *Unit) IsPost() bool {
	return u.Kind == KindPost
}

func splitFilename(sourcePath string) (dir, stem string) {
	dir = path.Dir(sourcePath)
	base := path.Base(sourcePath)
	stem = strings.TrimSuffix(base, path.Ext(base))
	return dir, stem
}

func parsePostFilename(sourcePath string) (time.Time, string, bool) {
	_, stem := splitFilename(sourcePath)
	match := postFilePattern.FindStringSubmatch(stem)
	if match == nil {
		return time.Time{}, "", false
	}
	date, err := time.Parse("2006-01-02", match[1]+"-"+match[2]+"-"+match[3])
	if err != nil {
		return time.Time{}, "", false
	}
	return date, match[4], true
}
