package content

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-ssg/pkg/interfaces"
)

func testContentFS(modTime time.Time) fstest.MapFS {
	return fstest.MapFS{
		"_posts/2024-01-02-hello.md": &fstest.MapFile{
			Data: []byte("---\ntitle: Hello\n---\n# Hello\n"),
		},
		"_posts/2024-03-04-second.md": &fstest.MapFile{
			Data:    []byte("---\ntitle: Second\nlayout: feature\n---\nbody\n"),
			ModTime: modTime,
		},
		"about.md": &fstest.MapFile{
			Data: []byte("---\ntitle: About\n---\nAbout me.\n"),
		},
		"projects/index.md": &fstest.MapFile{
			Data: []byte("---\ntitle: Projects\n---\nProjects.\n"),
		},
		"notes.txt": &fstest.MapFile{
			Data: []byte("not content"),
		},
	}
}

func TestLoadTreeDiscoversMarkdownFiles(t *testing.T) {
	modTime := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	loader := NewLoader(testContentFS(modTime), LoaderConfig{
		DefaultPostLayout: "post",
		DefaultPageLayout: "page",
	})

	units, err := loader.LoadTree(context.Background())
	if err != nil {
		t.Fatalf("load tree: %v", err)
	}
	if len(units) != 4 {
		t.Fatalf("expected 4 units, got %d", len(units))
	}

	// Path-sorted order is part of the contract.
	var paths []string
	for _, unit := range units {
		paths = append(paths, unit.SourcePath)
	}
	for i := 1; i < len(paths); i++ {
		if paths[i-1] >= paths[i] {
			t.Fatalf("units not sorted by path: %v", paths)
		}
	}

	byPath := map[string]*Unit{}
	for _, unit := range units {
		byPath[unit.SourcePath] = unit
	}

	hello := byPath["_posts/2024-01-02-hello.md"]
	if hello == nil {
		t.Fatal("expected hello post")
	}
	if !hello.IsPost() {
		t.Fatalf("expected post kind, got %s", hello.Kind)
	}
	if hello.FrontMatter.Layout != "post" {
		t.Fatalf("expected default post layout, got %q", hello.FrontMatter.Layout)
	}
	if len(hello.Checksum) == 0 {
		t.Fatal("expected checksum")
	}

	second := byPath["_posts/2024-03-04-second.md"]
	if second.FrontMatter.Layout != "feature" {
		t.Fatalf("explicit layout should win, got %q", second.FrontMatter.Layout)
	}
	if !second.LastModified.Equal(modTime) {
		t.Fatalf("expected mod time %v, got %v", modTime, second.LastModified)
	}

	about := byPath["about.md"]
	if about.IsPost() {
		t.Fatal("expected top level file to be a page")
	}
	if about.FrontMatter.Layout != "page" {
		t.Fatalf("expected default page layout, got %q", about.FrontMatter.Layout)
	}

	if _, ok := byPath["notes.txt"]; ok {
		t.Fatal("non-markdown files must be skipped")
	}
}

func TestLoadFileRequiresLayout(t *testing.T) {
	fsys := fstest.MapFS{
		"about.md": &fstest.MapFile{Data: []byte("---\ntitle: About\n---\nbody\n")},
	}
	loader := NewLoader(fsys, LoaderConfig{})

	_, err := loader.LoadFile(context.Background(), "about.md")
	if err == nil {
		t.Fatal("expected error when no layout is declared or defaulted")
	}
	if !strings.Contains(err.Error(), "no layout") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadTreeHonorsContextCancellation(t *testing.T) {
	loader := NewLoader(testContentFS(time.Time{}), LoaderConfig{
		DefaultPostLayout: "post",
		DefaultPageLayout: "page",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := loader.LoadTree(ctx); err == nil {
		t.Fatal("expected context cancellation error")
	}
}

func TestUnitDateFallsBackToFilename(t *testing.T) {
	fsys := fstest.MapFS{
		"_posts/2024-01-02-hello.md": &fstest.MapFile{
			Data: []byte("---\ntitle: Hello\n---\nbody\n"),
		},
	}
	loader := NewLoader(fsys, LoaderConfig{DefaultPostLayout: "post"})

	unit, err := loader.LoadFile(context.Background(), "_posts/2024-01-02-hello.md")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !unit.Date().Equal(want) {
		t.Fatalf("expected filename date %v, got %v", want, unit.Date())
	}
	if unit.SlugSource() != "hello" {
		t.Fatalf("expected slug source without date prefix, got %q", unit.SlugSource())
	}
}

func TestUnitTitleFallsBackToFilename(t *testing.T) {
	unit := &Unit{SourcePath: "projects/side-project.md"}
	if unit.Title() != "side-project" {
		t.Fatalf("expected filename stem title, got %q", unit.Title())
	}
}

type recordingLogger struct {
	debugs []string
	warns  []string
}

func (r *recordingLogger) Trace(string, ...any)       {}
func (r *recordingLogger) Debug(msg string, _ ...any) { r.debugs = append(r.debugs, msg) }
func (r *recordingLogger) Info(string, ...any)        {}
func (r *recordingLogger) Warn(msg string, _ ...any)  { r.warns = append(r.warns, msg) }
func (r *recordingLogger) Error(string, ...any)       {}
func (r *recordingLogger) Fatal(string, ...any)       {}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

func TestLoaderLogsLoadedUnits(t *testing.T) {
	logger := &recordingLogger{}
	loader := NewLoader(testContentFS(time.Time{}), LoaderConfig{
		DefaultPostLayout: "post",
		DefaultPageLayout: "page",
		Logger:            logger,
	})

	units, err := loader.LoadTree(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(logger.debugs) != len(units) {
		t.Fatalf("expected one debug entry per unit, got %d for %d units", len(logger.debugs), len(units))
	}
	if len(logger.warns) != 0 {
		t.Fatalf("dated posts must not warn, got %v", logger.warns)
	}
}

func TestLoaderWarnsOnDatelessPost(t *testing.T) {
	fsys := fstest.MapFS{
		"_posts/undated.md": &fstest.MapFile{
			Data: []byte("---\ntitle: Undated\n---\nbody\n"),
		},
	}
	logger := &recordingLogger{}
	loader := NewLoader(fsys, LoaderConfig{DefaultPostLayout: "post", Logger: logger})

	if _, err := loader.LoadFile(context.Background(), "_posts/undated.md"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(logger.warns) != 1 || !strings.Contains(logger.warns[0], "publication date") {
		t.Fatalf("expected a missing-date warning, got %v", logger.warns)
	}
}
