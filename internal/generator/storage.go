package generator

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

type writeCategory string

const (
	categoryPage     writeCategory = "page"
	categoryIndex    writeCategory = "index"
	categoryAsset    writeCategory = "asset"
	categoryFeed     writeCategory = "feed"
	categorySitemap  writeCategory = "sitemap"
	categoryManifest writeCategory = "manifest"
)

// WriteRequest describes a file write operation routed through the
// artifact writer.
type WriteRequest struct {
	Path        string
	Content     io.Reader
	Size        int64
	Category    writeCategory
	ContentType string
	Checksum    string
}

// ArtifactWriter abstracts output storage so builds can target the real
// filesystem or an in-memory tree in tests.
type ArtifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req WriteRequest) error
	Clean(ctx context.Context) error
}

// NewFilesystemWriter returns an artifact writer rooted at dir.
func NewFilesystemWriter(dir string) ArtifactWriter {
	return &filesystemWriter{root: filepath.Clean(dir)}
}

type filesystemWriter struct {
	root string
}

func (w *filesystemWriter) EnsureDir(_ context.Context, dir string) error {
	if strings.TrimSpace(dir) == "" || dir == "." {
		return os.MkdirAll(w.root, 0o755)
	}
	return os.MkdirAll(w.abs(dir), 0o755)
}

func (w *filesystemWriter) WriteFile(_ context.Context, req WriteRequest) error {
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}

	full := w.abs(req.Path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	file, err := os.Create(full)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := io.Copy(file, req.Content); err != nil {
		return err
	}
	return nil
}

func (w *filesystemWriter) Clean(_ context.Context) error {
	err := os.RemoveAll(w.root)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (w *filesystemWriter) abs(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(strings.TrimPrefix(rel, "/")))
}

// NewMemoryWriter returns an artifact writer that records writes in memory.
// Builds in tests assert against its file map.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{files: map[string][]byte{}}
}

// MemoryWriter is the in-memory ArtifactWriter used by tests.
type MemoryWriter struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  []string
}

func (w *MemoryWriter) EnsureDir(_ context.Context, dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirs = append(w.dirs, dir)
	return nil
}

func (w *MemoryWriter) WriteFile(_ context.Context, req WriteRequest) error {
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[req.Path] = data
	return nil
}

func (w *MemoryWriter) Clean(context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files = map[string][]byte{}
	w.dirs = nil
	return nil
}

// File returns the recorded contents for path.
func (w *MemoryWriter) File(path string) ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	data, ok := w.files[path]
	return data, ok
}

// Paths returns every written path in sorted order.
func (w *MemoryWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
