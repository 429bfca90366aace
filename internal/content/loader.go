package content

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-ssg/internal/logging"
	"github.com/goliatone/go-ssg/pkg/interfaces"
)

// LoaderConfig configures how content files are discovered within a base
// directory.
type LoaderConfig struct {
	// PostsDir is the directory (relative to the content root) whose files
	// load as posts. Defaults to "_posts".
	PostsDir string
	// Patterns limits discovered files to those matching the supplied globs
	// (defaults to "*.md" and "*.markdown").
	Patterns []string
	// DefaultPostLayout and DefaultPageLayout apply when front matter omits
	// a layout.
	DefaultPostLayout string
	DefaultPageLayout string
	// Logger receives per-file load diagnostics. Defaults to a no-op.
	Logger interfaces.Logger
}

// Loader turns a filesystem tree into immutable content units.
type Loader struct {
	fs                fs.FS
	postsDir          string
	patterns          []string
	defaultPostLayout string
	defaultPageLayout string
	logger            interfaces.Logger
}

// NewLoader constructs a Loader over the provided filesystem, rooted at the
// content directory.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	postsDir := strings.Trim(strings.TrimSpace(cfg.PostsDir), "/")
	if postsDir == "" {
		postsDir = "_posts"
	}

	patterns := append([]string(nil), cfg.Patterns...)
	if len(patterns) == 0 {
		patterns = []string{"*.md", "*.markdown"}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Loader{
		fs:                filesystem,
		postsDir:          postsDir,
		patterns:          patterns,
		defaultPostLayout: strings.TrimSpace(cfg.DefaultPostLayout),
		defaultPageLayout: strings.TrimSpace(cfg.DefaultPageLayout),
		logger:            logger,
	}
}

// LoadFile reads and parses a single content file.
func (l *Loader) LoadFile(ctx context.Context, sourcePath string) (*Unit, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rel := path.Clean(strings.TrimPrefix(sourcePath, "./"))

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("content loader read %s: %w", rel, err)
	}

	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("content loader stat %s: %w", rel, err)
	}

	meta, body, err := ParseFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("content loader %s: %w", rel, err)
	}

	unit := &Unit{
		SourcePath:   rel,
		Kind:         l.detectKind(rel),
		FrontMatter:  meta,
		Body:         body,
		LastModified: info.ModTime(),
	}
	sum := sha256.Sum256(data)
	unit.Checksum = sum[:]

	if unit.FrontMatter.Layout == "" {
		unit.FrontMatter.Layout = l.defaultLayout(unit.Kind)
	}
	if unit.FrontMatter.Layout == "" {
		return nil, fmt.Errorf("content loader %s: no layout declared and no default configured", rel)
	}

	// A dateless post still builds (it sorts last), so this is a warning
	// rather than an error.
	if unit.Kind == KindPost && unit.Date().IsZero() {
		l.logger.Warn("post has no publication date", "source", rel)
	}
	l.logger.Debug("content unit loaded", "source", rel, "kind", string(unit.Kind), "layout", unit.FrontMatter.Layout)

	return unit, nil
}

// LoadTree discovers every content file under the loader root and returns
// parsed units in deterministic (path-sorted) order.
func (l *Loader) LoadTree(ctx context.Context) ([]*Unit, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var units []*Unit

	walkErr := fs.WalkDir(l.fs, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if !l.matchesPattern(p) {
			return nil
		}

		unit, err := l.LoadFile(ctx, p)
		if err != nil {
			return err
		}
		units = append(units, unit)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(units, func(i, j int) bool {
		return units[i].SourcePath < units[j].SourcePath
	})

	return units, nil
}

func (l *Loader) detectKind(sourcePath string) Kind {
	segments := strings.Split(sourcePath, "/")
	for _, segment := range segments[:max(len(segments)-1, 0)] {
		if segment == l.postsDir {
			return KindPost
		}
	}
	return KindPage
}

func (l *Loader) defaultLayout(kind Kind) string {
	if kind == KindPost {
		return l.defaultPostLayout
	}
	return l.defaultPageLayout
}

func (l *Loader) matchesPattern(sourcePath string) bool {
	base := path.Base(sourcePath)
	for _, pattern := range l.patterns {
		match, err := path.Match(pattern, base)
		if err != nil {
			continue
		}
		if match {
			return true
		}
	}
	return false
}
