package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-ssg/internal/content"
	"github.com/goliatone/go-ssg/internal/logging"
	"github.com/goliatone/go-ssg/pkg/interfaces"
)

const (
	codeLayoutCycle   = "LAYOUT_CYCLE"
	codeLayoutMissing = "LAYOUT_MISSING"
)

var (
	// ErrLayoutCycle indicates a layout (transitively) extends itself.
	ErrLayoutCycle = errors.New("templates: layout cycle")
	// ErrLayoutMissing indicates a layout reference cannot be resolved.
	ErrLayoutMissing = errors.New("templates: layout not found")
)

// Layout is a template a content unit renders through. A layout may extend a
// parent layout by naming it in its own front matter.
type Layout struct {
	Name   string
	Parent string
	Source string
	// Path is the file the layout was loaded from, kept for diagnostics.
	Path string
}

// Store holds the loaded layouts keyed by name.
type Store struct {
	layouts map[string]*Layout
}

// LoadLayouts reads every template file under the provided filesystem,
// splits off front matter, and validates each layout's parent chain. Cycles
// and dangling parent references are fatal configuration errors, reported
// before any output is written.
func LoadLayouts(fsys fs.FS) (*Store, error) {
	return LoadLayoutsWithLogger(fsys, nil)
}

// LoadLayoutsWithLogger is LoadLayouts with per-layout load diagnostics.
func LoadLayoutsWithLogger(fsys fs.FS, logger interfaces.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NoOp()
	}
	store := &Store{layouts: map[string]*Layout{}}

	walkErr := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(path.Ext(p))
		if ext != ".html" && ext != ".tmpl" {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("templates: read layout %s: %w", p, err)
		}

		meta, body, err := content.ParseFrontMatter(data)
		if err != nil {
			return fmt.Errorf("templates: layout %s: %w", p, err)
		}

		name := strings.TrimSuffix(path.Base(p), ext)
		if existing, ok := store.layouts[name]; ok {
			return fmt.Errorf("templates: duplicate layout %q in %s (already loaded from %s)", name, p, existing.Path)
		}

		store.layouts[name] = &Layout{
			Name:   name,
			Parent: strings.TrimSpace(meta.Layout),
			Source: string(body),
			Path:   p,
		}
		logger.Debug("layout loaded", "layout", name, "parent", store.layouts[name].Parent, "source", p)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if err := store.validate(); err != nil {
		return nil, err
	}
	return store, nil
}

// Get returns the named layout.
func (s *Store) Get(name string) (*Layout, bool) {
	layout, ok := s.layouts[name]
	return layout, ok
}

// Names returns every layout name in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.layouts))
	for name := range s.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve follows the parent chain from the named layout to its terminal
// ancestor, innermost first. Resolution is iterative with a visited set so a
// malicious chain cannot exhaust the call stack.
func (s *Store) Resolve(name string) ([]*Layout, error) {
	var chain []*Layout
	visited := map[string]struct{}{}

	current := strings.TrimSpace(name)
	for current != "" {
		if _, seen := visited[current]; seen {
			return nil, layoutCycleError(name, chain, current)
		}
		visited[current] = struct{}{}

		layout, ok := s.layouts[current]
		if !ok {
			err := fmt.Errorf("%w: %q (referenced from %q)", ErrLayoutMissing, current, name)
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "unresolvable layout reference").
				WithTextCode(codeLayoutMissing)
		}

		chain = append(chain, layout)
		current = layout.Parent
	}

	return chain, nil
}

// validate resolves every loaded layout so configuration errors surface at
// load time rather than mid-render.
func (s *Store) validate() error {
	for _, name := range s.Names() {
		if _, err := s.Resolve(name); err != nil {
			return err
		}
	}
	return nil
}

func layoutCycleError(start string, chain []*Layout, repeated string) error {
	names := make([]string, 0, len(chain)+1)
	for _, layout := range chain {
		names = append(names, layout.Name)
	}
	names = append(names, repeated)

	err := fmt.Errorf("%w: %s (starting from %q)", ErrLayoutCycle, strings.Join(names, " -> "), start)
	return goerrors.Wrap(err, goerrors.CategoryValidation, "layout chain extends itself").
		WithTextCode(codeLayoutCycle)
}
