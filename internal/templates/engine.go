package templates

import (
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-ssg/pkg/interfaces"
)

// Engine renders django-syntax templates through pongo2. Variable resolution
// is fail-soft: unknown names render as empty values instead of aborting, so
// a missing optional field never breaks a build.
type Engine struct {
	mu       sync.RWMutex
	global   pongo2.Context
	compiled map[string]*pongo2.Template
}

var _ interfaces.TemplateRenderer = (*Engine)(nil)

var autoescapeOnce sync.Once

// NewEngine constructs an empty template engine. Autoescaping is disabled:
// layouts receive rendered markdown through the content variable and must
// emit it verbatim.
func NewEngine() *Engine {
	autoescapeOnce.Do(func() {
		pongo2.SetAutoescape(false)
	})
	return &Engine{
		global:   pongo2.Context{},
		compiled: map[string]*pongo2.Template{},
	}
}

// RenderString evaluates the supplied template source against data merged
// over the engine's global context.
func (e *Engine) RenderString(source string, data map[string]any) (string, error) {
	tpl, err := e.compile(source)
	if err != nil {
		return "", err
	}

	ctx := pongo2.Context{}
	e.mu.RLock()
	for key, value := range e.global {
		ctx[key] = value
	}
	e.mu.RUnlock()
	for key, value := range data {
		ctx[key] = value
	}

	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("templates: execute: %w", err)
	}
	return out, nil
}

// RegisterFilter installs a named filter available to all templates. The
// callback receives the filter input and its parameter as plain Go values.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if pongo2.FilterExists(name) {
		return fmt.Errorf("templates: filter %q already registered", name)
	}
	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		out, err := fn(in.Interface(), param.Interface())
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(out), nil
	})
}

// GlobalContext merges data into the context shared by every render.
func (e *Engine) GlobalContext(data map[string]any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for key, value := range data {
		e.global[key] = value
	}
	return nil
}

// compile memoizes parsed templates by source so layout chains compile once
// per build.
func (e *Engine) compile(source string) (*pongo2.Template, error) {
	e.mu.RLock()
	tpl, ok := e.compiled[source]
	e.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	tpl, err := pongo2.FromString(source)
	if err != nil {
		return nil, fmt.Errorf("templates: parse: %w", err)
	}

	e.mu.Lock()
	e.compiled[source] = tpl
	e.mu.Unlock()
	return tpl, nil
}
