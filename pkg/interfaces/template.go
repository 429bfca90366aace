package interfaces

// TemplateRenderer abstracts the template engine used to turn content and
// layouts into final markup. Implementations must be fail-soft: an unknown
// variable renders as an empty value rather than aborting the build.
type TemplateRenderer interface {
	// RenderString evaluates the supplied template source against data.
	RenderString(source string, data map[string]any) (string, error)
	// RegisterFilter installs a named filter available to all templates.
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	// GlobalContext merges data into the context shared by every render.
	GlobalContext(data map[string]any) error
}
