package content

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
	goerrors "github.com/goliatone/go-errors"
)

const codeFrontMatterInvalid = "FRONTMATTER_INVALID"

// FrontMatter is the structured metadata header attached to a content file.
// Typed fields cover the keys the pipeline interprets; Raw retains every key
// for template lookup.
type FrontMatter struct {
	Title      string
	Date       time.Time
	Layout     string
	Permalink  string
	Categories []string
	Tags       []string
	Order      *float64
	Excerpt    string
	Draft      bool
	Custom     map[string]any
	Raw        map[string]any
}

// ParseFrontMatter extracts metadata and the markup body from the provided
// source bytes. It returns the structured front matter, the body without
// delimiters, and any error encountered.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		err = fmt.Errorf("parse frontmatter: %w", err)
		return FrontMatter{}, nil, goerrors.Wrap(err, goerrors.CategoryValidation, "malformed front matter").
			WithTextCode(codeFrontMatterInvalid)
	}

	return envelopeToFrontMatter(meta), body, nil
}

type frontMatterEnvelope struct {
	Title      string         `yaml:"title"`
	Date       time.Time      `yaml:"date"`
	Layout     string         `yaml:"layout"`
	Permalink  string         `yaml:"permalink"`
	Categories []string       `yaml:"categories"`
	Tags       []string       `yaml:"tags"`
	Order      *float64       `yaml:"order"`
	Excerpt    string         `yaml:"excerpt"`
	Draft      bool           `yaml:"draft"`
	Custom     map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	raw := make(map[string]any, len(env.Custom)+8)
	for key, value := range env.Custom {
		raw[key] = value
	}

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if !env.Date.IsZero() {
		raw["date"] = env.Date
	}
	if env.Layout != "" {
		raw["layout"] = env.Layout
	}
	if env.Permalink != "" {
		raw["permalink"] = env.Permalink
	}
	if len(env.Categories) > 0 {
		raw["categories"] = append([]string(nil), env.Categories...)
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if env.Order != nil {
		raw["order"] = *env.Order
	}
	if env.Excerpt != "" {
		raw["excerpt"] = env.Excerpt
	}
	raw["draft"] = env.Draft

	return FrontMatter{
		Title:      env.Title,
		Date:       env.Date,
		Layout:     env.Layout,
		Permalink:  env.Permalink,
		Categories: append([]string(nil), env.Categories...),
		Tags:       append([]string(nil), env.Tags...),
		Order:      env.Order,
		Excerpt:    env.Excerpt,
		Draft:      env.Draft,
		Custom:     cloneMap(env.Custom),
		Raw:        raw,
	}
}

// GetString looks up a string value in the raw front matter. The boolean
// reports presence so callers can distinguish empty from absent.
func (f FrontMatter) GetString(key string) (string, bool) {
	raw, ok := f.Raw[key]
	if !ok {
		return "", false
	}
	value, ok := raw.(string)
	return value, ok
}

// GetTime looks up a time value in the raw front matter.
func (f FrontMatter) GetTime(key string) (time.Time, bool) {
	raw, ok := f.Raw[key]
	if !ok {
		return time.Time{}, false
	}
	value, ok := raw.(time.Time)
	return value, ok
}

// GetNumber looks up a numeric value in the raw front matter, accepting the
// integer and float shapes YAML decoders produce.
func (f FrontMatter) GetNumber(key string) (float64, bool) {
	raw, ok := f.Raw[key]
	if !ok {
		return 0, false
	}
	switch value := raw.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case uint64:
		return float64(value), true
	default:
		return 0, false
	}
}

// GetStrings looks up an ordered sequence of strings in the raw front matter.
func (f FrontMatter) GetStrings(key string) ([]string, bool) {
	raw, ok := f.Raw[key]
	if !ok {
		return nil, false
	}
	switch value := raw.(type) {
	case []string:
		return append([]string(nil), value...), true
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
