// Package preview renders a field definition the way a consuming page would
// show it: a labelled select whose options follow the definition's order mode,
// styled by a go-theme manifest.
package preview

import (
	"context"
	"errors"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-fieldbuilder/pkg/model"
	"github.com/goliatone/go-fieldbuilder/pkg/sanitize"
)

const fieldTemplate = "field"

// Options configures a Renderer.
type Options struct {
	Engine   *Engine
	Selector theme.ThemeSelector
	Theme    string
	Variant  string
}

// Option mutates Options.
type Option func(*Options)

// WithEngine injects a preconfigured template engine.
func WithEngine(engine *Engine) Option {
	return func(o *Options) {
		o.Engine = engine
	}
}

// WithThemeSelector sets the selector used to resolve themes.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Options) {
		o.Selector = selector
	}
}

// WithTheme sets the default theme and variant.
func WithTheme(name, variant string) Option {
	return func(o *Options) {
		o.Theme = strings.TrimSpace(name)
		o.Variant = strings.TrimSpace(variant)
	}
}

// RenderOptions carries per-call values.
type RenderOptions struct {
	// Name is the select element's name attribute; defaults to "field".
	Name string
	// Warning is shown under the select, e.g. the editor's over-max notice.
	Warning string
	// Theme and Variant override the renderer defaults when set.
	Theme   string
	Variant string
}

// Renderer turns definitions into HTML fragments.
type Renderer struct {
	engine   *Engine
	selector theme.ThemeSelector
	theme    string
	variant  string
}

// New constructs a Renderer. Without options it uses the embedded templates
// and the built-in default theme.
func New(options ...Option) (*Renderer, error) {
	opts := Options{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&opts)
	}

	engine := opts.Engine
	if engine == nil {
		var err error
		engine, err = NewEngine()
		if err != nil {
			return nil, err
		}
	}

	selector := opts.Selector
	if selector == nil {
		defaults, err := NewManifestSelector("", "", DefaultManifest())
		if err != nil {
			return nil, err
		}
		selector = defaults
	}

	return &Renderer{
		engine:   engine,
		selector: selector,
		theme:    opts.Theme,
		variant:  opts.Variant,
	}, nil
}

// ContentType reports the media type of Render output.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the HTML fragment for def.
func (r *Renderer) Render(ctx context.Context, def model.Definition, opts RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("preview: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	themeName, variant := r.theme, r.variant
	if opts.Theme != "" {
		themeName, variant = opts.Theme, opts.Variant
	} else if opts.Variant != "" {
		variant = opts.Variant
	}
	resolved, err := ResolveTheme(r.selector, themeName, variant)
	if err != nil {
		return nil, err
	}

	out, err := r.engine.RenderTemplate(fieldTemplate, viewData(def, opts, resolved))
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func viewData(def model.Definition, opts RenderOptions, resolved Theme) map[string]any {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = "field"
	}

	arranged := Arrange(def.Choices, def.Order)
	choices := make([]map[string]any, 0, len(arranged))
	for _, choice := range arranged {
		choices = append(choices, map[string]any{
			"id":       choice.ID,
			"text":     sanitize.Text(choice.Text),
			"selected": def.DefaultValue != "" && choice.Text == def.DefaultValue,
		})
	}

	return map[string]any{
		"field": map[string]any{
			"id":          "fieldbuilder-" + name,
			"name":        name,
			"label":       sanitize.Text(def.Label),
			"multiple":    def.MultiSelect,
			"order":       def.Order.String(),
			"order_label": def.Order.Label(),
			"choices":     choices,
		},
		"theme": map[string]any{
			"name":       resolved.Name,
			"variant":    resolved.Variant,
			"style":      resolved.Style(),
			"stylesheet": resolved.Stylesheet,
		},
		"warning": opts.Warning,
	}
}
