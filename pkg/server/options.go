package server

import (
	"log/slog"
	"net/http"

	"github.com/goliatone/go-fieldbuilder/pkg/editor"
	"github.com/goliatone/go-fieldbuilder/pkg/preview"
)

const defaultRoutePath = "/api/field"

// GuardFunc can reject a request before it reaches the editor. Returning an
// error that implements HTTPError selects the status code.
type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath    string
	Editor       *editor.Editor
	Preview      *preview.Renderer
	Logger       *slog.Logger
	Guard        GuardFunc
	MaxBodyBytes int64
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:    defaultRoutePath,
		MaxBodyBytes: 64 << 10,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = defaultRoutePath
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 64 << 10
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

// WithEditor shares ed with the handler. Without it the handler owns a fresh
// editor with default settings.
func WithEditor(ed *editor.Editor) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Editor = ed
	}
}

func WithPreview(renderer *preview.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Preview = renderer
	}
}

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithMaxBodyBytes(limit int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = limit
	}
}
