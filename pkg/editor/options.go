package editor

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-fieldbuilder/pkg/idgen"
	"github.com/goliatone/go-fieldbuilder/pkg/submit"
)

// DocumentValidator checks a serialized definition before it is sent.
// *contract.Contract satisfies it.
type DocumentValidator interface {
	Validate(ctx context.Context, document []byte) error
}

// Option configures an Editor.
type Option func(*Editor)

// WithMaxChoices overrides model.DefaultMaxChoices. Values below 1 are ignored.
func WithMaxChoices(max int) Option {
	return func(e *Editor) {
		if max > 0 {
			e.max = max
		}
	}
}

// WithIDGenerator sets the generator used for new choices.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(e *Editor) {
		if gen != nil {
			e.ids = gen
		}
	}
}

// WithClient sets the form-creation client used by Submit.
func WithClient(client submit.Client) Option {
	return func(e *Editor) {
		e.client = client
	}
}

// WithValidator runs v against every serialized document before submission.
func WithValidator(v DocumentValidator) Option {
	return func(e *Editor) {
		e.validator = v
	}
}

// WithSanitizer normalizes label, default value, and choice text on input.
func WithSanitizer(fn func(string) string) Option {
	return func(e *Editor) {
		e.sanitize = fn
	}
}

// WithClearOnSubmit resets the draft after a successful submission.
func WithClearOnSubmit(enabled bool) Option {
	return func(e *Editor) {
		e.clearOnSubmit = enabled
	}
}

// WithLogger sets the logger used to report submissions.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}
