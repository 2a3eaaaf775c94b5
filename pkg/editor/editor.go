// Package editor owns the in-progress field definition. It applies the
// add/remove/clear rules, keeps the sticky over-max warning, and on Submit
// validates the draft and hands the serialized definition to a submit.Client.
//
// An Editor is not safe for concurrent use. Callers feed it one event at a
// time.
package editor

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/goliatone/go-fieldbuilder/pkg/idgen"
	"github.com/goliatone/go-fieldbuilder/pkg/model"
	"github.com/goliatone/go-fieldbuilder/pkg/submit"
)

// ErrNoClient is reported through NoticeSubmitFailed when Submit runs without
// a configured client.
var ErrNoClient = errors.New("editor: submission client is not configured")

// Editor holds one draft and the state of its over-max warning.
type Editor struct {
	draft   model.Draft
	overMax bool

	max           int
	ids           idgen.Generator
	client        submit.Client
	validator     DocumentValidator
	sanitize      func(string) string
	clearOnSubmit bool
	logger        *slog.Logger
}

// New constructs an Editor with an empty draft. Without options it allows
// model.DefaultMaxChoices choices, issues timestamp identifiers, and has no
// client.
func New(options ...Option) *Editor {
	e := &Editor{
		max:    model.DefaultMaxChoices,
		ids:    idgen.NewTimestamp(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Draft returns a copy of the current draft.
func (e *Editor) Draft() model.Draft {
	return e.draft.Clone()
}

// MaxChoices reports the configured choice limit.
func (e *Editor) MaxChoices() int {
	return e.max
}

// OverMaxVisible reports whether the sticky over-max warning is showing.
func (e *Editor) OverMaxVisible() bool {
	return e.overMax
}

// Warning returns the over-max text while the warning is visible, "" otherwise.
func (e *Editor) Warning() string {
	if !e.overMax {
		return ""
	}
	return overMaxMessage(e.max)
}

// SetLabel records the field label.
func (e *Editor) SetLabel(label string) {
	e.draft.Label = e.clean(label)
}

// SetMultiSelect toggles whether several choices may be selected.
func (e *Editor) SetMultiSelect(multi bool) {
	e.draft.MultiSelect = multi
}

// SetDefaultValue records the preselected choice text.
func (e *Editor) SetDefaultValue(value string) {
	e.draft.DefaultValue = e.clean(value)
}

// SetPendingChoice stores the text used by AddPending and RemovePending.
func (e *Editor) SetPendingChoice(text string) {
	e.draft.PendingChoice = text
}

// SetOrder records the selected order mode. Unknown modes fall back to
// model.OrderNone.
func (e *Editor) SetOrder(mode model.OrderMode) {
	if !mode.Valid() {
		mode = model.OrderNone
	}
	e.draft.Order = mode
}

// AddChoice appends a new choice. Empty text, duplicates (exact,
// case-sensitive), and a full list are rejected without touching the choices;
// a full list also raises the over-max warning.
func (e *Editor) AddChoice(text string) Result {
	text = e.clean(text)
	if text == "" {
		return Result{Kind: NoticeEmptyChoice}
	}
	if e.draft.HasChoice(text) {
		return Result{Kind: NoticeDuplicateChoice, Choice: text}
	}
	if len(e.draft.Choices) >= e.max {
		e.overMax = true
		return Result{Kind: NoticeOverMax, Choice: text, Max: e.max}
	}

	e.draft.Choices = append(e.draft.Choices, model.Choice{Text: text, ID: e.ids.Next()})
	e.draft.PendingChoice = ""
	e.overMax = false
	return Result{Kind: NoticeChoiceAdded, Choice: text}
}

// AddPending adds the draft's pending choice text.
func (e *Editor) AddPending() Result {
	return e.AddChoice(e.draft.PendingChoice)
}

// RemoveChoice deletes the choice whose text matches exactly and re-evaluates
// the over-max warning.
func (e *Editor) RemoveChoice(text string) Result {
	text = e.clean(text)
	if text == "" {
		return Result{Kind: NoticeEmptyChoice}
	}
	idx := e.draft.IndexOf(text)
	if idx < 0 {
		return Result{Kind: NoticeChoiceNotFound, Choice: text}
	}

	e.draft.Choices = append(e.draft.Choices[:idx:idx], e.draft.Choices[idx+1:]...)
	e.draft.PendingChoice = ""
	if len(e.draft.Choices) <= e.max {
		e.overMax = false
	}
	return Result{Kind: NoticeChoiceDeleted, Choice: text}
}

// RemovePending removes the choice named by the draft's pending text.
func (e *Editor) RemovePending() Result {
	return e.RemoveChoice(e.draft.PendingChoice)
}

// Clear resets every draft field and hides the warning.
func (e *Editor) Clear() Result {
	e.reset()
	return Result{Kind: NoticeCleared}
}

func (e *Editor) reset() {
	e.draft = model.Draft{}
	e.overMax = false
}

// Submit validates the draft and sends it. A non-empty default value missing
// from the choices is appended first; if that would exceed the limit the
// submission is refused. A failed delivery leaves the draft in place so it
// can be retried.
func (e *Editor) Submit(ctx context.Context) Result {
	if e.draft.Label == "" {
		return Result{Kind: NoticeLabelRequired}
	}

	// The appended default is committed only once the document passes
	// validation.
	effective := e.draft.Clone()
	if dv := effective.DefaultValue; dv != "" && !effective.HasChoice(dv) {
		if len(effective.Choices)+1 > e.max {
			return Result{Kind: NoticeDefaultNotInChoices, Choice: dv}
		}
		effective.Choices = append(effective.Choices, model.Choice{Text: dv, ID: e.ids.Next()})
	}

	def := model.NewDefinition(effective)
	doc, err := def.Encode()
	if err != nil {
		return Result{Kind: NoticeInvalidDocument, Definition: &def, Err: err}
	}

	if e.validator != nil {
		if err := e.validator.Validate(ctx, doc); err != nil {
			e.logger.Warn("field definition rejected", "label", def.Label, "error", err)
			return Result{Kind: NoticeInvalidDocument, Definition: &def, Err: err}
		}
	}

	e.draft.Choices = effective.Choices

	if e.client == nil {
		return Result{Kind: NoticeSubmitFailed, Definition: &def, Err: ErrNoClient}
	}

	resp, err := e.client.Create(ctx, doc)
	if err != nil {
		e.logger.Error("field submission failed",
			"label", def.Label,
			"choices", len(def.Choices),
			"error", err,
		)
		return Result{Kind: NoticeSubmitFailed, Definition: &def, Response: resp, Err: err}
	}

	attrs := []any{"label", def.Label, "choices", len(def.Choices), "order", def.Order.String()}
	if resp != nil {
		attrs = append(attrs, "status", resp.StatusCode, "id", resp.ID)
	}
	e.logger.Info("field submitted", attrs...)

	if e.clearOnSubmit {
		e.reset()
	}
	return Result{Kind: NoticeSubmitted, Definition: &def, Response: resp}
}

func (e *Editor) clean(text string) string {
	if e.sanitize == nil {
		return text
	}
	return e.sanitize(text)
}
