// Package tui drives an editor.Editor from a terminal menu.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-fieldbuilder/pkg/editor"
	"github.com/goliatone/go-fieldbuilder/pkg/model"
	"github.com/goliatone/go-fieldbuilder/pkg/preview"
)

type action int

const (
	actionLabel action = iota
	actionMultiSelect
	actionDefault
	actionAdd
	actionRemove
	actionOrder
	actionClear
	actionSubmit
	actionQuit
)

var menu = []string{
	actionLabel:       "Set label",
	actionMultiSelect: "Toggle multi-select",
	actionDefault:     "Set default value",
	actionAdd:         "Add choice",
	actionRemove:      "Remove choice",
	actionOrder:       "Set order",
	actionClear:       "Clear",
	actionSubmit:      "Submit",
	actionQuit:        "Quit",
}

// Session is one interactive editing run.
type Session struct {
	editor   *editor.Editor
	driver   PromptDriver
	keepOpen bool
	theme    Theme
	logger   *slog.Logger
}

// NewSession binds a session to ed. Without options it prompts through
// survey on the real terminal.
func NewSession(ed *editor.Editor, options ...Option) (*Session, error) {
	if ed == nil {
		return nil, ErrNoEditor
	}
	s := &Session{
		editor: ed,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s, nil
}

// Run shows the menu until the user quits or, unless KeepOpen is set,
// submits successfully. Ctrl+C ends the run with ErrAborted.
func (s *Session) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.driver.Info(ctx, s.summary()); err != nil {
			return err
		}

		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:  "Field builder",
			Options:  menu,
			PageSize: len(menu),
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(menu) {
			return fmt.Errorf("tui: unknown menu entry %d", idx)
		}

		done, err := s.dispatch(ctx, action(idx))
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (s *Session) dispatch(ctx context.Context, act action) (bool, error) {
	draft := s.editor.Draft()

	switch act {
	case actionLabel:
		label, err := s.driver.Input(ctx, InputConfig{Message: "Label", Default: draft.Label})
		if err != nil {
			return false, err
		}
		s.editor.SetLabel(strings.TrimSpace(label))

	case actionMultiSelect:
		multi, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: "Allow multiple selections?",
			Default: draft.MultiSelect,
		})
		if err != nil {
			return false, err
		}
		s.editor.SetMultiSelect(multi)

	case actionDefault:
		value, err := s.driver.Input(ctx, InputConfig{Message: "Default value", Default: draft.DefaultValue})
		if err != nil {
			return false, err
		}
		s.editor.SetDefaultValue(strings.TrimSpace(value))

	case actionAdd:
		text, err := s.driver.Input(ctx, InputConfig{Message: "Choice"})
		if err != nil {
			return false, err
		}
		s.editor.SetPendingChoice(strings.TrimSpace(text))
		return false, s.report(ctx, s.editor.AddPending())

	case actionRemove:
		text, err := s.driver.Input(ctx, InputConfig{
			Message: "Choice to remove",
			Help:    "Exact, case-sensitive text of an existing choice",
		})
		if err != nil {
			return false, err
		}
		s.editor.SetPendingChoice(strings.TrimSpace(text))
		return false, s.report(ctx, s.editor.RemovePending())

	case actionOrder:
		modes := model.OrderModes()
		labels := make([]string, len(modes))
		current := 0
		for i, mode := range modes {
			labels[i] = mode.Label()
			if mode == draft.Order {
				current = i
			}
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      "Order",
			Options:      labels,
			DefaultIndex: current,
		})
		if err != nil {
			return false, err
		}
		if idx >= 0 && idx < len(modes) {
			s.editor.SetOrder(modes[idx])
		}

	case actionClear:
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Clear the form?"})
		if err != nil {
			return false, err
		}
		if ok {
			return false, s.report(ctx, s.editor.Clear())
		}

	case actionSubmit:
		res := s.editor.Submit(ctx)
		if err := s.report(ctx, res); err != nil {
			return false, err
		}
		if res.OK() {
			s.logger.Debug("session submit succeeded", "keep_open", s.keepOpen)
			return !s.keepOpen, nil
		}

	case actionQuit:
		return true, nil
	}
	return false, nil
}

func (s *Session) report(ctx context.Context, res editor.Result) error {
	msg := res.Message()
	if msg == "" {
		return nil
	}
	prefix := s.theme.InfoPrefix
	if !res.OK() {
		prefix = s.theme.ErrorPrefix
		s.logger.Debug("editor notice", "kind", res.Kind.String(), "error", res.Err)
	}
	return s.driver.Info(ctx, prefix+msg)
}

func (s *Session) summary() string {
	draft := s.editor.Draft()
	var b strings.Builder

	label := draft.Label
	if label == "" {
		label = "(none)"
	}
	fmt.Fprintf(&b, "Label: %s\n", label)
	fmt.Fprintf(&b, "Multi-select: %s\n", yesNo(draft.MultiSelect))
	if draft.DefaultValue != "" {
		fmt.Fprintf(&b, "Default value: %s\n", draft.DefaultValue)
	}
	fmt.Fprintf(&b, "Order: %s\n", draft.Order.Label())
	fmt.Fprintf(&b, "Choices (%d/%d):", len(draft.Choices), s.editor.MaxChoices())
	for _, choice := range preview.Arrange(draft.Choices, draft.Order) {
		fmt.Fprintf(&b, "\n  - %s", choice.Text)
	}
	if warning := s.editor.Warning(); warning != "" {
		fmt.Fprintf(&b, "\n%s%s", s.theme.ErrorPrefix, warning)
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
