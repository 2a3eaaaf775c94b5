package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldbuilder/pkg/editor"
	"github.com/goliatone/go-fieldbuilder/pkg/idgen"
	"github.com/goliatone/go-fieldbuilder/pkg/model"
	"github.com/goliatone/go-fieldbuilder/pkg/submit"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	inputPos     int
	selectPos    int
	confirmPos   int
	selectErr    error
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		if s.selectErr != nil {
			return -1, s.selectErr
		}
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

// notices drops the per-loop draft summaries.
func (s *stubDriver) notices() []string {
	var out []string
	for _, msg := range s.infoMessages {
		if strings.HasPrefix(msg, "Label: ") {
			continue
		}
		out = append(out, msg)
	}
	return out
}

type recordingClient struct {
	docs [][]byte
	err  error
}

func (c *recordingClient) Create(_ context.Context, doc []byte) (*submit.Response, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.docs = append(c.docs, append([]byte(nil), doc...))
	return &submit.Response{StatusCode: 201, ID: "f-1"}, nil
}

func newEditor(client submit.Client) *editor.Editor {
	return editor.New(
		editor.WithIDGenerator(&idgen.Sequence{Prefix: "id"}),
		editor.WithClient(client),
	)
}

func TestSessionBuildsAndSubmits(t *testing.T) {
	client := &recordingClient{}
	driver := &stubDriver{
		selectIdx: []int{
			int(actionLabel),
			int(actionMultiSelect),
			int(actionAdd),
			int(actionAdd),
			int(actionOrder), 1,
			int(actionSubmit),
		},
		inputs:  []string{"Sales Region", "West", "East"},
		confirm: []bool{true},
	}

	s, err := NewSession(newEditor(client), WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{"Choice West added", "Choice East added", "Field saved as f-1"}
	if diff := cmp.Diff(want, driver.notices()); diff != "" {
		t.Fatalf("notices mismatch (-want +got):\n%s", diff)
	}
	if len(client.docs) != 1 {
		t.Fatalf("expected one submission, got %d", len(client.docs))
	}

	def, err := model.DecodeDefinition(client.docs[0])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if def.Label != "Sales Region" || !def.MultiSelect || def.Order != model.OrderAlphabetical {
		t.Fatalf("unexpected definition: %+v", def)
	}
	if len(def.Choices) != 2 || def.Choices[0].Text != "West" || def.Choices[1].Text != "East" {
		t.Fatalf("choices should keep insertion order, got %+v", def.Choices)
	}
}

func TestSessionShowsOverMaxWarning(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{int(actionAdd), int(actionAdd), int(actionAdd), int(actionQuit)},
		inputs:    []string{"a", "b", "c"},
	}
	s, err := NewSession(newEditor(nil), WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	notices := driver.notices()
	if got := notices[len(notices)-1]; got != "! Over Max 2 Choices!" {
		t.Fatalf("expected over-max notice, got %q", got)
	}
	last := driver.infoMessages[len(driver.infoMessages)-1]
	if !strings.Contains(last, "Choices (2/2)") || !strings.HasSuffix(last, "! Over Max 2 Choices!") {
		t.Fatalf("summary should carry the sticky warning:\n%s", last)
	}
}

func TestSessionFailedSubmitStaysOpen(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{int(actionSubmit), int(actionLabel), int(actionSubmit), int(actionQuit)},
		inputs:    []string{"Region"},
	}
	client := &recordingClient{err: errors.New("connection refused")}
	s, err := NewSession(newEditor(client), WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{"Label field is required", "submission failed: connection refused"}
	if diff := cmp.Diff(want, driver.notices()); diff != "" {
		t.Fatalf("notices mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionKeepOpenAfterSubmit(t *testing.T) {
	client := &recordingClient{}
	driver := &stubDriver{
		selectIdx: []int{int(actionLabel), int(actionSubmit), int(actionSubmit), int(actionQuit)},
		inputs:    []string{"Region"},
	}
	s, err := NewSession(newEditor(client), WithPromptDriver(driver), WithKeepOpen(true))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(client.docs) != 2 {
		t.Fatalf("expected two submissions, got %d", len(client.docs))
	}
}

func TestSessionRemoveAndClear(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{
			int(actionAdd),
			int(actionRemove),
			int(actionRemove),
			int(actionDefault),
			int(actionClear),
			int(actionQuit),
		},
		inputs:  []string{"North", "south", "North", "North"},
		confirm: []bool{true},
	}
	ed := newEditor(nil)
	s, err := NewSession(ed, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{"Choice North added", "Choice did not find", "Choice North deleted", "Form cleared"}
	if diff := cmp.Diff(want, driver.notices()); diff != "" {
		t.Fatalf("notices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.Draft{}, ed.Draft()); diff != "" {
		t.Fatalf("draft not cleared (-want +got):\n%s", diff)
	}
}

func TestSessionAbortPropagates(t *testing.T) {
	driver := &stubDriver{selectErr: ErrAborted}
	s, err := NewSession(newEditor(nil), WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestNewSessionRequiresEditor(t *testing.T) {
	if _, err := NewSession(nil); !errors.Is(err, ErrNoEditor) {
		t.Fatalf("expected ErrNoEditor, got %v", err)
	}
}
