package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoEditor is returned when a session is built without an editor.
	ErrNoEditor = errors.New("tui: editor is required")
)
