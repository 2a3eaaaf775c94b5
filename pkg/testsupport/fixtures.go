// Package testsupport holds fixture helpers shared by package tests.
package testsupport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldbuilder/pkg/model"
)

// MustLoadDefinition reads a wire-format definition fixture.
func MustLoadDefinition(t *testing.T, path string) model.Definition {
	t.Helper()

	def, err := LoadDefinition(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadDefinition reads a definition fixture without requiring testing.T.
func LoadDefinition(path string) (model.Definition, error) {
	if path == "" {
		return model.Definition{}, errors.New("testsupport: definition path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Definition{}, fmt.Errorf("testsupport: read definition: %w", err)
	}
	def, err := model.DecodeDefinition(data)
	if err != nil {
		return model.Definition{}, fmt.Errorf("testsupport: %w", err)
	}
	return def, nil
}

// CompareDocuments diffs two serialized definitions after decoding, so key
// spacing does not matter.
func CompareDocuments(t *testing.T, want, got []byte) string {
	t.Helper()
	wantDef, err := model.DecodeDefinition(want)
	if err != nil {
		t.Fatalf("decode want: %v", err)
	}
	gotDef, err := model.DecodeDefinition(got)
	if err != nil {
		t.Fatalf("decode got: %v", err)
	}
	return cmp.Diff(wantDef, gotDef)
}

// CaptureTemplateOutput runs a render function that also writes to an
// io.Writer and returns both results so tests can check they agree.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
