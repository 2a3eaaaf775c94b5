package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/goliatone/go-fieldbuilder/internal/config"
	"github.com/goliatone/go-fieldbuilder/pkg/editor"
	"github.com/goliatone/go-fieldbuilder/pkg/submit"
	"github.com/goliatone/go-fieldbuilder/pkg/testsupport"
)

func testApp(t *testing.T, mutate func(*config.Config)) (*app, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	var out bytes.Buffer
	return &app{
		cfg:    &cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		stdin:  strings.NewReader(""),
		stdout: &out,
		stderr: io.Discard,
	}, &out
}

func TestBuildEditorDryRunWritesDocument(t *testing.T) {
	a, out := testApp(t, func(cfg *config.Config) {
		cfg.DryRun = true
		cfg.IDStrategy = "sequence"
		cfg.Contract.Enforce = true
	})

	ed, err := a.buildEditor(context.Background())
	if err != nil {
		t.Fatalf("build editor: %v", err)
	}
	ed.SetLabel("Priority")
	ed.AddChoice("High")

	res := ed.Submit(context.Background())
	if res.Kind != editor.NoticeSubmitted {
		t.Fatalf("expected submitted, got %s: %v", res.Kind, res.Err)
	}
	want := `{"Label":"Priority","multiSelect":false,"defaultValue":"","choices":[{"Choice":"High","_id":"choice-1"}],"order":"NONE"}`
	got := out.Bytes()
	if !bytes.HasSuffix(got, []byte("\n")) {
		t.Fatalf("dry-run output should end with a newline: %q", got)
	}
	if diff := testsupport.CompareDocuments(t, []byte(want), bytes.TrimSpace(got)); diff != "" {
		t.Fatalf("dry-run document mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildEditorSanitizesInput(t *testing.T) {
	a, _ := testApp(t, func(cfg *config.Config) {
		cfg.DryRun = true
		cfg.SanitizeInput = true
	})
	ed, err := a.buildEditor(context.Background())
	if err != nil {
		t.Fatalf("build editor: %v", err)
	}
	ed.SetLabel("<b>Size</b>")
	if got := ed.Draft().Label; got != "Size" {
		t.Fatalf("expected sanitized label, got %q", got)
	}
}

func TestBuildClientFallsBackToContractEndpoint(t *testing.T) {
	a, _ := testApp(t, nil)

	spec, err := a.loadContract(context.Background())
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	client, err := a.buildClient(spec)
	if err != nil {
		t.Fatalf("build client: %v", err)
	}
	httpClient, ok := client.(*submit.HTTPClient)
	if !ok {
		t.Fatalf("expected *submit.HTTPClient, got %T", client)
	}
	if got := httpClient.Endpoint(); got != "http://localhost:8081/fields" {
		t.Fatalf("unexpected endpoint %q", got)
	}
}

func TestBuildClientPrefersConfiguredEndpoint(t *testing.T) {
	a, _ := testApp(t, func(cfg *config.Config) {
		cfg.Endpoint.URL = "https://forms.example.com/api/fields"
	})
	client, err := a.buildClient(nil)
	if err != nil {
		t.Fatalf("build client: %v", err)
	}
	if got := client.(*submit.HTTPClient).Endpoint(); got != "https://forms.example.com/api/fields" {
		t.Fatalf("unexpected endpoint %q", got)
	}
}

func TestPreviewCommand(t *testing.T) {
	a, out := testApp(t, nil)
	a.stdin = strings.NewReader(`{"Label":"Fruit","multiSelect":true,"defaultValue":"Fig","choices":[{"Choice":"Banana","_id":"1"},{"Choice":"Fig","_id":"2"}],"order":"ALPHA"}`)

	if err := a.preview(context.Background(), []string{"-name", "fruit"}); err != nil {
		t.Fatalf("preview: %v", err)
	}
	html := out.String()
	for _, want := range []string{"Fruit", `name="fruit"`, "multiple", "selected"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in preview:\n%s", want, html)
		}
	}
	if strings.Index(html, ">Banana<") > strings.Index(html, ">Fig<") {
		t.Fatalf("expected alphabetical order:\n%s", html)
	}
}

func TestPreviewCommandRejectsBadJSON(t *testing.T) {
	a, _ := testApp(t, nil)
	a.stdin = strings.NewReader(`{"Label":`)
	if err := a.preview(context.Background(), nil); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var stderr bytes.Buffer
	err := run(context.Background(), []string{"-env", "", "publish"}, strings.NewReader(""), io.Discard, &stderr)
	if err == nil || !strings.Contains(err.Error(), `unknown command "publish"`) {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if !strings.Contains(stderr.String(), "usage: fieldbuilder") {
		t.Fatalf("expected usage output, got %q", stderr.String())
	}
}
