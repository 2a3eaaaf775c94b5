package contract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadDefault(t *testing.T) {
	c, err := LoadDefault(context.Background())
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if c.OperationID() != DefaultOperation {
		t.Fatalf("operation = %q", c.OperationID())
	}
	if c.Method() != http.MethodPost || c.Path() != "/fields" {
		t.Fatalf("unexpected endpoint %s %s", c.Method(), c.Path())
	}
	if got := c.Endpoint(); got != "http://localhost:8081/fields" {
		t.Fatalf("endpoint = %q", got)
	}
}

func TestValidate_AcceptsWireDocument(t *testing.T) {
	c, err := LoadDefault(context.Background())
	if err != nil {
		t.Fatalf("load default: %v", err)
	}

	doc := []byte(`{"Label":"L","multiSelect":false,"defaultValue":"A","choices":[{"Choice":"A","_id":"1"}],"order":"NONE"}`)
	if err := c.Validate(context.Background(), doc); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidate_ReportsIssues(t *testing.T) {
	c, err := LoadDefault(context.Background())
	if err != nil {
		t.Fatalf("load default: %v", err)
	}

	doc := []byte(`{"Label":"","multiSelect":false,"defaultValue":"","choices":[],"order":"RANDOM"}`)
	err = c.Validate(context.Background(), doc)

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Issues) < 2 {
		t.Fatalf("expected issues for Label and order, got %+v", validationErr.Issues)
	}

	var sawLabel, sawOrder bool
	for _, issue := range validationErr.Issues {
		if strings.Contains(issue.Path, "Label") {
			sawLabel = true
		}
		if strings.Contains(issue.Path, "order") {
			sawOrder = true
		}
	}
	if !sawLabel || !sawOrder {
		t.Fatalf("missing expected issue paths: %+v", validationErr.Issues)
	}
}

func TestValidate_RejectsNonJSON(t *testing.T) {
	c, err := LoadDefault(context.Background())
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	var validationErr *ValidationError
	if err := c.Validate(context.Background(), []byte("nope")); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

const minimalContract = `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {
    "/api/v2/custom-fields": {
      "put": {
        "operationId": "upsertField",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {"type": "object", "required": ["Label"], "properties": {"Label": {"type": "string"}}}
            }
          }
        },
        "responses": {"200": {"description": "ok"}}
      }
    }
  }
}`

func TestLoad_FromFileWithCustomOperation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "service.json")
	if err := os.WriteFile(path, []byte(minimalContract), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(context.Background(), SourceFromFile(path), Options{OperationID: "upsertField"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Method() != http.MethodPut || c.Path() != "/api/v2/custom-fields" {
		t.Fatalf("unexpected endpoint %s %s", c.Method(), c.Path())
	}
	if c.Endpoint() != "" {
		t.Fatalf("expected no endpoint without servers, got %q", c.Endpoint())
	}
	if err := c.Validate(context.Background(), []byte(`{"multiSelect":true}`)); err == nil {
		t.Fatalf("expected missing Label to fail")
	}
}

func TestLoad_UnknownOperation(t *testing.T) {
	_, err := Load(context.Background(), SourceFromFS("c.json"), Options{
		OperationID: "deleteField",
		Loader:      []LoaderOption{WithFileSystem(fstest.MapFS{"c.json": {Data: []byte(minimalContract)}})},
	})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoad_FromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(minimalContract))
	}))
	defer server.Close()

	src, err := SourceFromURL(server.URL + "/openapi.json")
	if err != nil {
		t.Fatalf("source: %v", err)
	}

	if _, err := Load(context.Background(), src, Options{OperationID: "upsertField"}); err == nil {
		t.Fatalf("expected http sources disabled by default")
	}

	c, err := Load(context.Background(), src, Options{
		OperationID: "upsertField",
		Loader:      []LoaderOption{WithHTTPClient(server.Client())},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.OperationID() != "upsertField" {
		t.Fatalf("operation = %q", c.OperationID())
	}
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource("")
	if err != nil || src.Kind() != SourceKindFS || src.Location() != DefaultDocument {
		t.Fatalf("empty source = %+v, %v", src, err)
	}
	src, err = ParseSource("https://forms.example.com/openapi.yaml")
	if err != nil || src.Kind() != SourceKindURL {
		t.Fatalf("url source = %+v, %v", src, err)
	}
	src, err = ParseSource("./contracts/../service.yaml")
	if err != nil || src.Kind() != SourceKindFile || src.Location() != "service.yaml" {
		t.Fatalf("file source = %+v, %v", src, err)
	}
}
