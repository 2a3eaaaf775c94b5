package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func envFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Lookup: envFrom(nil)})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), *cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.MaxChoices != 2 {
		t.Fatalf("expected default max choices 2, got %d", cfg.MaxChoices)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	file := writeFile(t, "fieldbuilder.yaml", `
max_choices: 5
id_strategy: uuid
endpoint:
  url: https://api.example.com/fields
  timeout: 3s
  headers:
    X-Tenant: acme
contract:
  enforce: true
log:
  format: json
`)
	env := writeFile(t, ".env", "FIELDBUILDER_LOG_LEVEL=debug\nFIELDBUILDER_MAX_CHOICES=7\n")

	cfg, err := Load(LoadOptions{
		File:    file,
		EnvFile: env,
		Lookup: envFrom(map[string]string{
			"FIELDBUILDER_MAX_CHOICES": "9",
			"FIELDBUILDER_DRY_RUN":     "true",
		}),
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.MaxChoices != 9 {
		t.Fatalf("process env should win over dotenv and yaml, got %d", cfg.MaxChoices)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected dotenv log level, got %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" || cfg.IDStrategy != "uuid" {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
	if cfg.Endpoint.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", cfg.Endpoint.Timeout)
	}
	if cfg.Endpoint.Headers["X-Tenant"] != "acme" {
		t.Fatalf("expected header from yaml, got %v", cfg.Endpoint.Headers)
	}
	if !cfg.Contract.Enforce || !cfg.DryRun {
		t.Fatalf("expected enforce and dry run, got %+v", cfg)
	}
}

func TestLoadMissingEnvFileIsOptional(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.env")
	if _, err := Load(LoadOptions{EnvFile: missing, Lookup: envFrom(nil)}); err != nil {
		t.Fatalf("missing optional env file should be ignored: %v", err)
	}
	if _, err := Load(LoadOptions{EnvFile: missing, Required: true, Lookup: envFrom(nil)}); err == nil {
		t.Fatalf("expected error for required env file")
	}
}

func TestLoadValidationErrors(t *testing.T) {
	_, err := Load(LoadOptions{Lookup: envFrom(map[string]string{
		"FIELDBUILDER_MAX_CHOICES": "0",
		"FIELDBUILDER_ID_STRATEGY": "random",
		"FIELDBUILDER_ENDPOINT_URL": "not a url",
	})})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"max_choices", "id_strategy", "endpoint.url"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in error, got %v", want, err)
		}
	}
}

func TestLoadRejectsMalformedEnv(t *testing.T) {
	cases := map[string]string{
		"FIELDBUILDER_MAX_CHOICES":      "two",
		"FIELDBUILDER_ENDPOINT_TIMEOUT": "soon",
		"FIELDBUILDER_DRY_RUN":          "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			_, err := Load(LoadOptions{Lookup: envFrom(map[string]string{key: value})})
			if err == nil || !strings.Contains(err.Error(), key) {
				t.Fatalf("expected error naming %s, got %v", key, err)
			}
		})
	}
}

func TestLoadNormalizesCase(t *testing.T) {
	cfg, err := Load(LoadOptions{Lookup: envFrom(map[string]string{
		"FIELDBUILDER_ID_STRATEGY": " Sequence ",
		"FIELDBUILDER_LOG_FORMAT":  "JSON",
	})})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IDStrategy != "sequence" || cfg.Log.Format != "json" {
		t.Fatalf("expected normalized values, got %q %q", cfg.IDStrategy, cfg.Log.Format)
	}
}
