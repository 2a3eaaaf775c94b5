// Package contract checks serialized field definitions against the request
// schema the form-creation service publishes as an OpenAPI document. An
// embedded contract mirrors the fixed wire shape; deployments can point at the
// service's own document instead.
package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Contract is a loaded create operation plus its request schema.
type Contract struct {
	operationID string
	method      string
	path        string
	servers     []string
	schema      *openapi3.Schema
}

// Options tunes Load.
type Options struct {
	// OperationID selects the create operation; defaults to DefaultOperation.
	OperationID string
	// ResolveReferences allows external $ref targets and validates the whole
	// document before use.
	ResolveReferences bool
	Loader            []LoaderOption
}

// Load fetches and parses the contract document, then extracts the request
// schema of the configured operation.
func Load(ctx context.Context, src Source, opts Options) (*Contract, error) {
	if ctx == nil {
		return nil, errors.New("contract: context is required")
	}
	raw, err := newLoader(opts.Loader...).load(ctx, src)
	if err != nil {
		return nil, err
	}
	return Parse(ctx, raw, opts)
}

// Parse builds a Contract from raw JSON or YAML.
func Parse(ctx context.Context, raw []byte, opts Options) (*Contract, error) {
	if len(raw) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}

	opID := strings.TrimSpace(opts.OperationID)
	if opID == "" {
		opID = DefaultOperation
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: opts.ResolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if opts.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("contract: validate: %w", err)
		}
	}

	c, err := findOperation(spec, opID)
	if err != nil {
		return nil, err
	}
	for _, server := range spec.Servers {
		if server != nil && strings.TrimSpace(server.URL) != "" {
			c.servers = append(c.servers, strings.TrimSpace(server.URL))
		}
	}
	return c, nil
}

// LoadDefault parses the embedded contract.
func LoadDefault(ctx context.Context) (*Contract, error) {
	return Load(ctx, SourceFromFS(DefaultDocument), Options{})
}

func findOperation(spec *openapi3.T, opID string) (*Contract, error) {
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("contract: document does not contain any paths")
	}

	paths := make([]string, 0, spec.Paths.Len())
	for path := range spec.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := spec.Paths.Value(path)
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || op.OperationID != opID {
				continue
			}
			schema, err := requestSchema(op)
			if err != nil {
				return nil, fmt.Errorf("contract: operation %q: %w", opID, err)
			}
			return &Contract{
				operationID: opID,
				method:      strings.ToUpper(method),
				path:        path,
				schema:      schema,
			}, nil
		}
	}
	return nil, fmt.Errorf("contract: operation %q not found", opID)
}

func requestSchema(op *openapi3.Operation) (*openapi3.Schema, error) {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, errors.New("request body is not defined")
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, errors.New("application/json request schema is not defined")
	}
	return media.Schema.Value, nil
}

// OperationID reports the operation the contract was built from.
func (c *Contract) OperationID() string { return c.operationID }

// Method reports the HTTP method of the create operation.
func (c *Contract) Method() string { return c.method }

// Path reports the path template of the create operation.
func (c *Contract) Path() string { return c.path }

// Endpoint joins the first declared server URL with the operation path. It
// returns "" when the document declares no servers.
func (c *Contract) Endpoint() string {
	if len(c.servers) == 0 {
		return ""
	}
	base, err := url.Parse(c.servers[0])
	if err != nil {
		return ""
	}
	return base.JoinPath(c.path).String()
}

// Validate checks a serialized document against the request schema. Failures
// are reported as *ValidationError.
func (c *Contract) Validate(ctx context.Context, document []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var value any
	if err := json.Unmarshal(document, &value); err != nil {
		return &ValidationError{Issues: []Issue{{Message: "document is not valid JSON: " + err.Error()}}}
	}

	err := c.schema.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	return &ValidationError{Issues: collectIssues(err)}
}
