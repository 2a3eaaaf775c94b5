package contract

import (
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Issue is one schema violation with an optional JSON pointer location.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError aggregates the issues found in one document.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "contract: document is invalid"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return "contract: " + strings.Join(parts, "; ")
}

func collectIssues(err error) []Issue {
	var out []Issue
	seen := make(map[string]struct{})
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		var multi openapi3.MultiError
		if errors.As(err, &multi) {
			for _, inner := range multi {
				walk(inner)
			}
			return
		}
		issue := issueFromError(err)
		key := issue.String()
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, issue)
	}
	walk(err)
	return out
}

func issueFromError(err error) Issue {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := schemaErr.JSONPointer()
		path := ""
		if len(pointer) > 0 {
			path = "/" + strings.Join(pointer, "/")
		}
		msg := strings.TrimSpace(schemaErr.Reason)
		if msg == "" {
			msg = strings.TrimSpace(schemaErr.Error())
		}
		return Issue{Path: path, Message: msg}
	}
	return Issue{Message: strings.TrimSpace(err.Error())}
}
