// Package submit delivers serialized field definitions to the form-creation
// service. The service response is opaque to callers apart from its status
// and an optional identifier lifted from a JSON body.
package submit

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// Client accepts a serialized definition document and returns the service
// response.
type Client interface {
	Create(ctx context.Context, document []byte) (*Response, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, document []byte) (*Response, error)

func (f ClientFunc) Create(ctx context.Context, document []byte) (*Response, error) {
	return f(ctx, document)
}

// Response captures what the service returned.
type Response struct {
	StatusCode int    `json:"statusCode"`
	ID         string `json:"id,omitempty"`
	Body       []byte `json:"-"`
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Body) == 0 {
		return ErrEmptyBody
	}
	return json.Unmarshal(r.Body, v)
}

func newResponse(status int, body []byte) *Response {
	return &Response{
		StatusCode: status,
		ID:         extractID(body),
		Body:       body,
	}
}

// extractID pulls "_id" or "id" from a JSON object body. Non-object bodies
// and non-scalar identifiers yield "".
func extractID(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "{") {
		return ""
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return ""
	}
	for _, key := range []string{"_id", "id"} {
		switch v := payload[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
