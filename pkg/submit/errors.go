package submit

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoEndpoint is returned when the HTTP client has no target URL.
	ErrNoEndpoint = errors.New("submit: endpoint url is required")
	// ErrEmptyDocument is returned when Create receives no payload.
	ErrEmptyDocument = errors.New("submit: document is empty")
	// ErrEmptyBody is returned by Response.Decode when there is nothing to decode.
	ErrEmptyBody = errors.New("submit: response body is empty")
)

// StatusError reports a non-2xx answer from the form-creation service. The
// response is preserved so callers can inspect the body.
type StatusError struct {
	Code     int
	Response *Response
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("submit: unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// StatusCode exposes the upstream status.
func (e *StatusError) StatusCode() int {
	return e.Code
}
