package submit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// WriterClient is a dry-run Client that writes each document to an io.Writer
// followed by a newline and reports a synthetic 200 response.
type WriterClient struct {
	mu  sync.Mutex
	out io.Writer
}

var _ Client = (*WriterClient)(nil)

// NewWriterClient constructs a WriterClient targeting out.
func NewWriterClient(out io.Writer) *WriterClient {
	return &WriterClient{out: out}
}

func (c *WriterClient) Create(ctx context.Context, document []byte) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(document) == 0 {
		return nil, ErrEmptyDocument
	}
	if c.out == nil {
		return nil, fmt.Errorf("submit: writer client has no output")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var buf bytes.Buffer
	buf.Write(document)
	buf.WriteByte('\n')
	if _, err := c.out.Write(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("submit: write document: %w", err)
	}
	return &Response{StatusCode: 200}, nil
}
