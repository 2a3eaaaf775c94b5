// Package idgen produces the identifiers assigned to choices when they are
// created. Identifiers only need to be unique within one draft; no ordering
// is promised by the interface.
package idgen

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Generator returns a fresh identifier on every call.
type Generator interface {
	Next() string
}

// Func adapts a plain function to Generator.
type Func func() string

func (f Func) Next() string { return f() }

// Timestamp issues millisecond epoch values as decimal strings. When two calls
// land in the same millisecond the later one is bumped so values stay strictly
// increasing.
type Timestamp struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewTimestamp constructs a Timestamp generator using the wall clock.
func NewTimestamp() *Timestamp {
	return &Timestamp{now: time.Now}
}

func (t *Timestamp) Next() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now
	if t.now != nil {
		now = t.now
	}
	ms := now().UnixMilli()
	if ms <= t.last {
		ms = t.last + 1
	}
	t.last = ms
	return strconv.FormatInt(ms, 10)
}

// UUID issues random version 4 UUIDs.
type UUID struct{}

func (UUID) Next() string {
	return uuid.NewString()
}

// Sequence issues prefix-1, prefix-2, ... and is deterministic across runs.
type Sequence struct {
	Prefix string
	n      atomic.Int64
}

// NewSequence constructs a Sequence generator with the given prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{Prefix: prefix}
}

func (s *Sequence) Next() string {
	n := s.n.Add(1)
	if s.Prefix == "" {
		return strconv.FormatInt(n, 10)
	}
	return s.Prefix + "-" + strconv.FormatInt(n, 10)
}

const (
	StrategyTimestamp = "timestamp"
	StrategyUUID      = "uuid"
	StrategySequence  = "sequence"
)

// FromName resolves a configured strategy name. An empty name selects the
// timestamp strategy.
func FromName(name string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyTimestamp:
		return NewTimestamp(), nil
	case StrategyUUID:
		return UUID{}, nil
	case StrategySequence:
		return NewSequence("choice"), nil
	default:
		return nil, fmt.Errorf("idgen: unknown strategy %q", name)
	}
}
