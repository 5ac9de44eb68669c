package reconcile

import (
	"errors"
	"fmt"

	"search-sync/core/document"
)

var (
	// ErrInvalidScope is returned when a scope is set after iteration started.
	ErrInvalidScope = errors.New("scope must be set before iteration starts")

	// ErrExhausted is returned when reading past the end of an iterator.
	ErrExhausted = errors.New("iterator exhausted")

	// ErrUnsupported is returned by optional operations an iterator does not implement.
	ErrUnsupported = errors.New("operation not supported")

	// ErrSourceUnavailable classifies store or index query failures.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSizeUnavailable classifies failed count queries.
	ErrSizeUnavailable = errors.New("size unavailable")

	// ErrOutOfOrder is returned when a source breaks the key order.
	ErrOutOfOrder = errors.New("source is not sorted")
)

// SourceError reports a failed query against a backing source.
// It matches ErrSourceUnavailable (or ErrSizeUnavailable for count queries)
// with errors.Is, and exposes the underlying error through Unwrap.
type SourceError struct {
	// Source names the backing source (e.g., "store", "index").
	Source string
	// Op is the failed operation (e.g., "fetch", "count").
	Op  string
	Err error
}

// NewSourceError wraps err as a failure of op on source.
func NewSourceError(source, op string, err error) *SourceError {
	return &SourceError{Source: source, Op: op, Err: err}
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Source, e.Op, e.Err)
}

func (e *SourceError) Unwrap() []error {
	kind := ErrSourceUnavailable
	if e.Op == OpCount {
		kind = ErrSizeUnavailable
	}
	return []error{kind, e.Err}
}

// Source operations reported in SourceError.Op.
const (
	OpFetch = "fetch"
	OpCount = "count"
)

func outOfOrder(prev, key document.Key) error {
	return fmt.Errorf("%w: %s after %s", ErrOutOfOrder, key, prev)
}
