package reconcile

import (
	"context"

	"search-sync/core/document"
)

// Action is the reconciliation verdict for one document.
type Action string

const (
	// ActionAdd indexes a document present only in the store.
	ActionAdd Action = "add"
	// ActionUpdate re-indexes a document whose versions differ.
	ActionUpdate Action = "update"
	// ActionDelete removes a document present only in the index.
	ActionDelete Action = "delete"
	// ActionSkip leaves an up to date document untouched.
	ActionSkip Action = "skip"
)

// Actions lists every action, in declaration order.
var Actions = []Action{ActionAdd, ActionUpdate, ActionDelete, ActionSkip}

// Iterator is an ordered, lazily fetched stream of documents.
//
// Keys are strictly increasing per document.Compare. Implementations fetch
// from their backing source inside HasNext, which is idempotent: calling it
// repeatedly without Next does not advance the stream.
type Iterator[V any] interface {
	// SetScope restricts the iteration. It fails with ErrInvalidScope once
	// iteration has started.
	SetScope(scope *document.Scope) error

	// HasNext reports whether another entry is available, fetching the next
	// batch from the source when needed.
	HasNext(ctx context.Context) (bool, error)

	// Next returns and consumes the next entry. It fails with ErrExhausted
	// when HasNext would return false.
	Next(ctx context.Context) (document.Key, V, error)

	// Remove removes the last returned entry from the source.
	Remove() error

	// Size returns an approximate count of entries under the current scope.
	// It is a sizing hint only and may differ from the number of entries
	// actually produced.
	Size(ctx context.Context) (int64, error)
}

// Entry is a single element produced by an Iterator.
type Entry[V any] struct {
	Key   document.Key
	Value V
}

// Collect drains it and returns every entry.
func Collect[V any](ctx context.Context, it Iterator[V]) ([]Entry[V], error) {
	var entries []Entry[V]
	for {
		ok, err := it.HasNext(ctx)
		if err != nil {
			return entries, err
		}
		if !ok {
			return entries, nil
		}
		key, value, err := it.Next(ctx)
		if err != nil {
			return entries, err
		}
		entries = append(entries, Entry[V]{Key: key, Value: value})
	}
}
