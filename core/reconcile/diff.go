package reconcile

import (
	"context"

	"search-sync/core/document"
)

type lookahead struct {
	key     document.Key
	version string
	loaded  bool
	done    bool
}

// DiffIterator merges the current index state (previous) with the
// authoritative state (next) and yields one Action per key, in ascending key
// order:
//
//   - key only in next: ActionAdd
//   - key only in previous: ActionDelete
//   - key in both with equal versions: ActionSkip
//   - key in both with different versions: ActionUpdate
//
// Versions are compared for equality only.
type DiffIterator struct {
	previous Iterator[string]
	next     Iterator[string]
	p, n     lookahead
	started  bool
}

// NewDiffIterator creates a diff from previous (the index) to next (the store).
func NewDiffIterator(previous, next Iterator[string]) *DiffIterator {
	return &DiffIterator{previous: previous, next: next}
}

// SetScope scopes both inputs.
func (d *DiffIterator) SetScope(scope *document.Scope) error {
	if d.started {
		return ErrInvalidScope
	}
	if err := d.previous.SetScope(scope); err != nil {
		return err
	}
	return d.next.SetScope(scope)
}

// HasNext reports whether another action is available.
func (d *DiffIterator) HasNext(ctx context.Context) (bool, error) {
	d.started = true
	if err := fill(ctx, d.previous, &d.p); err != nil {
		return false, err
	}
	if err := fill(ctx, d.next, &d.n); err != nil {
		return false, err
	}
	return d.p.loaded || d.n.loaded, nil
}

// Next returns the next key and the action that reconciles it.
func (d *DiffIterator) Next(ctx context.Context) (document.Key, Action, error) {
	ok, err := d.HasNext(ctx)
	if err != nil {
		return document.Key{}, "", err
	}
	if !ok {
		return document.Key{}, "", ErrExhausted
	}

	switch {
	case !d.p.loaded:
		d.n.loaded = false
		return d.n.key, ActionAdd, nil
	case !d.n.loaded:
		d.p.loaded = false
		return d.p.key, ActionDelete, nil
	}

	c := document.Compare(d.p.key, d.n.key)
	switch {
	case c < 0:
		d.p.loaded = false
		return d.p.key, ActionDelete, nil
	case c > 0:
		d.n.loaded = false
		return d.n.key, ActionAdd, nil
	}

	d.p.loaded, d.n.loaded = false, false
	if d.p.version == d.n.version {
		return d.p.key, ActionSkip, nil
	}
	return d.p.key, ActionUpdate, nil
}

// Remove is not supported.
func (d *DiffIterator) Remove() error {
	return ErrUnsupported
}

// Size returns the size of next, i.e. the expected size of the index once
// synchronized. It is not the number of actions the diff produces.
func (d *DiffIterator) Size(ctx context.Context) (int64, error) {
	return d.next.Size(ctx)
}

func fill(ctx context.Context, it Iterator[string], la *lookahead) error {
	if la.loaded || la.done {
		return nil
	}
	ok, err := it.HasNext(ctx)
	if err != nil {
		return err
	}
	if !ok {
		la.done = true
		return nil
	}
	key, version, err := it.Next(ctx)
	if err != nil {
		return err
	}
	la.key, la.version, la.loaded = key, version, true
	return nil
}
