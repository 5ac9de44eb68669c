package reconcile

import (
	"context"

	"search-sync/core/document"
)

// Pager is the batch-fetch boundary of a backing source.
// Store (offset) and index (cursor) pagination are two Pager strategies.
type Pager interface {
	// SetScope restricts the rows returned by subsequent fetches.
	SetScope(scope *document.Scope) error

	// NextPage returns the next page of rows in key order. more is false
	// once the source has nothing left; an empty page always ends the stream.
	NextPage(ctx context.Context) (rows []document.Row, more bool, err error)

	// Count returns the number of rows under the current scope.
	Count(ctx context.Context) (int64, error)
}

// Paged is an Iterator of version tokens over a Pager.
type Paged struct {
	pager   Pager
	started bool
	page    []document.Row
	pos     int
	more    bool
	last    *document.Key
	size    *int64
}

// NewPaged creates an iterator reading pages from pager.
func NewPaged(pager Pager) *Paged {
	return &Paged{pager: pager, more: true}
}

// SetScope restricts the iteration. It must be called before the first read.
func (p *Paged) SetScope(scope *document.Scope) error {
	if p.started {
		return ErrInvalidScope
	}
	if err := scope.Validate(); err != nil {
		return err
	}
	p.size = nil
	return p.pager.SetScope(scope)
}

// HasNext reports whether another entry is available.
func (p *Paged) HasNext(ctx context.Context) (bool, error) {
	p.started = true
	for p.pos >= len(p.page) {
		if !p.more {
			return false, nil
		}
		rows, more, err := p.pager.NextPage(ctx)
		if err != nil {
			return false, err
		}
		p.page, p.pos = rows, 0
		p.more = more && len(rows) > 0
	}
	return true, nil
}

// Next returns the next key and its version token.
func (p *Paged) Next(ctx context.Context) (document.Key, string, error) {
	ok, err := p.HasNext(ctx)
	if err != nil {
		return document.Key{}, "", err
	}
	if !ok {
		return document.Key{}, "", ErrExhausted
	}

	row := p.page[p.pos]
	key := row.Key()
	if p.last != nil && document.Compare(*p.last, key) >= 0 {
		return document.Key{}, "", outOfOrder(*p.last, key)
	}
	p.pos++
	p.last = &key
	return key, row.Version, nil
}

// Remove is not supported by paged sources.
func (p *Paged) Remove() error {
	return ErrUnsupported
}

// Size returns the pager count, computed once per iterator.
func (p *Paged) Size(ctx context.Context) (int64, error) {
	if p.size != nil {
		return *p.size, nil
	}
	n, err := p.pager.Count(ctx)
	if err != nil {
		return 0, err
	}
	p.size = &n
	return n, nil
}
