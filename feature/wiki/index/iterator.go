package index

import (
	"context"

	"search-sync/core/document"
	"search-sync/core/reconcile"

	"go.uber.org/zap"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 100

const sourceName = "index"

// Pager walks the index with an opaque cursor.
type Pager struct {
	executor Executor
	resolver QueryResolver
	rows     int
	logger   *zap.Logger

	scope  *document.Scope
	cursor string
}

// NewPager creates a cursor pager. A non-positive rows selects DefaultPageSize.
func NewPager(executor Executor, resolver QueryResolver, rows int, logger *zap.Logger) *Pager {
	if rows <= 0 {
		rows = DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pager{executor: executor, resolver: resolver, rows: rows, logger: logger, cursor: StartCursor}
}

// SetScope restricts the following pages and rewinds the cursor.
func (p *Pager) SetScope(scope *document.Scope) error {
	p.scope = scope
	p.cursor = StartCursor
	return nil
}

// NextPage fetches the page after the current cursor. The walk ends on an
// empty page or when the cursor stops moving.
func (p *Pager) NextPage(ctx context.Context) ([]document.Row, bool, error) {
	page, err := p.executor.Search(ctx, Request{
		Query:  p.resolver.ResolveQuery(p.scope),
		Cursor: p.cursor,
		Rows:   p.rows,
	})
	if err != nil {
		return nil, false, reconcile.NewSourceError(sourceName, reconcile.OpFetch, err)
	}
	if len(page.Rows) == 0 || page.Cursor == p.cursor {
		return page.Rows, false, nil
	}
	p.cursor = page.Cursor
	return page.Rows, true, nil
}

// Count returns the number of indexed documents under the scope. It
// degrades to 0 when the count query fails.
func (p *Pager) Count(ctx context.Context) (int64, error) {
	page, err := p.executor.Search(ctx, Request{
		Query:  p.resolver.ResolveQuery(p.scope),
		Cursor: StartCursor,
	})
	if err != nil {
		p.logger.Debug("Index count failed",
			zap.String("scope", p.scope.String()),
			zap.Error(reconcile.NewSourceError(sourceName, reconcile.OpCount, err)))
		return 0, nil
	}
	return page.Total, nil
}

// NewIterator returns an iterator over the (key, version) pairs of the index.
func NewIterator(executor Executor, rows int, logger *zap.Logger) *reconcile.Paged {
	return reconcile.NewPaged(NewPager(executor, Resolver{}, rows, logger))
}

// Factory returns a constructor of fresh index iterators, as consumed by jobs.
func Factory(executor Executor, rows int, logger *zap.Logger) func() reconcile.Iterator[string] {
	return func() reconcile.Iterator[string] {
		return NewIterator(executor, rows, logger)
	}
}
