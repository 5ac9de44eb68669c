package store

import (
	"context"
	"fmt"

	"search-sync/core/database"
	"search-sync/core/document"
	"search-sync/core/reconcile"
	"search-sync/feature/wiki/models"

	"gorm.io/gorm"
)

// DefaultBatchSize is the page size used when none is configured.
const DefaultBatchSize = 100

const sourceName = "store"

// Pager pages through the store with LIMIT/OFFSET.
type Pager struct {
	querier   *Querier
	batchSize int
	scope     *document.Scope
	offset    int
}

// NewPager creates an offset pager. A non-positive batchSize selects DefaultBatchSize.
func NewPager(querier *Querier, batchSize int) *Pager {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Pager{querier: querier, batchSize: batchSize}
}

// SetScope restricts the following pages and rewinds the pager.
func (p *Pager) SetScope(scope *document.Scope) error {
	p.scope = scope
	p.offset = 0
	return nil
}

// NextPage fetches the next batch. A short batch ends the stream.
func (p *Pager) NextPage(ctx context.Context) ([]document.Row, bool, error) {
	rows, err := p.querier.Fetch(ctx, p.scope, p.offset, p.batchSize)
	if err != nil {
		return nil, false, reconcile.NewSourceError(sourceName, reconcile.OpFetch, err)
	}
	p.offset += len(rows)
	return rows, len(rows) == p.batchSize, nil
}

// Count returns the number of documents under the scope.
func (p *Pager) Count(ctx context.Context) (int64, error) {
	n, err := p.querier.Count(ctx, p.scope)
	if err != nil {
		return 0, reconcile.NewSourceError(sourceName, reconcile.OpCount, err)
	}
	return n, nil
}

// NewIterator returns an iterator over the (key, version) pairs of the store.
func NewIterator(querier *Querier, batchSize int) *reconcile.Paged {
	return reconcile.NewPaged(NewPager(querier, batchSize))
}

// Factory returns a constructor of fresh store iterators, as consumed by jobs.
func Factory(querier *Querier, batchSize int) func() reconcile.Iterator[string] {
	return func() reconcile.Iterator[string] {
		return NewIterator(querier, batchSize)
	}
}

// VerifySchema checks that the documents table exposes the columns read by the iterator.
func VerifySchema(db *gorm.DB) error {
	required := append(append([]string{}, models.KeyColumns...), "version", "content_object")
	if err := database.RequireColumns(db, models.Document{}.TableName(), required...); err != nil {
		return fmt.Errorf("unexpected store schema: %w", err)
	}
	return nil
}
