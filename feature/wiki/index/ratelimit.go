package index

import (
	"context"

	"search-sync/core/document"
	"search-sync/core/job"

	"golang.org/x/time/rate"
)

// RateLimited throttles the single-document mutations of an indexer.
// IndexScope is a single bulk operation and is not throttled.
type RateLimited struct {
	next    job.Indexer
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a limit of perSecond mutations per second.
// A non-positive limit disables throttling.
func NewRateLimited(next job.Indexer, perSecond float64) *RateLimited {
	limit, burst := rate.Inf, 0
	if perSecond > 0 {
		limit, burst = rate.Limit(perSecond), max(1, int(perSecond))
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (r *RateLimited) IndexDocument(ctx context.Context, key document.Key, overwrite bool) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.next.IndexDocument(ctx, key, overwrite)
}

func (r *RateLimited) DeleteDocument(ctx context.Context, key document.Key, overwrite bool) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.next.DeleteDocument(ctx, key, overwrite)
}

func (r *RateLimited) IndexScope(ctx context.Context, scope *document.Scope, overwrite bool) error {
	return r.next.IndexScope(ctx, scope, overwrite)
}
