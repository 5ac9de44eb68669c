package job

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"search-sync/core/document"
	"search-sync/core/logger"
	"search-sync/core/metrics"
	"search-sync/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dependencies bundles the collaborators of a job.
type Dependencies struct {
	// Indexer applies mutations to the search index.
	Indexer Indexer

	// Exists re-checks the store before deleting a document from the index.
	Exists ExistenceChecker

	// Store creates the iterator over the authoritative store.
	Store IteratorFactory

	// Index creates the iterator over the current index content.
	Index IteratorFactory

	// Logger receives the job summary. Defaults to a no-op logger.
	Logger *zap.Logger

	// Metrics records job and action counters. Optional.
	Metrics *metrics.Metrics
}

// Job synchronizes the search index with the store for one scope.
// A Job runs once.
type Job struct {
	request   Request
	deps      Dependencies
	processed atomic.Int64
	expected  atomic.Int64
}

// New creates a job for req.
func New(req Request, deps Dependencies) *Job {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Job{request: req, deps: deps}
}

// Request returns the job request.
func (j *Job) Request() Request {
	return j.request
}

// GroupPath returns the coordination key of the job.
func (j *Job) GroupPath() GroupPath {
	return NewGroupPath(j.request.Scope)
}

// Progress returns the number of processed diff steps and the expected
// index size. expected is a hint and may be exceeded.
func (j *Job) Progress() (processed, expected int64) {
	return j.processed.Load(), j.expected.Load()
}

// Run executes the job and returns its summary.
func (j *Job) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	log := logger.WithJob(j.deps.Logger, j.request.ID, j.GroupPath().String()).With(
		zap.String("scope", j.request.Scope.String()),
		zap.String("mode", j.request.Mode()),
	)

	var (
		summary Summary
		err     error
	)
	if err = j.request.Scope.Validate(); err != nil {
		err = &Error{Err: err}
	} else if j.request.Overwrite {
		err = j.rebuild(ctx)
	} else {
		summary, err = j.synchronize(ctx, log)
	}
	summary.Duration = time.Since(start)

	result := "success"
	if err != nil {
		result = "failure"
		if errors.Is(err, context.Canceled) {
			result = "canceled"
		}
	}
	j.deps.Metrics.ObserveJob(j.request.Mode(), result, summary.Duration)

	fields := []zap.Field{
		zap.Int64("added", summary.Added),
		zap.Int64("updated", summary.Updated),
		zap.Int64("deleted", summary.Deleted),
		zap.Int64("skipped", summary.Skipped),
		zap.Int64("retained", summary.Retained),
		zap.Duration("duration", summary.Duration),
	}
	if err != nil {
		log.Error("Index synchronization failed", append(fields, zap.Error(err))...)
		return summary, err
	}
	log.Info("Index synchronization finished", fields...)
	return summary, nil
}

// rebuild re-indexes the whole scope without computing a diff.
func (j *Job) rebuild(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &Error{Err: err}
	}
	if err := j.deps.Indexer.IndexScope(ctx, j.request.Scope, true); err != nil {
		return &Error{Err: fmt.Errorf("failed to rebuild %s: %w", j.request.Scope, err)}
	}
	return nil
}

// synchronize drains the diff between index and store and applies every action.
func (j *Job) synchronize(ctx context.Context, log *zap.Logger) (Summary, error) {
	var (
		summary Summary
		last    *document.Key
	)

	diff := reconcile.NewDiffIterator(j.deps.Index(), j.deps.Store())
	if err := diff.SetScope(j.request.Scope); err != nil {
		return summary, &Error{Err: err}
	}

	if expected, err := diff.Size(ctx); err != nil {
		log.Warn("Unable to estimate index size", zap.Error(err))
	} else {
		j.expected.Store(expected)
	}

	for {
		if err := ctx.Err(); err != nil {
			return summary, &Error{Key: last, Err: err}
		}

		ok, err := diff.HasNext(ctx)
		if err != nil {
			return summary, &Error{Key: last, Err: err}
		}
		if !ok {
			return summary, nil
		}

		key, action, err := diff.Next(ctx)
		if err != nil {
			return summary, &Error{Key: last, Err: err}
		}

		summary, err = j.apply(ctx, log, summary, key, action)
		if err != nil {
			return summary, &Error{Key: &key, Err: err}
		}
		last = &key
		j.processed.Add(1)
	}
}

// apply dispatches one action and returns the updated summary.
func (j *Job) apply(ctx context.Context, log *zap.Logger, s Summary, key document.Key, action reconcile.Action) (Summary, error) {
	observed := string(action)

	switch action {
	case reconcile.ActionAdd, reconcile.ActionUpdate:
		if err := j.deps.Indexer.IndexDocument(ctx, key, true); err != nil {
			return s, fmt.Errorf("failed to index document: %w", err)
		}
		if action == reconcile.ActionAdd {
			s.Added++
		} else {
			s.Updated++
		}

	case reconcile.ActionDelete:
		exists, err := j.deps.Exists.Exists(ctx, key)
		if err != nil {
			// Keep the entry when the store cannot tell.
			log.Debug("Existence check failed, keeping index entry",
				zap.String("key", key.String()), zap.Error(err))
			exists = true
		}
		if exists {
			s.Retained++
			observed = "retain"
			break
		}
		if err := j.deps.Indexer.DeleteDocument(ctx, key, true); err != nil {
			return s, fmt.Errorf("failed to delete document: %w", err)
		}
		s.Deleted++

	case reconcile.ActionSkip:
		s.Skipped++

	default:
		return s, fmt.Errorf("unknown action %q", action)
	}

	j.deps.Metrics.ObserveAction(observed)
	return s, nil
}
