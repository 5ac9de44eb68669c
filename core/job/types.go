package job

import (
	"context"
	"fmt"
	"time"

	"search-sync/core/document"
	"search-sync/core/reconcile"
)

// Request describes a synchronization job.
type Request struct {
	// ID identifies the job. Generated when empty.
	ID string `json:"id"`

	// Scope restricts the job to a subtree. Nil means every document.
	Scope *document.Scope `json:"scope,omitempty"`

	// Overwrite selects a full rebuild of the scope instead of an
	// incremental synchronization.
	Overwrite bool `json:"overwrite"`
}

// Mode returns the job mode label ("rebuild" or "incremental").
func (r Request) Mode() string {
	if r.Overwrite {
		return ModeRebuild
	}
	return ModeIncremental
}

// Job modes.
const (
	ModeRebuild     = "rebuild"
	ModeIncremental = "incremental"
)

// Summary provides aggregate counts for a finished job.
type Summary struct {
	// Added counts documents indexed because they were missing from the index.
	Added int64 `json:"added"`

	// Updated counts documents re-indexed because their version changed.
	Updated int64 `json:"updated"`

	// Deleted counts documents removed from the index.
	Deleted int64 `json:"deleted"`

	// Skipped counts documents already up to date.
	Skipped int64 `json:"skipped"`

	// Retained counts index entries kept because their document reappeared
	// in the store (or could not be checked) after the store snapshot.
	Retained int64 `json:"retained"`

	// Duration is the wall time of the job.
	Duration time.Duration `json:"duration"`
}

// Indexer applies mutations to the search index.
type Indexer interface {
	// IndexDocument (re)indexes a single document.
	IndexDocument(ctx context.Context, key document.Key, overwrite bool) error

	// DeleteDocument removes a single document from the index.
	DeleteDocument(ctx context.Context, key document.Key, overwrite bool) error

	// IndexScope indexes every document under scope. With overwrite, the
	// index content of the scope is replaced.
	IndexScope(ctx context.Context, scope *document.Scope, overwrite bool) error
}

// ExistenceChecker tells whether a document exists in the authoritative store.
type ExistenceChecker interface {
	Exists(ctx context.Context, key document.Key) (bool, error)
}

// IteratorFactory creates a fresh source iterator for a job run.
type IteratorFactory func() reconcile.Iterator[string]

// Error reports a job failure together with the document being processed.
type Error struct {
	// Key is the document being processed when the job failed. For source
	// failures it is the last document fully processed, nil when none was.
	Key *document.Key
	Err error
}

func (e *Error) Error() string {
	if e.Key == nil {
		return fmt.Sprintf("index synchronization failed: %v", e.Err)
	}
	return fmt.Sprintf("index synchronization failed at %s: %v", e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
