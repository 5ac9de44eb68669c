// Package index is the search side of the synchronization.
//
// ElasticExecutor pages through the index sorted by the document key and
// resumes with search_after; the opaque cursor is the JSON array of the sort
// values of the last hit. Pager adapts it to reconcile.Paged, producing the
// index-backed iterator. Resolver maps a scope to the filter query matching
// the store predicate.
//
// Indexer writes documents: it loads the store row, reads the body from
// object storage and upserts the search document under Key.String().
// RateLimited throttles its per-document mutations.
package index
