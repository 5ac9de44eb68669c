// Package job runs search index synchronization jobs.
//
// A Job works in one of two modes selected by Request.Overwrite:
//
//   - Full rebuild: the indexer re-indexes the whole scope, no diff is computed.
//   - Incremental sync: a reconcile.DiffIterator merges the index and store
//     iterators and every action is applied in key order. ADD and UPDATE
//     index the document, DELETE removes it after re-checking the store,
//     SKIP does nothing.
//
// Counts are accumulated in a Summary threaded through the dispatch loop and
// logged once when the job ends. Cancellation is checked between diff steps.
//
// # Scheduling
//
// Every job has a GroupPath derived from its scope. The Scheduler never runs
// two jobs whose group paths overlap (one is a prefix of the other), so two
// jobs never mutate the same subtree concurrently. Jobs on disjoint scopes run
// in parallel. Overlapping jobs start in submission order.
package job
