// Package search builds the Elasticsearch client used by the index side of
// the synchronization.
//
// The client never sniffs or health-checks unless configured to, so creating
// it does not require a reachable cluster. EnsureIndex creates the target
// index with a caller-provided mapping on first use.
package search
