// Package reconcile computes the mutations needed to bring a search index in
// line with the authoritative document store, without loading either side in
// memory.
//
// # Architecture
//
// The package consists of three main components:
//
// 1. Iterator: a lazy, ordered stream of (key, value) pairs. Source iterators
// stream (key, version) pairs from the store or the index; the diff iterator
// streams (key, action) pairs.
//
// 2. Paged: a reusable Iterator over a Pager, the batch-fetch boundary of a
// backing source. Offset pagination (store) and cursor pagination (index) are
// two Pager strategies behind the same iterator.
//
// 3. DiffIterator: a sorted merge-join of the current index state (previous)
// and the authoritative state (next) that classifies every key as ADD,
// UPDATE, DELETE or SKIP in a single linear pass.
//
// Iterators are created per run, scoped before the first read and drained
// once. They are not safe for concurrent use.
//
// # Usage Example
//
//	diff := reconcile.NewDiffIterator(indexIterator, storeIterator)
//	if err := diff.SetScope(scope); err != nil {
//	    return err
//	}
//	for {
//	    ok, err := diff.HasNext(ctx)
//	    if err != nil || !ok {
//	        return err
//	    }
//	    key, action, err := diff.Next(ctx)
//	    ...
//	}
package reconcile
