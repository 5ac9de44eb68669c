// Package store reads the authoritative document table.
//
// Querier holds the SQL side: scoped page fetches in key order, counts,
// existence checks, wiki listing and full row loads. Pager adapts it to
// reconcile.Paged with offset pagination, which yields the store-backed
// iterator compared against the search index.
//
// Pages are ordered by (wiki, space, name, locale) and the key columns must use
// a binary collation; see models.Migrate.
package store
