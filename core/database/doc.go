// Package database handles connections to the authoritative document store
// and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL (production) or SQLite
// (local runs and tests) connections from the application's configuration.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table for both dialects, and
// RequireColumns checks that a table exposes the columns a query relies on.
// The store iterator uses it to fail fast on a mismatched schema instead of
// failing mid-synchronization.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	err = database.RequireColumns(db, "documents", "wiki", "space", "name")
package database
