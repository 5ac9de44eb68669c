// Package models defines the GORM model of the authoritative document table.
//
// Key columns must sort byte-wise: SQLite does so by default (BINARY
// collation) and Migrate switches them to utf8mb4_bin on MySQL.
package models
