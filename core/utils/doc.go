// Package utils provides loose value conversion helpers.
//
// Search hits and SQL rows do not agree on the Go type of a value (a numeric
// version may arrive as float64, json.Number, int64 or []byte); ToString
// normalizes them before comparison.
package utils
