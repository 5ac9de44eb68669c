// Package document defines how documents are identified across the
// authoritative store and the search index.
//
// A Key is the composite (wiki, space, name, locale) identity of a document.
// Compare defines the total order every ordered source must stream in; the
// store sorts its SQL query and the index sorts its search request by the
// same four fields so both sides can be merged in a single pass.
//
// A Scope restricts work to a wiki, a space subtree or a single document.
package document
