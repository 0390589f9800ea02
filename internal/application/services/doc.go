// Package services holds the schema mutation surface.
//
// SchemaStore owns the live OrgSchema. Every mutation runs under a single
// writer lock against a deep copy of the committed schema; the copy is
// validated as a whole and swapped in only when every invariant holds, so a
// rejected operation leaves the previous state untouched. Readers get copies
// and never block on each other.
package services
