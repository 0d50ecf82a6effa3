// Package row provides the value model for table rows.
//
// A Row is an opaque record of arbitrary shape. The engine reads fields by
// name through Row.Get, which returns a tagged optional (value, present)
// instead of overloading a sentinel for "missing". The only contract the
// engine requires from a row is an optional identity field.
//
// Key design constraints:
//   - Value is sealed: Null, String, Int, Float, Bool, Array, Object
//   - ID(1) and ID("1") are different identities
//   - Rows without an identity are never selectable
//   - Nothing in this package mutates a Row it did not create
package row
