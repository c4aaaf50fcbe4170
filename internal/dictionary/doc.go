// Package dictionary owns the static FIX reference data.
//
// Ownership boundary:
// - per-version field dictionaries (tag -> field name)
// - the version-agnostic value decode table (tag -> enumerated value -> label)
// - embedded datasets and the QuickFIX XML loader
//
// Everything handed out by this package is read-only after construction.
package dictionary
