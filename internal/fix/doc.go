// Package fix decodes FIX tag=value messages into annotated fields for
// human inspection.
//
// Ownership boundary:
// - delimiter policy and conversion
// - tokenization into ordered (tag, value) pairs
// - BeginString version resolution
// - field annotation against internal/dictionary data
//
// This package is not a FIX engine: it does not verify BodyLength or
// CheckSum, does not walk repeating groups, and never re-encodes.
package fix
