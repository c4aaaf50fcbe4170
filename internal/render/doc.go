// Package render writes decode results for terminals and pipes.
//
// Ownership boundary:
//   - render owns presentation only: table, plain and json layouts.
//   - decoding and dictionary lookups stay in internal/fix and internal/dictionary.
package render
