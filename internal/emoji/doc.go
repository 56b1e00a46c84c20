// Package emoji defines the emoji entry reported by the uni metadata oracle
// and the clipboard strings derived from it.
//
// This package has no unimoji-specific dependencies.
//
// Key types:
//   - Entry: one emoji record, keeping every field the oracle returned
//   - Clip: a labelled clipboard string (Copy Emoji, Copy Keywords, ...)
//
// Primary entry points:
//   - Entry.Clips: the four per-entry copy actions
//   - Aggregate: the "copy all" actions across a result list
//   - UTF8Hex / DecodeUTF8Hex: space-separated byte hex and its inverse
package emoji
