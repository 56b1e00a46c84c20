// Package oracle wraps the external programs unimoji depends on: the `uni`
// emoji metadata oracle and the `convert` glyph renderer.
//
// Key types:
//   - Uni: batch glyph listing and per-query full-detail lookups
//   - Convert: renders a single glyph to a PNG file
//   - Executor: process execution seam, replaced in tests via WithExecutor
//   - Error: a failed invocation, carrying the raw program output
//
// The "no matches" diagnostic emitted by uni is not an error: Query returns
// an empty slice for it. Every other non-zero exit, and any unparseable
// output, is reported as *Error (matching ErrFailure). A missing executable
// is reported as ErrNotFound.
package oracle
