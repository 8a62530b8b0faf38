// Package diag defines the diagnostic model shared by all rewrite phases.
//
// The rewrite pipeline distinguishes two failure classes. Recoverable
// conditions (an edit request whose location has no surface owner) are
// reported here as warnings and the run continues. Internal-consistency
// faults (span collisions, precedence gaps) are not diagnostics at all:
// those panic at the point of detection and are captured at the phase
// boundary by internal/crashdetail.
//
// Diagnostic is the central record: severity, a compact numeric Code with a
// stable string form, a message, a primary source.Span, and optional notes.
// Bag accumulates diagnostics with a cap; Reporter decouples producers from
// storage.
package diag
