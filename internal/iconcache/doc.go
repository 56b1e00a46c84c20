// Package iconcache keeps a directory of rendered emoji icons in step with
// the glyphs the metadata oracle reports.
//
// A Reconciler run lists the required glyphs with one batch oracle call,
// lists the PNG files already on disk, deletes the stale ones, and renders
// the missing ones on a bounded worker pool. Each icon is rendered to a
// unique temporary file and renamed into place, so readers never observe a
// partially written icon.
//
// Cancelling the run context stops dispatching new renders at the next
// checkpoint. Renders already dispatched run to completion. Start wraps a run
// in a Handle whose Stop cancels and then waits.
//
// A gofrs/flock lock file inside the cache directory keeps two processes from
// reconciling the same directory at once.
package iconcache
