// Package plugin ties the icon cache reconciler and the lookup service to a
// host lifecycle: Initialize starts a background reconciliation, HandleQuery
// answers lookups while it runs, and Finalize stops it at the next safe
// point and waits for in-flight renders.
package plugin
