// Package scripts manages the writable user copy of the helper script tree.
//
// # Bootstrap
//
// Bootstrap creates the user scripts root with a fixed skeleton, but only
// when the root does not exist yet:
//
//	analyzers/ gates/ queries/ multi-queries/ shell-utils/
//
// # Sync
//
// Sync reconciles one category of the user tree against the bundled tree,
// in one direction:
//
//   - bundled file missing from the user copy: copied in
//   - bundled file whose bytes differ from the user copy: copied over
//   - identical files: not written
//   - files only in the user copy: left alone
//
// A user edit to a synced file is reverted on the next run. The first copy
// failure aborts the whole sync.
//
// There is no locking; concurrent syncs against one tree are unsupported.
package scripts
