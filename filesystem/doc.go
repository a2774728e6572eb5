// Package filesystem serves the engine's local file system from a host
// directory.
//
// The engine speaks in relative, backslash-separated paths. An Adapter
// normalizes them, joins them with the configured root, and refuses anything
// absolute or escaping the root by treating it as not found.
//
// Missing files are expected: OpenFile returns nil and logs a warning.
// Failures on a file that is already open abort, as do the mutating calls
// (directory creation, copy, delete) that are declared but not emulated.
//
// Listings use doublestar globs relative to the root:
//
//	var list filesystem.FilenameList
//	a.ListDirectory("", "", "*.ini", true, &list) // matches **/*.ini
//
// Unreadable entries are skipped unless Options.StrictListing is set.
package filesystem
