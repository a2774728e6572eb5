// Package registry emulates the subset of the Win32 registry the engine reads.
//
// Keys are addressed by a predefined root (HKEY_CURRENT_USER or
// HKEY_LOCAL_MACHINE) and a subkey path delimited by '/' or '\'. Segments and
// value names compare case-insensitively. Opening a key always succeeds; the
// tree is only materialized by writes and by seeding from .reg text.
//
// Reads resolve in order: a stored value, then a recognized default such as
// Language="english", then KindNotFound. Values are REG_SZ or REG_DWORD; any
// other type is rejected as unsupported.
//
// String results cross into guest buffers through CopyCString, which truncates
// to capacity-1 bytes and always terminates.
package registry
