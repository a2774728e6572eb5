// Package config reads the shim's startup configuration from the environment
// and builds the process logger.
//
// GENERALS_ROOT names the game-data root and is required. GENERALS_MARKER
// overrides the sanity-check marker (INI.big by default). GENERALS_REGISTRY
// names an optional .reg file that seeds the registry. GENERALS_STRICT_LISTING
// makes unreadable directory entries fatal during listings.
package config
