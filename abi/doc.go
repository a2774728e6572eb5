// Package abi exposes the shim to the engine module running under wazero.
//
// Each abstract interface the engine calls through becomes one wazero host
// module, built once from a VTable:
//
//	win32                  Win32 entry points (hostapi.Surface)
//	GameEngine             CreateGameEngine and the create* factories
//	Subsystem              init/update/reset/destroy by handle
//	LocalFileSystem        the file system override
//	File                   read/seek/size/close on opened files
//	Radar, AudioManager,   stubbed methods that abort
//	ParticleSystemManager
//
// Subsystems and files cross the boundary as handle.Table handles. Guest
// pointers are resolved through GuestMemory; allocations in the engine heap go
// through GuestAllocator, which calls the engine's malloc and free exports.
//
// An abort inside a host function panics through wazero and surfaces as a
// failed guest call.
package abi
