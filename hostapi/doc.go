// Package hostapi implements the Win32 entry points the engine calls directly.
//
// A Surface owns the state behind them: the handle table for keys,
// synchronization objects and find searches, the registry store, the file
// system adapter, and the GlobalAlloc bookkeeping. Each entry point takes the
// guest's Memory and raw 32-bit arguments exactly as the engine passes them,
// so the abi package can bind them one to one.
//
// Structures keep their Win32 layout for a 32-bit guest:
//
//	SYSTEMTIME        16 bytes, eight u16 fields
//	WIN32_FIND_DATA   u32 attributes, char[MAX_PATH] name
//	CRITICAL_SECTION  first u32 holds the shim handle
//	wchar_t           4 bytes, UTF-32
//
// Every call logs one debug line on the "win32" logger. OutputDebugString goes
// to the "Generals" logger. Entry points listed in Stubs abort when called.
package hostapi
