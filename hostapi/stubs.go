package hostapi

import (
	shim "github.com/zachreizner/CnC-Generals-Zero-Hour"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

// Stub is an entry point the engine imports but the shim does not emulate.
// Every argument is a 32-bit value.
type Stub struct {
	Name    string
	Params  int
	Returns bool
}

// Stubs lists the declared but unimplemented entry points.
var Stubs = []Stub{
	{Name: "SHGetSpecialFolderPath", Params: 4, Returns: true},
	{Name: "SetCurrentDirectory", Params: 1, Returns: true},
	{Name: "GetDesktopDirectory", Params: 1},
	{Name: "FormatMessage", Params: 7, Returns: true},
	{Name: "FormatMessageW", Params: 7, Returns: true},
	{Name: "GetDateFormat", Params: 6, Returns: true},
	{Name: "GetDateFormatW", Params: 6, Returns: true},
	{Name: "GetTimeFormatW", Params: 6, Returns: true},
	{Name: "LoadLibrary", Params: 1, Returns: true},
	{Name: "GetProcAddress", Params: 2, Returns: true},
	{Name: "FreeLibrary", Params: 1, Returns: true},
	{Name: "SetWindowTextW", Params: 2, Returns: true},
	{Name: "ShowWindow", Params: 2, Returns: true},
	{Name: "SetWindowPos", Params: 7, Returns: true},
	{Name: "GlobalMemoryStatus", Params: 1},
	{Name: "AddFontResource", Params: 1, Returns: true},
	{Name: "RemoveFontResource", Params: 1, Returns: true},
	{Name: "TerminateThread", Params: 2, Returns: true},
	{Name: "_beginthread", Params: 3, Returns: true},
	{Name: "SetThreadPriority", Params: 2, Returns: true},
}

// Unimplemented aborts for a stubbed entry point.
func (s *Surface) Unimplemented(name string) {
	errors.Abort(errors.Unimplemented(errors.PhaseHost, name))
}

// CreateDirectory is routed to the file system, which does not emulate it.
func (s *Surface) CreateDirectory(mem shim.Memory, pathPtr, securityPtr uint32) uint32 {
	if s.fs == nil {
		s.Unimplemented("CreateDirectory")
	}
	return boolResult(s.fs.CreateDirectory(readCString(mem, pathPtr)))
}

// DeleteFile is routed to the file system, which does not emulate it.
func (s *Surface) DeleteFile(mem shim.Memory, pathPtr uint32) uint32 {
	if s.fs == nil {
		s.Unimplemented("DeleteFile")
	}
	return boolResult(s.fs.DeleteFile(readCString(mem, pathPtr)))
}

// CopyFile is routed to the file system, which does not emulate it.
func (s *Surface) CopyFile(mem shim.Memory, srcPtr, dstPtr, failIfExists uint32) uint32 {
	if s.fs == nil {
		s.Unimplemented("CopyFile")
	}
	return boolResult(s.fs.CopyFile(readCString(mem, srcPtr), readCString(mem, dstPtr)))
}
