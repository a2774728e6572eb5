package hostapi

import (
	"go.uber.org/zap"

	shim "github.com/zachreizner/CnC-Generals-Zero-Hour"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

// GetModuleFileName writes the executable path for the NULL module.
// Returns the length written excluding the terminator.
func (s *Surface) GetModuleFileName(mem shim.Memory, module, bufPtr, size uint32) uint32 {
	s.log.Debug("GetModuleFileName", zap.Uint32("module", module), zap.Uint32("size", size))
	if size == 0 {
		return 0
	}
	if module != 0 {
		errors.Abort(errors.New(errors.PhaseHost, errors.KindUnimplemented).
			Call("GetModuleFileName").
			Value(module).
			Detail("only the NULL module is supported").
			Build())
	}
	return writeCString(mem, bufPtr, size, s.exePath)
}

// GetDoubleClickTime returns the default double-click interval in milliseconds.
func (s *Surface) GetDoubleClickTime() uint32 {
	s.log.Debug("GetDoubleClickTime")
	return 500
}

// GetCurrentThreadId returns the host thread id.
func (s *Surface) GetCurrentThreadId() uint32 {
	tid := currentThreadID()
	s.log.Debug("GetCurrentThreadId", zap.Uint32("tid", tid))
	return tid
}

// GetCurrentDirectory reports the game-data root as the working directory.
// If the buffer is too small the required size including the terminator is
// returned and nothing is written.
func (s *Surface) GetCurrentDirectory(mem shim.Memory, size, bufPtr uint32) uint32 {
	dir := s.root()
	s.log.Debug("GetCurrentDirectory", zap.Uint32("size", size), zap.String("dir", dir))
	need := uint32(len(dir)) + 1
	if bufPtr == 0 || size < need {
		return need
	}
	return writeCString(mem, bufPtr, size, dir)
}

func (s *Surface) root() string {
	if s.fs == nil {
		return "."
	}
	return s.fs.Root()
}

// Access implements _access: 0 when path is accessible with mode, else -1.
// Paths resolve under the game-data root.
func (s *Surface) Access(mem shim.Memory, pathPtr uint32, mode int32) int32 {
	p := readCString(mem, pathPtr)
	result := int32(-1)
	if full, ok := s.resolve(p); ok && accessible(full, uint32(mode)) {
		result = 0
	}
	s.log.Debug("_access", zap.String("path", p), zap.Int32("mode", mode), zap.Int32("result", result))
	return result
}

func (s *Surface) resolve(p string) (string, bool) {
	if s.fs == nil {
		return "", false
	}
	return s.fs.Resolve(p)
}

// GetUserName writes the user name. sizePtr holds the buffer size on entry and
// the length written including the terminator on return.
func (s *Surface) GetUserName(mem shim.Memory, bufPtr, sizePtr uint32) uint32 {
	capacity := readU32(mem, sizePtr)
	need := uint32(len(s.userName)) + 1
	s.log.Debug("GetUserName", zap.Uint32("size", capacity), zap.String("user", s.userName))
	if capacity < need {
		writeU32(mem, sizePtr, need)
		s.setLastError(ErrorInsufficientBuffer)
		return False
	}
	n := writeCString(mem, bufPtr, capacity, s.userName)
	writeU32(mem, sizePtr, n+1)
	return True
}

// GetComputerName writes the host name. sizePtr holds the buffer size on entry
// and the length written excluding the terminator on return.
func (s *Surface) GetComputerName(mem shim.Memory, bufPtr, sizePtr uint32) uint32 {
	capacity := readU32(mem, sizePtr)
	need := uint32(len(s.computerName)) + 1
	s.log.Debug("GetComputerName", zap.Uint32("size", capacity), zap.String("host", s.computerName))
	if capacity < need {
		writeU32(mem, sizePtr, need)
		s.setLastError(ErrorBufferOverflow)
		return False
	}
	n := writeCString(mem, bufPtr, capacity, s.computerName)
	writeU32(mem, sizePtr, n)
	return True
}
