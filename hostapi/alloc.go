package hostapi

import (
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	shim "github.com/zachreizner/CnC-Generals-Zero-Hour"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

const globalAlign = 8

// GlobalAlloc allocates from the engine heap. Only GMEM_FIXED and
// GMEM_ZEROINIT are supported; a failed allocation returns NULL.
func (s *Surface) GlobalAlloc(mem shim.Memory, alloc shim.Allocator, flags, size uint32) uint32 {
	s.log.Debug("GlobalAlloc",
		zap.Uint32("flags", flags),
		zap.String("size", humanize.IBytes(uint64(size))))

	if flags != GMemFixed && flags != GMemZeroInit {
		errors.Abort(errors.New(errors.PhaseHost, errors.KindUnsupported).
			Call("GlobalAlloc").
			Value(flags).
			Detail("invalid flags 0x%x", flags).
			Build())
	}

	ptr, err := alloc.Alloc(size, globalAlign)
	if err != nil || ptr == 0 {
		s.log.Warn("GlobalAlloc failed", zap.Uint32("size", size), zap.Error(err))
		s.setLastError(ErrorNotEnoughMemory)
		return 0
	}
	if flags == GMemZeroInit && size > 0 {
		write(mem, ptr, make([]byte, size))
	}

	s.allocMu.Lock()
	s.allocs[ptr] = size
	s.allocMu.Unlock()
	return ptr
}

// GlobalFree releases a GlobalAlloc block. It returns NULL on success and the
// pointer itself when the pointer is not a live block.
func (s *Surface) GlobalFree(alloc shim.Allocator, ptr uint32) uint32 {
	s.log.Debug("GlobalFree", zap.Uint32("ptr", ptr))
	if ptr == 0 {
		return 0
	}

	s.allocMu.Lock()
	size, ok := s.allocs[ptr]
	delete(s.allocs, ptr)
	s.allocMu.Unlock()

	if !ok {
		s.log.Warn("GlobalFree of unknown block", zap.Uint32("ptr", ptr))
		s.setLastError(ErrorInvalidHandle)
		return ptr
	}
	alloc.Free(ptr, size, globalAlign)
	return 0
}

// LiveAllocations returns the number and total size of unfreed GlobalAlloc
// blocks.
func (s *Surface) LiveAllocations() (count int, bytes uint64) {
	s.allocMu.Lock()
	defer s.allocMu.Unlock()
	for _, size := range s.allocs {
		bytes += uint64(size)
	}
	return len(s.allocs), bytes
}
