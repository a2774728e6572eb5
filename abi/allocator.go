package abi

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	shim "github.com/zachreizner/CnC-Generals-Zero-Hour"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

const (
	// ExportMalloc and ExportFree are the engine's heap exports.
	ExportMalloc = "malloc"
	ExportFree   = "free"

	// mallocAlign is the alignment malloc guarantees on wasm32.
	mallocAlign = 16
)

// GuestAllocator allocates from the engine heap through its malloc and free
// exports.
type GuestAllocator struct {
	ctx      context.Context
	mallocFn api.Function
	freeFn   api.Function
	stackBuf [1]uint64
	mu       sync.Mutex
}

// NewGuestAllocator binds to mod's heap exports. Either export may be absent;
// Alloc then fails and Free does nothing.
func NewGuestAllocator(ctx context.Context, mod api.Module) *GuestAllocator {
	return &GuestAllocator{
		ctx:      ctx,
		mallocFn: mod.ExportedFunction(ExportMalloc),
		freeFn:   mod.ExportedFunction(ExportFree),
	}
}

// Alloc calls malloc. Alignments above what malloc guarantees are refused.
func (a *GuestAllocator) Alloc(size, align uint32) (uint32, error) {
	if a.mallocFn == nil {
		return 0, errors.NotFound(errors.PhaseABI, "export", ExportMalloc)
	}
	if align > mallocAlign {
		return 0, errors.New(errors.PhaseABI, errors.KindUnsupported).
			Call(ExportMalloc).
			Value(align).
			Detail("alignment %d exceeds %d", align, mallocAlign).
			Build()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.stackBuf[0] = api.EncodeU32(size)
	if err := a.mallocFn.CallWithStack(a.ctx, a.stackBuf[:]); err != nil {
		return 0, errors.Wrap(errors.PhaseABI, errors.KindExhausted, err, "malloc failed")
	}
	return api.DecodeU32(a.stackBuf[0]), nil
}

// Free calls free. size and align are ignored by the engine heap.
func (a *GuestAllocator) Free(ptr, size, align uint32) {
	if a.freeFn == nil || ptr == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.stackBuf[0] = api.EncodeU32(ptr)
	if err := a.freeFn.CallWithStack(a.ctx, a.stackBuf[:]); err != nil {
		Logger().Warn("free failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

var _ shim.Allocator = (*GuestAllocator)(nil)
