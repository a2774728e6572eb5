package abi

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/bridge"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

// Engine exports that construct and drive the engine's own subsystems.
const (
	ExportNativeCreate = "native_create"
	ExportNativeInit   = "native_init"
	ExportNativeUpdate = "native_update"
	ExportNativeReset  = "native_reset"
)

// guestNative forwards subsystem lifecycles to the engine's own
// implementations through its native_* exports.
type guestNative struct {
	ctx                         context.Context
	create, init, update, reset api.Function
	mu                          sync.Mutex
	stack                       [1]uint64
}

// NewGuestNative returns a bridge.Native backed by mod, or nil when mod does
// not export the native_* functions.
func NewGuestNative(ctx context.Context, mod api.Module) bridge.Native {
	n := &guestNative{
		ctx:    ctx,
		create: mod.ExportedFunction(ExportNativeCreate),
		init:   mod.ExportedFunction(ExportNativeInit),
		update: mod.ExportedFunction(ExportNativeUpdate),
		reset:  mod.ExportedFunction(ExportNativeReset),
	}
	if n.create == nil || n.init == nil || n.update == nil || n.reset == nil {
		Logger().Debug("engine exports no native subsystems", zap.String("module", mod.Name()))
		return nil
	}
	return n
}

func (n *guestNative) New(kind bridge.Kind) bridge.Lifecycle {
	ptr := n.call(n.create, ExportNativeCreate, uint32(kind))
	if ptr == 0 {
		errors.Abort(errors.New(errors.PhaseABI, errors.KindNotFound).
			Call(ExportNativeCreate).
			Value(kind).
			Detail("engine has no native %s", kind).
			Build())
	}
	return &nativeLifecycle{native: n, ptr: ptr}
}

func (n *guestNative) call(fn api.Function, name string, arg uint32) uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack[0] = api.EncodeU32(arg)
	if err := fn.CallWithStack(n.ctx, n.stack[:]); err != nil {
		errors.Abort(errors.New(errors.PhaseABI, errors.KindInstantiation).
			Call(name).
			Cause(err).
			Detail("guest call failed").
			Build())
	}
	return api.DecodeU32(n.stack[0])
}

type nativeLifecycle struct {
	native *guestNative
	ptr    uint32
}

func (l *nativeLifecycle) Init()   { l.native.call(l.native.init, ExportNativeInit, l.ptr) }
func (l *nativeLifecycle) Update() { l.native.call(l.native.update, ExportNativeUpdate, l.ptr) }
func (l *nativeLifecycle) Reset()  { l.native.call(l.native.reset, ExportNativeReset, l.ptr) }
