package abi

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

// Method is one host function exported by a VTable.
type Method struct {
	Name    string
	Fn      api.GoModuleFunc
	Params  []api.ValueType
	Results []api.ValueType
}

// VTable exposes one abstract interface to the engine as a wazero host module.
// Install builds the module once; later calls return the same result.
type VTable struct {
	Name    string
	Methods []Method

	once sync.Once
	mod  api.Module
	err  error
}

// NewVTable creates a table named after the host module it becomes.
func NewVTable(name string, methods ...Method) *VTable {
	return &VTable{Name: name, Methods: methods}
}

// Install instantiates the table into rt.
func (t *VTable) Install(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	t.once.Do(func() {
		builder := rt.NewHostModuleBuilder(t.Name)
		for _, m := range t.Methods {
			builder.NewFunctionBuilder().
				WithGoModuleFunction(m.Fn, m.Params, m.Results).
				WithName(m.Name).
				Export(m.Name)
		}
		t.mod, t.err = builder.Instantiate(ctx)
		if t.err != nil {
			t.err = errors.New(errors.PhaseABI, errors.KindInstantiation).
				Call(t.Name).
				Cause(t.err).
				Detail("install host module").
				Build()
			return
		}
		Logger().Debug("installed vtable", zap.String("module", t.Name), zap.Int("methods", len(t.Methods)))
	})
	return t.mod, t.err
}

// Has reports whether the table exports name.
func (t *VTable) Has(name string) bool {
	for _, m := range t.Methods {
		if m.Name == name {
			return true
		}
	}
	return false
}

// frame is the view of one host call.
type frame struct {
	ctx   context.Context
	mod   api.Module
	stack []uint64
}

func (f *frame) u32(i int) uint32 { return api.DecodeU32(f.stack[i]) }

func (f *frame) i32(i int) int32 { return api.DecodeI32(f.stack[i]) }

func (f *frame) ret(v uint32) { f.stack[0] = api.EncodeU32(v) }

func (f *frame) reti(v int32) { f.stack[0] = api.EncodeI32(v) }

func (f *frame) memory() *GuestMemory {
	mem := f.mod.Memory()
	if mem == nil {
		errors.Abort(errors.New(errors.PhaseABI, errors.KindNotFound).
			Detail("calling module %q exports no memory", f.mod.Name()).
			Build())
	}
	return NewGuestMemory(mem)
}

func (f *frame) allocator() *GuestAllocator {
	return NewGuestAllocator(f.ctx, f.mod)
}

func i32s(n int) []api.ValueType {
	types := make([]api.ValueType, n)
	for i := range types {
		types[i] = api.ValueTypeI32
	}
	return types
}

// fn builds a method whose parameters and results are all i32.
func fn(name string, params, results int, body func(f *frame)) Method {
	return Method{
		Name: name,
		Fn: func(ctx context.Context, mod api.Module, stack []uint64) {
			body(&frame{ctx: ctx, mod: mod, stack: stack})
		},
		Params:  i32s(params),
		Results: i32s(results),
	}
}
