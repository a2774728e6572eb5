package runtime

import (
	"context"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/abi"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/bridge"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/config"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/filesystem"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/hostapi"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/registry"
)

// EngineModuleName is the name the engine module is instantiated under.
const EngineModuleName = "generals"

// Entry points tried by Start, in order.
var entryPoints = []string{"GameMain", "_start"}

// Runtime hosts one engine module and the shim components it calls into.
type Runtime struct {
	runtime  wazero.Runtime
	tables   []*abi.VTable
	handles  *handle.Table
	registry *registry.Store
	fs       *filesystem.Adapter
	surface  *hostapi.Surface
	stats    *handleStats
	engine   api.Module
	log      *zap.Logger
}

// Options overrides the components New would otherwise construct.
type Options struct {
	Handles *handle.Table
	Clock   hostapi.Clock
	Exit    func(code int)
}

// New validates cfg, builds the shim components and installs every vtable.
func New(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	return NewWithOptions(ctx, cfg, Options{})
}

// NewWithOptions is New with component overrides.
func NewWithOptions(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runtime{
		handles:  opts.Handles,
		registry: registry.NewStore(),
		fs:       filesystem.New(cfg.FSOptions()),
		stats:    &handleStats{},
		log:      Logger().Named("runtime"),
	}
	if r.handles == nil {
		r.handles = handle.NewTable()
	}
	r.handles.Subscribe(r.stats)

	if cfg.RegistryFile != "" {
		stats, err := r.registry.LoadFile(cfg.RegistryFile)
		if err != nil {
			return nil, err
		}
		r.log.Info("registry seeded",
			zap.String("file", cfg.RegistryFile),
			zap.Int("keys", stats.Keys),
			zap.Int("values", stats.Values),
			zap.Int("skipped", stats.Skipped))
	}

	r.surface = hostapi.New(hostapi.Options{
		Handles:  r.handles,
		Registry: r.registry,
		FS:       r.fs,
		Clock:    opts.Clock,
		Exit:     opts.Exit,
	})

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	r.runtime = wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r.runtime); err != nil {
		r.runtime.Close(ctx)
		return nil, errors.Instantiation(err)
	}

	bindings := abi.Bindings{
		Handles: r.handles,
		NewEngine: func(native bridge.Native) *bridge.Engine {
			return bridge.CreateGameEngine(bridge.Options{FS: r.fs, Native: native})
		},
	}
	r.tables = append([]*abi.VTable{abi.Win32(r.surface)}, bindings.Tables()...)
	for _, t := range r.tables {
		if _, err := t.Install(ctx, r.runtime); err != nil {
			r.runtime.Close(ctx)
			return nil, err
		}
	}

	r.log.Info("runtime ready",
		zap.String("root", r.fs.Root()),
		zap.Int("vtables", len(r.tables)),
		zap.Bool("strict_listing", cfg.StrictListing))
	return r, nil
}

// LoadEngine compiles and instantiates the engine module. Every function it
// imports must be provided by an installed vtable or WASI.
func (r *Runtime) LoadEngine(ctx context.Context, wasm []byte) error {
	if r.engine != nil {
		return errors.InvalidInput(errors.PhaseLoad, "engine already loaded")
	}

	compiled, err := r.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return errors.Load("compile engine module", err)
	}
	if err := abi.CheckImports(compiled, r.tables, wasi_snapshot_preview1.ModuleName); err != nil {
		compiled.Close(ctx)
		return err
	}

	modCfg := wazero.NewModuleConfig().
		WithName(EngineModuleName).
		WithStartFunctions().
		WithArgs(EngineModuleName).
		WithStdout(os.Stdout).
		WithStderr(os.Stderr).
		WithSysWalltime().
		WithSysNanotime()

	mod, err := r.runtime.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		return errors.Instantiation(err)
	}
	r.engine = mod
	r.log.Info("engine loaded",
		zap.Int("imports", len(compiled.ImportedFunctions())),
		zap.Int("exports", len(compiled.ExportedFunctions())))
	return nil
}

// Start runs the engine's entry point until it returns. An exit with status 0
// is a normal return.
func (r *Runtime) Start(ctx context.Context) error {
	if r.engine == nil {
		return errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
			Detail("no engine loaded").
			Build()
	}

	for _, name := range entryPoints {
		fn := r.engine.ExportedFunction(name)
		if fn == nil {
			continue
		}
		r.log.Info("starting engine", zap.String("entry", name))
		_, err := fn.Call(ctx)
		return exitResult(name, err)
	}
	return errors.New(errors.PhaseRuntime, errors.KindNotFound).
		Detail("engine exports none of %v", entryPoints).
		Build()
}

// Close reports handles the engine never closed and releases the runtime.
func (r *Runtime) Close(ctx context.Context) error {
	r.handles.Each(func(h handle.Handle, obj handle.Object) bool {
		r.log.Warn("handle still open at shutdown",
			zap.Uint32("handle", uint32(h)),
			zap.Stringer("type", obj.ObjectType()))
		return true
	})
	if count, bytes := r.surface.LiveAllocations(); count > 0 {
		r.log.Warn("GlobalAlloc blocks never freed", zap.Int("count", count), zap.Uint64("bytes", bytes))
	}
	opened, closed := r.stats.counts()
	r.log.Info("runtime closed", zap.Uint64("handles_opened", opened), zap.Uint64("handles_closed", closed))

	r.handles.Unsubscribe(r.stats)
	return r.runtime.Close(ctx)
}

// Handles returns the handle table shared by every component.
func (r *Runtime) Handles() *handle.Table { return r.handles }

// Registry returns the registry store.
func (r *Runtime) Registry() *registry.Store { return r.registry }

// FS returns the file system adapter.
func (r *Runtime) FS() *filesystem.Adapter { return r.fs }

// Surface returns the Win32 entry points.
func (r *Runtime) Surface() *hostapi.Surface { return r.surface }

// VTables returns the installed host modules.
func (r *Runtime) VTables() []*abi.VTable { return r.tables }
