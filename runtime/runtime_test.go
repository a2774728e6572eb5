package runtime

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/abi"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/config"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/registry"
)

// memoryModule exports one page of memory and nothing else.
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x05, 0x03, 0x01, 0x00, 0x01,
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
}

// startModule exports an empty _start.
var startModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x0a, 0x01, 0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x00,
	0x0a, 0x04, 0x01, 0x02, 0x00, 0x0b,
}

// unreachableModule exports a _start that traps.
var unreachableModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x0a, 0x01, 0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x00,
	0x0a, 0x05, 0x01, 0x03, 0x00, 0x00, 0x0b,
}

// loadLibraryModule exports a _start that calls win32.LoadLibrary(0).
var loadLibraryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x09, 0x02, 0x60, 0x01, 0x7f, 0x01, 0x7f, 0x60, 0x00, 0x00,
	0x02, 0x15, 0x01,
	0x05, 'w', 'i', 'n', '3', '2', 0x0b, 'L', 'o', 'a', 'd', 'L', 'i', 'b', 'r', 'a', 'r', 'y', 0x00, 0x00,
	0x03, 0x02, 0x01, 0x01,
	0x07, 0x0a, 0x01, 0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x01,
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x41, 0x00, 0x10, 0x00, 0x1a, 0x0b,
}

// importingModule imports win32.GetTickCount and win32.Bogus, both () -> i32.
var importingModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x05, 0x01, 0x60, 0x00, 0x01, 0x7f,
	0x02, 0x24, 0x02,
	0x05, 'w', 'i', 'n', '3', '2', 0x0c, 'G', 'e', 't', 'T', 'i', 'c', 'k', 'C', 'o', 'u', 'n', 't', 0x00, 0x00,
	0x05, 'w', 'i', 'n', '3', '2', 0x05, 'B', 'o', 'g', 'u', 's', 0x00, 0x00,
}

func newRuntime(t *testing.T, cfg *config.Config) (context.Context, *Runtime) {
	t.Helper()
	ctx := context.Background()
	if cfg == nil {
		cfg = config.Default()
		cfg.Root = t.TempDir()
	}
	rt, err := NewWithOptions(ctx, cfg, Options{Exit: func(int) {}})
	require.NoError(t, err)
	return ctx, rt
}

func TestNewRequiresRoot(t *testing.T) {
	_, err := New(context.Background(), config.Default())
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindConfig})
}

func TestNewInstallsVTables(t *testing.T) {
	ctx, rt := newRuntime(t, nil)
	defer rt.Close(ctx)

	names := make(map[string]bool)
	for _, table := range rt.VTables() {
		names[table.Name] = true
	}
	for _, want := range []string{abi.ModuleWin32, abi.ModuleGameEngine, abi.ModuleSubsystem, abi.ModuleLocalFileSystem, abi.ModuleFile} {
		assert.True(t, names[want], want)
	}
	assert.NotNil(t, rt.Surface())
	assert.Same(t, rt.Handles(), rt.Surface().Handles())
}

func TestNewSeedsRegistry(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "generals.reg")
	require.NoError(t, os.WriteFile(seed, []byte("REGEDIT4\n\n[HKEY_LOCAL_MACHINE\\SOFTWARE\\Generals]\n\"Language\"=\"german\"\n"), 0o644))

	cfg := config.Default()
	cfg.Root = dir
	cfg.RegistryFile = seed
	ctx, rt := newRuntime(t, cfg)
	defer rt.Close(ctx)

	v, err := rt.Registry().Open(registry.LocalMachine, `SOFTWARE\Generals`).Query("Language")
	require.NoError(t, err)
	assert.Equal(t, "german", v.Str)
}

func TestNewBadRegistrySeed(t *testing.T) {
	cfg := config.Default()
	cfg.Root = t.TempDir()
	cfg.RegistryFile = filepath.Join(cfg.Root, "missing.reg")
	_, err := New(context.Background(), cfg)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindConfig})
}

func TestLoadEngineAndStart(t *testing.T) {
	ctx, rt := newRuntime(t, nil)
	defer rt.Close(ctx)

	require.NoError(t, rt.LoadEngine(ctx, startModule))
	assert.Error(t, rt.LoadEngine(ctx, startModule), "second load")
	assert.NoError(t, rt.Start(ctx))
}

func TestStartWithoutEntryPoint(t *testing.T) {
	ctx, rt := newRuntime(t, nil)
	defer rt.Close(ctx)

	assert.ErrorIs(t, rt.Start(ctx), &errors.Error{Phase: errors.PhaseRuntime, Kind: errors.KindInvalidInput})

	require.NoError(t, rt.LoadEngine(ctx, memoryModule))
	assert.ErrorIs(t, rt.Start(ctx), &errors.Error{Phase: errors.PhaseRuntime, Kind: errors.KindNotFound})
}

func TestStartTrap(t *testing.T) {
	ctx, rt := newRuntime(t, nil)
	defer rt.Close(ctx)

	require.NoError(t, rt.LoadEngine(ctx, unreachableModule))
	err := rt.Start(ctx)
	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, "_start", e.Call)
	assert.Equal(t, errors.KindInstantiation, e.Kind)
}

func TestStartAbortKeepsError(t *testing.T) {
	ctx, rt := newRuntime(t, nil)
	defer rt.Close(ctx)

	require.NoError(t, rt.LoadEngine(ctx, loadLibraryModule))
	err := rt.Start(ctx)
	var e *errors.Error
	require.True(t, stderrors.As(err, &e), "%v", err)
	assert.Equal(t, errors.PhaseHost, e.Phase)
	assert.Equal(t, errors.KindUnimplemented, e.Kind)
	assert.Equal(t, "LoadLibrary", e.Call)
}

func TestLoadEngineMissingImports(t *testing.T) {
	ctx, rt := newRuntime(t, nil)
	defer rt.Close(ctx)

	err := rt.LoadEngine(ctx, importingModule)
	var missing *errors.MissingImportsError
	require.True(t, stderrors.As(err, &missing))
	require.Len(t, missing.Imports, 1)
	assert.Equal(t, "Bogus", missing.Imports[0].Function)

	assert.Error(t, rt.LoadEngine(ctx, []byte("not wasm")))
}

func TestCloseReportsLiveHandles(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	ctx, rt := newRuntime(t, nil)
	key := rt.Registry().Open(registry.CurrentUser, `Software\Generals`)
	h := rt.Handles().Open(key)
	rt.Handles().Open(rt.Registry().Open(registry.CurrentUser, "Software"))
	rt.Handles().Close(h)

	require.NoError(t, rt.Close(ctx))

	open := logs.FilterMessage("handle still open at shutdown").All()
	require.Len(t, open, 1)
	assert.Equal(t, "registry-key", open[0].ContextMap()["type"])

	closed := logs.FilterMessage("runtime closed").All()
	require.Len(t, closed, 1)
	assert.Equal(t, uint64(2), closed[0].ContextMap()["handles_opened"])
	assert.Equal(t, uint64(1), closed[0].ContextMap()["handles_closed"])
}

func TestInspect(t *testing.T) {
	ctx, rt := newRuntime(t, nil)
	defer rt.Close(ctx)

	info, err := rt.Inspect(ctx, importingModule)
	require.NoError(t, err)
	require.Len(t, info.Imports, 2)
	assert.Equal(t, Import{Module: "win32", Name: "Bogus"}, info.Imports[0])
	assert.Equal(t, Import{Module: "win32", Name: "GetTickCount", Provided: true}, info.Imports[1])
	assert.Equal(t, []Import{{Module: "win32", Name: "Bogus"}}, info.Missing())
	assert.False(t, info.Memory)

	info, err = rt.Inspect(ctx, startModule)
	require.NoError(t, err)
	assert.Equal(t, []string{"_start"}, info.Exports)
	assert.Empty(t, info.Missing())

	info, err = rt.Inspect(ctx, memoryModule)
	require.NoError(t, err)
	assert.True(t, info.Memory)
}
