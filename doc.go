// Package shim is a Win32 compatibility layer for the Generals engine.
//
// The engine is an unmodified native component written against the Win32 API
// and a set of abstract subsystem interfaces. It runs as a WebAssembly guest and
// every host call it makes lands in this module.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	shim/            Root package with core Memory and Allocator interfaces
//	├── handle/      Process-wide opaque handle table
//	├── registry/    Hierarchical registry emulation and .reg seeding
//	├── filesystem/  Game-data root resolution, file reads, glob listings
//	├── hostapi/     Win32 entry points (time, sync, registry, strings, math)
//	├── bridge/      Subsystem overrides and the engine factory
//	├── abi/         wazero host modules binding the above to the guest
//	├── runtime/     Engine loading, wiring and startup
//	├── config/      Environment configuration and logger construction
//	├── cmd/shim/    Command line: run, ls, reg, stat, inspect
//	└── errors/      Structured error types and fatal aborts
//
// # Quick Start
//
// Run the engine against a data root:
//
//	cfg, err := config.FromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rt, err := runtime.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	if err := rt.LoadEngine(ctx, wasmBytes); err != nil {
//	    log.Fatal(err)
//	}
//	if err := rt.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Failure policy
//
// Recoverable conditions (a missing file, an unset registry value) are reported
// through the Win32 return value and logged as warnings. Everything else,
// including every declared but unimplemented entry point, aborts.
package shim
