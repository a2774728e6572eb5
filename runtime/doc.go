// Package runtime hosts the engine module under wazero and wires it to the
// shim.
//
// # Quick Start
//
//	cfg, err := config.FromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
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
// New builds one handle table, registry store and file system adapter, then
// installs WASI preview1 and every abi vtable. LoadEngine refuses a module
// that imports anything none of them provide. Start calls GameMain, or _start
// when the engine has no GameMain.
//
// Close logs every handle and GlobalAlloc block the engine left open.
package runtime
