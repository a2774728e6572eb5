package runtime

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

// Import is one function the engine module imports.
type Import struct {
	Module   string
	Name     string
	Provided bool
}

// EngineInfo describes an engine module without instantiating it.
type EngineInfo struct {
	Imports []Import
	Exports []string
	Memory  bool
}

// Missing returns the imports no installed module provides.
func (e *EngineInfo) Missing() []Import {
	var out []Import
	for _, imp := range e.Imports {
		if !imp.Provided {
			out = append(out, imp)
		}
	}
	return out
}

// Inspect compiles wasm and resolves each imported function against the
// installed vtables and WASI.
func (r *Runtime) Inspect(ctx context.Context, wasm []byte) (*EngineInfo, error) {
	compiled, err := r.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile engine module", err)
	}
	defer compiled.Close(ctx)

	info := &EngineInfo{Memory: len(compiled.ExportedMemories()) > 0}
	for _, fn := range compiled.ImportedFunctions() {
		module, name, _ := fn.Import()
		info.Imports = append(info.Imports, Import{
			Module:   module,
			Name:     name,
			Provided: r.provides(module, name),
		})
	}
	sort.Slice(info.Imports, func(i, j int) bool {
		a, b := info.Imports[i], info.Imports[j]
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		return a.Name < b.Name
	})
	for name := range compiled.ExportedFunctions() {
		info.Exports = append(info.Exports, name)
	}
	sort.Strings(info.Exports)
	return info, nil
}

func (r *Runtime) provides(module, name string) bool {
	if module == wasi_snapshot_preview1.ModuleName {
		return true
	}
	for _, t := range r.tables {
		if t.Name == module {
			return t.Has(name)
		}
	}
	return false
}
