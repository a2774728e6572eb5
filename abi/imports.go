package abi

import (
	"sort"

	"github.com/tetratelabs/wazero"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

// CheckImports reports every function compiled imports that no table
// provides. Modules named in external are satisfied elsewhere and skipped.
func CheckImports(compiled wazero.CompiledModule, tables []*VTable, external ...string) error {
	byName := make(map[string]*VTable, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}
	skip := make(map[string]bool, len(external))
	for _, m := range external {
		skip[m] = true
	}

	var missing []string
	for _, fn := range compiled.ImportedFunctions() {
		mod, name, _ := fn.Import()
		if skip[mod] {
			continue
		}
		if t, ok := byName[mod]; ok && t.Has(name) {
			continue
		}
		missing = append(missing, mod+"#"+name)
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return errors.NewMissingImportsError(missing)
}
