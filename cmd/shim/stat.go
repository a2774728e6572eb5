package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/runtime"
)

func newStatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stat <engine.wasm>",
		Short: "Report which engine imports the shim provides",
		Long: `The stat command compiles the engine module without running it and resolves
every imported function against the shim. It fails when any import is missing.

Example:
  generals-shim stat generals.wasm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, size, err := inspectEngine(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}
			printStat(cmd.OutOrStdout(), args[0], size, info)
			if missing := info.Missing(); len(missing) > 0 {
				return fmt.Errorf("%d unresolved imports", len(missing))
			}
			return nil
		},
	}
}

// inspectEngine resolves the imports of the module at path. The game-data
// root is not touched, so it defaults to the working directory.
func inspectEngine(ctx context.Context, opts *options, path string) (*runtime.EngineInfo, int, error) {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read engine: %w", err)
	}

	cfg := *opts.cfg
	if cfg.Root == "" {
		cfg.Root = "."
	}
	cfg.RegistryFile = ""

	rt, err := runtime.New(ctx, &cfg)
	if err != nil {
		return nil, 0, err
	}
	defer rt.Close(ctx)

	info, err := rt.Inspect(ctx, wasm)
	return info, len(wasm), err
}

type moduleCount struct {
	name     string
	total    int
	provided int
	missing  []string
}

func countByModule(info *runtime.EngineInfo) []*moduleCount {
	var out []*moduleCount
	for _, imp := range info.Imports {
		if len(out) == 0 || out[len(out)-1].name != imp.Module {
			out = append(out, &moduleCount{name: imp.Module})
		}
		c := out[len(out)-1]
		c.total++
		if imp.Provided {
			c.provided++
		} else {
			c.missing = append(c.missing, imp.Name)
		}
	}
	return out
}

func printStat(w io.Writer, path string, size int, info *runtime.EngineInfo) {
	memory := "imported"
	if info.Memory {
		memory = "exported"
	}
	fmt.Fprintf(w, "Engine:  %s (%s)\n", path, humanize.IBytes(uint64(size)))
	fmt.Fprintf(w, "Memory:  %s\n", memory)
	fmt.Fprintf(w, "Exports: %s\n", humanize.Comma(int64(len(info.Exports))))
	fmt.Fprintf(w, "Imports: %s (%d missing)\n", humanize.Comma(int64(len(info.Imports))), len(info.Missing()))

	for _, c := range countByModule(info) {
		fmt.Fprintf(w, "  %-24s %d/%d\n", c.name, c.provided, c.total)
		for _, name := range c.missing {
			fmt.Fprintf(w, "    missing %s\n", name)
		}
	}
}
