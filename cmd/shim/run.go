package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/runtime"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <engine.wasm>",
		Short: "Load the engine module and run it to completion",
		Long: `The run command loads the engine module, checks that every function it
imports is provided, and calls GameMain (or _start).

Example:
  generals-shim run --root /games/generals generals.wasm
  GENERALS_ROOT=/games/generals generals-shim run --registry generals.reg generals.wasm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(cmd, opts, args[0])
		},
	}
}

func runEngine(cmd *cobra.Command, opts *options, path string) error {
	ctx := cmd.Context()

	wasm, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read engine: %w", err)
	}

	rt, err := runtime.New(ctx, opts.cfg)
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	if err := rt.LoadEngine(ctx, wasm); err != nil {
		return err
	}
	return rt.Start(ctx)
}
