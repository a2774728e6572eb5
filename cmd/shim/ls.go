package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/filesystem"
)

func newLsCmd(opts *options) *cobra.Command {
	var (
		recurse bool
		find    bool
	)
	cmd := &cobra.Command{
		Use:   "ls [pattern]",
		Short: "List game data the way the engine sees it",
		Long: `The ls command lists files under the game-data root that match a pattern,
exactly as getFileListInDirectory would report them to the engine.

With --find the pattern is resolved as FindFirstFile does instead, which also
reports directories.

Example:
  generals-shim ls "*.big"
  generals-shim ls --recurse "*.ini"
  generals-shim ls --find "Maps/*"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}
			return runLs(cmd, opts, pattern, recurse, find)
		},
	}
	cmd.Flags().BoolVarP(&recurse, "recurse", "r", false, "match the pattern at any depth")
	cmd.Flags().BoolVar(&find, "find", false, "resolve the pattern like FindFirstFile")
	return cmd
}

func runLs(cmd *cobra.Command, opts *options, pattern string, recurse, find bool) error {
	if err := opts.cfg.Validate(); err != nil {
		return err
	}
	fs := filesystem.New(opts.cfg.FSOptions())
	out := cmd.OutOrStdout()

	if find {
		for _, m := range fs.Glob(pattern) {
			if m.Dir {
				fmt.Fprintf(out, "%10s  %s/\n", "-", m.Path)
				continue
			}
			fmt.Fprintf(out, "%10s  %s\n", sizeOf(fs, m.Path), m.Path)
		}
		return nil
	}

	list := &filesystem.FilenameList{}
	fs.ListDirectory("", "", pattern, recurse, list)
	var total uint64
	for _, name := range list.Strings() {
		size := sizeOf(fs, name)
		if info, err := statUnder(fs, name); err == nil {
			total += uint64(info.Size())
		}
		fmt.Fprintf(out, "%10s  %s\n", size, name)
	}
	fmt.Fprintf(out, "%d files, %s\n", list.Len(), humanize.IBytes(total))
	return nil
}

func statUnder(fs *filesystem.Adapter, rel string) (os.FileInfo, error) {
	full, ok := fs.Resolve(rel)
	if !ok {
		return nil, os.ErrNotExist
	}
	return os.Stat(full)
}

func sizeOf(fs *filesystem.Adapter, rel string) string {
	info, err := statUnder(fs, rel)
	if err != nil {
		return "?"
	}
	return humanize.IBytes(uint64(info.Size()))
}
