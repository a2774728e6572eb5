package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/registry"
)

func newRegCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reg [key]",
		Short: "Show the registry the engine will see",
		Long: `The reg command seeds a registry store from the --registry file and prints
the keys and values under key, or under every emulated root when no key is
given. Keys are matched case-insensitively.

Example:
  generals-shim reg --registry generals.reg
  generals-shim reg --registry generals.reg 'HKEY_LOCAL_MACHINE\SOFTWARE\Electronic Arts'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReg(cmd, opts, args)
		},
	}
}

func runReg(cmd *cobra.Command, opts *options, args []string) error {
	store := registry.NewStore()
	if opts.cfg.RegistryFile != "" {
		stats, err := store.LoadFile(opts.cfg.RegistryFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "; %d keys, %d values, %d skipped\n", stats.Keys, stats.Values, stats.Skipped)
	}

	var keys []*registry.Key
	if len(args) == 0 {
		keys = []*registry.Key{
			store.Open(registry.CurrentUser, ""),
			store.Open(registry.LocalMachine, ""),
		}
	} else {
		rootName, sub, _ := strings.Cut(strings.ReplaceAll(args[0], "/", `\`), `\`)
		root, ok := registry.ParseRoot(rootName)
		if !ok || !root.Supported() {
			return fmt.Errorf("unknown or unemulated root %q", rootName)
		}
		k := store.Open(root, sub)
		if !k.Exists() {
			return fmt.Errorf("key %s not found", args[0])
		}
		keys = []*registry.Key{k}
	}

	for _, k := range keys {
		printKey(cmd.OutOrStdout(), k)
	}
	return nil
}

var regEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// printKey writes k and everything below it in .reg layout.
func printKey(w io.Writer, k *registry.Key) {
	name := k.Root().String()
	if p := k.Path(); p != "" {
		name += `\` + p
	}
	fmt.Fprintf(w, "\n[%s]\n", name)
	for _, v := range k.ValueNames() {
		val, err := k.Query(v)
		if err != nil {
			continue
		}
		label := `"` + v + `"`
		if v == "" {
			label = "@"
		}
		switch val.Type {
		case registry.TypeDWORD:
			fmt.Fprintf(w, "%s=dword:%08x\n", label, val.DWORD)
		default:
			fmt.Fprintf(w, "%s=\"%s\"\n", label, regEscaper.Replace(val.Str))
		}
	}
	for _, sub := range k.Subkeys() {
		printKey(w, k.Open(sub))
	}
}
