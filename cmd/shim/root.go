package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/abi"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/bridge"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/config"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/filesystem"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/hostapi"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/registry"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/runtime"
)

// options holds the global flags. Flags left unset fall back to the
// GENERALS_* environment.
type options struct {
	root          string
	marker        string
	registryFile  string
	logLevel      string
	strictListing bool
	logJSON       bool
	memoryPages   uint32

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "generals-shim",
		Short: "Run the Generals engine on the Win32 compatibility shim",
		Long: `generals-shim hosts the Generals engine, compiled to WebAssembly, on an
emulation of the Win32 calls it makes. Engine paths resolve under the game-data
root, registry reads are served from an in-memory store, and each engine
subsystem is either overridden or forwarded to the engine's own implementation.

Every flag can also be set through its GENERALS_* environment variable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.root, "root", "", "game-data root ("+config.EnvRoot+")")
	flags.StringVar(&opts.marker, "marker", filesystem.DefaultMarker, "file expected under the root ("+config.EnvMarker+")")
	flags.StringVar(&opts.registryFile, "registry", "", ".reg file seeding the registry ("+config.EnvRegistry+")")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level ("+config.EnvLogLevel+")")
	flags.BoolVar(&opts.strictListing, "strict-listing", false, "fail listings on unreadable entries ("+config.EnvStrictListing+")")
	flags.BoolVar(&opts.logJSON, "log-json", false, "JSON log output ("+config.EnvLogJSON+")")
	flags.Uint32Var(&opts.memoryPages, "memory-pages", 0, "engine memory limit in 64KiB pages")

	cmd.AddCommand(
		newRunCmd(opts),
		newLsCmd(opts),
		newRegCmd(opts),
		newStatCmd(opts),
		newInspectCmd(opts),
	)
	return cmd
}

// setup builds the configuration from the environment and the flags that
// were set, then installs the process logger in every package.
func (o *options) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if err := cfg.LoadEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = o.root
	}
	if flags.Changed("marker") {
		cfg.Marker = o.marker
	}
	if flags.Changed("registry") {
		cfg.RegistryFile = o.registryFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("strict-listing") {
		cfg.StrictListing = o.strictListing
	}
	if flags.Changed("log-json") {
		cfg.LogJSON = o.logJSON
	}
	cfg.MemoryLimitPages = o.memoryPages

	log, err := config.NewLogger(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		return err
	}
	setLoggers(log)

	o.cfg = cfg
	o.log = log
	return nil
}

func setLoggers(l *zap.Logger) {
	errors.SetLogger(l.Named("abort"))
	handle.SetLogger(l.Named("handle"))
	registry.SetLogger(l.Named("registry"))
	filesystem.SetLogger(l.Named("filesystem"))
	hostapi.SetLogger(l)
	bridge.SetLogger(l)
	abi.SetLogger(l.Named("abi"))
	runtime.SetLogger(l)
}
