// Package cli defines the ampersand command tree.
package cli

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hailam/ampersand/internal/config"
	"github.com/hailam/ampersand/internal/engine"
	"github.com/hailam/ampersand/internal/storage"
)

// app carries state shared by the subcommands once flags are parsed.
type app struct {
	v       *viper.Viper
	cfg     config.Config
	profile *os.File
}

func Root() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "ampersand",
		Short: "A UCI chess engine",
		Long: heredoc.Doc(`ampersand is a small alpha-beta chess engine that speaks
			the Universal Chess Interface on stdin and stdout.

			Run without a subcommand to start the UCI loop. Settings
			come from flags, AMPERSAND_* environment variables, or an
			ampersand.yaml in the working directory or the user config
			directory, in that order of precedence.`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
		RunE:               a.runUCI,
	}
	root.Version = engine.Name

	flags := root.PersistentFlags()
	flags.String(config.KeyLogLevel, "info", "log level (trace, debug, info, warn, error, disabled)")
	flags.String(config.KeyDataDir, "", "directory for persisted data")
	flags.Bool(config.KeyPersist, false, "record searches and options in the data directory")
	flags.Bool(config.KeyEvalNoise, false, "add seeded noise to the evaluation")
	flags.Uint64(config.KeyNoiseSeed, 0, "seed for evaluation noise")
	flags.String("cpuprofile", "", "write a CPU profile to `file`")
	for _, key := range []string{config.KeyLogLevel, config.KeyDataDir, config.KeyPersist, config.KeyEvalNoise, config.KeyNoiseSeed} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(a.uciCommand())
	root.AddCommand(a.benchCommand())
	root.AddCommand(a.perftCommand())
	root.AddCommand(a.historyCommand())
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Debug().Interface("config", cfg).Msg("config-loaded")

	if path, _ := cmd.Flags().GetString("cpuprofile"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("cpuprofile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("cpuprofile: %w", err)
		}
		a.profile = f
		log.Info().Str("file", path).Msg("cpu-profile-started")
	}
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	if a.profile == nil {
		return nil
	}
	pprof.StopCPUProfile()
	return a.profile.Close()
}

func (a *app) engineOptions() engine.Options {
	return engine.Options{EvalNoise: a.cfg.EvalNoise, NoiseSeed: a.cfg.NoiseSeed}
}

func (a *app) openStore() (*storage.Storage, error) {
	return storage.Open(a.cfg.DataDir)
}
