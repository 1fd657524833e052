package cli

import (
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hailam/ampersand/internal/config"
	"github.com/hailam/ampersand/internal/engine"
	"github.com/hailam/ampersand/internal/uci"
)

func (a *app) uciCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uci",
		Short: "Run the UCI protocol loop",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`uci reads UCI commands from stdin and answers on stdout.
			Logs go to stderr so they never mix with protocol output.

			With --persist, every finished search and option change is
			stored in the data directory and read back on the next start.`),
		RunE: a.runUCI,
	}
}

func (a *app) runUCI(cmd *cobra.Command, _ []string) error {
	eng := engine.NewEngine(a.engineOptions())
	protocol := uci.New(eng, os.Stdin, os.Stdout)

	if a.cfg.Persist {
		store, err := a.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		prefs, err := store.LoadPreferences()
		if err != nil {
			return err
		}
		// flags given on this run beat stored preferences
		if cmd.Flags().Changed(config.KeyEvalNoise) {
			prefs.EvalNoise = a.cfg.EvalNoise
		}
		if cmd.Flags().Changed(config.KeyNoiseSeed) {
			prefs.NoiseSeed = a.cfg.NoiseSeed
		}
		protocol.UseStore(store, prefs)
		log.Info().Str("dir", a.cfg.DataDir).Msg("persistence-enabled")
	}

	return protocol.Run()
}
