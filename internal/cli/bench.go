package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hailam/ampersand/internal/bench"
	"github.com/hailam/ampersand/internal/config"
	"github.com/hailam/ampersand/internal/uci"
)

const spinnerSet = 14

func (a *app) benchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Search a fixed set of positions",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`bench searches every position of a built-in suite to a
			fixed depth and prints the chosen moves, node counts and
			speed. Positions are searched in parallel, each by its own
			engine, so the node totals do not depend on --workers.`),
		RunE: a.runBench,
	}
	cmd.Flags().Int("depth", 5, "search depth per position")
	cmd.Flags().Int("workers", 0, "positions searched at once (default: CPU count)")
	_ = a.v.BindPFlag(config.KeyBenchDepth, cmd.Flags().Lookup("depth"))
	_ = a.v.BindPFlag(config.KeyBenchWorkers, cmd.Flags().Lookup("workers"))
	return cmd
}

func (a *app) runBench(cmd *cobra.Command, _ []string) error {
	suite, err := bench.Suite()
	if err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[spinnerSet], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = fmt.Sprintf(" searching 0/%d", len(suite))
	s.Start()
	wall := time.Now()
	out, err := bench.Run(cmd.Context(), suite, a.cfg.BenchDepth, a.cfg.BenchWorkers, a.engineOptions(), func(done int) {
		s.Lock()
		s.Suffix = fmt.Sprintf(" searching %d/%d", done, len(suite))
		s.Unlock()
	})
	s.Stop()
	if err != nil {
		return err
	}
	wallTime := time.Since(wall)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POSITION\tMOVE\tSCORE\tNODES\tTIME")
	for _, o := range out {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n", o.Name, o.SAN, uci.FormatScore(o.Score), humanize.Comma(int64(o.Nodes)), o.Time.Round(time.Millisecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	nodes, searchTime := bench.Totals(out)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s nodes in %v (%s nps per engine, %s nps overall)\n",
		humanize.Comma(int64(nodes)),
		searchTime.Round(time.Millisecond),
		humanize.Comma(rate(nodes, searchTime)),
		humanize.Comma(rate(nodes, wallTime)),
	)
	return nil
}

func rate(nodes uint64, d time.Duration) int64 {
	if d <= 0 {
		return int64(nodes)
	}
	return int64(float64(nodes) / d.Seconds())
}
