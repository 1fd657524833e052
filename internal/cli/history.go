package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/hailam/ampersand/internal/storage"
	"github.com/hailam/ampersand/internal/uci"
)

func (a *app) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List persisted searches",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`history prints the searches recorded while running with
			--persist, newest first, followed by totals over every
			stored search.`),
		RunE: a.runHistory,
	}
	cmd.Flags().String("fen", "", "only show searches of this position")
	cmd.Flags().Int("limit", 20, "maximum searches to show (0 for all)")
	return cmd
}

func (a *app) runHistory(cmd *cobra.Command, _ []string) error {
	fen, _ := cmd.Flags().GetString("fen")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.Records(fen, limit)
	if err != nil {
		return err
	}
	stats, err := store.Stats()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintln(out, "no searches recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tMOVE\tSCORE\tDEPTH\tNODES\tFEN")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			humanize.Time(r.At), r.BestMove, uci.FormatScore(r.Score), r.Depth, humanize.Comma(int64(r.Nodes)), r.FEN)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	positions := len(lo.UniqBy(recs, func(r storage.SearchRecord) string { return r.FEN }))
	fmt.Fprintf(out, "\nshowing %d searches of %d positions; %s searches, %s nodes, %v stored in total\n",
		len(recs), positions, humanize.Comma(int64(stats.Searches)), humanize.Comma(int64(stats.Nodes)), stats.Elapsed.Round(time.Millisecond))
	return nil
}
