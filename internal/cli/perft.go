package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hailam/ampersand/internal/board"
	"github.com/hailam/ampersand/internal/engine"
)

func (a *app) perftCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "perft <depth> [fen]",
		Short: "Count move paths from a position",
		Args:  cobra.MinimumNArgs(1),
		Long: heredoc.Doc(`perft counts the leaf nodes of the legal move tree for
			every depth from 1 to <depth>. The position defaults to the
			starting position; a FEN may be given unquoted.`),
		RunE: a.runPerft,
	}
}

func (a *app) runPerft(cmd *cobra.Command, args []string) error {
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 1 {
		return fmt.Errorf("perft: bad depth %q", args[0])
	}

	fen := board.StartFEN
	if len(args) > 1 {
		fen = strings.Join(args[1:], " ")
	}
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}

	eng := engine.NewEngine(a.engineOptions())
	for d := 1; d <= depth; d++ {
		start := time.Now()
		nodes := eng.Perft(pos, d)
		elapsed := time.Since(start)
		fmt.Fprintf(cmd.OutOrStdout(), "depth %d  %s nodes  %v\n", d, humanize.Comma(int64(nodes)), elapsed.Round(time.Microsecond))
	}
	return nil
}
