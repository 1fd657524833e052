// Package bench runs fixed-depth searches over a built-in position suite.
package bench

import (
	"context"
	_ "embed"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/hailam/ampersand/internal/board"
	"github.com/hailam/ampersand/internal/engine"
)

//go:embed suite.yaml
var suiteYAML []byte

type Position struct {
	Name string `yaml:"name"`
	FEN  string `yaml:"fen"`
}

// Outcome is the result of searching one suite position.
type Outcome struct {
	Position
	Move  string
	SAN   string
	Score int
	Depth int
	Nodes uint64
	Time  time.Duration
}

// Suite returns the embedded positions.
func Suite() ([]Position, error) {
	var suite []Position
	if err := yaml.Unmarshal(suiteYAML, &suite); err != nil {
		return nil, fmt.Errorf("bench: suite: %w", err)
	}
	return suite, nil
}

// Run searches every position to depth, using up to workers goroutines
// with one engine each. progress, if set, is called after each position
// with the number finished so far. Outcomes keep suite order.
func Run(ctx context.Context, suite []Position, depth, workers int, opts engine.Options, progress func(done int)) ([]Outcome, error) {
	out := make([]Outcome, len(suite))
	var finished atomic.Int32

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, p := range suite {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o, err := searchOne(p, depth, opts)
			if err != nil {
				return err
			}
			out[i] = o
			log.Debug().Str("position", p.Name).Str("move", o.Move).Uint64("nodes", o.Nodes).Msg("bench-position-done")
			if progress != nil {
				progress(int(finished.Add(1)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func searchOne(p Position, depth int, opts engine.Options) (Outcome, error) {
	pos, err := board.ParseFEN(p.FEN)
	if err != nil {
		return Outcome{}, fmt.Errorf("bench: %s: %w", p.Name, err)
	}
	if !pos.HasLegalMoves() {
		return Outcome{}, fmt.Errorf("bench: %s: no legal moves", p.Name)
	}

	res := engine.NewEngine(opts).Search(pos, engine.Depth(depth))
	return Outcome{
		Position: p,
		Move:     res.Move.String(),
		SAN:      res.Move.SAN(pos),
		Score:    res.Score,
		Depth:    res.Depth,
		Nodes:    res.Nodes,
		Time:     res.Time,
	}, nil
}

// Totals sums nodes and search time over outcomes.
func Totals(outcomes []Outcome) (uint64, time.Duration) {
	nodes := lo.SumBy(outcomes, func(o Outcome) uint64 { return o.Nodes })
	elapsed := lo.SumBy(outcomes, func(o Outcome) time.Duration { return o.Time })
	return nodes, elapsed
}
