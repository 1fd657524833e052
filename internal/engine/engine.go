package engine

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/ampersand/internal/board"
)

const (
	Name   = "Ampersand v0.0.3"
	Author = "Corman"
)

// ErrNoBestMove is the panic value when a completed iteration found no root
// move, which means the caller searched a position with no legal moves.
var ErrNoBestMove = errors.New("engine: completed search produced no best move")

// Info reports one completed iteration.
type Info struct {
	Depth int
	Score int
	Nodes uint64
	NPS   uint64
	Time  time.Duration
	PV    []board.Move
}

// Result is the outcome of a move selection. Nodes and Time total every
// completed iteration.
type Result struct {
	Move  board.Move
	Score int
	Depth int
	Nodes uint64
	Time  time.Duration
}

// Options configure an Engine.
type Options struct {
	EvalNoise bool
	NoiseSeed uint64
}

// Engine selects moves. One Engine runs one search at a time.
type Engine struct {
	opts     Options
	eval     *Evaluator
	stopFlag atomic.Bool

	// OnInfo, when set, is called after every completed iteration.
	OnInfo func(Info)
}

func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts, eval: NewEvaluator(opts)}
}

func (e *Engine) Options() Options { return e.opts }

// SetOptions replaces the options. It must not be called during a search.
func (e *Engine) SetOptions(opts Options) {
	e.opts = opts
	e.eval = NewEvaluator(opts)
}

// IsReady reports whether the engine can accept a search.
func (e *Engine) IsReady() bool { return true }

// Stop aborts the running search at its next node boundary. The search
// still returns the result of its last completed iteration.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
}

// SelectMove returns the best move found within tc and its score for the
// side to move.
func (e *Engine) SelectMove(pos *board.Position, tc TimeControl) (board.Move, int) {
	r := e.Search(pos, tc)
	return r.Move, r.Score
}

// Search runs iterative deepening on pos, which is restored before
// returning. It panics with ErrNoBestMove if pos has no legal moves.
func (e *Engine) Search(pos *board.Position, tc TimeControl) Result {
	e.stopFlag.Store(false)
	budget, depthCap := tc.plan(time.Now(), pos.SideToMove)
	st := newSearchState(budget, &e.stopFlag)
	s := newSearcher(pos, e.eval)

	log.Debug().Str("fen", pos.FEN()).Stringer("control", tc).Msg("search-start")

	var res Result
	for depth := 1; depth <= depthCap; depth++ {
		st.Nodes = 0
		began := time.Now()
		score := s.negamax(st, depth, 0, -Infinity, Infinity)
		if st.ended {
			log.Debug().Int("depth", depth).Uint64("nodes", st.Nodes).Msg("iteration-abandoned")
			break
		}
		if st.BestMove == board.NoMove {
			panic(ErrNoBestMove)
		}
		elapsed := time.Since(began)

		res.Move, res.Score, res.Depth = st.BestMove, score, depth
		res.Nodes += st.Nodes
		res.Time += elapsed

		if e.OnInfo != nil {
			e.OnInfo(Info{
				Depth: depth,
				Score: score,
				Nodes: st.Nodes,
				NPS:   nodesPerSecond(st.Nodes, elapsed),
				Time:  elapsed,
				PV:    []board.Move{st.BestMove},
			})
		}
	}

	log.Debug().
		Str("move", res.Move.String()).
		Int("score", res.Score).
		Int("depth", res.Depth).
		Uint64("nodes", res.Nodes).
		Dur("time", res.Time).
		Msg("search-done")
	return res
}

// nodesPerSecond divides by at least one millisecond.
func nodesPerSecond(nodes uint64, elapsed time.Duration) uint64 {
	ms := uint64(elapsed.Milliseconds())
	if ms < 1 {
		ms = 1
	}
	return nodes * 1000 / ms
}

// Evaluate returns the static score of pos for the side to move.
func (e *Engine) Evaluate(pos *board.Position) int {
	return e.eval.Evaluate(pos)
}

// Perft counts legal move paths to depth.
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return board.Perft(pos, depth)
}

// MateIn converts a mate score to a signed move count: positive when the
// side to move mates. It reports false for ordinary scores.
func MateIn(score int) (int, bool) {
	switch {
	case score > MateScore-maxMatePly:
		return (MateScore - score + 1) / 2, true
	case score < -MateScore+maxMatePly:
		return -(MateScore + score + 1) / 2, true
	}
	return 0, false
}

// maxMatePly bounds the mate distance MateIn recognises.
const maxMatePly = 1000
