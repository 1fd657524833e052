package engine

import (
	"sync/atomic"
	"time"

	"github.com/hailam/ampersand/internal/board"
)

const (
	// MateScore is the score of delivering mate at the root; a mate found
	// k plies deep scores MateScore-k.
	MateScore = 100000
	Infinity  = 1000000

	// maxDepth caps searches that have no depth limit of their own.
	maxDepth = 100000
)

type budgetKind uint8

const (
	budgetNone budgetKind = iota
	budgetDeadline
	budgetNodes
)

// Budget bounds how long one move selection may run.
type Budget struct {
	kind     budgetKind
	deadline time.Time
	nodes    uint64
}

// Unbounded never runs out; the search ends at its depth cap or on Stop.
func Unbounded() Budget { return Budget{kind: budgetNone} }

// ByDeadline runs out once the monotonic clock passes t.
func ByDeadline(t time.Time) Budget { return Budget{kind: budgetDeadline, deadline: t} }

// ByNodeCount runs out once a single iteration has visited n nodes.
func ByNodeCount(n uint64) Budget { return Budget{kind: budgetNodes, nodes: n} }

func (b Budget) exhausted(nodes uint64) bool {
	switch b.kind {
	case budgetDeadline:
		return !time.Now().Before(b.deadline)
	case budgetNodes:
		return nodes >= b.nodes
	}
	return false
}

func (b Budget) String() string {
	switch b.kind {
	case budgetDeadline:
		return "deadline " + time.Until(b.deadline).Round(time.Millisecond).String()
	case budgetNodes:
		return "nodes"
	}
	return "unbounded"
}

// SearchState belongs to a single move selection. Nodes restarts with each
// iteration; the budget and the ended flag carry across iterations, and
// ended is never cleared once set.
type SearchState struct {
	BestMove board.Move
	Nodes    uint64
	Budget   Budget

	ended bool
	stop  *atomic.Bool
}

func newSearchState(b Budget, stop *atomic.Bool) *SearchState {
	return &SearchState{BestMove: board.NoMove, Budget: b, stop: stop}
}

// Ended reports whether the budget ran out (or Stop was called) mid-search.
func (st *SearchState) Ended() bool { return st.ended }

func (st *SearchState) outOfTime() bool {
	return st.Budget.exhausted(st.Nodes) || (st.stop != nil && st.stop.Load())
}

// Searcher runs negamax over a borrowed position, undoing every move it
// makes before returning.
type Searcher struct {
	pos  *board.Position
	eval *Evaluator
}

func newSearcher(pos *board.Position, eval *Evaluator) *Searcher {
	return &Searcher{pos: pos, eval: eval}
}

func (s *Searcher) negamax(st *SearchState, depth, ply, alpha, beta int) int {
	if depth == 0 {
		return s.eval.Evaluate(s.pos)
	}
	if st.ended {
		return 0
	}
	// The shallowest layer skips the check: it only evaluates leaves.
	if depth > 1 && st.outOfTime() {
		st.ended = true
		return 0
	}

	legal := s.pos.GenerateLegalMoves()
	res := s.pos.Resolve(legal)
	switch res.Outcome {
	case board.Draw:
		// A drawn root with moves left is still searched so the caller
		// gets a move to play; it scores 0 all the same.
		if ply > 0 || legal.Len() == 0 {
			return 0
		}
	case board.Decisive:
		if res.Winner == s.pos.SideToMove {
			return MateScore - ply
		}
		return -MateScore + ply
	}

	best, bestMove := -Infinity, board.NoMove
	for _, m := range OrderMoves(s.pos, legal.Slice()) {
		undo := s.pos.MakeMove(m)
		st.Nodes++
		score := -s.negamax(st, depth-1, ply+1, -beta, -alpha)
		s.pos.UnmakeMove(m, undo)
		if st.ended {
			break
		}

		if score > best {
			best, bestMove = score, m
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}

	if ply == 0 && !st.ended {
		st.BestMove = bestMove
	}
	if res.Outcome == board.Draw {
		return 0
	}
	return best
}
