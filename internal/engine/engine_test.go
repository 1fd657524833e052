package engine

import (
	"os"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/hailam/ampersand/internal/board"
)

const (
	kiwipete  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	backRank  = "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1" // Ra8 mates
	mated     = "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1"
	stalemate = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func mustFEN(is *is.I, fen string) *board.Position {
	pos, err := board.ParseFEN(fen)
	is.NoErr(err)
	return pos
}

func TestSelectMoveFindsMateInOne(t *testing.T) {
	is := is.New(t)
	pos := mustFEN(is, backRank)

	move, score := NewEngine(Options{}).SelectMove(pos, Depth(3))
	is.Equal(move.String(), "a1a8")
	is.Equal(score, MateScore-1)
}

func TestSearchRestoresPosition(t *testing.T) {
	is := is.New(t)
	pos := mustFEN(is, kiwipete)
	before := *pos

	NewEngine(Options{}).Search(pos, Depth(3))
	is.Equal(*pos, before)
	is.Equal(pos.FEN(), kiwipete)
}

func TestMatedRootScoresByPly(t *testing.T) {
	is := is.New(t)
	pos := mustFEN(is, mated)
	s := newSearcher(pos, NewEvaluator(Options{}))

	for _, ply := range []int{0, 1, 4} {
		st := newSearchState(Unbounded(), nil)
		score := s.negamax(st, 3, ply, -Infinity, Infinity)
		is.Equal(score, -MateScore+ply)
		is.Equal(st.BestMove, board.NoMove)
	}

	st := newSearchState(Unbounded(), nil)
	is.Equal(newSearcher(mustFEN(is, stalemate), s.eval).negamax(st, 2, 0, -Infinity, Infinity), 0)
}

func TestSearchPanicsWithoutLegalMoves(t *testing.T) {
	is := is.New(t)
	pos := mustFEN(is, mated)
	defer func() {
		is.Equal(recover(), ErrNoBestMove)
	}()
	NewEngine(Options{}).Search(pos, Depth(2))
	t.Fatal("search of a finished game returned")
}

// fullWidth is negamax without pruning; alpha-beta must agree with it.
func fullWidth(pos *board.Position, eval *Evaluator, depth, ply int) int {
	if depth == 0 {
		return eval.Evaluate(pos)
	}
	legal := pos.GenerateLegalMoves()
	switch res := pos.Resolve(legal); res.Outcome {
	case board.Draw:
		return 0
	case board.Decisive:
		if res.Winner == pos.SideToMove {
			return MateScore - ply
		}
		return -MateScore + ply
	}
	best := -Infinity
	for _, m := range legal.Slice() {
		undo := pos.MakeMove(m)
		best = max(best, -fullWidth(pos, eval, depth-1, ply+1))
		pos.UnmakeMove(m, undo)
	}
	return best
}

func TestAlphaBetaMatchesFullWidth(t *testing.T) {
	is := is.New(t)
	eval := NewEvaluator(Options{})
	for _, fen := range []string{board.StartFEN, kiwipete, backRank, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"} {
		for depth := 1; depth <= 3; depth++ {
			pos := mustFEN(is, fen)

			// full-width value of every root move
			values := map[board.Move]int{}
			want := -Infinity
			for _, m := range pos.GenerateLegalMoves().Slice() {
				undo := pos.MakeMove(m)
				values[m] = -fullWidth(pos, eval, depth-1, 1)
				pos.UnmakeMove(m, undo)
				want = max(want, values[m])
			}
			is.Equal(fullWidth(pos, eval, depth, 0), want)

			st := newSearchState(Unbounded(), nil)
			got := newSearcher(pos, eval).negamax(st, depth, 0, -Infinity, Infinity)
			is.Equal(got, want)                // pruned and unpruned scores differ
			is.Equal(values[st.BestMove], want) // pruned search chose a move worse than the best
		}
	}
}

func TestAlphaBetaChoosesUniqueBestMove(t *testing.T) {
	is := is.New(t)
	eval := NewEvaluator(Options{})
	for depth := 1; depth <= 3; depth++ {
		pos := mustFEN(is, backRank)
		st := newSearchState(Unbounded(), nil)
		newSearcher(pos, eval).negamax(st, depth, 0, -Infinity, Infinity)
		is.Equal(st.BestMove.String(), "a1a8")
	}
}

func TestDepthOneFromStart(t *testing.T) {
	is := is.New(t)
	pos := board.NewPosition()
	eval := NewEvaluator(Options{})
	is.Equal(eval.Evaluate(pos), 0) // symmetric position

	want := -Infinity
	for _, m := range pos.GenerateLegalMoves().Slice() {
		undo := pos.MakeMove(m)
		want = max(want, -eval.Evaluate(pos))
		pos.UnmakeMove(m, undo)
	}

	move, score := NewEngine(Options{}).SelectMove(pos, Depth(1))
	is.True(pos.GenerateLegalMoves().Contains(move))
	is.Equal(score, want)
}

func TestIterationsReportGrowingNodeCounts(t *testing.T) {
	is := is.New(t)
	var infos []Info
	e := NewEngine(Options{})
	e.OnInfo = func(i Info) { infos = append(infos, i) }

	res := e.Search(board.NewPosition(), Depth(4))
	is.Equal(len(infos), 4)
	is.Equal(res.Depth, 4)

	var total uint64
	for i, info := range infos {
		is.Equal(info.Depth, i+1)
		is.Equal(len(info.PV), 1)
		if i > 0 {
			is.True(info.Nodes > infos[i-1].Nodes)
		}
		total += info.Nodes
	}
	is.Equal(infos[0].Nodes, uint64(20))
	is.Equal(res.Nodes, total)
	is.Equal(res.Move, infos[3].PV[0])
}

func TestNodeBudgetStopsSearch(t *testing.T) {
	is := is.New(t)
	const budget = 20000
	var infos []Info
	e := NewEngine(Options{})
	e.OnInfo = func(i Info) { infos = append(infos, i) }

	pos := board.NewPosition()
	res := e.Search(pos, Nodes(budget))
	is.True(res.Depth >= 2)
	is.True(res.Depth < 10)
	is.True(pos.GenerateLegalMoves().Contains(res.Move))
	for _, info := range infos {
		// The check runs above the last two layers, so an iteration can
		// only overshoot by what those layers add.
		is.True(info.Nodes < budget+2000)
	}
}

// A node budget is checked before expanding any node two or more plies
// above the leaves, so the iteration it cuts short overshoots by at most
// one such subtree: the node's moves plus the replies to each.
func TestNodeBudgetBoundsAbortedIteration(t *testing.T) {
	is := is.New(t)
	const budget = 20000
	const granularity = 64 + 64*64 // no position near the start has 64 moves

	for _, fen := range []string{board.StartFEN, kiwipete} {
		pos := mustFEN(is, fen)
		st := newSearchState(ByNodeCount(budget), nil)
		newSearcher(pos, NewEvaluator(Options{})).negamax(st, 8, 0, -Infinity, Infinity)

		is.True(st.Ended())
		is.Equal(st.BestMove, board.NoMove) // aborted iterations name no move
		is.True(st.Nodes >= budget)
		is.True(st.Nodes <= budget+granularity)
		is.Equal(pos.FEN(), fen)
	}
}

func TestDrawnRootStillChoosesMove(t *testing.T) {
	is := is.New(t)
	for _, fen := range []string{
		"8/8/8/4k3/8/8/8/4K2N w - - 0 1",    // insufficient material
		"4k3/8/8/8/8/8/4P3/4K3 w - - 100 80", // fifty-move rule
	} {
		pos := mustFEN(is, fen)
		is.Equal(pos.Resolve(pos.GenerateLegalMoves()).Outcome, board.Draw)

		move, score := NewEngine(Options{}).SelectMove(pos, Depth(2))
		is.True(pos.GenerateLegalMoves().Contains(move))
		is.Equal(score, 0)
	}
}

func TestStopEndsInfiniteSearch(t *testing.T) {
	is := is.New(t)
	e := NewEngine(Options{})
	pos := board.NewPosition()

	done := make(chan Result)
	go func() { done <- e.Search(pos, Infinite()) }()
	time.Sleep(50 * time.Millisecond)
	e.Stop()

	select {
	case res := <-done:
		is.True(res.Depth >= 1)
		is.True(pos.GenerateLegalMoves().Contains(res.Move))
	case <-time.After(5 * time.Second):
		t.Fatal("search ignored Stop")
	}
}

func TestMoveTimeReturnsInTime(t *testing.T) {
	is := is.New(t)
	start := time.Now()
	move, _ := NewEngine(Options{}).SelectMove(board.NewPosition(), MoveTime(100*time.Millisecond))
	is.True(move != board.NoMove)
	is.True(time.Since(start) < 2*time.Second)
}

func TestTimeControlPlans(t *testing.T) {
	is := is.New(t)
	now := time.Now()

	b, depth := Depth(7).plan(now, board.White)
	is.Equal(b.kind, budgetNone)
	is.Equal(depth, 7)

	b, depth = MoveTime(250*time.Millisecond).plan(now, board.White)
	is.Equal(b.deadline, now.Add(250*time.Millisecond))
	is.Equal(depth, maxDepth)

	b, _ = Nodes(500).plan(now, board.Black)
	is.Equal(b.kind, budgetNodes)
	is.Equal(b.nodes, uint64(500))

	clock := Clock(
		[2]time.Duration{60 * time.Second, 30 * time.Second},
		[2]time.Duration{2 * time.Second, time.Second},
	)
	b, _ = clock.plan(now, board.White)
	is.Equal(b.deadline, now.Add(4500*time.Millisecond))
	b, _ = clock.plan(now, board.Black)
	is.Equal(b.deadline, now.Add(2250*time.Millisecond))

	b, depth = Infinite().plan(now, board.White)
	is.Equal(b.kind, budgetNone)
	is.Equal(depth, maxDepth)
}

func TestMateIn(t *testing.T) {
	is := is.New(t)
	n, ok := MateIn(MateScore - 1)
	is.True(ok)
	is.Equal(n, 1)
	n, ok = MateIn(-MateScore + 2)
	is.True(ok)
	is.Equal(n, -1)
	_, ok = MateIn(350)
	is.True(!ok)
}
