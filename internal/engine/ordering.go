package engine

import (
	"sort"

	"github.com/hailam/ampersand/internal/board"
)

// captureBase lifts every capture above every quiet move.
const captureBase = 1000

// ScoreMove ranks a move for search order: captures of valuable pieces by
// cheap ones first, everything else at zero.
func ScoreMove(pos *board.Position, m board.Move) int {
	if m.IsPass() {
		return 0
	}
	victim := m.Victim(pos)
	if victim == board.NoKind {
		return 0
	}
	return captureBase + pieceValues[victim] - pieceValues[m.Kind()]
}

type scoredMove struct {
	move  board.Move
	score int
}

// OrderMoves sorts moves in place, best first. Equal scores keep their
// generation order so searches are reproducible.
func OrderMoves(pos *board.Position, moves []board.Move) []board.Move {
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{move: m, score: ScoreMove(pos, m)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	for i := range scored {
		moves[i] = scored[i].move
	}
	return moves
}
