package engine

import (
	"testing"

	"github.com/matryer/is"

	"github.com/hailam/ampersand/internal/board"
)

func TestScoreMoveRanksCheapAttackerFirst(t *testing.T) {
	is := is.New(t)
	// The e4 pawn and the d1 rook can both take the queen on d5.
	pos := mustFEN(is, "4k3/8/8/3q4/4P3/8/8/3RK3 w - - 0 1")

	pxq := board.NewMove(board.E4, board.D5, board.Pawn)
	rxq := board.NewMove(board.D1, board.D5, board.Rook)
	quiet := board.NewMove(board.E1, board.F2, board.King)

	is.Equal(ScoreMove(pos, pxq), 1000+900-100)
	is.Equal(ScoreMove(pos, rxq), 1000+900-500)
	is.Equal(ScoreMove(pos, quiet), 0)
	is.Equal(ScoreMove(pos, board.PassMove), 0)

	moves := OrderMoves(pos, pos.GenerateLegalMoves().Slice())
	is.Equal(moves[0], pxq)
	is.Equal(moves[1], rxq)
}

func TestOrderMovesIsStable(t *testing.T) {
	is := is.New(t)
	pos := board.NewPosition()
	generated := append([]board.Move(nil), pos.GenerateLegalMoves().Slice()...)
	ordered := OrderMoves(pos, append([]board.Move(nil), generated...))
	is.Equal(ordered, generated) // no captures, so order is untouched
}
