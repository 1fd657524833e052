package engine

import (
	"testing"

	"github.com/matryer/is"

	"github.com/hailam/ampersand/internal/board"
)

func TestEvaluateIsDeterministic(t *testing.T) {
	is := is.New(t)
	eval := NewEvaluator(Options{})
	pos := mustFEN(is, kiwipete)
	first := eval.Evaluate(pos)
	for i := 0; i < 10; i++ {
		is.Equal(eval.Evaluate(pos), first)
	}
}

func TestEvaluateFromMoverPerspective(t *testing.T) {
	is := is.New(t)
	eval := NewEvaluator(Options{})

	// White is a knight up; the same board with Black to move scores the
	// negation.
	white := mustFEN(is, "4k3/8/8/8/8/8/8/3NK3 w - - 0 1")
	black := mustFEN(is, "4k3/8/8/8/8/8/8/3NK3 b - - 0 1")
	is.True(eval.Evaluate(white) > 250)
	is.Equal(eval.Evaluate(black), -eval.Evaluate(white))

	// Colour-flipped boards score the same for their mover.
	mirror := mustFEN(is, "3nk3/8/8/8/8/8/8/4K3 b - - 0 1")
	is.Equal(eval.Evaluate(mirror), eval.Evaluate(white))
}

func TestSquareTablesFavourAdvancedPawns(t *testing.T) {
	is := is.New(t)
	// A pawn one step from promotion earns the table's top bonus for
	// either colour.
	is.Equal(squareTables[board.White][board.Pawn][board.E7], 50)
	is.Equal(squareTables[board.Black][board.Pawn][board.E2], 50)
	is.Equal(squareTables[board.White][board.King][board.G1], 30)
	is.Equal(squareTables[board.Black][board.King][board.G8], 30)
}

func TestMustSquareTablePanicsOnShortTable(t *testing.T) {
	is := is.New(t)
	defer func() {
		is.True(recover() != nil)
	}()
	mustSquareTable(make([]int, 63))
	t.Fatal("short table accepted")
}

func TestEvalNoiseIsSeededAndBounded(t *testing.T) {
	is := is.New(t)
	pos := board.NewPosition()
	a := NewEvaluator(Options{EvalNoise: true, NoiseSeed: 7})
	b := NewEvaluator(Options{EvalNoise: true, NoiseSeed: 7})
	for i := 0; i < 200; i++ {
		x := a.Evaluate(pos)
		is.Equal(x, b.Evaluate(pos))
		is.True(x >= -noiseSpan/2 && x < noiseSpan/2)
	}
}
