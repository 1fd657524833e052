// Package engine chooses moves: an iterative-deepening driver over a
// negamax alpha-beta searcher, with capture-first move ordering and a
// material plus piece-square evaluator.
package engine

import (
	"encoding/binary"
	"fmt"

	"lukechampine.com/frand"

	"github.com/hailam/ampersand/internal/board"
)

// Material values in centipawns. The king carries no material since both
// sides always have exactly one.
var pieceValues = [board.NoKind + 1]int{
	board.Pawn:   100,
	board.Knight: 325,
	board.Bishop: 350,
	board.Rook:   500,
	board.Queen:  900,
	board.King:   0,
	board.NoKind: 0,
}

// Piece-square tables are written as a board diagram: the first row is
// rank 8, the last row rank 1. Indexed directly by square they describe
// Black's pieces; White reads the row-mirrored copy.

var pawnTable = mustSquareTable([]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
})

var knightTable = mustSquareTable([]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
})

var bishopTable = mustSquareTable([]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
})

var rookTable = mustSquareTable([]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
})

var queenTable = mustSquareTable([]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
})

var kingTable = mustSquareTable([]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
})

// squareTables[color][kind][square]
var squareTables [2][6][64]int

func init() {
	authored := [6][64]int{pawnTable, knightTable, bishopTable, rookTable, queenTable, kingTable}
	for k := range authored {
		squareTables[board.Black][k] = authored[k]
		for sq := board.A1; sq <= board.H8; sq++ {
			squareTables[board.White][k][sq] = authored[k][sq.Flip()]
		}
	}
}

// mustSquareTable converts a 64-entry slice to a fixed table, panicking on
// malformed static data.
func mustSquareTable(values []int) [64]int {
	if len(values) != 64 {
		panic(fmt.Sprintf("engine: square table has %d entries, want 64", len(values)))
	}
	return [64]int(values)
}

const noiseSpan = 40 // noise lies in [-noiseSpan/2, noiseSpan/2)

// Evaluator scores positions statically. It is not safe for concurrent use
// when noise is enabled.
type Evaluator struct {
	noise *frand.RNG
}

// NewEvaluator returns a deterministic evaluator, or one that perturbs every
// score with seeded noise when opts.EvalNoise is set.
func NewEvaluator(opts Options) *Evaluator {
	e := &Evaluator{}
	if opts.EvalNoise {
		var seed [32]byte
		binary.LittleEndian.PutUint64(seed[:], opts.NoiseSeed)
		e.noise = frand.NewCustom(seed[:], 0, 0)
	}
	return e
}

// Evaluate returns the score of pos for the side to move.
func (e *Evaluator) Evaluate(pos *board.Position) int {
	us := pos.SideToMove
	them := us.Other()

	score := 0
	for _, k := range board.AllKinds {
		own := pos.Pieces(us, k)
		opp := pos.Pieces(them, k)
		score += pieceValues[k] * (own.Count() - opp.Count())
		for own != 0 {
			score += squareTables[us][k][own.Pop()]
		}
		for opp != 0 {
			score -= squareTables[them][k][opp.Pop()]
		}
	}

	if e.noise != nil {
		score += e.noise.Intn(noiseSpan) - noiseSpan/2
	}
	return score
}
