package board

// Outcome classifies a position for the player to move.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Draw
	Decisive
)

// Result is the resolved game status; Winner is only meaningful when the
// outcome is Decisive.
type Result struct {
	Outcome Outcome
	Winner  Color
}

// Win returns a decisive result in favour of c.
func Win(c Color) Result { return Result{Outcome: Decisive, Winner: c} }

func (r Result) String() string {
	switch r.Outcome {
	case Draw:
		return "1/2-1/2"
	case Decisive:
		if r.Winner == White {
			return "1-0"
		}
		return "0-1"
	}
	return "*"
}

// Resolve classifies p given the legal moves available to the side to move.
// No legal moves is checkmate when in check and stalemate otherwise; the
// fifty-move rule and dead material also end the game as drawn.
func (p *Position) Resolve(legal *MoveList) Result {
	if legal.Len() == 0 {
		if p.InCheck() {
			return Win(p.SideToMove.Other())
		}
		return Result{Outcome: Draw}
	}
	if p.HalfMoveClock >= 100 || p.insufficientMaterial() {
		return Result{Outcome: Draw}
	}
	return Result{Outcome: Ongoing}
}

// insufficientMaterial covers bare kings, a single minor piece, and
// bishops that all stand on one square colour.
func (p *Position) insufficientMaterial() bool {
	if p.Kinds[Pawn]|p.Kinds[Rook]|p.Kinds[Queen] != 0 {
		return false
	}
	minors := p.Kinds[Knight] | p.Kinds[Bishop]
	if minors.Count() <= 1 {
		return true
	}
	if p.Kinds[Knight] != 0 {
		return false
	}
	bishops := p.Kinds[Bishop]
	return bishops&lightSquares == 0 || bishops&^lightSquares == 0
}
