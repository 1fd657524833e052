package board

import "fmt"

// Move packs a relocation into 32 bits:
//
//	bits 0-5    origin square
//	bits 6-11   destination square
//	bits 12-14  kind of the moving piece
//	bits 15-17  promotion kind (NoKind when absent)
//	bits 18-19  special flag
//
// PassMove hands the turn over without relocating anything.
type Move uint32

type moveFlag uint32

const (
	flagNone moveFlag = iota
	flagPromotion
	flagEnPassant
	flagCastle
)

const (
	NoMove   Move = 0
	PassMove Move = 1 << 31
)

func encode(from, to Square, kind, promo Kind, flag moveFlag) Move {
	return Move(from) | Move(to)<<6 | Move(kind)<<12 | Move(promo)<<15 | Move(flag)<<18
}

// NewMove builds an ordinary relocation of a piece of the given kind.
func NewMove(from, to Square, kind Kind) Move {
	return encode(from, to, kind, NoKind, flagNone)
}

func NewPromotion(from, to Square, promo Kind) Move {
	return encode(from, to, Pawn, promo, flagPromotion)
}

func NewEnPassant(from, to Square) Move {
	return encode(from, to, Pawn, NoKind, flagEnPassant)
}

// NewCastle builds a castling move expressed as the king's relocation.
func NewCastle(from, to Square) Move {
	return encode(from, to, King, NoKind, flagCastle)
}

func (m Move) From() Square      { return Square(m & 0x3F) }
func (m Move) To() Square        { return Square(m >> 6 & 0x3F) }
func (m Move) Kind() Kind        { return Kind(m >> 12 & 7) }
func (m Move) Promotion() Kind   { return Kind(m >> 15 & 7) }
func (m Move) flag() moveFlag    { return moveFlag(m >> 18 & 3) }
func (m Move) IsPass() bool      { return m == PassMove }
func (m Move) IsEnPassant() bool { return m.flag() == flagEnPassant }
func (m Move) IsCastle() bool    { return m.flag() == flagCastle }
func (m Move) IsPromotion() bool { return m.flag() == flagPromotion }

// Victim returns the kind of the opposing piece standing on the destination,
// or NoKind for a quiet move. An en passant capture lands on an empty square
// and so reports NoKind.
func (m Move) Victim(p *Position) Kind {
	if m.IsPass() || !p.Teams[p.SideToMove.Other()].Has(m.To()) {
		return NoKind
	}
	return p.KindAt(m.To())
}

// String renders the move in UCI long algebraic notation.
func (m Move) String() string {
	if m == NoMove || m.IsPass() {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += m.Promotion().String()
	}
	return s
}

// ParseMove resolves UCI notation against the legal moves of p.
func ParseMove(s string, p *Position) (Move, error) {
	legal := p.GenerateLegalMoves()
	for _, m := range legal.Slice() {
		if m.String() == s {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("illegal move %q in %s", s, p.FEN())
}

// MoveList is a fixed-capacity move buffer; no position has more than 218
// legal moves.
type MoveList struct {
	moves [256]Move
	n     int
}

func (ml *MoveList) Add(m Move) {
	ml.moves[ml.n] = m
	ml.n++
}

func (ml *MoveList) Len() int      { return ml.n }
func (ml *MoveList) At(i int) Move { return ml.moves[i] }
func (ml *MoveList) Slice() []Move { return ml.moves[:ml.n] }

func (ml *MoveList) Contains(m Move) bool {
	for _, x := range ml.Slice() {
		if x == m {
			return true
		}
	}
	return false
}
