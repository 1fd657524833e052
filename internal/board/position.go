package board

import (
	"fmt"
	"strings"
)

// CastlingRights is a set of the four castling options.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling CastlingRights = 0
)

func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, ch := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// castleRule describes one castling option in terms of squares.
type castleRule struct {
	right        CastlingRights
	color        Color
	king, kingTo Square
	rook, rookTo Square
	clear        Bitboard // squares that must be empty
	safe         Bitboard // squares the king may not cross under attack
}

var castleRules = [4]castleRule{
	{WhiteKingSide, White, E1, G1, H1, F1, Bit(F1) | Bit(G1), Bit(E1) | Bit(F1) | Bit(G1)},
	{WhiteQueenSide, White, E1, C1, A1, D1, Bit(B1) | Bit(C1) | Bit(D1), Bit(E1) | Bit(D1) | Bit(C1)},
	{BlackKingSide, Black, E8, G8, H8, F8, Bit(F8) | Bit(G8), Bit(E8) | Bit(F8) | Bit(G8)},
	{BlackQueenSide, Black, E8, C8, A8, D8, Bit(B8) | Bit(C8) | Bit(D8), Bit(E8) | Bit(D8) | Bit(C8)},
}

// keepRights[sq] is ANDed into the rights whenever a move touches sq.
var keepRights [64]CastlingRights

func init() {
	for i := range keepRights {
		keepRights[i] = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
	}
	for _, r := range castleRules {
		keepRights[r.king] &^= r.right
		keepRights[r.rook] &^= r.right
	}
}

// Position is a full game state. Teams holds each side's occupancy and
// Kinds holds every piece of a kind regardless of colour; a piece is the
// intersection of the two.
type Position struct {
	Teams [2]Bitboard
	Kinds [6]Bitboard

	SideToMove     Color
	Castling       CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int

	Hash     uint64
	Checkers Bitboard
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// Copy returns an independent copy of p.
func (p *Position) Copy() *Position {
	c := *p
	return &c
}

func (p *Position) Occupied() Bitboard { return p.Teams[White] | p.Teams[Black] }

// Pieces returns the squares holding pieces of kind k and colour c.
func (p *Position) Pieces(c Color, k Kind) Bitboard { return p.Teams[c] & p.Kinds[k] }

func (p *Position) KingSquare(c Color) Square { return p.Pieces(c, King).First() }

func (p *Position) InCheck() bool { return p.Checkers != 0 }

// KindAt returns the kind on sq, or NoKind for an empty square.
func (p *Position) KindAt(sq Square) Kind {
	for _, k := range AllKinds {
		if p.Kinds[k].Has(sq) {
			return k
		}
	}
	return NoKind
}

func (p *Position) PieceAt(sq Square) Piece {
	k := p.KindAt(sq)
	if k == NoKind {
		return NoPiece
	}
	c := White
	if p.Teams[Black].Has(sq) {
		c = Black
	}
	return Piece{Kind: k, Color: c}
}

func (p *Position) put(c Color, k Kind, sq Square) {
	p.Teams[c] |= Bit(sq)
	p.Kinds[k] |= Bit(sq)
	p.Hash ^= pieceKeys[c][k][sq]
}

func (p *Position) remove(c Color, k Kind, sq Square) {
	p.Teams[c] &^= Bit(sq)
	p.Kinds[k] &^= Bit(sq)
	p.Hash ^= pieceKeys[c][k][sq]
}

// UndoInfo restores a position to its state before MakeMove.
type UndoInfo struct {
	prev     Position
	Captured Kind
}

// MakeMove applies a pseudo-legal move (or a pass) and returns the token
// that UnmakeMove needs to revert it.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{prev: *p, Captured: NoKind}
	us, them := p.SideToMove, p.SideToMove.Other()

	if p.EnPassant != NoSquare {
		p.Hash ^= epKeys[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}

	if m.IsPass() {
		p.HalfMoveClock++
		p.finishTurn(us)
		return undo
	}

	from, to, kind := m.From(), m.To(), m.Kind()
	switch {
	case m.IsEnPassant():
		captured := to - 8
		if us == Black {
			captured = to + 8
		}
		p.remove(them, Pawn, captured)
		undo.Captured = Pawn
	case p.Teams[them].Has(to):
		undo.Captured = p.KindAt(to)
		p.remove(them, undo.Captured, to)
	}

	p.remove(us, kind, from)
	if m.IsPromotion() {
		p.put(us, m.Promotion(), to)
	} else {
		p.put(us, kind, to)
	}

	if m.IsCastle() {
		for _, r := range castleRules {
			if r.king == from && r.kingTo == to {
				p.remove(us, Rook, r.rook)
				p.put(us, Rook, r.rookTo)
				break
			}
		}
	}

	p.Hash ^= castleKeys[p.Castling]
	p.Castling &= keepRights[from] & keepRights[to]
	p.Hash ^= castleKeys[p.Castling]

	if kind == Pawn && (to-from == 16 || from-to == 16) {
		p.EnPassant = (from + to) / 2
		p.Hash ^= epKeys[p.EnPassant.File()]
	}

	if kind == Pawn || undo.Captured != NoKind {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	p.finishTurn(us)
	return undo
}

func (p *Position) finishTurn(mover Color) {
	if mover == Black {
		p.FullMoveNumber++
	}
	p.SideToMove = mover.Other()
	p.Hash ^= blackToMove
	p.refreshCheckers()
}

// UnmakeMove reverts m. undo must come from the MakeMove call that applied m
// to this same position.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	*p = undo.prev
}

func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteByte(p.PieceAt(SquareAt(file, rank)).Letter())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "FEN: %s\nKey: %016x\n", p.FEN(), p.Hash)
	return sb.String()
}
