package board

var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard

	// between[a][b] holds the squares strictly between two aligned squares.
	between [64][64]Bitboard
)

// slider is a fancy-magic lookup for one square.
type slider struct {
	mask    Bitboard
	magic   uint64
	shift   uint8
	attacks []Bitboard
}

func (s *slider) lookup(occ Bitboard) Bitboard {
	return s.attacks[(uint64(occ&s.mask)*s.magic)>>s.shift]
}

var (
	bishopSliders [64]slider
	rookSliders   [64]slider

	bishopDirs = [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	rookDirs   = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
)

func init() {
	for sq := A1; sq <= H8; sq++ {
		b := Bit(sq)
		knightAttacks[sq] = jumps(sq, [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}})
		kingAttacks[sq] = jumps(sq, [][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}})
		pawnAttacks[White][sq] = b.upLeft() | b.upRight()
		pawnAttacks[Black][sq] = b.downLeft() | b.downRight()
	}
	for a := A1; a <= H8; a++ {
		for _, d := range append(bishopDirs[:], rookDirs[:]...) {
			var path Bitboard
			for f, r := a.File()+d[0], a.Rank()+d[1]; onBoard(f, r); f, r = f+d[0], r+d[1] {
				between[a][SquareAt(f, r)] = path
				path |= Bit(SquareAt(f, r))
			}
		}
	}

	for sq := A1; sq <= H8; sq++ {
		bishopSliders[sq] = newSlider(sq, bishopDirs, bishopMagics[sq])
		rookSliders[sq] = newSlider(sq, rookDirs, rookMagics[sq])
	}
}

// Multipliers for the fancy-magic index, one per square, a1 first. Each maps
// every blocker subset of the square's relevant mask to a slot holding its
// attack set, with shift 64 minus the mask size.
var bishopMagics = [64]uint64{
	0x0002020202020200, 0x0002020202020000, 0x0004010202000000, 0x0004040080000000,
	0x0001104000000000, 0x0000821040000000, 0x0000410410400000, 0x0000104104104000,
	0x0000040404040400, 0x0000020202020200, 0x0000040102020000, 0x0000040400800000,
	0x0000011040000000, 0x0000008210400000, 0x0000004104104000, 0x0000002082082000,
	0x0004000808080800, 0x0002000404040400, 0x0001000202020200, 0x0000800802004000,
	0x0000800400A00000, 0x0000200100884000, 0x0000400082082000, 0x0000200041041000,
	0x0002080010101000, 0x0001040008080800, 0x0000208004010400, 0x0000404004010200,
	0x0000840000802000, 0x0000404002011000, 0x0000808001041000, 0x0000404000820800,
	0x0001041000202000, 0x0000820800101000, 0x0000104400080800, 0x0000020080080080,
	0x0000404040040100, 0x0000808100020100, 0x0001010100020800, 0x0000808080010400,
	0x0000820820004000, 0x0000410410002000, 0x0000082088001000, 0x0000002011000800,
	0x0000080100400400, 0x0001010101000200, 0x0002020202000400, 0x0001010101000200,
	0x0000410410400000, 0x0000208208200000, 0x0000002084100000, 0x0000000020880000,
	0x0000001002020000, 0x0000040408020000, 0x0004040404040000, 0x0002020202020000,
	0x0000104104104000, 0x0000002082082000, 0x0000000020841000, 0x0000000000208800,
	0x0000000010020200, 0x0000000404080200, 0x0000040404040400, 0x0002020202020200,
}

var rookMagics = [64]uint64{
	0x0080001020400080, 0x0040001000200040, 0x0080081000200080, 0x0080040800100080,
	0x0080020400080080, 0x0080010200040080, 0x0080008001000200, 0x0080002040800100,
	0x0000800020400080, 0x0000400020005000, 0x0000801000200080, 0x0000800800100080,
	0x0000800400080080, 0x0000800200040080, 0x0000800100020080, 0x0000800040800100,
	0x0000208000400080, 0x0000404000201000, 0x0000808010002000, 0x0000808008001000,
	0x0000808004000800, 0x0000808002000400, 0x0000010100020004, 0x0000020000408104,
	0x0000208080004000, 0x0000200040005000, 0x0000100080200080, 0x0000080080100080,
	0x0000040080080080, 0x0000020080040080, 0x0000010080800200, 0x0000800080004100,
	0x0000204000800080, 0x0000200040401000, 0x0000100080802000, 0x0000080080801000,
	0x0000040080800800, 0x0000020080800400, 0x0000020001010004, 0x0000800040800100,
	0x0000204000808000, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000010002008080, 0x0000004081020004,
	0x0000204000800080, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000800100020080, 0x0000800041000080,
	0x00FFFCDDFCED714A, 0x007FFCDDFCED714A, 0x003FFFCDFFD88096, 0x0000040810002101,
	0x0001000204080011, 0x0001000204000801, 0x0001000082000401, 0x0001FFFAABFAD1A2,
}

func onBoard(f, r int) bool { return f >= 0 && f < 8 && r >= 0 && r < 8 }

func jumps(sq Square, deltas [][2]int) Bitboard {
	var bb Bitboard
	for _, d := range deltas {
		if f, r := sq.File()+d[0], sq.Rank()+d[1]; onBoard(f, r) {
			bb |= Bit(SquareAt(f, r))
		}
	}
	return bb
}

// rays walks each direction from sq, stopping on (and including) the first
// occupied square.
func rays(sq Square, dirs [4][2]int, occ Bitboard) Bitboard {
	var bb Bitboard
	for _, d := range dirs {
		for f, r := sq.File()+d[0], sq.Rank()+d[1]; onBoard(f, r); f, r = f+d[0], r+d[1] {
			s := SquareAt(f, r)
			bb |= Bit(s)
			if occ.Has(s) {
				break
			}
		}
	}
	return bb
}

// relevantMask drops the last square of every ray, since a blocker there
// never changes the attack set.
func relevantMask(sq Square, dirs [4][2]int) Bitboard {
	var bb Bitboard
	for _, d := range dirs {
		for f, r := sq.File()+d[0], sq.Rank()+d[1]; onBoard(f+d[0], r+d[1]); f, r = f+d[0], r+d[1] {
			bb |= Bit(SquareAt(f, r))
		}
	}
	return bb
}

// newSlider fills the lookup table for sq by walking every subset of its
// relevant mask.
func newSlider(sq Square, dirs [4][2]int, magic uint64) slider {
	mask := relevantMask(sq, dirs)
	n := mask.Count()
	s := slider{mask: mask, magic: magic, shift: uint8(64 - n), attacks: make([]Bitboard, 1<<n)}

	// Carry-rippler enumeration, starting and ending at the empty set.
	sub := Bitboard(0)
	for {
		s.attacks[(uint64(sub)*magic)>>s.shift] = rays(sq, dirs, sub)
		sub = (sub - mask) & mask
		if sub == 0 {
			break
		}
	}
	return s
}

func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

func KingAttacks(sq Square) Bitboard { return kingAttacks[sq] }

func PawnAttacks(sq Square, c Color) Bitboard { return pawnAttacks[c][sq] }

func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	return bishopSliders[sq].lookup(occ)
}

func RookAttacks(sq Square, occ Bitboard) Bitboard {
	return rookSliders[sq].lookup(occ)
}

func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return BishopAttacks(sq, occ) | RookAttacks(sq, occ)
}

// Between returns the squares strictly between a and b, or the empty set
// when they share no line.
func Between(a, b Square) Bitboard { return between[a][b] }

// attackersOf returns the pieces of color by that attack sq under occupancy occ.
func (p *Position) attackersOf(sq Square, by Color, occ Bitboard) Bitboard {
	diag := p.Kinds[Bishop] | p.Kinds[Queen]
	ortho := p.Kinds[Rook] | p.Kinds[Queen]
	return p.Teams[by] & (pawnAttacks[by.Other()][sq]&p.Kinds[Pawn] |
		knightAttacks[sq]&p.Kinds[Knight] |
		kingAttacks[sq]&p.Kinds[King] |
		BishopAttacks(sq, occ)&diag |
		RookAttacks(sq, occ)&ortho)
}

// Attacked reports whether any piece of color by attacks sq.
func (p *Position) Attacked(sq Square, by Color) bool {
	return p.attackersOf(sq, by, p.Occupied()) != 0
}

func (p *Position) refreshCheckers() {
	us := p.SideToMove
	king := p.Teams[us] & p.Kinds[King]
	if king == 0 {
		p.Checkers = 0
		return
	}
	p.Checkers = p.attackersOf(king.First(), us.Other(), p.Occupied())
}
