package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares, bit i standing for Square(i).
type Bitboard uint64

const (
	FileA Bitboard = 0x0101010101010101
	FileH Bitboard = FileA << 7

	Rank1 Bitboard = 0xFF
	Rank2 Bitboard = Rank1 << 8
	Rank3 Bitboard = Rank1 << 16
	Rank6 Bitboard = Rank1 << 40
	Rank7 Bitboard = Rank1 << 48
	Rank8 Bitboard = Rank1 << 56

	notFileA Bitboard = ^FileA
	notFileH Bitboard = ^FileH

	lightSquares Bitboard = 0x55AA55AA55AA55AA
)

// Bit returns the singleton set for sq.
func Bit(sq Square) Bitboard {
	return 1 << sq
}

func (b Bitboard) Has(sq Square) bool { return b&Bit(sq) != 0 }
func (b Bitboard) Count() int         { return bits.OnesCount64(uint64(b)) }

// First returns the lowest square in the set, or NoSquare.
func (b Bitboard) First() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// Pop removes the lowest square from the set and returns it.
func (b *Bitboard) Pop() Square {
	sq := b.First()
	*b &= *b - 1
	return sq
}

func (b Bitboard) up() Bitboard        { return b << 8 }
func (b Bitboard) down() Bitboard      { return b >> 8 }
func (b Bitboard) upLeft() Bitboard    { return (b << 7) & notFileH }
func (b Bitboard) upRight() Bitboard   { return (b << 9) & notFileA }
func (b Bitboard) downLeft() Bitboard  { return (b >> 9) & notFileH }
func (b Bitboard) downRight() Bitboard { return (b >> 7) & notFileA }

// forward shifts one rank toward the opponent of c.
func (b Bitboard) forward(c Color) Bitboard {
	if c == White {
		return b.up()
	}
	return b.down()
}

func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			if b.Has(SquareAt(file, rank)) {
				sb.WriteString("x ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
