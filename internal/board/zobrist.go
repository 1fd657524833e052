package board

var (
	pieceKeys   [2][6][64]uint64
	epKeys      [8]uint64
	castleKeys  [16]uint64
	blackToMove uint64
)

// xorshift is the xorshift64* generator. The seed is fixed so hashes are
// identical from run to run.
type xorshift struct{ state uint64 }

func (x *xorshift) next() uint64 {
	x.state ^= x.state >> 12
	x.state ^= x.state << 25
	x.state ^= x.state >> 27
	return x.state * 0x2545F4914F6CDD1D
}

func init() {
	rng := xorshift{state: 0x98F107A2BEEF1234}
	for c := range pieceKeys {
		for k := range pieceKeys[c] {
			for sq := range pieceKeys[c][k] {
				pieceKeys[c][k][sq] = rng.next()
			}
		}
	}
	for i := range epKeys {
		epKeys[i] = rng.next()
	}
	for i := range castleKeys {
		castleKeys[i] = rng.next()
	}
	blackToMove = rng.next()
}

// computeHash rebuilds the Zobrist key from scratch.
func (p *Position) computeHash() uint64 {
	var h uint64
	for c := White; c <= Black; c++ {
		for _, k := range AllKinds {
			bb := p.Teams[c] & p.Kinds[k]
			for bb != 0 {
				h ^= pieceKeys[c][k][bb.Pop()]
			}
		}
	}
	if p.EnPassant != NoSquare {
		h ^= epKeys[p.EnPassant.File()]
	}
	h ^= castleKeys[p.Castling]
	if p.SideToMove == Black {
		h ^= blackToMove
	}
	return h
}
