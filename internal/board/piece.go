package board

// Color identifies a side.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Kind is a piece kind irrespective of colour.
type Kind uint8

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoKind
)

// AllKinds lists every real piece kind in ascending order.
var AllKinds = [...]Kind{Pawn, Knight, Bishop, Rook, Queen, King}

const kindLetters = "pnbrqk"

func (k Kind) String() string {
	if k >= NoKind {
		return "-"
	}
	return kindLetters[k : k+1]
}

// Piece is a coloured piece on a square.
type Piece struct {
	Kind  Kind
	Color Color
}

// NoPiece marks an empty square.
var NoPiece = Piece{Kind: NoKind}

// Letter returns the FEN letter, upper case for White.
func (p Piece) Letter() byte {
	if p.Kind >= NoKind {
		return '.'
	}
	ch := kindLetters[p.Kind]
	if p.Color == White {
		ch -= 'a' - 'A'
	}
	return ch
}

func pieceFromLetter(ch byte) (Piece, bool) {
	color := White
	if ch >= 'a' {
		color = Black
		ch -= 'a' - 'A'
	}
	for k, l := range []byte("PNBRQK") {
		if l == ch {
			return Piece{Kind: Kind(k), Color: color}, true
		}
	}
	return NoPiece, false
}
