package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN wraps every FEN parsing failure.
var ErrInvalidFEN = errors.New("invalid FEN")

// ParseFEN builds a position from Forsyth-Edwards Notation. The move
// counters are optional.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: want at least 4 fields, got %d", ErrInvalidFEN, len(fields))
	}

	p := &Position{EnPassant: NoSquare, FullMoveNumber: 1}
	if err := p.parsePlacement(fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		p.SideToMove = White
	case "b":
		p.SideToMove = Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			i := strings.IndexRune("KQkq", ch)
			if i < 0 {
				return nil, fmt.Errorf("%w: castling %q", ErrInvalidFEN, fields[2])
			}
			p.Castling |= 1 << i
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant: %v", ErrInvalidFEN, err)
		}
		p.EnPassant = sq
	}

	counters := []*int{&p.HalfMoveClock, &p.FullMoveNumber}
	for i, f := range fields[4:] {
		if i >= len(counters) {
			break
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: move counter %q", ErrInvalidFEN, f)
		}
		*counters[i] = n
	}

	for _, c := range []Color{White, Black} {
		if p.Pieces(c, King).Count() != 1 {
			return nil, fmt.Errorf("%w: %s must have exactly one king", ErrInvalidFEN, c)
		}
	}

	p.Hash = p.computeHash()
	p.refreshCheckers()
	return p, nil
}

func (p *Position) parsePlacement(placement string) error {
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFEN, len(rows))
	}
	for i, row := range rows {
		rank, file := 7-i, 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			piece, ok := pieceFromLetter(ch)
			if !ok || file > 7 {
				return fmt.Errorf("%w: rank %d: %q", ErrInvalidFEN, rank+1, row)
			}
			sq := SquareAt(file, rank)
			p.Teams[piece.Color] |= Bit(sq)
			p.Kinds[piece.Kind] |= Bit(sq)
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, rank+1, file)
		}
	}
	return nil
}

// FEN serialises the position.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(SquareAt(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.Letter())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	side := "w"
	if p.SideToMove == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", side, p.Castling, p.EnPassant, p.HalfMoveClock, p.FullMoveNumber)
	return sb.String()
}
