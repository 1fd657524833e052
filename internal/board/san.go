package board

import "strings"

// SAN renders m in Standard Algebraic Notation for position p, including
// the check or mate suffix.
func (m Move) SAN(p *Position) string {
	if m == NoMove || m.IsPass() {
		return "--"
	}
	from, to, kind := m.From(), m.To(), m.Kind()

	var sb strings.Builder
	switch {
	case m.IsCastle() && to > from:
		sb.WriteString("O-O")
	case m.IsCastle():
		sb.WriteString("O-O-O")
	default:
		capture := m.IsEnPassant() || m.Victim(p) != NoKind
		if kind == Pawn {
			if capture {
				sb.WriteByte(byte('a' + from.File()))
			}
		} else {
			sb.WriteByte(Piece{Kind: kind}.Letter())
			sb.WriteString(disambiguate(p, m))
		}
		if capture {
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(Piece{Kind: m.Promotion()}.Letter())
		}
	}

	after := p.Copy()
	after.MakeMove(m)
	if after.InCheck() {
		if after.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	return sb.String()
}

// disambiguate returns the origin file, rank or square needed when another
// piece of the same kind can reach the same destination.
func disambiguate(p *Position, m Move) string {
	from := m.From()
	var sameFile, sameRank, ambiguous bool
	for _, other := range p.GenerateLegalMoves().Slice() {
		if other.To() != m.To() || other.Kind() != m.Kind() || other.From() == from {
			continue
		}
		ambiguous = true
		sameFile = sameFile || other.From().File() == from.File()
		sameRank = sameRank || other.From().Rank() == from.Rank()
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return from.String()[:1]
	case !sameRank:
		return from.String()[1:]
	}
	return from.String()
}

// SANLine renders a sequence of moves played from p.
func SANLine(p *Position, moves []Move) []string {
	out := make([]string, 0, len(moves))
	cur := p.Copy()
	for _, m := range moves {
		out = append(out, m.SAN(cur))
		cur.MakeMove(m)
	}
	return out
}
