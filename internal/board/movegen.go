package board

var promotionKinds = [...]Kind{Queen, Rook, Bishop, Knight}

// GenerateLegalMoves lists every legal move for the side to move.
// Passing is never generated here.
func (p *Position) GenerateLegalMoves() *MoveList {
	var pseudo MoveList
	p.generatePseudoLegal(&pseudo)

	legal := &MoveList{}
	us := p.SideToMove
	ksq := p.KingSquare(us)
	pinned := p.pinned(us)
	for _, m := range pseudo.Slice() {
		from := m.From()
		// Off the king, out of check and unpinned, only en passant can
		// uncover an attack on the king.
		if p.Checkers == 0 && from != ksq && !m.IsEnPassant() && !pinned.Has(from) {
			legal.Add(m)
			continue
		}
		if p.keepsKingSafe(m) {
			legal.Add(m)
		}
	}
	return legal
}

// HasLegalMoves reports whether the side to move can move at all.
func (p *Position) HasLegalMoves() bool {
	return p.GenerateLegalMoves().Len() > 0
}

func (p *Position) keepsKingSafe(m Move) bool {
	us := p.SideToMove
	undo := p.MakeMove(m)
	safe := !p.Attacked(p.KingSquare(us), us.Other())
	p.UnmakeMove(m, undo)
	return safe
}

// pinned returns the pieces of color us that are the sole blocker between
// their king and an enemy slider.
func (p *Position) pinned(us Color) Bitboard {
	ksq := p.KingSquare(us)
	if ksq == NoSquare {
		return 0
	}
	them := p.Teams[us.Other()]
	snipers := RookAttacks(ksq, 0)&(p.Kinds[Rook]|p.Kinds[Queen])&them |
		BishopAttacks(ksq, 0)&(p.Kinds[Bishop]|p.Kinds[Queen])&them

	occ := p.Occupied()
	var pins Bitboard
	for snipers != 0 {
		blockers := Between(snipers.Pop(), ksq) & occ
		if blockers.Count() == 1 {
			pins |= blockers & p.Teams[us]
		}
	}
	return pins
}

func (p *Position) generatePseudoLegal(ml *MoveList) {
	us := p.SideToMove
	own := p.Teams[us]
	occ := p.Occupied()

	p.generatePawnMoves(ml, occ)
	for _, k := range [...]Kind{Knight, Bishop, Rook, Queen, King} {
		pieces := own & p.Kinds[k]
		for pieces != 0 {
			from := pieces.Pop()
			targets := attacksFrom(k, from, occ) &^ own
			for targets != 0 {
				ml.Add(NewMove(from, targets.Pop(), k))
			}
		}
	}
	p.generateCastles(ml, occ)
}

func attacksFrom(k Kind, sq Square, occ Bitboard) Bitboard {
	switch k {
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, occ)
	case Rook:
		return RookAttacks(sq, occ)
	case Queen:
		return QueenAttacks(sq, occ)
	case King:
		return kingAttacks[sq]
	}
	return 0
}

func (p *Position) generatePawnMoves(ml *MoveList, occ Bitboard) {
	us := p.SideToMove
	enemies := p.Teams[us.Other()]
	doubleFrom := Rank3
	if us == Black {
		doubleFrom = Rank6
	}

	pawns := p.Pieces(us, Pawn)
	for pawns != 0 {
		from := pawns.Pop()
		single := Bit(from).forward(us) &^ occ
		double := (single & doubleFrom).forward(us) &^ occ
		captures := pawnAttacks[us][from] & enemies

		for targets := single | double | captures; targets != 0; {
			to := targets.Pop()
			if Bit(to)&(Rank1|Rank8) == 0 {
				ml.Add(NewMove(from, to, Pawn))
				continue
			}
			for _, k := range promotionKinds {
				ml.Add(NewPromotion(from, to, k))
			}
		}
		if p.EnPassant != NoSquare && pawnAttacks[us][from].Has(p.EnPassant) {
			ml.Add(NewEnPassant(from, p.EnPassant))
		}
	}
}

func (p *Position) generateCastles(ml *MoveList, occ Bitboard) {
	us := p.SideToMove
	if p.Checkers != 0 {
		return
	}
	for _, r := range castleRules {
		if r.color != us || p.Castling&r.right == 0 || occ&r.clear != 0 {
			continue
		}
		if !p.Pieces(us, King).Has(r.king) || !p.Pieces(us, Rook).Has(r.rook) {
			continue
		}
		crossed := r.safe
		attacked := false
		for crossed != 0 {
			if p.Attacked(crossed.Pop(), us.Other()) {
				attacked = true
				break
			}
		}
		if !attacked {
			ml.Add(NewCastle(r.king, r.kingTo))
		}
	}
}
