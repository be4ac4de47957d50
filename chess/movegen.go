package chess

type castleRule struct {
	right      CastleRights
	king, to   Square
	rook       Square
	kingPasses [2]Square
}

var castleRules = [2][2]castleRule{
	White: {
		{WhiteKingSide, E1, G1, H1, [2]Square{F1, G1}},
		{WhiteQueenSide, E1, C1, A1, [2]Square{D1, C1}},
	},
	Black: {
		{BlackKingSide, E8, G8, H8, [2]Square{F8, G8}},
		{BlackQueenSide, E8, C8, A8, [2]Square{D8, C8}},
	},
}

// LegalMoves fills ml with every legal move.
func (p *Position) LegalMoves(ml *MoveList) {
	ml.Clear()
	p.generate(ml, false)
}

// NoisyMoves fills ml with captures and promotions, or with every legal
// evasion when the side to move is in check.
func (p *Position) NoisyMoves(ml *MoveList) {
	ml.Clear()
	p.generate(ml, true)
}

// HasLegalMove is a cheaper test than generating and counting.
func (p *Position) HasLegalMove() bool {
	var ml MoveList
	p.generate(&ml, false)
	return ml.Len > 0
}

// pinned returns the pieces of colour us that shield their king from a slider.
func (p *Position) pinned(us Color, ksq Square) Bitboard {
	them := us.Other()
	snipers := RookAttacks(ksq, 0)&(p.pieces[them][Rook]|p.pieces[them][Queen]) |
		BishopAttacks(ksq, 0)&(p.pieces[them][Bishop]|p.pieces[them][Queen])
	var pinned Bitboard
	for snipers != 0 {
		s := snipers.PopLSB()
		blockers := between[ksq][s] & p.occupied
		if blockers != 0 && !blockers.More() && blockers&p.colors[us] != 0 {
			pinned |= blockers
		}
	}
	return pinned
}

func (p *Position) addMove(ml *MoveList, from, to Square, pt PieceType) {
	m := NewMove(from, to, pt)
	if victim := p.board[to]; victim != NoPiece {
		m = m.withCapture(victim.Type())
	}
	ml.Add(m)
}

func (p *Position) generate(ml *MoveList, noisy bool) {
	us, them := p.side, p.side.Other()
	own, enemy := p.colors[us], p.colors[them]
	occ := p.occupied
	ksq := p.KingSquare(us)
	checkers := p.AttackersTo(ksq, occ) & enemy

	// The king is tested with itself lifted off the board so it cannot hide
	// behind its own square from a slider.
	kingTargets := kingAttacks[ksq] &^ own
	if noisy && checkers == 0 {
		kingTargets &= enemy
	}
	occNoKing := occ &^ SquareBB(ksq)
	for t := kingTargets; t != 0; {
		to := t.PopLSB()
		if p.AttackersTo(to, occNoKing)&enemy == 0 {
			p.addMove(ml, ksq, to, King)
		}
	}
	if checkers.More() {
		return
	}

	target := ^own
	if checkers != 0 {
		target = checkers | between[ksq][checkers.LSB()]
	} else if noisy {
		target = enemy
	}
	pinned := p.pinned(us, ksq)

	for pt := Knight; pt <= Queen; pt++ {
		for b := p.pieces[us][pt]; b != 0; {
			from := b.PopLSB()
			dests := AttacksFor(pt, from, occ) & target
			if pinned.Has(from) {
				dests &= line[ksq][from]
			}
			for dests != 0 {
				p.addMove(ml, from, dests.PopLSB(), pt)
			}
		}
	}

	p.generatePawnMoves(ml, noisy, checkers, target, pinned, ksq)

	if checkers == 0 && !noisy {
		for _, r := range castleRules[us] {
			if p.castling&r.right == 0 || between[r.king][r.rook]&occ != 0 {
				continue
			}
			if p.IsAttacked(r.kingPasses[0], them) || p.IsAttacked(r.kingPasses[1], them) {
				continue
			}
			ml.Add(NewMove(r.king, r.to, King) | FlagCastle)
		}
	}
}

func (p *Position) generatePawnMoves(ml *MoveList, noisy bool, checkers, target, pinned Bitboard, ksq Square) {
	us, them := p.side, p.side.Other()
	occ := p.occupied
	enemy := p.colors[them]
	lastRank, doubleRank := Rank8, Rank4
	if us == Black {
		lastRank, doubleRank = Rank1, Rank5
	}
	pawnTarget := target
	if noisy && checkers == 0 {
		pawnTarget |= lastRank
	}

	for b := p.pieces[us][Pawn]; b != 0; {
		from := b.PopLSB()
		fromBB := SquareBB(from)
		single := Forward(us, fromBB) &^ occ
		double := Forward(us, single) &^ occ & doubleRank
		dests := (single | double | pawnAttacks[us][from]&enemy) & pawnTarget
		if pinned.Has(from) {
			dests &= line[ksq][from]
		}
		for dests != 0 {
			to := dests.PopLSB()
			m := NewMove(from, to, Pawn)
			if victim := p.board[to]; victim != NoPiece {
				m = m.withCapture(victim.Type())
			}
			if lastRank.Has(to) {
				for _, promo := range [4]PieceType{Queen, Knight, Rook, Bishop} {
					ml.Add(m.withPromotion(promo))
				}
				continue
			}
			if double.Has(to) {
				m |= FlagDoublePush
			}
			ml.Add(m)
		}
	}

	if p.ep == NoSquare {
		return
	}
	// En passant removes two pieces from one line, which the pin mask cannot
	// describe, so the king's safety is tested on the resulting occupancy.
	capSq := p.ep ^ 8
	for b := pawnAttacks[them][p.ep] & p.pieces[us][Pawn]; b != 0; {
		from := b.PopLSB()
		after := occ&^SquareBB(from)&^SquareBB(capSq) | SquareBB(p.ep)
		if p.AttackersTo(ksq, after)&enemy&^SquareBB(capSq) == 0 {
			ml.Add(NewMove(from, p.ep, Pawn).withCapture(Pawn) | FlagEnPassant)
		}
	}
}
