package chess

// ParseMove resolves UCI long algebraic notation ("e2e4", "e7e8q") against the
// legal moves of the position.
func (p *Position) ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, &ParseError{Field: FieldMove, Value: s, Reason: "want 4 or 5 characters"}
	}
	from, ok1 := parseSquare(s[0:2])
	to, ok2 := parseSquare(s[2:4])
	if !ok1 || !ok2 {
		return NoMove, &ParseError{Field: FieldMove, Value: s, Reason: "bad square"}
	}
	promo := NoPieceType
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, &ParseError{Field: FieldMove, Value: s, Reason: "bad promotion piece"}
		}
	}
	var ml MoveList
	p.LegalMoves(&ml)
	for _, m := range ml.Slice() {
		if m.From() == from && m.To() == to && m.Promotion() == promo {
			return m, nil
		}
	}
	return NoMove, &IllegalMoveError{Move: s, FEN: p.FEN()}
}

// MakeUCI parses and plays a move. On error the position is untouched.
func (p *Position) MakeUCI(s string) (Undo, error) {
	m, err := p.ParseMove(s)
	if err != nil {
		return Undo{}, err
	}
	return p.Make(m), nil
}
