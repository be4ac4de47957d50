package chess

import (
	"strconv"
	"strings"
)

// ParseFEN builds a position from all six FEN fields. The result is checked
// for structural legality; positions that could never arise in a game (no
// king, pawns on the back rank, the side not to move in check) are rejected.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return nil, &ParseError{Field: FieldCount, Value: fen, Reason: "want 6 space separated fields, got " + strconv.Itoa(len(fields))}
	}
	p := &Position{ep: NoSquare}

	if err := p.parsePlacement(fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		p.side = White
	case "b":
		p.side = Black
	default:
		return nil, &ParseError{Field: FieldSide, Value: fields[1], Reason: "want w or b"}
	}

	if err := p.parseCastling(fields[2]); err != nil {
		return nil, err
	}
	if err := p.parseEnPassant(fields[3]); err != nil {
		return nil, err
	}

	half, err := strconv.Atoi(fields[4])
	if err != nil || half < 0 {
		return nil, &ParseError{Field: FieldHalfmove, Value: fields[4], Reason: "want a non-negative integer"}
	}
	p.halfmove = half
	full, err := strconv.Atoi(fields[5])
	if err != nil || full < 1 {
		return nil, &ParseError{Field: FieldFullmove, Value: fields[5], Reason: "want a positive integer"}
	}
	p.fullmove = full

	if p.IsInCheck(p.side.Other()) {
		return nil, &ParseError{Field: FieldSide, Value: fields[1], Reason: "side not to move is in check"}
	}
	p.key = p.ComputeKey()
	return p, nil
}

func (p *Position) parsePlacement(s string) error {
	ranks := strings.Split(s, "/")
	if len(ranks) != 8 {
		return &ParseError{Field: FieldPlacement, Value: s, Reason: "want 8 ranks"}
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
			} else {
				pc, ok := pieceFromChar(ch)
				if !ok {
					return &ParseError{Field: FieldPlacement, Value: s, Reason: "unexpected character " + strconv.QuoteRune(rune(ch))}
				}
				if file > 7 {
					return &ParseError{Field: FieldPlacement, Value: s, Reason: "rank " + strconv.Itoa(rank+1) + " has more than 8 squares"}
				}
				if pc.Type() == Pawn && (rank == 0 || rank == 7) {
					return &ParseError{Field: FieldPlacement, Value: s, Reason: "pawn on back rank"}
				}
				p.put(pc, NewSquare(file, rank))
				file++
			}
			if file > 8 {
				return &ParseError{Field: FieldPlacement, Value: s, Reason: "rank " + strconv.Itoa(rank+1) + " has more than 8 squares"}
			}
		}
		if file != 8 {
			return &ParseError{Field: FieldPlacement, Value: s, Reason: "rank " + strconv.Itoa(rank+1) + " has fewer than 8 squares"}
		}
	}
	for c := White; c <= Black; c++ {
		if n := p.pieces[c][King].Count(); n != 1 {
			return &ParseError{Field: FieldPlacement, Value: s, Reason: "want exactly one king per side"}
		}
	}
	return nil
}

func (p *Position) parseCastling(s string) error {
	if s == "-" {
		return nil
	}
	for i := 0; i < len(s); i++ {
		var right CastleRights
		var king, rook Square
		switch s[i] {
		case 'K':
			right, king, rook = WhiteKingSide, E1, H1
		case 'Q':
			right, king, rook = WhiteQueenSide, E1, A1
		case 'k':
			right, king, rook = BlackKingSide, E8, H8
		case 'q':
			right, king, rook = BlackQueenSide, E8, A8
		default:
			return &ParseError{Field: FieldCastling, Value: s, Reason: "want - or a subset of KQkq"}
		}
		if p.castling&right != 0 {
			return &ParseError{Field: FieldCastling, Value: s, Reason: "repeated right"}
		}
		c := White
		if right >= BlackKingSide {
			c = Black
		}
		if p.board[king] != MakePiece(c, King) || p.board[rook] != MakePiece(c, Rook) {
			return &ParseError{Field: FieldCastling, Value: s, Reason: "king or rook not on its home square"}
		}
		p.castling |= right
	}
	return nil
}

func (p *Position) parseEnPassant(s string) error {
	if s == "-" {
		return nil
	}
	sq, ok := parseSquare(s)
	if !ok {
		return &ParseError{Field: FieldEnPassant, Value: s, Reason: "want - or a square"}
	}
	// The square must sit behind a pawn that just made a double push.
	wantRank, pusher := 5, Black
	if p.side == Black {
		wantRank, pusher = 2, White
	}
	pawnSq := sq ^ 8
	if sq.Rank() != wantRank || p.board[pawnSq] != MakePiece(pusher, Pawn) ||
		p.board[sq] != NoPiece || p.board[Square(int(sq)+int(sq)-int(pawnSq))] != NoPiece {
		return &ParseError{Field: FieldEnPassant, Value: s, Reason: "no pawn could have just double pushed past it"}
	}
	p.ep = sq
	return nil
}

// FEN renders the position. ParseFEN(p.FEN()) reproduces p exactly.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.board[NewSquare(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pc.Char())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(p.side.String())
	sb.WriteByte(' ')
	sb.WriteString(p.castling.String())
	sb.WriteByte(' ')
	sb.WriteString(p.ep.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfmove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullmove))
	return sb.String()
}

func (p *Position) String() string { return p.FEN() }
