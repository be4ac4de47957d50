package chess

import (
	"errors"
	"fmt"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is a full game state. The zero value is not usable; build one
// with ParseFEN or NewPosition. Copying a Position by value yields an
// independent clone.
type Position struct {
	pieces   [2][7]Bitboard
	colors   [2]Bitboard
	occupied Bitboard
	board    [64]Piece

	side     Color
	castling CastleRights
	ep       Square
	halfmove int
	fullmove int
	key      uint64
}

// Undo holds the state Make destroys. Pass it back to Unmake.
type Undo struct {
	move     Move
	castling CastleRights
	ep       Square
	halfmove int
	fullmove int
	key      uint64
}

func (u Undo) Move() Move { return u.move }

// castleMask[sq] keeps the rights not lost when a piece leaves or lands on sq.
var castleMask [64]CastleRights

func init() {
	for i := range castleMask {
		castleMask[i] = AllCastling
	}
	castleMask[A1] &^= WhiteQueenSide
	castleMask[H1] &^= WhiteKingSide
	castleMask[E1] &^= WhiteKingSide | WhiteQueenSide
	castleMask[A8] &^= BlackQueenSide
	castleMask[H8] &^= BlackKingSide
	castleMask[E8] &^= BlackKingSide | BlackQueenSide
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Position) Clone() *Position {
	c := *p
	return &c
}

func (p *Position) Side() Color                           { return p.side }
func (p *Position) Castling() CastleRights                { return p.castling }
func (p *Position) EnPassant() Square                     { return p.ep }
func (p *Position) HalfmoveClock() int                    { return p.halfmove }
func (p *Position) FullmoveNumber() int                   { return p.fullmove }
func (p *Position) Key() uint64                           { return p.key }
func (p *Position) PieceAt(sq Square) Piece               { return p.board[sq] }
func (p *Position) Occupied() Bitboard                    { return p.occupied }
func (p *Position) ColorBB(c Color) Bitboard              { return p.colors[c] }
func (p *Position) Pieces(c Color, pt PieceType) Bitboard { return p.pieces[c][pt] }

// TypeBB is the union of both colours' pieces of type pt.
func (p *Position) TypeBB(pt PieceType) Bitboard { return p.pieces[White][pt] | p.pieces[Black][pt] }

func (p *Position) KingSquare(c Color) Square { return p.pieces[c][King].LSB() }

func (p *Position) put(pc Piece, sq Square) {
	b := SquareBB(sq)
	p.pieces[pc.Color()][pc.Type()] |= b
	p.colors[pc.Color()] |= b
	p.occupied |= b
	p.board[sq] = pc
}

func (p *Position) remove(sq Square) Piece {
	pc := p.board[sq]
	b := SquareBB(sq)
	p.pieces[pc.Color()][pc.Type()] &^= b
	p.colors[pc.Color()] &^= b
	p.occupied &^= b
	p.board[sq] = NoPiece
	return pc
}

func (p *Position) movePiece(from, to Square) {
	p.put(p.remove(from), to)
}

// epKey is the hash contribution of the en-passant square. The file is only
// hashed when the side to move has a pawn that could make the capture, so
// transpositions that differ only in a dead en-passant square share a key.
func (p *Position) epKey() uint64 {
	if p.ep == NoSquare || pawnAttacks[p.side.Other()][p.ep]&p.pieces[p.side][Pawn] == 0 {
		return 0
	}
	return zobristEPFile[p.ep.File()]
}

func castleRookSquares(kingTo Square) (from, to Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	case C8:
		return A8, D8
	}
	panic(fmt.Sprintf("chess: bad castling destination %v", kingTo))
}

// Make plays a legal move. Passing a move not generated for this position is
// a programming error and panics when detectable.
func (p *Position) Make(m Move) Undo {
	u := Undo{move: m, castling: p.castling, ep: p.ep, halfmove: p.halfmove, fullmove: p.fullmove, key: p.key}
	us, them := p.side, p.side.Other()
	from, to := m.From(), m.To()
	moving := MakePiece(us, m.Piece())
	if p.board[from] != moving {
		panic(fmt.Sprintf("chess: make %v: expected %c on %v", m, moving.Char(), from))
	}

	key := p.key ^ p.epKey()
	p.ep = NoSquare
	p.halfmove++

	if m.IsCapture() {
		capSq := to
		if m.IsEnPassant() {
			capSq = to ^ 8
		}
		captured := MakePiece(them, m.Captured())
		if p.board[capSq] != captured {
			panic(fmt.Sprintf("chess: make %v: expected %c on %v", m, captured.Char(), capSq))
		}
		p.remove(capSq)
		key ^= zobristPiece[captured][capSq]
		p.halfmove = 0
	}

	p.movePiece(from, to)
	key ^= zobristPiece[moving][from] ^ zobristPiece[moving][to]

	if m.Piece() == Pawn {
		p.halfmove = 0
		if promo := m.Promotion(); promo != NoPieceType {
			p.remove(to)
			p.put(MakePiece(us, promo), to)
			key ^= zobristPiece[moving][to] ^ zobristPiece[MakePiece(us, promo)][to]
		} else if m.IsDoublePush() {
			p.ep = (from + to) / 2
		}
	}

	if m.IsCastle() {
		rf, rt := castleRookSquares(to)
		rook := MakePiece(us, Rook)
		p.movePiece(rf, rt)
		key ^= zobristPiece[rook][rf] ^ zobristPiece[rook][rt]
	}

	key ^= zobristCastle[p.castling]
	p.castling &= castleMask[from] & castleMask[to]
	key ^= zobristCastle[p.castling]

	if us == Black {
		p.fullmove++
	}
	p.side = them
	key ^= zobristBlackMove
	p.key = key ^ p.epKey()
	return u
}

// Unmake reverts the move that produced u. Calls must nest with Make.
func (p *Position) Unmake(u Undo) {
	m := u.move
	p.side = p.side.Other()
	us := p.side
	from, to := m.From(), m.To()

	if m.IsCastle() {
		rf, rt := castleRookSquares(to)
		p.movePiece(rt, rf)
	}
	if m.IsPromotion() {
		p.remove(to)
		p.put(MakePiece(us, Pawn), to)
	}
	p.movePiece(to, from)
	if m.IsCapture() {
		capSq := to
		if m.IsEnPassant() {
			capSq = to ^ 8
		}
		p.put(MakePiece(us.Other(), m.Captured()), capSq)
	}

	p.castling = u.castling
	p.ep = u.ep
	p.halfmove = u.halfmove
	p.fullmove = u.fullmove
	p.key = u.key
}

// MakeNull passes the turn without moving. Not legal when in check.
func (p *Position) MakeNull() Undo {
	u := Undo{move: NoMove, castling: p.castling, ep: p.ep, halfmove: p.halfmove, fullmove: p.fullmove, key: p.key}
	p.key ^= p.epKey()
	p.ep = NoSquare
	p.halfmove++
	p.side = p.side.Other()
	p.key ^= zobristBlackMove
	return u
}

func (p *Position) UnmakeNull(u Undo) {
	p.side = p.side.Other()
	p.ep = u.ep
	p.halfmove = u.halfmove
	p.key = u.key
}

// AttackersTo returns the pieces of both colours attacking sq, treating occ as the board occupancy.
func (p *Position) AttackersTo(sq Square, occ Bitboard) Bitboard {
	diag := p.TypeBB(Bishop) | p.TypeBB(Queen)
	orth := p.TypeBB(Rook) | p.TypeBB(Queen)
	return pawnAttacks[White][sq]&p.pieces[Black][Pawn] |
		pawnAttacks[Black][sq]&p.pieces[White][Pawn] |
		knightAttacks[sq]&p.TypeBB(Knight) |
		kingAttacks[sq]&p.TypeBB(King) |
		BishopAttacks(sq, occ)&diag |
		RookAttacks(sq, occ)&orth
}

// IsAttacked reports whether colour by attacks sq.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	return p.AttackersTo(sq, p.occupied)&p.colors[by] != 0
}

// IsInCheck reports whether the king of colour c is attacked.
func (p *Position) IsInCheck(c Color) bool {
	return p.IsAttacked(p.KingSquare(c), c.Other())
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool { return p.IsInCheck(p.side) }

// Checkers returns the enemy pieces giving check to the side to move.
func (p *Position) Checkers() Bitboard {
	return p.AttackersTo(p.KingSquare(p.side), p.occupied) & p.colors[p.side.Other()]
}

// HasNonPawnMaterial reports whether c has any piece besides king and pawns.
func (p *Position) HasNonPawnMaterial(c Color) bool {
	return p.colors[c]&^(p.pieces[c][Pawn]|p.pieces[c][King]) != 0
}

// IsInsufficientMaterial is true when neither side can possibly mate:
// bare kings, a single minor piece, or only same-coloured bishops.
func (p *Position) IsInsufficientMaterial() bool {
	if p.TypeBB(Pawn)|p.TypeBB(Rook)|p.TypeBB(Queen) != 0 {
		return false
	}
	minors := p.TypeBB(Knight) | p.TypeBB(Bishop)
	if !minors.More() {
		return true
	}
	const light Bitboard = 0x55aa55aa55aa55aa
	bishops := p.TypeBB(Bishop)
	return p.TypeBB(Knight) == 0 && (bishops&light == 0 || bishops&^light == 0)
}

// IsFiftyMoveDraw applies the fifty-move rule.
func (p *Position) IsFiftyMoveDraw() bool { return p.halfmove >= 100 }

// Validate checks every internal invariant and returns the first violation.
func (p *Position) Validate() error {
	var all Bitboard
	for c := White; c <= Black; c++ {
		var union Bitboard
		for pt := Pawn; pt <= King; pt++ {
			bb := p.pieces[c][pt]
			if union&bb != 0 || all&bb != 0 {
				return fmt.Errorf("chess: overlapping piece sets for %v%v", c, pt)
			}
			union |= bb
			all |= bb
			for b := bb; b != 0; {
				sq := b.PopLSB()
				if p.board[sq] != MakePiece(c, pt) {
					return fmt.Errorf("chess: mailbox disagrees on %v", sq)
				}
			}
		}
		if union != p.colors[c] {
			return fmt.Errorf("chess: %v occupancy out of sync", c)
		}
		if p.pieces[c][King].Count() != 1 {
			return fmt.Errorf("chess: %v has %d kings", c, p.pieces[c][King].Count())
		}
	}
	if all != p.occupied {
		return errors.New("chess: aggregate occupancy out of sync")
	}
	for sq := A1; sq <= H8; sq++ {
		if p.board[sq] != NoPiece && !all.Has(sq) {
			return fmt.Errorf("chess: stray mailbox piece on %v", sq)
		}
	}
	if p.key != p.ComputeKey() {
		return errors.New("chess: incremental key differs from recomputed key")
	}
	return nil
}
