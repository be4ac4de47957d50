// Bitboard utilities
// Note bit 0 (low bit) is square A1, bit 63 (hi bit) is square H8

package chess

import "math/bits"

type Bitboard uint64

const (
	FileA Bitboard = 0x0101010101010101
	FileB Bitboard = FileA << 1
	FileG Bitboard = FileA << 6
	FileH Bitboard = 0x8080808080808080

	Rank1 Bitboard = 0x00000000000000ff
	Rank2 Bitboard = Rank1 << 8
	Rank3 Bitboard = Rank1 << 16
	Rank4 Bitboard = Rank1 << 24
	Rank5 Bitboard = Rank1 << 32
	Rank6 Bitboard = Rank1 << 40
	Rank7 Bitboard = Rank1 << 48
	Rank8 Bitboard = Rank1 << 56
)

func SquareBB(sq Square) Bitboard { return 1 << sq }

func (bb Bitboard) Has(sq Square) bool { return bb&(1<<sq) != 0 }

func (bb Bitboard) Count() int { return bits.OnesCount64(uint64(bb)) }

// LSB returns the lowest set square. Undefined for an empty board.
func (bb Bitboard) LSB() Square { return Square(bits.TrailingZeros64(uint64(bb))) }

// PopLSB clears and returns the lowest set square.
func (bb *Bitboard) PopLSB() Square {
	sq := bb.LSB()
	*bb &= *bb - 1
	return sq
}

// More reports whether more than one bit is set.
func (bb Bitboard) More() bool { return bb&(bb-1) != 0 }

func FileBB(file int) Bitboard { return FileA << file }
func RankBB(rank int) Bitboard { return Rank1 << (8 * rank) }

func N(bb Bitboard) Bitboard { return bb << 8 }

func S(bb Bitboard) Bitboard { return bb >> 8 }

func W(bb Bitboard) Bitboard { return (bb &^ FileA) >> 1 }

func E(bb Bitboard) Bitboard { return (bb &^ FileH) << 1 }

func NFill(bb Bitboard) Bitboard {
	fill := bb
	fill = fill | (fill << 8)
	fill = fill | (fill << 16)
	fill = fill | (fill << 32)
	return fill
}

func SFill(bb Bitboard) Bitboard {
	fill := bb
	fill = fill | (fill >> 8)
	fill = fill | (fill >> 16)
	fill = fill | (fill >> 32)
	return fill
}

// FileFill smears every set bit over its whole file.
func FileFill(bb Bitboard) Bitboard { return NFill(bb) | SFill(bb) }

// PawnScope is every square ahead of or diagonally ahead of the pawns of colour c.
// A pawn with no enemy pawn in its opponent's scope is passed.
func PawnScope(c Color, pawns Bitboard) Bitboard {
	if c == White {
		n := N(pawns)
		return NFill(n | W(n) | E(n))
	}
	s := S(pawns)
	return SFill(s | W(s) | E(s))
}

// PawnAttacks is the set of squares attacked by the pawns of colour c.
func PawnAttacks(c Color, pawns Bitboard) Bitboard {
	if c == White {
		n := N(pawns)
		return W(n) | E(n)
	}
	s := S(pawns)
	return W(s) | E(s)
}

// Forward shifts one rank towards the opponent of c.
func Forward(c Color, bb Bitboard) Bitboard {
	if c == White {
		return N(bb)
	}
	return S(bb)
}
