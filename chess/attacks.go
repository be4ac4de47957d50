package chess

import (
	"encoding/binary"
	"math/bits"

	"lukechampine.com/frand"
)

var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard

	// between[a][b] is the squares strictly between a and b on a shared line, else empty.
	between [64][64]Bitboard
	// line[a][b] is the full board-edge-to-edge line through a and b, else empty.
	line [64][64]Bitboard

	rookMagics   [64]magic
	bishopMagics [64]magic
)

var (
	rookDirs   = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// Fixed seed so table layout and hash keys are identical across runs.
var tableSeed = [32]byte{'p', 'o', 'u', 'n', 'c', 'e'}

func newTableRNG(stream byte) *frand.RNG {
	seed := tableSeed
	seed[31] = stream
	return frand.NewCustom(seed[:], 1024, 12)
}

func randUint64(r *frand.RNG) uint64 {
	var b [8]byte
	r.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

type magic struct {
	mask    Bitboard
	magic   uint64
	shift   uint8
	attacks []Bitboard
}

func (m *magic) index(occ Bitboard) uint64 {
	return (uint64(occ&m.mask) * m.magic) >> m.shift
}

func init() {
	for sq := A1; sq <= H8; sq++ {
		b := SquareBB(sq)
		knightAttacks[sq] = shiftAll([][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}, sq)
		kingAttacks[sq] = shiftAll([][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}, sq)
		pawnAttacks[White][sq] = PawnAttacks(White, b)
		pawnAttacks[Black][sq] = PawnAttacks(Black, b)
	}

	rng := newTableRNG(0)
	initMagics(&rookMagics, rookDirs, rng)
	initMagics(&bishopMagics, bishopDirs, rng)

	for a := A1; a <= H8; a++ {
		for b := A1; b <= H8; b++ {
			if a == b {
				continue
			}
			for _, dirs := range [][4][2]int{rookDirs, bishopDirs} {
				if slidingAttacks(a, 0, dirs).Has(b) {
					line[a][b] = (slidingAttacks(a, 0, dirs) & slidingAttacks(b, 0, dirs)) | SquareBB(a) | SquareBB(b)
					between[a][b] = slidingAttacks(a, SquareBB(b), dirs) & slidingAttacks(b, SquareBB(a), dirs)
				}
			}
		}
	}
}

func shiftAll(deltas [][2]int, sq Square) Bitboard {
	var att Bitboard
	for _, d := range deltas {
		f, r := sq.File()+d[0], sq.Rank()+d[1]
		if onBoard(f, r) {
			att |= SquareBB(NewSquare(f, r))
		}
	}
	return att
}

func onBoard(f, r int) bool { return f >= 0 && f < 8 && r >= 0 && r < 8 }

// slidingAttacks ray-casts from sq until the first blocker in each direction.
// Used to build the magic tables and as the reference in tests.
func slidingAttacks(sq Square, occ Bitboard, dirs [4][2]int) Bitboard {
	var att Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d[0], sq.Rank()+d[1]
		for onBoard(f, r) {
			s := NewSquare(f, r)
			att |= SquareBB(s)
			if occ.Has(s) {
				break
			}
			f, r = f+d[0], r+d[1]
		}
	}
	return att
}

// relevantMask drops the last square of each ray since a blocker there never changes the attack set.
func relevantMask(sq Square, dirs [4][2]int) Bitboard {
	var mask Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d[0], sq.Rank()+d[1]
		for onBoard(f, r) && onBoard(f+d[0], r+d[1]) {
			mask |= SquareBB(NewSquare(f, r))
			f, r = f+d[0], r+d[1]
		}
	}
	return mask
}

func initMagics(table *[64]magic, dirs [4][2]int, rng *frand.RNG) {
	for sq := A1; sq <= H8; sq++ {
		mask := relevantMask(sq, dirs)
		n := mask.Count()
		size := 1 << n

		occs := make([]Bitboard, size)
		refs := make([]Bitboard, size)
		var sub Bitboard
		for i := 0; i < size; i++ {
			occs[i] = sub
			refs[i] = slidingAttacks(sq, sub, dirs)
			sub = (sub - mask) & mask
		}

		m := &table[sq]
		m.mask = mask
		m.shift = uint8(64 - n)
		m.attacks = make([]Bitboard, size)
		used := make([]int, size)
		for attempt := 1; ; attempt++ {
			m.magic = randUint64(rng) & randUint64(rng) & randUint64(rng)
			if bits.OnesCount64((uint64(mask)*m.magic)>>56) < 6 {
				continue
			}
			ok := true
			for i := 0; i < size; i++ {
				idx := m.index(occs[i])
				if used[idx] < attempt {
					used[idx] = attempt
					m.attacks[idx] = refs[i]
				} else if m.attacks[idx] != refs[i] {
					ok = false
					break
				}
			}
			if ok {
				break
			}
		}
	}
}

func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }
func KingAttacks(sq Square) Bitboard   { return kingAttacks[sq] }

func PawnAttacksFrom(c Color, sq Square) Bitboard { return pawnAttacks[c][sq] }

func RookAttacks(sq Square, occ Bitboard) Bitboard {
	m := &rookMagics[sq]
	return m.attacks[m.index(occ)]
}

func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	m := &bishopMagics[sq]
	return m.attacks[m.index(occ)]
}

func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// Between returns the squares strictly between a and b when they share a rank, file or diagonal.
func Between(a, b Square) Bitboard { return between[a][b] }

// Line returns the whole line through a and b, or empty if they are not aligned.
func Line(a, b Square) Bitboard { return line[a][b] }

// AttacksFor returns the attack set of a non-pawn piece type.
func AttacksFor(pt PieceType, sq Square, occ Bitboard) Bitboard {
	switch pt {
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
