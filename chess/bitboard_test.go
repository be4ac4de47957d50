package chess

import (
	"testing"
)

func testResult(t *testing.T, s string, val Bitboard, expected Bitboard) {
	t.Helper()
	if val != expected {
		t.Errorf(s, uint64(val), uint64(expected))
	}
}

func TestBitboard(t *testing.T) {
	// Lose H file when going E
	testResult(t, "E(0x8000008080800000) is 0x%016x expected 0x%016x\n", E(0x8000008080800000), 0)
	// Lose A file when going W
	testResult(t, "W(0x0100000101010000) is 0x%016x expected 0x%016x\n", W(0x0100000101010000), 0)
	testResult(t, "E(0x8040201008040201) is 0x%016x expected 0x%016x\n", E(0x8040201008040201), 0x0080402010080402)
	testResult(t, "W(0x8040201008040201) is 0x%016x expected 0x%016x\n", W(0x8040201008040201), 0x4020100804020100)
	testResult(t, "N(0x8040201008040201) is 0x%016x expected 0x%016x\n", N(0x8040201008040201), 0x4020100804020100)
	testResult(t, "S(0x0804020180402010) is 0x%016x expected 0x%016x\n", S(0x0804020180402010), 0x0008040201804020)

	testResult(t, "PawnScope(White, 0x0180000000000100) is 0x%016x expected 0x%016x\n", PawnScope(White, 0x0180000000000100), 0xc303030303030000)
	testResult(t, "PawnScope(White, 0x8140000000000200) is 0x%016x expected 0x%016x\n", PawnScope(White, 0x8140000000000200), 0xe707070707070000)
	testResult(t, "PawnScope(Black, 0x0001000000008001) is 0x%016x expected 0x%016x\n", PawnScope(Black, 0x0001000000008001), 0x00000303030303c3)
	testResult(t, "PawnScope(Black, 0x0002000000004081) is 0x%016x expected 0x%016x\n", PawnScope(Black, 0x0002000000004081), 0x00000707070707e7)

	// e2 pawn hits d3 and f3, a2 only b3
	testResult(t, "PawnAttacks(White, a2|e2) is 0x%016x expected 0x%016x\n", PawnAttacks(White, SquareBB(A2)|SquareBB(E2)), SquareBB(B3)|SquareBB(D3)|SquareBB(F3))
	testResult(t, "PawnAttacks(Black, h7) is 0x%016x expected 0x%016x\n", PawnAttacks(Black, SquareBB(H7)), SquareBB(G6))
	testResult(t, "FileFill(e4) is 0x%016x expected 0x%016x\n", FileFill(SquareBB(E4)), FileBB(4))
}

func TestPopLSB(t *testing.T) {
	bb := SquareBB(C3) | SquareBB(H8) | SquareBB(A1)
	want := []Square{A1, C3, H8}
	for i, w := range want {
		if got := bb.PopLSB(); got != w {
			t.Errorf("pop %d: got %v want %v", i, got, w)
		}
	}
	if bb != 0 {
		t.Errorf("board not empty after pops: %x", uint64(bb))
	}
	if (SquareBB(A1)|SquareBB(B1)).More() != true || SquareBB(A1).More() {
		t.Errorf("More() wrong")
	}
}
