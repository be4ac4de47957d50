package chess

import (
	"sort"
	"testing"
)

func legalStrings(t *testing.T, fen string) []string {
	t.Helper()
	p, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	var ml MoveList
	p.LegalMoves(&ml)
	out := make([]string, 0, ml.Len)
	for _, m := range ml.Slice() {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func contains(moves []string, m string) bool {
	for _, s := range moves {
		if s == m {
			return true
		}
	}
	return false
}

func TestSpecialMoves(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		want    []string
		notWant []string
		count   int
	}{
		{
			name:    "en passant exposes king on rank",
			fen:     "8/8/8/KPp4r/8/8/8/4k3 w - c6 0 2",
			notWant: []string{"b5c6"},
			want:    []string{"b5b6"},
		},
		{
			name: "en passant available",
			fen:  "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
			want: []string{"e5d6", "e5e6"},
		},
		{
			name:    "en passant captures checking pawn",
			fen:     "8/8/8/2k5/3Pp3/8/8/4K3 b - d3 0 1",
			want:    []string{"e4d3", "c5d4"},
			notWant: []string{"e4e3"},
		},
		{
			name:    "castle through attacked square",
			fen:     "4k3/8/8/8/8/8/5r2/R3K2R w KQ - 0 1",
			want:    []string{"e1c1"},
			notWant: []string{"e1g1"},
		},
		{
			name:    "castle out of check",
			fen:     "4r1k1/8/8/8/8/8/8/R3K2R w KQ - 0 1",
			notWant: []string{"e1g1", "e1c1"},
		},
		{
			name: "queen side with attacked b1",
			fen:  "1r2k3/8/8/8/8/8/8/R3K3 w Q - 0 1",
			want: []string{"e1c1"},
		},
		{
			name:    "castle blocked",
			fen:     "4k3/8/8/8/8/8/8/RN2K1NR w KQ - 0 1",
			notWant: []string{"e1g1", "e1c1"},
		},
		{
			name:  "four promotions",
			fen:   "8/P7/8/8/8/8/8/k6K w - - 0 1",
			want:  []string{"a7a8q", "a7a8r", "a7a8b", "a7a8n"},
			count: 7,
		},
		{
			name:  "double check allows only king moves",
			fen:   "4k3/8/8/8/1b6/8/4r3/R3K2R w KQ - 0 1",
			want:  []string{"e1f1", "e1d1"},
			count: 3,
		},
		{
			name:    "pinned rook slides on pin line",
			fen:     "4k3/4r3/8/8/8/8/4R3/4K3 w - - 0 1",
			want:    []string{"e2e7", "e2e3"},
			notWant: []string{"e2d2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			moves := legalStrings(t, tt.fen)
			for _, m := range tt.want {
				if !contains(moves, m) {
					t.Errorf("missing %s in %v", m, moves)
				}
			}
			for _, m := range tt.notWant {
				if contains(moves, m) {
					t.Errorf("unexpected %s in %v", m, moves)
				}
			}
			if tt.count > 0 && len(moves) != tt.count {
				t.Errorf("got %d moves %v, want %d", len(moves), moves, tt.count)
			}
		})
	}
}

func TestTerminalPositions(t *testing.T) {
	mate, _ := ParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if mate.HasLegalMove() || !mate.InCheck() {
		t.Errorf("fool's mate: want checkmate")
	}
	stale, _ := ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if stale.HasLegalMove() || stale.InCheck() {
		t.Errorf("want stalemate")
	}
}

func TestNoisyMoves(t *testing.T) {
	p, _ := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	var all, noisy MoveList
	p.LegalMoves(&all)
	p.NoisyMoves(&noisy)
	want := 0
	for _, m := range all.Slice() {
		if !m.IsQuiet() {
			want++
		}
	}
	if noisy.Len != want {
		t.Errorf("noisy count %d, want %d", noisy.Len, want)
	}
	for _, m := range noisy.Slice() {
		if m.IsQuiet() || !all.Contains(m) {
			t.Errorf("bad noisy move %v", m)
		}
	}

	// In check every evasion counts as noisy.
	check, _ := ParseFEN("4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	check.LegalMoves(&all)
	check.NoisyMoves(&noisy)
	if noisy.Len != all.Len {
		t.Errorf("evasions: noisy %d, legal %d", noisy.Len, all.Len)
	}
}

func TestSlidingAttacksMatchRayCast(t *testing.T) {
	rng := newTableRNG(7)
	for i := 0; i < 2000; i++ {
		occ := Bitboard(randUint64(rng) & randUint64(rng))
		sq := Square(rng.Intn(64))
		if got, want := RookAttacks(sq, occ), slidingAttacks(sq, occ, rookDirs); got != want {
			t.Fatalf("rook %v occ %x: got %x want %x", sq, uint64(occ), uint64(got), uint64(want))
		}
		if got, want := BishopAttacks(sq, occ), slidingAttacks(sq, occ, bishopDirs); got != want {
			t.Fatalf("bishop %v occ %x: got %x want %x", sq, uint64(occ), uint64(got), uint64(want))
		}
	}
}

func TestBetweenAndLine(t *testing.T) {
	if got := Between(A1, H8); got != SquareBB(B2)|SquareBB(C3)|SquareBB(D4)|SquareBB(E5)|SquareBB(F6)|SquareBB(G7) {
		t.Errorf("Between(a1,h8) = %x", uint64(got))
	}
	if Between(A1, B3) != 0 || Line(A1, B3) != 0 {
		t.Errorf("knight-aligned squares should share no line")
	}
	if Line(C1, C5) != FileBB(2) {
		t.Errorf("Line(c1,c5) = %x", uint64(Line(C1, C5)))
	}
	if Between(E1, E2) != 0 {
		t.Errorf("adjacent squares have nothing between")
	}
}
