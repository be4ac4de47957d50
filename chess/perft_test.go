package chess

import (
	"testing"
)

var perftTests = []struct {
	name  string
	fen   string
	nodes []uint64
}{
	{"startpos", StartFEN, []uint64{20, 400, 8902, 197281}},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", []uint64{48, 2039, 97862, 4085603}},
	{"rook endgame", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []uint64{14, 191, 2812, 43238, 674624}},
	{"promotions", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264, 9467, 422333}},
	{"discovered", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []uint64{44, 1486, 62379, 2103487}},
	{"middlegame", "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10", []uint64{45, 1765, 75352}},
}

func TestPerft(t *testing.T) {
	for _, tt := range perftTests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseFEN(tt.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			for i, want := range tt.nodes {
				depth := i + 1
				if testing.Short() && want > 100000 {
					break
				}
				if got := Perft(p, depth); got != want {
					t.Errorf("perft(%d) = %d, want %d", depth, got, want)
				}
			}
			if p.FEN() != tt.fen {
				t.Errorf("position changed by perft: %s", p.FEN())
			}
		})
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	p := NewPosition()
	var total uint64
	entries := Divide(p, 3)
	if len(entries) != 20 {
		t.Fatalf("divide returned %d root moves, want 20", len(entries))
	}
	for _, e := range entries {
		total += e.Nodes
	}
	if total != 8902 {
		t.Errorf("divide total %d, want 8902", total)
	}
	if entries[0].Move.String() != "a2a3" {
		t.Errorf("divide not sorted, first entry %v", entries[0].Move)
	}
}
