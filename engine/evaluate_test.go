package engine

import (
	"strings"
	"testing"

	"github.com/0xflick/pounce/chess"
)

var whiteDownAPawn = "rnbqkbnr/ppp1pppp/8/8/4pP2/8/PPPP2PP/RNBQKBNR w KQkq - 0 3"
var whiteDownAKnight = "rnbqkbnr/pppp1ppp/8/8/8/3PPp2/PPP2PPP/RNBQKB1R w KQkq - 0 4"
var whiteDownARook = "rnbqkbn1/ppppppp1/8/7p/7P/5rP1/PPPPPP2/RNBQKBN1 w Qq - 0 5"
var whiteDownAQueen = "rn1qkbnr/ppp2ppp/3p4/4p3/3PP1b1/8/PPP2PPP/RNB1KBNR w KQkq - 0 4"

var blackDownAPawn = "rnbqkbnr/ppppp1pp/8/5P2/8/8/PPPP1PPP/RNBQKBNR b KQkq - 0 2"
var blackDownAKnight = "rnbqkb1r/pppp1ppp/8/3Pp3/3P4/5N2/PPP2PPP/RNBQKB1R b KQkq - 0 4"
var blackDownARook = "rnbqkbn1/ppppppp1/6R1/7p/7P/8/PPPPPPP1/RNBQKBN1 b Qq - 0 4"
var blackDownAQueen = "rnb1kbnr/pppp1ppp/5Q2/4p3/4P3/8/PPPP1PPP/RNB1KBNR b KQkq - 0 3"

func mustFEN(t *testing.T, fen string) *chess.Position {
	t.Helper()
	p, err := chess.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return p
}

// mirrorFEN swaps the colours and flips the board top to bottom.
func mirrorFEN(fen string) string {
	fields := strings.Fields(fen)
	ranks := strings.Split(fields[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	fields[0] = swapCase(strings.Join(ranks, "/"))
	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	if fields[2] != "-" {
		c := swapCase(fields[2])
		// Keep the canonical KQkq order.
		var sb strings.Builder
		for _, r := range "KQkq" {
			if strings.ContainsRune(c, r) {
				sb.WriteRune(r)
			}
		}
		fields[2] = sb.String()
	}
	if fields[3] != "-" {
		rank := fields[3][1]
		fields[3] = string(fields[3][0]) + string('1'+'8'-rank)
	}
	return strings.Join(fields, " ")
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z':
			return r - 'A' + 'a'
		}
		return r
	}, s)
}

func TestEvaluateStartPosition(t *testing.T) {
	if eval := Evaluate(chess.NewPosition()); eval != 0 {
		t.Errorf("start position eval = %d, want 0", eval)
	}
}

func TestEvaluateMaterial(t *testing.T) {
	tests := []struct {
		fen      string
		min, max EvalCp
	}{
		{whiteDownAPawn, -300, 50},
		{whiteDownAKnight, -550, -100},
		{whiteDownARook, -800, -250},
		{whiteDownAQueen, -1300, -600},
		{blackDownAPawn, -300, 50},
		{blackDownAKnight, -550, -100},
		{blackDownARook, -800, -250},
		{blackDownAQueen, -1300, -600},
	}
	for _, tc := range tests {
		eval := Evaluate(mustFEN(t, tc.fen))
		if eval < tc.min || eval > tc.max {
			t.Errorf("Evaluate(%s) = %d, want in [%d, %d]", tc.fen, eval, tc.min, tc.max)
		}
	}
}

func TestEvaluateMirrorSymmetry(t *testing.T) {
	fens := []string{
		chess.StartFEN,
		whiteDownAPawn,
		whiteDownAKnight,
		blackDownARook,
		blackDownAQueen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		"6k1/5ppp/8/8/8/8/5PPP/2R3K1 b - - 3 40",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	}
	for _, fen := range fens {
		mirrored := mirrorFEN(fen)
		a := Evaluate(mustFEN(t, fen))
		b := Evaluate(mustFEN(t, mirrored))
		if a != b {
			t.Errorf("Evaluate(%s) = %d but mirrored %s = %d", fen, a, mirrored, b)
		}
	}
}

func TestEvaluateSideRelative(t *testing.T) {
	white := mustFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	black := mustFEN(t, "4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	if w, b := Evaluate(white), Evaluate(black); w <= 0 || w != -b {
		t.Errorf("white to move %d, black to move %d: want positive and negated", w, b)
	}
}

func TestEvaluateNeverLooksLikeMate(t *testing.T) {
	p := mustFEN(t, "QQQQQQQQ/QQQQQQQQ/QQQQQQQQ/8/8/8/7K/k7 b - - 0 1")
	if eval := Evaluate(p); eval < -MaxEval || IsMateEval(eval) {
		t.Errorf("eval %d escapes the static band", eval)
	}
}
