package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/0xflick/pounce/chess"
)

const (
	backRankMate   = "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"
	rookMateInTwo  = "k7/8/2K5/8/8/8/8/7R w - - 0 1"
	kiwipete       = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	foolsMate      = "rnb1kbnr/pppp1ppp/4p3/8/5PPq/8/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	whiteStalemate = "2k5/8/8/8/8/1q6/r7/2K5 w - - 0 1"
	hangingQueen   = "rnb1kbnr/pppp1ppp/8/4p1q1/4P3/3P4/PPP2PPP/RNBQKBNR w KQkq - 1 3"
)

func testOptions() Options {
	o := DefaultOptions()
	o.HashMB = 4
	return o
}

func search(t *testing.T, fen string, limits Limits) Result {
	t.Helper()
	e := NewEngine(testOptions())
	return e.Search(context.Background(), mustFEN(t, fen), nil, limits, nil)
}

func checkLegal(t *testing.T, fen string, m chess.Move) {
	t.Helper()
	var ml chess.MoveList
	mustFEN(t, fen).LegalMoves(&ml)
	if !ml.Contains(m) {
		t.Errorf("%v is not a legal move in %s", m, fen)
	}
}

func TestSearchMateInOne(t *testing.T) {
	res := search(t, backRankMate, Limits{Depth: 4})
	if got := res.BestMove.String(); got != "a1a8" {
		t.Errorf("best move %s, want a1a8", got)
	}
	if res.Eval != MateIn(1) {
		t.Errorf("eval %d, want %d", res.Eval, MateIn(1))
	}
}

func TestSearchMateInTwo(t *testing.T) {
	res := search(t, rookMateInTwo, Limits{Depth: 6})
	if res.Eval != MateIn(3) {
		t.Fatalf("eval %d, want %d (pv %v)", res.Eval, MateIn(3), res.PV)
	}
	p := mustFEN(t, rookMateInTwo)
	for _, m := range res.PV {
		var ml chess.MoveList
		p.LegalMoves(&ml)
		if !ml.Contains(m) {
			t.Fatalf("pv move %v illegal in %s", m, p.FEN())
		}
		p.Make(m)
	}
	if !p.InCheck() || p.HasLegalMove() {
		t.Errorf("pv %v does not end in mate: %s", res.PV, p.FEN())
	}
}

func TestSearchWinsMaterial(t *testing.T) {
	res := search(t, hangingQueen, Limits{Depth: 4})
	if got := res.BestMove.String(); got != "c1g5" {
		t.Errorf("best move %s, want c1g5", got)
	}
	if res.Eval < 500 {
		t.Errorf("eval %d after winning the queen", res.Eval)
	}
}

func TestSearchTerminal(t *testing.T) {
	res := search(t, foolsMate, Limits{Depth: 3})
	if res.Terminal != TerminalCheckmate || res.BestMove != chess.NoMove || res.Eval != MatedIn(0) {
		t.Errorf("checkmate: got %+v", res)
	}
	res = search(t, whiteStalemate, Limits{Depth: 3})
	if res.Terminal != TerminalStalemate || res.BestMove != chess.NoMove || res.Eval != DrawEval {
		t.Errorf("stalemate: got %+v", res)
	}
}

func TestSearchNodeLimitIsDeterministic(t *testing.T) {
	limits := Limits{Nodes: 20000}
	a := search(t, kiwipete, limits)
	b := search(t, kiwipete, limits)
	if a.Nodes > limits.Nodes {
		t.Errorf("searched %d nodes, limit %d", a.Nodes, limits.Nodes)
	}
	if a.BestMove != b.BestMove || a.Eval != b.Eval || a.Depth != b.Depth || a.Nodes != b.Nodes {
		t.Errorf("repeated searches differ: %v/%d/%d/%d vs %v/%d/%d/%d",
			a.BestMove, a.Eval, a.Depth, a.Nodes, b.BestMove, b.Eval, b.Depth, b.Nodes)
	}
	checkLegal(t, kiwipete, a.BestMove)
}

func TestSearchInfoPerIteration(t *testing.T) {
	e := NewEngine(testOptions())
	var depths []int
	res := e.Search(context.Background(), mustFEN(t, kiwipete), nil, Limits{Depth: 4}, func(info Info) {
		depths = append(depths, info.Depth)
		if len(info.PV) == 0 {
			t.Errorf("depth %d reported an empty pv", info.Depth)
		}
	})
	if len(depths) != 4 {
		t.Fatalf("got info for depths %v, want 1..4", depths)
	}
	for i, d := range depths {
		if d != i+1 {
			t.Errorf("info %d has depth %d", i, d)
		}
	}
	if res.Depth != 4 || len(res.PV) == 0 || res.PV[0] != res.BestMove {
		t.Errorf("result depth %d pv %v best %v", res.Depth, res.PV, res.BestMove)
	}
}

func TestSearchCancelledStillMoves(t *testing.T) {
	e := NewEngine(testOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := e.Search(ctx, mustFEN(t, kiwipete), nil, Limits{Infinite: true}, nil)
	checkLegal(t, kiwipete, res.BestMove)
	if res.Depth != 0 {
		t.Errorf("cancelled search completed depth %d", res.Depth)
	}
}

func TestSearchInfiniteStopsOnContext(t *testing.T) {
	e := NewEngine(testOptions())
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	res := e.Search(ctx, mustFEN(t, kiwipete), nil, Limits{Infinite: true}, nil)
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("search ran %v after cancellation", elapsed)
	}
	if res.Depth < 1 {
		t.Errorf("no iteration completed in 200ms")
	}
	checkLegal(t, kiwipete, res.BestMove)
}

func TestSearchMoveTime(t *testing.T) {
	start := time.Now()
	res := search(t, kiwipete, Limits{MoveTime: 100 * time.Millisecond})
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("movetime 100ms took %v", elapsed)
	}
	checkLegal(t, kiwipete, res.BestMove)
}

func TestSearchRepetitionIsDraw(t *testing.T) {
	const fen = "r6k/8/8/8/8/8/8/1QQ3K1 b - - 0 1"
	p := mustFEN(t, fen)
	escape, err := p.ParseMove("a8a7")
	if err != nil {
		t.Fatal(err)
	}

	lost := search(t, fen, Limits{Depth: 3})
	if lost.Eval > -500 {
		t.Fatalf("two queens down evaluates to %d", lost.Eval)
	}

	after := p.Clone()
	after.Make(escape)
	e := NewEngine(testOptions())
	res := e.Search(context.Background(), p, []uint64{after.Key()}, Limits{Depth: 3}, nil)
	if res.BestMove != escape || res.Eval != DrawEval {
		t.Errorf("got %v eval %d, want the repetition %v at 0", res.BestMove, res.Eval, escape)
	}
}

func TestSearchWithoutHeuristicsAgreesOnMate(t *testing.T) {
	o := testOptions()
	o.UseTT = false
	o.UseNullMove = false
	o.UseLMR = false
	o.UseAspiration = false
	e := NewEngine(o)
	res := e.Search(context.Background(), mustFEN(t, rookMateInTwo), nil, Limits{Depth: 4}, nil)
	if res.Eval != MateIn(3) {
		t.Errorf("eval %d, want %d", res.Eval, MateIn(3))
	}
}

func TestSearchThreads(t *testing.T) {
	o := testOptions()
	o.Threads = 3
	e := NewEngine(o)
	res := e.Search(context.Background(), mustFEN(t, kiwipete), nil, Limits{Depth: 5}, nil)
	checkLegal(t, kiwipete, res.BestMove)
	if res.Depth != 5 {
		t.Errorf("depth %d, want 5", res.Depth)
	}
	res = e.Search(context.Background(), mustFEN(t, backRankMate), nil, Limits{Depth: 4}, nil)
	if res.BestMove.String() != "a1a8" {
		t.Errorf("threaded search missed the mate: %v", res.BestMove)
	}
}

func TestSetOptionResizesHash(t *testing.T) {
	e := NewEngine(testOptions())
	before := e.tt.Len()
	if err := e.SetOption("Hash", "8"); err != nil {
		t.Fatal(err)
	}
	if e.tt.Len() != 2*before {
		t.Errorf("hash has %d slots, want %d", e.tt.Len(), 2*before)
	}
	if e.Options().HashMB != 8 {
		t.Errorf("HashMB = %d", e.Options().HashMB)
	}
}

// plainOptions leaves a bare alpha-beta search so that results with and
// without the table can be compared exactly.
func plainOptions(useTT bool) Options {
	o := testOptions()
	o.UseTT = useTT
	o.UseNullMove = false
	o.UseLMR = false
	o.UseAspiration = false
	o.UseCheckExtend = false
	return o
}

func newTestSearch(pos *chess.Position, opts Options, tt *TransTable) *SearchT {
	var stop atomic.Bool
	var nodes atomic.Uint64
	return newSearch(0, pos, nil, opts, tt, &stop, &nodes, Deadline{})
}

func TestExactEntryNeverWorsensResult(t *testing.T) {
	// Two plies keep main search and quiescence positions from transposing into each other.
	const depth = 2
	for _, fen := range []string{hangingQueen, kiwipete} {
		root := mustFEN(t, fen)

		ref := newTestSearch(root, plainOptions(false), NewTransTable(1))
		refEval := ref.NegAlphaBeta(depth, 0, -Infinity, Infinity, true)
		best := ref.pvLine[0][0]

		child := root.Clone()
		child.Make(best)
		childEval := newTestSearch(child, plainOptions(false), NewTransTable(1)).
			NegAlphaBeta(depth-1, 0, -Infinity, Infinity, true)

		tt := NewTransTable(1)
		tt.Store(child.Key(), depth-1, evalToTT(childEval, 1), TTEvalExact, chess.NoMove)

		// The exact entry answers a window around its own eval without searching.
		s := newTestSearch(root, plainOptions(true), tt)
		s.pos.Make(best)
		if got := s.NegAlphaBeta(depth-1, 1, childEval-1, childEval, true); got != childEval {
			t.Errorf("%s: seeded child returned %d, want %d", fen, got, childEval)
		}
		if s.stats.TTCuts != 1 || s.stats.Nodes != 1 {
			t.Errorf("%s: seeded child searched %d nodes with %d table cuts", fen, s.stats.Nodes, s.stats.TTCuts)
		}

		withTT := newTestSearch(root, plainOptions(true), tt)
		if got := withTT.NegAlphaBeta(depth, 0, -Infinity, Infinity, true); got < refEval {
			t.Errorf("%s: eval %d with the table, %d without", fen, got, refEval)
		}
	}
}
