package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	dragon "github.com/dylhunn/dragontoothmg"
	"github.com/fatih/color"
	"github.com/pkg/profile"

	"github.com/0xflick/pounce/chess"
)

var fen = flag.String("fen", chess.StartFEN, "Position to count.")
var depth = flag.Int("depth", 5, "Perft depth.")
var divide = flag.Bool("divide", false, "Print the node count of each root move.")
var verify = flag.Bool("verify", false, "Cross check every count against the dragontooth move generator.")
var suite = flag.Bool("suite", false, "Run the built in regression positions instead of -fen.")
var doProfile = flag.Bool("profile", false, "Write a cpu profile to the current directory.")

var pass = color.New(color.FgGreen, color.Bold).SprintFunc()
var fail = color.New(color.FgRed, color.Bold).SprintFunc()

// Well known positions with their published counts.
var suitePositions = []struct {
	name  string
	fen   string
	nodes []uint64
}{
	{"startpos", chess.StartFEN, []uint64{20, 400, 8902, 197281, 4865609}},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", []uint64{48, 2039, 97862, 4085603}},
	{"rook endgame", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []uint64{14, 191, 2812, 43238, 674624}},
	{"promotions", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264, 9467, 422333}},
	{"discovered", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []uint64{44, 1486, 62379, 2103487}},
	{"middlegame", "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10", []uint64{45, 1765, 75352}},
}

func dragonPerft(b *dragon.Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += dragonPerft(b, depth-1)
		unapply()
	}
	return nodes
}

// dragonDivide is the dragontooth count below each root move, keyed by move text.
func dragonDivide(fen string, depth int) map[string]uint64 {
	b := dragon.ParseFen(fen)
	out := map[string]uint64{}
	for _, m := range b.GenerateLegalMoves() {
		unapply := b.Apply(m)
		out[m.String()] = dragonPerft(&b, depth-1)
		unapply()
	}
	return out
}

func nps(nodes uint64, d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(float64(nodes) / d.Seconds())
}

// runOne counts fen to depth and reports whether every check passed.
func runOne(fen string, depth int) (bool, error) {
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		return false, err
	}
	start := time.Now()
	entries := chess.Divide(pos, depth)
	elapsed := time.Since(start)

	var theirs map[string]uint64
	if *verify {
		theirs = dragonDivide(fen, depth)
	}
	ok := true
	var total uint64
	for _, e := range entries {
		total += e.Nodes
		if theirs != nil {
			want, found := theirs[e.Move.String()]
			delete(theirs, e.Move.String())
			if !found || want != e.Nodes {
				ok = false
				fmt.Printf("%s: %d %s dragontooth %d\n", e.Move, e.Nodes, fail("MISMATCH"), want)
				continue
			}
		}
		if *divide {
			fmt.Printf("%s: %d\n", e.Move, e.Nodes)
		}
	}
	for m, n := range theirs {
		ok = false
		fmt.Printf("%s: missing, dragontooth %d %s\n", m, n, fail("MISMATCH"))
	}
	fmt.Printf("perft(%d) = %d in %v (%d nps)\n", depth, total, elapsed.Round(time.Millisecond), nps(total, elapsed))
	return ok, nil
}

func runSuite(maxDepth int) bool {
	ok := true
	for _, sp := range suitePositions {
		pos, err := chess.ParseFEN(sp.fen)
		if err != nil {
			fmt.Println(sp.name, fail("FAIL"), err)
			ok = false
			continue
		}
		for i, want := range sp.nodes {
			d := i + 1
			if d > maxDepth {
				break
			}
			start := time.Now()
			got := chess.Perft(pos, d)
			elapsed := time.Since(start)
			verdict := pass("PASS")
			if got != want {
				verdict = fail("FAIL")
				ok = false
			}
			fmt.Printf("%-13s depth %d %12d %s %v\n", sp.name, d, got, verdict, elapsed.Round(time.Millisecond))
		}
	}
	return ok
}

func main() {
	flag.Parse()
	if *doProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	ok := true
	if *suite {
		ok = runSuite(*depth)
	} else {
		var err error
		ok, err = runOne(*fen, *depth)
		if err != nil {
			fmt.Fprintln(os.Stderr, "perft:", err)
			os.Exit(2)
		}
		if *verify {
			if ok {
				fmt.Println(pass("PASS"))
			} else {
				fmt.Println(fail("FAIL"))
			}
		}
	}
	if !ok {
		// Deferred profile writes are skipped on failure.
		os.Exit(1)
	}
}
