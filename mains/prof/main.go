package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/pkg/profile"

	"github.com/0xflick/pounce/chess"
	"github.com/0xflick/pounce/engine"
)

var VersionString = "0.3 prof " + runtime.GOOS + "-" + runtime.GOARCH

var fen = flag.String("fen", chess.StartFEN, "Position to search.")
var depth = flag.Int("depth", 10, "Search depth.")
var mem = flag.Bool("mem", false, "Profile allocations instead of cpu.")

func main() {
	flag.Parse()
	mode := profile.CPUProfile
	if *mem {
		mode = profile.MemProfile
	}
	defer profile.Start(mode, profile.ProfilePath(".")).Stop()

	pos, err := chess.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintln(os.Stderr, "prof:", err)
		return
	}
	fmt.Println("Pounce", VersionString, "searching", pos.FEN())

	eng := engine.NewEngine(engine.DefaultOptions())
	res := eng.Search(context.Background(), pos, nil, engine.Limits{Depth: *depth}, func(info engine.Info) {
		fmt.Printf("info depth %d score cp %d nodes %d nps %d time %d\n",
			info.Depth, info.Eval, info.Nodes, info.NPS(), info.Elapsed.Milliseconds())
	})
	res.Stats.Dump(os.Stdout, res.Depth)
	fmt.Println("bestmove", res.BestMove)
}
