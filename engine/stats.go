package engine

import (
	"fmt"
	"io"
)

const MaxDepthStats = 16

type SearchStatsT struct {
	Nodes            uint64 // #nodes visited
	NonLeafs         uint64 // #non-leaf nodes
	CutNodes         uint64 // #(beta-)cut nodes
	FirstChildCuts   uint64 // #non-leaf nodes that (beta-)cut on the first child searched
	CutNodeChildren  uint64 // Total #children of cut nodes (in order to see how effective the move ordering is)
	AllChildrenNodes uint64 // #non-leaf nodes with no beta cut
	Mates            uint64 // #true terminal nodes
	PosRepetitions   uint64 // #nodes with repeated position
	TTHits           uint64 // #nodes with successful TT probe
	TTCuts           uint64 // #nodes cut by a TT bound
	TTMoveCuts       uint64 // #nodes with tt move cut
	NullMoveTries    uint64 // #nodes trying the null move heuristic
	NullMoveCuts     uint64 // #nodes that cut due to null move heuristic
	NullMoveFails    uint64 // #null move cuts refuted by the verification search
	LMRSearches      uint64 // #reduced searches
	LMRReSearches    uint64 // #reduced searches that had to be repeated at full depth
	PVSReSearches    uint64 // #null window searches that had to be repeated with the full window
	KillerCuts       uint64 // #cuts by a killer move
	QNodes           uint64 // #nodes visited in qsearch
	QPats            uint64 // #qnodes with stand pat best
	QPatCuts         uint64 // #qnodes with stand pat cut
	QPrunes          uint64 // #qnodes where we reached full depth - i.e. likely failed to quiesce
	QMates           uint64 // #true terminal nodes in qsearch

	NonLeafsAt [MaxDepthStats]uint64 // non-leafs by depth from root
}

func (s *SearchStatsT) nonLeafAt(depthFromRoot int) {
	s.NonLeafs++
	if depthFromRoot < MaxDepthStats {
		s.NonLeafsAt[depthFromRoot]++
	}
}

func (s *SearchStatsT) add(o *SearchStatsT) {
	s.Nodes += o.Nodes
	s.NonLeafs += o.NonLeafs
	s.CutNodes += o.CutNodes
	s.FirstChildCuts += o.FirstChildCuts
	s.CutNodeChildren += o.CutNodeChildren
	s.AllChildrenNodes += o.AllChildrenNodes
	s.Mates += o.Mates
	s.PosRepetitions += o.PosRepetitions
	s.TTHits += o.TTHits
	s.TTCuts += o.TTCuts
	s.TTMoveCuts += o.TTMoveCuts
	s.NullMoveTries += o.NullMoveTries
	s.NullMoveCuts += o.NullMoveCuts
	s.NullMoveFails += o.NullMoveFails
	s.LMRSearches += o.LMRSearches
	s.LMRReSearches += o.LMRReSearches
	s.PVSReSearches += o.PVSReSearches
	s.KillerCuts += o.KillerCuts
	s.QNodes += o.QNodes
	s.QPats += o.QPats
	s.QPatCuts += o.QPatCuts
	s.QPrunes += o.QPrunes
	s.QMates += o.QMates
	for i := range s.NonLeafsAt {
		s.NonLeafsAt[i] += o.NonLeafsAt[i]
	}
}

func PerC(n uint64, N uint64) string {
	if N == 0 {
		return fmt.Sprintf("%d [-]", n)
	}
	return fmt.Sprintf("%d [%.2f%%]", n, float64(n)/float64(N)*100)
}

// Dump writes the counters as UCI "info string" lines.
func (s *SearchStatsT) Dump(w io.Writer, finalDepth int) {
	fmt.Fprintln(w, "info string q-nodes:", s.QNodes, "q-pats:", PerC(s.QPats, s.QNodes), "q-pat-cuts:", PerC(s.QPatCuts, s.QNodes), "q-prunes:", PerC(s.QPrunes, s.QNodes), "q-mates:", PerC(s.QMates, s.QNodes))
	fmt.Fprintln(w, "info string   cuts:", PerC(s.CutNodes, s.NonLeafs), "first-child-cuts:", PerC(s.FirstChildCuts, s.CutNodes), "cut-kids:", PerC(s.CutNodeChildren, s.CutNodes), "tt-move-cuts:", PerC(s.TTMoveCuts, s.CutNodes), "killer-cuts:", PerC(s.KillerCuts, s.CutNodes))
	fmt.Fprintln(w, "info string   tt-hits:", PerC(s.TTHits, s.Nodes), "tt-cuts:", PerC(s.TTCuts, s.Nodes), "null-tries:", PerC(s.NullMoveTries, s.NonLeafs), "null-cuts:", PerC(s.NullMoveCuts, s.NullMoveTries), "null-fails:", PerC(s.NullMoveFails, s.NullMoveTries))
	fmt.Fprintln(w, "info string   lmr:", s.LMRSearches, "lmr-researches:", PerC(s.LMRReSearches, s.LMRSearches), "pvs-researches:", s.PVSReSearches)
	fmt.Fprint(w, "info string    non-leafs by depth:")
	for i := 0; i < MaxDepthStats && i < finalDepth; i++ {
		fmt.Fprintf(w, " %d: %s", i, PerC(s.NonLeafsAt[i], s.NonLeafs))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "info string nodes:", s.Nodes, "non-leafs:", s.NonLeafs, "all-nodes:", PerC(s.AllChildrenNodes, s.NonLeafs), "mates:", PerC(s.Mates, s.NonLeafs), "pos-repetitions:", PerC(s.PosRepetitions, s.Nodes))
}
