package chess

import "sort"

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var ml MoveList
	p.LegalMoves(&ml)
	if depth == 1 {
		return uint64(ml.Len)
	}
	var nodes uint64
	for _, m := range ml.Slice() {
		u := p.Make(m)
		nodes += Perft(p, depth-1)
		p.Unmake(u)
	}
	return nodes
}

type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide is Perft split by root move, sorted by move text.
func Divide(p *Position, depth int) []DivideEntry {
	var ml MoveList
	p.LegalMoves(&ml)
	out := make([]DivideEntry, 0, ml.Len)
	for _, m := range ml.Slice() {
		u := p.Make(m)
		out = append(out, DivideEntry{Move: m, Nodes: Perft(p, depth-1)})
		p.Unmake(u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Move.String() < out[j].Move.String() })
	return out
}
