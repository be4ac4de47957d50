// Transposition table for Main Search

package engine

import (
	"sync/atomic"

	"github.com/0xflick/pounce/chess"
)

// The eval for a TT entry can be exact, a lower bound, or an upper bound
type TTEvalT uint8

const (
	TTInvalid        TTEvalT = iota // must be the 0 item
	TTEvalUpperBound                // from alpha cut-off (fail low)
	TTEvalLowerBound                // from beta cut-off
	TTEvalExact
)

type TTEntryT struct {
	Move       chess.Move
	Eval       EvalCp
	Depth      int
	Bound      TTEvalT
	Generation uint8
}

// Entry layout in the data word:
//
//	bits 0-24  move
//	bits 25-40 eval (int16)
//	bits 41-48 depth
//	bits 49-50 bound
//	bits 51-58 generation
func (e TTEntryT) pack() uint64 {
	return uint64(e.Move)&0x1ffffff |
		uint64(uint16(int16(e.Eval)))<<25 |
		uint64(uint8(e.Depth))<<41 |
		uint64(e.Bound&3)<<49 |
		uint64(e.Generation)<<51
}

func unpackTTEntry(data uint64) TTEntryT {
	return TTEntryT{
		Move:       chess.Move(data & 0x1ffffff),
		Eval:       EvalCp(int16(uint16(data >> 25))),
		Depth:      int(uint8(data >> 41)),
		Bound:      TTEvalT((data >> 49) & 3),
		Generation: uint8(data >> 51),
	}
}

// A slot is written without locks. The check word is key^data, so a torn
// write from two racing searchers fails verification and reads as a miss.
type ttSlot struct {
	check atomic.Uint64
	data  atomic.Uint64
}

const ttSlotBytes = 16

// TransTable is a fixed size hash of search results shared by all search threads.
type TransTable struct {
	slots      []ttSlot
	mask       uint64
	generation uint8
}

// NewTransTable sizes the table to the largest power of two slot count that fits in megabytes.
func NewTransTable(megabytes int) *TransTable {
	if megabytes < 1 {
		megabytes = 1
	}
	n := uint64(megabytes) * 1024 * 1024 / ttSlotBytes
	size := uint64(1)
	for size*2 <= n {
		size *= 2
	}
	return &TransTable{slots: make([]ttSlot, size), mask: size - 1}
}

func (tt *TransTable) Len() int { return len(tt.slots) }

func (tt *TransTable) slot(key uint64) *ttSlot {
	// Note: assumes tt size is a power of 2!!!
	return &tt.slots[key&tt.mask]
}

// Probe returns the entry stored for key. Entries for other keys miss.
func (tt *TransTable) Probe(key uint64) (TTEntryT, bool) {
	s := tt.slot(key)
	data := s.data.Load()
	if data == 0 || s.check.Load()^data != key {
		return TTEntryT{}, false
	}
	e := unpackTTEntry(data)
	return e, e.Bound != TTInvalid
}

// Store records a search result. A resident entry survives only if it was
// written during the current search and is strictly deeper.
func (tt *TransTable) Store(key uint64, depth int, eval EvalCp, bound TTEvalT, move chess.Move) {
	s := tt.slot(key)
	oldData := s.data.Load()
	sameKey := oldData != 0 && s.check.Load()^oldData == key
	if oldData != 0 {
		old := unpackTTEntry(oldData)
		if old.Generation == tt.generation && old.Depth > depth {
			return
		}
		if move == chess.NoMove && sameKey {
			move = old.Move
		}
	}
	if depth < 0 {
		depth = 0
	}
	data := TTEntryT{Move: move, Eval: eval, Depth: depth, Bound: bound, Generation: tt.generation}.pack()
	s.data.Store(data)
	s.check.Store(key ^ data)
}

// NewSearch ages every resident entry by one generation.
func (tt *TransTable) NewSearch() { tt.generation++ }

func (tt *TransTable) Clear() {
	for i := range tt.slots {
		tt.slots[i].data.Store(0)
		tt.slots[i].check.Store(0)
	}
	tt.generation = 0
}

// Hashfull is the permille of sampled slots holding current generation entries.
func (tt *TransTable) Hashfull() int {
	n := 1000
	if len(tt.slots) < n {
		n = len(tt.slots)
	}
	used := 0
	for i := 0; i < n; i++ {
		data := tt.slots[i].data.Load()
		if data != 0 && unpackTTEntry(data).Generation == tt.generation {
			used++
		}
	}
	return used * 1000 / n
}
