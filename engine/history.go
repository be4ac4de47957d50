package engine

import (
	"github.com/0xflick/pounce/chess"
)

// HistoryTableT counts the occurrences of each position key in the game
// so far plus the current search path.
type HistoryTableT map[uint64]int

func (ht HistoryTableT) Add(key uint64) int {
	ht[key]++
	return ht[key]
}

// Remove undoes Add. Keys that drop to zero are deleted to keep the map small.
func (ht HistoryTableT) Remove(key uint64) int {
	n := ht[key] - 1
	if n <= 0 {
		delete(ht, key)
		return 0
	}
	ht[key] = n
	return n
}

// IsRepeat is true once the position has occurred earlier in the game or on the search path.
func (ht HistoryTableT) IsRepeat(key uint64) bool { return ht[key] >= 2 }

const maxHistoryVal = 1 << 20

// MoveHistoryT scores quiet moves by how often they caused cutoffs, indexed by moving piece and destination.
type MoveHistoryT [16][64]int32

func (mh *MoveHistoryT) add(side chess.Color, move chess.Move, depthToGo int) {
	v := &mh[chess.MakePiece(side, move.Piece())][move.To()]
	*v += int32(depthToGo * depthToGo)
	if *v > maxHistoryVal {
		// Age the whole table.
		for i := range mh {
			for j := range mh[i] {
				mh[i][j] /= 2
			}
		}
	}
}

func (mh *MoveHistoryT) get(side chess.Color, move chess.Move) int32 {
	return mh[chess.MakePiece(side, move.Piece())][move.To()]
}
