package engine

import (
	"github.com/0xflick/pounce/chess"
)

const NKillersPerDepth = 2

const MoveNotFound = -1

// KillerMoveTableT holds, per distance from the root, the quiet moves that
// last caused a beta cut there, most recent first.
type KillerMoveTableT [MaxPly][NKillersPerDepth]chess.Move

func (kt *KillerMoveTableT) addKillerMove(move chess.Move, depthFromRoot int) {
	if move == chess.NoMove || depthFromRoot >= MaxPly {
		return
	}
	killers := &kt[depthFromRoot]
	if killers[0] == move {
		return
	}
	// An existing entry only moves to the front; otherwise the oldest drops off.
	last := NKillersPerDepth - 1
	if i := kt.killerMoveIndex(move, depthFromRoot); i != MoveNotFound {
		last = i
	}
	copy(killers[1:last+1], killers[:last])
	killers[0] = move
}

func (kt *KillerMoveTableT) killerMoveIndex(move chess.Move, depthFromRoot int) int {
	if depthFromRoot >= MaxPly {
		return MoveNotFound
	}
	for i, k := range kt[depthFromRoot] {
		if k == move {
			return i
		}
	}
	return MoveNotFound
}
