package engine

import (
	"github.com/0xflick/pounce/chess"
)

// Move ordering: TT move, then captures and promotions by MVV-LVA, then
// killers, then the rest by history.
const (
	ttMoveOrder     int32 = 1 << 30
	noisyMoveOrder  int32 = 1 << 29
	killerMoveOrder int32 = 1 << 28
)

var mvvLvaVictim = [7]int32{0, 100, 300, 310, 500, 900, 0}

// Most valuable victim first, least valuable attacker breaks ties
func mvvLva(m chess.Move) int32 {
	score := mvvLvaVictim[m.Captured()]*8 - int32(m.Piece())
	if promo := m.Promotion(); promo != chess.NoPieceType {
		score += mvvLvaVictim[promo]
	}
	return score
}

type movePickerT struct {
	ml     chess.MoveList
	scores [chess.MaxMoves]int32
	next   int
}

func (s *SearchT) orderMoves(mp *movePickerT, ttMove chess.Move, depthFromRoot int) {
	mp.next = 0
	side := s.pos.Side()
	for i, m := range mp.ml.Slice() {
		var order int32
		switch {
		case m == ttMove:
			order = ttMoveOrder
		case !m.IsQuiet():
			order = noisyMoveOrder + mvvLva(m)
		default:
			if k := s.kt.killerMoveIndex(m, depthFromRoot); k != MoveNotFound {
				order = killerMoveOrder - int32(k)
			} else {
				order = s.mh.get(side, m)
			}
		}
		mp.scores[i] = order
	}
}

func orderNoisy(mp *movePickerT, ttMove chess.Move) {
	mp.next = 0
	for i, m := range mp.ml.Slice() {
		if m == ttMove {
			mp.scores[i] = ttMoveOrder
		} else {
			mp.scores[i] = mvvLva(m)
		}
	}
}

// pick returns the best remaining move, or NoMove when exhausted.
func (mp *movePickerT) pick() chess.Move {
	n := mp.ml.Len
	if mp.next >= n {
		return chess.NoMove
	}
	best := mp.next
	for i := mp.next + 1; i < n; i++ {
		if mp.scores[i] > mp.scores[best] {
			best = i
		}
	}
	mp.ml.Moves[mp.next], mp.ml.Moves[best] = mp.ml.Moves[best], mp.ml.Moves[mp.next]
	mp.scores[mp.next], mp.scores[best] = mp.scores[best], mp.scores[mp.next]
	m := mp.ml.Moves[mp.next]
	mp.next++
	return m
}
