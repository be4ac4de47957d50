package engine

import (
	"github.com/0xflick/pounce/chess"
)

// QSearchNegAlphaBeta resolves captures and promotions until the position is
// quiet. When in check every evasion is searched and there is no stand pat.
func (s *SearchT) QSearchNegAlphaBeta(qDepth, depthFromRoot int, alpha, beta EvalCp) EvalCp {
	s.pvLen[depthFromRoot] = 0
	s.stats.Nodes++
	s.stats.QNodes++
	if s.isTimedOut() {
		return DrawEval
	}
	if depthFromRoot > s.selDepth {
		s.selDepth = depthFromRoot
	}
	if depthFromRoot >= MaxPly-1 {
		return Evaluate(&s.pos)
	}
	if s.pos.IsInsufficientMaterial() {
		return DrawEval
	}

	key := s.pos.Key()
	ttMove, ttEval, ttCut := s.probeTT(key, 0, depthFromRoot, alpha, beta, beta-alpha == 1)
	if ttCut {
		return ttEval
	}

	origAlpha := alpha
	isInCheck := s.pos.InCheck()
	bestEval := -Infinity

	if !isInCheck {
		// Stand pat: the side to move is assumed to have at least one quiet move that keeps the static eval.
		standPat := Evaluate(&s.pos)
		if standPat >= beta {
			s.stats.QPatCuts++
			return standPat
		}
		bestEval = standPat
		if standPat > alpha {
			alpha = standPat
		}
		if qDepth >= s.opts.QSearchDepth {
			s.stats.QPrunes++
			return standPat
		}
	}

	var mp movePickerT
	s.pos.NoisyMoves(&mp.ml)
	if mp.ml.Len == 0 {
		if isInCheck {
			s.stats.QMates++
			return MatedIn(depthFromRoot)
		}
		s.stats.QPats++
		return bestEval
	}
	orderNoisy(&mp, ttMove)

	bestMove := chess.NoMove
	for move := mp.pick(); move != chess.NoMove; move = mp.pick() {
		undo := s.pos.Make(move)
		eval := -s.QSearchNegAlphaBeta(qDepth+1, depthFromRoot+1, -beta, -alpha)
		s.pos.Unmake(undo)
		if s.aborted {
			return DrawEval
		}

		if eval <= bestEval {
			continue
		}
		bestEval, bestMove = eval, move
		if eval > alpha {
			alpha = eval
			s.updatePV(depthFromRoot, move)
			if eval >= beta {
				break
			}
		}
	}
	if bestMove == chess.NoMove {
		s.stats.QPats++
	}

	s.updateTt(key, 0, depthFromRoot, origAlpha, beta, bestEval, bestMove)
	return bestEval
}
