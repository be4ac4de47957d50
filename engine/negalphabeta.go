package engine

import (
	"github.com/0xflick/pounce/chess"
)

// Return the TT move hint and, if the entry is deep enough and its bound
// settles the window, the eval to cut with.
func (s *SearchT) probeTT(key uint64, depthToGo, depthFromRoot int, alpha, beta EvalCp, canCut bool) (chess.Move, EvalCp, bool) {
	if !s.opts.UseTT {
		return chess.NoMove, 0, false
	}
	ttEntry, ok := s.tt.Probe(key)
	if !ok {
		return chess.NoMove, 0, false
	}
	s.stats.TTHits++
	if !canCut || ttEntry.Depth < depthToGo {
		return ttEntry.Move, 0, false
	}
	eval := evalFromTT(ttEntry.Eval, depthFromRoot)
	switch ttEntry.Bound {
	case TTEvalExact:
	case TTEvalLowerBound:
		if eval < beta {
			return ttEntry.Move, 0, false
		}
	case TTEvalUpperBound:
		if eval > alpha {
			return ttEntry.Move, 0, false
		}
	}
	s.stats.TTCuts++
	return ttEntry.Move, eval, true
}

func (s *SearchT) updateTt(key uint64, depthToGo, depthFromRoot int, origAlpha, beta, bestEval EvalCp, bestMove chess.Move) {
	if !s.opts.UseTT {
		return
	}
	evalType := TTEvalExact
	if beta <= bestEval {
		evalType = TTEvalLowerBound
	} else if bestEval <= origAlpha {
		evalType = TTEvalUpperBound
		// All moves failed low so none of them is known to be best.
		bestMove = chess.NoMove
	}
	s.tt.Store(key, depthToGo, evalToTT(bestEval, depthFromRoot), evalType, bestMove)
}

// Return null-move eval, and whether it can be trusted to cut.
// The null move result is verified by a reduced search without the null
// move so zugzwang positions do not cut wrongly.
func (s *SearchT) nullMove(depthToGo, depthFromRoot int, beta EvalCp) (EvalCp, bool) {
	s.stats.NullMoveTries++
	r := 2 + depthToGo/4
	undo := s.pos.MakeNull()
	eval := -s.NegAlphaBeta(depthToGo-1-r, depthFromRoot+1, -beta, -beta+1, false)
	s.pos.UnmakeNull(undo)
	if s.aborted || eval < beta {
		return 0, false
	}
	// Don't claim a mate we never saw.
	if eval >= MateBound {
		eval = beta
	}

	verify := s.NegAlphaBeta(depthToGo-1-r, depthFromRoot, beta-1, beta, false)
	if s.aborted {
		return 0, false
	}
	if verify < beta {
		s.stats.NullMoveFails++
		return 0, false
	}
	s.stats.NullMoveCuts++
	return eval, true
}

// isDrawn reports draws by repetition, the fifty move rule and insufficient material.
// Checkmate on the hundredth half move still counts as mate.
func (s *SearchT) isDrawn(key uint64) bool {
	if s.history.IsRepeat(key) {
		s.stats.PosRepetitions++
		return true
	}
	if s.pos.IsFiftyMoveDraw() {
		return !s.pos.InCheck() || s.pos.HasLegalMove()
	}
	return s.pos.IsInsufficientMaterial()
}

// NegAlphaBeta returns the fail-soft negamax eval of the current position from
// the side to move's perspective, and leaves the principal variation in s.pvLine[depthFromRoot].
func (s *SearchT) NegAlphaBeta(depthToGo, depthFromRoot int, alpha, beta EvalCp, allowNull bool) EvalCp {
	s.pvLen[depthFromRoot] = 0
	if depthToGo <= 0 {
		return s.QSearchNegAlphaBeta(0, depthFromRoot, alpha, beta)
	}

	s.stats.Nodes++
	if s.isTimedOut() {
		return DrawEval
	}
	if depthFromRoot > s.selDepth {
		s.selDepth = depthFromRoot
	}

	isRoot := depthFromRoot == 0
	isPvNode := beta-alpha > 1
	key := s.pos.Key()

	if !isRoot {
		if s.isDrawn(key) {
			return DrawEval
		}
		if depthFromRoot >= MaxPly-1 {
			return Evaluate(&s.pos)
		}
		// Mate distance pruning: no line from here can beat a mate already found nearer the root.
		if mated := MatedIn(depthFromRoot); alpha < mated {
			alpha = mated
		}
		if mate := MateIn(depthFromRoot + 1); beta > mate {
			beta = mate
		}
		if alpha >= beta {
			return alpha
		}
	}

	ttMove, ttEval, ttCut := s.probeTT(key, depthToGo, depthFromRoot, alpha, beta, !isPvNode && !isRoot)
	if ttCut {
		return ttEval
	}

	isInCheck := s.pos.InCheck()
	if isInCheck && s.opts.UseCheckExtend {
		depthToGo++
	}

	if allowNull && s.opts.UseNullMove && !isPvNode && !isInCheck && depthToGo >= nullMoveMinDepth &&
		!IsMateEval(beta) && s.pos.HasNonPawnMaterial(s.pos.Side()) && Evaluate(&s.pos) >= beta {
		if eval, ok := s.nullMove(depthToGo, depthFromRoot, beta); ok {
			return eval
		}
		if s.aborted {
			return DrawEval
		}
	}

	var mp movePickerT
	s.pos.LegalMoves(&mp.ml)
	if mp.ml.Len == 0 {
		s.stats.Mates++
		if isInCheck {
			return MatedIn(depthFromRoot)
		}
		return DrawEval
	}
	s.stats.nonLeafAt(depthFromRoot)
	s.orderMoves(&mp, ttMove, depthFromRoot)

	origAlpha := alpha
	side := s.pos.Side()
	bestEval, bestMove := -Infinity, chess.NoMove

	for n := 0; ; n++ {
		move := mp.pick()
		if move == chess.NoMove {
			break
		}
		isKiller := s.kt.killerMoveIndex(move, depthFromRoot) != MoveNotFound

		undo := s.pos.Make(move)
		childKey := s.pos.Key()
		s.history.Add(childKey)
		givesCheck := s.pos.InCheck()

		var eval EvalCp
		if n == 0 {
			eval = -s.NegAlphaBeta(depthToGo-1, depthFromRoot+1, -beta, -alpha, true)
		} else {
			reduction := 0
			if s.opts.UseLMR && depthToGo >= lmrMinDepth && n >= lmrMinMoves &&
				move.IsQuiet() && !isInCheck && !givesCheck && !isKiller {
				reduction = 1
				if n >= 6 && depthToGo >= 6 {
					reduction = 2
				}
				if reduction > depthToGo-2 {
					reduction = depthToGo - 2
				}
				s.stats.LMRSearches++
			}
			eval = -s.NegAlphaBeta(depthToGo-1-reduction, depthFromRoot+1, -alpha-1, -alpha, true)
			if reduction > 0 && eval > alpha && !s.aborted {
				s.stats.LMRReSearches++
				eval = -s.NegAlphaBeta(depthToGo-1, depthFromRoot+1, -alpha-1, -alpha, true)
			}
			if eval > alpha && eval < beta && !s.aborted {
				s.stats.PVSReSearches++
				eval = -s.NegAlphaBeta(depthToGo-1, depthFromRoot+1, -beta, -alpha, true)
			}
		}

		s.history.Remove(childKey)
		s.pos.Unmake(undo)
		if s.aborted {
			return DrawEval
		}

		// Note - this MUST be strictly > because we fail-soft at the current best eval.
		if eval <= bestEval {
			continue
		}
		bestEval, bestMove = eval, move
		if isRoot {
			s.rootBest = move
		}
		if eval <= alpha {
			continue
		}
		alpha = eval
		s.updatePV(depthFromRoot, move)

		if eval >= beta {
			s.stats.CutNodes++
			s.stats.CutNodeChildren += uint64(n + 1)
			if n == 0 {
				s.stats.FirstChildCuts++
			}
			if move == ttMove {
				s.stats.TTMoveCuts++
			}
			if move.IsQuiet() {
				if isKiller {
					s.stats.KillerCuts++
				}
				s.kt.addKillerMove(move, depthFromRoot)
				s.mh.add(side, move, depthToGo)
			}
			break
		}
	}

	if bestEval <= origAlpha {
		s.stats.AllChildrenNodes++
	}
	s.updateTt(key, depthToGo, depthFromRoot, origAlpha, beta, bestEval, bestMove)
	return bestEval
}
