package engine

// Eval in centi-pawns, i.e. 100 === 1 pawn, always from the perspective of the side to move
type EvalCp int32

const (
	// MaxPly bounds recursion depth from the root, qsearch included.
	MaxPly = 128
	// MaxDepth is the deepest nominal iteration.
	MaxDepth = 100

	MyCheckMateEval   EvalCp = 32000
	YourCheckMateEval EvalCp = -MyCheckMateEval

	// Anything beyond MateBound in absolute value is a forced mate.
	MateBound EvalCp = MyCheckMateEval - MaxPly

	// Static evals never leave this band so they cannot be mistaken for mates.
	MaxEval EvalCp = 20000

	Infinity EvalCp = MyCheckMateEval + 1

	DrawEval EvalCp = 0
)

// MatedIn is the eval of being checkmated depthFromRoot plies from the root.
func MatedIn(depthFromRoot int) EvalCp { return YourCheckMateEval + EvalCp(depthFromRoot) }

// MateIn is the eval of delivering mate depthFromRoot plies from the root.
func MateIn(depthFromRoot int) EvalCp { return MyCheckMateEval - EvalCp(depthFromRoot) }

func IsMateEval(eval EvalCp) bool { return eval >= MateBound || eval <= -MateBound }

// MateMoves converts a mate eval to full moves, negative when we are being mated.
func MateMoves(eval EvalCp) int {
	if eval > 0 {
		return int(MyCheckMateEval-eval+1) / 2
	}
	return -int(MyCheckMateEval+eval+1) / 2
}

// Mate evals are stored relative to the node rather than the root so that a
// TT hit at a different distance from the root still reports the right mate distance.
func evalToTT(eval EvalCp, depthFromRoot int) EvalCp {
	if eval >= MateBound {
		return eval + EvalCp(depthFromRoot)
	}
	if eval <= -MateBound {
		return eval - EvalCp(depthFromRoot)
	}
	return eval
}

func evalFromTT(eval EvalCp, depthFromRoot int) EvalCp {
	if eval >= MateBound {
		return eval - EvalCp(depthFromRoot)
	}
	if eval <= -MateBound {
		return eval + EvalCp(depthFromRoot)
	}
	return eval
}

func clampEval(eval EvalCp) EvalCp {
	if eval > MaxEval {
		return MaxEval
	}
	if eval < -MaxEval {
		return -MaxEval
	}
	return eval
}
