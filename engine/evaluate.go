package engine

import (
	"math/bits"

	"github.com/0xflick/pounce/chess"
)

// Piece values, middle game and end game
var pieceValsMg = [7]EvalCp{0, 100, 310, 320, 500, 950, 0}
var pieceValsEg = [7]EvalCp{0, 120, 290, 320, 540, 980, 0}

// Contribution of each piece type to the game phase; 24 is the full starting army.
var phaseInc = [7]int{0, 0, 1, 1, 2, 4, 0}

const maxPhase = 24

// Position tables from white's perspective, index 0 is A1 and index 63 is H8.
// Black looks up the vertically mirrored square.
// Middle game tables stolen from SunFish.
var pawnPosVals = [64]int8{
	0, 0, 0, 0, 0, 0, 0, 0,
	-31, 8, -7, -37, -36, -14, 3, -31,
	-22, 9, 5, -11, -10, -2, 3, -19,
	-26, 3, 10, 9, 6, 1, 0, -23,
	-17, 16, -2, 15, 14, 0, 15, -13,
	7, 29, 21, 44, 40, 31, 44, 7,
	78, 83, 86, 73, 102, 82, 85, 90,
	0, 0, 0, 0, 0, 0, 0, 0}

var knightPosVals = [64]int8{
	-74, -23, -26, -24, -19, -35, -22, -69,
	-23, -15, 2, 0, 2, 0, -23, -20,
	-18, 10, 13, 22, 18, 15, 11, -14,
	-1, 5, 31, 21, 22, 35, 2, 0,
	24, 24, 45, 37, 33, 41, 25, 17,
	10, 67, 1, 74, 73, 27, 62, -2,
	-3, -6, 100, -36, 4, 62, -4, -14,
	-66, -53, -75, -75, -10, -55, -58, -70}

var bishopPosVals = [64]int8{
	-7, 2, -15, -12, -14, -15, -10, -10,
	19, 20, 11, 6, 7, 6, 20, 16,
	14, 25, 24, 15, 8, 25, 20, 15,
	13, 10, 17, 23, 17, 16, 0, 7,
	25, 17, 20, 34, 26, 25, 15, 10,
	-9, 39, -32, 41, 52, -10, 28, -14,
	-11, 20, 35, -42, -39, 31, 2, -22,
	-59, -78, -82, -76, -23, -107, -37, -50}

var rookPosVals = [64]int8{
	-30, -24, -18, 5, -2, -18, -31, -32,
	-53, -38, -31, -26, -29, -43, -44, -53,
	-42, -28, -42, -25, -25, -35, -26, -46,
	-28, -35, -16, -21, -13, -29, -46, -30,
	0, 5, 16, 13, 18, -4, -9, -6,
	19, 35, 28, 33, 45, 27, 25, 15,
	55, 29, 56, 67, 55, 62, 34, 60,
	35, 29, 33, 4, 37, 33, 56, 50}

var queenPosVals = [64]int8{
	-39, -30, -31, -13, -31, -36, -34, -42,
	-36, -18, 0, -19, -15, -15, -21, -38,
	-30, -6, -13, -11, -16, -11, -16, -27,
	-14, -15, -2, -5, -1, -10, -20, -22,
	1, -16, 22, 17, 25, 20, -13, -6,
	-2, 43, 32, 60, 72, 63, 43, 2,
	14, 32, 60, -10, 20, 76, 57, 24,
	6, 1, -8, -104, 69, 24, 88, 26}

var kingPosVals = [64]int8{
	17, 30, -3, -14, 6, -1, 40, 18,
	-4, 3, -14, -50, -57, -18, 13, 4,
	-47, -42, -43, -79, -64, -32, -29, -32,
	-55, -43, -52, -28, -51, -47, -8, -50,
	-55, 50, 11, -4, -19, 13, 0, -49,
	-62, 12, -57, 44, -67, 28, 37, -31,
	-32, 10, 55, 56, 56, 55, 10, 3,
	4, 54, 47, -99, -99, 60, 83, -62}

// From - https://chessprogramming.wikispaces.com/Simplified+evaluation+function
var kingEndgamePosVals = [64]int8{
	-50, -30, -30, -30, -30, -30, -30, -50,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-50, -40, -30, -20, -20, -30, -40, -50}

var piecePosVals = [7]*[64]int8{
	nil,
	&pawnPosVals,
	&knightPosVals,
	&bishopPosVals,
	&rookPosVals,
	&queenPosVals,
	&kingPosVals}

// Passed pawn bonus by relative rank
var passedPawnMg = [8]EvalCp{0, 5, 7, 13, 20, 28, 37, 0}
var passedPawnEg = [8]EvalCp{0, 10, 15, 30, 50, 80, 120, 0}

// Bonus for pawns protecting pawns
const pProtPawnVal = 10

// Bonus for pawns protecting pieces
const pProtPieceVal = 7

// Penalty per doubled pawn
const doubledPawnPenalty = -15

// Penalty per pawn with no friendly pawn on a neighbouring file
const isolatedPawnPenalty = -12

const bishopPairMg = 30
const bishopPairEg = 50

// Bonus for pieces and pawns sheltering a castled king
const kingProtectorVal = 8
const kingPawnProtectorVal = 11

// Shelter squares for a white king castled on either wing
const (
	qSideShelter chess.Bitboard = 0x070700
	kSideShelter chess.Bitboard = 0xe0e000
)

type evalTerms struct {
	mg, eg EvalCp
}

// Evaluate is the static eval - no mate checks - from the perspective of the player to move.
func Evaluate(p *chess.Position) EvalCp {
	var terms [2]evalTerms
	phase := 0
	for c := chess.White; c <= chess.Black; c++ {
		t := &terms[c]
		for pt := chess.Pawn; pt <= chess.King; pt++ {
			for b := p.Pieces(c, pt); b != 0; {
				sq := relativeSquare(c, b.PopLSB())
				t.mg += pieceValsMg[pt] + EvalCp(piecePosVals[pt][sq])
				switch pt {
				case chess.King:
					t.eg += EvalCp(kingEndgamePosVals[sq])
				case chess.Pawn:
					t.eg += pieceValsEg[pt]
				default:
					t.eg += pieceValsEg[pt] + EvalCp(piecePosVals[pt][sq])/2
				}
				phase += phaseInc[pt]
			}
		}
		pawnExtras(p, c, t)
		kingProtection(p, c, t)
		if p.Pieces(c, chess.Bishop).More() {
			t.mg += bishopPairMg
			t.eg += bishopPairEg
		}
	}
	if phase > maxPhase {
		phase = maxPhase
	}

	mg := terms[chess.White].mg - terms[chess.Black].mg
	eg := terms[chess.White].eg - terms[chess.Black].eg
	eval := (mg*EvalCp(phase) + eg*EvalCp(maxPhase-phase)) / maxPhase

	if p.Side() == chess.Black {
		eval = -eval
	}
	return clampEval(eval)
}

func relativeSquare(c chess.Color, sq chess.Square) chess.Square {
	if c == chess.Black {
		return sq.Flip()
	}
	return sq
}

// relativeBB mirrors a bitboard vertically for black so white-oriented masks apply.
func relativeBB(c chess.Color, bb chess.Bitboard) chess.Bitboard {
	if c == chess.Black {
		return chess.Bitboard(bits.ReverseBytes64(uint64(bb)))
	}
	return bb
}

// Pawn extras for colour c
func pawnExtras(p *chess.Position, c chess.Color, t *evalTerms) {
	pawns := p.Pieces(c, chess.Pawn)
	if pawns == 0 {
		return
	}
	theirPawns := p.Pieces(c.Other(), chess.Pawn)

	// Passed pawns
	passed := pawns &^ chess.PawnScope(c.Other(), theirPawns)
	for b := passed; b != 0; {
		rank := relativeSquare(c, b.PopLSB()).Rank()
		t.mg += passedPawnMg[rank]
		t.eg += passedPawnEg[rank]
	}

	// Pawns and pieces protected by pawns
	pawnAtt := chess.PawnAttacks(c, pawns)
	protPawns := EvalCp((pawnAtt & pawns).Count() * pProtPawnVal)
	pieces := p.ColorBB(c) &^ pawns
	protPieces := EvalCp((pawnAtt & pieces).Count() * pProtPieceVal)
	t.mg += protPawns + protPieces
	t.eg += protPawns

	// Doubled pawns
	var telestop chess.Bitboard
	if c == chess.White {
		telestop = chess.NFill(chess.N(pawns))
	} else {
		telestop = chess.SFill(chess.S(pawns))
	}
	doubled := EvalCp((telestop & pawns).Count() * doubledPawnPenalty)
	t.mg += doubled
	t.eg += doubled

	// Isolated pawns
	files := chess.FileFill(pawns)
	isolated := EvalCp((pawns &^ (chess.E(files) | chess.W(files))).Count() * isolatedPawnPenalty)
	t.mg += isolated
	t.eg += isolated
}

// Naive king protection - count pieces around the king if the king is in the corner.
// Only counts in the middle game.
func kingProtection(p *chess.Position, c chess.Color, t *evalTerms) {
	ksq := relativeSquare(c, p.KingSquare(c))
	var shelter chess.Bitboard
	switch ksq {
	case chess.A1, chess.B1, chess.C1, chess.A2:
		shelter = qSideShelter
	case chess.G1, chess.H1, chess.H2:
		shelter = kSideShelter
	default:
		return
	}
	own := relativeBB(c, p.ColorBB(c)&^p.Pieces(c, chess.King))
	pawns := relativeBB(c, p.Pieces(c, chess.Pawn))
	t.mg += EvalCp((own&shelter).Count()*kingProtectorVal + (pawns&shelter).Count()*kingPawnProtectorVal)
}
