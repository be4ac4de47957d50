package datagen

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"

	"github.com/0xflick/pounce/chess"
	"github.com/0xflick/pounce/engine"
)

// WDL is a game result from white's point of view.
type WDL uint8

const (
	BlackWin WDL = iota
	Draw
	WhiteWin
)

func (w WDL) String() string {
	switch w {
	case WhiteWin:
		return "1.0"
	case BlackWin:
		return "0.0"
	}
	return "0.5"
}

// PGNResult is the PGN result token for w.
func (w WDL) PGNResult() string {
	switch w {
	case WhiteWin:
		return "1-0"
	case BlackWin:
		return "0-1"
	}
	return "1/2-1/2"
}

// Record is one searched position of a self-play game.
type Record struct {
	Pos      *chess.Position
	Eval     engine.EvalCp // side to move relative, as searched
	BestMove chess.Move
	Depth    int
	Result   WDL
}

// WhiteEval is the searched eval from white's point of view.
func (r *Record) WhiteEval() engine.EvalCp {
	if r.Pos.Side() == chess.Black {
		return -r.Eval
	}
	return r.Eval
}

// Line formats the record as "FEN | eval | wdl | bestmove | depth", eval and wdl from white's point of view.
func (r *Record) Line() string {
	return fmt.Sprintf("%s | %d | %s | %s | %d", r.Pos.FEN(), r.WhiteEval(), r.Result, r.BestMove, r.Depth)
}

// PackedSize is the size in bytes of a packed record.
const PackedSize = 32

// Packed is the compact binary form of a record, always seen from the side to move:
// the board is flipped when black is to move, so "our" pieces start on the low ranks.
//
//	bytes 0-7   occupancy bitboard, little endian
//	bytes 8-23  one nibble per occupied square in bit order: bit 3 set for their pieces, bits 0-2 piece type - 1
//	bytes 24-25 eval, int16 little endian
//	byte  26    result: 0 loss, 1 draw, 2 win
//	bytes 27-31 zero
type Packed [PackedSize]byte

func (r *Record) Pack() Packed {
	var out Packed
	pos := r.Pos
	us := pos.Side()
	occ := pos.Occupied()
	wdl := r.Result
	if us == chess.Black {
		occ = chess.Bitboard(bits.ReverseBytes64(uint64(occ)))
		wdl = WhiteWin - wdl
	}
	binary.LittleEndian.PutUint64(out[0:8], uint64(occ))

	idx := 0
	for b := occ; b != 0; idx++ {
		sq := b.PopLSB()
		if us == chess.Black {
			sq = sq.Flip()
		}
		pc := pos.PieceAt(sq)
		code := byte(pc.Type() - 1)
		if pc.Color() != us {
			code |= 1 << 3
		}
		// 32 pieces at most, two per byte.
		out[8+idx/2] |= code << (4 * (idx % 2))
	}

	eval := r.Eval
	if eval > 32767 {
		eval = 32767
	} else if eval < -32767 {
		eval = -32767
	}
	binary.LittleEndian.PutUint16(out[24:26], uint16(int16(eval)))
	out[26] = byte(wdl)
	return out
}

// Encoder writes records in text or packed form.
type Encoder interface {
	Encode(r *Record) error
}

type textEncoder struct{ w io.Writer }

func (e textEncoder) Encode(r *Record) error {
	_, err := fmt.Fprintln(e.w, r.Line())
	return err
}

type packedEncoder struct{ w io.Writer }

func (e packedEncoder) Encode(r *Record) error {
	p := r.Pack()
	_, err := e.w.Write(p[:])
	return err
}

// NewEncoder returns a text encoder, or a packed one when packed is set.
func NewEncoder(w io.Writer, packed bool) Encoder {
	if packed {
		return packedEncoder{w}
	}
	return textEncoder{w}
}
