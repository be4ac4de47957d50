package chess

var (
	zobristPiece     [16][64]uint64
	zobristCastle    [16]uint64
	zobristEPFile    [8]uint64
	zobristBlackMove uint64
)

func init() {
	rng := newTableRNG(1)
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			p := MakePiece(c, pt)
			for sq := 0; sq < 64; sq++ {
				zobristPiece[p][sq] = randUint64(rng)
			}
		}
	}
	for i := range zobristCastle {
		zobristCastle[i] = randUint64(rng)
	}
	zobristCastle[0] = 0
	for i := range zobristEPFile {
		zobristEPFile[i] = randUint64(rng)
	}
	zobristBlackMove = randUint64(rng)
}

// ComputeKey recomputes the Zobrist key from scratch. Make and Unmake keep
// Key() equal to this value at all times.
func (p *Position) ComputeKey() uint64 {
	var key uint64
	for sq := A1; sq <= H8; sq++ {
		if pc := p.board[sq]; pc != NoPiece {
			key ^= zobristPiece[pc][sq]
		}
	}
	key ^= zobristCastle[p.castling]
	key ^= p.epKey()
	if p.side == Black {
		key ^= zobristBlackMove
	}
	return key
}
