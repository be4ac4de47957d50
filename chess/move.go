package chess

// Move packs everything Make needs into 32 bits:
//
//	bits 0-5   from square
//	bits 6-11  to square
//	bits 12-14 moving piece type
//	bits 15-17 promotion piece type
//	bits 18-20 captured piece type
//	bits 21-24 flags
type Move uint32

const NoMove Move = 0

const (
	FlagCapture Move = 1 << (21 + iota)
	FlagEnPassant
	FlagCastle
	FlagDoublePush
)

// MaxMoves bounds the number of legal moves in any chess position.
const MaxMoves = 256

func NewMove(from, to Square, pt PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(pt)<<12
}

func (m Move) From() Square                    { return Square(m & 0x3f) }
func (m Move) To() Square                      { return Square((m >> 6) & 0x3f) }
func (m Move) Piece() PieceType                { return PieceType((m >> 12) & 7) }
func (m Move) Promotion() PieceType            { return PieceType((m >> 15) & 7) }
func (m Move) Captured() PieceType             { return PieceType((m >> 18) & 7) }
func (m Move) IsCapture() bool                 { return m&FlagCapture != 0 }
func (m Move) IsEnPassant() bool               { return m&FlagEnPassant != 0 }
func (m Move) IsCastle() bool                  { return m&FlagCastle != 0 }
func (m Move) IsDoublePush() bool              { return m&FlagDoublePush != 0 }
func (m Move) IsPromotion() bool               { return m.Promotion() != NoPieceType }
func (m Move) withPromotion(pt PieceType) Move { return m | Move(pt)<<15 }
func (m Move) withCapture(pt PieceType) Move   { return m | Move(pt)<<18 | FlagCapture }

// IsQuiet is true for moves that neither capture nor promote.
func (m Move) IsQuiet() bool { return m&FlagCapture == 0 && !m.IsPromotion() }

// String renders the move in UCI long algebraic notation, "0000" for NoMove.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += m.Promotion().String()
	}
	return s
}

// MoveList is a fixed capacity move buffer so generation never allocates.
type MoveList struct {
	Moves [MaxMoves]Move
	Len   int
}

func (ml *MoveList) Add(m Move) {
	if ml.Len >= MaxMoves {
		panic("chess: move list overflow")
	}
	ml.Moves[ml.Len] = m
	ml.Len++
}

func (ml *MoveList) Clear() { ml.Len = 0 }

func (ml *MoveList) Slice() []Move { return ml.Moves[:ml.Len] }

func (ml *MoveList) Contains(m Move) bool {
	for _, mv := range ml.Slice() {
		if mv == m {
			return true
		}
	}
	return false
}
