package chess

// Color is the side owning a piece.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// PieceType is a colourless piece kind. NoPieceType is 0 so the zero value of
// arrays indexed by type means "empty".
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeChars = [...]byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}

func (pt PieceType) String() string { return string(pieceTypeChars[pt]) }

// Piece is a coloured piece: colour in bit 3, type in bits 0-2.
type Piece uint8

const NoPiece Piece = 0

func MakePiece(c Color, pt PieceType) Piece { return Piece(c)<<3 | Piece(pt) }

func (p Piece) Type() PieceType { return PieceType(p & 7) }
func (p Piece) Color() Color    { return Color(p >> 3) }

// Char returns the FEN letter for the piece.
func (p Piece) Char() byte {
	ch := pieceTypeChars[p.Type()]
	if p.Color() == White {
		return ch - 'a' + 'A'
	}
	return ch
}

func pieceFromChar(ch byte) (Piece, bool) {
	for pt := Pawn; pt <= King; pt++ {
		switch ch {
		case pieceTypeChars[pt]:
			return MakePiece(Black, pt), true
		case pieceTypeChars[pt] - 'a' + 'A':
			return MakePiece(White, pt), true
		}
	}
	return NoPiece, false
}

// Square indexes the board with a1 = 0 and h8 = 63.
type Square uint8

const NoSquare Square = 64

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

func NewSquare(file, rank int) Square { return Square(rank*8 + file) }

func (s Square) File() int { return int(s & 7) }
func (s Square) Rank() int { return int(s >> 3) }

// Flip mirrors the square vertically (a1 <-> a8).
func (s Square) Flip() Square { return s ^ 56 }

func (s Square) String() string {
	if s >= NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

func parseSquare(s string) (Square, bool) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, false
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), true
}

// CastleRights is a 4-bit set of castling permissions.
type CastleRights uint8

const (
	WhiteKingSide CastleRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastleRights = 0
	AllCastling              = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

func (cr CastleRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var b []byte
	for i, ch := range []byte("KQkq") {
		if cr&(1<<i) != 0 {
			b = append(b, ch)
		}
	}
	return string(b)
}
