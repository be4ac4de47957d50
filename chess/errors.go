package chess

import "fmt"

// FEN fields named by ParseError.
const (
	FieldCount     = "field count"
	FieldPlacement = "piece placement"
	FieldSide      = "side to move"
	FieldCastling  = "castling"
	FieldEnPassant = "en-passant"
	FieldHalfmove  = "halfmove clock"
	FieldFullmove  = "fullmove number"
	FieldMove      = "move"
)

// ParseError reports malformed textual input. Field names the offending part.
type ParseError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("chess: bad %s %q: %s", e.Field, e.Value, e.Reason)
}

// IllegalMoveError is returned for a well-formed move that is not legal in
// the position. The position is left unchanged.
type IllegalMoveError struct {
	Move string
	FEN  string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("chess: illegal move %s in %s", e.Move, e.FEN)
}
