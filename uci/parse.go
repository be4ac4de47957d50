package uci

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/0xflick/pounce/chess"
	"github.com/0xflick/pounce/engine"
)

var ErrMalformed = errors.New("uci: malformed command")

// GoCommand is a parsed "go" line. Perft is non-zero for "go perft N".
type GoCommand struct {
	Limits engine.Limits
	Perft  int
}

// parsePosition parses the arguments of "position". The returned keys are
// those of the positions since the last irreversible move, oldest first.
func parsePosition(args []string) (*chess.Position, []uint64, error) {
	if len(args) == 0 {
		return nil, nil, fmt.Errorf("%w: position needs startpos or fen", ErrMalformed)
	}
	var (
		pos  *chess.Position
		rest []string
	)
	switch args[0] {
	case "startpos":
		pos, rest = chess.NewPosition(), args[1:]
	case "fen":
		end := len(args)
		for i, a := range args {
			if a == "moves" {
				end = i
				break
			}
		}
		fields := args[1:end]
		// Clocks are often left off.
		if len(fields) == 4 {
			fields = append(append([]string(nil), fields...), "0", "1")
		}
		var err error
		if pos, err = chess.ParseFEN(strings.Join(fields, " ")); err != nil {
			return nil, nil, err
		}
		rest = args[end:]
	default:
		return nil, nil, fmt.Errorf("%w: position %q", ErrMalformed, args[0])
	}

	if len(rest) == 0 {
		return pos, nil, nil
	}
	if rest[0] != "moves" {
		return nil, nil, fmt.Errorf("%w: unexpected %q", ErrMalformed, rest[0])
	}
	var game []uint64
	for _, mv := range rest[1:] {
		key := pos.Key()
		if _, err := pos.MakeUCI(mv); err != nil {
			return nil, nil, err
		}
		game = append(game, key)
		if pos.HalfmoveClock() == 0 {
			game = game[:0]
		}
	}
	return pos, game, nil
}

func parseGo(args []string) (GoCommand, error) {
	var cmd GoCommand
	l := &cmd.Limits
	for i := 0; i < len(args); i++ {
		key := args[i]
		switch key {
		case "infinite":
			l.Infinite = true
			continue
		case "ponder":
			continue
		case "searchmoves":
			return cmd, fmt.Errorf("%w: searchmoves is not supported", ErrMalformed)
		}

		if i+1 >= len(args) {
			return cmd, fmt.Errorf("%w: go %s needs a value", ErrMalformed, key)
		}
		i++
		val, err := strconv.ParseInt(args[i], 10, 64)
		if err != nil {
			return cmd, fmt.Errorf("%w: go %s %q", ErrMalformed, key, args[i])
		}
		ms := time.Duration(val) * time.Millisecond
		// A flagged clock still gets a minimal budget rather than none.
		if ms <= 0 {
			ms = time.Millisecond
		}
		switch key {
		case "depth":
			l.Depth = int(val)
		case "nodes":
			l.Nodes = uint64(val)
		case "movetime":
			l.MoveTime = ms
		case "wtime":
			l.WTime = ms
		case "btime":
			l.BTime = ms
		case "winc":
			l.WInc = time.Duration(val) * time.Millisecond
		case "binc":
			l.BInc = time.Duration(val) * time.Millisecond
		case "movestogo":
			l.MovesToGo = int(val)
		case "perft":
			cmd.Perft = int(val)
		default:
			return cmd, fmt.Errorf("%w: unknown go parameter %q", ErrMalformed, key)
		}
		if val < 0 && (key == "depth" || key == "nodes" || key == "perft" || key == "movestogo") {
			return cmd, fmt.Errorf("%w: go %s %d", ErrMalformed, key, val)
		}
	}
	return cmd, nil
}

// parseSetOption splits "name <words...> value <words...>". Option names may contain spaces.
func parseSetOption(args []string) (name, value string, err error) {
	if len(args) < 2 || args[0] != "name" {
		return "", "", fmt.Errorf("%w: setoption needs a name", ErrMalformed)
	}
	end := len(args)
	for i, a := range args {
		if a == "value" {
			end = i
			break
		}
	}
	name = strings.Join(args[1:end], " ")
	if end < len(args) {
		value = strings.Join(args[end+1:], " ")
	}
	if name == "" {
		return "", "", fmt.Errorf("%w: setoption needs a name", ErrMalformed)
	}
	return name, value, nil
}
