// Package uci speaks the Universal Chess Interface on a line oriented stream.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/0xflick/pounce/chess"
	"github.com/0xflick/pounce/engine"
)

// Handler owns the game state of one UCI session. Searches run in the
// background so that "stop" and "isready" are answered while thinking.
type Handler struct {
	// Name and Author are reported in reply to "uci".
	Name   string
	Author string

	eng *engine.Engine
	log zerolog.Logger

	outMu sync.Mutex
	out   io.Writer

	pos  *chess.Position
	game []uint64

	cancel   context.CancelFunc
	done     chan struct{}
	infinite bool
}

func NewHandler(eng *engine.Engine, out io.Writer, log zerolog.Logger) *Handler {
	return &Handler{eng: eng, out: out, log: log, pos: chess.NewPosition()}
}

// Run reads commands until "quit" or end of input. At end of input a
// running timed search is allowed to finish; an infinite one is stopped.
func (h *Handler) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if !h.Handle(ctx, scanner.Text()) {
			h.stopSearch()
			return nil
		}
	}
	if h.infinite {
		h.stopSearch()
	}
	h.waitSearch()
	return scanner.Err()
}

func (h *Handler) println(a ...any) {
	h.outMu.Lock()
	defer h.outMu.Unlock()
	fmt.Fprintln(h.out, a...)
}

func (h *Handler) printf(format string, a ...any) {
	h.outMu.Lock()
	defer h.outMu.Unlock()
	fmt.Fprintf(h.out, format, a...)
}

// Handle executes one command line and reports whether the session continues.
func (h *Handler) Handle(ctx context.Context, line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 { // ignore blank lines
		return true
	}
	h.log.Debug().Str("cmd", line).Msg("uci recv")
	args := tokens[1:]
	switch strings.ToLower(tokens[0]) {
	case "uci":
		h.printIdentity()
	case "isready":
		h.println("readyok")
	case "ucinewgame":
		h.stopSearch()
		h.eng.NewGame()
		h.pos, h.game = chess.NewPosition(), nil
	case "setoption":
		name, value, err := parseSetOption(args)
		if err == nil {
			h.stopSearch()
			err = h.eng.SetOption(name, value)
		}
		if err != nil {
			h.fail(line, err)
		}
	case "position":
		pos, game, err := parsePosition(args)
		if err != nil {
			h.fail(line, err)
			return true
		}
		h.pos, h.game = pos, game
	case "go":
		cmd, err := parseGo(args)
		if err != nil {
			h.fail(line, err)
			return true
		}
		h.stopSearch()
		if cmd.Perft > 0 {
			h.perft(cmd.Perft)
			return true
		}
		h.startSearch(ctx, cmd.Limits)
	case "stop":
		h.stopSearch()
	case "quit":
		return false
	case "d":
		h.println(h.pos.FEN())
		h.printf("Key: %016x\n", h.pos.Key())
	case "eval":
		eval := engine.Evaluate(h.pos)
		white := eval
		if h.pos.Side() == chess.Black {
			white = -eval
		}
		h.println("info string eval", eval, "white", white)
	default:
		h.println("info string Unknown command:", line)
	}
	return true
}

func (h *Handler) fail(line string, err error) {
	h.log.Warn().Err(err).Str("cmd", line).Msg("uci command rejected")
	h.println("info string", err)
}

func (h *Handler) printIdentity() {
	h.println("id name", h.Name)
	h.println("id author", h.Author)
	opts := h.eng.Options()
	for _, cp := range engine.GetConfigParams() {
		switch cp.Kind {
		case engine.OptionCheck:
			h.println("option name", cp.Name, "type check default", cp.Get(&opts) != 0)
		default:
			h.println("option name", cp.Name, "type spin default", cp.Get(&opts), "min", cp.Min, "max", cp.Max)
		}
	}
	h.println("uciok")
}

func (h *Handler) perft(depth int) {
	var total uint64
	for _, d := range chess.Divide(h.pos, depth) {
		h.printf("%s: %d\n", d.Move, d.Nodes)
		total += d.Nodes
	}
	h.printf("\nNodes searched: %d\n", total)
}

func (h *Handler) startSearch(ctx context.Context, limits engine.Limits) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	h.cancel, h.done, h.infinite = cancel, done, limits.Infinite

	pos := h.pos.Clone()
	game := append([]uint64(nil), h.game...)
	go func() {
		defer close(done)
		res := h.eng.Search(ctx, pos, game, limits, h.printInfo)
		// In infinite mode the best move is only reported once the GUI says stop.
		if limits.Infinite {
			<-ctx.Done()
		}
		if h.eng.Options().DumpStats {
			h.outMu.Lock()
			res.Stats.Dump(h.out, res.Depth)
			h.outMu.Unlock()
		}
		h.println("bestmove", res.BestMove)
	}()
}

// stopSearch cancels the running search, if any, and waits for its bestmove.
func (h *Handler) stopSearch() {
	if h.cancel != nil {
		h.cancel()
	}
	h.waitSearch()
}

func (h *Handler) waitSearch() {
	if h.done == nil {
		return
	}
	<-h.done
	h.cancel()
	h.cancel, h.done, h.infinite = nil, nil, false
}

func (h *Handler) printInfo(info engine.Info) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d seldepth %d ", info.Depth, info.SelDepth)
	if engine.IsMateEval(info.Eval) {
		fmt.Fprintf(&sb, "score mate %d", engine.MateMoves(info.Eval))
	} else {
		fmt.Fprintf(&sb, "score cp %d", info.Eval)
	}
	fmt.Fprintf(&sb, " nodes %d nps %d time %d hashfull %d pv",
		info.Nodes, info.NPS(), info.Elapsed.Milliseconds(), info.Hashfull)
	for _, m := range info.PV {
		sb.WriteByte(' ')
		sb.WriteString(m.String())
	}
	h.println(sb.String())
}
