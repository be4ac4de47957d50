package engine

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/0xflick/pounce/chess"
)

type Terminal int

const (
	NotTerminal Terminal = iota
	TerminalCheckmate
	TerminalStalemate
)

// Info is reported after every completed iteration of the main search thread.
type Info struct {
	Depth    int
	SelDepth int
	Eval     EvalCp
	Nodes    uint64
	Elapsed  time.Duration
	Hashfull int
	PV       []chess.Move
}

func (i Info) NPS() uint64 {
	ms := uint64(i.Elapsed / time.Millisecond)
	if ms == 0 {
		return 0
	}
	return i.Nodes * 1000 / ms
}

// Result is the outcome of the deepest completed iteration.
// BestMove is NoMove only for terminal positions.
type Result struct {
	BestMove chess.Move
	Eval     EvalCp
	Depth    int
	SelDepth int
	Nodes    uint64
	PV       []chess.Move
	Terminal Terminal
	Elapsed  time.Duration
	Stats    SearchStatsT
}

// Engine owns the transposition table and options shared by successive searches.
// Searches are serialised by searchMu; mu only guards opts and tt, so
// Options and Stop never wait on a running search.
type Engine struct {
	searchMu sync.Mutex

	mu   sync.Mutex
	opts Options
	tt   *TransTable
	stop atomic.Bool
	log  zerolog.Logger
}

func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts, tt: NewTransTable(opts.HashMB), log: zerolog.Nop()}
}

func (e *Engine) SetLogger(l zerolog.Logger) { e.log = l }

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

// SetOption changes one named option; resizing the hash discards its contents.
func (e *Engine) SetOption(name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	oldHash := e.opts.HashMB
	if err := e.opts.SetConfigParam(name, value); err != nil {
		return err
	}
	if e.opts.HashMB != oldHash {
		e.tt = NewTransTable(e.opts.HashMB)
	}
	e.log.Debug().Str("name", name).Str("value", value).Msg("option set")
	return nil
}

// NewGame forgets everything learned in previous searches. It waits for a running search.
func (e *Engine) NewGame() {
	e.searchMu.Lock()
	defer e.searchMu.Unlock()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tt.Clear()
}

// Stop aborts the running search; it still returns its last completed iteration.
func (e *Engine) Stop() { e.stop.Store(true) }

// Search looks for the best move in pos. game holds the keys of the positions
// played before pos, oldest first, for repetition detection. onInfo may be nil.
func (e *Engine) Search(ctx context.Context, pos *chess.Position, game []uint64, limits Limits, onInfo func(Info)) Result {
	e.searchMu.Lock()
	defer e.searchMu.Unlock()
	start := time.Now()
	e.mu.Lock()
	opts, tt := e.opts, e.tt
	e.mu.Unlock()

	var rootMoves chess.MoveList
	pos.LegalMoves(&rootMoves)
	if rootMoves.Len == 0 {
		res := Result{Terminal: TerminalStalemate, Eval: DrawEval}
		if pos.InCheck() {
			res.Terminal, res.Eval = TerminalCheckmate, MatedIn(0)
		}
		return res
	}

	e.stop.Store(false)
	release := context.AfterFunc(ctx, func() { e.stop.Store(true) })
	defer release()
	if ctx.Err() != nil {
		e.stop.Store(true)
	}

	if opts.UseTT {
		tt.NewSearch()
	}
	deadline := Budget(limits, pos.Side(), start, opts.MoveOverhead)
	threads := opts.Threads
	if threads < 1 {
		threads = 1
	}

	var sharedNodes atomic.Uint64
	searches := make([]*SearchT, threads)
	var g errgroup.Group
	for i := range searches {
		s := newSearch(i, pos, game, opts, tt, &e.stop, &sharedNodes, deadline)
		s.rootBest = rootMoves.Moves[0]
		if i == 0 {
			s.nodeLimit = limits.Nodes
			s.singleReply = rootMoves.Len == 1
			s.onDepth = func(it iterationT) {
				info := Info{
					Depth:    it.depth,
					SelDepth: it.selDepth,
					Eval:     it.eval,
					Nodes:    s.totalNodes(),
					Elapsed:  time.Since(start),
					Hashfull: tt.Hashfull(),
					PV:       it.pv,
				}
				e.log.Debug().Int("depth", info.Depth).Int("eval", int(info.Eval)).Uint64("nodes", info.Nodes).
					Str("pv", formatPV(info.PV)).Msg("iteration complete")
				if onInfo != nil {
					onInfo(info)
				}
			}
		}
		searches[i] = s
		g.Go(func() error {
			s.iterate(limits)
			if s.id == 0 {
				// Helpers have no limits of their own.
				e.stop.Store(true)
			}
			return nil
		})
	}
	_ = g.Wait()

	main := searches[0]
	res := Result{
		BestMove: main.completed.best,
		Eval:     main.completed.eval,
		Depth:    main.completed.depth,
		SelDepth: main.completed.selDepth,
		PV:       main.completed.pv,
		Elapsed:  time.Since(start),
	}
	if res.BestMove == chess.NoMove {
		res.BestMove = main.rootBest
		res.PV = []chess.Move{main.rootBest}
	}
	for _, s := range searches {
		res.Stats.add(&s.stats)
	}
	res.Nodes = res.Stats.Nodes
	e.log.Info().Str("bestmove", res.BestMove.String()).Int("depth", res.Depth).Int("eval", int(res.Eval)).
		Uint64("nodes", res.Nodes).Dur("elapsed", res.Elapsed).Int("threads", threads).Msg("search done")
	return res
}

func formatPV(pv []chess.Move) string {
	var sb strings.Builder
	for i, m := range pv {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}

type iterationT struct {
	depth    int
	selDepth int
	eval     EvalCp
	best     chess.Move
	pv       []chess.Move
}

// SearchT is the private state of one search thread.
type SearchT struct {
	id   int
	pos  chess.Position
	opts Options
	tt   *TransTable

	stop        *atomic.Bool
	deadline    Deadline
	nodeLimit   uint64
	sharedNodes *atomic.Uint64
	flushed     uint64
	aborted     bool
	singleReply bool

	history HistoryTableT
	kt      KillerMoveTableT
	mh      MoveHistoryT
	stats   SearchStatsT

	pvLine   [MaxPly + 1][MaxPly + 1]chess.Move
	pvLen    [MaxPly + 1]int
	selDepth int
	rootBest chess.Move

	completed iterationT
	onDepth   func(iterationT)
}

func newSearch(id int, pos *chess.Position, game []uint64, opts Options, tt *TransTable, stop *atomic.Bool, sharedNodes *atomic.Uint64, deadline Deadline) *SearchT {
	s := &SearchT{
		id:          id,
		pos:         *pos,
		opts:        opts,
		tt:          tt,
		stop:        stop,
		sharedNodes: sharedNodes,
		deadline:    deadline,
		history:     make(HistoryTableT, len(game)+MaxPly),
	}
	for _, key := range game {
		s.history.Add(key)
	}
	s.history.Add(pos.Key())
	return s
}

// Checks and records whether the search must stop.
func (s *SearchT) isTimedOut() bool {
	if s.aborted {
		return true
	}
	if s.stop.Load() {
		s.aborted = true
		return true
	}
	if s.nodeLimit > 0 && s.stats.Nodes >= s.nodeLimit {
		s.aborted = true
		return true
	}
	if s.stats.Nodes%checkInterval == 0 {
		s.flushNodes()
		if !s.deadline.Hard.IsZero() && time.Now().After(s.deadline.Hard) {
			s.aborted = true
			s.stop.Store(true)
			return true
		}
	}
	return false
}

func (s *SearchT) flushNodes() {
	s.sharedNodes.Add(s.stats.Nodes - s.flushed)
	s.flushed = s.stats.Nodes
}

func (s *SearchT) totalNodes() uint64 {
	return s.sharedNodes.Load() + s.stats.Nodes - s.flushed
}

// iterate is the iterative deepening driver. Helper threads start on
// staggered depths so they fill the table with different subtrees.
func (s *SearchT) iterate(limits Limits) {
	maxDepth := MaxDepth
	if limits.Depth > 0 && limits.Depth < maxDepth {
		maxDepth = limits.Depth
	}
	var prev EvalCp
	for depth := 1 + s.id%2; depth <= maxDepth; depth++ {
		s.selDepth = 0
		eval := s.aspiration(depth, prev)
		if s.aborted {
			break
		}
		prev = eval

		best := s.rootBest
		pv := []chess.Move{best}
		if s.pvLen[0] > 0 {
			best = s.pvLine[0][0]
			pv = append([]chess.Move(nil), s.pvLine[0][:s.pvLen[0]]...)
		}
		s.completed = iterationT{depth: depth, selDepth: s.selDepth, eval: eval, best: best, pv: pv}

		if s.id != 0 {
			continue
		}
		s.flushNodes()
		if s.onDepth != nil {
			s.onDepth(s.completed)
		}
		if !s.deadline.Soft.IsZero() && (s.singleReply || time.Now().After(s.deadline.Soft)) {
			break
		}
		if s.nodeLimit > 0 && s.stats.Nodes >= s.nodeLimit {
			break
		}
		if s.stop.Load() {
			break
		}
	}
}

// Aspiration windows around the previous iteration's eval, widened on failure.
func (s *SearchT) aspiration(depth int, prev EvalCp) EvalCp {
	alpha, beta := -Infinity, Infinity
	window := EvalCp(aspirationWindow)
	if s.opts.UseAspiration && depth >= aspirationDepth && !IsMateEval(prev) {
		alpha, beta = prev-window, prev+window
	}
	for {
		eval := s.NegAlphaBeta(depth, 0, alpha, beta, true)
		if s.aborted {
			return eval
		}
		switch {
		case eval <= alpha && alpha > -Infinity:
			alpha = eval - window
		case eval >= beta && beta < Infinity:
			beta = eval + window
		default:
			return eval
		}
		window *= 2
		if window > 400 || alpha < -MateBound || beta > MateBound {
			alpha, beta = -Infinity, Infinity
		}
	}
}

func (s *SearchT) updatePV(depthFromRoot int, move chess.Move) {
	s.pvLine[depthFromRoot][0] = move
	n := copy(s.pvLine[depthFromRoot][1:], s.pvLine[depthFromRoot+1][:s.pvLen[depthFromRoot+1]])
	s.pvLen[depthFromRoot] = n + 1
}
