// Package datagen plays engine self-play games and emits one record per searched position.
package datagen

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	nchess "github.com/notnil/chess"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/0xflick/pounce/chess"
	"github.com/0xflick/pounce/engine"
)

type Config struct {
	Games       int
	Concurrency int
	// Per move search limits. At least one should be set.
	Depth int
	Nodes uint64
	// Uniformly random plies played before recording starts.
	RandomPlies int
	// Games still running after MaxPlies searched plies are scored as draws.
	MaxPlies int
	HashMB   int
	// Seed makes the openings reproducible. Zero picks a random seed.
	Seed   uint64
	RunID  string
	Packed bool

	Out io.Writer
	// PGN, when set, receives every finished game.
	PGN io.Writer
	Log zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		Games:       100,
		Concurrency: 1,
		Depth:       8,
		RandomPlies: 8,
		MaxPlies:    400,
		HashMB:      16,
		Log:         zerolog.Nop(),
	}
}

type Summary struct {
	Games     int
	Records   int
	WhiteWins int
	Draws     int
	BlackWins int
}

var ErrConfig = errors.New("datagen: bad config")

// gameT is a finished game, written out as one unit.
type gameT struct {
	index   int
	records []Record
	moves   []chess.Move
	result  WDL
	method  string
}

// Run plays cfg.Games games on cfg.Concurrency workers. Only complete games
// are written; on cancellation the games in flight are dropped and the
// context error is returned with the summary of what was written.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	var sum Summary
	if cfg.Out == nil {
		return sum, fmt.Errorf("%w: no output", ErrConfig)
	}
	if cfg.Depth <= 0 && cfg.Nodes == 0 {
		return sum, fmt.Errorf("%w: need a depth or node limit", ErrConfig)
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.MaxPlies <= 0 {
		cfg.MaxPlies = DefaultConfig().MaxPlies
	}
	if cfg.Seed == 0 {
		cfg.Seed = frand.Uint64n(1<<63-1) + 1
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	log := cfg.Log.With().Str("run", cfg.RunID).Logger()
	log.Info().Int("games", cfg.Games).Int("concurrency", cfg.Concurrency).Int("depth", cfg.Depth).
		Uint64("nodes", cfg.Nodes).Uint64("seed", cfg.Seed).Msg("datagen start")

	jobs := make(chan int)
	results := make(chan gameT)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < cfg.Games; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	workers, wctx := errgroup.WithContext(gctx)
	for w := 0; w < cfg.Concurrency; w++ {
		workers.Go(func() error {
			opts := engine.DefaultOptions()
			if cfg.HashMB > 0 {
				opts.HashMB = cfg.HashMB
			}
			eng := engine.NewEngine(opts)
			for i := range jobs {
				game, err := playGame(wctx, eng, cfg, i)
				if err != nil {
					if wctx.Err() != nil {
						return nil
					}
					return err
				}
				select {
				case results <- game:
				case <-wctx.Done():
					return nil
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(results)
		return workers.Wait()
	})

	out := bufio.NewWriter(cfg.Out)
	enc := NewEncoder(out, cfg.Packed)
	var writeErr error
	for game := range results {
		if writeErr != nil {
			continue
		}
		if writeErr = writeGame(out, enc, cfg, game); writeErr != nil {
			log.Error().Err(writeErr).Msg("write failed")
			continue
		}
		sum.Games++
		sum.Records += len(game.records)
		switch game.result {
		case WhiteWin:
			sum.WhiteWins++
		case BlackWin:
			sum.BlackWins++
		default:
			sum.Draws++
		}
		log.Debug().Int("game", game.index).Int("records", len(game.records)).Str("result", game.result.PGNResult()).
			Str("method", game.method).Msg("game done")
	}
	err := g.Wait()
	if err == nil {
		err = writeErr
	}
	if err == nil {
		err = ctx.Err()
	}
	log.Info().Int("games", sum.Games).Int("records", sum.Records).Int("white", sum.WhiteWins).
		Int("draws", sum.Draws).Int("black", sum.BlackWins).Err(err).Msg("datagen done")
	return sum, err
}

func writeGame(out *bufio.Writer, enc Encoder, cfg Config, game gameT) error {
	for i := range game.records {
		if err := enc.Encode(&game.records[i]); err != nil {
			return err
		}
	}
	if err := out.Flush(); err != nil {
		return err
	}
	if cfg.PGN == nil {
		return nil
	}
	pgn, err := gamePGN(cfg, game)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cfg.PGN, pgn+"\n\n")
	return err
}

// gameRNG is seeded from the run seed and the game index so a game's opening
// does not depend on which worker played it.
func gameRNG(seed uint64, index int) *frand.RNG {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[0:8], seed)
	binary.LittleEndian.PutUint64(key[8:16], uint64(index))
	return frand.NewCustom(key[:], 1024, 12)
}

// playGame plays one self-play game: random opening plies, then searched moves until the game ends.
func playGame(ctx context.Context, eng *engine.Engine, cfg Config, index int) (gameT, error) {
	game := gameT{index: index}
	rng := gameRNG(cfg.Seed, index)
	eng.NewGame()

	pos, moves := randomOpening(rng, cfg.RandomPlies)
	game.moves = moves
	// Threefold repetition counts and the keys since the last irreversible move.
	seen := map[uint64]int{pos.Key(): 1}
	var history []uint64

	limits := engine.Limits{Depth: cfg.Depth, Nodes: cfg.Nodes}
	for ply := 0; ; ply++ {
		if result, method, over := adjudicate(pos, seen); over {
			game.result, game.method = result, method
			break
		}
		if ply >= cfg.MaxPlies {
			game.result, game.method = Draw, "move limit"
			break
		}

		res := eng.Search(ctx, pos, history, limits, nil)
		if err := ctx.Err(); err != nil {
			return game, err
		}
		if res.BestMove == chess.NoMove {
			return game, fmt.Errorf("datagen: no move in non terminal position %s", pos.FEN())
		}
		game.records = append(game.records, Record{Pos: pos.Clone(), Eval: res.Eval, BestMove: res.BestMove, Depth: res.Depth})

		history = append(history, pos.Key())
		pos.Make(res.BestMove)
		game.moves = append(game.moves, res.BestMove)
		if pos.HalfmoveClock() == 0 {
			history = history[:0]
		}
		seen[pos.Key()]++
	}

	for i := range game.records {
		game.records[i].Result = game.result
	}
	return game, nil
}

// randomOpening plays up to plies random legal moves, retrying when it runs into a finished game.
func randomOpening(rng *frand.RNG, plies int) (*chess.Position, []chess.Move) {
	for {
		pos := chess.NewPosition()
		var moves []chess.Move
		var ml chess.MoveList
		for len(moves) < plies {
			pos.LegalMoves(&ml)
			if ml.Len == 0 {
				break
			}
			m := ml.Moves[rng.Intn(ml.Len)]
			pos.Make(m)
			moves = append(moves, m)
		}
		if len(moves) == plies && pos.HasLegalMove() {
			return pos, moves
		}
	}
}

// adjudicate applies the rules of chess: mate, stalemate, threefold repetition,
// the fifty move rule and insufficient material.
func adjudicate(pos *chess.Position, seen map[uint64]int) (WDL, string, bool) {
	if !pos.HasLegalMove() {
		if !pos.InCheck() {
			return Draw, "stalemate", true
		}
		if pos.Side() == chess.White {
			return BlackWin, "checkmate", true
		}
		return WhiteWin, "checkmate", true
	}
	switch {
	case seen[pos.Key()] >= 3:
		return Draw, "threefold repetition", true
	case pos.IsFiftyMoveDraw():
		return Draw, "fifty move rule", true
	case pos.IsInsufficientMaterial():
		return Draw, "insufficient material", true
	}
	return Draw, "", false
}

// gamePGN replays the game through an independent rules implementation and renders it as PGN.
func gamePGN(cfg Config, game gameT) (string, error) {
	g := nchess.NewGame()
	for _, m := range game.moves {
		move, err := nchess.UCINotation{}.Decode(g.Position(), m.String())
		if err == nil {
			err = g.Move(move)
		}
		if err != nil {
			return "", fmt.Errorf("datagen: game %d: replaying %s: %w", game.index, m, err)
		}
	}
	g.AddTagPair("Event", "pounce self-play")
	g.AddTagPair("Site", cfg.RunID)
	g.AddTagPair("Round", strconv.Itoa(game.index+1))
	g.AddTagPair("White", "pounce")
	g.AddTagPair("Black", "pounce")
	if game.method != "" {
		g.AddTagPair("Termination", game.method)
	}
	if g.Outcome() == nchess.NoOutcome {
		switch game.result {
		case WhiteWin:
			g.Resign(nchess.Black)
		case BlackWin:
			g.Resign(nchess.White)
		default:
			if err := g.Draw(nchess.DrawOffer); err != nil {
				return "", err
			}
		}
	}
	return g.String(), nil
}
