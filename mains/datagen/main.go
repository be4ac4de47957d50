package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/0xflick/pounce/datagen"
)

var defaults = datagen.DefaultConfig()

var games = flag.Int("games", defaults.Games, "Games to play.")
var concurrency = flag.Int("concurrency", defaults.Concurrency, "Games played in parallel.")
var depth = flag.Int("depth", defaults.Depth, "Search depth per move; 0 for none.")
var nodes = flag.Uint64("nodes", 0, "Search node limit per move; 0 for none.")
var randomPlies = flag.Int("random-plies", defaults.RandomPlies, "Random opening plies before recording.")
var maxPlies = flag.Int("max-plies", defaults.MaxPlies, "Searched plies after which a game is drawn.")
var hashMB = flag.Int("hash", defaults.HashMB, "Transposition table size in MB, per worker.")
var seed = flag.Uint64("seed", 0, "Opening seed; 0 picks one at random.")
var outPath = flag.String("out", "-", "Record file; \"-\" for stdout.")
var pgnPath = flag.String("pgn", "", "Also write the games as PGN to this file.")
var packed = flag.Bool("packed", false, "Write 32 byte binary records instead of text.")
var verbose = flag.Bool("v", false, "Log every finished game.")
var doProfile = flag.Bool("profile", false, "Write a cpu profile to the current directory.")

func create(path string) (io.WriteCloser, error) {
	if path == "-" {
		return os.Stdout, nil
	}
	return os.Create(path)
}

func run() error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	if *verbose {
		log = log.Level(zerolog.DebugLevel)
	}

	cfg := datagen.DefaultConfig()
	cfg.Games = *games
	cfg.Concurrency = *concurrency
	cfg.Depth = *depth
	cfg.Nodes = *nodes
	cfg.RandomPlies = *randomPlies
	cfg.MaxPlies = *maxPlies
	cfg.HashMB = *hashMB
	cfg.Seed = *seed
	cfg.Packed = *packed
	cfg.Log = log

	out, err := create(*outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	cfg.Out = out
	if *pgnPath != "" {
		pgn, err := os.Create(*pgnPath)
		if err != nil {
			return err
		}
		defer pgn.Close()
		cfg.PGN = pgn
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := datagen.Run(ctx, cfg)
	if errors.Is(err, context.Canceled) {
		log.Warn().Int("games", sum.Games).Int("records", sum.Records).Msg("interrupted; all written games are complete")
		return nil
	}
	return err
}

func main() {
	flag.Parse()
	if *doProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "datagen:", err)
		os.Exit(1)
	}
}
