package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/0xflick/pounce/engine"
	"github.com/0xflick/pounce/uci"
)

var VersionString = "0.3 " + runtime.GOOS + "-" + runtime.GOARCH

var logFile = flag.String("log", "", "Debug log file; \"-\" logs to stderr. Empty disables logging.")
var profileMode = flag.String("profile", "", "Profile the session: cpu or mem.")
var hashMB = flag.Int("hash", engine.DefaultOptions().HashMB, "Transposition table size in MB.")
var threads = flag.Int("threads", engine.DefaultOptions().Threads, "Search threads.")

func newLogger(path string) (zerolog.Logger, func(), error) {
	switch path {
	case "":
		return zerolog.Nop(), func() {}, nil
	case "-":
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: f, NoColor: true}).With().Timestamp().Logger()
	return log, func() { f.Close() }, nil
}

func main() {
	flag.Parse()

	log, closeLog, err := newLogger(*logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pounce:", err)
		os.Exit(1)
	}
	defer closeLog()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		fmt.Fprintln(os.Stderr, "pounce: unknown profile mode", *profileMode)
		os.Exit(2)
	}

	opts := engine.DefaultOptions()
	opts.HashMB = *hashMB
	opts.Threads = *threads
	eng := engine.NewEngine(opts)
	eng.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().Str("version", VersionString).Int("hash", opts.HashMB).Int("threads", opts.Threads).Msg("pounce start")
	h := uci.NewHandler(eng, os.Stdout, log)
	h.Name, h.Author = "Pounce "+VersionString, "0xflick"
	if err := h.Run(ctx, os.Stdin); err != nil {
		log.Error().Err(err).Msg("reading commands")
	}
	log.Info().Msg("pounce exit")
}
