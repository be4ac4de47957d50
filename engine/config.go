package engine

import (
	"time"
)

// Options are the engine switches. Searches read a snapshot taken when they start.
type Options struct {
	HashMB       int
	Threads      int
	MoveOverhead time.Duration

	UseTT          bool
	UseNullMove    bool
	UseLMR         bool
	UseAspiration  bool
	UseCheckExtend bool
	QSearchDepth   int

	// DumpStats asks the front end to print Result.Stats after each search.
	DumpStats bool
}

func DefaultOptions() Options {
	return Options{
		HashMB:         16,
		Threads:        1,
		MoveOverhead:   30 * time.Millisecond,
		UseTT:          true,
		UseNullMove:    true,
		UseLMR:         true,
		UseAspiration:  true,
		UseCheckExtend: true,
		QSearchDepth:   12,
	}
}

const (
	maxHashMB  = 4096
	maxThreads = 256

	// Stop flag and clocks are polled every checkInterval nodes.
	checkInterval = 1024

	aspirationDepth  = 5
	aspirationWindow = 25

	nullMoveMinDepth = 3
	lmrMinDepth      = 3
	lmrMinMoves      = 3
)
