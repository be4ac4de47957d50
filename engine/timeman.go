package engine

import (
	"time"

	"github.com/0xflick/pounce/chess"
)

// Limits is everything a caller may constrain a search by. Zero fields are unset.
type Limits struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
	Infinite  bool
}

// Deadline holds the soft and hard stop times of one search. A zero time means no limit.
// Past Soft no new iteration is started; past Hard the running iteration is abandoned.
type Deadline struct {
	Soft time.Time
	Hard time.Time
}

const defaultMovesToGo = 25

// Never plan on less than this, even when the clock is nearly flagged.
const minThinkTime = 5 * time.Millisecond

// Budget converts limits into deadlines for the side to move, starting at start.
func Budget(l Limits, side chess.Color, start time.Time, overhead time.Duration) Deadline {
	if l.Infinite {
		return Deadline{}
	}
	if l.MoveTime > 0 {
		t := l.MoveTime - overhead
		if t < minThinkTime {
			t = minThinkTime
		}
		end := start.Add(t)
		return Deadline{Soft: end, Hard: end}
	}

	remaining, inc := l.WTime, l.WInc
	if side == chess.Black {
		remaining, inc = l.BTime, l.BInc
	}
	if remaining <= 0 {
		return Deadline{}
	}

	avail := remaining - overhead
	if avail < minThinkTime {
		avail = minThinkTime
	}
	mtg := l.MovesToGo
	if mtg <= 0 {
		mtg = defaultMovesToGo
	}
	target := avail/time.Duration(mtg) + inc*3/4
	hard := 3 * target
	if limit := avail * 3 / 4; hard > limit {
		hard = limit
	}
	soft := target
	if soft > hard {
		soft = hard
	}
	if soft < minThinkTime {
		soft = minThinkTime
	}
	if hard < soft {
		hard = soft
	}
	return Deadline{Soft: start.Add(soft), Hard: start.Add(hard)}
}
