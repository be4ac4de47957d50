package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/0xflick/pounce/chess"
)

func TestSetConfigParam(t *testing.T) {
	o := DefaultOptions()
	tests := []struct {
		name, value string
		err         error
	}{
		{"Hash", "64", nil},
		{"threads", "4", nil},
		{"Move Overhead", "100", nil},
		{"UseNullMove", "false", nil},
		{"uselmr", "0", nil},
		{"Hash", "0", ErrOptionValue},
		{"Hash", "lots", ErrOptionValue},
		{"UseTT", "maybe", ErrOptionValue},
		{"Ponder", "true", ErrUnknownOption},
	}
	for _, tc := range tests {
		err := o.SetConfigParam(tc.name, tc.value)
		if !errors.Is(err, tc.err) {
			t.Errorf("SetConfigParam(%q, %q) = %v, want %v", tc.name, tc.value, err, tc.err)
		}
	}
	if o.HashMB != 64 || o.Threads != 4 || o.MoveOverhead != 100*time.Millisecond || o.UseNullMove || o.UseLMR {
		t.Errorf("options not applied: %+v", o)
	}
	if !o.UseTT {
		t.Errorf("failed set changed UseTT")
	}
}

func TestConfigParamDefaults(t *testing.T) {
	d := DefaultOptions()
	for _, cp := range GetConfigParams() {
		v := cp.Default()
		if v < cp.Min || v > cp.Max {
			t.Errorf("%s default %d outside [%d, %d]", cp.Name, v, cp.Min, cp.Max)
		}
		o := d
		cp.Set(&o, v)
		if o != d {
			t.Errorf("%s: setting the default changed the options", cp.Name)
		}
	}
}

func TestKillerMoves(t *testing.T) {
	var kt KillerMoveTableT
	a := chess.NewMove(chess.G1, chess.F3, chess.Knight)
	b := chess.NewMove(chess.B1, chess.C3, chess.Knight)
	c := chess.NewMove(chess.E2, chess.E4, chess.Pawn)

	kt.addKillerMove(a, 3)
	kt.addKillerMove(b, 3)
	if kt.killerMoveIndex(b, 3) != 0 || kt.killerMoveIndex(a, 3) != 1 {
		t.Errorf("killers at ply 3 = %v", kt[3])
	}
	kt.addKillerMove(a, 3)
	if kt.killerMoveIndex(a, 3) != 0 || kt.killerMoveIndex(b, 3) != 1 {
		t.Errorf("re-adding a killer did not move it to the front: %v", kt[3])
	}
	kt.addKillerMove(c, 3)
	if kt.killerMoveIndex(b, 3) != MoveNotFound {
		t.Errorf("oldest killer survived: %v", kt[3])
	}
	if kt.killerMoveIndex(c, 4) != MoveNotFound {
		t.Errorf("killer leaked to another ply")
	}
}

func TestMoveHistoryAges(t *testing.T) {
	var mh MoveHistoryT
	m := chess.NewMove(chess.G1, chess.F3, chess.Knight)
	other := chess.NewMove(chess.B1, chess.C3, chess.Knight)
	mh.add(chess.White, other, 10)
	for i := 0; i < 4000; i++ {
		mh.add(chess.White, m, 20)
	}
	if v := mh.get(chess.White, m); v > maxHistoryVal {
		t.Errorf("history value %d not aged", v)
	}
	if v := mh.get(chess.White, other); v >= 100 {
		t.Errorf("other entry %d not aged with the table", v)
	}
	if mh.get(chess.Black, m) != 0 {
		t.Errorf("history leaked to the other side")
	}
}

func TestHistoryTable(t *testing.T) {
	ht := HistoryTableT{}
	ht.Add(1)
	if ht.IsRepeat(1) {
		t.Errorf("single occurrence counted as a repeat")
	}
	ht.Add(1)
	if !ht.IsRepeat(1) {
		t.Errorf("second occurrence not a repeat")
	}
	ht.Remove(1)
	ht.Remove(1)
	if len(ht) != 0 {
		t.Errorf("table not emptied: %v", ht)
	}
}
