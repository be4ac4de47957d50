package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnknownOption = errors.New("engine: unknown option")
	ErrOptionValue   = errors.New("engine: bad option value")
)

type OptionKind int

const (
	OptionSpin OptionKind = iota
	OptionCheck
)

// ConfigParam describes one externally settable option. Check options use 0 and 1.
type ConfigParam struct {
	Name string
	Kind OptionKind
	Min  int
	Max  int
	Get  func(o *Options) int
	Set  func(o *Options, val int)
}

func (cp ConfigParam) Default() int {
	d := DefaultOptions()
	return cp.Get(&d)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func registerCheck(name string, field func(o *Options) *bool) ConfigParam {
	return ConfigParam{
		Name: name,
		Kind: OptionCheck,
		Max:  1,
		Get:  func(o *Options) int { return b2i(*field(o)) },
		Set:  func(o *Options, val int) { *field(o) = val != 0 }}
}

func registerSpin(name string, min, max int, field func(o *Options) *int) ConfigParam {
	return ConfigParam{
		Name: name,
		Kind: OptionSpin,
		Min:  min,
		Max:  max,
		Get:  func(o *Options) int { return *field(o) },
		Set:  func(o *Options, val int) { *field(o) = val }}
}

var configParams = []ConfigParam{
	registerSpin("Hash", 1, maxHashMB, func(o *Options) *int { return &o.HashMB }),
	registerSpin("Threads", 1, maxThreads, func(o *Options) *int { return &o.Threads }),
	{
		Name: "Move Overhead",
		Kind: OptionSpin,
		Min:  0,
		Max:  5000,
		Get:  func(o *Options) int { return int(o.MoveOverhead / time.Millisecond) },
		Set:  func(o *Options, val int) { o.MoveOverhead = time.Duration(val) * time.Millisecond }},
	registerSpin("QSearchDepth", 0, MaxPly/2, func(o *Options) *int { return &o.QSearchDepth }),
	registerCheck("UseTT", func(o *Options) *bool { return &o.UseTT }),
	registerCheck("UseNullMove", func(o *Options) *bool { return &o.UseNullMove }),
	registerCheck("UseLMR", func(o *Options) *bool { return &o.UseLMR }),
	registerCheck("UseAspiration", func(o *Options) *bool { return &o.UseAspiration }),
	registerCheck("UseCheckExtension", func(o *Options) *bool { return &o.UseCheckExtend }),
	registerCheck("DumpStats", func(o *Options) *bool { return &o.DumpStats }),
}

func GetConfigParams() []ConfigParam {
	return configParams
}

// SetConfigParam sets a named option from its textual value. Names match case-insensitively.
func (o *Options) SetConfigParam(name, value string) error {
	for _, cp := range configParams {
		if !strings.EqualFold(cp.Name, name) {
			continue
		}
		var val int
		switch cp.Kind {
		case OptionCheck:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("%w: %s=%q", ErrOptionValue, cp.Name, value)
			}
			val = b2i(b)
		default:
			v, err := strconv.Atoi(value)
			if err != nil || v < cp.Min || v > cp.Max {
				return fmt.Errorf("%w: %s=%q want %d..%d", ErrOptionValue, cp.Name, value, cp.Min, cp.Max)
			}
			val = v
		}
		cp.Set(o, val)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownOption, name)
}
