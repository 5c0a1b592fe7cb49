// Package audit runs bounded string operations and records the ones that
// lost data or were rejected.
package audit

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/rawbytedev/safestring"
)

// Options selects which outcomes are logged. Counters are always kept.
type Options struct {
	LogTruncations bool
	LogRejections  bool
	Component      string // added as "component" to every event when set
}

// DefaultOptions logs both truncations and rejections.
func DefaultOptions() Options {
	return Options{LogTruncations: true, LogRejections: true}
}

// Stats is a snapshot of the auditor's counters.
type Stats struct {
	Calls       uint64
	Truncations uint64
	Rejections  uint64
}

// Auditor wraps the engine operations. Safe for concurrent use.
type Auditor struct {
	log  zerolog.Logger
	opts Options

	calls       atomic.Uint64
	truncations atomic.Uint64
	rejections  atomic.Uint64
}

// New returns an Auditor writing to logger. Pass zerolog.Nop() to only count.
func New(logger zerolog.Logger, opts Options) *Auditor {
	if opts.Component != "" {
		logger = logger.With().Str("component", opts.Component).Logger()
	}
	return &Auditor{log: logger, opts: opts}
}

func (a *Auditor) Copy(dst, src []byte) (safestring.Outcome, error) {
	o, err := safestring.Copy(dst, src)
	a.observe("copy", len(dst), o, err)
	return o, err
}

func (a *Auditor) Concat(dst, src []byte) (safestring.Outcome, error) {
	o, err := safestring.Concat(dst, src)
	a.observe("concat", len(dst), o, err)
	return o, err
}

func (a *Auditor) Format(dst, format []byte, args ...any) (safestring.Outcome, error) {
	o, err := safestring.Format(dst, format, args...)
	a.observe("format", len(dst), o, err)
	return o, err
}

func (a *Auditor) FormatString(dst []byte, format string, args ...any) (safestring.Outcome, error) {
	o, err := safestring.FormatString(dst, format, args...)
	a.observe("format", len(dst), o, err)
	return o, err
}

func (a *Auditor) Length(src []byte, maxlen int) (int, error) {
	n, err := safestring.Length(src, maxlen)
	a.observeRead("length", maxlen, err)
	return n, err
}

func (a *Auditor) Compare(s1, s2 []byte, maxlen int) (int, error) {
	r, err := safestring.Compare(s1, s2, maxlen)
	a.observeRead("compare", maxlen, err)
	return r, err
}

// Stats returns the current counters.
func (a *Auditor) Stats() Stats {
	return Stats{
		Calls:       a.calls.Load(),
		Truncations: a.truncations.Load(),
		Rejections:  a.rejections.Load(),
	}
}

func (a *Auditor) observe(op string, capacity int, o safestring.Outcome, err error) {
	a.calls.Add(1)
	if err != nil {
		a.reject(op, capacity, err)
		return
	}
	if !o.Truncated() {
		return
	}
	a.truncations.Add(1)
	if a.opts.LogTruncations {
		a.log.Warn().
			Str("op", op).
			Int("capacity", capacity).
			Int("length", o.N).
			Msg("output truncated")
	}
}

func (a *Auditor) observeRead(op string, bound int, err error) {
	a.calls.Add(1)
	if err != nil {
		a.reject(op, bound, err)
	}
}

func (a *Auditor) reject(op string, capacity int, err error) {
	a.rejections.Add(1)
	if a.opts.LogRejections {
		a.log.Error().
			Err(err).
			Str("op", op).
			Int("capacity", capacity).
			Stringer("kind", safestring.KindOf(err)).
			Msg("call rejected")
	}
}
