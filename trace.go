package portfsm

import (
	"sync/atomic"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// tracePhase names one of the five diagnostic checkpoints spec §6 requires
// a Driver to emit a trace line at.
type tracePhase string

const (
	phaseOnEventStart tracePhase = "on_event_start"
	phasePreExit      tracePhase = "pre_exit"
	phasePostExit     tracePhase = "post_exit"
	phasePreEntry     tracePhase = "pre_entry"
	phasePostEntry    tracePhase = "post_entry"
)

var (
	// globalEventCounter and globalDebug are process-wide, per spec §9
	// ("Global event_counter and debug flag are process-wide state with
	// trivial lifecycle"). Every Driver, regardless of Stage, shares them.
	globalEventCounter atomic.Uint64
	globalDebug        atomic.Bool
)

// tracer is the minimal surface emitTrace needs from a structured logger.
// Its only implementation is logifaceTracer, which wraps the
// *logiface.Logger[*stumpy.Event] that SetTracer accepts.
type tracer interface {
	trace(phase tracePhase, counter uint64, msg string, ev PortEvent, from PortState, exitAction, entryAction PortAction, to PortState, stage Stage)
}

var activeTracer atomic.Pointer[tracer]

func init() {
	var t tracer = newLogifaceTracer()
	activeTracer.Store(&t)
}

// SetTracer replaces the package-wide diagnostic sink. Passing nil restores
// the default logiface/stumpy-backed tracer.
func SetTracer(l *logiface.Logger[*stumpy.Event]) {
	var t tracer
	if l == nil {
		t = newLogifaceTracer()
	} else {
		t = &logifaceTracer{logger: l}
	}
	activeTracer.Store(&t)
}

// EnableDebug turns on process-wide trace emission for every Driver.
func EnableDebug() { globalDebug.Store(true) }

// DisableDebug turns off process-wide trace emission (per-call messages
// still force a line, per spec §6).
func DisableDebug() { globalDebug.Store(false) }

type logifaceTracer struct {
	logger *logiface.Logger[*stumpy.Event]
}

func newLogifaceTracer() *logifaceTracer {
	return &logifaceTracer{
		logger: stumpy.L.New(stumpy.L.WithStumpy()),
	}
}

func (t *logifaceTracer) trace(
	phase tracePhase,
	counter uint64,
	msg string,
	ev PortEvent,
	from PortState,
	exitAction, entryAction PortAction,
	to PortState,
	stage Stage,
) {
	t.logger.Debug().
		Uint64("counter", counter).
		Str("phase", string(phase)).
		Str("msg", msg).
		Str("event", ev.String()).
		Str("state", stage.stateName(from)).
		Str("exit_action", exitAction.String()).
		Str("entry_action", entryAction.String()).
		Str("next_state", stage.stateName(to)).
		Log("port fsm transition")
}

// shouldTrace reports whether a trace line should be emitted: either the
// process-wide flag is on, the calling Driver has instance-level debug
// enabled, or a non-empty per-call message was supplied (spec §6).
func shouldTrace(instanceDebug bool, msg string) bool {
	return instanceDebug || globalDebug.Load() || msg != ""
}

// emitTrace unconditionally records one diagnostic line. Callers gate this
// on shouldTrace first.
func emitTrace(
	phase tracePhase,
	msg string,
	ev PortEvent,
	from PortState,
	exitAction, entryAction PortAction,
	to PortState,
	stage Stage,
) {
	counter := globalEventCounter.Add(1)
	if t := activeTracer.Load(); t != nil {
		(*t).trace(phase, counter, msg, ev, from, exitAction, entryAction, to, stage)
	}
}
