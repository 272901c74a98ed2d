package portfsm

import (
	"sync"

	"github.com/enetx/g"
)

// Driver is the mutex-protected engine described by spec §2: on each
// event it looks up the next state plus exit/entry actions, invokes the
// policy's callbacks in the prescribed order with the lock held, and
// commits the state change. S selects the stage count (TwoStage or
// ThreeStage) at compile time, standing in for the original's template
// parameter.
type Driver[S Stage] struct {
	mu      sync.Mutex
	stage   S
	state   PortState
	next    PortState
	policy  Policy
	debug   bool
	history g.Slice[PortState]
}

// Option configures a Driver at construction time.
type Option[S Stage] func(*Driver[S])

// WithInstanceDebug enables per-instance debug tracing in addition to the
// process-wide flag toggled by EnableDebug/DisableDebug.
func WithInstanceDebug[S Stage]() Option[S] {
	return func(d *Driver[S]) { d.debug = true }
}

// New constructs a Driver in its initial state (all slots empty, spec §3).
// newPolicy is called once, with the Driver's own lock, so policies that
// need a sync.Cond (AsyncPolicy) can build it bound to that lock at
// construction time. Every policy callback is also handed the same lock
// (see DESIGN.md, "Policy/lock handoff").
func New[S Stage](newPolicy func(lk sync.Locker) Policy, opts ...Option[S]) *Driver[S] {
	var stage S
	d := &Driver[S]{
		stage:   stage,
		state:   stage.initial(),
		next:    stage.initial(),
		history: g.Slice[PortState]{stage.initial()},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.policy = newPolicy(&d.mu)
	return d
}

// NewTwoStage is a convenience constructor for Driver[TwoStage].
func NewTwoStage(newPolicy func(lk sync.Locker) Policy, opts ...Option[TwoStage]) *Driver[TwoStage] {
	return New[TwoStage](newPolicy, opts...)
}

// NewThreeStage is a convenience constructor for Driver[ThreeStage].
func NewThreeStage(newPolicy func(lk sync.Locker) Policy, opts ...Option[ThreeStage]) *Driver[ThreeStage] {
	return New[ThreeStage](newPolicy, opts...)
}

// State returns the current committed state.
func (d *Driver[S]) State() PortState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// NextState returns the current scratch next-state value: the next state
// computed by the most recent event() call, or the value last given to
// SetNextState. It can differ from State(), for example after Shutdown
// (which computes a next state but never commits it), after SetState, or
// after a post-move collapse. It exists mainly for SetNextState-driven tests.
func (d *Driver[S]) NextState() PortState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.next
}

// SetState forcibly overwrites the current state, bypassing every action.
// For testing only (spec §6).
func (d *Driver[S]) SetState(s PortState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = s
}

// SetNextState forcibly overwrites the scratch next-state field. For
// testing only (spec §6).
func (d *Driver[S]) SetNextState(s PortState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next = s
}

// EnableDebug turns on tracing for this Driver instance specifically, on
// top of the process-wide flag (see DESIGN.md decision 6).
func (d *Driver[S]) EnableDebug() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.debug = true
}

// DisableDebug turns off this Driver's instance-level tracing.
func (d *Driver[S]) DisableDebug() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.debug = false
}

// StateName renders a PortState using this Driver's stage's naming table.
func (d *Driver[S]) StateName(s PortState) string {
	return d.stage.stateName(s)
}

// DoFill processes source_fill.
func (d *Driver[S]) DoFill(msg ...string) { d.event(EventSourceFill, joinMsg(msg)) }

// DoPush processes source_push.
func (d *Driver[S]) DoPush(msg ...string) { d.event(EventSourcePush, joinMsg(msg)) }

// DoDrain processes sink_drain.
func (d *Driver[S]) DoDrain(msg ...string) { d.event(EventSinkDrain, joinMsg(msg)) }

// DoPull processes sink_pull.
func (d *Driver[S]) DoPull(msg ...string) { d.event(EventSinkPull, joinMsg(msg)) }

// Shutdown processes the shutdown event, which per spec §4.2/§9 is
// currently always a no-op: it never mutates state, though the
// would-be transition is still computed and traced.
func (d *Driver[S]) Shutdown(msg ...string) { d.event(EventShutdown, joinMsg(msg)) }

func joinMsg(msg []string) string {
	if len(msg) == 0 {
		return ""
	}
	return msg[0]
}

// event is the driver's single entry point (spec §4.2). The lock is held
// for its entire duration, including both action phases; wait actions may
// transiently release it via the policy's condition variables, but always
// reacquire before this function returns.
func (d *Driver[S]) event(e PortEvent, msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	debugOn := d.debug

	// Step 1: d.next is an instance field, not a local, deliberately: a
	// wait action below can release the lock, and a concurrent caller on
	// the same Driver is free to overwrite d.next before this goroutine
	// wakes. The commit in step 5 reads whatever is in the field at that
	// point, not what step 1 computed here. See DESIGN.md, "next_state
	// as a shared field".
	d.next = d.stage.next(d.state, e)
	exitAction := d.stage.exit(d.state, e)
	entryAction := d.stage.entry(d.next, e)

	d.traceIf(debugOn, phaseOnEventStart, msg, e, d.state, exitAction, entryAction, d.next)

	// Step 2: shutdown is a reserved no-op. The would-be transition above
	// is computed (and traced) purely for diagnostic symmetry with every
	// other event; nothing is committed.
	if e == EventShutdown {
		return
	}

	// Exit phase (spec §4.2 step 4): runs against the pre-commit state.
	d.traceIf(debugOn, phasePreExit, msg, e, d.state, exitAction, entryAction, d.next)
	if d.runAction("exit", exitAction, e, d.state) {
		d.traceIf(debugOn, phasePostExit, msg, e, d.state, exitAction, entryAction, d.next)
		return // ac_return: unwind without any further state change.
	}
	d.traceIf(debugOn, phasePostExit, msg, e, d.state, exitAction, entryAction, d.next)

	// Commit (spec §4.2 step 5). Reads d.next fresh, per the comment above.
	d.state = d.next
	d.recordHistory()

	// Recompute the entry action from the *committed* state (spec §4.2
	// step 6 / spec §9: a wait action above may have let a concurrent
	// caller move d.next out from under this call, so this second read
	// is mandatory, not redundant).
	entryAction = d.stage.entry(d.state, e)

	// Entry phase (spec §4.2 step 7).
	d.traceIf(debugOn, phasePreEntry, msg, e, d.state, exitAction, entryAction, d.state)
	if d.runAction("entry", entryAction, e, d.state) {
		d.traceIf(debugOn, phasePostEntry, msg, e, d.state, exitAction, entryAction, d.state)
		return
	}
	if entryAction == ActionSourceMove || entryAction == ActionSinkMove {
		// Post-move state collapse, spec §4.3.
		d.state = d.stage.collapse(d.state)
		d.recordHistory()
	}
	d.traceIf(debugOn, phasePostEntry, msg, e, d.state, exitAction, entryAction, d.state)
}

func (d *Driver[S]) traceIf(debugOn bool, phase tracePhase, msg string, e PortEvent, from PortState, exitAction, entryAction PortAction, to PortState) {
	if !shouldTrace(debugOn, msg) {
		return
	}
	emitTrace(phase, msg, e, from, exitAction, entryAction, to, d.stage)
}

// runAction dispatches one action to the policy, returning true only for
// ActionACReturn (spec §4.2: "return without further state change").
// Any other value, ActionError included, is a LogicFault (spec §7.2).
func (d *Driver[S]) runAction(phase string, a PortAction, e PortEvent, s PortState) (acReturn bool) {
	switch a {
	case ActionNone:
	case ActionACReturn:
		d.policy.OnACReturn(&d.mu)
		return true
	case ActionSourceMove:
		d.policy.OnSourceMove(&d.mu)
	case ActionSinkMove:
		d.policy.OnSinkMove(&d.mu)
	case ActionNotifySource:
		d.policy.OnNotifySource(&d.mu)
	case ActionNotifySink:
		d.policy.OnNotifySink(&d.mu)
	case ActionSourceWait:
		d.policy.OnSourceWait(&d.mu)
	case ActionSinkWait:
		d.policy.OnSinkWait(&d.mu)
	default:
		panic(&LogicFault{Phase: phase, State: s, Event: e, Action: a, stage: d.stage})
	}
	return false
}
