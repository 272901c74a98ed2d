package portfsm

// Stage parameterises Driver over the number of intermediate slots,
// standing in for the compile-time stage-count template parameter of the
// original C++ source (tiledb::common::two_stage / three_stage). It is
// implemented by the two zero-size types below and is not meant to be
// implemented outside this package.
type Stage interface {
	numStates() int
	initial() PortState
	errorState() PortState
	doneState() PortState
	stateName(s PortState) string
	next(s PortState, e PortEvent) PortState
	exit(s PortState, e PortEvent) PortAction
	entry(s PortState, e PortEvent) PortAction
	collapse(s PortState) PortState
}

// TwoStage selects the two-stage (single intermediate slot) tables:
// states st_00, st_01, st_10, st_11, error, done.
type TwoStage struct{}

// ThreeStage selects the three-stage (two intermediate slots) tables:
// states st_000 .. st_111, error, done.
type ThreeStage struct{}

const (
	// Two-stage state ordinals. Bit1 = source slot, bit0 = sink slot.
	St00 PortState = iota
	St01
	St10
	St11
	twoStageError
	twoStageDone
)

const (
	// Three-stage state ordinals. Bit2 = source, bit1 = middle, bit0 = sink.
	St000 PortState = iota
	St001
	St010
	St011
	St100
	St101
	St110
	St111
	threeStageError
	threeStageDone
)

var twoStageNames = [...]string{"st_00", "st_01", "st_10", "st_11", "error", "done"}

var threeStageNames = [...]string{
	"st_000", "st_001", "st_010", "st_011",
	"st_100", "st_101", "st_110", "st_111",
	"error", "done",
}

// twoStageNext[state][event]
var twoStageNext = [6][5]PortState{
	St00: {EventSourceFill: St10, EventSourcePush: St00, EventSinkDrain: twoStageError, EventSinkPull: St00, EventShutdown: twoStageError},
	St01: {EventSourceFill: St11, EventSourcePush: St01, EventSinkDrain: St00, EventSinkPull: St01, EventShutdown: twoStageError},
	St10: {EventSourceFill: twoStageError, EventSourcePush: St01, EventSinkDrain: twoStageError, EventSinkPull: St01, EventShutdown: twoStageError},
	St11: {EventSourceFill: twoStageError, EventSourcePush: St11, EventSinkDrain: St10, EventSinkPull: St11, EventShutdown: twoStageError},
	twoStageError: {EventSourceFill: twoStageError, EventSourcePush: twoStageError, EventSinkDrain: twoStageError, EventSinkPull: twoStageError, EventShutdown: twoStageError},
	twoStageDone:  {EventSourceFill: twoStageError, EventSourcePush: twoStageError, EventSinkDrain: twoStageError, EventSinkPull: twoStageError, EventShutdown: twoStageError},
}

var twoStageExit = [6][5]PortAction{
	St00: {EventSinkPull: ActionSinkWait},
	St10: {EventSourcePush: ActionSourceMove, EventSinkPull: ActionSinkMove},
	St11: {EventSourcePush: ActionSourceWait},
}

var twoStageEntry = [6][5]PortAction{
	St00: {EventSinkDrain: ActionNotifySource},
	St10: {
		EventSourceFill: ActionNotifySink,
		EventSourcePush: ActionSourceMove,
		EventSinkDrain:  ActionNotifySource,
		EventSinkPull:   ActionSinkMove,
	},
	St11: {EventSourceFill: ActionNotifySink},
}

// threeStageNext[state][event]
var threeStageNext = [10][5]PortState{
	St000: {EventSourceFill: St100, EventSourcePush: St000, EventSinkDrain: threeStageError, EventSinkPull: St000, EventShutdown: threeStageError},
	St001: {EventSourceFill: St101, EventSourcePush: St001, EventSinkDrain: St000, EventSinkPull: St001, EventShutdown: threeStageError},
	St010: {EventSourceFill: St110, EventSourcePush: St001, EventSinkDrain: threeStageError, EventSinkPull: St001, EventShutdown: threeStageError},
	St011: {EventSourceFill: St111, EventSourcePush: St011, EventSinkDrain: St010, EventSinkPull: St011, EventShutdown: threeStageError},
	St100: {EventSourceFill: threeStageError, EventSourcePush: St001, EventSinkDrain: threeStageError, EventSinkPull: St001, EventShutdown: threeStageError},
	St101: {EventSourceFill: threeStageError, EventSourcePush: St011, EventSinkDrain: St100, EventSinkPull: St011, EventShutdown: threeStageError},
	St110: {EventSourceFill: threeStageError, EventSourcePush: St011, EventSinkDrain: threeStageError, EventSinkPull: St011, EventShutdown: threeStageError},
	St111: {EventSourceFill: threeStageError, EventSourcePush: St111, EventSinkDrain: St110, EventSinkPull: St111, EventShutdown: threeStageError},
	threeStageError: {EventSourceFill: threeStageError, EventSourcePush: threeStageError, EventSinkDrain: threeStageError, EventSinkPull: threeStageError, EventShutdown: threeStageError},
	threeStageDone:  {EventSourceFill: threeStageError, EventSourcePush: threeStageError, EventSinkDrain: threeStageError, EventSinkPull: threeStageError, EventShutdown: threeStageError},
}

var threeStageExit = [10][5]PortAction{
	St010: {EventSourcePush: ActionSourceMove, EventSinkPull: ActionSinkMove},
	St100: {EventSourcePush: ActionSourceMove, EventSinkPull: ActionSinkMove},
	St101: {EventSourcePush: ActionSourceMove, EventSinkPull: ActionSinkMove},
	St110: {EventSourcePush: ActionSourceMove, EventSinkPull: ActionSinkMove},
	St111: {EventSourcePush: ActionSourceWait},
	St000: {EventSinkPull: ActionSinkWait},
}

var threeStageEntry = [10][5]PortAction{
	St000: {EventSinkDrain: ActionNotifySource},
	St010: {EventSinkDrain: ActionNotifySource, EventSourcePush: ActionSourceMove, EventSinkPull: ActionSinkMove},
	St100: {
		EventSourceFill: ActionNotifySink,
		EventSinkDrain:  ActionNotifySource,
		EventSourcePush: ActionSourceMove,
		EventSinkPull:   ActionSinkMove,
	},
	St101: {
		EventSourceFill: ActionNotifySink,
		EventSourcePush: ActionSourceMove,
		EventSinkPull:   ActionSinkMove,
	},
	St110: {
		EventSourceFill: ActionNotifySink,
		EventSinkDrain:  ActionNotifySource,
		EventSourcePush: ActionSourceMove,
		EventSinkPull:   ActionSinkMove,
	},
	St111: {EventSourceFill: ActionNotifySink},
}

func (TwoStage) numStates() int         { return 6 }
func (TwoStage) initial() PortState     { return St00 }
func (TwoStage) errorState() PortState  { return twoStageError }
func (TwoStage) doneState() PortState   { return twoStageDone }
func (TwoStage) stateName(s PortState) string {
	if int(s) < len(twoStageNames) {
		return twoStageNames[s]
	}
	return "st_?"
}

func (TwoStage) next(s PortState, e PortEvent) PortState  { return twoStageNext[s][e] }
func (TwoStage) exit(s PortState, e PortEvent) PortAction { return twoStageExit[s][e] }
func (TwoStage) entry(s PortState, e PortEvent) PortAction {
	return twoStageEntry[s][e]
}

// collapse implements spec §4.3: after an entry-phase move, a two-stage
// pipe always ends up with only the sink slot occupied.
func (TwoStage) collapse(PortState) PortState { return St01 }

func (ThreeStage) numStates() int        { return 10 }
func (ThreeStage) initial() PortState    { return St000 }
func (ThreeStage) errorState() PortState { return threeStageError }
func (ThreeStage) doneState() PortState  { return threeStageDone }
func (ThreeStage) stateName(s PortState) string {
	if int(s) < len(threeStageNames) {
		return threeStageNames[s]
	}
	return "st_?"
}

func (ThreeStage) next(s PortState, e PortEvent) PortState  { return threeStageNext[s][e] }
func (ThreeStage) exit(s PortState, e PortEvent) PortAction { return threeStageExit[s][e] }
func (ThreeStage) entry(s PortState, e PortEvent) PortAction {
	return threeStageEntry[s][e]
}

// collapse implements spec §4.3 for three stages: a move drains one slot
// into the next, so {st_010, st_100} collapse to st_001 and {st_110,
// st_101} collapse to st_011; every other state is left unchanged.
func (ThreeStage) collapse(s PortState) PortState {
	switch s {
	case St010, St100:
		return St001
	case St110, St101:
		return St011
	default:
		return s
	}
}
