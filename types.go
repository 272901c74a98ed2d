// Package portfsm implements the port state machine core described by the
// data-flow staging-area specification: a small, precisely tabulated finite
// state machine that coordinates producer/consumer handoff across one
// (two-stage) or two (three-stage) intermediate slots.
//
// The package does not move data, schedule work, or persist anything. It
// only tells an injected Policy when to block, when to wake a peer, and
// when a move across slots is allowed.
package portfsm

import "fmt"

// PortState is the ordinal encoding of which slots are occupied. Its
// meaning depends on the Stage the Driver was instantiated with: for
// TwoStage the low two bits are (source, sink); for ThreeStage the low
// three bits are (source, middle, sink), MSB first. The two sentinel
// values error and done sit immediately after the last real state.
type PortState uint8

// PortEvent is one of the five events a Driver can be asked to process.
type PortEvent uint8

const (
	EventSourceFill PortEvent = iota
	EventSourcePush
	EventSinkDrain
	EventSinkPull
	EventShutdown

	numEvents = int(EventShutdown) + 1
)

func (e PortEvent) String() string {
	switch e {
	case EventSourceFill:
		return "source_fill"
	case EventSourcePush:
		return "source_push"
	case EventSinkDrain:
		return "sink_drain"
	case EventSinkPull:
		return "sink_pull"
	case EventShutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("event(%d)", uint8(e))
	}
}

// PortAction is one of the actions a table cell may name for the exit or
// entry phase of a transition. ActionNone means "do nothing".
type PortAction uint8

const (
	ActionNone PortAction = iota
	ActionACReturn
	ActionSourceMove
	ActionSinkMove
	ActionNotifySource
	ActionNotifySink
	ActionSourceWait
	ActionSinkWait
	ActionError
)

func (a PortAction) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionACReturn:
		return "ac_return"
	case ActionSourceMove:
		return "source_move"
	case ActionSinkMove:
		return "sink_move"
	case ActionNotifySource:
		return "notify_source"
	case ActionNotifySink:
		return "notify_sink"
	case ActionSourceWait:
		return "source_wait"
	case ActionSinkWait:
		return "sink_wait"
	case ActionError:
		return "error"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}
