package portfsm

import "fmt"

// LogicFault is the panic payload raised when a table cell names an action
// the driver has no case for: ActionError or a value outside the declared
// alphabet (spec §7.2). This should be unreachable
// against the shipped tables in tables.go; it exists to catch a corrupted
// or hand-edited table rather than to signal an expected runtime failure.
type LogicFault struct {
	Phase  string
	State  PortState
	Event  PortEvent
	Action PortAction
	stage  Stage
}

func (f *LogicFault) Error() string {
	name := f.stage.stateName(f.State)
	return fmt.Sprintf(
		"portfsm: unknown %s action %q for state %q on event %q",
		f.Phase, f.Action, name, f.Event,
	)
}
