package portfsm

import "github.com/enetx/g"

// Core is the external interface spec §6 requires every Driver, regardless
// of stage count, to expose. It exists mainly so callers can hold a
// Driver[TwoStage] or a Driver[ThreeStage] behind one type when the stage
// count is a deployment choice rather than something call sites care about.
type Core interface {
	DoFill(msg ...string)
	DoPush(msg ...string)
	DoDrain(msg ...string)
	DoPull(msg ...string)
	Shutdown(msg ...string)

	State() PortState
	NextState() PortState
	SetState(s PortState)
	SetNextState(s PortState)

	EnableDebug()
	DisableDebug()

	StateName(s PortState) string
	History() g.Slice[PortState]
	ToDOT() g.String
}

var (
	_ Core = (*Driver[TwoStage])(nil)
	_ Core = (*Driver[ThreeStage])(nil)
)
