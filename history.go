package portfsm

import "github.com/enetx/g"

// History returns a copy of the states this Driver has committed to, in
// order, starting with its initial state. It mirrors the teacher's own
// FSM.History: a plain append-only log, useful for debugging and for the
// canonical-scenario tests in spec §8, never consulted by event() itself.
func (d *Driver[S]) History() g.Slice[PortState] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.history.Clone()
}

// recordHistory appends the current committed state. Called with the lock
// already held: once right after the commit in event(), and once more after
// a post-move collapse.
func (d *Driver[S]) recordHistory() {
	d.history.Push(d.state)
}
