package portfsm

import (
	"sync"
	"testing"
)

// next-overwriting policy simulates, deterministically and without real
// goroutines, what a second caller overwriting d.next during a wait would
// do to a parked caller's own commit (DESIGN.md decisions 8 and 9): its
// OnSourceMove callback forces the driver's own next field to a value the
// ordinary next-state table would never produce for this transition, so
// that the entry-phase recompute in step 6 lands on a table cell naming a
// move action, and collapse() actually runs.
type nextOverwritePolicy struct {
	PassthroughPolicy
	driver *Driver[TwoStage]
	forced PortState
	calls  int
}

func (p *nextOverwritePolicy) OnSourceMove(sync.Locker) {
	p.calls++
	if p.calls == 1 {
		// Runs during the exit phase, lock already held by this same
		// call stack; writing the field directly (not via SetNextState,
		// which would deadlock re-acquiring the same mutex).
		p.driver.next = p.forced
	}
}

func TestEntryPhaseMoveTriggersCollapse(t *testing.T) {
	policy := &nextOverwritePolicy{forced: St10}
	d := New[TwoStage](func(sync.Locker) Policy { return policy })
	policy.driver = d

	d.SetState(St10)
	d.DoPush() // st_10, source_push: exit_action=source_move (forces next=st_10).

	// Commit uses the forced next=st_10; entry_table[st_10][push]=source_move
	// per spec §4.1, so the entry phase runs OnSourceMove a second time and
	// then collapses st_10 -> st_01.
	if policy.calls != 2 {
		t.Fatalf("expected OnSourceMove called twice (exit + entry), got %d", policy.calls)
	}
	if d.State() != St01 {
		t.Fatalf("expected collapse to st_01, got %s", d.StateName(d.State()))
	}
}
