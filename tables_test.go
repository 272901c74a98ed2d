package portfsm_test

import (
	"sync"
	"testing"

	. "github.com/tiledb-go/portfsm"
)

func assertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func passthrough(sync.Locker) Policy { return PassthroughPolicy{} }

func TestTwoStageInitialState(t *testing.T) {
	d := NewTwoStage(passthrough)
	assertEqual(t, d.State(), St00)
	assertEqual(t, d.StateName(d.State()), "st_00")
}

func TestThreeStageInitialState(t *testing.T) {
	d := NewThreeStage(passthrough)
	assertEqual(t, d.State(), St000)
	assertEqual(t, d.StateName(d.State()), "st_000")
}

// TestEntryRecomputeInvariant runs two event scripts (fill, push; and fill,
// push, pull, drain), each on two independent fresh Drivers, and checks that
// both Drivers end in the same committed state. It exercises the
// recompute-after-commit behaviour (DESIGN.md decision 2) through the full
// event() path rather than the tables in isolation, since the table's entry
// column is unexported outside this package.
func TestEntryRecomputeInvariant(t *testing.T) {
	scripts := [][]func(*Driver[TwoStage], ...string){
		{(*Driver[TwoStage]).DoFill, (*Driver[TwoStage]).DoPush},
		{(*Driver[TwoStage]).DoFill, (*Driver[TwoStage]).DoPush, (*Driver[TwoStage]).DoPull, (*Driver[TwoStage]).DoDrain},
	}

	for _, script := range scripts {
		a := NewTwoStage(passthrough)
		b := NewTwoStage(passthrough)
		for _, step := range script {
			step(a)
			step(b)
		}
		assertEqual(t, a.State(), b.State())
	}
}

func TestTwoStageIllegalTransitionEntersError(t *testing.T) {
	d := NewTwoStage(passthrough)
	d.DoDrain() // st_00 has no legal sink_drain transition.
	assertEqual(t, d.StateName(d.State()), "error")
}

func TestThreeStageIllegalTransitionEntersError(t *testing.T) {
	d := NewThreeStage(passthrough)
	d.DoDrain() // st_000 has no legal sink_drain transition.
	assertEqual(t, d.StateName(d.State()), "error")
}

func TestShutdownIsNeutral(t *testing.T) {
	states := []func() Core{
		func() Core { return NewTwoStage(passthrough) },
		func() Core { return NewThreeStage(passthrough) },
	}
	for _, newDriver := range states {
		d := newDriver()
		before := d.State()
		d.Shutdown()
		assertEqual(t, d.State(), before)
	}
}
