package portfsm_test

import (
	"strings"
	"testing"

	. "github.com/tiledb-go/portfsm"
)

func TestToDOTContainsCurrentState(t *testing.T) {
	d := NewTwoStage(passthrough)
	d.DoFill()

	dot := string(d.ToDOT())

	if !strings.Contains(dot, "digraph PortFSM") {
		t.Fatalf("missing digraph header: %s", dot)
	}
	if !strings.Contains(dot, "\"st_10\"") {
		t.Fatalf("expected current state st_10 to appear: %s", dot)
	}
	if !strings.Contains(dot, "fillcolor=\"#90ee90\"") {
		t.Fatalf("expected current-state highlight color: %s", dot)
	}
}

func TestToDOTThreeStage(t *testing.T) {
	d := NewThreeStage(passthrough)
	dot := string(d.ToDOT())

	if !strings.Contains(dot, "\"st_000\"") {
		t.Fatalf("expected initial state st_000 to appear: %s", dot)
	}
	if !strings.Contains(dot, "\"done\"") {
		t.Fatalf("expected sentinel done state to appear: %s", dot)
	}
}
