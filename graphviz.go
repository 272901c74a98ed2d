package portfsm

import (
	"github.com/enetx/g"
	"github.com/enetx/g/cmp"
)

// ToDOT renders this Driver's fixed transition table as a DOT graph,
// highlighting the currently committed state. Unlike the teacher's
// ToDOT, which walks a user-populated transition map, this walks the
// stage's compiled-in next/exit/entry tables directly (spec §4.1's
// tables are fixed at compile time, not built up by callers).
func (d *Driver[S]) ToDOT() g.String {
	d.mu.Lock()
	current := d.state
	stage := d.stage
	d.mu.Unlock()

	b := g.NewBuilder()

	b.WriteString("digraph PortFSM {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString(
		"  node [shape=circle, style=filled, fillcolor=\"#f8f8f8\", color=\"#444444\", fontname=\"Helvetica\"];\n",
	)
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	b.WriteString("  __start [shape=point, style=invis];\n")
	b.WriteString(g.Format("  __start -> \"{}\" [label=\" initial\"];\n\n", stage.stateName(stage.initial())))

	type edgeKey struct{ from, to g.String }
	grouped := g.NewMap[edgeKey, g.Slice[g.String]]()

	n := stage.numStates()
	for si := 0; si < n; si++ {
		from := PortState(si)
		for ei := 0; ei < numEvents; ei++ {
			ev := PortEvent(ei)
			to := stage.next(from, ev)

			label := g.String(ev.String())
			if exit := stage.exit(from, ev); exit != ActionNone {
				label += g.Format(" / {}", exit)
			}
			if entry := stage.entry(to, ev); entry != ActionNone {
				label += g.Format(" -> {}", entry)
			}

			key := edgeKey{from: g.String(stage.stateName(from)), to: g.String(stage.stateName(to))}
			grouped.Entry(key).
				AndModify(func(s *g.Slice[g.String]) { s.Push(label) }).
				OrInsert(g.SliceOf(label))
		}
	}

	var names g.Slice[g.String]
	for si := 0; si < n; si++ {
		names.Push(g.String(stage.stateName(PortState(si))))
	}
	names.SortBy(cmp.Cmp)

	for name := range names.Iter() {
		var attrs g.Slice[g.String]
		attrs.Push(g.Format("label=\"{}\"", name))

		switch {
		case name == g.String(stage.stateName(current)):
			attrs.Push("fillcolor=\"#90ee90\"", "shape=doublecircle")
		case name == g.String(stage.stateName(stage.errorState())), name == g.String(stage.stateName(stage.doneState())):
			attrs.Push("fillcolor=\"#d3d3d3\"", "shape=doublecircle")
		}

		b.WriteString(g.Format("  \"{}\" [{}];\n", name, attrs.Join(", ")))
	}

	b.WriteByte('\n')

	for pair, labels := range grouped.Iter() {
		label := labels.Join("\\n")

		var edge g.Slice[g.String]
		edge.Push(g.Format("label=\" {} \"", label))

		if label.Contains("wait") {
			edge.Push("style=dashed", "color=blue")
		}

		b.WriteString(g.Format("  \"{}\" -> \"{}\" [{}];\n", pair.from, pair.to, edge.Join(", ")))
	}

	b.WriteString("}\n")

	return b.String()
}
