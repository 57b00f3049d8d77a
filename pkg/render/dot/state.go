package dot

import (
	"fmt"

	"github.com/matzehuels/chartdot/pkg/chart"
)

const (
	startNodeAttrs = `label="", shape="circle", style=filled, fixedsize="true", fillcolor="black", width="0.2"`
	finalNodeAttrs = `label="", shape=doublecircle, style=filled, fixedsize=true, fillcolor=black, width=0.2`
	tableOpen      = "<table border='0' cellborder='0' style='rounded'>"
)

// startID names the synthetic initial pseudo-state of a cluster;
// cluster 0 is the document itself.
func startID(cluster int) string {
	if cluster == 0 {
		return "_start"
	}
	return fmt.Sprintf("_start%d", cluster)
}

// emitState writes s and, for compound states, everything nested in it.
// States that are already registered are skipped, so callers may reach
// the same state more than once.
func (e *emitter) emitState(w *writer, s *chart.State) error {
	if e.reg.isEmitted(s.ID) {
		return nil
	}
	switch {
	case e.idx.HasChildren(s.ID):
		return e.emitCompound(w, s)
	case s.IsFinal():
		e.emitFinal(w, s)
	default:
		e.emitSimple(w, s)
	}
	return nil
}

// emitCompound renders s as a cluster holding its children.
func (e *emitter) emitCompound(w *writer, s *chart.State) error {
	cluster := e.reg.allocCluster()
	e.reg.markEmitted(s.ID, cluster)

	w.linef("subgraph cluster%d {", cluster)
	err := w.nest(func() error {
		w.line(`style="rounded"`)
		w.line("label=<")
		_ = w.nest(func() error {
			w.line(tableOpen)
			_ = w.nest(func() error {
				header := "<b>" + Escape(s.ID) + "</b>"
				if s.Type != "" {
					header = "<i>" + Escape(s.Type) + "</i>" + header
				}
				w.linef("<tr><td colspan='3'>%s</td></tr>", header)
				renderActions(w, labelEntry, s.Entry)
				renderActions(w, labelExit, s.Exit)
				return nil
			})
			w.line("</table>")
			return nil
		})
		w.line(">")

		for _, child := range e.idx.Children(s.ID) {
			cw := w.sub()
			if err := e.emitState(cw, child); err != nil {
				return err
			}
			w.appendFrom(cw)
		}

		// Parallel regions are all active at once; an initial arrow would mislead.
		if s.IsParallel() || !s.Initial.HasTargets() {
			return nil
		}
		start := &chart.State{ID: startID(cluster)}
		w.linef("%s [%s]", nodeID(start.ID), startNodeAttrs)
		if !e.ready(s.Initial) {
			e.postpone(start, s.Initial)
			return nil
		}
		return e.emitTransition(w, start, s.Initial)
	})
	if err != nil {
		return err
	}
	w.line("}")
	e.debug("emitted cluster", "state", s.ID, "cluster", cluster)
	return nil
}

// emitFinal renders s as a filled double ring.
func (e *emitter) emitFinal(w *writer, s *chart.State) {
	w.linef("%s [%s] // Final", nodeID(s.ID), finalNodeAttrs)
	e.reg.markEmitted(s.ID, 0)
}

// emitSimple renders s as a rounded record with its entry and exit actions.
func (e *emitter) emitSimple(w *writer, s *chart.State) {
	w.linef("%s [", nodeID(s.ID))
	_ = w.nest(func() error {
		w.line("label=<")
		_ = w.nest(func() error {
			w.line(tableOpen)
			_ = w.nest(func() error {
				w.linef("<tr><td colspan='3'><b>%s</b></td></tr>", Escape(s.ID))
				renderActions(w, labelEntry, s.Entry)
				renderActions(w, labelExit, s.Exit)
				return nil
			})
			w.line("</table>")
			return nil
		})
		w.line(">")
		return nil
	})
	w.line("]")
	e.reg.markEmitted(s.ID, 0)
}
