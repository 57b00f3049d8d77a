package dot

import (
	"strings"

	"github.com/matzehuels/chartdot/pkg/chart"
	"github.com/matzehuels/chartdot/pkg/errors"
)

// emitTransition writes one edge per target of t. A transition without
// targets loops back onto source.
//
// Graphviz cannot attach an edge to a cluster, so both endpoints are
// redirected to the first leaf of their state; ltail/lhead then clip the
// arrow at the cluster border.
func (e *emitter) emitTransition(w *writer, source *chart.State, t chart.Transition) error {
	targets := t.Targets
	if len(targets) == 0 {
		targets = []string{source.ID}
	}
	events := strings.Join(t.Events, ",")

	for _, target := range targets {
		targetState, err := e.idx.Lookup(target)
		if err != nil {
			return errors.Wrap(errors.ErrCodeStateNotFound, err, "transition from %q", source.ID)
		}
		sourceLeaf, err := e.idx.FirstLeaf(source)
		if err != nil {
			return err
		}
		targetLeaf, err := e.idx.FirstLeaf(targetState)
		if err != nil {
			return err
		}

		e.edges++
		edge := nodeID(sourceLeaf.ID) + " -> " + nodeID(targetLeaf.ID)

		fromCluster := source.ID != sourceLeaf.ID
		toCluster := targetState.ID != targetLeaf.ID
		labeled := t.Condition != nil || events != ""
		if !fromCluster && !toCluster && !labeled {
			w.line(edge)
			continue
		}

		w.line(edge + " [")
		_ = w.nest(func() error {
			if fromCluster {
				w.linef("ltail=cluster%d,", e.reg.clusterOf(source.ID))
			}
			if toCluster {
				w.linef("lhead=cluster%d,", e.reg.clusterOf(targetState.ID))
			}
			if t.IsInternal() {
				w.line(`style="dashed",`)
			}
			if labeled {
				e.transitionLabel(w, events, t)
			}
			return nil
		})
		w.line("]")
	}
	return nil
}

// transitionLabel writes the HTML label of a transition: one row with the
// events and guard, then the transition's actions.
func (e *emitter) transitionLabel(w *writer, events string, t chart.Transition) {
	w.line("label=<")
	_ = w.nest(func() error {
		w.line("<table border='0'>")
		_ = w.nest(func() error {
			text := Escape(events)
			if t.Condition != nil {
				text += " [" + Escape(*t.Condition) + "]"
			}
			w.linef("<tr><td colspan='2'>%s</td></tr>", text)
			renderActions(w, labelOnTrans, t.Actions)
			return nil
		})
		w.line("</table>")
		return nil
	})
	w.line(">")
}

// pendingEdge is an initial transition whose target had no node yet when
// its cluster was written.
type pendingEdge struct {
	source *chart.State
	t      chart.Transition
}

// ready reports whether every target of t, and the leaf it resolves to,
// already has a node. Unresolvable targets count as ready so that
// emitTransition reports them.
func (e *emitter) ready(t chart.Transition) bool {
	for _, id := range t.Targets {
		s, err := e.idx.Lookup(id)
		if err != nil {
			return true
		}
		leaf, err := e.idx.FirstLeaf(s)
		if err != nil {
			return true
		}
		if !e.reg.isEmitted(s.ID) || !e.reg.isEmitted(leaf.ID) {
			return false
		}
	}
	return true
}

// postpone queues t for the edge pass.
func (e *emitter) postpone(source *chart.State, t chart.Transition) {
	e.pending = append(e.pending, pendingEdge{source: source, t: t})
}
