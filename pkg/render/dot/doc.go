// Package dot serializes statecharts to Graphviz DOT.
//
// # Overview
//
// [ToDOT] walks a [chart.Chart] and produces a digraph with HTML-like
// labels. Simple states become rounded records listing their entry and
// exit actions, final states become filled double rings, and every state
// with children becomes a cluster that contains its children:
//
//	src, err := dot.ToDOT(c, dot.Options{})
//	svg, err := dot.RenderSVG(src)
//
// # Two Passes
//
// Output is written in two passes. The first writes every node, recursing
// into clusters; each state is written at most once no matter how often
// it is reached. The second writes every transition of every state. An
// initial pseudo-state (a small black circle) is written for the document
// and for each non-parallel cluster that declares an initial target.
//
// # Edges Into Clusters
//
// Graphviz cannot draw an edge to a cluster. When a transition starts or
// ends at a compound state, the edge is drawn between the first leaf
// descendants instead, and ltail=clusterN or lhead=clusterN clips the
// arrow at the cluster border (compound=true is set in the header).
// Cluster numbers start at 1 and are stable for the whole run.
//
// # Escaping
//
// All label text passes through [Escape], which replaces &, ", ', <, >,
// newlines and the record delimiters |, { and }. Node ids are written
// bare when they are plain DOT identifiers and quoted otherwise.
//
// # Errors
//
// A transition naming an unknown state aborts the run with
// [errors.ErrCodeStateNotFound]. A cyclic parent relation is reported as
// [errors.ErrCodeCyclicModel] rather than recursing forever.
//
// # Dependencies
//
// [RenderSVG] uses [github.com/goccy/go-graphviz] in-process. PDF and PNG
// conversion requires librsvg (rsvg-convert).
//
// [errors.ErrCodeStateNotFound]: github.com/matzehuels/chartdot/pkg/errors.ErrCodeStateNotFound
// [errors.ErrCodeCyclicModel]: github.com/matzehuels/chartdot/pkg/errors.ErrCodeCyclicModel
package dot
