// Package chart provides the in-memory statechart model consumed by the
// DOT serializer in [github.com/matzehuels/chartdot/pkg/render/dot].
//
// # Overview
//
// A [Chart] is a flat, ordered collection of [State] records. Nesting is
// expressed as a plain back-reference: each state names its parent by id
// in [State.Parent], and an empty parent marks a top-level state. Nothing
// owns anything through that link; compound structure is recovered by
// scanning or indexing the flat collection.
//
// States carry ordered entry and exit [Action] lists, an optional initial
// descriptor (a [Transition] whose targets name the default child), and
// their outgoing transitions. Actions are a type tag plus ordered
// attribute name/value pairs, mirroring executable content such as
// <script expr="..."/> in SCXML documents.
//
// # Index
//
// [NewIndex] builds the per-run lookup structures once: an id map and a
// children-by-parent index that preserves model order. The index answers
// the questions the serializer needs:
//
//	idx := chart.NewIndex(c)
//	s, err := idx.Lookup("B")
//	kids := idx.Children("B")
//	leaf, err := idx.FirstLeaf(s)
//
// [Index.FirstLeaf] descends through the first child at every level until it
// reaches a state without children. The parent relation is required to be
// acyclic; the index bounds its descent by the number of states and reports
// [errors.ErrCodeCyclicModel] instead of looping.
//
// # Validation
//
// [Validate] checks identifiers, duplicate ids and parent cycles. Loaders in
// pkg/io call it; the serializer does not, and works on any model whose
// transition targets resolve.
//
// # Concurrency
//
// Charts are plain data. Concurrent readers are safe; an [Index] is
// read-only after construction and may be shared between goroutines.
package chart
