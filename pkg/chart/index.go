package chart

import (
	"github.com/matzehuels/chartdot/pkg/errors"
)

// Index provides id lookup and parent/child queries over a [Chart].
// It is built once per serialization run; queries never rescan the model.
type Index struct {
	chart    *Chart
	byID     map[string]*State
	children map[string][]*State // parent id -> children in model order
}

// NewIndex builds an index over c. When ids repeat, the first occurrence
// wins for [Index.Lookup]; every occurrence still appears in [Index.Children].
func NewIndex(c *Chart) *Index {
	idx := &Index{
		chart:    c,
		byID:     make(map[string]*State, len(c.States)),
		children: make(map[string][]*State),
	}
	for _, s := range c.States {
		if _, dup := idx.byID[s.ID]; !dup {
			idx.byID[s.ID] = s
		}
		if s.Parent != "" {
			idx.children[s.Parent] = append(idx.children[s.Parent], s)
		}
	}
	return idx
}

// Chart returns the indexed chart.
func (idx *Index) Chart() *Chart { return idx.chart }

// Lookup returns the state with the given id.
// It fails with [errors.ErrCodeStateNotFound] if no such state exists.
func (idx *Index) Lookup(id string) (*State, error) {
	if s, ok := idx.byID[id]; ok {
		return s, nil
	}
	return nil, errors.New(errors.ErrCodeStateNotFound, "state %q not found", id)
}

// Children returns the direct children of the state with the given id,
// in model order. The returned slice must not be modified.
func (idx *Index) Children(id string) []*State {
	return idx.children[id]
}

// HasChildren reports whether any state names id as its parent.
func (idx *Index) HasChildren(id string) bool {
	return len(idx.children[id]) > 0
}

// TopLevel returns the states without a parent, in model order.
func (idx *Index) TopLevel() []*State {
	var out []*State
	for _, s := range idx.chart.States {
		if s.IsTopLevel() {
			out = append(out, s)
		}
	}
	return out
}

// FirstLeaf returns the first descendant leaf of s: it follows the first
// child at every level until it reaches a state without children. A state
// without children is its own leaf.
//
// A cyclic parent relation would descend forever; FirstLeaf gives up after
// as many steps as there are states and reports [errors.ErrCodeCyclicModel].
func (idx *Index) FirstLeaf(s *State) (*State, error) {
	cur := s
	for range len(idx.chart.States) + 1 {
		kids := idx.children[cur.ID]
		if len(kids) == 0 {
			return cur, nil
		}
		cur = kids[0]
	}
	return nil, errors.New(errors.ErrCodeCyclicModel, "state %q is its own ancestor", s.ID)
}
