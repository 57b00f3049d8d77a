package chart

import (
	"github.com/matzehuels/chartdot/pkg/errors"
)

// Validate checks the structural invariants the serializer relies on:
// every id is well formed and unique, every parent reference resolves,
// and no state is its own ancestor.
//
// Transition targets are not checked here; the serializer reports them
// as [errors.ErrCodeStateNotFound] when it reaches them.
func Validate(c *Chart) error {
	if c == nil {
		return errors.New(errors.ErrCodeInvalidModel, "chart is nil")
	}

	seen := make(map[string]bool, len(c.States))
	for i, s := range c.States {
		if s == nil {
			return errors.New(errors.ErrCodeInvalidModel, "state #%d is nil", i)
		}
		if err := errors.ValidateStateID(s.ID); err != nil {
			return err
		}
		if seen[s.ID] {
			return errors.New(errors.ErrCodeInvalidModel, "duplicate state id %q", s.ID)
		}
		seen[s.ID] = true
	}

	for _, s := range c.States {
		if s.Parent != "" && !seen[s.Parent] {
			return errors.New(errors.ErrCodeInvalidModel, "state %q has unknown parent %q", s.ID, s.Parent)
		}
	}

	return checkParentCycles(c)
}

// checkParentCycles walks each state's ancestor chain with white/gray/black
// coloring so that every state is visited once.
func checkParentCycles(c *Chart) error {
	const (
		white = iota
		gray
		black
	)
	parent := make(map[string]string, len(c.States))
	for _, s := range c.States {
		parent[s.ID] = s.Parent
	}

	color := make(map[string]int, len(c.States))
	for _, s := range c.States {
		var path []string
		id := s.ID
		for id != "" && color[id] == white {
			color[id] = gray
			path = append(path, id)
			id = parent[id]
		}
		if id != "" && color[id] == gray {
			return errors.New(errors.ErrCodeCyclicModel, "state %q is its own ancestor", id)
		}
		for _, p := range path {
			color[p] = black
		}
	}
	return nil
}
