package chart

// Well-known state kind tags. Any other tag is carried through unchanged.
const (
	KindFinal    = "final"
	KindParallel = "parallel"
)

// TransitionInternal marks a transition that does not exit its source state.
const TransitionInternal = "internal"

// Attr is a single attribute name/value pair of an [Action].
type Attr struct {
	Name  string `json:"name" toml:"name" yaml:"name"`
	Value string `json:"value" toml:"value" yaml:"value"`
}

// Action is an executable-content element, e.g. a script or an assignment.
// Type is the element tag ("script", "log", "assign", ...).
type Action struct {
	Type  string `json:"type" toml:"type" yaml:"type"`
	Attrs []Attr `json:"attrs,omitempty" toml:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Transition is an edge leaving a state.
//
// An empty Targets list means the transition loops back onto its source.
// Condition is nil when the transition has no guard; a non-nil empty
// condition is kept as written.
type Transition struct {
	Targets   []string `json:"targets,omitempty" toml:"targets,omitempty" yaml:"targets,omitempty"`
	Events    []string `json:"events,omitempty" toml:"events,omitempty" yaml:"events,omitempty"`
	Condition *string  `json:"cond,omitempty" toml:"cond,omitempty" yaml:"cond,omitempty"`
	Type      string   `json:"type,omitempty" toml:"type,omitempty" yaml:"type,omitempty"`
	Actions   []Action `json:"actions,omitempty" toml:"actions,omitempty" yaml:"actions,omitempty"`
}

// IsInternal reports whether the transition is tagged "internal".
func (t Transition) IsInternal() bool { return t.Type == TransitionInternal }

// HasTargets reports whether the transition names at least one target.
// It is used for initial descriptors, where no targets means "no initial".
func (t Transition) HasTargets() bool { return len(t.Targets) > 0 }

// State is one node of the statechart.
type State struct {
	ID          string       `json:"id" toml:"id" yaml:"id"`
	Type        string       `json:"type,omitempty" toml:"type,omitempty" yaml:"type,omitempty"`
	Parent      string       `json:"parent,omitempty" toml:"parent,omitempty" yaml:"parent,omitempty"`
	Entry       []Action     `json:"entry,omitempty" toml:"entry,omitempty" yaml:"entry,omitempty"`
	Exit        []Action     `json:"exit,omitempty" toml:"exit,omitempty" yaml:"exit,omitempty"`
	Initial     Transition   `json:"initial,omitzero" toml:"initial,omitempty" yaml:"initial,omitempty"`
	Transitions []Transition `json:"transitions,omitempty" toml:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// IsFinal reports whether the state is tagged "final".
func (s *State) IsFinal() bool { return s.Type == KindFinal }

// IsParallel reports whether the state is tagged "parallel".
func (s *State) IsParallel() bool { return s.Type == KindParallel }

// IsTopLevel reports whether the state has no parent.
func (s *State) IsTopLevel() bool { return s.Parent == "" }

// Chart is a complete statechart document.
type Chart struct {
	Name    string     `json:"name" toml:"name" yaml:"name"`
	Initial Transition `json:"initial,omitzero" toml:"initial,omitempty" yaml:"initial,omitempty"`
	States  []*State   `json:"states" toml:"states" yaml:"states"`
}

// TransitionCount returns the total number of transitions across all states.
func (c *Chart) TransitionCount() int {
	n := 0
	for _, s := range c.States {
		n += len(s.Transitions)
	}
	return n
}

// Cond returns a pointer to cond, for building guarded transitions inline.
func Cond(cond string) *string { return &cond }
