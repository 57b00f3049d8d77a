package dot

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartdot/pkg/buildinfo"
	"github.com/matzehuels/chartdot/pkg/chart"
	"github.com/matzehuels/chartdot/pkg/errors"
)

// DefaultTool is the generator name written into the header comment.
const DefaultTool = "chartdot"

// Options configures DOT generation.
type Options struct {
	// Tool and Version identify the generator in the header comment.
	// They default to [DefaultTool] and [buildinfo.Version].
	Tool    string
	Version string

	// Now supplies the generation date. Defaults to time.Now.
	Now func() time.Time

	// Logger receives debug events while the chart is written. Optional.
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Tool == "" {
		o.Tool = DefaultTool
	}
	if o.Version == "" {
		o.Version = buildinfo.Version
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// emitter holds the state of one serialization run. It is never reused.
type emitter struct {
	idx     *chart.Index
	reg     *registry
	opts    Options
	pending []pendingEdge
	edges   int
}

func newEmitter(c *chart.Chart, opts Options) *emitter {
	return &emitter{
		idx:  chart.NewIndex(c),
		reg:  newRegistry(),
		opts: opts.withDefaults(),
	}
}

func (e *emitter) debug(msg string, keyvals ...any) {
	if e.opts.Logger != nil {
		e.opts.Logger.Debug(msg, keyvals...)
	}
}

// ToDOT converts a chart to Graphviz DOT source.
//
// States are written first, compound states as nested clusters, and all
// transitions afterwards, so every edge refers to a node that already
// exists. A transition target that names no state fails with
// [errors.ErrCodeStateNotFound]; a nil chart or nil state fails with
// [errors.ErrCodeInvalidModel]. No partial output is returned on error.
//
// The result can be rendered with [RenderSVG], [RenderPDF] or [RenderPNG].
func ToDOT(c *chart.Chart, opts Options) (string, error) {
	if err := checkChart(c); err != nil {
		return "", err
	}
	e := newEmitter(c, opts)
	var w writer
	if err := e.document(&w); err != nil {
		return "", err
	}
	return w.String(), nil
}

// Write converts a chart to DOT source and writes it to out.
// Nothing is written if conversion fails.
func Write(out io.Writer, c *chart.Chart, opts Options) error {
	src, err := ToDOT(c, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, src)
	return err
}

// checkChart rejects charts the index cannot be built over.
func checkChart(c *chart.Chart) error {
	if c == nil {
		return errors.New(errors.ErrCodeInvalidModel, "chart is nil")
	}
	for i, s := range c.States {
		if s == nil {
			return errors.New(errors.ErrCodeInvalidModel, "state %d is nil", i)
		}
	}
	return nil
}

func (e *emitter) document(w *writer) error {
	c := e.idx.Chart()
	date := e.opts.Now().Format("2006-01-02")

	w.linef("// This file is automatically generated by %s (version %s)", e.opts.Tool, e.opts.Version)
	w.linef("// Generated on %s", date)
	w.line("// View result online: https://dreampuf.github.io/GraphvizOnline/")
	w.line("digraph finite_state_machine {")
	err := w.nest(func() error {
		w.linef(`label="Document: %s\lDate: %s\l"`, escapeQuoted(c.Name), date)
		w.line("node [shape = Mrecord]")
		w.line("compound=true")
		w.line(`size="8,5"`)

		var start *chart.State
		if c.Initial.HasTargets() {
			start = &chart.State{ID: startID(0)}
			w.linef("%s [%s]", start.ID, startNodeAttrs)
		}

		if err := e.states(w); err != nil {
			return err
		}

		if start != nil {
			if err := e.emitTransition(w, start, c.Initial); err != nil {
				return err
			}
		}
		for _, p := range e.pending {
			if err := e.emitTransition(w, p.source, p.t); err != nil {
				return err
			}
		}
		for _, s := range c.States {
			for _, t := range s.Transitions {
				if err := e.emitTransition(w, s, t); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.line("}")

	e.debug("wrote chart",
		"name", c.Name,
		"nodes", e.reg.count(),
		"clusters", e.reg.next-1,
		"edges", e.edges)
	return nil
}

// states writes every top-level state with its subtree, then any state
// that is still missing because its parent is not part of the chart.
func (e *emitter) states(w *writer) error {
	for _, s := range e.idx.TopLevel() {
		if err := e.emitState(w, s); err != nil {
			return err
		}
	}
	for _, s := range e.idx.Chart().States {
		if err := e.emitState(w, s); err != nil {
			return err
		}
	}
	return nil
}
