package dot

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/chartdot/pkg/chart"
	"github.com/matzehuels/chartdot/pkg/errors"
)

var testOpts = Options{
	Version: "test",
	Now:     func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) },
}

// demoChart is the document from the package overview: a simple state A,
// a compound state B with children B1 and B2, and a guarded transition
// from A into B.
func demoChart() *chart.Chart {
	return &chart.Chart{
		Name:    "demo",
		Initial: chart.Transition{Targets: []string{"A"}},
		States: []*chart.State{
			{
				ID: "A",
				Transitions: []chart.Transition{{
					Targets:   []string{"B"},
					Events:    []string{"event1", "event2"},
					Condition: chart.Cond("guard"),
				}},
			},
			{ID: "B", Initial: chart.Transition{Targets: []string{"B1"}}},
			{ID: "B1", Parent: "B"},
			{ID: "B2", Parent: "B"},
		},
	}
}

func mustDOT(t *testing.T, c *chart.Chart) string {
	t.Helper()
	src, err := ToDOT(c, testOpts)
	if err != nil {
		t.Fatalf("ToDOT() error: %v", err)
	}
	return src
}

func TestToDOT_Header(t *testing.T) {
	src := mustDOT(t, demoChart())

	for _, want := range []string{
		"// This file is automatically generated by chartdot (version test)\n",
		"// Generated on 2026-10-19\n",
		"digraph finite_state_machine {\n",
		`  label="Document: demo\lDate: 2026-10-19\l"` + "\n",
		"  node [shape = Mrecord]\n",
		"  compound=true\n",
		`  size="8,5"` + "\n",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
	if !strings.HasSuffix(src, "}\n") {
		t.Error("ToDOT() output should end with closing brace")
	}
	if strings.Count(src, "{") != strings.Count(src, "}") {
		t.Errorf("unbalanced braces:\n%s", src)
	}
}

func TestToDOT_Scenario(t *testing.T) {
	src := mustDOT(t, demoChart())

	for _, want := range []string{
		"  _start [" + startNodeAttrs + "]\n",
		"  _start -> A\n",
		"  subgraph cluster1 {\n",
		"    B1 [\n",
		"    B2 [\n",
		"    _start1 [" + startNodeAttrs + "]\n",
		"    _start1 -> B1\n",
		"  A -> B1 [\n",
		"    lhead=cluster1,\n",
		"        <tr><td colspan='2'>event1,event2 [guard]</td></tr>\n",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("ToDOT() output missing %q\n%s", want, src)
		}
	}

	// The internal initial edge belongs to the cluster block.
	cluster := src[strings.Index(src, "subgraph cluster1"):]
	cluster = cluster[:strings.Index(cluster, "\n  }\n")]
	if !strings.Contains(cluster, "_start1 -> B1") {
		t.Errorf("initial edge of B not inside its cluster:\n%s", cluster)
	}
}

func TestToDOT_CompoundHeader(t *testing.T) {
	c := &chart.Chart{States: []*chart.State{
		{ID: "P", Type: chart.KindParallel, Entry: []chart.Action{{Type: "log", Attrs: []chart.Attr{{Name: "expr", Value: "'in'"}}}}},
		{ID: "R1", Parent: "P"},
	}}
	src := mustDOT(t, c)

	if !strings.Contains(src, "<tr><td colspan='3'><i>parallel</i><b>P</b></td></tr>") {
		t.Errorf("cluster header missing kind tag:\n%s", src)
	}
	if !strings.Contains(src, `<td border="1">&apos;in&apos;</td>`) {
		t.Errorf("cluster entry action missing:\n%s", src)
	}
}

var (
	nodeStmtRe = regexp.MustCompile(`^\s*("[^"]*"|[^\s"]+) \[`)
	edgeStmtRe = regexp.MustCompile(`^\s*("[^"]*"|\S+) -> ("[^"]*"|\S+)`)
)

// checkNodesBeforeEdges fails if any edge names a node that is declared
// later in src, or not at all.
func checkNodesBeforeEdges(t *testing.T, src string) {
	t.Helper()
	declared := map[string]int{}
	for i, line := range strings.Split(src, "\n") {
		if m := edgeStmtRe.FindStringSubmatch(line); m != nil {
			for _, id := range m[1:3] {
				at, ok := declared[id]
				if !ok || at > i {
					t.Errorf("line %d: edge %q references %s before its node", i+1, strings.TrimSpace(line), id)
				}
			}
			continue
		}
		if m := nodeStmtRe.FindStringSubmatch(line); m != nil {
			if _, seen := declared[m[1]]; !seen {
				declared[m[1]] = i
			}
		}
	}
}

func TestToDOT_NodesBeforeEdges(t *testing.T) {
	// B is listed before its target and children appear before their parent.
	c := &chart.Chart{
		Name:    "order",
		Initial: chart.Transition{Targets: []string{"Z"}},
		States: []*chart.State{
			{ID: "Y1", Parent: "Y", Transitions: []chart.Transition{{Targets: []string{"Z"}}}},
			{ID: "X", Transitions: []chart.Transition{{Targets: []string{"Y"}, Events: []string{"go"}}}},
			{ID: "Y", Initial: chart.Transition{Targets: []string{"Y2"}}},
			{ID: "Y2", Parent: "Y"},
			{ID: "Z", Type: chart.KindFinal},
		},
	}
	checkNodesBeforeEdges(t, mustDOT(t, c))
	checkNodesBeforeEdges(t, mustDOT(t, demoChart()))
}

func TestToDOT_ChildrenStayInsideCluster(t *testing.T) {
	// The child is listed before its parent but must still be nested.
	c := &chart.Chart{States: []*chart.State{
		{ID: "C1", Parent: "C"},
		{ID: "C"},
	}}
	src := mustDOT(t, c)

	if strings.Count(src, "C1 [") != 1 {
		t.Fatalf("C1 written %d times, want 1:\n%s", strings.Count(src, "C1 ["), src)
	}
	if !strings.Contains(src, "    C1 [\n") {
		t.Errorf("C1 not nested in the cluster of C:\n%s", src)
	}
}

func TestEmitStateIdempotent(t *testing.T) {
	c := demoChart()
	e := newEmitter(c, testOpts)
	var w writer

	for range 2 {
		for _, s := range c.States {
			if err := e.emitState(&w, s); err != nil {
				t.Fatalf("emitState() error: %v", err)
			}
		}
	}

	src := w.String()
	for _, id := range []string{"A [", "B1 [", "B2 [", "subgraph cluster"} {
		if n := strings.Count(src, id); n != 1 {
			t.Errorf("%q written %d times, want 1", id, n)
		}
	}
}

func TestToDOT_LeafRedirection(t *testing.T) {
	c := &chart.Chart{States: []*chart.State{
		{ID: "Outer", Transitions: []chart.Transition{{Targets: []string{"Other"}, Events: []string{"leave"}}}},
		{ID: "Inner", Parent: "Outer"},
		{ID: "Deep", Parent: "Inner"},
		{ID: "Other"},
	}}
	src := mustDOT(t, c)

	if !strings.Contains(src, "  Deep -> Other [\n    ltail=cluster1,\n") {
		t.Errorf("edge from compound state not redirected to its first leaf:\n%s", src)
	}
	for _, line := range strings.Split(src, "\n") {
		if m := edgeStmtRe.FindStringSubmatch(line); m != nil {
			if m[1] == "Outer" || m[1] == "Inner" || m[2] == "Outer" || m[2] == "Inner" {
				t.Errorf("edge endpoint is a compound state: %q", line)
			}
		}
	}
}

func TestToDOT_ClusterNumbersStable(t *testing.T) {
	c := &chart.Chart{States: []*chart.State{
		{ID: "A", Transitions: []chart.Transition{{Targets: []string{"G"}}}},
		{ID: "G", Transitions: []chart.Transition{{Targets: []string{"A"}, Events: []string{"back"}}}},
		{ID: "G1", Parent: "G"},
		{ID: "H"},
		{ID: "H1", Parent: "H", Transitions: []chart.Transition{{Targets: []string{"G"}}}},
	}}
	src := mustDOT(t, c)

	if !strings.Contains(src, "subgraph cluster1 {") || !strings.Contains(src, "subgraph cluster2 {") {
		t.Fatalf("expected clusters 1 and 2:\n%s", src)
	}
	if n := strings.Count(src, "lhead=cluster1,"); n != 2 {
		t.Errorf("lhead=cluster1 appears %d times, want 2:\n%s", n, src)
	}
	if !strings.Contains(src, "ltail=cluster1,") {
		t.Errorf("transition leaving G should carry ltail=cluster1:\n%s", src)
	}
	if strings.Contains(src, "cluster0") {
		t.Errorf("cluster0 must never be referenced:\n%s", src)
	}
}

func TestToDOT_SelfLoop(t *testing.T) {
	c := &chart.Chart{States: []*chart.State{
		{ID: "A", Transitions: []chart.Transition{{}}},
	}}
	src := mustDOT(t, c)

	if n := strings.Count(src, "A -> A"); n != 1 {
		t.Errorf("self loop written %d times, want 1:\n%s", n, src)
	}
	if strings.Contains(src, "A -> A [") {
		t.Errorf("unlabeled self loop should carry no attributes:\n%s", src)
	}
}

func TestToDOT_MultiTarget(t *testing.T) {
	c := &chart.Chart{States: []*chart.State{
		{ID: "S", Transitions: []chart.Transition{{Targets: []string{"T1", "T2"}, Events: []string{"fork"}}}},
		{ID: "T1"},
		{ID: "T2"},
	}}
	src := mustDOT(t, c)

	for _, want := range []string{"S -> T1 [", "S -> T2 ["} {
		if !strings.Contains(src, want) {
			t.Errorf("missing edge %q:\n%s", want, src)
		}
	}
	if n := strings.Count(src, "<tr><td colspan='2'>fork</td></tr>"); n != 2 {
		t.Errorf("label written %d times, want once per target", n)
	}
}

func TestToDOT_TransitionAttributes(t *testing.T) {
	c := &chart.Chart{States: []*chart.State{
		{ID: "A", Transitions: []chart.Transition{
			{
				Targets:   []string{"B"},
				Events:    []string{"tick"},
				Condition: chart.Cond("n < 3 && ok"),
				Type:      chart.TransitionInternal,
				Actions:   []chart.Action{{Type: "assign", Attrs: []chart.Attr{{Name: "location", Value: "n"}}}},
			},
			{Targets: []string{"B"}, Condition: chart.Cond("")},
		}},
		{ID: "B"},
	}}
	src := mustDOT(t, c)

	for _, want := range []string{
		`    style="dashed",` + "\n",
		"<tr><td colspan='2'>tick [n &lt; 3 &amp;&amp; ok]</td></tr>",
		`<tr><td rowspan='1'>onTrans</td><td><i>assign:location</i></td><td border="1">n</td></tr>`,
		"<tr><td colspan='2'> []</td></tr>",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("missing %q:\n%s", want, src)
		}
	}
}

func TestToDOT_FinalState(t *testing.T) {
	c := &chart.Chart{States: []*chart.State{{ID: "done", Type: chart.KindFinal}}}
	src := mustDOT(t, c)

	want := "  done [" + finalNodeAttrs + "] // Final\n"
	if !strings.Contains(src, want) {
		t.Errorf("final state missing %q:\n%s", want, src)
	}
}

func TestToDOT_ParallelHasNoInitial(t *testing.T) {
	c := &chart.Chart{States: []*chart.State{
		{ID: "P", Type: chart.KindParallel, Initial: chart.Transition{Targets: []string{"R1"}}},
		{ID: "R1", Parent: "P"},
		{ID: "R2", Parent: "P"},
	}}
	src := mustDOT(t, c)

	if strings.Contains(src, "_start") {
		t.Errorf("parallel state should not get an initial pseudo-state:\n%s", src)
	}
}

func TestToDOT_NoDocumentInitial(t *testing.T) {
	c := &chart.Chart{States: []*chart.State{{ID: "A"}}}
	src := mustDOT(t, c)

	if strings.Contains(src, "_start") {
		t.Errorf("no initial target, no _start expected:\n%s", src)
	}
}

func TestToDOT_DeferredInitial(t *testing.T) {
	// The cluster's initial target lives outside the cluster and has no
	// node yet when the cluster is written.
	c := &chart.Chart{States: []*chart.State{
		{ID: "K", Initial: chart.Transition{Targets: []string{"Later"}}},
		{ID: "K1", Parent: "K"},
		{ID: "Later"},
	}}
	src := mustDOT(t, c)

	if !strings.Contains(src, "  _start1 -> Later\n") {
		t.Errorf("deferred initial edge should be written at top level:\n%s", src)
	}
	checkNodesBeforeEdges(t, src)
}

func TestToDOT_QuotedIDs(t *testing.T) {
	c := &chart.Chart{States: []*chart.State{
		{ID: "wait-ack", Transitions: []chart.Transition{{Targets: []string{"s.done"}}}},
		{ID: "s.done", Type: chart.KindFinal},
	}}
	src := mustDOT(t, c)

	if !strings.Contains(src, `  "wait-ack" -> "s.done"`) {
		t.Errorf("ids with punctuation must be quoted:\n%s", src)
	}
	if !strings.Contains(src, "<b>wait-ack</b>") {
		t.Errorf("label should show the raw id:\n%s", src)
	}
}

func TestToDOT_UnknownTarget(t *testing.T) {
	c := &chart.Chart{States: []*chart.State{
		{ID: "A", Transitions: []chart.Transition{{Targets: []string{"ghost"}}}},
	}}

	src, err := ToDOT(c, testOpts)
	if !errors.Is(err, errors.ErrCodeStateNotFound) {
		t.Fatalf("ToDOT() error = %v, want %s", err, errors.ErrCodeStateNotFound)
	}
	if src != "" {
		t.Errorf("ToDOT() returned partial output on error: %q", src)
	}
	if !strings.Contains(err.Error(), `"ghost"`) {
		t.Errorf("error should name the missing state: %v", err)
	}
}

func TestToDOT_NilModel(t *testing.T) {
	tests := []struct {
		name string
		c    *chart.Chart
	}{
		{"nil chart", nil},
		{"nil state", &chart.Chart{States: []*chart.State{{ID: "A"}, nil}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := ToDOT(tt.c, testOpts)
			if !errors.Is(err, errors.ErrCodeInvalidModel) {
				t.Fatalf("ToDOT() error = %v, want %s", err, errors.ErrCodeInvalidModel)
			}
			if src != "" {
				t.Errorf("ToDOT() returned output on error: %q", src)
			}
		})
	}
}

func TestToDOT_PercentInLabels(t *testing.T) {
	c := &chart.Chart{States: []*chart.State{
		{
			ID:    "A",
			Entry: []chart.Action{{Type: "assign", Attrs: []chart.Attr{{Name: "expr", Value: "x %d 100%"}}}},
			Transitions: []chart.Transition{{
				Events:    []string{"tick%s"},
				Condition: chart.Cond("n % 2 == 0"),
			}},
		},
	}}

	src, err := ToDOT(c, testOpts)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"x %d 100%", "tick%s [n % 2 == 0]"} {
		if !strings.Contains(src, want) {
			t.Errorf("output missing %q:\n%s", want, src)
		}
	}
	if strings.Contains(src, "%!") {
		t.Errorf("output contains a formatting verb error:\n%s", src)
	}
}

func TestToDOT_UnknownDocumentInitial(t *testing.T) {
	c := &chart.Chart{
		Initial: chart.Transition{Targets: []string{"nowhere"}},
		States:  []*chart.State{{ID: "A"}},
	}
	if _, err := ToDOT(c, testOpts); !errors.Is(err, errors.ErrCodeStateNotFound) {
		t.Errorf("ToDOT() error = %v, want %s", err, errors.ErrCodeStateNotFound)
	}
}

func TestToDOT_CyclicParents(t *testing.T) {
	c := &chart.Chart{States: []*chart.State{
		{ID: "P", Parent: "Q", Transitions: []chart.Transition{{Targets: []string{"Q"}}}},
		{ID: "Q", Parent: "P"},
	}}
	if _, err := ToDOT(c, testOpts); !errors.Is(err, errors.ErrCodeCyclicModel) {
		t.Errorf("ToDOT() error = %v, want %s", err, errors.ErrCodeCyclicModel)
	}
}

func TestToDOT_DocumentNameEscaped(t *testing.T) {
	c := &chart.Chart{Name: "a<b> \"c\"\nd"}
	src := mustDOT(t, c)

	want := `label="Document: a&lt;b&gt; &quot;c&quot;<br align=\"left\"/>d\lDate: 2026-10-19\l"`
	if !strings.Contains(src, want) {
		t.Errorf("document label = missing %q:\n%s", want, src)
	}
}

func TestToDOT_DoesNotMutateChart(t *testing.T) {
	c := demoChart()
	before := len(c.States)
	_ = mustDOT(t, c)
	_ = mustDOT(t, c)
	if len(c.States) != before || c.States[1].Initial.Targets[0] != "B1" {
		t.Error("ToDOT() modified its input")
	}
}

func TestToDOT_IndependentRuns(t *testing.T) {
	a := mustDOT(t, demoChart())
	b := mustDOT(t, demoChart())
	if a != b {
		t.Error("two runs over equal charts produced different output")
	}
}

func TestWrite(t *testing.T) {
	var sb strings.Builder
	if err := Write(&sb, demoChart(), testOpts); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if sb.String() != mustDOT(t, demoChart()) {
		t.Error("Write() output differs from ToDOT()")
	}

	sb.Reset()
	bad := &chart.Chart{States: []*chart.State{{ID: "A", Transitions: []chart.Transition{{Targets: []string{"x"}}}}}}
	if err := Write(&sb, bad, testOpts); err == nil {
		t.Error("Write() should fail for unknown target")
	}
	if sb.Len() != 0 {
		t.Errorf("Write() wrote %d bytes despite error", sb.Len())
	}
}
