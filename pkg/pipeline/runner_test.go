package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/chartdot/pkg/cache"
	"github.com/matzehuels/chartdot/pkg/chart"
	"github.com/matzehuels/chartdot/pkg/errors"
	"github.com/matzehuels/chartdot/pkg/observability"
)

func testChart() *chart.Chart {
	return &chart.Chart{
		Name:    "door",
		Initial: chart.Transition{Targets: []string{"closed"}},
		States: []*chart.State{
			{ID: "closed", Transitions: []chart.Transition{{Targets: []string{"open"}, Events: []string{"push"}}}},
			{ID: "open", Transitions: []chart.Transition{{Targets: []string{"closed"}, Events: []string{"pull"}}}},
		},
	}
}

func testOptions(formats ...string) Options {
	return Options{
		Formats: formats,
		Version: "test",
		Now:     func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) },
	}
}

type recordingHooks struct {
	observability.NoopCacheHooks
	observability.NoopPipelineHooks

	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(ev string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
}

func (h *recordingHooks) OnCacheHit(_ context.Context, k string)        { h.record("hit:" + k) }
func (h *recordingHooks) OnCacheMiss(_ context.Context, k string)       { h.record("miss:" + k) }
func (h *recordingHooks) OnCacheSet(_ context.Context, k string, _ int) { h.record("set:" + k) }
func (h *recordingHooks) OnConvertStart(_ context.Context, name string, _ int) {
	h.record("convert:" + name)
}
func (h *recordingHooks) OnLoadComplete(_ context.Context, _ string, n int, _ time.Duration, err error) {
	if err != nil {
		h.record("load:error")
		return
	}
	h.record("load:ok")
}

func (h *recordingHooks) has(ev string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, e := range h.events {
		if e == ev {
			return true
		}
	}
	return false
}

func installHooks(t *testing.T) *recordingHooks {
	t.Helper()
	h := &recordingHooks{}
	observability.SetCacheHooks(h)
	observability.SetPipelineHooks(h)
	t.Cleanup(observability.Reset)
	return h
}

func TestRunnerExecute_DOTAndJSON(t *testing.T) {
	hooks := installHooks(t)
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), testChart(), testOptions(FormatDOT, FormatJSON))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	src := string(result.Artifacts[FormatDOT])
	if src != result.DOT {
		t.Error("dot artifact should equal Result.DOT")
	}
	if !strings.Contains(src, "closed -> open [") {
		t.Errorf("dot artifact missing edge:\n%s", src)
	}
	if result.DOTHash != cache.Hash([]byte(src)) {
		t.Error("DOTHash should hash the DOT text")
	}

	var back chart.Chart
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &back); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if back.Name != "door" || len(back.States) != 2 {
		t.Errorf("json artifact = %+v", back)
	}

	if result.Stats.StateCount != 2 || result.Stats.TransitionCount != 2 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if result.CacheInfo.RenderHit {
		t.Error("dot/json only run should not count as cache hit")
	}
	if !hooks.has("convert:door") {
		t.Error("convert hook not called")
	}
}

func TestRunnerExecute_CachesSVG(t *testing.T) {
	hooks := installHooks(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	ctx := context.Background()

	first, err := r.Execute(ctx, testChart(), testOptions(FormatSVG))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss")
	}
	if !strings.Contains(string(first.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact missing <svg")
	}
	if !hooks.has("miss:svg") || !hooks.has("set:svg") {
		t.Errorf("expected miss and set events, got %v", hooks.events)
	}

	second, err := r.Execute(ctx, testChart(), testOptions(FormatSVG))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit")
	}
	if string(second.Artifacts[FormatSVG]) != string(first.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}
	if !hooks.has("hit:svg") {
		t.Error("expected hit event")
	}

	opts := testOptions(FormatSVG)
	opts.Refresh = true
	third, err := r.Execute(ctx, testChart(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("refresh run should not hit")
	}
}

func TestRunnerExecute_UnknownTarget(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	c := testChart()
	c.States[0].Transitions[0].Targets = []string{"ghost"}

	_, err := r.Execute(context.Background(), c, testOptions(FormatDOT))
	if !errors.Is(err, errors.ErrCodeStateNotFound) {
		t.Errorf("Execute() error = %v, want STATE_NOT_FOUND", err)
	}
}

func TestRunnerExecute_InvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), testChart(), testOptions("gif"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Execute() error = %v, want INVALID_INPUT", err)
	}
}

func TestRunnerExecuteFile(t *testing.T) {
	hooks := installHooks(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "turnstile.yaml")
	model := "states:\n  - id: locked\n    transitions: [{targets: [unlocked], events: [coin]}]\n  - id: unlocked\n"
	if err := os.WriteFile(path, []byte(model), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil, nil)
	result, err := r.ExecuteFile(context.Background(), path, testOptions())
	if err != nil {
		t.Fatalf("ExecuteFile() error: %v", err)
	}
	if !strings.Contains(result.DOT, `label="Document: turnstile\l`) {
		t.Errorf("chart should be named after the file:\n%s", result.DOT)
	}
	if !hooks.has("load:ok") {
		t.Error("load hook not called")
	}

	_, err = r.ExecuteFile(context.Background(), filepath.Join(dir, "missing.yaml"), testOptions())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ExecuteFile() error = %v, want FILE_NOT_FOUND", err)
	}
	if !hooks.has("load:error") {
		t.Error("load hook should see the error")
	}
}
