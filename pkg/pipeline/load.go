package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/chartdot/pkg/chart"
	"github.com/matzehuels/chartdot/pkg/io"
	"github.com/matzehuels/chartdot/pkg/observability"
)

// Load reads and validates the model file at path.
func Load(ctx context.Context, path string) (*chart.Chart, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	c, err := io.Import(path)

	states := 0
	if c != nil {
		states = len(c.States)
	}
	hooks.OnLoadComplete(ctx, path, states, time.Since(start), err)
	return c, err
}
