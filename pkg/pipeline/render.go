package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/chartdot/pkg/chart"
	"github.com/matzehuels/chartdot/pkg/io"
	"github.com/matzehuels/chartdot/pkg/observability"
	"github.com/matzehuels/chartdot/pkg/render/dot"
)

// Convert writes c as DOT text.
func Convert(ctx context.Context, c *chart.Chart, opts Options) (string, error) {
	hooks := observability.Pipeline()
	hooks.OnConvertStart(ctx, c.Name, len(c.States))
	start := time.Now()

	src, err := dot.ToDOT(c, opts.DOTOptions())

	hooks.OnConvertComplete(ctx, c.Name, time.Since(start), err)
	return src, err
}

// Render generates output artifacts in the requested formats from DOT
// source. The JSON format exports c itself.
func Render(ctx context.Context, c *chart.Chart, src string, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, c, src, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderFormat(ctx context.Context, c *chart.Chart, src, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(src), nil
	case FormatSVG:
		return dot.RenderSVG(src)
	case FormatPNG:
		return dot.RenderPNG(ctx, src, opts.Scale)
	case FormatPDF:
		return dot.RenderPDF(ctx, src)
	case FormatJSON:
		var buf bytes.Buffer
		if err := io.WriteJSON(c, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, ValidateFormat(format)
	}
}
