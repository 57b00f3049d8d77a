// Package render provides output conversion for rendered statecharts.
//
// # Overview
//
// Statecharts are serialized to Graphviz DOT by the [dot] subpackage, which
// also renders DOT to SVG in-process. This package holds the format
// conversions that sit behind SVG:
//
//	svg, err := dot.RenderSVG(src)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (from librsvg).
//
// [dot]: github.com/matzehuels/chartdot/pkg/render/dot
package render
