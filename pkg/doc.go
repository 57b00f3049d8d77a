// Package pkg provides the core libraries of chartdot.
//
// # Overview
//
// chartdot turns hierarchical state machine models into Graphviz diagrams.
// Compound and parallel states become nested clusters, transitions become
// edges that clip at cluster borders. The pkg directory is organized as:
//
//  1. [chart] - the statechart model, its index and structural validation
//  2. [io] - model import (JSON, TOML, YAML) and JSON export
//  3. [render/dot] - DOT serialization and in-process SVG layout
//  4. [render] - SVG to PDF/PNG conversion
//  5. [cache] - artifact caching (file, Redis, null)
//  6. [pipeline] - orchestration (load → convert → render)
//  7. [observability], [errors], [buildinfo] - ambient support
//
// # Architecture
//
//	Model file (JSON/TOML/YAML)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [render/dot] package (DOT text)
//	         ↓
//	    Graphviz layout → SVG/PDF/PNG
//
// # Quick Start
//
//	c, err := io.Import("door.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	src, err := dot.ToDOT(c, dot.Options{})
//	svg, err := dot.RenderSVG(src)
//
// For caching and multiple formats, use [pipeline.Runner].
//
// [chart]: github.com/matzehuels/chartdot/pkg/chart
// [io]: github.com/matzehuels/chartdot/pkg/io
// [render/dot]: github.com/matzehuels/chartdot/pkg/render/dot
// [render]: github.com/matzehuels/chartdot/pkg/render
// [cache]: github.com/matzehuels/chartdot/pkg/cache
// [pipeline]: github.com/matzehuels/chartdot/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/chartdot/pkg/pipeline#Runner
// [observability]: github.com/matzehuels/chartdot/pkg/observability
// [errors]: github.com/matzehuels/chartdot/pkg/errors
// [buildinfo]: github.com/matzehuels/chartdot/pkg/buildinfo
package pkg
