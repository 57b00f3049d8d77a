package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/chartdot/pkg/chart"
)

// WriteJSON encodes a model as indented JSON and writes it to w.
// The output can be read back with [ReadJSON].
func WriteJSON(c *chart.Chart, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a model to a JSON file at path.
func ExportJSON(c *chart.Chart, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(c, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
