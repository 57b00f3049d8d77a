package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/chartdot/pkg/chart"
	"github.com/matzehuels/chartdot/pkg/errors"
)

// Format identifies a model encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

var extFormats = map[string]Format{
	".json": FormatJSON,
	".toml": FormatTOML,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
}

// FormatFromPath returns the model format implied by the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported model file %q (want one of %s)", filepath.Base(path), strings.Join(Extensions(), ", "))
}

// Extensions lists the recognized model file extensions in sorted order.
func Extensions() []string {
	exts := make([]string, 0, len(extFormats))
	for ext := range extFormats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Read decodes a model in the given format and validates it.
func Read(r io.Reader, format Format) (*chart.Chart, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	case FormatYAML:
		return ReadYAML(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown model format %q", format)
	}
}

// ReadJSON decodes a JSON model from r and validates it.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*chart.Chart, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var c chart.Chart
	if err := dec.Decode(&c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return validated(&c)
}

// ReadTOML decodes a TOML model from r and validates it.
// States are written as an array of tables:
//
//	name = "door"
//	initial = { targets = ["closed"] }
//
//	[[states]]
//	id = "closed"
//	  [[states.transitions]]
//	  targets = ["open"]
//	  events = ["push"]
func ReadTOML(r io.Reader) (*chart.Chart, error) {
	var c chart.Chart
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "decode toml: unknown key %q", undecoded[0].String())
	}
	return validated(&c)
}

// ReadYAML decodes a YAML model from r and validates it.
func ReadYAML(r io.Reader) (*chart.Chart, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c chart.Chart
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "decode yaml: empty document")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
	}
	return validated(&c)
}

// Import reads the model file at path, choosing the decoder by extension.
// A model without a name is named after the file.
func Import(path string) (*chart.Chart, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "model file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}

	c, err := Read(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c, nil
}

// ImportJSON reads a JSON model file regardless of its extension.
func ImportJSON(path string) (*chart.Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "model file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

func validated(c *chart.Chart) (*chart.Chart, error) {
	if err := chart.Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}
