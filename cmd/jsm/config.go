// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/creachadair/jsm"
	"github.com/creachadair/jsm/ast"
	goyaml "github.com/goccy/go-yaml"
	"gopkg.in/yaml.v3"
)

// Config is the format of the settings file named by --config.
//
// Example:
//
//	format:
//	  pretty: true
//	  indent: 2
//	comments: true
//
// Fields not mentioned in the file keep their defaults. Flags given on the
// command line take precedence over the file.
type Config struct {
	Format   jsm.FormatOptions `yaml:"format"`
	Comments bool              `yaml:"comments"`
}

func defaultConfig() Config { return Config{Format: jsm.DefaultFormat} }

// loadConfig reads a Config from the YAML file at path.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	if cfg.Format.Indent < 0 {
		return cfg, fmt.Errorf("config %q: invalid indent %d", path, cfg.Format.Indent)
	}
	return cfg, nil
}

// maxExactInt is the largest magnitude at which every integer is exactly
// representable as a float64.
const maxExactInt = 1 << 53

// yamlValue converts v into a value that encodes as equivalent YAML, keeping
// object members in their original order.
func yamlValue(v ast.Value) any {
	switch t := v.(type) {
	case nil, ast.Null:
		return nil
	case ast.Bool:
		return bool(t)
	case ast.Number:
		if t.IsInt() && math.Abs(float64(t)) <= maxExactInt {
			return int64(t)
		}
		return float64(t)
	case ast.String:
		return string(t)
	case *ast.Array:
		out := make([]any, t.Len())
		for i, elt := range t.Values {
			out[i] = yamlValue(elt)
		}
		return out
	case *ast.Object:
		out := make(goyaml.MapSlice, 0, t.Len())
		for _, m := range t.Members() {
			out = append(out, goyaml.MapItem{Key: m.Key, Value: yamlValue(m.Value)})
		}
		return out
	default:
		panic(fmt.Sprintf("unexpected value type %T", v))
	}
}

// writeYAML writes v to w as a YAML document.
func writeYAML(w io.Writer, v ast.Value) error {
	data, err := goyaml.MarshalWithOptions(yamlValue(v), goyaml.Indent(2))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
