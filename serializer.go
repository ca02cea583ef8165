// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsm

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/creachadair/jsm/ast"
	"github.com/creachadair/jsm/internal/escape"
	"go4.org/mem"
)

// FormatOptions control the rendering of values as JSON text.
type FormatOptions struct {
	// Pretty inserts newlines and indentation between the elements of arrays
	// and objects.
	Pretty bool `yaml:"pretty"`

	// Spacing inserts a single space after each colon and comma. It has no
	// effect when Pretty is set, since pretty output is always spaced.
	Spacing bool `yaml:"spacing"`

	// SortKeys emits object members in lexicographic order of their keys
	// instead of insertion order.
	SortKeys bool `yaml:"sort_keys"`

	// Indent is the number of spaces per level of nesting when Pretty is set.
	Indent int `yaml:"indent"`
}

// DefaultFormat is the default format: compact output with spacing.
var DefaultFormat = FormatOptions{Spacing: true, Indent: 4}

// A Serializer renders values as JSON text.
type Serializer struct {
	opts FormatOptions
	pad  string // one level of indentation
}

// NewSerializer constructs a serializer with the given options.
func NewSerializer(opts FormatOptions) *Serializer {
	s := &Serializer{opts: opts}
	if opts.Indent > 0 {
		s.pad = strings.Repeat(" ", opts.Indent)
	}
	return s
}

// Serialize writes the JSON encoding of v to w.
func (s *Serializer) Serialize(w io.Writer, v ast.Value) error {
	buf, err := s.Append(nil, v)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// Append appends the JSON encoding of v to buf and returns the extended
// buffer. A nil value is encoded as null. It reports an error if v contains
// a number that is not finite.
func (s *Serializer) Append(buf []byte, v ast.Value) ([]byte, error) {
	return s.appendValue(buf, v, 0)
}

func (s *Serializer) appendValue(buf []byte, v ast.Value, depth int) ([]byte, error) {
	switch t := v.(type) {
	case nil, ast.Null:
		return append(buf, "null"...), nil
	case ast.Bool:
		return strconv.AppendBool(buf, bool(t)), nil
	case ast.Number:
		return appendNumber(buf, float64(t))
	case ast.String:
		return escape.AppendQuoted(buf, mem.S(string(t))), nil
	case *ast.Array:
		return s.appendArray(buf, t, depth)
	case *ast.Object:
		return s.appendObject(buf, t, depth)
	default:
		return nil, fmt.Errorf("unknown value type %T", v)
	}
}

func (s *Serializer) appendArray(buf []byte, a *ast.Array, depth int) ([]byte, error) {
	if a.Len() == 0 {
		return append(buf, "[]"...), nil
	}
	buf = append(buf, '[')
	for i, elt := range a.Values {
		if i > 0 {
			buf = s.comma(buf)
		}
		buf = s.newline(buf, depth+1)

		var err error
		buf, err = s.appendValue(buf, elt, depth+1)
		if err != nil {
			return nil, err
		}
	}
	buf = s.newline(buf, depth)
	return append(buf, ']'), nil
}

func (s *Serializer) appendObject(buf []byte, o *ast.Object, depth int) ([]byte, error) {
	if o.Len() == 0 {
		return append(buf, "{}"...), nil
	}
	members := o.Members()
	if s.opts.SortKeys {
		keys := o.SortedKeys()
		members = make([]*ast.Member, len(keys))
		for i, key := range keys {
			members[i] = o.Find(key)
		}
	}

	buf = append(buf, '{')
	for i, m := range members {
		if i > 0 {
			buf = s.comma(buf)
		}
		buf = s.newline(buf, depth+1)
		buf = escape.AppendQuoted(buf, mem.S(m.Key))
		buf = append(buf, ':')
		if s.opts.Pretty || s.opts.Spacing {
			buf = append(buf, ' ')
		}

		var err error
		buf, err = s.appendValue(buf, m.Value, depth+1)
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", m.Key, err)
		}
	}
	buf = s.newline(buf, depth)
	return append(buf, '}'), nil
}

func (s *Serializer) comma(buf []byte) []byte {
	buf = append(buf, ',')
	if s.opts.Spacing && !s.opts.Pretty {
		buf = append(buf, ' ')
	}
	return buf
}

func (s *Serializer) newline(buf []byte, depth int) []byte {
	if !s.opts.Pretty {
		return buf
	}
	buf = append(buf, '\n')
	for range depth {
		buf = append(buf, s.pad...)
	}
	return buf
}

// appendNumber appends the shortest decimal representation of f that
// round-trips. Values with very large or very small magnitudes use an
// exponent.
func appendNumber(buf []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("cannot encode number %v", f)
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	return strconv.AppendFloat(buf, f, format, -1, 64), nil
}
