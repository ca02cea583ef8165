// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsm

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/creachadair/jsm/ast"
)

// Read parses a single value from r. The name labels the input in error
// locations and may be empty.
func Read(r io.Reader, name string) (ast.Value, error) {
	return NewParser(r, name).Parse()
}

// ReadString parses a single value from s.
func ReadString(s string) (ast.Value, error) {
	return NewParser(strings.NewReader(s), "").Parse()
}

// ReadFile parses a single value from the named file.
func ReadFile(path string) (ast.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, path)
}

// Write writes the JSON encoding of v to w using the given options.
func Write(w io.Writer, v ast.Value, opts FormatOptions) error {
	return NewSerializer(opts).Serialize(w, v)
}

// ToString returns the JSON encoding of v using the given options.
func ToString(v ast.Value, opts FormatOptions) (string, error) {
	buf, err := NewSerializer(opts).Append(nil, v)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// WriteFile writes the JSON encoding of v to the named file using the given
// options, followed by a newline. The file is created or truncated.
func WriteFile(path string, v ast.Value, opts FormatOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	err = Write(w, v, opts)
	if err == nil {
		err = w.WriteByte('\n')
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
