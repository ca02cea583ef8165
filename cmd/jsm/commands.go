// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jsm"
	"github.com/creachadair/jsm/ast"
	"github.com/creachadair/jsm/jpath"
	"github.com/go-kit/log/level"
)

type fmtCommand struct {
	*tool
	files []string
	yaml  bool

	pretty, spacing, sortKeys bool
	indent                    int

	set struct{ pretty, spacing, sortKeys, indent bool }
}

func addFmtCommand(app *kingpin.Application, t *tool) {
	cmd := &fmtCommand{tool: t}
	fc := app.Command("fmt", "Reformat JSON values (from standard input if no files are named).").
		Action(cmd.run)
	fc.Flag("pretty", "Write one element per line with indentation.").
		IsSetByUser(&cmd.set.pretty).BoolVar(&cmd.pretty)
	fc.Flag("spacing", "Put a space after commas and colons in compact output.").
		IsSetByUser(&cmd.set.spacing).BoolVar(&cmd.spacing)
	fc.Flag("sort-keys", "Write object members in order by key.").
		IsSetByUser(&cmd.set.sortKeys).BoolVar(&cmd.sortKeys)
	fc.Flag("indent", "Spaces per indentation level in pretty output.").
		IsSetByUser(&cmd.set.indent).IntVar(&cmd.indent)
	fc.Flag("yaml", "Write YAML instead of JSON.").BoolVar(&cmd.yaml)
	fc.Arg("files", "Input files.").ExistingFilesVar(&cmd.files)
}

// options returns the configured format options with explicit flags applied.
func (c *fmtCommand) options() (jsm.FormatOptions, error) {
	opts := c.config.Format
	if c.set.pretty {
		opts.Pretty = c.pretty
	}
	if c.set.spacing {
		opts.Spacing = c.spacing
	}
	if c.set.sortKeys {
		opts.SortKeys = c.sortKeys
	}
	if c.set.indent {
		if c.indent < 0 {
			return opts, fmt.Errorf("invalid indent %d", c.indent)
		}
		opts.Indent = c.indent
	}
	return opts, nil
}

func (c *fmtCommand) run(*kingpin.ParseContext) error {
	opts, err := c.options()
	if err != nil {
		return err
	}
	w := bufio.NewWriter(c.stdout)
	var nv int
	err = c.eachInput(c.files, func(r io.Reader, name string) error {
		return eachValue(c.newParser(r, name), func(v ast.Value) error {
			nv++
			if c.yaml {
				if nv > 1 {
					w.WriteString("---\n")
				}
				return writeYAML(w, v)
			}
			if err := jsm.Write(w, v, opts); err != nil {
				return err
			}
			return w.WriteByte('\n')
		})
	})
	level.Debug(c.logger).Log("msg", "formatted", "values", nv, "yaml", c.yaml)
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}

// errInvalid is reported by check when some input is not valid JSON.
var errInvalid = errors.New("invalid input")

type checkCommand struct {
	*tool
	files []string
}

func addCheckCommand(app *kingpin.Application, t *tool) {
	cmd := &checkCommand{tool: t}
	cc := app.Command("check", "Report syntax errors in JSON documents.").Action(cmd.run)
	cc.Arg("files", "Input files (standard input if none).").ExistingFilesVar(&cmd.files)
}

func (c *checkCommand) run(*kingpin.ParseContext) error {
	var nin, nbad int
	err := c.eachInput(c.files, func(r io.Reader, name string) error {
		nin++
		if _, err := c.newParser(r, name).Parse(); err != nil {
			nbad++
			fmt.Fprintln(c.stdout, err)
			return nil
		}
		level.Info(c.logger).Log("msg", "valid", "input", inputName(name))
		return nil
	})
	if err != nil {
		return err
	} else if nbad > 0 {
		return fmt.Errorf("%w: %d of %d inputs failed", errInvalid, nbad, nin)
	}
	return nil
}

type queryCommand struct {
	*tool
	files []string
	path  string
}

func addQueryCommand(app *kingpin.Application, t *tool) {
	cmd := &queryCommand{tool: t}
	qc := app.Command("query", "Print the values selected by a JSONPath expression, one per line.").
		Action(cmd.run)
	qc.Flag("path", "JSONPath query expression, for example $.items[*].name").
		Short('p').Required().StringVar(&cmd.path)
	qc.Arg("files", "Input files.").ExistingFilesVar(&cmd.files)
}

func (c *queryCommand) run(*kingpin.ParseContext) error {
	expr, err := jpath.Parse(c.path)
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}
	opts := c.config.Format
	opts.Pretty = false

	w := bufio.NewWriter(c.stdout)
	err = c.eachInput(c.files, func(r io.Reader, name string) error {
		return eachValue(c.newParser(r, name), func(v ast.Value) error {
			found := expr.Select(v)
			level.Debug(c.logger).Log("msg", "query", "input", inputName(name), "path", expr, "matches", len(found))
			for _, elt := range found {
				if err := jsm.Write(w, elt, opts); err != nil {
					return err
				}
				if err := w.WriteByte('\n'); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}

func inputName(name string) string {
	if name == "" {
		return "<stdin>"
	}
	return name
}
