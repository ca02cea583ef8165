// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Program jsm checks, reformats, and queries JSON documents.
//
// Usage:
//
//	jsm [global flags] fmt [--pretty] [--indent N] [--yaml] [files...]
//	jsm [global flags] check files...
//	jsm [global flags] query --path EXPR [files...]
//
// With no files, fmt and query read standard input.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jsm"
	"github.com/creachadair/jsm/ast"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "jsm: %v\n", err)
		os.Exit(1)
	}
}

// A tool holds the settings and I/O shared by all the subcommands.
type tool struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logLevel    string
	trace       bool
	comments    bool
	commentsSet bool
	configPath  string

	config Config
	logger log.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	t := &tool{stdin: stdin, stdout: stdout, stderr: stderr, logger: log.NewNopLogger()}

	app := kingpin.New("jsm", "Check, reformat, and query JSON documents.")
	app.Writer(stdout).ErrorWriter(stderr).UsageWriter(stderr)
	app.Flag("log-level", "Minimum level of log messages (debug, info, warn, error).").
		Default("info").EnumVar(&t.logLevel, "debug", "info", "warn", "error")
	app.Flag("trace", "Log parser state changes at debug level.").BoolVar(&t.trace)
	app.Flag("comments", "Accept comments and trailing commas in the input.").
		IsSetByUser(&t.commentsSet).BoolVar(&t.comments)
	app.Flag("config", "Read default settings from this YAML file.").StringVar(&t.configPath)
	app.PreAction(t.setup)

	addFmtCommand(app, t)
	addCheckCommand(app, t)
	addQueryCommand(app, t)

	_, err := app.Parse(args)
	return err
}

// setup runs after flags are parsed and before the selected command.
func (t *tool) setup(*kingpin.ParseContext) error {
	name := t.logLevel
	if t.trace {
		name = "debug"
	}
	lvl, err := level.Parse(name)
	if err != nil {
		return err
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(t.stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	t.logger = level.NewFilter(logger, level.Allow(lvl))

	t.config = defaultConfig()
	if t.configPath != "" {
		cfg, err := loadConfig(t.configPath)
		if err != nil {
			return err
		}
		t.config = cfg
		level.Debug(t.logger).Log("msg", "loaded config", "path", t.configPath)
	}
	if t.commentsSet {
		t.config.Comments = t.comments
	}
	return nil
}

// newParser returns a parser for r configured from the settings of t.
// An empty name denotes standard input.
func (t *tool) newParser(r io.Reader, name string) *jsm.Parser {
	p := jsm.NewParser(r, name)
	p.AllowComments(t.config.Comments)
	if t.trace {
		p.Trace(log.With(t.logger, "run", uuid.NewString(), "input", inputName(name)))
	}
	return p
}

// eachInput calls f for each named file in order, or once for standard input
// if paths is empty. It stops at the first error reported by f.
func (t *tool) eachInput(paths []string, f func(r io.Reader, name string) error) error {
	if len(paths) == 0 {
		return f(t.stdin, "")
	}
	for _, path := range paths {
		if err := withFile(path, f); err != nil {
			return err
		}
	}
	return nil
}

func withFile(path string, f func(io.Reader, string) error) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()
	return f(in, path)
}

// eachValue calls f for each value in the stream read by p.
func eachValue(p *jsm.Parser, f func(ast.Value) error) error {
	for {
		v, err := p.ParseNext()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if err := f(v); err != nil {
			return err
		}
	}
}
