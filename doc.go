// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jsm implements a JSON parser and serializer driven by a
// hierarchical state machine.
//
// # Parsing
//
// The Parser type reads JSON values from an io.Reader into ast.Value trees.
// Each production of the grammar is a state of an [automata.Machine], so the
// parser never recurses on the call stack no matter how deeply the input is
// nested:
//
//	p := jsm.NewParser(input, "config.json")
//	v, err := p.Parse()
//	if err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// Parse requires the input to contain exactly one value. To read a sequence
// of values from a stream, call ParseNext until it returns io.EOF:
//
//	for {
//	   v, err := p.ParseNext()
//	   if err == io.EOF {
//	      break
//	   } else if err != nil {
//	      log.Fatalf("Parse failed: %v", err)
//	   }
//	   process(v)
//	}
//
// In case of a syntax error, the error has concrete type *jsm.SyntaxError
// and reports the name, line, and column of the offending character.
//
// The Step method runs the parser one state at a time, for callers that want
// to interleave parsing with other work. The Trace method logs each change
// of parser state to a go-kit logger.
//
// # Serializing
//
// The Serializer type renders ast.Value trees as JSON text. Its output is
// controlled by FormatOptions:
//
//	Option   | Effect
//	-------- | ---------------------------------------------------
//	Pretty   | newlines and indentation between elements
//	Spacing  | a space after each colon and comma (compact output)
//	SortKeys | object members in order of their keys
//	Indent   | spaces per level of nesting (pretty output)
//
// The Read, ReadString, ReadFile, Write, ToString, and WriteFile functions
// are shorthands for the common cases.
package jsm
