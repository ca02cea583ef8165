// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package jpath implements JSONPath (RFC 9535) queries over JSON values.
//
// Selected values are copies: object members in a result are in order by
// key, and changes to a result do not affect the input.
package jpath

import (
	"github.com/creachadair/jsm/ast"
	"github.com/theory/jsonpath"
)

// An Expr is a parsed JSONPath expression.
type Expr struct {
	path *jsonpath.Path
}

// Parse parses s as a JSONPath expression.
func Parse(s string) (Expr, error) {
	p, err := jsonpath.Parse(s)
	if err != nil {
		return Expr{}, err
	}
	return Expr{path: p}, nil
}

// MustParse is like Parse, but panics if s is not a valid expression.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

func (e Expr) String() string {
	if e.path == nil {
		return "$"
	}
	return e.path.String()
}

// Select returns the values matching e in v, in the order the expression
// selects them. A zero Expr selects v itself.
func (e Expr) Select(v ast.Value) []ast.Value {
	if e.path == nil {
		return []ast.Value{v}
	}
	nodes := e.path.Select(ast.Interface(v))
	out := make([]ast.Value, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, ast.ToValue(n))
	}
	return out
}

// Select parses expr and returns the values it selects from v.
func Select(v ast.Value, expr string) ([]ast.Value, error) {
	e, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return e.Select(v), nil
}
