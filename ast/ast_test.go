// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"testing"

	"github.com/creachadair/jsm/ast"
	"github.com/google/go-cmp/cmp"
)

func TestObject(t *testing.T) {
	o := ast.NewObject(
		ast.Field("c", 1),
		ast.Field("a", true),
		ast.Field("b", nil),
		ast.Field("a", "again"), // replaces the first "a" in place
	)
	if diff := cmp.Diff([]string{"c", "a", "b"}, o.Keys()); diff != "" {
		t.Errorf("Keys (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, o.SortedKeys()); diff != "" {
		t.Errorf("SortedKeys (-want, +got):\n%s", diff)
	}
	if v, ok := o.Get("a"); !ok || v != ast.String("again") {
		t.Errorf(`Get("a"): got (%v, %v), want (again, true)`, v, ok)
	}
	if _, ok := o.Get("nonesuch"); ok {
		t.Error(`Get("nonesuch") should report false`)
	}
	if m := o.FindFold("B"); m == nil || m.Key != "b" {
		t.Errorf(`FindFold("B"): got %v, want member b`, m)
	}

	if !o.Delete("c") {
		t.Error(`Delete("c") should report true`)
	}
	if o.Delete("c") {
		t.Error(`Second Delete("c") should report false`)
	}
	o.Set("d", ast.Number(4))
	if diff := cmp.Diff([]string{"a", "b", "d"}, o.Keys()); diff != "" {
		t.Errorf("Keys after delete (-want, +got):\n%s", diff)
	}
	if m := o.Find("d"); m == nil || m.Value != ast.Number(4) {
		t.Errorf(`Find("d"): got %v, want 4`, m)
	}

	var zero ast.Object
	zero.Set("x", ast.Null{})
	if zero.Len() != 1 {
		t.Errorf("Zero object: got len %d, want 1", zero.Len())
	}
}

func TestArray(t *testing.T) {
	a := ast.NewArray(ast.Number(1), ast.Number(2))
	a.Append(ast.Number(3))

	tests := []struct {
		index int
		want  ast.Value
	}{
		{0, ast.Number(1)},
		{2, ast.Number(3)},
		{-1, ast.Number(3)},
		{-3, ast.Number(1)},
		{3, nil},
		{-4, nil},
	}
	for _, tc := range tests {
		if got := a.At(tc.index); got != tc.want {
			t.Errorf("At(%d): got %v, want %v", tc.index, got, tc.want)
		}
	}
}

func TestSharing(t *testing.T) {
	inner := ast.NewArray()
	outer := ast.NewObject(&ast.Member{Key: "x", Value: inner})
	list := ast.NewArray(inner, inner)

	inner.Append(ast.Bool(true))

	v, _ := outer.Get("x")
	if got := v.(*ast.Array).Len(); got != 1 {
		t.Errorf("Object view: got len %d, want 1", got)
	}
	if got := list.At(1).(*ast.Array).Len(); got != 1 {
		t.Errorf("Array view: got len %d, want 1", got)
	}
}

func TestConvert(t *testing.T) {
	input := map[string]any{
		"name":  "widget",
		"count": 3,
		"tags":  []any{"a", 2.5, false, nil},
		"inner": map[string]any{"z": 1, "y": 2},
	}
	v := ast.ToValue(input)

	o, ok := v.(*ast.Object)
	if !ok {
		t.Fatalf("ToValue: got %T, want object", v)
	}
	if diff := cmp.Diff([]string{"count", "inner", "name", "tags"}, o.Keys()); diff != "" {
		t.Errorf("Keys (-want, +got):\n%s", diff)
	}

	want := map[string]any{
		"name":  "widget",
		"count": 3.0,
		"tags":  []any{"a", 2.5, false, nil},
		"inner": map[string]any{"z": 1.0, "y": 2.0},
	}
	if diff := cmp.Diff(want, ast.Interface(v)); diff != "" {
		t.Errorf("Interface (-want, +got):\n%s", diff)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b ast.Value
		want bool
	}{
		{ast.Null{}, nil, true},
		{ast.Null{}, ast.Bool(false), false},
		{ast.Number(1), ast.Number(1), true},
		{ast.Number(1), ast.String("1"), false},
		{ast.NewArray(ast.Number(1)), ast.NewArray(ast.Number(1)), true},
		{ast.NewArray(ast.Number(1)), ast.NewArray(ast.Number(1), ast.Null{}), false},
		{ast.NewArray(), ast.NewObject(), false},
		{
			ast.NewObject(ast.Field("a", 1), ast.Field("b", "x")),
			ast.NewObject(ast.Field("b", "x"), ast.Field("a", 1)),
			true,
		},
		{
			ast.NewObject(ast.Field("a", 1)),
			ast.NewObject(ast.Field("a", 2)),
			false,
		},
		{
			ast.NewObject(ast.Field("a", 1)),
			ast.NewObject(ast.Field("b", 1)),
			false,
		},
	}
	for _, tc := range tests {
		if got := ast.Equal(tc.a, tc.b); got != tc.want {
			t.Errorf("Equal(%v, %v): got %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		v    ast.Value
		want string
	}{
		{ast.Null{}, "null"},
		{ast.Bool(true), "boolean"},
		{ast.Number(0), "number"},
		{ast.String(""), "string"},
		{ast.NewArray(), "array"},
		{ast.NewObject(), "object"},
	}
	for _, tc := range tests {
		if got := tc.v.Kind().String(); got != tc.want {
			t.Errorf("Kind of %T: got %q, want %q", tc.v, got, tc.want)
		}
	}
}
