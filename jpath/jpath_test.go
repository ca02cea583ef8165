package jpath_test

import (
	"testing"

	"github.com/creachadair/jsm"
	"github.com/creachadair/jsm/ast"
	"github.com/creachadair/jsm/jpath"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const storeJSON = `{
  "store": {
    "book": [
      {"category": "reference", "author": "Nigel Rees",
       "title": "Sayings of the Century", "price": 8.95},
      {"category": "fiction", "author": "Evelyn Waugh",
       "title": "Sword of Honour", "price": 12.99},
      {"category": "fiction", "author": "Herman Melville",
       "title": "Moby Dick", "isbn": "0-553-21311-3", "price": 8.99},
      {"category": "fiction", "author": "J. R. R. Tolkien",
       "title": "The Lord of the Rings", "isbn": "0-395-19395-8", "price": 22.99}
    ],
    "bicycle": {"color": "red", "price": 399}
  }
}`

func strings(ss ...string) []ast.Value {
	out := make([]ast.Value, len(ss))
	for i, s := range ss {
		out[i] = ast.String(s)
	}
	return out
}

func TestSelect(t *testing.T) {
	root, err := jsm.ReadString(storeJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		expr string
		want []ast.Value
	}{
		{"$.store.book[*].author", strings("Nigel Rees", "Evelyn Waugh", "Herman Melville", "J. R. R. Tolkien")},
		{"$..author", strings("Nigel Rees", "Evelyn Waugh", "Herman Melville", "J. R. R. Tolkien")},
		{"$..book[2].title", strings("Moby Dick")},
		{"$..book[-1].title", strings("The Lord of the Rings")},
		{"$..book[0:2].title", strings("Sayings of the Century", "Sword of Honour")},
		{"$..book[?@.isbn].title", strings("Moby Dick", "The Lord of the Rings")},
		{"$..book[?@.price<10].title", strings("Sayings of the Century", "Moby Dick")},
		{"$.store.bicycle.color", strings("red")},
		{"$.store.nonesuch", []ast.Value{}},
	}
	for _, tc := range tests {
		got, err := jpath.Select(root, tc.expr)
		if err != nil {
			t.Errorf("Select %q: unexpected error: %v", tc.expr, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got, cmp.Comparer(ast.Equal)); diff != "" {
			t.Errorf("Select %q: (-want, +got)\n%s", tc.expr, diff)
		}
	}
}

func TestSelectUnordered(t *testing.T) {
	root, err := jsm.ReadString(storeJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := jpath.MustParse("$.store..price").Select(root)
	var prices []float64
	for _, v := range got {
		prices = append(prices, float64(v.(ast.Number)))
	}
	want := []float64{8.95, 12.99, 8.99, 22.99, 399}
	if diff := cmp.Diff(want, prices, cmpopts.SortSlices(func(a, b float64) bool { return a < b })); diff != "" {
		t.Errorf("Prices (-want, +got):\n%s", diff)
	}

	bike := jpath.MustParse("$.store.bicycle").Select(root)
	if len(bike) != 1 {
		t.Fatalf("Select bicycle: got %d values, want 1", len(bike))
	}
	if keys := bike[0].(*ast.Object).Keys(); !cmp.Equal(keys, []string{"color", "price"}) {
		t.Errorf("Bicycle keys: got %q, want sorted", keys)
	}
}

func TestZero(t *testing.T) {
	v := ast.NewArray(ast.Number(1))
	var e jpath.Expr
	if got := e.Select(v); len(got) != 1 || got[0] != ast.Value(v) {
		t.Errorf("Zero Select: got %v, want input", got)
	}
	if got := e.String(); got != "$" {
		t.Errorf("Zero String: got %q, want $", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, expr := range []string{"", "store.book", "$.store[", "$[?@.price <]"} {
		if e, err := jpath.Parse(expr); err == nil {
			t.Errorf("Parse %q: got %v, want error", expr, e)
		}
	}
	mtest.MustPanic(t, func() { jpath.MustParse("$[") })
}
