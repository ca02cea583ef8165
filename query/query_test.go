package query_test

import (
	"testing"

	"github.com/creachadair/jsm"
	"github.com/creachadair/jsm/ast"
	"github.com/creachadair/jsm/query"
	"github.com/google/go-cmp/cmp"
)

func TestQuery(t *testing.T) {
	val, err := jsm.ReadFile("../testdata/input.json")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		name  string
		query query.Query
		want  string // JSON
	}{
		{"Root", query.Path(), mustJSON(val)},
		{"Key", query.Path("name"), `"jsm test corpus"`},
		{"Index", query.Path("tags", 1), `"beta"`},
		{"NegIndex", query.Path("tags", -1), `"delta"`},
		{"Deep", query.Path("records", 2, "attributes", "weight"), ``},
		{"Slice", query.Path("tags", query.Slice(1, 3)), `["beta","gamma"]`},
		{"SliceEnd", query.Path("tags", query.Slice(-2, 0)), `["gamma","delta"]`},
		{"Pick", query.Path("tags", query.Pick(3, 0)), `["delta","alpha"]`},
		{"Len", query.Path("records", query.Len()), `40`},
		{"LenString", query.Path("name", query.Len()), `15`},
		{"LenNull", query.Path("missing", query.Len()), `0`},
		{"Each", query.Path("matrix", query.Each(0)), `[1,4,7]`},
		{"Glob", query.Path("empty", query.Glob()), `[{},[],""]`},
		{"Alt", query.Alt{query.Path("nonesuch"), query.Path("version")}, `3`},
		{"Recur", query.Path("matrix", query.Recur(1)), `[[4,5,6],2,5,8]`},
		{"Object", query.Object{
			"v": query.Path("version"),
			"n": query.Null(),
			"b": query.Bool(true),
		}, `{"b":true,"n":null,"v":3}`},
		{"Array", query.Array{query.Int(1), query.Float(2.5), query.String("x")}, `[1,2.5,"x"]`},
		{"Select", query.Path("records", query.Selection(func(v ast.Value) bool {
			id, _ := v.(*ast.Object).Get("id")
			return id.(ast.Number) >= 38
		}), query.Each("label")), `["record-038","record-039"]`},
		{"Mapping", query.Path("matrix", 0, query.Map(func(n ast.Number) ast.Number {
			return n * 10
		})), `[10,20,30]`},
		{"Exists", query.Path("records", query.Exists("attributes", "notes", 2), query.Len()), `10`},
		{"IsNot", query.Path("records", 0, query.Glob(), query.IsNot[*ast.Object]()),
			`[0,"record-000",` + scoreOf(t, val, 0) + `,true,null]`},
		{"OfKind", query.Path("records", 1, query.Glob(), query.OfKind(ast.StringKind)), `["record-001"]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := query.Eval(val, tc.query)
			if err != nil {
				t.Fatalf("Eval failed: %v", err)
			}
			if tc.want == "" {
				t.Logf("Result: %s", mustJSON(v))
				return
			}
			if diff := cmp.Diff(tc.want, mustJSON(v)); diff != "" {
				t.Errorf("Result (-want, +got):\n%s", diff)
			}
		})
	}
}

func scoreOf(t *testing.T, root ast.Value, i int) string {
	t.Helper()
	v, err := query.Eval(root, query.Path("records", i, "score"))
	if err != nil {
		t.Fatalf("Eval score: %v", err)
	}
	return mustJSON(v)
}

func TestQueryErrors(t *testing.T) {
	root := mustParseOne(`{"a": [1, 2, 3], "s": "str"}`)
	tests := []struct {
		name  string
		query query.Query
	}{
		{"MissingKey", query.Path("b")},
		{"KeyOnArray", query.Path("a", "x")},
		{"IndexOnObject", query.Path(0)},
		{"IndexRange", query.Path("a", 3)},
		{"SliceRange", query.Path("a", query.Slice(5, 0))},
		{"SliceOrder", query.Path("a", query.Slice(2, 1))},
		{"PickRange", query.Path("a", query.Pick(0, 9))},
		{"LenBool", query.Seq{query.Bool(true), query.Len()}},
		{"EachObject", query.Each("x")},
		{"EachFail", query.Path("a", query.Each("x"))},
		{"NoAlts", query.Alt{}},
		{"RecurNone", query.Recur("nonesuch")},
		{"GlobScalar", query.Path("s", query.Glob())},
		{"ObjectFail", query.Object{"x": query.Path("nonesuch")}},
		{"ArrayFail", query.Array{query.Path("nonesuch")}},
		{"SelectObject", query.Selection(func(ast.Value) bool { return true })},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := query.Eval(root, tc.query)
			if err == nil {
				t.Errorf("Eval: got %v, want error", v)
			} else {
				t.Logf("Got expected error: %v", err)
			}
		})
	}
}
