// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsm_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/creachadair/jsm"
	"github.com/creachadair/jsm/ast"
	"github.com/google/go-cmp/cmp"
)

type address struct {
	Number              int
	Street, City, State string
	Zip                 int
}

func (a *address) JSONMapper() *jsm.Mapper {
	m := new(jsm.Mapper)
	jsm.BindField(m, "number", &a.Number)
	jsm.BindField(m, "street", &a.Street).Required()
	jsm.BindField(m, "city", &a.City)
	jsm.BindField(m, "state", &a.State)
	jsm.BindField(m, "zip", &a.Zip)
	return m
}

type person struct {
	name string
	addr address
	tags []string
}

func (p *person) Address() address     { return p.addr }
func (p *person) SetAddress(a address) { p.addr = a }

func (p *person) JSONMapper() *jsm.Mapper {
	m := new(jsm.Mapper)
	jsm.BindField(m, "name", &p.name).Required()
	jsm.BindProperty(m, "address", p.Address, p.SetAddress)
	jsm.BindField(m, "tags", &p.tags)
	return m
}

type record struct {
	ID    int    `json:"id"`
	Label string `json:"label,omitempty"`
}

const personJSON = `{
  "name": "lain",
  "address": {"number": 2235, "street": "Schley Blvd", "city": "Bremerton", "state": "WA", "zip": 98310},
  "tags": ["a", "b"],
  "extra": true
}`

var allowPerson = cmp.AllowUnexported(person{})

func TestMapper(t *testing.T) {
	p, err := jsm.ReadAs[person](strings.NewReader(personJSON), "person.json")
	if err != nil {
		t.Fatalf("ReadAs: unexpected error: %v", err)
	}
	want := person{
		name: "lain",
		addr: address{Number: 2235, Street: "Schley Blvd", City: "Bremerton", State: "WA", Zip: 98310},
		tags: []string{"a", "b"},
	}
	if diff := cmp.Diff(want, p, allowPerson); diff != "" {
		t.Errorf("ReadAs (-want, +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := jsm.WriteAs(&buf, &p, jsm.FormatOptions{}); err != nil {
		t.Fatalf("WriteAs: unexpected error: %v", err)
	}
	const wantJSON = `{"name":"lain","address":{"number":2235,"street":"Schley Blvd",` +
		`"city":"Bremerton","state":"WA","zip":98310},"tags":["a","b"]}`
	if got := buf.String(); got != wantJSON {
		t.Errorf("WriteAs:\ngot  %s\nwant %s", got, wantJSON)
	}

	// Bindings are kept in order.
	var names []string
	for _, b := range p.JSONMapper().Bindings() {
		names = append(names, b.Name())
	}
	if diff := cmp.Diff([]string{"name", "address", "tags"}, names); diff != "" {
		t.Errorf("Bindings (-want, +got):\n%s", diff)
	}
}

func TestMapperRoundTrip(t *testing.T) {
	in := person{name: "x", addr: address{Street: "Main", Zip: 1}}
	v, err := jsm.Encode(&in)
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	var out person
	if err := jsm.Decode(v, &out); err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	if diff := cmp.Diff(in, out, allowPerson); diff != "" {
		t.Errorf("Round trip (-want, +got):\n%s", diff)
	}
}

func TestMapperErrors(t *testing.T) {
	tests := []struct {
		name, input string
		want        error
	}{
		{"MissingName", `{"address": {"street": "s"}}`, jsm.ErrMissingField},
		{"MissingNested", `{"name": "x", "address": {"number": 1}}`, jsm.ErrMissingField},
		{"NameType", `{"name": 5}`, ast.ErrWrongType},
		{"AddressType", `{"name": "x", "address": [1]}`, ast.ErrWrongType},
		{"TagType", `{"name": "x", "tags": [1]}`, ast.ErrWrongType},
		{"NotObject", `[1, 2]`, ast.ErrWrongType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := jsm.ReadAs[person](strings.NewReader(tc.input), "")
			if !errors.Is(err, tc.want) {
				t.Errorf("ReadAs %#q: got error %v, want %v", tc.input, err, tc.want)
			}
		})
	}

	// Errors name the path to the field.
	_, err := jsm.ReadAs[person](strings.NewReader(`{"name": "x", "address": {"number": 1}}`), "")
	if err == nil || !strings.Contains(err.Error(), `field "address"`) {
		t.Errorf("Nested error: got %v, want mention of the address field", err)
	}

	// Members not marked required may be absent.
	p, err := jsm.ReadAs[person](strings.NewReader(`{"name": "solo"}`), "")
	if err != nil {
		t.Fatalf("ReadAs: unexpected error: %v", err)
	}
	if diff := cmp.Diff(person{name: "solo"}, p, allowPerson); diff != "" {
		t.Errorf("ReadAs (-want, +got):\n%s", diff)
	}

	if err := jsm.Decode(ast.Null{}, person{}); err == nil {
		t.Error("Decode into a non-pointer: got nil error")
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"Nil", nil, `null`},
		{"Value", ast.Number(3), `3`},
		{"Map", map[string]int{"b": 2, "a": 1}, `{"a":1,"b":2}`},
		{"Slice", []any{1, "x", nil, true}, `[1,"x",null,true]`},
		{"Struct", record{ID: 7, Label: "seven"}, `{"id":7,"label":"seven"}`},
		{"StructOmit", &record{ID: 8}, `{"id":8}`},
		{"MappedElements", []address{{Street: "s"}},
			`[{"number":0,"street":"s","city":"","state":"","zip":0}]`},
		{"MappedValues", map[string]address{"home": {Zip: 5, Street: "t"}},
			`{"home":{"number":0,"street":"t","city":"","state":"","zip":5}}`},
		{"NilSlice", []int(nil), `null`},
		{"NilMapped", (*address)(nil), `null`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := jsm.Encode(tc.input)
			if err != nil {
				t.Fatalf("Encode: unexpected error: %v", err)
			}
			got, err := jsm.ToString(v, jsm.FormatOptions{})
			if err != nil {
				t.Fatalf("ToString: unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Encode %+v: got %s, want %s", tc.input, got, tc.want)
			}
		})
	}

	if v, err := jsm.Encode(math.NaN()); err == nil {
		t.Errorf("Encode NaN: got %v, want error", v)
	}
}

func TestDecode(t *testing.T) {
	t.Run("Map", func(t *testing.T) {
		var got map[string][]int
		if err := jsm.Decode(mustParse(t, `{"a": [1, 2], "b": []}`), &got); err != nil {
			t.Fatalf("Decode: unexpected error: %v", err)
		}
		if diff := cmp.Diff(map[string][]int{"a": {1, 2}, "b": {}}, got); diff != "" {
			t.Errorf("Decode (-want, +got):\n%s", diff)
		}
	})

	t.Run("Interface", func(t *testing.T) {
		var got any
		if err := jsm.Decode(mustParse(t, `{"a": [1, "x", null]}`), &got); err != nil {
			t.Fatalf("Decode: unexpected error: %v", err)
		}
		want := map[string]any{"a": []any{1.0, "x", nil}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Decode (-want, +got):\n%s", diff)
		}
	})

	t.Run("Values", func(t *testing.T) {
		in := mustParse(t, `{"k": true}`)
		var v ast.Value
		if err := jsm.Decode(in, &v); err != nil || v != in {
			t.Errorf("Decode into Value: got (%v, %v), want the input", v, err)
		}
		var obj *ast.Object
		if err := jsm.Decode(in, &obj); err != nil || obj != in {
			t.Errorf("Decode into *Object: got (%v, %v), want the input", obj, err)
		}
		var n ast.Number
		if err := jsm.Decode(ast.String("x"), &n); !errors.Is(err, ast.ErrWrongType) {
			t.Errorf("Decode string into Number: got %v, want %v", err, ast.ErrWrongType)
		}
	})

	t.Run("Pointer", func(t *testing.T) {
		var p *address
		if err := jsm.Decode(mustParse(t, `{"street": "s", "zip": 5}`), &p); err != nil {
			t.Fatalf("Decode: unexpected error: %v", err)
		}
		if p == nil || *p != (address{Street: "s", Zip: 5}) {
			t.Errorf("Decode: got %+v, want street s zip 5", p)
		}
	})

	t.Run("Struct", func(t *testing.T) {
		var r record
		if err := jsm.Decode(mustParse(t, `{"id": 3, "label": "q", "other": 1}`), &r); err != nil {
			t.Fatalf("Decode: unexpected error: %v", err)
		}
		if r != (record{ID: 3, Label: "q"}) {
			t.Errorf("Decode: got %+v, want {3 q}", r)
		}
	})

	t.Run("Null", func(t *testing.T) {
		s := []string{"x"}
		if err := jsm.Decode(ast.Null{}, &s); err != nil || s != nil {
			t.Errorf("Decode null: got (%q, %v), want nil slice", s, err)
		}
	})

	t.Run("WrongType", func(t *testing.T) {
		var i int
		if err := jsm.Decode(ast.Number(1.5), &i); !errors.Is(err, ast.ErrWrongType) {
			t.Errorf("Decode 1.5 into int: got %v, want %v", err, ast.ErrWrongType)
		}
		var m map[string]int
		if err := jsm.Decode(ast.NewArray(), &m); !errors.Is(err, ast.ErrWrongType) {
			t.Errorf("Decode array into map: got %v, want %v", err, ast.ErrWrongType)
		}
	})
}
