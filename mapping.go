// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsm

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"github.com/creachadair/jsm/ast"
	"github.com/goccy/go-json"
)

// A Mapper describes the JSON object form of a Go value, as a sequence of
// bindings between object members and Go variables or accessor methods.
// The zero value is an empty mapper ready for use.
//
// A type usually builds its Mapper in a JSONMapper method (see Mappable):
//
//	func (a *Address) JSONMapper() *jsm.Mapper {
//	   m := new(jsm.Mapper)
//	   jsm.BindField(m, "street", &a.Street).Required()
//	   jsm.BindField(m, "zip", &a.Zip)
//	   return m
//	}
type Mapper struct {
	bindings []*Binding
}

// A Binding connects one object member to a Go value. Bindings are created
// by BindField and BindProperty.
type Binding struct {
	name     string
	required bool
	get      func() (ast.Value, error)
	set      func(ast.Value) error
}

// Name returns the object key of b.
func (b *Binding) Name() string { return b.name }

// Required marks b as required, so that FromObject fails if the member is
// missing. It returns b to permit chaining.
func (b *Binding) Required() *Binding { b.required = true; return b }

// A Mappable value describes its JSON object form with a Mapper.
// Encode and Decode use the mapper of a Mappable value in place of its
// default encoding.
type Mappable interface {
	JSONMapper() *Mapper
}

// BindField binds the object member with the given key to the variable *p.
func BindField[T any](m *Mapper, key string, p *T) *Binding {
	return m.add(&Binding{
		name: key,
		get:  func() (ast.Value, error) { return encodeValue(reflect.ValueOf(p).Elem()) },
		set: func(v ast.Value) error {
			var tmp T
			if err := Decode(v, &tmp); err != nil {
				return err
			}
			*p = tmp
			return nil
		},
	})
}

// BindProperty binds the object member with the given key to a pair of
// accessor functions.
func BindProperty[T any](m *Mapper, key string, get func() T, set func(T)) *Binding {
	return m.add(&Binding{
		name: key,
		get:  func() (ast.Value, error) { return Encode(get()) },
		set: func(v ast.Value) error {
			var tmp T
			if err := Decode(v, &tmp); err != nil {
				return err
			}
			set(tmp)
			return nil
		},
	})
}

func (m *Mapper) add(b *Binding) *Binding {
	m.bindings = append(m.bindings, b)
	return b
}

// Bindings returns the bindings of m in the order they were added.
func (m *Mapper) Bindings() []*Binding { return slices.Clone(m.bindings) }

// ToObject returns an object with one member for each binding of m, in the
// order the bindings were added.
func (m *Mapper) ToObject() (*ast.Object, error) {
	obj := new(ast.Object)
	for _, b := range m.bindings {
		v, err := b.get()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", b.name, err)
		}
		obj.Set(b.name, v)
	}
	return obj, nil
}

// FromObject stores the members of obj into the bindings of m. Members of
// obj that have no binding are ignored, and bindings with no member are left
// unchanged unless they are required, in which case FromObject reports an
// error wrapping ErrMissingField.
func (m *Mapper) FromObject(obj *ast.Object) error {
	for _, b := range m.bindings {
		v, ok := obj.Get(b.name)
		if !ok {
			if b.required {
				return fmt.Errorf("%w %q", ErrMissingField, b.name)
			}
			continue
		}
		if err := b.set(v); err != nil {
			return fmt.Errorf("field %q: %w", b.name, err)
		}
	}
	return nil
}

var (
	valueType    = reflect.TypeFor[ast.Value]()
	mappableType = reflect.TypeFor[Mappable]()
)

// Encode converts a Go value into a Value.
//
// A value that is already an ast.Value is returned as-is, and a Mappable
// value is encoded by its mapper. Slices and arrays become arrays, and maps
// with string keys become objects with their keys in sorted order; their
// elements are encoded recursively. A nil pointer, slice, or map is null.
// Other values, including structs, are encoded according to their json
// struct tags.
func Encode(v any) (ast.Value, error) {
	if v == nil {
		return ast.Null{}, nil
	}
	return encodeValue(reflect.ValueOf(v))
}

func encodeValue(rv reflect.Value) (ast.Value, error) {
	for rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return ast.Null{}, nil
		}
		rv = rv.Elem()
	}
	if rv.Type().Implements(valueType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return ast.Null{}, nil
		}
		return rv.Interface().(ast.Value), nil
	}
	if m, ok := asMappable(rv); ok {
		return m.JSONMapper().ToObject()
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return ast.Null{}, nil
		}
		return encodeValue(rv.Elem())

	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			break // byte strings
		}
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return ast.Null{}, nil
		}
		arr := &ast.Array{Values: make([]ast.Value, rv.Len())}
		for i := range rv.Len() {
			elt, err := encodeValue(rv.Index(i))
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr.Values[i] = elt
		}
		return arr, nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return ast.Null{}, nil
		}
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(a.String(), b.String())
		})
		obj := new(ast.Object)
		for _, key := range keys {
			elt, err := encodeValue(rv.MapIndex(key))
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key.String(), err)
			}
			obj.Set(key.String(), elt)
		}
		return obj, nil
	}

	data, err := json.Marshal(rv.Interface())
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(data), "")
}

// asMappable reports whether rv or a pointer to it implements Mappable.
func asMappable(rv reflect.Value) (Mappable, bool) {
	t := rv.Type()
	if t.Implements(mappableType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, false
		}
		return rv.Interface().(Mappable), true
	}
	if t.Kind() == reflect.Pointer || !reflect.PointerTo(t).Implements(mappableType) {
		return nil, false
	}
	if rv.CanAddr() {
		return rv.Addr().Interface().(Mappable), true
	}
	cp := reflect.New(t)
	cp.Elem().Set(rv)
	return cp.Interface().(Mappable), true
}

// Decode stores the contents of v into the variable that ptr points to.
//
// If the variable has type ast.Value it receives v, and if it has one of the
// concrete Value types v must have that type. Null sets the variable to its
// zero value. If a pointer to the variable is Mappable, v must be an object,
// and it is decoded by the mapper. Slices and maps with string keys are
// decoded element by element from arrays and objects. Any other variable is
// decoded according to its json struct tags. A value that does not fit the
// variable reports an error wrapping ast.ErrWrongType.
func Decode(v ast.Value, ptr any) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode: target must be a non-nil pointer, got %T", ptr)
	}
	return decodeValue(v, rv.Elem())
}

func decodeValue(v ast.Value, rv reflect.Value) error {
	if v == nil {
		v = ast.Null{}
	}
	t := rv.Type()
	if t == valueType {
		rv.Set(reflect.ValueOf(v))
		return nil
	} else if t.Implements(valueType) {
		x := reflect.ValueOf(v)
		if x.Type() != t {
			return wrongType(v, t)
		}
		rv.Set(x)
		return nil
	}
	if _, ok := v.(ast.Null); ok {
		rv.SetZero()
		return nil
	}
	if m, ok := rv.Addr().Interface().(Mappable); ok {
		obj, ok := v.(*ast.Object)
		if !ok {
			return wrongType(v, t)
		}
		return m.JSONMapper().FromObject(obj)
	}

	switch rv.Kind() {
	case reflect.Interface:
		if t.NumMethod() == 0 {
			rv.Set(reflect.ValueOf(ast.Interface(v)))
			return nil
		}

	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(t.Elem()))
		}
		return decodeValue(v, rv.Elem())

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			break
		}
		arr, ok := v.(*ast.Array)
		if !ok {
			return wrongType(v, t)
		}
		out := reflect.MakeSlice(t, arr.Len(), arr.Len())
		for i, elt := range arr.Values {
			if err := decodeValue(elt, out.Index(i)); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		rv.Set(out)
		return nil

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			break
		}
		obj, ok := v.(*ast.Object)
		if !ok {
			return wrongType(v, t)
		}
		out := reflect.MakeMapWithSize(t, obj.Len())
		for _, m := range obj.Members() {
			elt := reflect.New(t.Elem()).Elem()
			if err := decodeValue(m.Value, elt); err != nil {
				return fmt.Errorf("key %q: %w", m.Key, err)
			}
			out.SetMapIndex(reflect.ValueOf(m.Key).Convert(t.Key()), elt)
		}
		rv.Set(out)
		return nil
	}

	data, err := NewSerializer(FormatOptions{}).Append(nil, v)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, rv.Addr().Interface()); err != nil {
		return fmt.Errorf("%w: %w", ast.ErrWrongType, err)
	}
	return nil
}

func wrongType(v ast.Value, t reflect.Type) error {
	return fmt.Errorf("%w: cannot decode %v into %v", ast.ErrWrongType, v.Kind(), t)
}

// ReadAs reads a single JSON value from r and decodes it into a T, as by
// Decode. The name labels the input in error locations.
func ReadAs[T any](r io.Reader, name string) (T, error) {
	var out T
	v, err := Read(r, name)
	if err != nil {
		return out, err
	}
	if err := Decode(v, &out); err != nil {
		return out, err
	}
	return out, nil
}

// WriteAs encodes v as by Encode and writes it to w as JSON text.
func WriteAs(w io.Writer, v any, opts FormatOptions) error {
	val, err := Encode(v)
	if err != nil {
		return err
	}
	return Write(w, val, opts)
}
