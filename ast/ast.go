// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines the value model for JSON data.
//
// A Value is one of Null, Bool, Number, String, *Array, or *Object.  Scalar
// values are immutable. Arrays and objects are referenced by pointer, so a
// container may be shared among several holders and a change made through
// any of them is visible to all.
package ast

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Kind is the type tag of a Value.
type Kind byte

// Constants defining the valid Kind values.
const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	ArrayKind
	ObjectKind
)

var kindStr = [...]string{
	NullKind:   "null",
	BoolKind:   "boolean",
	NumberKind: "number",
	StringKind: "string",
	ArrayKind:  "array",
	ObjectKind: "object",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindStr[k]
}

// A Value is an arbitrary JSON value.
type Value interface {
	Kind() Kind

	isValue()
}

// Null is the JSON null constant.
type Null struct{}

func (Null) Kind() Kind    { return NullKind }
func (Bool) Kind() Kind    { return BoolKind }
func (Number) Kind() Kind  { return NumberKind }
func (String) Kind() Kind  { return StringKind }
func (*Array) Kind() Kind  { return ArrayKind }
func (*Object) Kind() Kind { return ObjectKind }

func (Null) isValue()    {}
func (Bool) isValue()    {}
func (Number) isValue()  {}
func (String) isValue()  {}
func (*Array) isValue()  {}
func (*Object) isValue() {}

func (Null) String() string { return "null" }

// A Bool is a Boolean constant, true or false.
type Bool bool

// A Number is a numeric value.
type Number float64

// Float64 returns the value of n as a float64.
func (n Number) Float64() float64 { return float64(n) }

// IsInt reports whether n has an integer value.
func (n Number) IsInt() bool {
	f := float64(n)
	return !math.IsInf(f, 0) && math.Trunc(f) == f
}

// A String is a string value. Its contents are unescaped.
type String string

// Len returns the length of s in bytes.
func (s String) Len() int { return len(s) }

// An Array is an ordered sequence of values.
type Array struct {
	Values []Value
}

// NewArray constructs a new array containing the given values.
func NewArray(vs ...Value) *Array { return &Array{Values: vs} }

// Len returns the number of elements in a.
func (a *Array) Len() int { return len(a.Values) }

// At returns the element of a at offset i. Negative offsets count backward
// from the end. It reports nil if i is out of range.
func (a *Array) At(i int) Value {
	if i < 0 {
		i += len(a.Values)
	}
	if i < 0 || i >= len(a.Values) {
		return nil
	}
	return a.Values[i]
}

// Set replaces the element of a at offset i with v. Negative offsets count
// backward from the end. It reports false if i is out of range.
func (a *Array) Set(i int, v Value) bool {
	if i < 0 {
		i += len(a.Values)
	}
	if i < 0 || i >= len(a.Values) {
		return false
	}
	a.Values[i] = v
	return true
}

// Append adds vs to the end of a.
func (a *Array) Append(vs ...Value) { a.Values = append(a.Values, vs...) }

func (a *Array) String() string { return fmt.Sprintf("Array(len=%d)", len(a.Values)) }

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

func (m *Member) String() string { return fmt.Sprintf("Member(key=%q)", m.Key) }

// Field constructs an object member with the given key and value.
// The value is converted as by ToValue.
func Field(key string, value any) *Member {
	return &Member{Key: key, Value: ToValue(value)}
}

// An Object is a collection of key-value members. Keys are unique, and the
// members are kept in the order their keys were first added.
// The zero value is an empty object ready for use.
type Object struct {
	members []*Member
	index   map[string]int
}

// NewObject constructs a new object with the given members. If a key occurs
// more than once, the last value for that key wins, at the position of the
// first occurrence.
func NewObject(ms ...*Member) *Object {
	o := new(Object)
	for _, m := range ms {
		o.Set(m.Key, m.Value)
	}
	return o
}

// Len returns the number of members in o.
func (o *Object) Len() int { return len(o.members) }

// Members returns the members of o in order. The caller must not modify the
// slice, but may update the values of its members.
func (o *Object) Members() []*Member { return o.members }

// Keys returns the keys of o in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// SortedKeys returns the keys of o in lexicographic order.
func (o *Object) SortedKeys() []string {
	keys := o.Keys()
	slices.Sort(keys)
	return keys
}

// Find returns the member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	if i, ok := o.index[key]; ok {
		return o.members[i]
	}
	return nil
}

// FindFold returns the first member of o whose key matches key under Unicode
// case folding, or nil.
func (o *Object) FindFold(key string) *Member {
	if m := o.Find(key); m != nil {
		return m
	}
	for _, m := range o.members {
		if strings.EqualFold(m.Key, key) {
			return m
		}
	}
	return nil
}

// Get returns the value for key in o, and reports whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	if m := o.Find(key); m != nil {
		return m.Value, true
	}
	return nil, false
}

// Set sets the value of key in o to v. If key is already present, its value
// is replaced in place; otherwise a new member is added at the end.
func (o *Object) Set(key string, v Value) {
	if m := o.Find(key); m != nil {
		m.Value = v
		return
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, &Member{Key: key, Value: v})
}

// Delete removes key from o, and reports whether it was present.
func (o *Object) Delete(key string) bool {
	i, ok := o.index[key]
	if !ok {
		return false
	}
	o.members = slices.Delete(o.members, i, i+1)
	delete(o.index, key)
	for j := i; j < len(o.members); j++ {
		o.index[o.members[j].Key] = j
	}
	return true
}

func (o *Object) String() string { return fmt.Sprintf("Object(len=%d)", len(o.members)) }
