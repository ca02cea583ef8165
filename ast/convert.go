// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"maps"
	"slices"
)

// ToValue converts a Go value into a Value. It accepts nil, bool, string, the
// built-in integer and floating-point types, []any, map[string]any, and
// values that already implement Value. Map keys are added in sorted order.
// ToValue panics if v or any element of it has another type.
func ToValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case int:
		return Number(t)
	case int8:
		return Number(t)
	case int16:
		return Number(t)
	case int32:
		return Number(t)
	case int64:
		return Number(t)
	case uint:
		return Number(t)
	case uint8:
		return Number(t)
	case uint16:
		return Number(t)
	case uint32:
		return Number(t)
	case uint64:
		return Number(t)
	case float32:
		return Number(t)
	case float64:
		return Number(t)
	case []any:
		a := &Array{Values: make([]Value, len(t))}
		for i, elt := range t {
			a.Values[i] = ToValue(elt)
		}
		return a
	case map[string]any:
		o := new(Object)
		for _, key := range slices.Sorted(maps.Keys(t)) {
			o.Set(key, ToValue(t[key]))
		}
		return o
	default:
		panic(fmt.Sprintf("cannot convert %T to a value", v))
	}
}

// Interface converts v into plain Go values: nil, bool, float64, string,
// []any, and map[string]any. The order of object members is not preserved.
func Interface(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(t)
	case Number:
		return float64(t)
	case String:
		return string(t)
	case *Array:
		out := make([]any, len(t.Values))
		for i, elt := range t.Values {
			out[i] = Interface(elt)
		}
		return out
	case *Object:
		out := make(map[string]any, t.Len())
		for _, m := range t.members {
			out[m.Key] = Interface(m.Value)
		}
		return out
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}

// Equal reports whether a and b are structurally equal. Objects are equal if
// they have the same keys with equal values, regardless of member order.
// A nil Value is equal to Null.
func Equal(a, b Value) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch t := a.(type) {
	case Null:
		return true
	case Bool, Number, String:
		return a == b
	case *Array:
		u := b.(*Array)
		if t == u {
			return true
		}
		return slices.EqualFunc(t.Values, u.Values, Equal)
	case *Object:
		u := b.(*Object)
		if t == u {
			return true
		} else if t.Len() != u.Len() {
			return false
		}
		for _, m := range t.members {
			w, ok := u.Get(m.Key)
			if !ok || !Equal(m.Value, w) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
