// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is reported when an object has no member with a
	// requested key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrWrongType is reported when a value does not have the type a caller
	// requested.
	ErrWrongType = errors.New("wrong value type")
)

// Clone returns a deep copy of v. Arrays and objects in the result share no
// storage with v.
func Clone(v Value) Value {
	switch t := v.(type) {
	case *Array:
		out := &Array{Values: make([]Value, len(t.Values))}
		for i, elt := range t.Values {
			out.Values[i] = Clone(elt)
		}
		return out
	case *Object:
		out := new(Object)
		for _, m := range t.members {
			out.Set(m.Key, Clone(m.Value))
		}
		return out
	default:
		return v // scalars are immutable
	}
}

// GetAs returns the value of key in o as type T. It reports ErrKeyNotFound if
// o has no such key, and ErrWrongType if the value is not a T.
func GetAs[T Value](o *Object, key string) (T, error) {
	v, ok := o.Get(key)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return valueAs[T](key, v)
}

// GetOr is like GetAs, but returns def if o has no member with the key.
func GetOr[T Value](o *Object, key string, def T) (T, error) {
	v, ok := o.Get(key)
	if !ok {
		return def, nil
	}
	return valueAs[T](key, v)
}

// GetOrSet is like GetOr, but also adds def to o if o has no member with the
// key.
func GetOrSet[T Value](o *Object, key string, def T) (T, error) {
	v, ok := o.Get(key)
	if !ok {
		o.Set(key, def)
		return def, nil
	}
	return valueAs[T](key, v)
}

func valueAs[T Value](key string, v Value) (T, error) {
	out, ok := v.(T)
	if !ok {
		return out, fmt.Errorf("%w: member %q is %v", ErrWrongType, key, kindOf(v))
	}
	return out, nil
}

func kindOf(v Value) Kind {
	if v == nil {
		return NullKind
	}
	return v.Kind()
}
