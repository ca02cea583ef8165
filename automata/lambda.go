// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package automata

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUndefinedState is reported when a Lambdas machine is asked for a state
// name that was never defined.
var ErrUndefinedState = errors.New("undefined state")

// A LambdaFunc implements the behavior of a named state in a Lambdas machine.
// The cur argument is the state being run, which is the current state of m
// unless it was invoked via CallParent.
type LambdaFunc[C any, K comparable] func(m *Lambdas[C, K], cur *Lambda[C, K]) error

// A Lambda is a state defined by a function and identified by a name.  Each
// name has a single Lambda value, which may appear on the stack more than
// once.
type Lambda[C any, K comparable] struct {
	Base[C]

	name K
	run  LambdaFunc[C, K]
	set  *Lambdas[C, K]
}

// Key returns the name the state was defined with.
func (s *Lambda[C, K]) Key() K { return s.name }

// Name implements the naming hook used by NameOf.
func (s *Lambda[C, K]) Name() string { return fmt.Sprint(s.name) }

// Run implements the State interface by calling the state's function.
func (s *Lambda[C, K]) Run() error { return s.run(s.set, s) }

// Lambdas is a Machine whose states are functions identified by names of
// type K.
type Lambdas[C any, K comparable] struct {
	*Machine[C]

	states map[K]*Lambda[C, K]
}

// NewLambdas constructs an empty Lambdas machine sharing ctx.
func NewLambdas[C any, K comparable](ctx C) *Lambdas[C, K] {
	return &Lambdas[C, K]{Machine: New(ctx), states: make(map[K]*Lambda[C, K])}
}

// Define adds or replaces the state named by name, and returns l to permit
// chaining.
func (l *Lambdas[C, K]) Define(name K, f LambdaFunc[C, K]) *Lambdas[C, K] {
	l.states[name] = &Lambda[C, K]{name: name, run: f, set: l}
	return l
}

// State returns the state defined for name.
func (l *Lambdas[C, K]) State(name K) (*Lambda[C, K], error) {
	s, ok := l.states[name]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUndefinedState, name)
	}
	return s, nil
}

// PushState pushes the state defined for name.
func (l *Lambdas[C, K]) PushState(name K) error {
	s, err := l.State(name)
	if err != nil {
		return err
	}
	l.Push(s)
	return nil
}

// TransitionState replaces the current state with the state defined for name.
func (l *Lambdas[C, K]) TransitionState(name K) error {
	s, err := l.State(name)
	if err != nil {
		return err
	}
	return l.Transition(s)
}

// ResetState replaces the whole stack with the state defined for name.
func (l *Lambdas[C, K]) ResetState(name K) error {
	s, err := l.State(name)
	if err != nil {
		return err
	}
	l.Reset(s)
	return nil
}

// CurrentKey reports the name of the current state, and whether there is one.
func (l *Lambdas[C, K]) CurrentKey() (K, bool) {
	if s, ok := l.Current().(*Lambda[C, K]); ok {
		return s.name, true
	}
	var zero K
	return zero, false
}

// Names returns the names of the states on the stack, from the top down.
func (l *Lambdas[C, K]) Names() []K {
	stk := l.Stack()
	out := make([]K, 0, len(stk))
	for _, s := range slices.Backward(stk) {
		if ls, ok := s.(*Lambda[C, K]); ok {
			out = append(out, ls.name)
		}
	}
	return out
}
