// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package automata implements a hierarchical, stack-based state machine.
//
// A Machine holds a shared context value of type C and a stack of states.
// The state on top of the stack is the current state, and each call to the
// machine's Update method runs exactly one step of that state. States
// manipulate the stack to move between one another:
//
//   - Push suspends the current state and runs a new one above it.
//   - Pop removes the current state and resumes the one beneath it.
//   - Transition replaces the current state with a new one.
//   - Reset discards the whole stack and starts over from a new state.
//   - Terminate discards the whole stack.
//
// The machine finishes when its stack is empty.
//
// # States
//
// A state is any type that embeds Base[C] and implements a Run method:
//
//	type counter struct {
//	   automata.Base[*Tally]
//	}
//
//	func (c *counter) Run() error {
//	   c.Context().N++
//	   if c.Context().N == 10 {
//	      return c.Pop()
//	   }
//	   return nil
//	}
//
// Base provides no-op implementations of the lifecycle hooks, which a state
// may override:
//
//	Method  | Called
//	------- | ----------------------------------------------------
//	Init    | after the state is pushed onto the stack
//	Standby | when another state is pushed above it
//	Resume  | when the state above it is popped
//	Exit    | right before the state is removed from the stack
//
// # Running
//
// Construct a machine with New, push an initial state, and then either call
// Update repeatedly or call RunUntilComplete:
//
//	m := automata.New(ctx)
//	m.Push(new(counter))
//	if err := m.RunUntilComplete(); err != nil {
//	   log.Fatalf("Machine failed: %v", err)
//	}
//
// The Go method runs the machine on a separate goroutine and reports its
// result on a channel. A machine must not be used by more than one goroutine
// at a time.
package automata

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNoStates is reported when an operation requires a state that is not
	// present on the stack, for example popping an empty stack.
	ErrNoStates = errors.New("no states remain on the stack")

	// ErrNoInitialState is reported by RunUntilComplete when the machine has
	// nothing to run.
	ErrNoInitialState = errors.New("machine has no initial state")

	// ErrNotInjected is the panic value when a state that has not been pushed
	// onto a machine tries to reach its machine or context.
	ErrNotInjected = errors.New("state is not attached to a machine")
)

// A State is a unit of behavior on the stack of a Machine.
// Implementations must embed Base[C].
type State[C any] interface {
	// Run executes one step of the state. An error stops the machine.
	Run() error

	Init()
	Standby()
	Resume()
	Exit()

	attach(m *Machine[C], self State[C])
	detach()
}

// A Machine is a stack of states sharing a context of type C.
// The zero value is not ready for use; call New.
type Machine[C any] struct {
	ctx     C
	stack   []State[C]
	tracers []Tracer[C]

	// Stack view used by CallParent, valid while depth > 0.
	snapshot []State[C]
	depth    int
}

// New constructs an empty machine sharing the given context.  The caller must
// push an initial state before running it.
func New[C any](ctx C) *Machine[C] { return &Machine[C]{ctx: ctx} }

// Context returns the context shared by the states of m.
func (m *Machine[C]) Context() C { return m.ctx }

// AddTracer adds a tracer that is called for each structural change to the
// stack of m. Tracers are for diagnostics and do not affect execution.
func (m *Machine[C]) AddTracer(t Tracer[C]) { m.tracers = append(m.tracers, t) }

// Len reports the number of states on the stack.
func (m *Machine[C]) Len() int { return len(m.stack) }

// Stack returns a copy of the stack, ordered from bottom to top.
func (m *Machine[C]) Stack() []State[C] { return slices.Clone(m.stack) }

// Current returns the state on top of the stack, or nil if the stack is empty.
func (m *Machine[C]) Current() State[C] {
	if n := len(m.stack); n > 0 {
		return m.stack[n-1]
	}
	return nil
}

// Previous returns the state immediately beneath the top of the stack, or nil
// if there are fewer than two states.
func (m *Machine[C]) Previous() State[C] {
	if n := len(m.stack); n > 1 {
		return m.stack[n-2]
	}
	return nil
}

// Parent returns the state immediately beneath the topmost occurrence of
// pivot on the stack. It returns nil if pivot is not on the stack, or if it
// is at the bottom.
func (m *Machine[C]) Parent(pivot State[C]) State[C] {
	for i := len(m.stack) - 1; i >= 0; i-- {
		if m.stack[i] == pivot {
			if i == 0 {
				return nil
			}
			return m.stack[i-1]
		}
	}
	return nil
}

// Push suspends the current state, if any, and pushes s on top of it.
func (m *Machine[C]) Push(s State[C]) {
	m.trace(Push, m.Current(), s)
	m.push(s, true)
}

// Pop removes the current state and resumes the state beneath it, if any.
// Popping an empty stack reports ErrNoStates.
func (m *Machine[C]) Pop() error {
	if m.Current() == nil {
		return fmt.Errorf("pop: %w", ErrNoStates)
	}
	m.trace(Pop, m.Current(), m.Previous())
	return m.pop(true)
}

// Transition replaces the current state with s. The state beneath the
// current state is not resumed. Transition reports ErrNoStates if the stack
// is empty.
func (m *Machine[C]) Transition(s State[C]) error {
	if m.Current() == nil {
		return fmt.Errorf("transition: %w", ErrNoStates)
	}
	m.trace(Transition, m.Current(), s)
	if err := m.pop(false); err != nil {
		return err
	}
	m.push(s, false)
	return nil
}

// Reset removes all states from the stack, then pushes s.
func (m *Machine[C]) Reset(s State[C]) {
	m.trace(Reset, m.Current(), s)
	m.clear()
	m.push(s, false)
}

// Terminate removes all states from the stack. No state is resumed.
func (m *Machine[C]) Terminate() {
	m.trace(Terminate, m.Current(), nil)
	m.clear()
}

// CallParent runs one step of the state beneath the current state, without
// altering the stack. Nested calls walk further down a snapshot of the stack
// taken by the outermost call, so that each level sees a stable view even if
// the called states push or pop. CallParent reports ErrNoStates if there is
// no state left to call.
func (m *Machine[C]) CallParent() error {
	if m.depth == 0 {
		m.snapshot = slices.Clone(m.stack)
	}
	m.depth++
	defer func() {
		if m.depth--; m.depth == 0 {
			m.snapshot = nil
		}
	}()

	n := len(m.snapshot)
	if n <= 1 {
		return fmt.Errorf("call parent: %w", ErrNoStates)
	}
	m.snapshot = m.snapshot[:n-1]
	return m.snapshot[n-2].Run()
}

// Update runs a single step of the current state.  It reports whether a
// current state remains afterward; false means the machine is finished.
func (m *Machine[C]) Update() (bool, error) {
	cur := m.Current()
	if cur == nil {
		return false, nil
	}
	if err := cur.Run(); err != nil {
		return m.Current() != nil, err
	}
	return m.Current() != nil, nil
}

// RunUntilComplete runs steps until the stack is empty or a state reports an
// error. It reports ErrNoInitialState if the stack is empty on entry.
func (m *Machine[C]) RunUntilComplete() error {
	return m.RunContext(context.Background())
}

// RunContext is like RunUntilComplete, but checks ctx between steps. If ctx
// ends before the machine finishes, the machine is terminated and the error
// from ctx is returned.
func (m *Machine[C]) RunContext(ctx context.Context) error {
	if m.Current() == nil {
		return ErrNoInitialState
	}
	for m.Current() != nil {
		if err := ctx.Err(); err != nil {
			m.Terminate()
			return err
		}
		if err := m.Current().Run(); err != nil {
			m.trace(Terminate, m.Current(), nil)
			m.traceFatal(err)
			return err
		}
	}
	return nil
}

// Go runs m to completion on a new goroutine. The returned channel delivers
// the result of RunContext and is then closed. The caller must not touch m
// again until that result has been received.
func (m *Machine[C]) Go(ctx context.Context) <-chan error {
	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		ch <- m.RunContext(ctx)
	}()
	return ch
}

func (m *Machine[C]) push(s State[C], standby bool) {
	if cur := m.Current(); cur != nil && standby {
		cur.Standby()
	}
	s.attach(m, s)
	m.stack = append(m.stack, s)
	s.Init()
}

func (m *Machine[C]) pop(resume bool) error {
	cur := m.Current()
	if cur == nil {
		return fmt.Errorf("pop: %w", ErrNoStates)
	}
	cur.Exit()
	n := len(m.stack) - 1
	m.stack[n] = nil
	m.stack = m.stack[:n]
	cur.detach()

	if next := m.Current(); next != nil && resume {
		next.Resume()
	}
	return nil
}

func (m *Machine[C]) clear() {
	for m.Current() != nil {
		m.pop(false)
	}
}

// NameOf returns a human-readable name for s. If s has a method
//
//	Name() string
//
// its result is used; otherwise the name is derived from the type of s.
// NameOf(nil) returns "(null)".
func NameOf[C any](s State[C]) string {
	if s == nil {
		return "(null)"
	}
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}
