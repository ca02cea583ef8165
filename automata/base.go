// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package automata

// Base is the embedded core of every state. It records the machine a state
// is attached to while the state is on the stack, and provides default
// lifecycle hooks and shortcuts for manipulating the stack.
type Base[C any] struct {
	m    *Machine[C]
	self State[C]
	refs int // a state may appear on the stack more than once
}

func (b *Base[C]) attach(m *Machine[C], self State[C]) {
	b.m, b.self = m, self
	b.refs++
}

func (b *Base[C]) detach() {
	if b.refs--; b.refs <= 0 {
		b.m, b.self, b.refs = nil, nil, 0
	}
}

// Init is called after the state is pushed. The default does nothing.
func (*Base[C]) Init() {}

// Standby is called when another state is pushed above this one.
// The default does nothing.
func (*Base[C]) Standby() {}

// Resume is called when the state above this one is popped.
// The default does nothing.
func (*Base[C]) Resume() {}

// Exit is called right before the state is removed from the stack.
// The default does nothing.
func (*Base[C]) Exit() {}

// Attached reports whether the state is currently on the stack of a machine.
func (b *Base[C]) Attached() bool { return b.m != nil }

// Machine returns the machine the state is attached to.
// It panics with ErrNotInjected if the state is not attached.
func (b *Base[C]) Machine() *Machine[C] {
	if b.m == nil {
		panic(ErrNotInjected)
	}
	return b.m
}

// Context returns the context of the machine the state is attached to.
// It panics with ErrNotInjected if the state is not attached.
func (b *Base[C]) Context() C { return b.Machine().Context() }

// Push pushes s above the current state of the machine.
func (b *Base[C]) Push(s State[C]) { b.Machine().Push(s) }

// Pop pops the current state of the machine.
func (b *Base[C]) Pop() error { return b.Machine().Pop() }

// Transition replaces the current state of the machine with s.
func (b *Base[C]) Transition(s State[C]) error { return b.Machine().Transition(s) }

// Reset replaces the whole stack of the machine with s.
func (b *Base[C]) Reset(s State[C]) { b.Machine().Reset(s) }

// Terminate removes every state from the machine, including this one.
func (b *Base[C]) Terminate() { b.Machine().Terminate() }

// Current returns the current state of the machine.
func (b *Base[C]) Current() State[C] { return b.Machine().Current() }

// IsCurrent reports whether this state is the current state of its machine.
// This is false while a state is being run by CallParent.
func (b *Base[C]) IsCurrent() bool {
	return b.m != nil && b.m.Current() == b.self
}

// Parent returns the state beneath this one on the stack, or nil.
func (b *Base[C]) Parent() State[C] { return b.Machine().Parent(b.self) }

// CallParent runs one step of the state beneath the current state.
func (b *Base[C]) CallParent() error { return b.Machine().CallParent() }
