// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package automata

import "slices"

// TraceEvent identifies the kind of change reported to a Tracer.
type TraceEvent byte

// Constants defining the valid TraceEvent values.
const (
	Push       TraceEvent = iota + 1 // a state was pushed
	Pop                              // the current state was popped
	Transition                       // the current state was replaced
	Reset                            // the stack was replaced
	Terminate                        // the stack was cleared
	Fatal                            // a state reported an error
)

var eventStr = [...]string{
	Push:       "PUSH",
	Pop:        "POP",
	Transition: "TRANSITION",
	Reset:      "RESET",
	Terminate:  "TERMINATE",
	Fatal:      "FATAL",
}

func (e TraceEvent) String() string {
	if int(e) >= len(eventStr) || eventStr[e] == "" {
		return "UNKNOWN"
	}
	return eventStr[e]
}

// A Trace describes one event in the life of a machine. Trace values are
// delivered before the change they describe is applied, so Stack shows the
// stack as it was when the event began.
type Trace[C any] struct {
	Event   TraceEvent
	Context C
	Stack   []State[C] // bottom to top
	Prev    State[C]   // the current state, or nil
	Next    State[C]   // the state becoming current, or nil
	Err     error      // for Fatal events
}

// A Tracer observes the events of a machine.
type Tracer[C any] func(Trace[C])

func (m *Machine[C]) trace(ev TraceEvent, prev, next State[C]) {
	if len(m.tracers) == 0 {
		return
	}
	m.emit(Trace[C]{
		Event:   ev,
		Context: m.ctx,
		Stack:   slices.Clone(m.stack),
		Prev:    prev,
		Next:    next,
	})
}

func (m *Machine[C]) traceFatal(err error) {
	if len(m.tracers) == 0 {
		return
	}
	m.emit(Trace[C]{
		Event:   Fatal,
		Context: m.ctx,
		Stack:   slices.Clone(m.stack),
		Prev:    m.Current(),
		Err:     err,
	})
}

func (m *Machine[C]) emit(t Trace[C]) {
	for _, tr := range m.tracers {
		tr(t)
	}
}
