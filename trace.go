// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsm

import (
	"strings"

	"github.com/creachadair/jsm/automata"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// TraceLogger returns a tracer that logs the state changes of a parser to
// logger at debug level. Each record includes the event, the names of the
// states involved, the stack from bottom to top, the input location, and a
// preview of the unconsumed input.
func TraceLogger(logger log.Logger) automata.Tracer[*Context] {
	return func(t automata.Trace[*Context]) {
		kv := []any{
			"event", t.Event.String(),
			"from", automata.NameOf(t.Prev),
			"to", automata.NameOf(t.Next),
			"stack", stackNames(t.Stack),
		}
		if c := t.Context; c != nil && c.Input != nil {
			kv = append(kv, "loc", c.Location().String(), "cursor", c.Cursor())
		}
		if t.Err != nil {
			kv = append(kv, "err", t.Err)
		}
		level.Debug(logger).Log(kv...)
	}
}

func stackNames(stack []automata.State[*Context]) string {
	names := make([]string, len(stack))
	for i, s := range stack {
		names[i] = automata.NameOf(s)
	}
	return strings.Join(names, "/")
}
