// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsm

import "fmt"

// A Location describes a position in a named source input.
type Location struct {
	Name   string // the name of the input, or "" if unnamed
	Line   int    // line number, 1-based
	Column int    // column of the next unconsumed character, 1-based
	Offset int    // byte offset from the start of the input, 0-based
}

// String renders the location in the conventional name:line:col format.
// An unnamed input is rendered as "<input>".
func (loc Location) String() string {
	name := loc.Name
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", name, loc.Line, loc.Column)
}
