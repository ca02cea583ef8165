// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsm

import (
	"errors"
	"fmt"
)

// ErrExtraInput is wrapped by the error Parse reports when non-whitespace
// input follows a complete value.
var ErrExtraInput = errors.New("extra input after value")

// ErrMissingField is wrapped by the error a Mapper reports when a required
// member is missing from an object.
var ErrMissingField = errors.New("missing required field")

// SyntaxError is the concrete type of errors reported by the parser.
type SyntaxError struct {
	Location Location
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }
