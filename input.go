// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsm

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

// EOF is the character reported by an Input when no more input is available.
const EOF rune = -1

// An Input is a buffered lookahead stream of characters read from an
// io.Reader. Characters are Unicode code points decoded from UTF-8; an
// invalid encoding is reported as utf8.RuneError.
//
// The Input tracks the location of the next unconsumed character, for use
// in diagnostics.
type Input struct {
	r     *bufio.Reader
	ahead []lookahead // buffered characters not yet consumed
	eof   bool        // no more characters can be read from r
	err   error       // read error other than io.EOF
	done  bool        // Get has reached the end of input

	loc Location
}

type lookahead struct {
	ch   rune
	size int // in bytes
}

// NewInput constructs an Input that consumes characters from r. The name is
// used in locations and may be empty.
func NewInput(r io.Reader, name string) *Input {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Input{r: br, loc: Location{Name: name, Line: 1, Column: 1}}
}

// fill reads characters until at least n are buffered, or the input is
// exhausted.
func (in *Input) fill(n int) {
	for len(in.ahead) < n && !in.eof {
		ch, size, err := in.r.ReadRune()
		if err != nil {
			in.eof = true
			if err != io.EOF {
				in.err = err
			}
			return
		}
		in.ahead = append(in.ahead, lookahead{ch, size})
	}
}

// Peek returns the character offset positions ahead without consuming any
// input, so that Peek(1) is the next character. It returns EOF if fewer than
// offset characters remain. Peek panics if offset < 1.
func (in *Input) Peek(offset int) rune {
	if offset < 1 {
		panic("peek offset must be positive")
	}
	in.fill(offset)
	if offset > len(in.ahead) {
		return EOF
	}
	return in.ahead[offset-1].ch
}

// Get consumes and returns the next character, or EOF if none remains.
func (in *Input) Get() rune {
	in.fill(1)
	if len(in.ahead) == 0 {
		in.done = true
		return EOF
	}
	next := in.ahead[0]
	n := copy(in.ahead, in.ahead[1:])
	in.ahead = in.ahead[:n]

	in.loc.Offset += next.size
	if next.ch == '\n' {
		in.loc.Line++
		in.loc.Column = 1
	} else {
		in.loc.Column++
	}
	return next.ch
}

// Advance consumes n characters.
func (in *Input) Advance(n int) {
	for range n {
		in.Get()
	}
}

// ScanEq reports whether the next characters of the input equal lit, without
// consuming anything.
func (in *Input) ScanEq(lit string) bool {
	i := 1
	for _, ch := range lit {
		if in.Peek(i) != ch {
			return false
		}
		i++
	}
	return true
}

// Accept consumes lit from the input if the next characters equal lit, and
// reports whether it did so.
func (in *Input) Accept(lit string) bool {
	if !in.ScanEq(lit) {
		return false
	}
	in.Advance(utf8.RuneCountInString(lit))
	return true
}

// SkipSpace consumes JSON whitespace characters.
func (in *Input) SkipSpace() {
	for isSpace(in.Peek(1)) {
		in.Get()
	}
}

// Exhausted reports whether a call to Get has reached the end of the input.
func (in *Input) Exhausted() bool { return in.done }

// Location reports the location of the next unconsumed character.
func (in *Input) Location() Location { return in.loc }

// Err reports the error that ended the input, if it was not io.EOF.
func (in *Input) Err() error { return in.err }

// Rest returns up to n of the next characters without consuming them.
func (in *Input) Rest(n int) string {
	in.fill(n)
	var sb strings.Builder
	for i := 0; i < n && i < len(in.ahead); i++ {
		sb.WriteRune(in.ahead[i].ch)
	}
	return sb.String()
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}
