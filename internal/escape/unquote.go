// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

var simpleEsc = [...]rune{
	'"':  '"',
	'/':  '/',
	'\\': '\\',
	'a':  '\a',
	'b':  '\b',
	'e':  0x1b,
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
}

// Simple reports whether c names a single-character escape (as in "\n"), and
// if so returns the character it denotes.
func Simple(c rune) (rune, bool) {
	if c < 0 || int(c) >= len(simpleEsc) || simpleEsc[c] == 0 {
		return 0, false
	}
	return simpleEsc[c], true
}

// ParseHex decodes data as an unsigned hexadecimal number.
func ParseHex(data mem.RO) (rune, error) {
	if data.Len() == 0 {
		return 0, errors.New("empty hex value")
	}
	var v rune
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += rune(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += rune(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += rune(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// In addition to the standard JSON escapes, Unquote accepts \a, \e, \v, and
// \xHH, which denotes the code point U+00HH. A \u escape
// naming half of a UTF-16 surrogate pair is combined with the following \u
// escape when they form a valid pair. Unquote reports an error for an
// unknown or incomplete escape sequence.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		dec = mem.Append(dec, src)
		return dec, nil
	}

	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}
		c, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)

		if r, ok := Simple(c); ok {
			dec = append(dec, byte(r))
		} else if c == 'x' {
			if src.Len() < 2 {
				return nil, errors.New("incomplete hex escape")
			}
			v, err := ParseHex(src.SliceTo(2))
			if err != nil {
				return nil, fmt.Errorf("invalid hex escape: %w", err)
			}
			dec = utf8.AppendRune(dec, v)
			src = src.SliceFrom(2)
		} else if c == 'u' {
			r, nr, err := unicodeEscape(src)
			if err != nil {
				return nil, err
			}
			dec = utf8.AppendRune(dec, r)
			src = src.SliceFrom(nr)
		} else {
			return nil, fmt.Errorf("invalid escape %q", c)
		}

		// Look for the next escape sequence, and if one is not found we can blit
		// the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// unicodeEscape decodes the digits of a \u escape at the front of src, along
// with a second \u escape if the first is a leading surrogate.  It returns the
// rune and the number of bytes of src consumed.
func unicodeEscape(src mem.RO) (rune, int, error) {
	if src.Len() < 4 {
		return 0, 0, errors.New("incomplete Unicode escape")
	}
	r, err := ParseHex(src.SliceTo(4))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid Unicode escape: %w", err)
	}
	if utf16.IsSurrogate(r) && src.Len() >= 10 && src.At(4) == '\\' && src.At(5) == 'u' {
		if r2, err := ParseHex(src.Slice(6, 10)); err == nil {
			if pr := utf16.DecodeRune(r, r2); pr != utf8.RuneError {
				return pr, 10, nil
			}
		}
	}
	return r, 4, nil
}
