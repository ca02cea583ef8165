// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/creachadair/jsm/ast"
	"github.com/creachadair/jsm/automata"
	"github.com/creachadair/jsm/internal/escape"
	"github.com/creachadair/mds/mapset"
	"github.com/go-kit/log"
	"github.com/tailscale/hujson"
	"go4.org/mem"
)

// A Context is the state shared by the parser states of a Parser.
type Context struct {
	*Input
}

// cursorWidth is the number of lookahead characters shown by Cursor.
const cursorWidth = 70

// Cursor returns a preview of the unconsumed input, for diagnostics.
func (c *Context) Cursor() string {
	if c == nil || c.Input == nil {
		return ""
	}
	return c.Rest(cursorWidth)
}

// A Parser parses JSON values from an input stream into ast.Value trees.
//
// The grammar is implemented by states of an automata.Machine, one for each
// production, so nesting depth is bounded by memory rather than by the call
// stack. A Parser is not safe for concurrent use.
type Parser struct {
	r        io.Reader
	name     string
	comments bool

	ctx *Context
	m   *automata.Machine[*Context]
	val ast.Value
}

// NewParser constructs a parser that reads input from r. The name labels the
// input in error locations and may be empty.
func NewParser(r io.Reader, name string) *Parser {
	ctx := new(Context)
	return &Parser{r: r, name: name, ctx: ctx, m: automata.New(ctx)}
}

// AllowComments configures the parser to accept (true) or reject (false)
// JSON With Commas and Comments (JWCC). When enabled, the whole input is read
// and must be a single JWCC value; comments and trailing commas are replaced
// with spaces before parsing, so locations are unchanged. This must be set
// before the first value is parsed.
func (p *Parser) AllowComments(ok bool) { p.comments = ok }

// Trace enables trace logging of state changes to logger at debug level.
func (p *Parser) Trace(logger log.Logger) { p.m.AddTracer(TraceLogger(logger)) }

// AddTracer adds a tracer to the state machine of p.
func (p *Parser) AddTracer(t automata.Tracer[*Context]) { p.m.AddTracer(t) }

// Machine returns the state machine driving p.
func (p *Parser) Machine() *automata.Machine[*Context] { return p.m }

// Location reports the current location of the parser in its input.
func (p *Parser) Location() Location {
	if p.ctx.Input == nil {
		return Location{Name: p.name, Line: 1, Column: 1}
	}
	return p.ctx.Location()
}

// prepare sets up the input stream on first use.
func (p *Parser) prepare() error {
	if p.ctx.Input != nil {
		return nil
	}
	if p.comments {
		data, err := io.ReadAll(p.r)
		if err != nil {
			return err
		}
		std, err := hujson.Standardize(data)
		if err != nil {
			return &SyntaxError{
				Location: Location{Name: p.name, Line: 1, Column: 1},
				Message:  err.Error(),
				err:      err,
			}
		}
		p.ctx.Input = NewInput(bytes.NewReader(std), p.name)
	} else {
		p.ctx.Input = NewInput(p.r, p.name)
	}
	return nil
}

// begin starts parsing a new value, or reports io.EOF if the input contains
// no further values.
func (p *Parser) begin() error {
	if err := p.prepare(); err != nil {
		return err
	}
	in := p.ctx.Input
	in.SkipSpace()
	if in.Peek(1) == EOF {
		if err := in.Err(); err != nil {
			return err
		}
		return io.EOF
	}
	p.val = nil
	p.m.Reset(&valueState{out: &p.val})
	return nil
}

// Parse parses a single value from the input. The input must contain
// exactly one value, optionally surrounded by whitespace. In case of a
// syntax error, the returned error has type [*SyntaxError].
func (p *Parser) Parse() (ast.Value, error) { return p.ParseContext(context.Background()) }

// ParseContext is like Parse, but stops early with the error from ctx if it
// ends before parsing is complete.
func (p *Parser) ParseContext(ctx context.Context) (ast.Value, error) {
	v, err := p.ParseNextContext(ctx)
	if err == io.EOF {
		return nil, p.syntaxError(p.Location(), "unexpected end of input")
	} else if err != nil {
		return nil, err
	}
	in := p.ctx.Input
	in.SkipSpace()
	if in.Peek(1) != EOF {
		return nil, &SyntaxError{Location: in.Location(), Message: ErrExtraInput.Error(), err: ErrExtraInput}
	} else if err := in.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseNext parses the next value from the input. Unlike Parse, it does not
// require the value to be the last in the input, so it may be called
// repeatedly to read a stream of values. ParseNext returns io.EOF when no
// further values are available.
func (p *Parser) ParseNext() (ast.Value, error) { return p.ParseNextContext(context.Background()) }

// ParseNextContext is like ParseNext, but stops early with the error from ctx
// if it ends before parsing is complete.
func (p *Parser) ParseNextContext(ctx context.Context) (ast.Value, error) {
	if err := p.begin(); err != nil {
		return nil, err
	}
	if err := p.m.RunContext(ctx); err != nil {
		return nil, err
	}
	return p.val, nil
}

// Step runs a single step of the parser, starting a new value if none is in
// progress. It reports true when a value is complete, after which Value
// returns it. Step reports io.EOF when no further values are available.
func (p *Parser) Step() (bool, error) {
	if p.m.Len() == 0 {
		if err := p.begin(); err != nil {
			return false, err
		}
	}
	more, err := p.m.Update()
	if err != nil {
		return false, err
	}
	return !more, nil
}

// Value returns the most recent value completed by p.
func (p *Parser) Value() ast.Value { return p.val }

func (p *Parser) syntaxError(loc Location, msg string, args ...any) error {
	var err error
	if p.ctx.Input != nil {
		err = p.ctx.Err()
	}
	return &SyntaxError{Location: loc, Message: fmt.Sprintf(msg, args...), err: err}
}

// fail constructs a syntax error at loc in the input of c.
func fail(c *Context, loc Location, msg string, args ...any) error {
	return &SyntaxError{Location: loc, Message: fmt.Sprintf(msg, args...), err: c.Err()}
}

// valueState parses exactly one value and stores it in *out.
type valueState struct {
	automata.Base[*Context]
	out *ast.Value
}

func (*valueState) Name() string { return "value" }

func (v *valueState) Run() error {
	in := v.Context()
	in.SkipSpace()
	switch ch := in.Peek(1); {
	case ch == '{':
		in.Get()
		obj := new(ast.Object)
		*v.out = obj
		return v.Transition(&objectState{obj: obj})
	case ch == '[':
		in.Get()
		arr := new(ast.Array)
		*v.out = arr
		return v.Transition(&arrayState{arr: arr})
	case ch == '"':
		s, err := parseString(in)
		if err != nil {
			return err
		}
		*v.out = ast.String(s)
	case ch == '-' || ch == '.' || isDigit(ch):
		n, err := parseNumber(in)
		if err != nil {
			return err
		}
		*v.out = n
	case in.Accept("true"):
		*v.out = ast.Bool(true)
	case in.Accept("false"):
		*v.out = ast.Bool(false)
	case in.Accept("null"):
		*v.out = ast.Null{}
	case ch == EOF:
		return fail(in, in.Location(), "unexpected end of input in value expression")
	default:
		return fail(in, in.Location(), "unexpected character %q in value expression", ch)
	}
	return v.Pop()
}

// objectState parses the members of an object, after the opening brace.
type objectState struct {
	automata.Base[*Context]
	obj  *ast.Object
	more bool // a comma was consumed, so another member is required
}

func (*objectState) Name() string { return "object" }

func (o *objectState) Run() error {
	in := o.Context()
	in.SkipSpace()
	if !o.more && in.Accept("}") {
		return o.Pop()
	}
	o.more = false
	o.Push(&objectValueState{obj: o.obj})
	return nil
}

// objectValueState parses one key-value member of an object, followed by a
// comma or the end of the object.
type objectValueState struct {
	automata.Base[*Context]
	obj    *ast.Object
	key    string
	hasKey bool
	val    ast.Value
}

func (*objectValueState) Name() string { return "object-value" }

func (o *objectValueState) Run() error {
	in := o.Context()
	in.SkipSpace()
	if !o.hasKey {
		switch ch := in.Peek(1); ch {
		case '"':
		case EOF:
			return fail(in, in.Location(), "unexpected end of input in object")
		default:
			return fail(in, in.Location(), "expected string key in object, got %q", ch)
		}
		key, err := parseString(in)
		if err != nil {
			return err
		}
		o.key, o.hasKey = key, true
		return nil
	}
	if o.val == nil {
		if !in.Accept(":") {
			return fail(in, in.Location(), "missing colon after object key %q", o.key)
		}
		o.Push(&valueState{out: &o.val})
		return nil
	}

	o.obj.Set(o.key, o.val)
	switch in.Peek(1) {
	case ',':
		in.Get()
		o.Parent().(*objectState).more = true
	case '}':
		// The enclosing objectState consumes the brace.
	default:
		return fail(in, in.Location(), "missing comma between object values")
	}
	return o.Pop()
}

// arrayState parses the elements of an array, after the opening bracket.
type arrayState struct {
	automata.Base[*Context]
	arr  *ast.Array
	more bool // a comma was consumed, so another element is required
}

func (*arrayState) Name() string { return "array" }

func (a *arrayState) Run() error {
	in := a.Context()
	in.SkipSpace()
	if !a.more && in.Accept("]") {
		return a.Pop()
	}
	a.more = false
	a.Push(&arrayValueState{arr: a.arr})
	return nil
}

// arrayValueState parses one element of an array, followed by a comma or the
// end of the array.
type arrayValueState struct {
	automata.Base[*Context]
	arr *ast.Array
	val ast.Value
}

func (*arrayValueState) Name() string { return "array-value" }

func (a *arrayValueState) Run() error {
	if a.val == nil {
		a.Push(&valueState{out: &a.val})
		return nil
	}

	in := a.Context()
	a.arr.Append(a.val)
	in.SkipSpace()
	switch in.Peek(1) {
	case ',':
		in.Get()
		a.Parent().(*arrayState).more = true
	case ']':
	default:
		return fail(in, in.Location(), "missing comma between array values")
	}
	return a.Pop()
}

var numChars = mapset.New(
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	'-', '+', '.', 'e', 'E',
)

// parseNumber consumes the longest run of numeric characters from in and
// converts it to a number. A fault is reported at the start of the run.
func parseNumber(in *Context) (ast.Number, error) {
	start := in.Location()
	var buf []byte
	for numChars.Has(in.Peek(1)) {
		buf = utf8.AppendRune(buf, in.Get())
	}
	f, err := strconv.ParseFloat(string(buf), 64)
	if err != nil {
		return 0, fail(in, start, "invalid number %q", buf)
	}
	return ast.Number(f), nil
}

// parseString consumes a string literal from in, including its quotation
// marks, and returns its unescaped contents.
// Precondition: the next character is '"'.
func parseString(in *Context) (string, error) {
	in.Get()
	var buf []byte
	for {
		loc := in.Location()
		switch ch := in.Get(); ch {
		case EOF:
			return "", fail(in, in.Location(), "unterminated string literal")
		case '"':
			return string(buf), nil
		case '\\':
			esc := in.Get()
			if r, ok := escape.Simple(esc); ok {
				buf = append(buf, byte(r))
			} else if esc == 'x' {
				v, err := parseHex(in, 2)
				if err != nil {
					return "", fail(in, loc, "invalid hex escape")
				}
				buf = utf8.AppendRune(buf, v) // U+00HH
			} else if esc == 'u' {
				r, err := parseHex(in, 4)
				if err != nil {
					return "", fail(in, loc, "invalid Unicode escape")
				}
				if utf16.IsSurrogate(r) && in.ScanEq(`\u`) {
					if lo, ok := peekHex(in, 3, 4); ok {
						if pr := utf16.DecodeRune(r, lo); pr != utf8.RuneError {
							in.Advance(6)
							r = pr
						}
					}
				}
				buf = utf8.AppendRune(buf, r)
			} else if esc == EOF {
				return "", fail(in, in.Location(), "unterminated string literal")
			} else {
				return "", fail(in, loc, "invalid escape sequence \\%c", esc)
			}
		default:
			buf = utf8.AppendRune(buf, ch)
		}
	}
}

// peekHex decodes n hexadecimal digits starting offset characters ahead,
// without consuming them.
func peekHex(in *Context, offset, n int) (rune, bool) {
	digits := make([]byte, 0, n)
	for i := range n {
		ch := in.Peek(offset + i)
		if ch < 0 || ch >= utf8.RuneSelf {
			return 0, false
		}
		digits = append(digits, byte(ch))
	}
	v, err := escape.ParseHex(mem.B(digits))
	return v, err == nil
}

// parseHex consumes n hexadecimal digits and returns their value.
func parseHex(in *Context, n int) (rune, error) {
	v, ok := peekHex(in, 1, n)
	if !ok {
		return 0, fmt.Errorf("invalid hex digits %q", in.Rest(n))
	}
	in.Advance(n)
	return v, nil
}

func isDigit(ch rune) bool { return '0' <= ch && ch <= '9' }
