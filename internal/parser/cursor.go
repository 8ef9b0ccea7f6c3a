package parser

import (
	"fmt"

	"github.com/cmmoran/cdecl/internal/lexer"
	"github.com/cmmoran/cdecl/internal/model"
)

// Cursor walks the token span of one statement unit. Reads past the end
// yield an EOF token.
type Cursor struct {
	toks []lexer.Token
	pos  int
	base int // index of toks[0] in the scanner's token slice
}

// NewCursor returns a Cursor over toks; base is the index of toks[0] in the
// enclosing token slice.
func NewCursor(toks []lexer.Token, base int) *Cursor {
	return &Cursor{toks: toks, base: base}
}

// UnitCursor returns a Cursor over u's tokens.
func UnitCursor(u *model.Unit) *Cursor {
	return NewCursor(u.Tokens, u.Start)
}

// Offset returns the number of tokens consumed.
func (c *Cursor) Offset() int {
	return c.pos
}

// AtEnd reports whether the span is exhausted.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.toks)
}

func (c *Cursor) peek() lexer.Token {
	return c.peekAt(0)
}

func (c *Cursor) peekAt(n int) lexer.Token {
	if c.pos+n < len(c.toks) {
		return c.toks[c.pos+n]
	}
	var pos lexer.Pos
	if len(c.toks) > 0 {
		pos = c.toks[len(c.toks)-1].Pos
	}
	return lexer.Token{Kind: lexer.EOF, Pos: pos}
}

func (c *Cursor) next() lexer.Token {
	t := c.peek()
	if !c.AtEnd() {
		c.pos++
	}
	return t
}

func (c *Cursor) accept(k lexer.Kind) bool {
	if c.peek().Kind == k {
		c.next()
		return true
	}
	return false
}

func (c *Cursor) errorf(err error, format string, args ...any) *Error {
	tok := c.peek()
	msg := fmt.Sprintf(format, args...)
	if tok.Kind == lexer.EOF {
		msg += ", found end of unit"
	} else {
		msg += fmt.Sprintf(", found %s %q", tok.Kind, tok.Text)
	}
	return &Error{Pos: tok.Pos, Msg: msg, Err: err}
}

func (c *Cursor) expect(k lexer.Kind, what string) error {
	if c.accept(k) {
		return nil
	}
	if c.AtEnd() {
		return c.errorf(ErrUnbalanced, "expected %s", what)
	}
	return c.errorf(ErrUnexpectedToken, "expected %s", what)
}

// capture consumes a bracket-balanced run up to, not including, the first
// top-level token whose kind is in stop, and returns it as a deferred
// expression unit.
func (c *Cursor) capture(stop ...lexer.Kind) (*model.Unit, error) {
	start := c.pos
	var stack []lexer.Kind
	for !c.AtEnd() {
		tok := c.peek()
		if len(stack) == 0 && tok.Is(stop...) {
			break
		}
		switch tok.Kind {
		case lexer.LeftParen, lexer.LeftBracket, lexer.LeftBrace:
			stack = append(stack, tok.Kind)
		case lexer.RightParen, lexer.RightBracket, lexer.RightBrace:
			if len(stack) == 0 || !closes(stack[len(stack)-1], tok.Kind) {
				return nil, c.errorf(ErrUnbalanced, "unexpected %s", tok.Kind)
			}
			stack = stack[:len(stack)-1]
		}
		c.next()
	}
	if len(stack) > 0 {
		return nil, c.errorf(ErrUnbalanced, "unclosed %s", stack[len(stack)-1])
	}
	return &model.Unit{
		Kind:   model.UnitDeclOrExpr,
		Start:  c.base + start,
		End:    c.base + c.pos,
		Tokens: c.toks[start:c.pos:c.pos],
	}, nil
}

func closes(open, closer lexer.Kind) bool {
	switch open {
	case lexer.LeftParen:
		return closer == lexer.RightParen
	case lexer.LeftBracket:
		return closer == lexer.RightBracket
	case lexer.LeftBrace:
		return closer == lexer.RightBrace
	}
	return false
}
