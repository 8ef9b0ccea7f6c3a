package lexer

import (
	"strings"
	"unicode/utf8"
)

// Tokenizer produces tokens from a source string on demand. The zero value
// is not usable; construct with New.
type Tokenizer struct {
	src  string
	off  int
	line int
	col  int
}

// New returns a Tokenizer over src. Input ends at the first NUL byte, if any.
func New(src string) *Tokenizer {
	if i := strings.IndexByte(src, 0); i >= 0 {
		src = src[:i]
	}
	return &Tokenizer{src: src, line: 1, col: 1}
}

// Tokenize runs a Tokenizer to completion. The final element is always EOF.
func Tokenize(src string) []Token {
	t := New(src)
	out := make([]Token, 0, len(src)/4+1)
	for {
		tok := t.Next()
		out = append(out, tok)
		if tok.Kind == EOF {
			return out
		}
	}
}

// Pos returns the position of the next unread byte.
func (t *Tokenizer) Pos() Pos {
	return Pos{Line: t.line, Col: t.col}
}

// Next returns the next token. Once the input is exhausted every call
// returns an EOF token at the same position.
func (t *Tokenizer) Next() Token {
	t.skipSpace()

	start, pos := t.off, t.Pos()
	if t.off >= len(t.src) {
		return Token{Kind: EOF, Pos: pos}
	}

	c := t.peek()
	switch {
	case isIdentStart(c):
		return t.identifier(start, pos)
	case isDigit(c):
		return t.number(start, pos)
	case c == '\'':
		return t.quoted(Character, '\'', start, pos)
	case c == '"':
		return t.quoted(String, '"', start, pos)
	case c == '#':
		return t.preprocessor(start, pos)
	default:
		return t.punctuation(start, pos)
	}
}

func (t *Tokenizer) peek() byte {
	return t.peekAt(0)
}

func (t *Tokenizer) peekAt(n int) byte {
	if t.off+n < len(t.src) {
		return t.src[t.off+n]
	}
	return 0
}

func (t *Tokenizer) atNewline() bool {
	c := t.peek()
	return c == '\n' || (c == '\r' && t.peekAt(1) == '\n')
}

// advance consumes one byte, or both bytes of a CRLF pair, keeping the
// line and column counters in step.
func (t *Tokenizer) advance() {
	if t.off >= len(t.src) {
		return
	}
	switch {
	case t.src[t.off] == '\n':
		t.off++
		t.line, t.col = t.line+1, 1
	case t.src[t.off] == '\r' && t.peekAt(1) == '\n':
		t.off += 2
		t.line, t.col = t.line+1, 1
	default:
		t.off++
		t.col++
	}
}

func (t *Tokenizer) skipSpace() {
	for t.off < len(t.src) {
		c := t.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f':
			t.advance()
		case c == '/' && t.peekAt(1) == '/':
			for t.off < len(t.src) && !t.atNewline() {
				t.advance()
			}
		case c == '/' && t.peekAt(1) == '*':
			t.skipBlockComment()
		default:
			return
		}
	}
}

// skipBlockComment consumes a /* */ comment. An unclosed comment runs to
// the end of input.
func (t *Tokenizer) skipBlockComment() {
	t.advance()
	t.advance()
	for t.off < len(t.src) {
		if t.peek() == '*' && t.peekAt(1) == '/' {
			t.advance()
			t.advance()
			return
		}
		t.advance()
	}
}

func (t *Tokenizer) identifier(start int, pos Pos) Token {
	for t.off < len(t.src) && isIdentChar(t.peek()) {
		t.advance()
	}
	text := t.src[start:t.off]
	// the span is already maximal, so an exact lookup enforces the
	// keyword boundary: "intx" never matches "int"
	if k, ok := keywords[text]; ok {
		return Token{Kind: k, Text: text, Pos: pos}
	}
	return Token{Kind: Identifier, Text: text, Pos: pos}
}

func (t *Tokenizer) number(start int, pos Pos) Token {
	for isDigit(t.peek()) {
		t.advance()
	}
	if t.peek() == '.' {
		t.advance()
		for isDigit(t.peek()) {
			t.advance()
		}
	}
	return Token{Kind: Number, Text: t.src[start:t.off], Pos: pos}
}

// quoted scans a char or string literal. A backslash always consumes the
// byte after it. Unterminated literals stop before the newline.
func (t *Tokenizer) quoted(kind Kind, quote byte, start int, pos Pos) Token {
	t.advance()
	for t.off < len(t.src) {
		c := t.peek()
		if c == quote {
			t.advance()
			break
		}
		if c == '\\' {
			t.advance()
			t.advance()
			continue
		}
		if t.atNewline() {
			break
		}
		t.advance()
	}
	return Token{Kind: kind, Text: t.src[start:t.off], Pos: pos}
}

func (t *Tokenizer) preprocessor(start int, pos Pos) Token {
	continued := false
	t.advance()
	for t.off < len(t.src) {
		if t.peek() == '\\' && (t.peekAt(1) == '\n' || (t.peekAt(1) == '\r' && t.peekAt(2) == '\n')) {
			t.advance()
			t.advance()
			continued = true
			continue
		}
		if t.atNewline() {
			break
		}
		t.advance()
	}
	text := strings.TrimRight(t.src[start:t.off], " \t\r\v\f")
	return Token{Kind: Preprocessor, Text: text, Pos: pos, Continued: continued}
}

// punctuation applies maximal munch over the whole operator table.
func (t *Tokenizer) punctuation(start int, pos Pos) Token {
	rest := t.src[t.off:]
	best := -1
	for i, op := range operators {
		if strings.HasPrefix(rest, op.text) && (best < 0 || len(op.text) > len(operators[best].text)) {
			best = i
		}
	}
	if best < 0 {
		_, size := utf8.DecodeRuneInString(rest)
		t.off += size
		t.col++
		return Token{Kind: Unknown, Text: t.src[start:t.off], Pos: pos}
	}
	for range len(operators[best].text) {
		t.advance()
	}
	return Token{Kind: operators[best].kind, Text: t.src[start:t.off], Pos: pos}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
