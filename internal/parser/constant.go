package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cmmoran/cdecl/internal/lexer"
	"github.com/cmmoran/cdecl/internal/model"
)

// evalConst evaluates an optionally signed or parenthesized integer
// literal, a char literal, or an enumerator found in known.
func evalConst(toks []lexer.Token, known map[string]int64) (int64, error) {
	for len(toks) >= 2 && toks[0].Kind == lexer.LeftParen && toks[len(toks)-1].Kind == lexer.RightParen {
		toks = toks[1 : len(toks)-1]
	}
	if len(toks) == 0 {
		return 0, ErrNotConstant
	}
	switch toks[0].Kind {
	case lexer.Minus, lexer.Plus:
		v, err := evalConst(toks[1:], known)
		if err != nil {
			return 0, err
		}
		if toks[0].Kind == lexer.Minus {
			v = -v
		}
		return v, nil
	}
	if len(toks) != 1 {
		return 0, fmt.Errorf("%q: %w", joinTokens(toks), ErrNotConstant)
	}
	tok := toks[0]
	switch tok.Kind {
	case lexer.Number:
		return intLiteral(tok.Text)
	case lexer.Character:
		return charLiteral(tok.Text)
	case lexer.Identifier:
		if v, ok := known[tok.Text]; ok {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", tok.Text, ErrNotConstant)
}

// intLiteral reads a decimal literal, or an octal one when it has a
// leading zero.
func intLiteral(text string) (int64, error) {
	base := 10
	if len(text) > 1 && text[0] == '0' {
		base = 8
	}
	v, err := strconv.ParseUint(text, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", text, ErrNotConstant)
	}
	return int64(v), nil
}

// charLiteral decodes a single-character constant such as 'a', '\n',
// '\0', '\101' or '\x41'. Escaped byte values are sign-extended like a
// plain char.
func charLiteral(text string) (int64, error) {
	bad := fmt.Errorf("%s: %w", text, ErrNotConstant)
	if len(text) < 3 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return 0, bad
	}
	body := text[1 : len(text)-1]

	if body[0] != '\\' {
		r, n := utf8.DecodeRuneInString(body)
		if r == utf8.RuneError || n != len(body) {
			return 0, bad
		}
		return int64(r), nil
	}
	if len(body) < 2 {
		return 0, bad
	}

	esc, rest := body[1], body[2:]
	var v uint64
	switch {
	case strings.IndexByte(simpleEscapes, esc) >= 0:
		if rest != "" {
			return 0, bad
		}
		v = uint64(simpleValues[strings.IndexByte(simpleEscapes, esc)])
	case esc >= '0' && esc <= '7':
		digits := body[1:]
		if len(digits) > 3 {
			return 0, bad
		}
		n, err := strconv.ParseUint(digits, 8, 64)
		if err != nil {
			return 0, bad
		}
		v = n
	case esc == 'x':
		n, err := strconv.ParseUint(rest, 16, 64)
		if err != nil || rest == "" {
			return 0, bad
		}
		v = n
	default:
		return 0, bad
	}
	if v > 0xff {
		return 0, bad
	}
	return int64(int8(v)), nil
}

const simpleEscapes = `abfnrtv\'"?`

var simpleValues = []byte{'\a', '\b', '\f', '\n', '\r', '\t', '\v', '\\', '\'', '"', '?'}

func joinTokens(toks []lexer.Token) string {
	u := model.Unit{Tokens: toks}
	return u.Text()
}
