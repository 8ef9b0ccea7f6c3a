package scanner

import (
	"fmt"
	"log/slog"

	"github.com/cmmoran/cdecl/internal/lexer"
	"github.com/cmmoran/cdecl/internal/model"
)

// spanMode selects the terminator of a bracket-balanced token run.
type spanMode int

const (
	endSemicolon spanMode = iota // before a top-level ';'
	endParen                     // before the unmatched ')'
	endColon                     // before a top-level ':' not closing a '?'
)

// Scanner groups a token slice into statement units. Failed scans leave
// the cursor where the failed unit started.
type Scanner struct {
	tokens []lexer.Token
	pos    int
	log    *slog.Logger
}

// New returns a Scanner over tokens. An EOF token is appended if missing.
func New(tokens []lexer.Token) *Scanner {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.EOF {
		var pos lexer.Pos
		if len(tokens) > 0 {
			pos = tokens[len(tokens)-1].Pos
		}
		tokens = append(tokens[:len(tokens):len(tokens)], lexer.Token{Kind: lexer.EOF, Pos: pos})
	}
	return &Scanner{
		tokens: tokens,
		log:    slog.Default().With("component", "scanner"),
	}
}

// Tokens returns the scanner's input including the trailing EOF.
func (s *Scanner) Tokens() []lexer.Token {
	return s.tokens
}

// Offset returns the index of the next unread token.
func (s *Scanner) Offset() int {
	return s.pos
}

// AtEOF reports whether every token has been consumed.
func (s *Scanner) AtEOF() bool {
	return s.peek().Kind == lexer.EOF
}

// ScanUnit scans one statement unit.
func (s *Scanner) ScanUnit() (*model.Unit, error) {
	start := s.pos
	u, err := s.scanUnit()
	if err != nil {
		s.pos = start
		return nil, err
	}
	return u, nil
}

// ScanFile scans units until EOF and returns them as the children of a
// root Compound that covers every non-EOF token.
func (s *Scanner) ScanFile() (*model.Unit, error) {
	start := s.pos
	root := &model.Unit{Kind: model.UnitCompound}
	for !s.AtEOF() {
		u, err := s.scanUnit()
		if err != nil {
			s.log.Debug("scan failed", "unit", len(root.Children), "error", err)
			s.pos = start
			return nil, err
		}
		root.Children = append(root.Children, u)
	}
	s.log.Debug("scanned file", "units", len(root.Children), "tokens", s.pos-start)
	return s.close(root, start), nil
}

func (s *Scanner) peek() lexer.Token {
	return s.peekAt(0)
}

func (s *Scanner) peekAt(n int) lexer.Token {
	if s.pos+n < len(s.tokens) {
		return s.tokens[s.pos+n]
	}
	return s.tokens[len(s.tokens)-1]
}

func (s *Scanner) next() lexer.Token {
	t := s.peek()
	if t.Kind != lexer.EOF {
		s.pos++
	}
	return t
}

func (s *Scanner) errorf(err error, format string, args ...any) *Error {
	tok := s.peek()
	msg := fmt.Sprintf(format, args...)
	if tok.Kind == lexer.EOF {
		msg += ", found end of input"
	} else {
		msg += fmt.Sprintf(", found %s %q", tok.Kind, tok.Text)
	}
	return &Error{Pos: tok.Pos, Msg: msg, Err: err}
}

func (s *Scanner) expect(kind lexer.Kind, what string) error {
	if s.peek().Kind != kind {
		err := ErrUnexpectedToken
		if s.AtEOF() {
			err = ErrUnterminated
		}
		return s.errorf(err, "expected %s", what)
	}
	s.next()
	return nil
}

// close fixes u's span to [start, s.pos).
func (s *Scanner) close(u *model.Unit, start int) *model.Unit {
	u.Start, u.End = start, s.pos
	u.Tokens = s.tokens[start:s.pos:s.pos]
	return u
}

func (s *Scanner) scanUnit() (*model.Unit, error) {
	start := s.pos
	switch tok := s.peek(); tok.Kind {
	case lexer.LeftBrace:
		return s.scanCompound()
	case lexer.Semicolon:
		s.next()
		return s.close(&model.Unit{Kind: model.UnitEmpty}, start), nil
	case lexer.Preprocessor:
		s.next()
		return s.close(&model.Unit{Kind: model.UnitPreprocessor}, start), nil
	case lexer.If:
		return s.scanIf()
	case lexer.Switch:
		return s.scanSwitch()
	case lexer.While:
		return s.scanWhile()
	case lexer.Do:
		return s.scanDoWhile()
	case lexer.For:
		return s.scanFor()
	case lexer.Case:
		return s.scanCase()
	case lexer.Default:
		s.next()
		if err := s.expect(lexer.Colon, "':' after default"); err != nil {
			return nil, err
		}
		return s.close(&model.Unit{Kind: model.UnitDefault}, start), nil
	case lexer.Break, lexer.Continue:
		kind := model.UnitBreak
		if tok.Kind == lexer.Continue {
			kind = model.UnitContinue
		}
		s.next()
		if err := s.expect(lexer.Semicolon, "';'"); err != nil {
			return nil, err
		}
		return s.close(&model.Unit{Kind: kind}, start), nil
	case lexer.Return:
		return s.scanReturn()
	case lexer.Goto:
		return s.scanGoto()
	case lexer.Identifier:
		if s.peekAt(1).Kind == lexer.Colon {
			return s.scanLabel()
		}
	case lexer.RightBrace, lexer.EOF:
		return nil, s.errorf(ErrUnexpectedToken, "expected statement")
	}
	return s.scanDeclOrExpr()
}

func (s *Scanner) scanCompound() (*model.Unit, error) {
	start := s.pos
	s.next()
	u := &model.Unit{Kind: model.UnitCompound}
	for {
		switch s.peek().Kind {
		case lexer.RightBrace:
			s.next()
			return s.close(u, start), nil
		case lexer.EOF:
			return nil, s.errorf(ErrUnterminated, "expected '}'")
		}
		child, err := s.scanUnit()
		if err != nil {
			return nil, err
		}
		u.Children = append(u.Children, child)
	}
}

// scanDeclOrExpr scans a statement-level span through its ';'. A span that
// ends in ')' right before a '{' is a function header and has no ';'.
func (s *Scanner) scanDeclOrExpr() (*model.Unit, error) {
	start := s.pos
	if _, err := s.accumulate(endSemicolon); err != nil {
		return nil, err
	}
	switch {
	case s.peek().Kind == lexer.Semicolon:
		s.next()
	case s.peek().Kind == lexer.LeftBrace && s.pos > start && s.tokens[s.pos-1].Kind == lexer.RightParen:
	default:
		return nil, s.errorf(ErrUnterminated, "expected ';'")
	}
	return s.close(&model.Unit{Kind: model.UnitDeclOrExpr}, start), nil
}

// accumulate consumes a bracket-balanced run up to, not including, the
// terminator selected by mode.
func (s *Scanner) accumulate(mode spanMode) (*model.Unit, error) {
	start := s.pos
	var (
		stack   []lexer.Kind
		ternary int
	)
	for {
		tok := s.peek()
		top := len(stack) == 0
		switch tok.Kind {
		case lexer.EOF:
			if !top {
				return nil, s.errorf(ErrUnterminated, "unbalanced %s", stack[len(stack)-1])
			}
			return s.close(&model.Unit{Kind: model.UnitDeclOrExpr}, start), nil
		case lexer.LeftParen, lexer.LeftBracket:
			stack = append(stack, tok.Kind)
		case lexer.LeftBrace:
			if top && !s.braceContinues(start) {
				return s.close(&model.Unit{Kind: model.UnitDeclOrExpr}, start), nil
			}
			stack = append(stack, tok.Kind)
		case lexer.RightParen, lexer.RightBracket, lexer.RightBrace:
			if top {
				if mode == endParen && tok.Kind == lexer.RightParen {
					return s.close(&model.Unit{Kind: model.UnitDeclOrExpr}, start), nil
				}
				if tok.Kind == lexer.RightBrace {
					return s.close(&model.Unit{Kind: model.UnitDeclOrExpr}, start), nil
				}
				return nil, s.errorf(ErrUnexpectedToken, "unbalanced %s", tok.Kind)
			}
			if open := stack[len(stack)-1]; !closes(open, tok.Kind) {
				return nil, s.errorf(ErrUnexpectedToken, "mismatched %s", open)
			}
			stack = stack[:len(stack)-1]
		case lexer.Semicolon:
			if top {
				if mode == endSemicolon {
					return s.close(&model.Unit{Kind: model.UnitDeclOrExpr}, start), nil
				}
				return nil, s.errorf(ErrUnexpectedToken, "unexpected ';'")
			}
		case lexer.Question:
			if top {
				ternary++
			}
		case lexer.Colon:
			if top {
				if ternary > 0 {
					ternary--
				} else if mode == endColon {
					return s.close(&model.Unit{Kind: model.UnitDeclOrExpr}, start), nil
				}
			}
		}
		s.next()
	}
}

// braceContinues reports whether a top-level '{' belongs to the current
// span: an initializer list or a struct/union/enum body.
func (s *Scanner) braceContinues(start int) bool {
	if s.pos <= start {
		return false
	}
	prev := s.tokens[s.pos-1]
	switch prev.Kind {
	case lexer.Assign, lexer.Struct, lexer.Union, lexer.Enum:
		return true
	case lexer.Identifier:
		return s.pos-2 >= start && s.tokens[s.pos-2].Is(lexer.Struct, lexer.Union, lexer.Enum)
	}
	return false
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

// header scans "( span )" for if/switch/while.
func (s *Scanner) header(keyword string) (*model.Unit, error) {
	if err := s.expect(lexer.LeftParen, "'(' after "+keyword); err != nil {
		return nil, err
	}
	cond, err := s.accumulate(endParen)
	if err != nil {
		return nil, err
	}
	if err := s.expect(lexer.RightParen, "')'"); err != nil {
		return nil, err
	}
	return cond, nil
}

func (s *Scanner) scanIf() (*model.Unit, error) {
	start := s.pos
	s.next()
	cond, err := s.header("if")
	if err != nil {
		return nil, err
	}
	then, err := s.scanUnit()
	if err != nil {
		return nil, err
	}
	u := &model.Unit{Kind: model.UnitIf, Cond: cond, Then: then}
	if s.peek().Kind == lexer.Else {
		s.next()
		if u.Else, err = s.scanUnit(); err != nil {
			return nil, err
		}
	}
	return s.close(u, start), nil
}

func (s *Scanner) scanSwitch() (*model.Unit, error) {
	start := s.pos
	s.next()
	expr, err := s.header("switch")
	if err != nil {
		return nil, err
	}
	body, err := s.scanUnit()
	if err != nil {
		return nil, err
	}
	return s.close(&model.Unit{Kind: model.UnitSwitch, Expr: expr, Body: body}, start), nil
}

func (s *Scanner) scanWhile() (*model.Unit, error) {
	start := s.pos
	s.next()
	cond, err := s.header("while")
	if err != nil {
		return nil, err
	}
	body, err := s.scanUnit()
	if err != nil {
		return nil, err
	}
	return s.close(&model.Unit{Kind: model.UnitWhile, Cond: cond, Body: body}, start), nil
}

func (s *Scanner) scanDoWhile() (*model.Unit, error) {
	start := s.pos
	s.next()
	body, err := s.scanUnit()
	if err != nil {
		return nil, err
	}
	if err := s.expect(lexer.While, "while after do body"); err != nil {
		return nil, err
	}
	cond, err := s.header("while")
	if err != nil {
		return nil, err
	}
	if err := s.expect(lexer.Semicolon, "';' after do-while"); err != nil {
		return nil, err
	}
	return s.close(&model.Unit{Kind: model.UnitDoWhile, Body: body, Cond: cond}, start), nil
}

// clause scans one for-loop clause; an empty clause yields nil.
func (s *Scanner) clause(mode spanMode) (*model.Unit, error) {
	u, err := s.accumulate(mode)
	if err != nil {
		return nil, err
	}
	if u.Len() == 0 {
		return nil, nil
	}
	return u, nil
}

func (s *Scanner) scanFor() (*model.Unit, error) {
	start := s.pos
	s.next()
	if err := s.expect(lexer.LeftParen, "'(' after for"); err != nil {
		return nil, err
	}
	u := &model.Unit{Kind: model.UnitFor}
	var err error
	if u.Init, err = s.clause(endSemicolon); err != nil {
		return nil, err
	}
	if err = s.expect(lexer.Semicolon, "';' after for initializer"); err != nil {
		return nil, err
	}
	if u.Cond, err = s.clause(endSemicolon); err != nil {
		return nil, err
	}
	if err = s.expect(lexer.Semicolon, "';' after for condition"); err != nil {
		return nil, err
	}
	if u.Step, err = s.clause(endParen); err != nil {
		return nil, err
	}
	if err = s.expect(lexer.RightParen, "')'"); err != nil {
		return nil, err
	}
	if u.Body, err = s.scanUnit(); err != nil {
		return nil, err
	}
	return s.close(u, start), nil
}

func (s *Scanner) scanCase() (*model.Unit, error) {
	start := s.pos
	s.next()
	expr, err := s.accumulate(endColon)
	if err != nil {
		return nil, err
	}
	if expr.Len() == 0 {
		return nil, s.errorf(ErrUnexpectedToken, "expected case expression")
	}
	if err := s.expect(lexer.Colon, "':' after case"); err != nil {
		return nil, err
	}
	return s.close(&model.Unit{Kind: model.UnitCase, Expr: expr}, start), nil
}

func (s *Scanner) scanReturn() (*model.Unit, error) {
	start := s.pos
	s.next()
	u := &model.Unit{Kind: model.UnitReturn}
	if s.peek().Kind != lexer.Semicolon {
		expr, err := s.accumulate(endSemicolon)
		if err != nil {
			return nil, err
		}
		u.Expr = expr
	}
	if err := s.expect(lexer.Semicolon, "';' after return"); err != nil {
		return nil, err
	}
	return s.close(u, start), nil
}

func (s *Scanner) scanGoto() (*model.Unit, error) {
	start := s.pos
	s.next()
	name := s.peek()
	if err := s.expect(lexer.Identifier, "label name after goto"); err != nil {
		return nil, err
	}
	if err := s.expect(lexer.Semicolon, "';' after goto"); err != nil {
		return nil, err
	}
	return s.close(&model.Unit{Kind: model.UnitGoto, Name: name.Text}, start), nil
}

func (s *Scanner) scanLabel() (*model.Unit, error) {
	start := s.pos
	name := s.next()
	s.next()
	u := &model.Unit{Kind: model.UnitLabel, Name: name.Text}
	if !s.peek().Is(lexer.RightBrace, lexer.EOF) {
		inner, err := s.scanUnit()
		if err != nil {
			return nil, err
		}
		u.Inner = inner
	}
	return s.close(u, start), nil
}
