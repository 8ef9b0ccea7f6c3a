package parser

import (
	"github.com/cmmoran/cdecl/internal/lexer"
	"github.com/cmmoran/cdecl/internal/model"
)

// ParseDeclarator parses a named declarator.
func (p *Parser) ParseDeclarator(c *Cursor) (*model.Declarator, error) {
	return p.parseDeclarator(c, false)
}

// ParseAbstractDeclarator parses a declarator whose identifier may be
// omitted, as in parameter lists.
func (p *Parser) ParseAbstractDeclarator(c *Cursor) (*model.Declarator, error) {
	return p.parseDeclarator(c, true)
}

// parseDeclarator reads a run of '*' (each with optional qualifiers), a
// direct declarator, then any '[...]' and '(...)' suffixes. The pointer
// run is wrapped right to left so the '*' nearest the identifier is
// innermost.
func (p *Parser) parseDeclarator(c *Cursor, abstract bool) (d *model.Declarator, err error) {
	mark := c.pos
	defer func() {
		if err != nil {
			c.pos = mark
		}
	}()

	type star struct {
		quals model.Qualifiers
		pos   lexer.Pos
	}
	var stars []star
	for c.peek().Kind == lexer.Star {
		s := star{pos: c.next().Pos}
	quals:
		for {
			switch c.peek().Kind {
			case lexer.Const:
				s.quals = s.quals.With(model.QualConst)
			case lexer.Volatile:
				s.quals = s.quals.With(model.QualVolatile)
			case lexer.Restrict:
				s.quals = s.quals.With(model.QualRestrict)
			default:
				break quals
			}
			c.next()
		}
		stars = append(stars, s)
	}

	d, err = p.parseDirect(c, abstract)
	if err != nil {
		return nil, err
	}
	for i := len(stars) - 1; i >= 0; i-- {
		d = &model.Declarator{Kind: model.DeclPointer, Inner: d, Qualifiers: stars[i].quals, Pos: stars[i].pos}
	}
	return d, nil
}

// opensGroup reports whether the '(' under the cursor parenthesizes a
// declarator rather than starting a parameter list.
func (p *Parser) opensGroup(c *Cursor, abstract bool) bool {
	next := c.peekAt(1)
	switch next.Kind {
	case lexer.Star, lexer.LeftParen, lexer.LeftBracket:
		return true
	case lexer.Identifier:
		return !abstract || !p.resolver.IsTypedef(next.Text)
	}
	return false
}

func (p *Parser) parseDirect(c *Cursor, abstract bool) (*model.Declarator, error) {
	var d *model.Declarator
	tok := c.peek()
	switch {
	case tok.Kind == lexer.Identifier:
		c.next()
		d = &model.Declarator{Kind: model.DeclIdent, Name: tok.Text, Pos: tok.Pos}
	case tok.Kind == lexer.LeftParen && p.opensGroup(c, abstract):
		c.next()
		inner, err := p.parseDeclarator(c, abstract)
		if err != nil {
			return nil, err
		}
		if err := c.expect(lexer.RightParen, "')' closing declarator group"); err != nil {
			return nil, err
		}
		d = &model.Declarator{Kind: model.DeclGroup, Inner: inner, Pos: tok.Pos}
	case abstract:
		d = &model.Declarator{Kind: model.DeclIdent, Pos: tok.Pos}
	default:
		return nil, c.errorf(ErrUnexpectedToken, "expected identifier or '('")
	}

	for {
		tok := c.peek()
		switch tok.Kind {
		case lexer.LeftBracket:
			c.next()
			n, err := c.capture(lexer.RightBracket)
			if err != nil {
				return nil, err
			}
			if err := c.expect(lexer.RightBracket, "']'"); err != nil {
				return nil, err
			}
			if n.Len() == 0 {
				n = nil
			}
			d = &model.Declarator{Kind: model.DeclArray, Inner: d, Length: n, Pos: tok.Pos}
		case lexer.LeftParen:
			params, variadic, err := p.ParseParams(c)
			if err != nil {
				return nil, err
			}
			d = &model.Declarator{Kind: model.DeclFunction, Inner: d, Params: params, Variadic: variadic, Pos: tok.Pos}
		default:
			return d, nil
		}
	}
}

// ParseParams parses "( parameter-list )". "(void)" and "()" yield no
// parameters; "..." marks the function variadic and ends the list.
func (p *Parser) ParseParams(c *Cursor) (params []*model.DeclParam, variadic bool, err error) {
	mark := c.pos
	defer func() {
		if err != nil {
			c.pos = mark
		}
	}()

	if err := c.expect(lexer.LeftParen, "'('"); err != nil {
		return nil, false, err
	}
	if c.accept(lexer.RightParen) {
		return nil, false, nil
	}
	if c.peek().Kind == lexer.Void && c.peekAt(1).Kind == lexer.RightParen {
		c.next()
		c.next()
		return nil, false, nil
	}
	for {
		if c.accept(lexer.Ellipsis) {
			if err := c.expect(lexer.RightParen, "')' after '...'"); err != nil {
				return nil, false, err
			}
			return params, true, nil
		}
		spec, err := p.ParseSpecifier(c)
		if err != nil {
			return nil, false, err
		}
		d, err := p.parseDeclarator(c, true)
		if err != nil {
			return nil, false, err
		}
		params = append(params, &model.DeclParam{Name: d.Ident(), Spec: spec, Declarator: d})
		if c.accept(lexer.Comma) {
			continue
		}
		if err := c.expect(lexer.RightParen, "',' or ')' in parameter list"); err != nil {
			return nil, false, err
		}
		return params, false, nil
	}
}

// ParseInitializer parses "= initializer" when present. The initializer
// runs to the next top-level ',' or ';' and is kept unevaluated.
func (p *Parser) ParseInitializer(c *Cursor) (*model.Unit, error) {
	if c.peek().Kind != lexer.Assign {
		return nil, nil
	}
	mark := c.pos
	c.next()
	init, err := c.capture(lexer.Comma, lexer.Semicolon)
	if err != nil {
		c.pos = mark
		return nil, err
	}
	if init.Len() == 0 {
		c.pos = mark + 1
		err := c.errorf(ErrUnexpectedToken, "expected initializer")
		c.pos = mark
		return nil, err
	}
	return init, nil
}

func (p *Parser) parseInitDeclarator(c *Cursor) (*model.InitDeclarator, error) {
	d, err := p.ParseDeclarator(c)
	if err != nil {
		return nil, err
	}
	init, err := p.ParseInitializer(c)
	if err != nil {
		return nil, err
	}
	return &model.InitDeclarator{Declarator: d, Init: init}, nil
}
