package parser

import (
	"fmt"
	"log/slog"

	"github.com/cmmoran/cdecl/internal/lexer"
	"github.com/cmmoran/cdecl/internal/model"
)

// Parser turns DeclOrExpr statement units into declarations. Parse methods
// return a fully built value or an error, and on error the cursor is back
// where the call started.
type Parser struct {
	resolver *Resolver
	strict   bool
	log      *slog.Logger
}

type Option func(*Parser)

// WithStrictImplicitInt makes a specifier without a base type an error.
func WithStrictImplicitInt() Option { return func(p *Parser) { p.strict = true } }

func WithLogger(l *slog.Logger) Option { return func(p *Parser) { p.log = l } }

// New returns a Parser that consults and updates r.
func New(r *Resolver, opts ...Option) *Parser {
	if r == nil {
		r = NewResolver()
	}
	p := &Parser{
		resolver: r,
		log:      slog.Default(),
	}
	for _, fn := range opts {
		fn(p)
	}
	p.log = p.log.With("component", "parser")
	return p
}

func (p *Parser) Resolver() *Resolver {
	return p.resolver
}

// IsDeclaration reports whether u starts with a storage, qualifier or type
// keyword, or with an identifier naming a typedef. A bare tag name starts a
// declaration only when a declarator name or '*' follows it, so calls such
// as stat(p, &st) stay expressions.
func (p *Parser) IsDeclaration(u *model.Unit) bool {
	if u == nil || u.Kind != model.UnitDeclOrExpr || len(u.Tokens) == 0 {
		return false
	}
	return p.startsDeclaration(u.Tokens)
}

func (p *Parser) startsDeclaration(toks []lexer.Token) bool {
	tok := toks[0]
	switch tok.Kind {
	case lexer.Extern, lexer.Static, lexer.Register, lexer.Typedef, lexer.Auto,
		lexer.Inline, lexer.Noreturn,
		lexer.Const, lexer.Volatile, lexer.Restrict,
		lexer.Void, lexer.Char, lexer.Short, lexer.Int, lexer.Long, lexer.Float, lexer.Double,
		lexer.Signed, lexer.Unsigned, lexer.Struct, lexer.Union, lexer.Enum:
		return true
	case lexer.Identifier:
		if p.resolver.IsTypedef(tok.Text) {
			return true
		}
		return p.resolver.IsTag(tok.Text) && len(toks) > 1 && toks[1].Is(lexer.Identifier, lexer.Star)
	}
	return false
}

// ParseDeclaration parses u as a specifier followed by a comma-separated
// list of declarators with optional initializers. Typedef names and
// declared objects are bound in the resolver only after the whole unit
// parsed.
func (p *Parser) ParseDeclaration(u *model.Unit) (*model.DeclUnit, error) {
	c := UnitCursor(u)
	spec, err := p.ParseSpecifier(c)
	if err != nil {
		return nil, err
	}

	var decls []*model.InitDeclarator
	if !c.AtEnd() && c.peek().Kind != lexer.Semicolon {
		for {
			d, err := p.parseInitDeclarator(c)
			if err != nil {
				return nil, err
			}
			decls = append(decls, d)
			if !c.accept(lexer.Comma) {
				break
			}
		}
	}
	c.accept(lexer.Semicolon)
	if !c.AtEnd() {
		return nil, c.errorf(ErrUnexpectedToken, "expected ',' or ';'")
	}

	for _, d := range decls {
		name := d.Declarator.Ident()
		if spec.Storage.IsTypedef() {
			p.resolver.DefineTypedef(&model.Typedef{Name: name, Spec: spec, Declarator: d.Declarator})
			continue
		}
		p.resolver.DefineObject(name)
	}
	return &model.DeclUnit{
		Kind:        model.DeclUnitDeclaration,
		Spec:        spec,
		Declarators: decls,
		Origin:      u,
	}, nil
}

// ParseUnits parses a sequence of sibling units, such as the children of a
// Compound. A declaration without ';' followed by a Compound is a function
// definition and takes that Compound as its body.
func (p *Parser) ParseUnits(units []*model.Unit) ([]*model.DeclUnit, error) {
	return p.parseList(units, true)
}

func (p *Parser) parseList(units []*model.Unit, block bool) ([]*model.DeclUnit, error) {
	out := make([]*model.DeclUnit, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u.Kind != model.UnitDeclOrExpr {
			du, err := p.parseStatement(u)
			if err != nil {
				return nil, err
			}
			out = append(out, du)
			continue
		}
		if !p.IsDeclaration(u) {
			out = append(out, &model.DeclUnit{Kind: model.DeclUnitExpression, Origin: u})
			continue
		}
		du, err := p.ParseDeclaration(u)
		if err != nil {
			p.log.Debug("declaration failed", "unit", i, "pos", u.Pos().String(), "error", err)
			return nil, fmt.Errorf("parse failed at unit %d: %w", i, err)
		}
		if block && i+1 < len(units) && isFunctionHeader(u, du) && units[i+1].Kind == model.UnitCompound {
			i++
			if du.Body, err = p.parseBody(du, units[i]); err != nil {
				return nil, err
			}
		}
		out = append(out, du)
	}
	return out, nil
}

func isFunctionHeader(u *model.Unit, du *model.DeclUnit) bool {
	if len(u.Tokens) == 0 || u.Tokens[len(u.Tokens)-1].Kind == lexer.Semicolon {
		return false
	}
	if len(du.Declarators) != 1 {
		return false
	}
	chain := du.Declarators[0].Declarator.Chain()
	return len(chain) > 0 && chain[0] == model.DeclFunction
}

// parseBody parses a function body in a scope holding the parameters.
func (p *Parser) parseBody(du *model.DeclUnit, body *model.Unit) (*model.DeclUnit, error) {
	p.resolver.Push()
	defer p.resolver.Pop()
	if fn := innermostFunction(du.Declarators[0].Declarator); fn != nil {
		for _, prm := range fn.Params {
			p.resolver.DefineObject(prm.Name)
		}
	}
	nested, err := p.parseList(body.Children, true)
	if err != nil {
		return nil, err
	}
	return &model.DeclUnit{Kind: model.DeclUnitStatement, Origin: body, Nested: nested}, nil
}

// innermostFunction returns the function layer closest to the identifier.
func innermostFunction(d *model.Declarator) *model.Declarator {
	var fn *model.Declarator
	for n := d; n != nil; n = n.Inner {
		if n.Kind == model.DeclFunction {
			fn = n
		}
	}
	return fn
}

func (p *Parser) parseStatement(u *model.Unit) (*model.DeclUnit, error) {
	if u.Kind == model.UnitCompound || u.Kind == model.UnitFor {
		p.resolver.Push()
		defer p.resolver.Pop()
	}
	nested, err := p.parseList(u.Subunits(), u.Kind == model.UnitCompound)
	if err != nil {
		return nil, err
	}
	return &model.DeclUnit{Kind: model.DeclUnitStatement, Origin: u, Nested: nested}, nil
}
