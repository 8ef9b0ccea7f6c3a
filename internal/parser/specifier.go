package parser

import (
	"github.com/cmmoran/cdecl/internal/lexer"
	"github.com/cmmoran/cdecl/internal/model"
)

// ParseSpecifier accumulates storage, function-specifier, qualifier and
// modifier flags in any order, plus at most one base type. It stops at the
// first token that fits none of these.
func (p *Parser) ParseSpecifier(c *Cursor) (spec *model.DeclSpecifier, err error) {
	mark := c.pos
	defer func() {
		if err != nil {
			c.pos = mark
		}
	}()

	spec = &model.DeclSpecifier{Pos: c.peek().Pos}
	hasBase := func() bool {
		return spec.Builtin != model.BuiltinNone || spec.SUE != model.SUENone || spec.TypedefName != ""
	}

loop:
	for {
		tok := c.peek()
		switch tok.Kind {
		case lexer.Extern:
			spec.Storage = spec.Storage.With(model.StorageExtern)
		case lexer.Static:
			spec.Storage = spec.Storage.With(model.StorageStatic)
		case lexer.Register:
			spec.Storage = spec.Storage.With(model.StorageRegister)
		case lexer.Typedef:
			spec.Storage = spec.Storage.With(model.StorageTypedef)
		case lexer.Auto:
			spec.Storage = spec.Storage.With(model.StorageAuto)
		case lexer.Inline:
			spec.FuncSpec = spec.FuncSpec.With(model.FuncInline)
		case lexer.Noreturn:
			spec.FuncSpec = spec.FuncSpec.With(model.FuncNoreturn)
		case lexer.Const:
			spec.Qualifiers = spec.Qualifiers.With(model.QualConst)
		case lexer.Volatile:
			spec.Qualifiers = spec.Qualifiers.With(model.QualVolatile)
		case lexer.Restrict:
			spec.Qualifiers = spec.Qualifiers.With(model.QualRestrict)
		case lexer.Signed:
			spec.Modifiers = spec.Modifiers.With(model.ModSigned)
		case lexer.Unsigned:
			spec.Modifiers = spec.Modifiers.With(model.ModUnsigned)
		case lexer.Short:
			spec.Modifiers = spec.Modifiers.With(model.ModShort)
		case lexer.Long:
			spec.Modifiers = spec.Modifiers.AddLong()
		case lexer.Void, lexer.Char, lexer.Int, lexer.Float, lexer.Double:
			if hasBase() {
				return nil, c.errorf(ErrUnexpectedToken, "two or more data types in declaration specifiers")
			}
			spec.Builtin = builtinOf(tok.Kind)
		case lexer.Struct, lexer.Union, lexer.Enum:
			if hasBase() {
				return nil, c.errorf(ErrUnexpectedToken, "two or more data types in declaration specifiers")
			}
			if err := p.parseTagged(c, spec); err != nil {
				return nil, err
			}
			continue
		case lexer.Identifier:
			if hasBase() || spec.Modifiers != 0 {
				break loop
			}
			if td := p.resolver.LookupTypedef(tok.Text); td != nil {
				spec.TypedefName, spec.Typedef = tok.Text, td
				break
			}
			// legacy: a bare tag name used as a type
			if tag := p.resolver.LookupTag(tok.Text); tag != nil {
				p.log.Warn("tag used without keyword", "name", tok.Text, "kind", tag.Kind.String(), "pos", tok.Pos.String())
				attachTag(spec, tag)
				break
			}
			break loop
		default:
			break loop
		}
		c.next()
	}

	if c.pos == mark {
		return nil, c.errorf(ErrUnexpectedToken, "expected declaration specifiers")
	}
	if !hasBase() {
		if spec.Modifiers == 0 {
			if p.strict {
				return nil, &Error{Pos: spec.Pos, Msg: "declaration has no type", Err: ErrImplicitInt}
			}
			p.log.Warn("type specifier missing, defaulting to int", "pos", spec.Pos.String())
			spec.ImplicitInt = true
		}
		spec.Builtin = model.BuiltinInt
	}
	return spec, nil
}

func builtinOf(k lexer.Kind) model.BuiltinType {
	switch k {
	case lexer.Void:
		return model.BuiltinVoid
	case lexer.Char:
		return model.BuiltinChar
	case lexer.Int:
		return model.BuiltinInt
	case lexer.Float:
		return model.BuiltinFloat
	case lexer.Double:
		return model.BuiltinDouble
	}
	return model.BuiltinNone
}

func sueOf(k lexer.Kind) model.SUEKind {
	switch k {
	case lexer.Struct:
		return model.SUEStruct
	case lexer.Union:
		return model.SUEUnion
	case lexer.Enum:
		return model.SUEEnum
	}
	return model.SUENone
}

func attachTag(spec *model.DeclSpecifier, tag *Tag) {
	spec.SUE = tag.Kind
	spec.Struct, spec.Union, spec.Enum = tag.Struct, tag.Union, tag.Enum
}

// parseTagged parses "struct|union|enum [name] [{ body }]". A body binds
// the tag in the innermost scope and completes it exactly once.
func (p *Parser) parseTagged(c *Cursor, spec *model.DeclSpecifier) error {
	kw := c.next()
	kind := sueOf(kw.Kind)

	var name string
	if c.peek().Kind == lexer.Identifier {
		name = c.next().Text
	}
	if c.peek().Kind != lexer.LeftBrace {
		if name == "" {
			return c.errorf(ErrUnexpectedToken, "expected %s tag or '{'", kind)
		}
		tag, err := p.resolver.ReferenceTag(kind, name)
		if err != nil {
			return &Error{Pos: kw.Pos, Msg: "tag reference", Err: err}
		}
		attachTag(spec, tag)
		return nil
	}

	tag, created, err := p.resolver.DeclareTag(kind, name)
	if err != nil {
		return &Error{Pos: kw.Pos, Msg: "tag definition", Err: err}
	}
	if tag.IsComplete() {
		return &Error{Pos: kw.Pos, Msg: kind.String() + " " + name, Err: ErrRedefinition}
	}
	rollback := func() {
		if created && name != "" {
			p.resolver.ForgetTag(name)
		}
	}

	switch kind {
	case model.SUEEnum:
		items, err := p.parseEnumBody(c)
		if err != nil {
			rollback()
			return err
		}
		if err := tag.Enum.Complete(items); err != nil {
			return &Error{Pos: kw.Pos, Msg: kind.String() + " " + name, Err: err}
		}
		for _, it := range items {
			p.resolver.DefineObject(it.Name)
		}
	default:
		fields, err := p.parseRecordBody(c)
		if err != nil {
			rollback()
			return err
		}
		rec := &tag.Struct.DeclRecordType
		if kind == model.SUEUnion {
			rec = &tag.Union.DeclRecordType
		}
		if err := rec.Complete(fields); err != nil {
			return &Error{Pos: kw.Pos, Msg: kind.String() + " " + name, Err: err}
		}
	}
	attachTag(spec, tag)
	spec.DefinesTag = true
	return nil
}

// parseRecordBody parses "{ field-declaration... }".
func (p *Parser) parseRecordBody(c *Cursor) ([]*model.DeclField, error) {
	if err := c.expect(lexer.LeftBrace, "'{'"); err != nil {
		return nil, err
	}
	var fields []*model.DeclField
	for !c.accept(lexer.RightBrace) {
		if c.AtEnd() {
			return nil, c.errorf(ErrUnbalanced, "expected '}'")
		}
		if c.accept(lexer.Semicolon) {
			continue
		}
		spec, err := p.ParseSpecifier(c)
		if err != nil {
			return nil, err
		}
		f := &model.DeclField{Spec: spec}
		if c.peek().Kind != lexer.Semicolon {
			for {
				m, err := p.parseMember(c)
				if err != nil {
					return nil, err
				}
				f.Declarators = append(f.Declarators, m)
				if !c.accept(lexer.Comma) {
					break
				}
			}
		}
		if err := c.expect(lexer.Semicolon, "';' after member"); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// parseMember parses a member declarator with an optional ": width".
func (p *Parser) parseMember(c *Cursor) (*model.InitDeclarator, error) {
	m := &model.InitDeclarator{}
	if c.peek().Kind == lexer.Colon {
		m.Declarator = &model.Declarator{Kind: model.DeclIdent, Pos: c.peek().Pos}
	} else {
		d, err := p.ParseDeclarator(c)
		if err != nil {
			return nil, err
		}
		m.Declarator = d
	}
	if c.accept(lexer.Colon) {
		w, err := c.capture(lexer.Comma, lexer.Semicolon)
		if err != nil {
			return nil, err
		}
		if w.Len() == 0 {
			return nil, c.errorf(ErrUnexpectedToken, "expected bit-field width")
		}
		m.BitWidth = w
	}
	return m, nil
}

// parseEnumBody parses "{ NAME [= value], ... }" with an optional trailing
// comma.
func (p *Parser) parseEnumBody(c *Cursor) ([]*model.DeclEnumItem, error) {
	if err := c.expect(lexer.LeftBrace, "'{'"); err != nil {
		return nil, err
	}
	var items []*model.DeclEnumItem
	for !c.accept(lexer.RightBrace) {
		name := c.peek()
		if err := c.expect(lexer.Identifier, "enumerator name"); err != nil {
			return nil, err
		}
		it := &model.DeclEnumItem{Name: name.Text, Pos: name.Pos}
		if c.accept(lexer.Assign) {
			v, err := c.capture(lexer.Comma, lexer.RightBrace)
			if err != nil {
				return nil, err
			}
			if v.Len() == 0 {
				return nil, c.errorf(ErrUnexpectedToken, "expected enumerator value")
			}
			it.HasValue, it.Value = true, v
		}
		items = append(items, it)
		if !c.accept(lexer.Comma) {
			if err := c.expect(lexer.RightBrace, "',' or '}'"); err != nil {
				return nil, err
			}
			break
		}
	}
	return items, nil
}
