package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cmmoran/cdecl/internal/lexer"
)

var (
	ErrAlreadyComplete = errors.New("type already complete")
)

// DeclSpecifier is the storage/qualifier/base-type prefix of a declaration.
// Builtin and SUE are never both set.
type DeclSpecifier struct {
	Builtin    BuiltinType
	SUE        SUEKind
	Storage    Storage
	FuncSpec   FuncSpec
	Qualifiers Qualifiers
	Modifiers  Modifiers

	TypedefName string   // base type named through a typedef
	Typedef     *Typedef // resolved at parse time

	Struct *DeclStructType
	Union  *DeclUnionType
	Enum   *DeclEnumType
	// DefinesTag is set when this specifier carries the tag's body.
	DefinesTag bool

	// ImplicitInt is set when no base type was written and int was assumed.
	ImplicitInt bool
	Pos         lexer.Pos
}

// TagName returns the struct/union/enum tag, if any.
func (s *DeclSpecifier) TagName() string {
	switch {
	case s.Struct != nil:
		return s.Struct.Name
	case s.Union != nil:
		return s.Union.Name
	case s.Enum != nil:
		return s.Enum.Name
	}
	return ""
}

func (s *DeclSpecifier) String() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{s.Storage.String(), s.FuncSpec.String(), s.Qualifiers.String(), s.Modifiers.String()} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	switch {
	case s.SUE != SUENone:
		name := s.TagName()
		if name == "" {
			name = "<anonymous>"
		}
		parts = append(parts, s.SUE.String()+" "+name)
	case s.TypedefName != "":
		parts = append(parts, s.TypedefName)
	case s.Builtin != BuiltinNone && !s.ImplicitInt:
		parts = append(parts, s.Builtin.String())
	case len(parts) == 0 || s.ImplicitInt:
		parts = append(parts, "int")
	}
	return strings.Join(parts, " ")
}

// Typedef binds a name to the specifier and declarator that defined it.
// Spec is nil for names registered without a definition.
type Typedef struct {
	Name       string
	Spec       *DeclSpecifier
	Declarator *Declarator
}

// DeclaratorKind tags a Declarator node.
type DeclaratorKind int

const (
	DeclIdent DeclaratorKind = iota
	DeclPointer
	DeclArray
	DeclFunction
	DeclGroup
)

func (k DeclaratorKind) String() string {
	switch k {
	case DeclIdent:
		return "Ident"
	case DeclPointer:
		return "Pointer"
	case DeclArray:
		return "Array"
	case DeclFunction:
		return "Function"
	case DeclGroup:
		return "Group"
	}
	return "Unknown"
}

// Declarator is the recursive part of a declaration around the identifier.
// Every non-Ident node owns exactly one Inner.
type Declarator struct {
	Kind  DeclaratorKind
	Inner *Declarator

	Name       string     // Ident; empty for abstract declarators
	Qualifiers Qualifiers // Pointer
	Length     *Unit      // Array; nil when unspecified
	Params     []*DeclParam
	Variadic   bool
	Pos        lexer.Pos
}

// Ident returns the declared name, or "" for an abstract declarator.
func (d *Declarator) Ident() string {
	for n := d; n != nil; n = n.Inner {
		if n.Kind == DeclIdent {
			return n.Name
		}
	}
	return ""
}

// Chain lists the derivation layers from the identifier outward, skipping
// groups. For "(*fp)(int)" it is [Pointer, Function].
func (d *Declarator) Chain() []DeclaratorKind {
	var out []DeclaratorKind
	for n := d; n != nil; n = n.Inner {
		if n.Kind != DeclIdent && n.Kind != DeclGroup {
			out = append(out, n.Kind)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// String spells the declarator back in C syntax.
func (d *Declarator) String() string {
	if d == nil {
		return ""
	}
	switch d.Kind {
	case DeclIdent:
		return d.Name
	case DeclPointer:
		q := d.Qualifiers.String()
		if q != "" {
			q += " "
		}
		return "*" + q + d.Inner.String()
	case DeclArray:
		if d.Length == nil {
			return d.Inner.String() + "[]"
		}
		return d.Inner.String() + "[" + d.Length.Text() + "]"
	case DeclFunction:
		params := make([]string, 0, len(d.Params)+1)
		for _, p := range d.Params {
			params = append(params, p.String())
		}
		if d.Variadic {
			params = append(params, "...")
		}
		return d.Inner.String() + "(" + strings.Join(params, ", ") + ")"
	case DeclGroup:
		return "(" + d.Inner.String() + ")"
	}
	return ""
}

// DeclParam is one function parameter.
type DeclParam struct {
	Name       string
	Spec       *DeclSpecifier
	Declarator *Declarator
}

func (p *DeclParam) String() string {
	if s := p.Declarator.String(); s != "" {
		return p.Spec.String() + " " + s
	}
	return p.Spec.String()
}

// InitDeclarator pairs a declarator with its deferred initializer and, for
// struct members, a bit-field width.
type InitDeclarator struct {
	Declarator *Declarator
	Init       *Unit
	BitWidth   *Unit
}

func (d *InitDeclarator) String() string {
	s := d.Declarator.String()
	if d.BitWidth != nil {
		s += " : " + d.BitWidth.Text()
	}
	if d.Init != nil {
		s += " = " + d.Init.Text()
	}
	return s
}

// DeclField is one member declaration of a struct or union.
type DeclField struct {
	Spec        *DeclSpecifier
	Declarators []*InitDeclarator
}

// DeclEnumItem is one enumerator. Value is the deferred explicit value.
type DeclEnumItem struct {
	Name     string
	HasValue bool
	Value    *Unit
	Pos      lexer.Pos
}

// DeclRecordType is the shared shape of struct and union definitions. It
// is created incomplete and completed at most once.
type DeclRecordType struct {
	Name     string
	Fields   []*DeclField
	complete bool
}

// IsComplete reports whether a member list has been attached.
func (r *DeclRecordType) IsComplete() bool { return r.complete }

// Complete attaches the member list.
func (r *DeclRecordType) Complete(fields []*DeclField) error {
	if r.complete {
		return fmt.Errorf("%q: %w", r.Name, ErrAlreadyComplete)
	}
	r.Fields, r.complete = fields, true
	return nil
}

type DeclStructType struct{ DeclRecordType }

type DeclUnionType struct{ DeclRecordType }

// DeclEnumType is an enum definition.
type DeclEnumType struct {
	Name     string
	Items    []*DeclEnumItem
	complete bool
}

func (e *DeclEnumType) IsComplete() bool { return e.complete }

func (e *DeclEnumType) Complete(items []*DeclEnumItem) error {
	if e.complete {
		return fmt.Errorf("%q: %w", e.Name, ErrAlreadyComplete)
	}
	e.Items, e.complete = items, true
	return nil
}

// DeclUnitKind classifies a parsed statement unit.
type DeclUnitKind int

const (
	DeclUnitDeclaration DeclUnitKind = iota
	DeclUnitExpression
	DeclUnitStatement
)

func (k DeclUnitKind) String() string {
	switch k {
	case DeclUnitDeclaration:
		return "Declaration"
	case DeclUnitExpression:
		return "Expression"
	case DeclUnitStatement:
		return "Statement"
	}
	return "Unknown"
}

// DeclUnit is the parser's view of one statement unit.
type DeclUnit struct {
	Kind        DeclUnitKind
	Spec        *DeclSpecifier
	Declarators []*InitDeclarator

	// Body is the parsed compound of a function definition.
	Body   *DeclUnit
	Nested []*DeclUnit
	Origin *Unit
}

// IsFunctionDefinition reports whether u declares a function with a body.
func (u *DeclUnit) IsFunctionDefinition() bool {
	return u.Kind == DeclUnitDeclaration && u.Body != nil
}

func (u *DeclUnit) String() string {
	if u.Kind != DeclUnitDeclaration {
		if u.Origin == nil {
			return u.Kind.String()
		}
		return u.Kind.String() + " " + u.Origin.Kind.String()
	}
	decls := make([]string, len(u.Declarators))
	for i, d := range u.Declarators {
		decls[i] = d.String()
	}
	s := u.Spec.String()
	if len(decls) > 0 {
		s += " " + strings.Join(decls, ", ")
	}
	if u.Body != nil {
		s += " {...}"
	}
	return s
}
