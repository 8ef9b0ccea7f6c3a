package parser

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmmoran/cdecl/internal/layout"
	"github.com/cmmoran/cdecl/internal/model"
)

// EntryKind classifies a file-scope name in a build result.
type EntryKind int

const (
	EntryTag EntryKind = iota
	EntryTypedef
	EntryObject
	EntryFunction
)

func (k EntryKind) String() string {
	switch k {
	case EntryTag:
		return "tag"
	case EntryTypedef:
		return "typedef"
	case EntryObject:
		return "object"
	case EntryFunction:
		return "function"
	}
	return "unknown"
}

// Entry is one materialized file-scope name.
type Entry struct {
	Name    string
	Kind    EntryKind
	Storage model.Storage
	Type    *model.CTypeInfo
}

// Builder materializes CTypeInfo trees from parsed specifiers and
// declarators. Every call returns a fresh tree.
type Builder struct {
	engine *layout.Engine
	log    *slog.Logger

	// resolving guards records and typedefs under construction so a
	// self-reference ends in an incomplete shell.
	resolving map[any]bool
}

// NewBuilder returns a Builder laying types out with e.
func NewBuilder(e *layout.Engine) *Builder {
	return &Builder{
		engine:    e,
		log:       slog.Default().With("component", "builder"),
		resolving: make(map[any]bool),
	}
}

// BuildAll materializes every file-scope tag definition, typedef, object
// and function declared in units, in declaration order. Failures are
// collected and the remaining names are still built.
func (b *Builder) BuildAll(units []*model.DeclUnit) ([]*Entry, error) {
	var (
		out  []*Entry
		errs []error
	)
	for _, u := range units {
		if u.Kind != model.DeclUnitDeclaration {
			continue
		}
		if u.Spec.DefinesTag && u.Spec.TagName() != "" {
			t, err := b.BuildSpecifier(u.Spec)
			if err != nil {
				errs = append(errs, err)
			} else {
				t.Qualifiers = 0
				out = append(out, &Entry{Name: u.Spec.TagName(), Kind: EntryTag, Type: t})
			}
		}
		for _, d := range u.Declarators {
			name := d.Declarator.Ident()
			t, err := b.BuildDeclarator(u.Spec, d.Declarator)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				continue
			}
			e := &Entry{Name: name, Kind: EntryObject, Storage: u.Spec.Storage, Type: t}
			switch {
			case u.Spec.Storage.IsTypedef():
				e.Kind = EntryTypedef
			case t.Kind == model.CFunction:
				e.Kind = EntryFunction
			}
			out = append(out, e)
		}
	}
	if len(errs) > 0 {
		b.log.Warn("some declarations could not be laid out", "failed", len(errs), "built", len(out))
	}
	return out, errors.Join(errs...)
}

// BuildDeclarator returns the type declared by d over spec.
func (b *Builder) BuildDeclarator(spec *model.DeclSpecifier, d *model.Declarator) (*model.CTypeInfo, error) {
	base, err := b.BuildSpecifier(spec)
	if err != nil {
		return nil, err
	}
	return b.derive(base, d)
}

// derive applies d's layers to base from the outermost node inward, which
// reads the declaration from the identifier outward.
func (b *Builder) derive(base *model.CTypeInfo, d *model.Declarator) (*model.CTypeInfo, error) {
	if d == nil {
		return base, nil
	}
	switch d.Kind {
	case model.DeclIdent:
		return base, nil
	case model.DeclGroup:
		return b.derive(base, d.Inner)
	case model.DeclPointer:
		ptr := b.engine.MakePointer(base)
		ptr.Qualifiers = d.Qualifiers
		return b.derive(ptr, d.Inner)
	case model.DeclArray:
		n, known := b.arrayLength(d)
		return b.derive(b.engine.MakeArray(base, n, known), d.Inner)
	case model.DeclFunction:
		params := make([]*model.Param, 0, len(d.Params))
		for _, prm := range d.Params {
			pt, err := b.BuildDeclarator(prm.Spec, prm.Declarator)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", prm.Name, err)
			}
			params = append(params, &model.Param{Name: prm.Name, Type: pt})
		}
		return b.derive(b.engine.MakeFunction(base, params, d.Variadic), d.Inner)
	}
	return nil, fmt.Errorf("declarator kind %s: %w", d.Kind, ErrUnexpectedToken)
}

// arrayLength evaluates an integer-constant length. Anything else is
// treated as unspecified.
func (b *Builder) arrayLength(d *model.Declarator) (int, bool) {
	if d.Length == nil {
		return 0, false
	}
	v, err := evalConst(d.Length.Tokens, nil)
	if err != nil || v < 0 {
		b.log.Warn("array length is not a constant", "length", d.Length.Text(), "pos", d.Pos.String())
		return 0, false
	}
	return int(v), true
}

// BuildSpecifier returns the base type named by spec, qualified.
func (b *Builder) BuildSpecifier(spec *model.DeclSpecifier) (*model.CTypeInfo, error) {
	var (
		t   *model.CTypeInfo
		err error
	)
	switch {
	case spec.Struct != nil:
		t, err = b.buildRecord(&spec.Struct.DeclRecordType, model.CStruct)
	case spec.Union != nil:
		t, err = b.buildRecord(&spec.Union.DeclRecordType, model.CUnion)
	case spec.Enum != nil:
		t, err = b.buildEnum(spec.Enum)
	case spec.Typedef != nil:
		t, err = b.buildTypedef(spec.Typedef)
	default:
		t = b.buildBuiltin(spec)
	}
	if err != nil {
		return nil, err
	}
	t.Qualifiers = t.Qualifiers.With(spec.Qualifiers)
	return t, nil
}

func (b *Builder) buildBuiltin(spec *model.DeclSpecifier) *model.CTypeInfo {
	m := spec.Modifiers
	switch spec.Builtin {
	case model.BuiltinVoid:
		return b.engine.MakeVoid()
	case model.BuiltinChar:
		return b.engine.MakeScalar(model.CChar, m.IsUnsigned())
	case model.BuiltinFloat:
		return b.engine.MakeScalar(model.CFloat, false)
	case model.BuiltinDouble:
		if m.IsLong() {
			return b.engine.MakeScalar(model.CLongDouble, false)
		}
		return b.engine.MakeScalar(model.CDouble, false)
	}
	switch {
	case m.IsShort():
		return b.engine.MakeScalar(model.CShort, m.IsUnsigned())
	case m.IsLongLong():
		return b.engine.MakeScalar(model.CLongLong, m.IsUnsigned())
	case m.IsLong():
		return b.engine.MakeScalar(model.CLong, m.IsUnsigned())
	}
	return b.engine.MakeScalar(model.CInt, m.IsUnsigned())
}

func (b *Builder) buildTypedef(td *model.Typedef) (*model.CTypeInfo, error) {
	if td.Spec == nil {
		// registered by name only
		return b.engine.MakeStruct(td.Name), nil
	}
	if b.resolving[td] {
		return nil, fmt.Errorf("typedef %s refers to itself: %w", td.Name, ErrRedefinition)
	}
	b.resolving[td] = true
	defer delete(b.resolving, td)
	return b.BuildDeclarator(td.Spec, td.Declarator)
}

func (b *Builder) buildRecord(r *model.DeclRecordType, kind model.CKind) (*model.CTypeInfo, error) {
	var t *model.CTypeInfo
	if kind == model.CUnion {
		t = b.engine.MakeUnion(r.Name)
	} else {
		t = b.engine.MakeStruct(r.Name)
	}
	if !r.IsComplete() || b.resolving[r] {
		return t, nil
	}
	b.resolving[r] = true
	defer delete(b.resolving, r)

	var fields []*model.Field
	for _, f := range r.Fields {
		if len(f.Declarators) == 0 {
			// anonymous struct/union member
			ft, err := b.BuildSpecifier(f.Spec)
			if err != nil {
				return nil, err
			}
			fields = append(fields, &model.Field{Type: ft})
			continue
		}
		for _, m := range f.Declarators {
			ft, err := b.BuildDeclarator(f.Spec, m.Declarator)
			if err != nil {
				return nil, fmt.Errorf("%s %s.%s: %w", kind, r.Name, m.Declarator.Ident(), err)
			}
			fields = append(fields, &model.Field{Name: m.Declarator.Ident(), Type: ft, BitField: m.BitWidth != nil})
		}
	}

	var err error
	if kind == model.CUnion {
		err = b.engine.CompleteUnion(t, fields)
	} else {
		err = b.engine.CompleteStruct(t, fields)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (b *Builder) buildEnum(e *model.DeclEnumType) (*model.CTypeInfo, error) {
	t := b.engine.MakeEnum(e.Name)
	if !e.IsComplete() {
		return t, nil
	}
	known := make(map[string]int64, len(e.Items))
	items := make([]*model.EnumItem, 0, len(e.Items))
	var next int64
	for _, it := range e.Items {
		item := &model.EnumItem{Name: it.Name}
		if it.HasValue {
			v, err := evalConst(it.Value.Tokens, known)
			if err != nil {
				return nil, &Error{Pos: it.Pos, Msg: "enumerator " + it.Name, Err: err}
			}
			item.Value, item.HasValue = v, true
			next = v
		} else {
			item.Value = next
		}
		known[it.Name] = next
		next++
		items = append(items, item)
	}
	if err := b.engine.CompleteEnum(t, items); err != nil {
		return nil, err
	}
	return t, nil
}
