// Package gen renders Go mirrors of laid-out C types: structs with explicit
// padding, enums as named integers with constants, and unions as aligned
// byte blocks.
package gen

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/jinzhu/inflection"

	"github.com/cmmoran/cdecl/internal/model"
	"github.com/cmmoran/cdecl/internal/parser"
)

type Options struct {
	// Source is named in the generated header.
	Source string
	// Pluralize adds a slice type for every struct, e.g. Points []Point.
	Pluralize bool
}

// Generator emits one Go file. It is not safe for concurrent use.
type Generator struct {
	file  *jen.File
	opts  Options
	log   *slog.Logger
	names map[string]string // "struct point", "typedef size_t" -> Go name
	used  map[string]bool
}

// New returns a Generator for package name at importPath.
func New(importPath, name string, opts Options) *Generator {
	f := jen.NewFilePathName(importPath, name)
	src := opts.Source
	if src == "" {
		src = "C declarations"
	}
	f.HeaderComment(fmt.Sprintf("Code generated by cdecl godefs from %s. DO NOT EDIT.", src))
	return &Generator{
		file:  f,
		opts:  opts,
		log:   slog.Default().With("component", "godefs"),
		names: make(map[string]string),
		used:  make(map[string]bool),
	}
}

func tagKey(t *model.CTypeInfo) string {
	return t.Kind.String() + " " + t.Name
}

// Generate emits every tag and typedef entry. Objects and functions have
// no type to mirror and are skipped.
func (g *Generator) Generate(entries []*parser.Entry) *jen.File {
	for _, e := range entries {
		switch e.Kind {
		case parser.EntryTag:
			g.names[tagKey(e.Type)] = g.claim(exportName(e.Name), e.Type.Kind.String())
		case parser.EntryTypedef:
			g.names["typedef "+e.Name] = g.claim(exportName(e.Name), "type")
		}
	}

	for _, e := range entries {
		switch e.Kind {
		case parser.EntryTag:
			g.emitTag(e)
		case parser.EntryTypedef:
			g.emitTypedef(e)
		default:
			g.log.Debug("skipping", "name", e.Name, "kind", e.Kind.String())
		}
	}
	return g.file
}

// claim reserves name, suffixing it with kind on collision.
func (g *Generator) claim(name, kind string) string {
	if g.used[name] {
		name += exportName(kind)
	}
	for i := 2; g.used[name]; i++ {
		name = fmt.Sprintf("%s%d", strings.TrimRight(name, "0123456789"), i)
	}
	g.used[name] = true
	return name
}

func (g *Generator) emitTag(e *parser.Entry) {
	name := g.names[tagKey(e.Type)]
	switch e.Type.Kind {
	case model.CEnum:
		g.emitEnum(name, e.Type)
	case model.CStruct, model.CUnion:
		g.file.Type().Id(name).Add(g.record(e.Type))
		g.pluralize(name, e.Type)
	}
}

func (g *Generator) emitTypedef(e *parser.Entry) {
	name := g.names["typedef "+e.Name]
	t := e.Type
	switch t.Kind {
	case model.CFunction, model.CVoid:
		g.log.Warn("typedef has no Go mirror", "name", e.Name, "type", t.String())
		return
	case model.CStruct, model.CUnion, model.CEnum:
		if target, ok := g.names[tagKey(t)]; ok && t.Name != "" {
			g.file.Type().Id(name).Op("=").Id(target)
			return
		}
	}
	if t.Kind == model.CEnum {
		g.emitEnum(name, t)
		return
	}
	g.file.Type().Id(name).Add(g.goType(t))
	if t.IsRecord() {
		g.pluralize(name, t)
	}
}

func (g *Generator) emitEnum(name string, t *model.CTypeInfo) {
	g.file.Type().Id(name).Add(intType(t.Size, false))
	if len(t.Items) == 0 {
		return
	}
	defs := make([]jen.Code, 0, len(t.Items))
	for _, it := range t.Items {
		defs = append(defs, jen.Id(g.claim(exportName(it.Name), "value")).Id(name).Op("=").Lit(int(it.Value)))
	}
	g.file.Const().Defs(defs...)
}

func (g *Generator) pluralize(name string, t *model.CTypeInfo) {
	if !g.opts.Pluralize || !t.Complete {
		return
	}
	plural := inflection.Plural(name)
	if plural == name || g.used[plural] {
		return
	}
	g.used[plural] = true
	g.file.Type().Id(plural).Index().Id(name)
}

// goType maps t to a Go type of the same size.
func (g *Generator) goType(t *model.CTypeInfo) *jen.Statement {
	switch t.Kind {
	case model.CChar, model.CShort, model.CInt, model.CLong, model.CLongLong:
		return intType(t.Size, t.Unsigned)
	case model.CFloat:
		return jen.Float32()
	case model.CDouble:
		if t.Size == 8 {
			return jen.Float64()
		}
	case model.CPointer:
		return intType(t.Size, true)
	case model.CArray:
		return jen.Index(jen.Lit(t.Length)).Add(g.goType(t.Base))
	case model.CEnum:
		if name, ok := g.names[tagKey(t)]; ok && t.Name != "" {
			return jen.Id(name)
		}
		return intType(t.Size, false)
	case model.CStruct, model.CUnion:
		if name, ok := g.names[tagKey(t)]; ok && t.Name != "" {
			return jen.Id(name)
		}
		if t.Complete {
			return g.record(t)
		}
	}
	return jen.Index(jen.Lit(t.Size)).Byte()
}

// record renders a struct literal whose fields sit at the C offsets.
func (g *Generator) record(t *model.CTypeInfo) *jen.Statement {
	if t.Kind == model.CUnion {
		return jen.Struct(
			jen.Id("_").Index(jen.Lit(0)).Add(intType(min(t.Align, 8), true)),
			jen.Id("Data").Index(jen.Lit(t.Size)).Byte(),
		)
	}

	var (
		fields []jen.Code
		cur    int
		seen   = make(map[string]int)
	)
	for i, f := range t.Fields {
		if f.Type.Size == 0 && i == len(t.Fields)-1 {
			// a trailing zero-size field makes Go pad the struct
			continue
		}
		if f.Offset > cur {
			fields = append(fields, jen.Id("_").Index(jen.Lit(f.Offset-cur)).Byte())
		}
		name := exportName(f.Name)
		if f.Name == "" {
			name = fmt.Sprintf("Anon%d", i)
		}
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%s%d", name, n+1)
		}
		seen[name]++

		typ := g.goType(f.Type)
		if (f.Type.Kind.IsScalar() || f.Type.Kind == model.CPointer) && f.Type.Size > 0 && f.Offset%min(f.Type.Size, 8) != 0 {
			// misaligned for Go
			typ = jen.Index(jen.Lit(f.Type.Size)).Byte()
		}
		fields = append(fields, jen.Id(name).Add(typ))
		cur = f.Offset + f.Type.Size
	}
	if t.Size > cur {
		fields = append(fields, jen.Id("_").Index(jen.Lit(t.Size-cur)).Byte())
	}
	return jen.Struct(fields...)
}

func intType(size int, unsigned bool) *jen.Statement {
	switch size {
	case 1:
		if unsigned {
			return jen.Uint8()
		}
		return jen.Int8()
	case 2:
		if unsigned {
			return jen.Uint16()
		}
		return jen.Int16()
	case 4:
		if unsigned {
			return jen.Uint32()
		}
		return jen.Int32()
	case 8:
		if unsigned {
			return jen.Uint64()
		}
		return jen.Int64()
	}
	return jen.Index(jen.Lit(size)).Byte()
}

// exportName turns a C identifier into an exported Go name:
// "point_t" -> "PointT", "RED_LIGHT" -> "RedLight".
func exportName(s string) string {
	var sb strings.Builder
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		if strings.ToUpper(part) == part {
			part = strings.ToLower(part)
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		sb.WriteString(string(r))
	}
	out := sb.String()
	if out == "" || !unicode.IsLetter([]rune(out)[0]) {
		out = "X" + out
	}
	return out
}
