package model

import (
	"fmt"
	"strings"
)

// CKind tags a materialized type.
type CKind int

const (
	CInvalid CKind = iota
	CVoid
	CChar
	CShort
	CInt
	CLong
	CLongLong
	CFloat
	CDouble
	CLongDouble
	CPointer
	CArray
	CFunction
	CStruct
	CUnion
	CEnum
)

var cKindNames = [...]string{
	CInvalid:    "invalid",
	CVoid:       "void",
	CChar:       "char",
	CShort:      "short",
	CInt:        "int",
	CLong:       "long",
	CLongLong:   "long long",
	CFloat:      "float",
	CDouble:     "double",
	CLongDouble: "long double",
	CPointer:    "pointer",
	CArray:      "array",
	CFunction:   "function",
	CStruct:     "struct",
	CUnion:      "union",
	CEnum:       "enum",
}

func (k CKind) String() string {
	if k >= 0 && int(k) < len(cKindNames) {
		return cKindNames[k]
	}
	return "invalid"
}

// IsInteger reports whether k is an integer scalar kind.
func (k CKind) IsInteger() bool {
	return k >= CChar && k <= CLongLong
}

// IsScalar reports whether k is an arithmetic kind.
func (k CKind) IsScalar() bool {
	return k >= CChar && k <= CLongDouble
}

// CTypeInfo is a materialized type with computed size and alignment. Each
// composite exclusively owns its components.
type CTypeInfo struct {
	// Identity ------------------------------------------------------------
	Kind       CKind
	Name       string // struct/union/enum tag
	Unsigned   bool
	Qualifiers Qualifiers

	// Layout --------------------------------------------------------------
	Size  int
	Align int

	// Structure -----------------------------------------------------------
	Base        *CTypeInfo // pointee, element or return type
	Length      int        // Array, valid when LengthKnown
	LengthKnown bool
	Params      []*Param
	Variadic    bool
	Fields      []*Field    // Struct, Union
	Items       []*EnumItem // Enum
	Complete    bool
}

// Field is a laid-out struct or union member.
type Field struct {
	Name     string
	Type     *CTypeInfo
	Offset   int
	BitField bool
}

// Param is a function parameter.
type Param struct {
	Name string
	Type *CTypeInfo
}

// EnumItem is an enumerator with its resolved value.
type EnumItem struct {
	Name     string
	Value    int64
	HasValue bool
}

// FindField returns the member called name.
func (t *CTypeInfo) FindField(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FindItem returns the enumerator called name.
func (t *CTypeInfo) FindItem(name string) *EnumItem {
	for _, it := range t.Items {
		if it.Name == name {
			return it
		}
	}
	return nil
}

// IsRecord reports whether t is a struct or union.
func (t *CTypeInfo) IsRecord() bool {
	return t.Kind == CStruct || t.Kind == CUnion
}

// String renders t compactly: "*const char", "[4]int", "func(int, ...) int",
// "struct point".
func (t *CTypeInfo) String() string {
	if t == nil {
		return "<nil>"
	}
	var sb strings.Builder
	if q := t.Qualifiers.String(); q != "" {
		sb.WriteString(q)
		sb.WriteByte(' ')
	}
	switch t.Kind {
	case CPointer:
		sb.WriteString("*")
		sb.WriteString(t.Base.String())
	case CArray:
		if t.LengthKnown {
			fmt.Fprintf(&sb, "[%d]", t.Length)
		} else {
			sb.WriteString("[]")
		}
		sb.WriteString(t.Base.String())
	case CFunction:
		params := make([]string, 0, len(t.Params)+1)
		for _, p := range t.Params {
			params = append(params, p.Type.String())
		}
		if t.Variadic {
			params = append(params, "...")
		}
		fmt.Fprintf(&sb, "func(%s) %s", strings.Join(params, ", "), t.Base.String())
	case CStruct, CUnion, CEnum:
		name := t.Name
		if name == "" {
			name = "<anonymous>"
		}
		sb.WriteString(t.Kind.String() + " " + name)
	default:
		if t.Unsigned {
			sb.WriteString("unsigned ")
		}
		sb.WriteString(t.Kind.String())
	}
	return sb.String()
}
