package model

import "strings"

// Storage is a bit set of storage-class specifiers.
type Storage uint8

const (
	StorageExtern Storage = 1 << iota
	StorageStatic
	StorageRegister
	StorageTypedef
	StorageAuto
)

func (s Storage) Has(f Storage) bool     { return s&f != 0 }
func (s Storage) With(f Storage) Storage { return s | f }
func (s Storage) IsTypedef() bool        { return s.Has(StorageTypedef) }
func (s Storage) IsExtern() bool         { return s.Has(StorageExtern) }
func (s Storage) IsStatic() bool         { return s.Has(StorageStatic) }

func (s Storage) String() string {
	return flagString(uint(s), []string{"extern", "static", "register", "typedef", "auto"})
}

// FuncSpec is a bit set of function specifiers.
type FuncSpec uint8

const (
	FuncInline FuncSpec = 1 << iota
	FuncNoreturn
)

func (f FuncSpec) Has(g FuncSpec) bool      { return f&g != 0 }
func (f FuncSpec) With(g FuncSpec) FuncSpec { return f | g }
func (f FuncSpec) IsInline() bool           { return f.Has(FuncInline) }
func (f FuncSpec) IsNoreturn() bool         { return f.Has(FuncNoreturn) }

func (f FuncSpec) String() string {
	return flagString(uint(f), []string{"inline", "_Noreturn"})
}

// Qualifiers is a bit set of type qualifiers.
type Qualifiers uint8

const (
	QualConst Qualifiers = 1 << iota
	QualVolatile
	QualRestrict
)

func (q Qualifiers) Has(f Qualifiers) bool        { return q&f != 0 }
func (q Qualifiers) With(f Qualifiers) Qualifiers { return q | f }
func (q Qualifiers) IsConst() bool                { return q.Has(QualConst) }
func (q Qualifiers) IsVolatile() bool             { return q.Has(QualVolatile) }
func (q Qualifiers) IsRestrict() bool             { return q.Has(QualRestrict) }

func (q Qualifiers) String() string {
	return flagString(uint(q), []string{"const", "volatile", "restrict"})
}

// Modifiers is a bit set of signedness and size modifiers. A second "long"
// sets ModLongLong.
type Modifiers uint8

const (
	ModSigned Modifiers = 1 << iota
	ModUnsigned
	ModShort
	ModLong
	ModLongLong
)

func (m Modifiers) Has(f Modifiers) bool       { return m&f != 0 }
func (m Modifiers) With(f Modifiers) Modifiers { return m | f }
func (m Modifiers) IsUnsigned() bool           { return m.Has(ModUnsigned) }
func (m Modifiers) IsShort() bool              { return m.Has(ModShort) }
func (m Modifiers) IsLong() bool               { return m.Has(ModLong) && !m.Has(ModLongLong) }
func (m Modifiers) IsLongLong() bool           { return m.Has(ModLongLong) }

// AddLong records one "long" keyword.
func (m Modifiers) AddLong() Modifiers {
	if m.Has(ModLong) {
		return m | ModLongLong
	}
	return m | ModLong
}

func (m Modifiers) String() string {
	var parts []string
	if m.Has(ModSigned) {
		parts = append(parts, "signed")
	}
	if m.Has(ModUnsigned) {
		parts = append(parts, "unsigned")
	}
	if m.Has(ModShort) {
		parts = append(parts, "short")
	}
	switch {
	case m.Has(ModLongLong):
		parts = append(parts, "long long")
	case m.Has(ModLong):
		parts = append(parts, "long")
	}
	return strings.Join(parts, " ")
}

func flagString(v uint, names []string) string {
	var parts []string
	for i, n := range names {
		if v&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, " ")
}

// BuiltinType is the base keyword type of a specifier.
type BuiltinType int

const (
	BuiltinNone BuiltinType = iota
	BuiltinVoid
	BuiltinChar
	BuiltinInt
	BuiltinFloat
	BuiltinDouble
)

func (b BuiltinType) String() string {
	switch b {
	case BuiltinVoid:
		return "void"
	case BuiltinChar:
		return "char"
	case BuiltinInt:
		return "int"
	case BuiltinFloat:
		return "float"
	case BuiltinDouble:
		return "double"
	}
	return ""
}

// SUEKind selects struct, union or enum.
type SUEKind int

const (
	SUENone SUEKind = iota
	SUEStruct
	SUEUnion
	SUEEnum
)

func (k SUEKind) String() string {
	switch k {
	case SUEStruct:
		return "struct"
	case SUEUnion:
		return "union"
	case SUEEnum:
		return "enum"
	}
	return ""
}
