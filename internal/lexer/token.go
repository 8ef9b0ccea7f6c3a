package lexer

import (
	"fmt"
	"strings"
)

// Kind classifies a token.
type Kind int

const (
	Identifier Kind = iota
	Number
	Character
	String

	// operators
	Not
	Tilde
	And
	Or
	Xor
	LeftShift
	RightShift
	Plus
	Minus
	Star
	Div
	Mod
	Assign
	Less
	Greater
	Equal
	NotEqual
	LessEqual
	GreaterEqual
	AndAnd
	OrOr
	AndAssign
	OrAssign
	XorAssign
	LeftShiftAssign
	RightShiftAssign
	PlusAssign
	MinusAssign
	MulAssign
	DivAssign
	ModAssign
	Inc
	Dec

	Preprocessor
	Backslash

	// punctuators
	LeftParen
	RightParen
	LeftBracket
	RightBracket
	LeftBrace
	RightBrace
	Comma
	Colon
	Semicolon
	Dot
	Arrow
	Question
	Ellipsis

	// keywords
	Extern
	Static
	Inline
	Noreturn
	Register
	Restrict
	Volatile
	Const
	Auto
	Void
	Signed
	Unsigned
	Char
	Short
	Int
	Long
	Float
	Double
	Do
	While
	For
	Continue
	Break
	If
	Else
	Switch
	Case
	Default
	Return
	Goto
	Enum
	Sizeof
	Struct
	Typedef
	Union

	EOF
	Unknown
)

var kindNames = [...]string{
	Identifier:       "IDENTIFIER",
	Number:           "NUMBER",
	Character:        "CHARACTER",
	String:           "STRING",
	Not:              "NOT",
	Tilde:            "TILDE",
	And:              "AND",
	Or:               "OR",
	Xor:              "XOR",
	LeftShift:        "LEFT_SHIFT",
	RightShift:       "RIGHT_SHIFT",
	Plus:             "PLUS",
	Minus:            "MINUS",
	Star:             "STAR",
	Div:              "DIV",
	Mod:              "MOD",
	Assign:           "ASSIGN",
	Less:             "LESS",
	Greater:          "GREATER",
	Equal:            "EQUAL",
	NotEqual:         "NOT_EQUAL",
	LessEqual:        "LESS_EQUAL",
	GreaterEqual:     "GREATER_EQUAL",
	AndAnd:           "AND_AND",
	OrOr:             "OR_OR",
	AndAssign:        "AND_ASSIGN",
	OrAssign:         "OR_ASSIGN",
	XorAssign:        "XOR_ASSIGN",
	LeftShiftAssign:  "LEFT_SHIFT_ASSIGN",
	RightShiftAssign: "RIGHT_SHIFT_ASSIGN",
	PlusAssign:       "PLUS_ASSIGN",
	MinusAssign:      "MINUS_ASSIGN",
	MulAssign:        "MUL_ASSIGN",
	DivAssign:        "DIV_ASSIGN",
	ModAssign:        "MOD_ASSIGN",
	Inc:              "INC",
	Dec:              "DEC",
	Preprocessor:     "PREPROCESSOR",
	Backslash:        "BACKSLASH",
	LeftParen:        "LEFT_PAREN",
	RightParen:       "RIGHT_PAREN",
	LeftBracket:      "LEFT_BRACKET",
	RightBracket:     "RIGHT_BRACKET",
	LeftBrace:        "LEFT_BRACE",
	RightBrace:       "RIGHT_BRACE",
	Comma:            "COMMA",
	Colon:            "COLON",
	Semicolon:        "SEMICOLON",
	Dot:              "DOT",
	Arrow:            "ARROW",
	Question:         "QUESTION",
	Ellipsis:         "ELLIPSIS",
	Extern:           "EXTERN",
	Static:           "STATIC",
	Inline:           "INLINE",
	Noreturn:         "NORETURN",
	Register:         "REGISTER",
	Restrict:         "RESTRICT",
	Volatile:         "VOLATILE",
	Const:            "CONST",
	Auto:             "AUTO",
	Void:             "VOID",
	Signed:           "SIGNED",
	Unsigned:         "UNSIGNED",
	Char:             "CHAR",
	Short:            "SHORT",
	Int:              "INT",
	Long:             "LONG",
	Float:            "FLOAT",
	Double:           "DOUBLE",
	Do:               "DO",
	While:            "WHILE",
	For:              "FOR",
	Continue:         "CONTINUE",
	Break:            "BREAK",
	If:               "IF",
	Else:             "ELSE",
	Switch:           "SWITCH",
	Case:             "CASE",
	Default:          "DEFAULT",
	Return:           "RETURN",
	Goto:             "GOTO",
	Enum:             "ENUM",
	Sizeof:           "SIZEOF",
	Struct:           "STRUCT",
	Typedef:          "TYPEDEF",
	Union:            "UNION",
	EOF:              "EOF",
	Unknown:          "UNKNOWN",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool {
	return k >= Extern && k <= Union
}

// keywords maps reserved spellings to their kind.
var keywords = map[string]Kind{
	"extern":    Extern,
	"static":    Static,
	"inline":    Inline,
	"_Noreturn": Noreturn,
	"register":  Register,
	"restrict":  Restrict,
	"volatile":  Volatile,
	"const":     Const,
	"auto":      Auto,
	"void":      Void,
	"signed":    Signed,
	"unsigned":  Unsigned,
	"char":      Char,
	"short":     Short,
	"int":       Int,
	"long":      Long,
	"float":     Float,
	"double":    Double,
	"do":        Do,
	"while":     While,
	"for":       For,
	"continue":  Continue,
	"break":     Break,
	"if":        If,
	"else":      Else,
	"switch":    Switch,
	"case":      Case,
	"default":   Default,
	"return":    Return,
	"goto":      Goto,
	"enum":      Enum,
	"sizeof":    Sizeof,
	"struct":    Struct,
	"typedef":   Typedef,
	"union":     Union,
}

// operator is one entry of the punctuation table.
type operator struct {
	text string
	kind Kind
}

// operators is scanned in full for every punctuation token; the longest
// matching entry wins, so order is irrelevant.
var operators = []operator{
	{"!", Not},
	{"~", Tilde},
	{"&", And},
	{"|", Or},
	{"^", Xor},
	{"<<", LeftShift},
	{">>", RightShift},
	{"+", Plus},
	{"-", Minus},
	{"*", Star},
	{"/", Div},
	{"%", Mod},
	{"=", Assign},
	{"<", Less},
	{">", Greater},
	{"==", Equal},
	{"!=", NotEqual},
	{"<=", LessEqual},
	{">=", GreaterEqual},
	{"&&", AndAnd},
	{"||", OrOr},
	{"&=", AndAssign},
	{"|=", OrAssign},
	{"^=", XorAssign},
	{"<<=", LeftShiftAssign},
	{">>=", RightShiftAssign},
	{"+=", PlusAssign},
	{"-=", MinusAssign},
	{"*=", MulAssign},
	{"/=", DivAssign},
	{"%=", ModAssign},
	{"++", Inc},
	{"--", Dec},
	{"\\", Backslash},
	{"(", LeftParen},
	{")", RightParen},
	{"[", LeftBracket},
	{"]", RightBracket},
	{"{", LeftBrace},
	{"}", RightBrace},
	{",", Comma},
	{":", Colon},
	{";", Semicolon},
	{".", Dot},
	{"->", Arrow},
	{"?", Question},
	{"...", Ellipsis},
}

// Operators returns a copy of the punctuation table as text→kind pairs.
func Operators() map[string]Kind {
	out := make(map[string]Kind, len(operators))
	for _, op := range operators {
		out[op.text] = op.kind
	}
	return out
}

// Pos is a 1-based source position.
type Pos struct {
	Line int `yaml:"line" json:"line"`
	Col  int `yaml:"col" json:"col"`
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is a classified lexeme. Text references the tokenizer's source
// string until Clone is called.
type Token struct {
	Kind Kind
	Text string
	Pos  Pos

	// Continued is set on preprocessor lines spliced with backslash-newline.
	Continued bool
}

// Clone returns a copy of t that no longer shares memory with the source.
func (t Token) Clone() Token {
	t.Text = strings.Clone(t.Text)
	return t
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Pos, t.Kind, t.Text)
}

// Is reports whether t is one of kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}
