package lexer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// kinds drops the trailing EOF and returns only token kinds.
func kinds(toks []Token) []Kind {
	out := make([]Kind, 0, len(toks))
	for _, tk := range toks {
		if tk.Kind == EOF {
			break
		}
		out = append(out, tk.Kind)
	}
	return out
}

func texts(toks []Token) []string {
	out := make([]string, 0, len(toks))
	for _, tk := range toks {
		if tk.Kind == EOF {
			break
		}
		out = append(out, tk.Text)
	}
	return out
}

func TestTokenize(ttt *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantKinds []Kind
		wantTexts []string
	}{
		{
			name:      "declaration",
			src:       "unsigned long long d;",
			wantKinds: []Kind{Unsigned, Long, Long, Identifier, Semicolon},
			wantTexts: []string{"unsigned", "long", "long", "d", ";"},
		},
		{
			name:      "keyword boundary",
			src:       "intx interface int",
			wantKinds: []Kind{Identifier, Identifier, Int},
			wantTexts: []string{"intx", "interface", "int"},
		},
		{
			name:      "numbers",
			src:       "42 3.14 7. 1.2.3",
			wantKinds: []Kind{Number, Number, Number, Number, Dot, Number},
			wantTexts: []string{"42", "3.14", "7.", "1.2", ".", "3"},
		},
		{
			name:      "char and string literals",
			src:       `'a' '\'' "he said \"hi\"" "tab\t"`,
			wantKinds: []Kind{Character, Character, String, String},
			wantTexts: []string{`'a'`, `'\''`, `"he said \"hi\""`, `"tab\t"`},
		},
		{
			name:      "unterminated string stops at newline",
			src:       "\"abc\nx",
			wantKinds: []Kind{String, Identifier},
			wantTexts: []string{`"abc`, "x"},
		},
		{
			name:      "unterminated char at eof",
			src:       "'a",
			wantKinds: []Kind{Character},
			wantTexts: []string{"'a"},
		},
		{
			name:      "comments are skipped",
			src:       "a // line\n/* block\n */ b /* tail",
			wantKinds: []Kind{Identifier, Identifier},
			wantTexts: []string{"a", "b"},
		},
		{
			name:      "line comment at eof",
			src:       "a //",
			wantKinds: []Kind{Identifier},
			wantTexts: []string{"a"},
		},
		{
			name:      "maximal munch",
			src:       "a<<=b>>c->d...e++",
			wantKinds: []Kind{Identifier, LeftShiftAssign, Identifier, RightShift, Identifier, Arrow, Identifier, Ellipsis, Identifier, Inc},
			wantTexts: []string{"a", "<<=", "b", ">>", "c", "->", "d", "...", "e", "++"},
		},
		{
			name:      "two dots are two tokens",
			src:       "..",
			wantKinds: []Kind{Dot, Dot},
			wantTexts: []string{".", "."},
		},
		{
			name:      "unknown characters advance",
			src:       "@$`é",
			wantKinds: []Kind{Unknown, Unknown, Unknown, Unknown},
			wantTexts: []string{"@", "$", "`", "é"},
		},
		{
			name:      "nul terminates input",
			src:       "a\x00b",
			wantKinds: []Kind{Identifier},
			wantTexts: []string{"a"},
		},
		{
			name:      "noreturn specifier",
			src:       "_Noreturn void f(void);",
			wantKinds: []Kind{Noreturn, Void, Identifier, LeftParen, Void, RightParen, Semicolon},
			wantTexts: []string{"_Noreturn", "void", "f", "(", "void", ")", ";"},
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Tokenize(tt.src)
			require.Equal(t, EOF, got[len(got)-1].Kind)
			if diff := cmp.Diff(tt.wantKinds, kinds(got)); diff != "" {
				t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
			}
			require.Equal(t, tt.wantTexts, texts(got))
		})
	}
}

func TestMaximalMunch(t *testing.T) {
	t.Parallel()
	for text, kind := range Operators() {
		got := Tokenize(text)
		require.Lenf(t, got, 2, "operator %q split into %v", text, got)
		require.Equalf(t, kind, got[0].Kind, "operator %q", text)
		require.Equal(t, text, got[0].Text)
	}
}

func TestPositions(t *testing.T) {
	t.Parallel()
	got := Tokenize("int a;\r\n  char\tb;\n\nx")
	want := []Pos{
		{1, 1}, {1, 5}, {1, 6},
		{2, 3}, {2, 8}, {2, 9},
		{4, 1},
		{4, 2},
	}
	gotPos := make([]Pos, 0, len(got))
	for _, tk := range got {
		gotPos = append(gotPos, tk.Pos)
	}
	require.Equal(t, want, gotPos)
}

func TestPreprocessorLine(ttt *testing.T) {
	tests := []struct {
		name          string
		src           string
		wantText      string
		wantContinued bool
		wantNext      Pos
	}{
		{
			name:     "simple include",
			src:      "#include <stdio.h>   \nint",
			wantText: "#include <stdio.h>",
			wantNext: Pos{2, 1},
		},
		{
			name:          "spliced define",
			src:           "#define MAX(a, b) \\\n  ((a) > (b))\nint",
			wantText:      "#define MAX(a, b) \\\n  ((a) > (b))",
			wantContinued: true,
			wantNext:      Pos{3, 1},
		},
		{
			name:          "crlf splice",
			src:           "#define X \\\r\n 1\r\nint",
			wantText:      "#define X \\\r\n 1",
			wantContinued: true,
			wantNext:      Pos{3, 1},
		},
		{
			name:     "at eof",
			src:      "#endif",
			wantText: "#endif",
			wantNext: Pos{1, 7},
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tk := New(tt.src)
			pp := tk.Next()
			require.Equal(t, Preprocessor, pp.Kind)
			require.Equal(t, tt.wantText, pp.Text)
			require.Equal(t, tt.wantContinued, pp.Continued)
			next := tk.Next()
			require.Equal(t, tt.wantNext, next.Pos)
		})
	}
}

func TestEOFIsIdempotent(t *testing.T) {
	t.Parallel()
	tk := New("x /* trailing")
	require.Equal(t, Identifier, tk.Next().Kind)
	first := tk.Next()
	require.Equal(t, EOF, first.Kind)
	for i := 0; i < 3; i++ {
		require.Equal(t, first, tk.Next())
	}
}

func TestForwardProgress(t *testing.T) {
	t.Parallel()
	// every byte value either forms part of a token or is skipped
	var sb strings.Builder
	for c := 1; c < 128; c++ {
		sb.WriteByte(byte(c))
	}
	toks := Tokenize(sb.String())
	require.Equal(t, EOF, toks[len(toks)-1].Kind)
	require.Less(t, len(toks), 128)
}

func TestTokenClone(t *testing.T) {
	t.Parallel()
	src := []byte("hello")
	tok := Tokenize(string(src))[0].Clone()
	require.Equal(t, "hello", tok.Text)
	require.Equal(t, "1:1 IDENTIFIER \"hello\"", tok.String())
}

func TestKindString(t *testing.T) {
	t.Parallel()
	require.Equal(t, "LEFT_SHIFT_ASSIGN", LeftShiftAssign.String())
	require.Equal(t, "PREPROCESSOR", Preprocessor.String())
	require.Equal(t, fmt.Sprintf("Kind(%d)", 999), Kind(999).String())
	require.True(t, Typedef.IsKeyword())
	require.False(t, Identifier.IsKeyword())
}
