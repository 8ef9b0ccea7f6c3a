package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/cdecl/internal/layout"
	"github.com/cmmoran/cdecl/internal/model"
)

func buildSource(t *testing.T, platform layout.Platform, src string, typedefs ...string) ([]*Entry, error) {
	t.Helper()
	units, err := parseSource(t, New(NewResolver(typedefs...)), src)
	require.NoError(t, err)
	return NewBuilder(layout.New(platform)).BuildAll(units)
}

func entryByName(t *testing.T, entries []*Entry, name string) *Entry {
	t.Helper()
	for _, e := range entries {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("no entry %q", name)
	return nil
}

func fieldOffsets(t *model.CTypeInfo) map[string]int {
	out := make(map[string]int, len(t.Fields))
	for _, f := range t.Fields {
		out[f.Name] = f.Offset
	}
	return out
}

func TestBuildRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		platform layout.Platform
		src      string
		tag      string
		size     int
		align    int
		offsets  map[string]int
	}{
		{
			name:     "char then int",
			platform: layout.LP64,
			src:      "struct s { char c; int i; };",
			tag:      "s",
			size:     8, align: 4,
			offsets: map[string]int{"c": 0, "i": 4},
		},
		{
			name:     "double between chars",
			platform: layout.LP64,
			src:      "struct s { char a; double d; char b; };",
			tag:      "s",
			size:     24, align: 8,
			offsets: map[string]int{"a": 0, "d": 8, "b": 16},
		},
		{
			name:     "double on ilp32",
			platform: layout.ILP32,
			src:      "struct s { char c; double d; };",
			tag:      "s",
			size:     12, align: 4,
			offsets: map[string]int{"c": 0, "d": 4},
		},
		{
			name:     "union",
			platform: layout.LP64,
			src:      "union u { char c; int i; double d; };",
			tag:      "u",
			size:     8, align: 8,
			offsets: map[string]int{"c": 0, "i": 0, "d": 0},
		},
		{
			name:     "nested struct and array",
			platform: layout.LP64,
			src:      "struct in { short s; char c; }; struct out { char tag; struct in body[3]; long n; };",
			tag:      "out",
			size:     24, align: 8,
			offsets: map[string]int{"tag": 0, "body": 2, "n": 16},
		},
		{
			name:     "flexible array member",
			platform: layout.LP64,
			src:      "struct msg { int len; char data[]; };",
			tag:      "msg",
			size:     4, align: 4,
			offsets: map[string]int{"len": 0, "data": 4},
		},
		{
			name:     "self reference",
			platform: layout.LP64,
			src:      "struct node { int v; struct node *next; };",
			tag:      "node",
			size:     16, align: 8,
			offsets: map[string]int{"v": 0, "next": 8},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			entries, err := buildSource(t, tc.platform, tc.src)
			require.NoError(t, err)
			e := entryByName(t, entries, tc.tag)
			require.Equal(t, EntryTag, e.Kind)
			require.True(t, e.Type.Complete)
			require.Equal(t, tc.size, e.Type.Size)
			require.Equal(t, tc.align, e.Type.Align)
			if diff := cmp.Diff(tc.offsets, fieldOffsets(e.Type)); diff != "" {
				t.Fatalf("offsets mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelfReferenceIsIncompleteShell(t *testing.T) {
	t.Parallel()
	entries, err := buildSource(t, layout.LP64, "struct node { int v; struct node *next; };")
	require.NoError(t, err)
	next := entryByName(t, entries, "node").Type.FindField("next")
	require.NotNil(t, next)
	require.Equal(t, "*struct node", next.Type.String())
	require.False(t, next.Type.Base.Complete)
}

func TestBuildEnum(t *testing.T) {
	t.Parallel()
	entries, err := buildSource(t, layout.LP64, "enum e { A, B = 5, C, D = -2, E, F = 'a', G = (B), H };")
	require.NoError(t, err)
	e := entryByName(t, entries, "e")
	require.Equal(t, 4, e.Type.Size)

	got := map[string]int64{}
	for _, it := range e.Type.Items {
		got[it.Name] = it.Value
	}
	want := map[string]int64{"A": 0, "B": 5, "C": 6, "D": -2, "E": -1, "F": 97, "G": 5, "H": 6}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("enumerators mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildEnumCharAndOctal(t *testing.T) {
	t.Parallel()
	entries, err := buildSource(t, layout.LP64, `enum ch { NUL = '\0', BEL = '\a', A = 'a', O = 010, X = '\x41', Q = '\'' };`)
	require.NoError(t, err)

	got := map[string]int64{}
	for _, it := range entryByName(t, entries, "ch").Type.Items {
		got[it.Name] = it.Value
	}
	want := map[string]int64{"NUL": 0, "BEL": 7, "A": 97, "O": 8, "X": 65, "Q": 39}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("enumerators mismatch (-want +got):\n%s", diff)
	}
}

func TestOctalArrayLength(t *testing.T) {
	t.Parallel()
	entries, err := buildSource(t, layout.LP64, "struct s { char b[010]; };")
	require.NoError(t, err)
	require.Equal(t, 8, entryByName(t, entries, "s").Type.Size)
}

func TestBuildEnumNotConstant(t *testing.T) {
	t.Parallel()
	_, err := buildSource(t, layout.LP64, "enum e { A = f(1) }; int ok;")
	require.ErrorIs(t, err, ErrNotConstant)
}

func TestBuildAllKeepsGoing(t *testing.T) {
	t.Parallel()
	entries, err := buildSource(t, layout.LP64, "struct bits { int a : 1; }; int after;")
	require.ErrorIs(t, err, layout.ErrBitField)
	require.Equal(t, EntryObject, entryByName(t, entries, "after").Kind)
}

func TestBuildTypedefsAndObjects(t *testing.T) {
	t.Parallel()
	src := `
typedef struct point { int x, y; } point_t;
typedef point_t *point_ptr;
point_t origin;
const int limit;
int add(int a, int b);
int table[10];
char buf[];
long double ld;
FILE *fp;
`
	entries, err := buildSource(t, layout.LP64, src, "FILE")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	require.Equal(t, []string{"point", "point_t", "point_ptr", "origin", "limit", "add", "table", "buf", "ld", "fp"}, names)

	tests := []struct {
		name  string
		kind  EntryKind
		typ   string
		size  int
		align int
	}{
		{"point", EntryTag, "struct point", 8, 4},
		{"point_t", EntryTypedef, "struct point", 8, 4},
		{"point_ptr", EntryTypedef, "*struct point", 8, 8},
		{"origin", EntryObject, "struct point", 8, 4},
		{"limit", EntryObject, "const int", 4, 4},
		{"add", EntryFunction, "func(int, int) int", 0, 0},
		{"table", EntryObject, "[10]int", 40, 4},
		{"buf", EntryObject, "[]char", 0, 1},
		{"ld", EntryObject, "long double", 16, 16},
		{"fp", EntryObject, "*struct FILE", 8, 8},
	}
	for _, tc := range tests {
		e := entryByName(t, entries, tc.name)
		require.Equal(t, tc.kind, e.Kind, tc.name)
		require.Equal(t, tc.typ, e.Type.String(), tc.name)
		require.Equal(t, tc.size, e.Type.Size, tc.name)
		require.Equal(t, tc.align, e.Type.Align, tc.name)
	}
}

func TestToTypeLayouts(t *testing.T) {
	t.Parallel()
	entries, err := buildSource(t, layout.LP64, "typedef struct { char c; int i; } pair_t; enum { ZERO, ONE } flag;")
	require.NoError(t, err)

	got := ToTypeLayouts(entries)
	want := []model.TypeLayout{
		{
			Name: "pair_t", Kind: "typedef", Type: "struct <anonymous>", Size: 8, Align: 4,
			Fields: []model.FieldLayout{
				{Name: "c", Type: "char", Offset: 0, Size: 1, Align: 1},
				{Name: "i", Type: "int", Offset: 4, Size: 4, Align: 4},
			},
		},
		{Name: "flag", Kind: "object", Type: "enum <anonymous>", Size: 4, Align: 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("layouts mismatch (-want +got):\n%s", diff)
	}
}
