package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFlagStrings(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"storage", StorageStatic.With(StorageTypedef).String(), "static typedef"},
		{"qualifiers", QualConst.With(QualRestrict).String(), "const restrict"},
		{"funcspec", FuncInline.With(FuncNoreturn).String(), "inline _Noreturn"},
		{"long", Modifiers(0).AddLong().String(), "long"},
		{"long long", Modifiers(0).AddLong().AddLong().With(ModUnsigned).String(), "unsigned long long"},
		{"empty", Storage(0).String(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.got)
		})
	}
}

func TestLongLongIsNotLong(t *testing.T) {
	t.Parallel()
	m := Modifiers(0).AddLong()
	require.True(t, m.IsLong())
	m = m.AddLong()
	require.False(t, m.IsLong())
	require.True(t, m.IsLongLong())
}

func TestChainSkipsGroups(t *testing.T) {
	t.Parallel()
	// (*fp)(int)
	d := &Declarator{
		Kind: DeclFunction,
		Inner: &Declarator{
			Kind: DeclGroup,
			Inner: &Declarator{
				Kind:  DeclPointer,
				Inner: &Declarator{Kind: DeclIdent, Name: "fp"},
			},
		},
	}
	require.Equal(t, "fp", d.Ident())
	if diff := cmp.Diff([]DeclaratorKind{DeclPointer, DeclFunction}, d.Chain()); diff != "" {
		t.Errorf("Chain() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompleteOnce(t *testing.T) {
	t.Parallel()
	r := &DeclRecordType{Name: "s"}
	require.False(t, r.IsComplete())
	require.NoError(t, r.Complete(nil))
	require.True(t, r.IsComplete())
	require.ErrorIs(t, r.Complete(nil), ErrAlreadyComplete)

	e := &DeclEnumType{Name: "e"}
	require.NoError(t, e.Complete([]*DeclEnumItem{{Name: "A"}}))
	require.ErrorIs(t, e.Complete(nil), ErrAlreadyComplete)
	require.Len(t, e.Items, 1)
}
