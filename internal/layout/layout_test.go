package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/cdecl/internal/model"
)

func field(name string, t *model.CTypeInfo) *model.Field {
	return &model.Field{Name: name, Type: t}
}

func offsets(fields []*model.Field) map[string]int {
	out := make(map[string]int, len(fields))
	for _, f := range fields {
		out[f.Name] = f.Offset
	}
	return out
}

func TestAlignUp(ttt *testing.T) {
	tests := []struct {
		x, align, want int
	}{
		{0, 1, 0},
		{0, 8, 0},
		{1, 4, 4},
		{4, 4, 4},
		{5, 8, 8},
		{9, 8, 16},
		{13, 2, 14},
	}
	for _, tt := range tests {
		require.Equalf(ttt, tt.want, AlignUp(tt.x, tt.align), "AlignUp(%d, %d)", tt.x, tt.align)
	}
	require.True(ttt, IsPowerOfTwo(1))
	require.True(ttt, IsPowerOfTwo(16))
	require.False(ttt, IsPowerOfTwo(0))
	require.False(ttt, IsPowerOfTwo(12))
}

func TestCompleteStruct(ttt *testing.T) {
	e := New(LP64)
	tests := []struct {
		name        string
		fields      func() []*model.Field
		wantOffsets map[string]int
		wantSize    int
		wantAlign   int
		wantErr     error
	}{
		{
			name: "char then int",
			fields: func() []*model.Field {
				return []*model.Field{field("c", e.MakeScalar(model.CChar, false)), field("i", e.MakeScalar(model.CInt, false))}
			},
			wantOffsets: map[string]int{"c": 0, "i": 4},
			wantSize:    8,
			wantAlign:   4,
		},
		{
			name: "trailing padding",
			fields: func() []*model.Field {
				return []*model.Field{
					field("p", e.MakePointer(e.MakeScalar(model.CChar, false))),
					field("c", e.MakeScalar(model.CChar, false)),
				}
			},
			wantOffsets: map[string]int{"p": 0, "c": 8},
			wantSize:    16,
			wantAlign:   8,
		},
		{
			name: "array members",
			fields: func() []*model.Field {
				return []*model.Field{
					field("s", e.MakeScalar(model.CShort, false)),
					field("buf", e.MakeArray(e.MakeScalar(model.CChar, false), 3, true)),
					field("d", e.MakeScalar(model.CDouble, false)),
				}
			},
			wantOffsets: map[string]int{"s": 0, "buf": 2, "d": 8},
			wantSize:    16,
			wantAlign:   8,
		},
		{
			name:        "empty",
			fields:      func() []*model.Field { return nil },
			wantOffsets: map[string]int{},
			wantSize:    0,
			wantAlign:   1,
		},
		{
			name: "flexible array member",
			fields: func() []*model.Field {
				return []*model.Field{
					field("n", e.MakeScalar(model.CInt, false)),
					field("data", e.MakeArray(e.MakeScalar(model.CLong, false), 0, false)),
				}
			},
			wantOffsets: map[string]int{"n": 0, "data": 8},
			wantSize:    8,
			wantAlign:   8,
		},
		{
			name: "flexible array must be last",
			fields: func() []*model.Field {
				return []*model.Field{
					field("data", e.MakeArray(e.MakeScalar(model.CLong, false), 0, false)),
					field("n", e.MakeScalar(model.CInt, false)),
				}
			},
			wantErr: ErrIncompleteField,
		},
		{
			name: "incomplete member",
			fields: func() []*model.Field {
				return []*model.Field{field("s", e.MakeStruct("later"))}
			},
			wantErr: ErrIncompleteField,
		},
		{
			name: "void member",
			fields: func() []*model.Field {
				return []*model.Field{field("v", e.MakeVoid())}
			},
			wantErr: ErrIncompleteField,
		},
		{
			name: "bit-field member",
			fields: func() []*model.Field {
				return []*model.Field{{Name: "b", Type: e.MakeScalar(model.CInt, true), BitField: true}}
			},
			wantErr: ErrBitField,
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			st := e.MakeStruct("s")
			fields := tt.fields()
			err := e.CompleteStruct(st, fields)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.False(t, st.Complete)
				require.Equal(t, 0, st.Size)
				require.Equal(t, 1, st.Align)
				return
			}
			require.NoError(t, err)
			require.True(t, st.Complete)
			require.Equal(t, tt.wantOffsets, offsets(st.Fields))
			require.Equal(t, tt.wantSize, st.Size)
			require.Equal(t, tt.wantAlign, st.Align)
		})
	}
}

func TestCompleteTwice(t *testing.T) {
	t.Parallel()
	e := New(LP64)
	st := e.MakeStruct("pair")
	require.NoError(t, e.CompleteStruct(st, []*model.Field{
		field("c", e.MakeScalar(model.CChar, false)),
		field("i", e.MakeScalar(model.CInt, false)),
	}))

	err := e.CompleteStruct(st, []*model.Field{field("d", e.MakeScalar(model.CDouble, false))})
	require.ErrorIs(t, err, ErrAlreadyComplete)
	require.Equal(t, 8, st.Size)
	require.Equal(t, 4, st.Align)
	require.Equal(t, map[string]int{"c": 0, "i": 4}, offsets(st.Fields))

	un := e.MakeUnion("u")
	require.NoError(t, e.CompleteUnion(un, nil))
	require.ErrorIs(t, e.CompleteUnion(un, nil), ErrAlreadyComplete)

	en := e.MakeEnum("e")
	require.NoError(t, e.CompleteEnum(en, nil))
	require.ErrorIs(t, e.CompleteEnum(en, nil), ErrAlreadyComplete)
}

func TestKindMismatch(t *testing.T) {
	t.Parallel()
	e := New(LP64)
	require.ErrorIs(t, e.CompleteUnion(e.MakeStruct("s"), nil), ErrKindMismatch)
	require.ErrorIs(t, e.CompleteStruct(e.MakeEnum("e"), nil), ErrKindMismatch)
}

func TestCompleteUnion(t *testing.T) {
	t.Parallel()
	e := New(LP64)
	un := e.MakeUnion("")
	fields := []*model.Field{
		field("i", e.MakeScalar(model.CInt, false)),
		field("d", e.MakeScalar(model.CDouble, false)),
	}
	require.NoError(t, e.CompleteUnion(un, fields))
	require.Equal(t, map[string]int{"i": 0, "d": 0}, offsets(un.Fields))
	require.Equal(t, 8, un.Size)
	require.Equal(t, 8, un.Align)

	odd := e.MakeUnion("odd")
	require.NoError(t, e.CompleteUnion(odd, []*model.Field{
		field("b", e.MakeArray(e.MakeScalar(model.CChar, false), 5, true)),
		field("s", e.MakeScalar(model.CShort, false)),
	}))
	require.Equal(t, 6, odd.Size)
	require.Equal(t, 2, odd.Align)

	flex := e.MakeUnion("flex")
	err := e.CompleteUnion(flex, []*model.Field{field("a", e.MakeArray(e.MakeScalar(model.CInt, false), 0, false))})
	require.ErrorIs(t, err, ErrIncompleteField)
}

func TestCompleteEnum(t *testing.T) {
	t.Parallel()
	e := New(LP64)
	en := e.MakeEnum("")
	items := []*model.EnumItem{
		{Name: "ZERO"},
		{Name: "FIVE", Value: 5, HasValue: true},
		{Name: "SIX"},
		{Name: "NEG", Value: -2, HasValue: true},
		{Name: "NEGNEXT"},
	}
	require.NoError(t, e.CompleteEnum(en, items))
	got := make([]int64, 0, len(items))
	for _, it := range en.Items {
		got = append(got, it.Value)
	}
	require.Equal(t, []int64{0, 5, 6, -2, -1}, got)
	require.Equal(t, 4, en.Size)
	require.Equal(t, 4, en.Align)
}

func TestPlatforms(ttt *testing.T) {
	tests := []struct {
		name         string
		wantPtr      int
		wantLong     int
		wantLDouble  int
		wantDblAlign int
	}{
		{"", 8, 8, 16, 8},
		{"LP64", 8, 8, 16, 8},
		{"llp64", 8, 4, 8, 8},
		{"ilp32", 4, 4, 12, 4},
	}
	for _, tt := range tests {
		ttt.Run("platform "+tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := PlatformByName(tt.name)
			require.NoError(t, err)
			e := New(p)
			require.Equal(t, tt.wantPtr, e.MakePointer(e.MakeVoid()).Size)
			require.Equal(t, tt.wantLong, e.MakeScalar(model.CLong, false).Size)
			require.Equal(t, tt.wantLDouble, e.MakeScalar(model.CLongDouble, false).Size)
			require.Equal(t, tt.wantDblAlign, e.MakeScalar(model.CDouble, false).Align)
		})
	}
	_, err := PlatformByName("pdp11")
	require.ErrorIs(ttt, err, ErrUnknownPlatform)
	require.Equal(ttt, []string{"ilp32", "llp64", "lp64"}, PlatformNames())
}

func TestConstructors(t *testing.T) {
	t.Parallel()
	e := New(LP64)
	arr := e.MakeArray(e.MakePointer(e.MakeScalar(model.CInt, false)), 4, true)
	require.Equal(t, 32, arr.Size)
	require.Equal(t, 8, arr.Align)
	require.Equal(t, "[4]*int", arr.String())

	fn := e.MakeFunction(e.MakeVoid(), []*model.Param{{Name: "x", Type: e.MakeScalar(model.CChar, true)}}, true)
	require.Equal(t, 0, fn.Size)
	require.Equal(t, 0, fn.Align)
	require.Equal(t, "func(unsigned char, ...) void", fn.String())

	st := e.MakeStruct("")
	require.Equal(t, 0, st.Size)
	require.Equal(t, 1, st.Align)
	require.Equal(t, "struct <anonymous>", st.String())

	f := e.MakeScalar(model.CFloat, true)
	require.False(t, f.Unsigned)
}
