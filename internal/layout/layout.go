package layout

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"modernc.org/mathutil"

	"github.com/cmmoran/cdecl/internal/model"
)

var (
	ErrAlreadyComplete = model.ErrAlreadyComplete
	ErrKindMismatch    = errors.New("type kind mismatch")
	ErrIncompleteField = errors.New("member has incomplete type")
	ErrBadAlign        = errors.New("alignment is not a power of two")
	ErrBitField        = errors.New("bit-field layout is not supported")
	ErrUnknownPlatform = errors.New("unknown platform")
)

// Engine constructs types and computes composite layouts for a Platform.
type Engine struct {
	platform Platform
	log      *slog.Logger
}

// New returns an Engine for p.
func New(p Platform) *Engine {
	return &Engine{
		platform: p,
		log:      slog.Default().With("component", "layout", "platform", p.Name),
	}
}

func (e *Engine) Platform() Platform {
	return e.platform
}

// AlignUp rounds x up to a multiple of align, which must be a power of two.
func AlignUp(x, align int) int {
	return (x + align - 1) &^ (align - 1)
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func (e *Engine) MakeVoid() *model.CTypeInfo {
	return &model.CTypeInfo{Kind: model.CVoid, Size: 0, Align: 1}
}

// MakeScalar returns an arithmetic type sized by the platform.
func (e *Engine) MakeScalar(kind model.CKind, unsigned bool) *model.CTypeInfo {
	s, ok := e.platform.Scalars[kind]
	if !ok {
		s = Scalar{0, 1}
	}
	return &model.CTypeInfo{
		Kind:     kind,
		Unsigned: unsigned && kind.IsInteger(),
		Size:     s.Size,
		Align:    s.Align,
		Complete: true,
	}
}

func (e *Engine) MakePointer(base *model.CTypeInfo) *model.CTypeInfo {
	return &model.CTypeInfo{
		Kind:     model.CPointer,
		Base:     base,
		Size:     e.platform.Pointer.Size,
		Align:    e.platform.Pointer.Align,
		Complete: true,
	}
}

// MakeArray returns an array of elem. When known is false the length is
// unspecified and the size is zero.
func (e *Engine) MakeArray(elem *model.CTypeInfo, length int, known bool) *model.CTypeInfo {
	t := &model.CTypeInfo{
		Kind:        model.CArray,
		Base:        elem,
		Length:      length,
		LengthKnown: known,
		Align:       elem.Align,
		Complete:    known,
	}
	if known {
		t.Size = elem.Size * length
	}
	return t
}

// MakeFunction returns a function type. Function types have no size.
func (e *Engine) MakeFunction(ret *model.CTypeInfo, params []*model.Param, variadic bool) *model.CTypeInfo {
	return &model.CTypeInfo{
		Kind:     model.CFunction,
		Base:     ret,
		Params:   params,
		Variadic: variadic,
		Complete: true,
	}
}

// MakeStruct returns an incomplete struct called name.
func (e *Engine) MakeStruct(name string) *model.CTypeInfo {
	return &model.CTypeInfo{Kind: model.CStruct, Name: name, Size: 0, Align: 1}
}

func (e *Engine) MakeUnion(name string) *model.CTypeInfo {
	return &model.CTypeInfo{Kind: model.CUnion, Name: name, Size: 0, Align: 1}
}

func (e *Engine) MakeEnum(name string) *model.CTypeInfo {
	return &model.CTypeInfo{Kind: model.CEnum, Name: name, Size: 0, Align: 1}
}

func isComplete(t *model.CTypeInfo) bool {
	switch t.Kind {
	case model.CVoid, model.CFunction, model.CInvalid:
		return false
	case model.CArray:
		return t.LengthKnown && isComplete(t.Base)
	default:
		return t.Complete
	}
}

// checkMember validates fields[i]. A trailing array of unknown length is
// accepted when flexible is set.
func checkMember(owner *model.CTypeInfo, fields []*model.Field, i int, flexible bool) error {
	f := fields[i]
	if f.BitField {
		return fmt.Errorf("%s.%s: %w", owner, f.Name, ErrBitField)
	}
	if f.Type == nil {
		return fmt.Errorf("%s.%s: %w", owner, f.Name, ErrIncompleteField)
	}
	if !isComplete(f.Type) {
		last := i == len(fields)-1
		flex := flexible && last && f.Type.Kind == model.CArray && !f.Type.LengthKnown && isComplete(f.Type.Base)
		if !flex {
			return fmt.Errorf("%s.%s (%s): %w", owner, f.Name, f.Type, ErrIncompleteField)
		}
	}
	if !IsPowerOfTwo(f.Type.Align) {
		return fmt.Errorf("%s.%s align %d: %w", owner, f.Name, f.Type.Align, ErrBadAlign)
	}
	return nil
}

func checkTarget(t *model.CTypeInfo, kind model.CKind) error {
	if t.Kind != kind {
		return fmt.Errorf("complete %s as %s: %w", t, kind, ErrKindMismatch)
	}
	if t.Complete {
		return fmt.Errorf("%s: %w", t, ErrAlreadyComplete)
	}
	return nil
}

// CompleteStruct lays fields out in order and completes t. On error t is
// left unchanged.
func (e *Engine) CompleteStruct(t *model.CTypeInfo, fields []*model.Field) error {
	if err := checkTarget(t, model.CStruct); err != nil {
		return err
	}

	offsets := make([]int, len(fields))
	offset, maxAlign := 0, 1
	for i, f := range fields {
		if err := checkMember(t, fields, i, true); err != nil {
			return err
		}
		offset = AlignUp(offset, f.Type.Align)
		offsets[i] = offset
		offset += f.Type.Size
		maxAlign = mathutil.Max(maxAlign, f.Type.Align)
	}

	for i, f := range fields {
		f.Offset = offsets[i]
	}
	t.Fields = fields
	t.Size = AlignUp(offset, maxAlign)
	t.Align = maxAlign
	t.Complete = true
	e.log.Debug("completed struct", "name", t.Name, "size", t.Size, "align", t.Align, "fields", len(fields))
	return nil
}

// CompleteUnion places every member at offset zero and completes t.
func (e *Engine) CompleteUnion(t *model.CTypeInfo, fields []*model.Field) error {
	if err := checkTarget(t, model.CUnion); err != nil {
		return err
	}

	maxSize, maxAlign := 0, 1
	for i, f := range fields {
		if err := checkMember(t, fields, i, false); err != nil {
			return err
		}
		maxSize = mathutil.Max(maxSize, f.Type.Size)
		maxAlign = mathutil.Max(maxAlign, f.Type.Align)
	}

	for _, f := range fields {
		f.Offset = 0
	}
	t.Fields = fields
	t.Size = AlignUp(maxSize, maxAlign)
	t.Align = maxAlign
	t.Complete = true
	e.log.Debug("completed union", "name", t.Name, "size", t.Size, "align", t.Align, "fields", len(fields))
	return nil
}

// CompleteEnum resolves enumerator values in one forward pass: explicit
// values are kept, others take the previous value plus one, starting at 0.
func (e *Engine) CompleteEnum(t *model.CTypeInfo, items []*model.EnumItem) error {
	if err := checkTarget(t, model.CEnum); err != nil {
		return err
	}

	var (
		next   int64
		lo, hi int64
	)
	for i, it := range items {
		if !it.HasValue {
			it.Value = next
		}
		next = it.Value + 1
		if i == 0 {
			lo, hi = it.Value, it.Value
		}
		lo = mathutil.MinInt64(lo, it.Value)
		hi = mathutil.MaxInt64(hi, it.Value)
	}
	if lo < math.MinInt32 || hi > math.MaxUint32 {
		e.log.Warn("enumerator values exceed int range", "name", t.Name, "min", lo, "max", hi)
	}

	s := e.platform.Scalars[model.CInt]
	t.Items = items
	t.Size, t.Align = s.Size, s.Align
	t.Complete = true
	e.log.Debug("completed enum", "name", t.Name, "items", len(items))
	return nil
}
