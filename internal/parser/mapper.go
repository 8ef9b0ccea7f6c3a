package parser

import (
	"github.com/cmmoran/cdecl/internal/model"
)

// ToTypeLayouts flattens build entries into serializable layouts. Records
// and enums reached through a typedef carry their members.
func ToTypeLayouts(entries []*Entry) []model.TypeLayout {
	out := make([]model.TypeLayout, 0, len(entries))
	for _, e := range entries {
		out = append(out, toTypeLayout(e))
	}
	return out
}

func toTypeLayout(e *Entry) model.TypeLayout {
	t := e.Type
	tl := model.TypeLayout{
		Name:  e.Name,
		Kind:  e.Kind.String(),
		Type:  t.String(),
		Size:  t.Size,
		Align: t.Align,
	}
	switch e.Kind {
	case EntryTag, EntryTypedef:
	default:
		return tl
	}
	for _, f := range t.Fields {
		tl.Fields = append(tl.Fields, model.FieldLayout{
			Name:   f.Name,
			Type:   f.Type.String(),
			Offset: f.Offset,
			Size:   f.Type.Size,
			Align:  f.Type.Align,
		})
	}
	for _, it := range t.Items {
		tl.Items = append(tl.Items, model.EnumValue{Name: it.Name, Value: it.Value})
	}
	return tl
}
