package model

// TypeLayout is the serializable layout of one named type or object.
type TypeLayout struct {
	Name   string        `yaml:"name" json:"name"`
	Kind   string        `yaml:"kind" json:"kind"`
	Type   string        `yaml:"type" json:"type"`
	Size   int           `yaml:"size" json:"size"`
	Align  int           `yaml:"align" json:"align"`
	Fields []FieldLayout `yaml:"fields,omitempty" json:"fields,omitempty"`
	Items  []EnumValue   `yaml:"items,omitempty" json:"items,omitempty"`
}

type FieldLayout struct {
	Name   string `yaml:"name" json:"name"`
	Type   string `yaml:"type" json:"type"`
	Offset int    `yaml:"offset" json:"offset"`
	Size   int    `yaml:"size" json:"size"`
	Align  int    `yaml:"align" json:"align"`
}

type EnumValue struct {
	Name  string `yaml:"name" json:"name"`
	Value int64  `yaml:"value" json:"value"`
}

// LayoutReport is the layout of every type in one translation unit.
type LayoutReport struct {
	Source   string       `yaml:"source" json:"source"`
	Platform string       `yaml:"platform" json:"platform"`
	Types    []TypeLayout `yaml:"types" json:"types"`
}

// Find returns the layout called name.
func (r *LayoutReport) Find(name string) *TypeLayout {
	for i := range r.Types {
		if r.Types[i].Name == name {
			return &r.Types[i]
		}
	}
	return nil
}
