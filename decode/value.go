package decode

import (
	"github.com/hexlens/hexlens/layout"
)

// Unavailable is the rendering for a degraded field. The host shows it
// verbatim instead of aborting the surrounding value.
const Unavailable = "<unavailable>"

// Field is one extracted field: its spec, the raw bytes that were
// sliced for it, the rendered value, and a field-level error when the
// field degraded. A degraded field still occupies its declared position.
type Field struct {
	Spec  layout.FieldSpec
	Raw   []byte
	Value string
	Uint  uint64
	Err   error
}

// Render returns the field's display string, Unavailable if degraded.
func (f *Field) Render() string {
	if f.Err != nil {
		return Unavailable
	}
	return f.Value
}

// Value is a fully extracted instance: the resolved variant plus
// exactly that variant's fields, in declared order. It holds no
// reference to the memory source that produced it.
type Value struct {
	TypeName     string
	Variant      string
	VariantIndex int
	Fields       []Field
}

// Field returns the named field, or nil when the active variant does
// not declare it.
func (v *Value) Field(name string) *Field {
	for i := range v.Fields {
		if v.Fields[i].Spec.Name == name {
			return &v.Fields[i]
		}
	}
	return nil
}

// Render returns the named field's display string, Unavailable when
// the field is missing or degraded.
func (v *Value) Render(name string) string {
	f := v.Field(name)
	if f == nil {
		return Unavailable
	}
	return f.Render()
}
