package layout

import (
	hexlens "github.com/hexlens/hexlens"
	"github.com/hexlens/hexlens/errors"
)

// DecodeKind selects how a field's bytes are interpreted.
type DecodeKind uint8

const (
	KindUInt DecodeKind = iota
	KindText
	KindAddress
	KindBool
)

var kindNames = [...]string{
	KindUInt:    "uint",
	KindText:    "text",
	KindAddress: "address",
	KindBool:    "bool",
}

func (k DecodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// FieldSpec describes one logical field of a variant.
//
// Offset and Length address the value's primary byte span, except for
// indirect text fields, whose content lives behind the variant's
// address field and is fetched with a bounded secondary read.
type FieldSpec struct {
	Name   string
	Offset uint32
	Length uint32
	Kind   DecodeKind

	// Shift right-shifts a decoded UInt, for lengths that carry a
	// discriminant in their low bits.
	Shift uint8

	// LenField names a previously declared UInt field that supplies
	// the logical byte length of a text field. Length then acts as
	// the declared capacity for inline text.
	LenField string

	// Indirect marks text stored behind an address field of the same
	// variant, named by PtrField. DataOffset skips a fixed header at
	// the pointed-to block.
	Indirect   bool
	PtrField   string
	DataOffset uint64
}

// VariantSpec is one mutually exclusive representation of the value.
type VariantSpec struct {
	Name   string
	Fields []FieldSpec
}

// Field returns the named field spec, or nil.
func (v *VariantSpec) Field(name string) *FieldSpec {
	for i := range v.Fields {
		if v.Fields[i].Name == name {
			return &v.Fields[i]
		}
	}
	return nil
}

// Spec is the static description of a type family instantiation:
// total size, how to find the active variant, and what each variant
// contains. A Spec is built once per (family, generic parameters)
// pair and never mutated afterwards.
type Spec struct {
	TypeName string
	Size     uint32
	Strategy Strategy
	Variants []VariantSpec
}

// Validate checks the spec's internal consistency: every direct field
// slice lies within [0, Size), every strategy read does too, and every
// tag table entry names an existing variant. Catalog builders call
// this once at construction.
func (s *Spec) Validate() error {
	if s.Size == 0 {
		return errors.InvalidSpec(s.TypeName, "zero total size")
	}
	if len(s.Variants) == 0 {
		return errors.InvalidSpec(s.TypeName, "no variants")
	}
	if s.Strategy == nil {
		return errors.InvalidSpec(s.TypeName, "no discriminant strategy")
	}
	if err := s.validateStrategy(s.Strategy); err != nil {
		return err
	}
	for vi := range s.Variants {
		v := &s.Variants[vi]
		for fi := range v.Fields {
			f := &v.Fields[fi]
			if f.Indirect {
				if f.Kind != KindText {
					return errors.InvalidSpec(s.TypeName,
						"field "+v.Name+"."+f.Name+" is indirect but not text")
				}
				if f.PtrField == "" {
					return errors.InvalidSpec(s.TypeName,
						"indirect field "+v.Name+"."+f.Name+" names no pointer field")
				}
				pf := v.Field(f.PtrField)
				if pf == nil || pf.Kind != KindAddress {
					return errors.InvalidSpec(s.TypeName,
						"indirect field "+v.Name+"."+f.Name+" references "+f.PtrField+", which is not an address field")
				}
				continue
			}
			if f.Length == 0 && f.Kind != KindText {
				return errors.InvalidSpec(s.TypeName,
					"field "+v.Name+"."+f.Name+" has zero length")
			}
			if f.Offset >= s.Size || f.Offset+f.Length > s.Size {
				return errors.InvalidSpec(s.TypeName,
					"field "+v.Name+"."+f.Name+" outside value span")
			}
			if f.LenField != "" && v.Field(f.LenField) == nil {
				return errors.InvalidSpec(s.TypeName,
					"field "+v.Name+"."+f.Name+" references unknown length field "+f.LenField)
			}
		}
	}
	return nil
}

func (s *Spec) validateStrategy(st Strategy) error {
	switch t := st.(type) {
	case TagByte:
		if t.Offset >= s.Size {
			return errors.InvalidSpec(s.TypeName, "tag byte outside value span")
		}
		if len(t.Table) == 0 {
			return errors.InvalidSpec(s.TypeName, "empty tag table")
		}
		for _, r := range t.Table {
			if r.Lo > r.Hi {
				return errors.InvalidSpec(s.TypeName, "inverted tag range")
			}
			if r.Variant < 0 || r.Variant >= len(s.Variants) {
				return errors.InvalidSpec(s.TypeName, "tag range names unknown variant")
			}
		}
	case PointerRangeTag:
		if t.Offset >= s.Size {
			return errors.InvalidSpec(s.TypeName, "pointer tag field outside value span")
		}
		if t.Inline < 0 || t.Inline >= len(s.Variants) ||
			t.External < 0 || t.External >= len(s.Variants) {
			return errors.InvalidSpec(s.TypeName, "pointer tag names unknown variant")
		}
	case NestedUnionTag:
		if t.Outer == nil {
			return errors.InvalidSpec(s.TypeName, "nested union without outer strategy")
		}
		if err := s.validateStrategy(t.Outer); err != nil {
			return err
		}
		for _, sub := range t.Refine {
			if err := s.validateStrategy(sub); err != nil {
				return err
			}
		}
	default:
		return errors.InvalidSpec(s.TypeName, "unknown discriminant strategy")
	}
	return nil
}

// View ties one decode request to a concrete instance: where the value
// lives and what the target platform looks like. The address matters
// for pointer-range discrimination; the platform fixes endianness and
// pointer width.
type View struct {
	Addr     uint64
	Platform hexlens.Platform
}
