package layout

import (
	"github.com/hexlens/hexlens/errors"
)

// Strategy determines the active variant from the value's primary
// bytes. Strategies only ever inspect the bytes they declare; no
// variant-specific field is touched before the variant is known.
type Strategy interface {
	strategy()
}

// TagRange maps a closed range of tag values to a variant index.
type TagRange struct {
	Lo, Hi  byte
	Variant int
}

// TagByte reads one byte at Offset, masks it, and maps the result
// through a fixed range table. An unmatched tag value is an
// UnknownDiscriminant failure, never a silent default.
type TagByte struct {
	Offset uint32
	Mask   byte // 0 means the full byte
	Table  []TagRange
}

func (TagByte) strategy() {}

// PointerRangeTag interprets a pointer-sized field at Offset and
// classifies the value as Inline when the pointer lands inside the
// value's own address range, External otherwise.
type PointerRangeTag struct {
	Offset   uint32
	Inline   int
	External int
}

func (PointerRangeTag) strategy() {}

// NestedUnionTag applies Outer first, then refines selected outcomes
// through a second-level strategy. This covers unions whose spilled
// arm is itself discriminated (e.g. static vs heap storage sharing a
// pointer+length shape).
type NestedUnionTag struct {
	Outer  Strategy
	Refine map[int]Strategy
}

func (NestedUnionTag) strategy() {}

// ResolveVariant determines the active variant for one value image.
// b must be the value's full primary span (Spec.Size bytes). The
// result is deterministic: identical bytes always resolve to the same
// variant.
func (s *Spec) ResolveVariant(b []byte, view View) (int, *VariantSpec, error) {
	if uint32(len(b)) < s.Size {
		return 0, nil, errors.New(errors.PhaseDiscriminant, errors.KindInvalidInput).
			TypeName(s.TypeName).
			Detail("value span %d bytes, layout needs %d", len(b), s.Size).
			Build()
	}
	idx, err := s.resolve(s.Strategy, b, view)
	if err != nil {
		return 0, nil, err
	}
	return idx, &s.Variants[idx], nil
}

func (s *Spec) resolve(st Strategy, b []byte, view View) (int, error) {
	switch t := st.(type) {
	case TagByte:
		tag := b[t.Offset]
		if t.Mask != 0 {
			tag &= t.Mask
		}
		for _, r := range t.Table {
			if tag >= r.Lo && tag <= r.Hi {
				return r.Variant, nil
			}
		}
		return 0, errors.UnknownDiscriminant([]string{s.TypeName}, uint64(tag))

	case PointerRangeTag:
		ptrSize := view.Platform.PointerSize
		if t.Offset+ptrSize > s.Size {
			return 0, errors.New(errors.PhaseDiscriminant, errors.KindOutOfBounds).
				TypeName(s.TypeName).
				Detail("pointer tag field outside value span").
				Build()
		}
		ptr := view.Platform.Uint(b[t.Offset : t.Offset+ptrSize])
		if ptr >= view.Addr && ptr < view.Addr+uint64(s.Size) {
			return t.Inline, nil
		}
		return t.External, nil

	case NestedUnionTag:
		idx, err := s.resolve(t.Outer, b, view)
		if err != nil {
			return 0, err
		}
		if sub, ok := t.Refine[idx]; ok {
			return s.resolve(sub, b, view)
		}
		return idx, nil

	default:
		return 0, errors.New(errors.PhaseDiscriminant, errors.KindInvalidSpec).
			TypeName(s.TypeName).
			Detail("unknown discriminant strategy").
			Build()
	}
}
