package catalog

import (
	"encoding/binary"
	"regexp"
	"strconv"

	hexlens "github.com/hexlens/hexlens"
	"github.com/hexlens/hexlens/decode"
	"github.com/hexlens/hexlens/errors"
	"github.com/hexlens/hexlens/layout"
)

// smallvec::SmallVec<T, N>: a tagged length word (usize) followed by a
// raw union of either N inline elements or a (pointer, capacity) pair.
// Bit 0 of the length word is the discriminant (0 = inline, 1 = heap);
// the logical length is len >> 1.
//
// Verified against smallvec 2.0 on 64-bit targets.

// MaxElements bounds element enumeration so a corrupt length word
// cannot flood the host's child tree.
const MaxElements = 1 << 16

var smallVecPattern = regexp.MustCompile(`^smallvec::SmallVec<\s*([a-z][a-z0-9]*)\s*,\s*(\d+)\s*>$`)

func smallVecFamily() Family {
	return Family{
		Name:    "smallvec",
		Pattern: smallVecPattern,
		Build:   buildSmallVec,
	}
}

func alignTo(offset, align uint32) uint32 {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

func buildSmallVec(typeName string, params []string, platform hexlens.Platform) (*Entry, error) {
	if len(params) != 2 {
		return nil, errors.UnsupportedType(typeName)
	}
	elem, ok := elemFor(params[0], platform)
	if !ok {
		return nil, errors.UnsupportedType(typeName)
	}
	inlineCap, err := strconv.ParseUint(params[1], 10, 16)
	if err != nil || inlineCap == 0 {
		return nil, errors.UnsupportedType(typeName)
	}

	ptrSize := platform.PointerSize
	rawAlign := ptrSize
	if elem.size > rawAlign {
		rawAlign = elem.size
	}
	rawOffset := alignTo(ptrSize, rawAlign)
	rawSize := uint32(inlineCap) * elem.size
	if min := 2 * ptrSize; rawSize < min {
		rawSize = min
	}
	total := alignTo(rawOffset+rawSize, rawAlign)

	// The discriminant is bit 0 of the length word: byte 0 on
	// little-endian targets, the word's last byte otherwise.
	tagOffset := uint32(0)
	if platform.ByteOrder != binary.ByteOrder(binary.LittleEndian) {
		tagOffset = ptrSize - 1
	}

	spec := &layout.Spec{
		TypeName: typeName,
		Size:     total,
		Strategy: layout.TagByte{
			Offset: tagOffset,
			Mask:   0x01,
			Table: []layout.TagRange{
				{Lo: 0, Hi: 0, Variant: 0},
				{Lo: 1, Hi: 1, Variant: 1},
			},
		},
		Variants: []layout.VariantSpec{
			{
				Name: "Inline",
				Fields: []layout.FieldSpec{
					{Name: "length", Offset: 0, Length: ptrSize, Kind: layout.KindUInt, Shift: 1},
				},
			},
			{
				Name: "Heap",
				Fields: []layout.FieldSpec{
					{Name: "length", Offset: 0, Length: ptrSize, Kind: layout.KindUInt, Shift: 1},
					{Name: "pointer", Offset: rawOffset, Length: ptrSize, Kind: layout.KindAddress},
					{Name: "capacity", Offset: rawOffset + ptrSize, Length: ptrSize, Kind: layout.KindUInt},
				},
			},
		},
	}

	return &Entry{
		TypeName:  typeName,
		Spec:      spec,
		Summarize: summarizeSmallVec,
		Elements:  smallVecElements(elem, uint64(inlineCap), rawOffset),
	}, nil
}

func summarizeSmallVec(v *decode.Value) string {
	length := v.Field("length")
	if length == nil || length.Err != nil {
		return "size=?"
	}
	return "size=" + length.Value
}

// smallVecElements decodes the logical elements: from the inline union
// area for the inline variant, through one bounded secondary read for
// the heap variant. The decoded length is checked against the
// variant's physical capacity before anything is read.
func smallVecElements(elem elemInfo, inlineCap uint64, rawOffset uint32) func([]byte, *decode.Value, layout.View, hexlens.Memory) ([]Element, error) {
	return func(b []byte, v *decode.Value, view layout.View, mem hexlens.Memory) ([]Element, error) {
		lf := v.Field("length")
		if lf == nil || lf.Err != nil {
			return nil, errors.FieldDecode([]string{v.TypeName, "length"}, "length unavailable", nil)
		}
		n := lf.Uint
		if n == 0 {
			return nil, nil
		}
		if n > MaxElements {
			return nil, errors.Overflow([]string{v.TypeName}, n, MaxElements)
		}

		var data []byte
		switch v.Variant {
		case "Inline":
			if n > inlineCap {
				return nil, errors.Overflow([]string{v.TypeName}, n, inlineCap)
			}
			end := rawOffset + uint32(n)*elem.size
			if end > uint32(len(b)) {
				return nil, errors.OutOfBounds([]string{v.TypeName}, rawOffset, uint32(n)*elem.size, uint32(len(b)))
			}
			data = b[rawOffset:end]

		case "Heap":
			cf := v.Field("capacity")
			if cf != nil && cf.Err == nil && n > cf.Uint {
				return nil, errors.Overflow([]string{v.TypeName}, n, cf.Uint)
			}
			pf := v.Field("pointer")
			if pf == nil || pf.Err != nil {
				return nil, errors.FieldDecode([]string{v.TypeName, "pointer"}, "pointer unavailable", nil)
			}
			byteLen := uint32(n) * elem.size
			var err error
			data, err = mem.Read(pf.Uint, byteLen)
			if err != nil {
				return nil, errors.MemoryRead(pf.Uint, byteLen, err)
			}
			if uint32(len(data)) != byteLen {
				return nil, errors.FieldDecode([]string{v.TypeName}, "short element read", nil)
			}

		default:
			return nil, nil
		}

		out := make([]Element, 0, n)
		for i := uint64(0); i < n; i++ {
			off := i * uint64(elem.size)
			out = append(out, Element{
				Name:  "[" + strconv.FormatUint(i, 10) + "]",
				Value: renderElem(data[off:off+uint64(elem.size)], elem, view.Platform),
			})
		}
		return out, nil
	}
}
