package catalog

import (
	hexlens "github.com/hexlens/hexlens"
	"github.com/hexlens/hexlens/decode"
	"github.com/hexlens/hexlens/layout"
)

// smol_str::SmolStr, 24 bytes. The representation enum packs its
// discriminant into the last byte: values 0..=23 mean inline storage
// with the tag doubling as the length, 24 means a static string
// reference, 25 and up mean reference-counted heap storage. The
// spilled arms share a pointer+length shape and differ only in
// provenance, so the tag is modeled as a nested union: inline vs
// spilled first, static vs heap second.
//
// Verified against smol_str 0.2 on 64-bit targets; the tag encoding is
// catalog data, not resolver logic, so a different container version
// ships as a different builder.
const (
	smolStrSize      = 24
	smolStrTagOffset = 23
	smolStrInlineCap = 23
	smolStrTagStatic = 24
)

func smolStrFamily() Family {
	return Family{
		Name:  "smolstr",
		Exact: "smol_str::SmolStr",
		Build: buildSmolStr,
	}
}

func buildSmolStr(typeName string, _ []string, platform hexlens.Platform) (*Entry, error) {
	ptrSize := platform.PointerSize
	lenOffset := ptrSize
	// Arc allocations carry strong+weak counts ahead of the payload.
	arcHeader := uint64(2 * ptrSize)

	spec := &layout.Spec{
		TypeName: typeName,
		Size:     smolStrSize,
		Strategy: layout.NestedUnionTag{
			Outer: layout.TagByte{
				Offset: smolStrTagOffset,
				Table: []layout.TagRange{
					{Lo: 0, Hi: smolStrInlineCap, Variant: 0},
					{Lo: smolStrTagStatic, Hi: 255, Variant: 1},
				},
			},
			Refine: map[int]layout.Strategy{
				1: layout.TagByte{
					Offset: smolStrTagOffset,
					Table: []layout.TagRange{
						{Lo: smolStrTagStatic, Hi: smolStrTagStatic, Variant: 1},
						{Lo: smolStrTagStatic + 1, Hi: 255, Variant: 2},
					},
				},
			},
		},
		Variants: []layout.VariantSpec{
			{
				Name: "Inline",
				Fields: []layout.FieldSpec{
					{Name: "length", Offset: smolStrTagOffset, Length: 1, Kind: layout.KindUInt},
					{Name: "content", Offset: 0, Length: smolStrInlineCap, Kind: layout.KindText, LenField: "length"},
				},
			},
			{
				Name: "Static",
				Fields: []layout.FieldSpec{
					{Name: "pointer", Offset: 0, Length: ptrSize, Kind: layout.KindAddress},
					{Name: "length", Offset: lenOffset, Length: ptrSize, Kind: layout.KindUInt},
					{Name: "content", Kind: layout.KindText, LenField: "length", Indirect: true, PtrField: "pointer"},
				},
			},
			{
				Name: "Heap",
				Fields: []layout.FieldSpec{
					{Name: "pointer", Offset: 0, Length: ptrSize, Kind: layout.KindAddress},
					{Name: "length", Offset: lenOffset, Length: ptrSize, Kind: layout.KindUInt},
					{Name: "content", Kind: layout.KindText, LenField: "length", Indirect: true, PtrField: "pointer", DataOffset: arcHeader},
				},
			},
		},
	}

	return &Entry{
		TypeName:  typeName,
		Spec:      spec,
		Summarize: summarizeSmolStr,
	}, nil
}

func summarizeSmolStr(v *decode.Value) string {
	content := v.Field("content")
	if content == nil || content.Err != nil {
		return decode.Unavailable
	}
	return `"` + content.Value + `"`
}
