package decode

import (
	"strconv"
	"unicode/utf8"

	hexlens "github.com/hexlens/hexlens"
	"github.com/hexlens/hexlens/errors"
	"github.com/hexlens/hexlens/layout"
)

// MaxTextLength bounds secondary reads for pointer-backed text so a
// corrupt length word cannot trigger an unbounded read against a slow
// or partially mapped memory source.
const MaxTextLength = 1 << 20

// Extract decodes the active variant's fields from the value's primary
// byte span. b must hold spec.Size bytes; the variant must come from
// spec.ResolveVariant on the same bytes.
//
// Extraction never fails as a whole: an out-of-bounds slice, a failed
// secondary read, or invalid text degrades that single field and the
// rest of the value stays usable. Extracting identical bytes twice
// yields identical results.
func Extract(b []byte, spec *layout.Spec, idx int, variant *layout.VariantSpec, view layout.View, mem hexlens.Memory) *Value {
	v := &Value{
		TypeName:     spec.TypeName,
		Variant:      variant.Name,
		VariantIndex: idx,
		Fields:       make([]Field, 0, len(variant.Fields)),
	}

	for i := range variant.Fields {
		fs := variant.Fields[i]
		v.Fields = append(v.Fields, extractField(b, spec, fs, v, view, mem))
	}
	return v
}

func extractField(b []byte, spec *layout.Spec, fs layout.FieldSpec, v *Value, view layout.View, mem hexlens.Memory) Field {
	f := Field{Spec: fs}
	path := []string{spec.TypeName, fs.Name}

	if fs.Kind == layout.KindText && fs.Indirect {
		extractIndirectText(&f, v, path, mem)
		return f
	}

	if fs.Offset >= spec.Size || fs.Offset+fs.Length > spec.Size || fs.Offset+fs.Length > uint32(len(b)) {
		f.Err = errors.OutOfBounds(path, fs.Offset, fs.Length, spec.Size)
		return f
	}
	if fs.Length == 0 && fs.Kind != layout.KindText {
		f.Err = errors.FieldDecode(path, "zero-length "+fs.Kind.String()+" field", nil)
		return f
	}
	f.Raw = b[fs.Offset : fs.Offset+fs.Length]

	switch fs.Kind {
	case layout.KindUInt:
		f.Uint = view.Platform.Uint(f.Raw) >> fs.Shift
		f.Value = strconv.FormatUint(f.Uint, 10)

	case layout.KindBool:
		f.Uint = uint64(f.Raw[0])
		if f.Raw[0] != 0 {
			f.Value = "true"
		} else {
			f.Value = "false"
		}

	case layout.KindAddress:
		f.Uint = view.Platform.Uint(f.Raw)
		f.Value = "0x" + strconv.FormatUint(f.Uint, 16)

	case layout.KindText:
		ln := uint64(fs.Length)
		if fs.LenField != "" {
			lf := v.Field(fs.LenField)
			if lf == nil || lf.Err != nil {
				f.Err = errors.FieldDecode(path, "length field "+fs.LenField+" unavailable", nil)
				return f
			}
			ln = lf.Uint
		}
		if ln > uint64(fs.Length) {
			f.Err = errors.Overflow(path, ln, uint64(fs.Length))
			return f
		}
		text := f.Raw[:ln]
		if !utf8.Valid(text) {
			f.Err = errors.InvalidUTF8(path, text)
			return f
		}
		f.Uint = ln
		f.Value = string(text)

	default:
		f.Err = errors.FieldDecode(path, "unknown decode kind", nil)
	}
	return f
}

// extractIndirectText fetches pointer-backed content: the address
// field named by PtrField supplies the base, the named length field
// the byte count, and DataOffset skips any allocation header.
func extractIndirectText(f *Field, v *Value, path []string, mem hexlens.Memory) {
	ptr := v.Field(f.Spec.PtrField)
	if ptr == nil || ptr.Err != nil || ptr.Spec.Kind != layout.KindAddress {
		f.Err = errors.FieldDecode(path, "pointer field "+f.Spec.PtrField+" unavailable", nil)
		return
	}

	ln := uint64(0)
	if f.Spec.LenField != "" {
		lf := v.Field(f.Spec.LenField)
		if lf == nil || lf.Err != nil {
			f.Err = errors.FieldDecode(path, "length field "+f.Spec.LenField+" unavailable", nil)
			return
		}
		ln = lf.Uint
	}
	if ln == 0 {
		f.Value = ""
		return
	}
	if ln > MaxTextLength {
		f.Err = errors.Overflow(path, ln, MaxTextLength)
		return
	}

	addr := ptr.Uint + f.Spec.DataOffset
	data, err := mem.Read(addr, uint32(ln))
	if err != nil {
		f.Err = errors.MemoryRead(addr, uint32(ln), err)
		return
	}
	if uint64(len(data)) != ln {
		f.Err = errors.FieldDecode(path,
			"short read: got "+strconv.Itoa(len(data))+" of "+strconv.FormatUint(ln, 10)+" bytes", nil)
		return
	}
	if !utf8.Valid(data) {
		f.Err = errors.InvalidUTF8(path, data)
		return
	}
	f.Raw = data
	f.Uint = ln
	f.Value = string(data)
}
