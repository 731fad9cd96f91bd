package catalog

import (
	"fmt"
	"strings"
	"testing"

	hexlens "github.com/hexlens/hexlens"
	"github.com/hexlens/hexlens/decode"
	"github.com/hexlens/hexlens/layout"
)

type fakeMemory struct {
	base uint64
	data []byte
}

func (m *fakeMemory) Read(addr uint64, length uint32) ([]byte, error) {
	if addr < m.base || addr+uint64(length) > m.base+uint64(len(m.data)) {
		return nil, fmt.Errorf("unmapped range [0x%x, 0x%x)", addr, addr+uint64(length))
	}
	off := addr - m.base
	return m.data[off : off+uint64(length)], nil
}

func decodeValue(t *testing.T, e *Entry, b []byte, view layout.View, mem hexlens.Memory) *decode.Value {
	t.Helper()
	idx, variant, err := e.Spec.ResolveVariant(b, view)
	if err != nil {
		t.Fatalf("ResolveVariant failed: %v", err)
	}
	return decode.Extract(b, e.Spec, idx, variant, view, mem)
}

func TestSmolStrInline(t *testing.T) {
	c := New(hexlens.AMD64)
	e, err := c.Resolve("smol_str::SmolStr")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if e.Spec.Size != 24 {
		t.Fatalf("spec size = %d, want 24", e.Spec.Size)
	}

	tests := []struct {
		name    string
		text    string
		variant string
	}{
		{name: "short string", text: "hello", variant: "Inline"},
		{name: "empty string", text: "", variant: "Inline"},
		{name: "full capacity", text: strings.Repeat("x", 23), variant: "Inline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, 24)
			copy(b, tt.text)
			b[23] = byte(len(tt.text)) // the tag doubles as the length

			v := decodeValue(t, e, b, layout.View{Addr: 0x1000, Platform: hexlens.AMD64}, nil)
			if v.Variant != tt.variant {
				t.Errorf("variant = %q, want %q", v.Variant, tt.variant)
			}
			want := `"` + tt.text + `"`
			if got := e.Summarize(v); got != want {
				t.Errorf("summary = %q, want %q", got, want)
			}
		})
	}
}

func TestSmolStrStatic(t *testing.T) {
	c := New(hexlens.AMD64)
	e, err := c.Resolve("smol_str::SmolStr")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	text := "a string too long for the inline arm"
	mem := &fakeMemory{base: 0x7000, data: []byte(text)}

	b := make([]byte, 24)
	hexlens.AMD64.ByteOrder.PutUint64(b[0:8], 0x7000)
	hexlens.AMD64.ByteOrder.PutUint64(b[8:16], uint64(len(text)))
	b[23] = 24 // static arm

	v := decodeValue(t, e, b, layout.View{Addr: 0x1000, Platform: hexlens.AMD64}, mem)
	if v.Variant != "Static" {
		t.Fatalf("variant = %q, want Static", v.Variant)
	}
	if got := e.Summarize(v); got != `"`+text+`"` {
		t.Errorf("summary = %q, want quoted %q", got, text)
	}
}

func TestSmolStrHeap(t *testing.T) {
	c := New(hexlens.AMD64)
	e, err := c.Resolve("smol_str::SmolStr")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	text := "heap allocated contents, reference counted"
	// Strong and weak counts precede the payload.
	heap := make([]byte, 16+len(text))
	copy(heap[16:], text)
	mem := &fakeMemory{base: 0x8000, data: heap}

	b := make([]byte, 24)
	hexlens.AMD64.ByteOrder.PutUint64(b[0:8], 0x8000)
	hexlens.AMD64.ByteOrder.PutUint64(b[8:16], uint64(len(text)))
	b[23] = 25 // heap arm

	t.Run("readable", func(t *testing.T) {
		v := decodeValue(t, e, b, layout.View{Addr: 0x1000, Platform: hexlens.AMD64}, mem)
		if v.Variant != "Heap" {
			t.Fatalf("variant = %q, want Heap", v.Variant)
		}
		if got := e.Summarize(v); got != `"`+text+`"` {
			t.Errorf("summary = %q, want quoted %q", got, text)
		}
		if got := v.Render("pointer"); got != "0x8000" {
			t.Errorf("pointer = %q, want 0x8000", got)
		}
	})

	t.Run("unreadable payload degrades to unavailable", func(t *testing.T) {
		bad := make([]byte, 24)
		copy(bad, b)
		hexlens.AMD64.ByteOrder.PutUint64(bad[0:8], 0xdead0000)

		v := decodeValue(t, e, bad, layout.View{Addr: 0x1000, Platform: hexlens.AMD64}, mem)
		if got := e.Summarize(v); got != decode.Unavailable {
			t.Errorf("summary = %q, want %q", got, decode.Unavailable)
		}
		// Pointer and length still decode.
		if got := v.Render("length"); got != "42" {
			t.Errorf("length = %q, want 42", got)
		}
	})
}

func TestSmolStrWasm32(t *testing.T) {
	// On a 32-bit target the pointer and length fields shrink but the
	// total size and tag position stay fixed.
	c := New(hexlens.Wasm32)
	e, err := c.Resolve("smol_str::SmolStr")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if e.Spec.Size != 24 {
		t.Fatalf("spec size = %d, want 24", e.Spec.Size)
	}

	text := "wasm heap string payload data"
	heap := make([]byte, 8+len(text)) // 2 * 4-byte counts
	copy(heap[8:], text)
	mem := &fakeMemory{base: 0x9000, data: heap}

	b := make([]byte, 24)
	hexlens.Wasm32.ByteOrder.PutUint32(b[0:4], 0x9000)
	hexlens.Wasm32.ByteOrder.PutUint32(b[4:8], uint32(len(text)))
	b[23] = 25

	v := decodeValue(t, e, b, layout.View{Addr: 0x100, Platform: hexlens.Wasm32}, mem)
	if v.Variant != "Heap" {
		t.Fatalf("variant = %q, want Heap", v.Variant)
	}
	if got := e.Summarize(v); got != `"`+text+`"` {
		t.Errorf("summary = %q, want quoted %q", got, text)
	}
}
