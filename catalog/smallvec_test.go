package catalog

import (
	"encoding/binary"
	stderrors "errors"
	"testing"

	hexlens "github.com/hexlens/hexlens"
	"github.com/hexlens/hexlens/errors"
	"github.com/hexlens/hexlens/layout"
)

func TestSmallVecLayoutMath(t *testing.T) {
	c := New(hexlens.AMD64)

	tests := []struct {
		typeName string
		size     uint32
	}{
		// len word + max(N * elem, 2 pointers), padded to the raw align
		{"smallvec::SmallVec<u32, 4>", 24},
		{"smallvec::SmallVec<u8, 8>", 24},
		{"smallvec::SmallVec<u8, 32>", 40},
		{"smallvec::SmallVec<u64, 2>", 24},
		{"smallvec::SmallVec<u64, 3>", 32},
		{"smallvec::SmallVec<bool, 4>", 24},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			e, err := c.Resolve(tt.typeName)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if e.Spec.Size != tt.size {
				t.Errorf("spec size = %d, want %d", e.Spec.Size, tt.size)
			}
		})
	}
}

func TestSmallVecInline(t *testing.T) {
	c := New(hexlens.AMD64)
	e, err := c.Resolve("smallvec::SmallVec<u32, 4>")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	b := make([]byte, 24)
	hexlens.AMD64.ByteOrder.PutUint64(b[0:8], 3<<1) // 3 elements, inline bit clear
	hexlens.AMD64.ByteOrder.PutUint32(b[8:12], 10)
	hexlens.AMD64.ByteOrder.PutUint32(b[12:16], 20)
	hexlens.AMD64.ByteOrder.PutUint32(b[16:20], 30)

	view := layout.View{Addr: 0x1000, Platform: hexlens.AMD64}
	v := decodeValue(t, e, b, view, nil)
	if v.Variant != "Inline" {
		t.Fatalf("variant = %q, want Inline", v.Variant)
	}
	if got := e.Summarize(v); got != "size=3" {
		t.Errorf("summary = %q, want size=3", got)
	}

	elems, err := e.Elements(b, v, view, nil)
	if err != nil {
		t.Fatalf("Elements failed: %v", err)
	}
	want := []Element{
		{Name: "[0]", Value: "10"},
		{Name: "[1]", Value: "20"},
		{Name: "[2]", Value: "30"},
	}
	if len(elems) != len(want) {
		t.Fatalf("got %d elements, want %d", len(elems), len(want))
	}
	for i := range want {
		if elems[i] != want[i] {
			t.Errorf("element %d = %+v, want %+v", i, elems[i], want[i])
		}
	}
}

func TestSmallVecHeap(t *testing.T) {
	c := New(hexlens.AMD64)
	e, err := c.Resolve("smallvec::SmallVec<u32, 4>")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	heap := make([]byte, 6*4)
	for i := 0; i < 6; i++ {
		hexlens.AMD64.ByteOrder.PutUint32(heap[i*4:], uint32(100+i))
	}
	mem := &fakeMemory{base: 0x6000, data: heap}

	b := make([]byte, 24)
	hexlens.AMD64.ByteOrder.PutUint64(b[0:8], 6<<1|1) // 6 elements, heap bit set
	hexlens.AMD64.ByteOrder.PutUint64(b[8:16], 0x6000)
	hexlens.AMD64.ByteOrder.PutUint64(b[16:24], 8) // capacity

	view := layout.View{Addr: 0x1000, Platform: hexlens.AMD64}
	v := decodeValue(t, e, b, view, mem)
	if v.Variant != "Heap" {
		t.Fatalf("variant = %q, want Heap", v.Variant)
	}
	if got := e.Summarize(v); got != "size=6" {
		t.Errorf("summary = %q, want size=6", got)
	}
	if got := v.Render("capacity"); got != "8" {
		t.Errorf("capacity = %q, want 8", got)
	}

	elems, err := e.Elements(b, v, view, mem)
	if err != nil {
		t.Fatalf("Elements failed: %v", err)
	}
	if len(elems) != 6 {
		t.Fatalf("got %d elements, want 6", len(elems))
	}
	if elems[0].Value != "100" || elems[5].Value != "105" {
		t.Errorf("elements = [%s .. %s], want [100 .. 105]", elems[0].Value, elems[5].Value)
	}
}

func TestSmallVecElementFailures(t *testing.T) {
	c := New(hexlens.AMD64)
	e, err := c.Resolve("smallvec::SmallVec<u32, 4>")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	view := layout.View{Addr: 0x1000, Platform: hexlens.AMD64}

	t.Run("inline length past capacity", func(t *testing.T) {
		b := make([]byte, 24)
		hexlens.AMD64.ByteOrder.PutUint64(b[0:8], 9<<1) // 9 > inline capacity 4

		v := decodeValue(t, e, b, view, nil)
		_, err := e.Elements(b, v, view, nil)
		if err == nil {
			t.Fatal("Elements accepted a length past the inline capacity")
		}
		if !stderrors.Is(err, errors.Overflow(nil, 0, 0)) {
			t.Errorf("error = %v, want overflow", err)
		}
	})

	t.Run("heap length past capacity", func(t *testing.T) {
		b := make([]byte, 24)
		hexlens.AMD64.ByteOrder.PutUint64(b[0:8], 100<<1|1)
		hexlens.AMD64.ByteOrder.PutUint64(b[8:16], 0x6000)
		hexlens.AMD64.ByteOrder.PutUint64(b[16:24], 8)

		v := decodeValue(t, e, b, view, nil)
		_, err := e.Elements(b, v, view, nil)
		if err == nil {
			t.Fatal("Elements accepted a length past the heap capacity")
		}
		if !stderrors.Is(err, errors.Overflow(nil, 0, 0)) {
			t.Errorf("error = %v, want overflow", err)
		}
	})

	t.Run("unreadable heap block", func(t *testing.T) {
		mem := &fakeMemory{base: 0x6000, data: make([]byte, 8)}
		b := make([]byte, 24)
		hexlens.AMD64.ByteOrder.PutUint64(b[0:8], 4<<1|1)
		hexlens.AMD64.ByteOrder.PutUint64(b[8:16], 0xbad000)
		hexlens.AMD64.ByteOrder.PutUint64(b[16:24], 4)

		v := decodeValue(t, e, b, view, mem)
		_, err := e.Elements(b, v, view, mem)
		if err == nil {
			t.Fatal("Elements succeeded against an unmapped heap block")
		}
		if !stderrors.Is(err, errors.MemoryRead(0, 0, nil)) {
			t.Errorf("error = %v, want memory read", err)
		}
		// The summary only needs the length word.
		if got := e.Summarize(v); got != "size=4" {
			t.Errorf("summary = %q, want size=4", got)
		}
	})

	t.Run("empty vector", func(t *testing.T) {
		b := make([]byte, 24)
		v := decodeValue(t, e, b, view, nil)
		elems, err := e.Elements(b, v, view, nil)
		if err != nil {
			t.Fatalf("Elements failed: %v", err)
		}
		if len(elems) != 0 {
			t.Errorf("got %d elements, want 0", len(elems))
		}
		if got := e.Summarize(v); got != "size=0" {
			t.Errorf("summary = %q, want size=0", got)
		}
	})
}

func TestSmallVecElementRendering(t *testing.T) {
	c := New(hexlens.AMD64)
	view := layout.View{Addr: 0x1000, Platform: hexlens.AMD64}

	t.Run("signed elements", func(t *testing.T) {
		e, err := c.Resolve("smallvec::SmallVec<i8, 8>")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		b := make([]byte, e.Spec.Size)
		hexlens.AMD64.ByteOrder.PutUint64(b[0:8], 2<<1)
		b[8] = 0xff // -1
		b[9] = 0x7f // 127

		v := decodeValue(t, e, b, view, nil)
		elems, err := e.Elements(b, v, view, nil)
		if err != nil {
			t.Fatalf("Elements failed: %v", err)
		}
		if elems[0].Value != "-1" || elems[1].Value != "127" {
			t.Errorf("elements = [%s, %s], want [-1, 127]", elems[0].Value, elems[1].Value)
		}
	})

	t.Run("float elements", func(t *testing.T) {
		e, err := c.Resolve("smallvec::SmallVec<f32, 4>")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		b := make([]byte, e.Spec.Size)
		hexlens.AMD64.ByteOrder.PutUint64(b[0:8], 1<<1)
		hexlens.AMD64.ByteOrder.PutUint32(b[8:12], 0x3fc00000) // 1.5

		v := decodeValue(t, e, b, view, nil)
		elems, err := e.Elements(b, v, view, nil)
		if err != nil {
			t.Fatalf("Elements failed: %v", err)
		}
		if elems[0].Value != "1.5" {
			t.Errorf("element = %s, want 1.5", elems[0].Value)
		}
	})

	t.Run("bool elements", func(t *testing.T) {
		e, err := c.Resolve("smallvec::SmallVec<bool, 4>")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		b := make([]byte, e.Spec.Size)
		hexlens.AMD64.ByteOrder.PutUint64(b[0:8], 2<<1)
		b[8] = 1
		b[9] = 0

		v := decodeValue(t, e, b, view, nil)
		elems, err := e.Elements(b, v, view, nil)
		if err != nil {
			t.Fatalf("Elements failed: %v", err)
		}
		if elems[0].Value != "true" || elems[1].Value != "false" {
			t.Errorf("elements = [%s, %s], want [true, false]", elems[0].Value, elems[1].Value)
		}
	})

	t.Run("pointer sized elements follow the platform", func(t *testing.T) {
		c32 := New(hexlens.Wasm32)
		e, err := c32.Resolve("smallvec::SmallVec<usize, 4>")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		b := make([]byte, e.Spec.Size)
		hexlens.Wasm32.ByteOrder.PutUint32(b[0:4], 1<<1)
		hexlens.Wasm32.ByteOrder.PutUint32(b[4:8], 77)

		view := layout.View{Addr: 0x100, Platform: hexlens.Wasm32}
		v := decodeValue(t, e, b, view, nil)
		elems, err := e.Elements(b, v, view, nil)
		if err != nil {
			t.Fatalf("Elements failed: %v", err)
		}
		if elems[0].Value != "77" {
			t.Errorf("element = %s, want 77", elems[0].Value)
		}
	})
}

func TestSmallVecBigEndianTag(t *testing.T) {
	// The discriminant lives in the length word's low-order byte, which
	// is the word's last byte on a big-endian target.
	be := hexlens.Platform{PointerSize: 8, ByteOrder: binary.BigEndian}
	c := New(be)
	e, err := c.Resolve("smallvec::SmallVec<u32, 4>")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	b := make([]byte, 24)
	binary.BigEndian.PutUint64(b[0:8], 2<<1|1) // heap bit lands in b[7]

	view := layout.View{Addr: 0x1000, Platform: be}
	v := decodeValue(t, e, b, view, &fakeMemory{})
	if v.Variant != "Heap" {
		t.Errorf("variant = %q, want Heap", v.Variant)
	}
	if got := v.Render("length"); got != "2" {
		t.Errorf("length = %q, want 2", got)
	}
}
