package memsource

import (
	"github.com/hexlens/hexlens/errors"
)

// Buffer serves reads out of a captured memory image mapped at a base
// address. Anything outside [base, base+len) is unmapped.
type Buffer struct {
	base uint64
	data []byte
}

func NewBuffer(base uint64, data []byte) *Buffer {
	return &Buffer{base: base, data: data}
}

// Base returns the image's mapping address.
func (b *Buffer) Base() uint64 {
	return b.base
}

// Size returns the image length in bytes.
func (b *Buffer) Size() uint64 {
	return uint64(len(b.data))
}

// Read returns length bytes at addr. The whole range must be mapped;
// partial overlap fails like a live process read of an unmapped page.
func (b *Buffer) Read(addr uint64, length uint32) ([]byte, error) {
	if addr < b.base {
		return nil, errors.MemoryRead(addr, length, nil)
	}
	off := addr - b.base
	end := off + uint64(length)
	// end < off catches addresses near the top of the 64-bit space
	// wrapping past zero; pointer bytes come straight from the image.
	if end < off || end > uint64(len(b.data)) {
		return nil, errors.MemoryRead(addr, length, nil)
	}
	out := make([]byte, length)
	copy(out, b.data[off:end])
	return out, nil
}
