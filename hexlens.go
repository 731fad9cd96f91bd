package hexlens

import "encoding/binary"

// Memory supplies byte ranges from the inspected process image.
// Implementations may be live process memory, a captured core image,
// or a WASM guest's linear memory. Read fails if any byte of the
// requested range is unmapped.
type Memory interface {
	Read(addr uint64, length uint32) ([]byte, error)
}

// Platform carries the target facts the host supplies once per session.
type Platform struct {
	PointerSize uint32
	ByteOrder   binary.ByteOrder
}

// Common targets.
var (
	AMD64  = Platform{PointerSize: 8, ByteOrder: binary.LittleEndian}
	Wasm32 = Platform{PointerSize: 4, ByteOrder: binary.LittleEndian}
)

// Uint decodes a fixed-width unsigned integer per the platform's byte
// order. Widths other than 1, 2, 4 and 8 are not a thing on any
// supported target and return 0.
func (p Platform) Uint(b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(p.ByteOrder.Uint16(b))
	case 4:
		return uint64(p.ByteOrder.Uint32(b))
	case 8:
		return p.ByteOrder.Uint64(b)
	default:
		return 0
	}
}

// Pointer decodes a pointer-sized unsigned integer from the start of b.
func (p Platform) Pointer(b []byte) uint64 {
	if uint32(len(b)) < p.PointerSize {
		return 0
	}
	return p.Uint(b[:p.PointerSize])
}

// ValueHandle identifies one live instance: an address plus the
// displayed type name the host resolved for it. Immutable for the
// duration of a decode.
type ValueHandle struct {
	Addr     uint64
	TypeName string
}
