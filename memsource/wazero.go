package memsource

import (
	"math"

	"github.com/tetratelabs/wazero/api"

	hexlens "github.com/hexlens/hexlens"
	"github.com/hexlens/hexlens/errors"
)

// Guest adapts a wazero linear memory to the Memory source interface,
// so container values inside a running (or paused) wasm32 guest can be
// inspected with the same decoders as native process images.
type Guest struct {
	mem api.Memory
}

func NewGuest(mem api.Memory) *Guest {
	return &Guest{mem: mem}
}

// Platform returns the guest's target facts: 4-byte pointers, little
// endian, per the WebAssembly core spec.
func (g *Guest) Platform() hexlens.Platform {
	return hexlens.Wasm32
}

// Read returns length bytes at addr. Linear memory addresses are
// 32-bit; anything beyond that range is unmapped by construction.
func (g *Guest) Read(addr uint64, length uint32) ([]byte, error) {
	if addr > math.MaxUint32 || addr+uint64(length) > math.MaxUint32+1 {
		return nil, errors.MemoryRead(addr, length, nil)
	}
	data, ok := g.mem.Read(uint32(addr), length)
	if !ok {
		return nil, errors.MemoryRead(addr, length, nil)
	}
	// wazero returns a view into linear memory; copy so the decoded
	// value stays stable if the guest resumes.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
