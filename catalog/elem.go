package catalog

import (
	"math"
	"strconv"

	hexlens "github.com/hexlens/hexlens"
)

type elemClass uint8

const (
	elemUint elemClass = iota
	elemInt
	elemFloat
	elemBool
)

type elemInfo struct {
	token string
	size  uint32
	class elemClass
}

// Element type tokens a vector family accepts in its generic position.
// Pointer-sized tokens resolve against the platform at build time.
var elemTokens = map[string]elemInfo{
	"bool":  {token: "bool", size: 1, class: elemBool},
	"u8":    {token: "u8", size: 1, class: elemUint},
	"u16":   {token: "u16", size: 2, class: elemUint},
	"u32":   {token: "u32", size: 4, class: elemUint},
	"u64":   {token: "u64", size: 8, class: elemUint},
	"usize": {token: "usize", size: 0, class: elemUint},
	"i8":    {token: "i8", size: 1, class: elemInt},
	"i16":   {token: "i16", size: 2, class: elemInt},
	"i32":   {token: "i32", size: 4, class: elemInt},
	"i64":   {token: "i64", size: 8, class: elemInt},
	"isize": {token: "isize", size: 0, class: elemInt},
	"f32":   {token: "f32", size: 4, class: elemFloat},
	"f64":   {token: "f64", size: 8, class: elemFloat},
}

func elemFor(token string, platform hexlens.Platform) (elemInfo, bool) {
	info, ok := elemTokens[token]
	if !ok {
		return elemInfo{}, false
	}
	if info.size == 0 {
		info.size = platform.PointerSize
	}
	return info, true
}

func renderElem(b []byte, info elemInfo, platform hexlens.Platform) string {
	raw := platform.Uint(b)
	switch info.class {
	case elemBool:
		if raw != 0 {
			return "true"
		}
		return "false"
	case elemInt:
		shift := 64 - uint(info.size)*8
		return strconv.FormatInt(int64(raw<<shift)>>shift, 10)
	case elemFloat:
		if info.size == 4 {
			return strconv.FormatFloat(float64(math.Float32frombits(uint32(raw))), 'g', -1, 32)
		}
		return strconv.FormatFloat(math.Float64frombits(raw), 'g', -1, 64)
	default:
		return strconv.FormatUint(raw, 10)
	}
}
