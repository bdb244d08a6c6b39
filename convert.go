package vecbuf

import (
	"encoding/binary"
	"math"
)

// Component slot encoding.
//
// A staging array is a little-endian sequence of device components. The
// slot index addresses one component; the layout strategy decides which
// slot each (element, component) pair maps to. Conversion between host
// and device precision happens here and nowhere else: a float64 value
// narrowed to Float32 rounds to nearest even per Go's float conversion;
// widening is exact.

// putComponent writes v into staging slot idx at device precision.
func putComponent(dst []byte, prec Precision, idx int, v float64) {
	if prec == Float64 {
		binary.LittleEndian.PutUint64(dst[idx*8:], math.Float64bits(v))
		return
	}
	binary.LittleEndian.PutUint32(dst[idx*4:], math.Float32bits(float32(v)))
}

// getComponent reads staging slot idx at device precision.
func getComponent(src []byte, prec Precision, idx int) float64 {
	if prec == Float64 {
		return math.Float64frombits(binary.LittleEndian.Uint64(src[idx*8:]))
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(src[idx*4:])))
}
