package vecbuf

import "fmt"

// Component constrains the host-side float types a buffer can be packed
// from or unpacked into. The host type may differ from the device
// precision; conversion happens explicitly during pack and unpack.
type Component interface {
	~float32 | ~float64
}

// Precision is the numeric precision of the device component type.
// It is fixed per buffer at creation and must be fixed once for the whole
// simulation: mixing precisions between buffers that feed the same kernel
// is a contract violation.
type Precision int

const (
	// Float32 stores each component as a 32-bit float (the default).
	Float32 Precision = iota
	// Float64 stores each component as a 64-bit float. Requires device
	// support for double-precision storage.
	Float64
)

// ComponentSize returns the size of one component in bytes.
func (p Precision) ComponentSize() int {
	if p == Float64 {
		return 8
	}
	return 4
}

// String returns the string representation of Precision.
func (p Precision) String() string {
	switch p {
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}
