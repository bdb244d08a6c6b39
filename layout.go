package vecbuf

import "fmt"

// Layout is the physical packing strategy for element components, chosen
// to match how dispatched kernels read the buffer: LayoutVector for
// kernels loading one 3-wide vector per work item, LayoutInterleaved for
// kernels addressing scalar components individually. Both strategies pack
// components tightly, so a buffer occupies n*3*ComponentSize bytes in
// either mode and the mode never changes the byte size.
type Layout int

const (
	// LayoutInterleaved stores the three scalar components back-to-back
	// per element: x0,y0,z0,x1,y1,z1,... (the default).
	LayoutInterleaved Layout = iota
	// LayoutVector stores one 3-wide vector record per element.
	LayoutVector
)

// String returns the string representation of Layout.
func (l Layout) String() string {
	switch l {
	case LayoutInterleaved:
		return "Interleaved"
	case LayoutVector:
		return "Vector"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// codec returns the packing strategy for the layout.
func (l Layout) codec() packer {
	if l == LayoutVector {
		return vectorPacker{}
	}
	return interleavedPacker{}
}

// packer packs and unpacks one element's components to and from a staging
// array. The two implementations are interchangeable: the staging bytes
// they produce are identical under tight packing, but each mirrors the
// access pattern of the kernels its layout is meant for.
type packer interface {
	// packElement writes element i's components into dst.
	packElement(dst []byte, prec Precision, i int, x, y, z float64)
	// unpackElement reads element i's components from src.
	unpackElement(src []byte, prec Precision, i int) (x, y, z float64)
}

// vectorPacker stores elements as contiguous 3-wide records.
type vectorPacker struct{}

func (vectorPacker) packElement(dst []byte, prec Precision, i int, x, y, z float64) {
	base := i * 3
	for c, v := range [3]float64{x, y, z} {
		putComponent(dst, prec, base+c, v)
	}
}

func (vectorPacker) unpackElement(src []byte, prec Precision, i int) (x, y, z float64) {
	base := i * 3
	return getComponent(src, prec, base),
		getComponent(src, prec, base+1),
		getComponent(src, prec, base+2)
}

// interleavedPacker addresses each scalar slot individually at i*3+c.
type interleavedPacker struct{}

func (interleavedPacker) packElement(dst []byte, prec Precision, i int, x, y, z float64) {
	putComponent(dst, prec, i*3+0, x)
	putComponent(dst, prec, i*3+1, y)
	putComponent(dst, prec, i*3+2, z)
}

func (interleavedPacker) unpackElement(src []byte, prec Precision, i int) (x, y, z float64) {
	x = getComponent(src, prec, i*3+0)
	y = getComponent(src, prec, i*3+1)
	z = getComponent(src, prec, i*3+2)
	return x, y, z
}
