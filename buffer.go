package vecbuf

import (
	"fmt"

	"github.com/gogpu/vecbuf/backend"
)

// componentsPerElement is the number of scalar components per logical
// element. One element holds one 3-vector quantity (spin, position, ...).
const componentsPerElement = 3

// Option configures buffer creation.
type Option func(*options)

type options struct {
	prec    Precision
	layout  Layout
	tracker *Tracker
}

func defaultOptions() options {
	return options{prec: Float32, layout: LayoutInterleaved}
}

// WithPrecision sets the device component precision. The precision must
// be fixed once for the whole simulation; it is an option here so that
// the choice lives in one configuration site, not a build tag.
func WithPrecision(p Precision) Option {
	return func(o *options) { o.prec = p }
}

// WithLayout sets the physical packing strategy.
func WithLayout(l Layout) Option {
	return func(o *options) { o.layout = l }
}

// WithTracker attaches a memory tracker. Allocations reserve against it
// and Free returns the bytes; a tracker with a budget turns oversized
// allocations into errors.
func WithTracker(t *Tracker) Option {
	return func(o *options) { o.tracker = t }
}

// Buffer3 is a device-resident array of 3-component vectors.
//
// A Buffer3 is either empty (zero value, or after Free) or occupied
// (holding exactly one device allocation). The zero value is a valid
// empty buffer. Instances are not safe for concurrent use.
type Buffer3 struct {
	dev     backend.Device
	buf     backend.Buffer
	n       int
	size    uint64
	prec    Precision
	layout  Layout
	tracker *Tracker
}

// New returns an empty buffer: no allocation, zero elements.
func New() *Buffer3 {
	return &Buffer3{}
}

// NewSized allocates device memory for n elements without initializing
// it; the contents are unspecified until the first upload, zero-fill, or
// device-to-device copy into it. Allocation failures and invalid access
// flags propagate from the backend.
func NewSized(dev backend.Device, access AccessFlags, n int, opts ...Option) (*Buffer3, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	size := uint64(n) * componentsPerElement * uint64(o.prec.ComponentSize())

	if o.tracker != nil {
		if err := o.tracker.reserve(size); err != nil {
			return nil, err
		}
	}
	buf, err := dev.CreateBuffer(size, access)
	if err != nil {
		if o.tracker != nil {
			o.tracker.release(size)
		}
		return nil, fmt.Errorf("vecbuf: allocate %d elements: %w", n, err)
	}

	Logger().Debug("vecbuf: allocated buffer",
		"device", dev.Name(), "elements", n, "bytes", size,
		"precision", o.prec, "layout", o.layout, "access", access)

	return &Buffer3{
		dev:     dev,
		buf:     buf,
		n:       n,
		size:    size,
		prec:    o.prec,
		layout:  o.layout,
		tracker: o.tracker,
	}, nil
}

// NewFromComponents allocates device memory for len(xs) elements and
// uploads the three component sequences in a single blocking write: it
// returns only once the transfer has completed.
//
// The three slices must have equal length. This is not validated; a
// mismatch is a contract violation.
func NewFromComponents[R Component](dev backend.Device, q backend.Queue, access AccessFlags, xs, ys, zs []R, opts ...Option) (*Buffer3, error) {
	if q == nil {
		return nil, ErrNilQueue
	}
	b, err := NewSized(dev, access, len(xs), opts...)
	if err != nil {
		return nil, err
	}

	staging := make([]byte, b.size)
	c := b.layout.codec()
	for i := range xs {
		c.packElement(staging, b.prec, i, float64(xs[i]), float64(ys[i]), float64(zs[i]))
	}

	if err := q.Write(b.buf, 0, staging); err != nil {
		b.Free()
		return nil, fmt.Errorf("vecbuf: upload: %w", err)
	}
	if err := q.Flush(); err != nil {
		b.Free()
		return nil, fmt.Errorf("vecbuf: upload: %w", err)
	}

	Logger().Debug("vecbuf: uploaded buffer", "elements", b.n, "bytes", b.size)
	return b, nil
}

// CopyToHost reads the entire buffer back into the three destination
// slices, blocking until the read has completed. The destinations must
// already hold Len() elements each: this never resizes them, and
// under-sized destinations are a contract violation.
func CopyToHost[R Component](q backend.Queue, b *Buffer3, xs, ys, zs []R) error {
	if q == nil {
		return ErrNilQueue
	}

	staging := make([]byte, b.size)
	if err := q.Read(b.buf, 0, staging); err != nil {
		return fmt.Errorf("vecbuf: read: %w", err)
	}

	c := b.layout.codec()
	for i := 0; i < b.n; i++ {
		x, y, z := c.unpackElement(staging, b.prec, i)
		xs[i] = R(x)
		ys[i] = R(y)
		zs[i] = R(z)
	}
	return nil
}

// CopyToDevice duplicates the buffer into dst on the device, then drains
// the queue so the copy has completed when it returns.
//
// dst must already be allocated with a byte size identical to the
// source's. This is deliberately not checked: validating every copy
// would tax the common dispatch loop, and the sizes are fixed at
// allocation time by the same orchestration code. A mismatch is a
// contract violation with undefined results.
func (b *Buffer3) CopyToDevice(q backend.Queue, dst *Buffer3) error {
	if q == nil {
		return ErrNilQueue
	}
	if err := q.Copy(dst.buf, b.buf, b.size); err != nil {
		return fmt.Errorf("vecbuf: device copy: %w", err)
	}
	if err := q.Flush(); err != nil {
		return fmt.Errorf("vecbuf: device copy: %w", err)
	}
	return nil
}

// Zero overwrites the entire buffer with zero components and drains the
// queue before returning. It uses the device-side fill primitive when
// the device has one, and otherwise writes a host-constructed zero
// staging array.
func (b *Buffer3) Zero(q backend.Queue) error {
	if q == nil {
		return ErrNilQueue
	}

	if b.dev != nil && b.dev.Capabilities().FillBuffer {
		if err := q.Fill(b.buf, b.size); err != nil {
			return fmt.Errorf("vecbuf: zero: %w", err)
		}
	} else {
		zeros := make([]byte, b.size)
		if err := q.Write(b.buf, 0, zeros); err != nil {
			return fmt.Errorf("vecbuf: zero: %w", err)
		}
	}
	if err := q.Flush(); err != nil {
		return fmt.Errorf("vecbuf: zero: %w", err)
	}
	return nil
}

// Buffer returns the non-owning device handle, to be passed to kernel
// dispatch. It has no synchronization semantics: ordering between a
// transfer and a subsequent kernel use is the dispatcher's concern.
//
// Calling Buffer on an empty buffer is a contract violation; the result
// (nil) is not part of the API contract.
func (b *Buffer3) Buffer() backend.Buffer {
	return b.buf
}

// Free immediately releases the device allocation and returns the buffer
// to the empty state. Unlike dropping the last reference, Free is
// deterministic: the memory is gone when it returns. Calling Free on an
// empty buffer is a no-op.
func (b *Buffer3) Free() {
	if b.buf == nil {
		return
	}

	b.dev.DestroyBuffer(b.buf)
	if b.tracker != nil {
		b.tracker.release(b.size)
	}
	Logger().Debug("vecbuf: freed buffer", "elements", b.n, "bytes", b.size)

	b.buf = nil
	b.n = 0
	b.size = 0
}

// Len returns the number of elements, 0 when empty.
func (b *Buffer3) Len() int { return b.n }

// Size returns the allocation size in bytes:
// Len() * 3 * Precision().ComponentSize(), 0 when empty.
func (b *Buffer3) Size() uint64 { return b.size }

// Empty reports whether the buffer holds no device allocation.
func (b *Buffer3) Empty() bool { return b.buf == nil }

// Precision returns the device component precision.
func (b *Buffer3) Precision() Precision { return b.prec }

// Layout returns the physical packing strategy.
func (b *Buffer3) Layout() Layout { return b.layout }
