package backend

import (
	"fmt"
	"sync"
)

// Backend name constants.
const (
	// BackendSoftware is the name of the in-memory software device.
	BackendSoftware = "software"
	// BackendWGPU is the name of the gogpu/wgpu accelerator device
	// (see backend/wgpu).
	BackendWGPU = "wgpu"
)

// init registers the software backend on package import.
func init() {
	Register(BackendSoftware, func() (Device, Queue, error) {
		dev := NewSoftwareDevice()
		return dev, dev.Queue(), nil
	})
}

// SoftwareBuffer is a host-memory buffer standing in for device memory.
type SoftwareBuffer struct {
	data []byte
}

// Size returns the allocation size in bytes.
func (b *SoftwareBuffer) Size() uint64 {
	return uint64(len(b.data))
}

// Bytes returns the backing storage. Dispatch code operating on the
// software device works on this slice directly.
func (b *SoftwareBuffer) Bytes() []byte {
	return b.data
}

// SoftwareDevice is a CPU-resident reference device. It executes every
// queue operation synchronously, making Flush a no-op, and supports the
// device-side fill primitive.
//
// It serves as the fallback device and as the reference implementation
// for semantics tests.
type SoftwareDevice struct {
	mu      sync.Mutex
	closed  bool
	buffers int
}

// NewSoftwareDevice creates a new software device.
func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{}
}

// Name returns the backend identifier.
func (d *SoftwareDevice) Name() string {
	return BackendSoftware
}

// CreateBuffer allocates size bytes of host memory.
func (d *SoftwareDevice) CreateBuffer(size uint64, access AccessFlags) (Buffer, error) {
	if !access.Valid() {
		return nil, ErrInvalidAccess
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrDeviceClosed
	}

	d.buffers++
	return &SoftwareBuffer{data: make([]byte, size)}, nil
}

// DestroyBuffer releases the buffer's backing storage.
func (d *SoftwareDevice) DestroyBuffer(buf Buffer) {
	sb, ok := buf.(*SoftwareBuffer)
	if !ok || sb.data == nil {
		return
	}
	sb.data = nil

	d.mu.Lock()
	d.buffers--
	d.mu.Unlock()
}

// Capabilities reports the software device's capabilities.
func (d *SoftwareDevice) Capabilities() Capabilities {
	return Capabilities{FillBuffer: true}
}

// BufferCount returns the number of live allocations.
func (d *SoftwareDevice) BufferCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buffers
}

// Close marks the device closed. Subsequent allocations fail.
func (d *SoftwareDevice) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// Queue returns the device's command queue.
func (d *SoftwareDevice) Queue() *SoftwareQueue {
	return &SoftwareQueue{dev: d}
}

// SoftwareQueue executes operations against SoftwareBuffers immediately.
type SoftwareQueue struct {
	dev *SoftwareDevice
}

// software returns buf as a *SoftwareBuffer or an error when buf belongs
// to another backend.
func software(buf Buffer) (*SoftwareBuffer, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}
	sb, ok := buf.(*SoftwareBuffer)
	if !ok {
		return nil, fmt.Errorf("software: %T is not a software buffer", buf)
	}
	return sb, nil
}

// Write copies data into dst at the given offset.
func (q *SoftwareQueue) Write(dst Buffer, offset uint64, data []byte) error {
	sb, err := software(dst)
	if err != nil {
		return err
	}
	if offset+uint64(len(data)) > uint64(len(sb.data)) {
		return fmt.Errorf("software: write of %d bytes at %d exceeds buffer size %d",
			len(data), offset, len(sb.data))
	}
	copy(sb.data[offset:], data)
	return nil
}

// Read copies len(data) bytes out of src at the given offset.
func (q *SoftwareQueue) Read(src Buffer, offset uint64, data []byte) error {
	sb, err := software(src)
	if err != nil {
		return err
	}
	if offset+uint64(len(data)) > uint64(len(sb.data)) {
		return fmt.Errorf("software: read of %d bytes at %d exceeds buffer size %d",
			len(data), offset, len(sb.data))
	}
	copy(data, sb.data[offset:])
	return nil
}

// Copy duplicates size bytes from src to dst.
func (q *SoftwareQueue) Copy(dst, src Buffer, size uint64) error {
	sd, err := software(dst)
	if err != nil {
		return err
	}
	ss, err := software(src)
	if err != nil {
		return err
	}
	if size > uint64(len(ss.data)) || size > uint64(len(sd.data)) {
		return fmt.Errorf("software: copy of %d bytes exceeds buffer sizes %d/%d",
			size, len(ss.data), len(sd.data))
	}
	copy(sd.data[:size], ss.data[:size])
	return nil
}

// Fill zeroes the first size bytes of dst.
func (q *SoftwareQueue) Fill(dst Buffer, size uint64) error {
	sb, err := software(dst)
	if err != nil {
		return err
	}
	if size > uint64(len(sb.data)) {
		return fmt.Errorf("software: fill of %d bytes exceeds buffer size %d", size, len(sb.data))
	}
	clear(sb.data[:size])
	return nil
}

// Flush is a no-op: the software queue executes synchronously.
func (q *SoftwareQueue) Flush() error {
	return nil
}
