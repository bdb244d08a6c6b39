// Package backend defines the device and queue contracts vecbuf buffers
// are written against, and ships an in-memory software device. The
// accelerator implementation over gogpu/wgpu lives in backend/wgpu.
package backend

import (
	"errors"
	"fmt"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrDeviceClosed is returned when operating on a closed device.
	ErrDeviceClosed = errors.New("backend: device closed")

	// ErrNilBuffer is returned when a queue operation references a nil buffer.
	ErrNilBuffer = errors.New("backend: buffer is nil")

	// ErrFillUnsupported is returned by Fill when the device has no
	// device-side fill primitive. Callers fall back to writing a
	// host-constructed zero array.
	ErrFillUnsupported = errors.New("backend: device-side fill not supported")

	// ErrInvalidAccess is returned when access flags name no valid intent.
	ErrInvalidAccess = errors.New("backend: invalid access flags")
)

// AccessFlags declares the kernel-access intent of a device buffer,
// supplied at allocation time. Exactly one intent must be set.
type AccessFlags uint32

const (
	// AccessReadOnly marks a buffer that dispatched kernels only read.
	AccessReadOnly AccessFlags = 1 << iota
	// AccessWriteOnly marks a buffer that dispatched kernels only write.
	AccessWriteOnly
	// AccessReadWrite marks a buffer that dispatched kernels read and write.
	AccessReadWrite
)

// Valid reports whether exactly one known intent is set.
func (f AccessFlags) Valid() bool {
	switch f {
	case AccessReadOnly, AccessWriteOnly, AccessReadWrite:
		return true
	default:
		return false
	}
}

// String returns the string representation of AccessFlags.
func (f AccessFlags) String() string {
	switch f {
	case AccessReadOnly:
		return "ReadOnly"
	case AccessWriteOnly:
		return "WriteOnly"
	case AccessReadWrite:
		return "ReadWrite"
	default:
		return fmt.Sprintf("AccessFlags(%d)", uint32(f))
	}
}

// Capabilities describes what a device can do beyond the core contract.
type Capabilities struct {
	// FillBuffer reports whether the device has a native zero-fill
	// primitive. When false, Queue.Fill returns ErrFillUnsupported and
	// callers write a host-side zero array instead.
	FillBuffer bool

	// MaxBufferSize is the largest single allocation in bytes,
	// or 0 when unknown.
	MaxBufferSize uint64
}

// Buffer is a handle to device memory. Handles are lent to kernel
// dispatch without transferring ownership; the allocating owner releases
// them through Device.DestroyBuffer.
//
// Implementations expose their native resource through backend-specific
// accessors (for example wgpu.Buffer.Raw).
type Buffer interface {
	// Size returns the allocation size in bytes.
	Size() uint64
}

// Device allocates and releases device memory.
//
// Devices wrap externally created platform handles; creating or selecting
// the underlying device is the caller's concern, not this package's.
type Device interface {
	// Name returns the backend identifier (e.g. "software", "wgpu").
	Name() string

	// CreateBuffer allocates size bytes of device memory. Contents of a
	// fresh allocation are unspecified.
	CreateBuffer(size uint64, access AccessFlags) (Buffer, error)

	// DestroyBuffer releases a buffer immediately. Passing a buffer not
	// created by this device is a contract violation.
	DestroyBuffer(buf Buffer)

	// Capabilities reports the device's optional capabilities.
	Capabilities() Capabilities

	// Close releases backend resources owned by the adapter itself. It
	// never destroys the externally owned platform handles.
	Close()
}

// Queue is an ordered stream of device operations.
//
// Write, Copy, and Fill may execute asynchronously; Flush blocks until all
// previously enqueued work has completed. Read is always blocking.
type Queue interface {
	// Write stages data for transfer into dst at the given byte offset.
	// The transfer is complete once Flush returns.
	Write(dst Buffer, offset uint64, data []byte) error

	// Read copies size bytes out of src into data, blocking until the
	// data is host-visible. len(data) determines the read size.
	Read(src Buffer, offset uint64, data []byte) error

	// Copy enqueues a device-to-device copy of size bytes. Source and
	// destination must be large enough; this is not validated here.
	Copy(dst, src Buffer, size uint64) error

	// Fill enqueues a zero-fill of the first size bytes of dst using the
	// device-side fill primitive. Returns ErrFillUnsupported when the
	// device capability is absent.
	Fill(dst Buffer, size uint64) error

	// Flush blocks until all enqueued work has completed.
	Flush() error
}
