package wgpu

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vecbuf/backend"
)

// Adapter errors.
var (
	// ErrNilHALDevice is returned when constructing an adapter without a device.
	ErrNilHALDevice = errors.New("wgpu: hal device is nil")

	// ErrNilHALQueue is returned when constructing an adapter without a queue.
	ErrNilHALQueue = errors.New("wgpu: hal queue is nil")
)

// waitTimeout bounds every fence wait. GPU work in this package is plain
// data movement; anything slower than this is a wedged device.
const waitTimeout = 5 * time.Second

// Buffer wraps a hal.Buffer with its allocation metadata.
type Buffer struct {
	raw    hal.Buffer
	size   uint64
	access backend.AccessFlags
}

// Size returns the allocation size in bytes.
func (b *Buffer) Size() uint64 { return b.size }

// Access returns the kernel-access intent declared at allocation.
// Dispatch code uses it when building bind groups.
func (b *Buffer) Access() backend.AccessFlags { return b.access }

// Raw returns the underlying HAL buffer handle for kernel dispatch.
// The handle is non-owning; do not destroy it directly.
func (b *Buffer) Raw() hal.Buffer { return b.raw }

// Device adapts a hal.Device to backend.Device.
//
// Device is safe for concurrent use; hal resource calls are serialized
// where the HAL requires it.
type Device struct {
	mu     sync.Mutex
	dev    hal.Device
	limits gputypes.Limits
	closed bool
}

// Queue adapts a hal.Queue to backend.Queue. It keeps a device reference
// for staging buffers, command encoders, and fences.
type Queue struct {
	dev   *Device
	queue hal.Queue
}

// New wraps an externally created HAL device and queue.
// If limits is nil, default limits are used.
func New(device hal.Device, queue hal.Queue, limits *gputypes.Limits) (*Device, *Queue, error) {
	if device == nil {
		return nil, nil, ErrNilHALDevice
	}
	if queue == nil {
		return nil, nil, ErrNilHALQueue
	}

	var lim gputypes.Limits
	if limits != nil {
		lim = *limits
	} else {
		lim = gputypes.DefaultLimits()
	}

	dev := &Device{dev: device, limits: lim}
	return dev, &Queue{dev: dev, queue: queue}, nil
}

// Name returns the backend identifier.
func (d *Device) Name() string {
	return backend.BackendWGPU
}

// CreateBuffer allocates size bytes of device memory.
func (d *Device) CreateBuffer(size uint64, access backend.AccessFlags) (backend.Buffer, error) {
	usage, err := bufferUsage(access)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, backend.ErrDeviceClosed
	}

	raw, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "vecbuf",
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create buffer: %w", err)
	}

	return &Buffer{raw: raw, size: size, access: access}, nil
}

// DestroyBuffer releases the buffer immediately.
func (d *Device) DestroyBuffer(buf backend.Buffer) {
	wb, ok := buf.(*Buffer)
	if !ok || wb.raw == nil {
		return
	}
	raw := wb.raw
	wb.raw = nil

	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if !closed {
		d.dev.DestroyBuffer(raw)
	}
}

// Capabilities reports the adapter's capabilities. The HAL has no
// buffer-fill primitive, so FillBuffer is false.
func (d *Device) Capabilities() backend.Capabilities {
	return backend.Capabilities{
		FillBuffer:    false,
		MaxBufferSize: d.limits.MaxBufferSize,
	}
}

// Close marks the adapter closed. The externally owned HAL device and
// queue are left untouched.
func (d *Device) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// bufferUsage converts the kernel-access intent to HAL buffer usage.
// Host transfers need copy usage in both directions regardless of intent,
// so the intent itself is carried on the Buffer for bind-group creation
// rather than encoded in the usage bits.
func bufferUsage(access backend.AccessFlags) (gputypes.BufferUsage, error) {
	if !access.Valid() {
		return 0, backend.ErrInvalidAccess
	}
	return gputypes.BufferUsageStorage |
		gputypes.BufferUsageCopySrc |
		gputypes.BufferUsageCopyDst, nil
}

// Write stages data for transfer into dst. The HAL commits staged queue
// writes on the next submission; Flush forces one.
func (q *Queue) Write(dst backend.Buffer, offset uint64, data []byte) error {
	wb, ok := dst.(*Buffer)
	if !ok || wb.raw == nil {
		return backend.ErrNilBuffer
	}
	if len(data) == 0 {
		return nil
	}
	q.queue.WriteBuffer(wb.raw, offset, data)
	return nil
}

// Read copies len(data) bytes out of src, blocking until the data is
// host-visible. The copy goes through a transient MapRead staging buffer
// with a fence-synchronized submit.
func (q *Queue) Read(src backend.Buffer, offset uint64, data []byte) error {
	wb, ok := src.(*Buffer)
	if !ok || wb.raw == nil {
		return backend.ErrNilBuffer
	}
	size := uint64(len(data))
	if size == 0 {
		return nil
	}

	staging, err := q.dev.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "vecbuf_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	defer q.dev.dev.DestroyBuffer(staging)

	encoder, err := q.dev.dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "vecbuf_read",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("vecbuf_read"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	encoder.CopyBufferToBuffer(wb.raw, staging, []hal.BufferCopy{
		{SrcOffset: offset, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer q.dev.dev.FreeCommandBuffer(cmdBuf)

	if err := q.submitAndWait([]hal.CommandBuffer{cmdBuf}); err != nil {
		return err
	}

	if err := q.queue.ReadBuffer(staging, 0, data); err != nil {
		return fmt.Errorf("wgpu: readback: %w", err)
	}
	return nil
}

// Copy enqueues a device-to-device copy of size bytes. Completion is
// guaranteed after the next Flush.
func (q *Queue) Copy(dst, src backend.Buffer, size uint64) error {
	wd, ok := dst.(*Buffer)
	if !ok || wd.raw == nil {
		return backend.ErrNilBuffer
	}
	ws, ok := src.(*Buffer)
	if !ok || ws.raw == nil {
		return backend.ErrNilBuffer
	}

	encoder, err := q.dev.dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "vecbuf_copy",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("vecbuf_copy"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	encoder.CopyBufferToBuffer(ws.raw, wd.raw, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer q.dev.dev.FreeCommandBuffer(cmdBuf)

	return q.submitAndWait([]hal.CommandBuffer{cmdBuf})
}

// Fill reports the missing fill primitive; callers fall back to a
// staged zero write.
func (q *Queue) Fill(dst backend.Buffer, size uint64) error {
	return backend.ErrFillUnsupported
}

// Flush submits an empty command buffer with a fence and waits for it,
// draining all previously enqueued work (fences signal in submission
// order). Staged queue writes are committed by the submission.
func (q *Queue) Flush() error {
	encoder, err := q.dev.dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "vecbuf_flush",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("vecbuf_flush"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer q.dev.dev.FreeCommandBuffer(cmdBuf)

	return q.submitAndWait([]hal.CommandBuffer{cmdBuf})
}

// submitAndWait submits command buffers with a fence and blocks until the
// fence signals.
func (q *Queue) submitAndWait(cmdBufs []hal.CommandBuffer) error {
	fence, err := q.dev.dev.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer q.dev.dev.DestroyFence(fence)

	if err := q.queue.Submit(cmdBufs, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	fenceOK, err := q.dev.dev.Wait(fence, 1, waitTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wgpu: wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}
