package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/vecbuf/backend"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func TestNew(t *testing.T) {
	halDev, halQueue, cleanup := createNoopDevice(t)
	defer cleanup()

	dev, q, err := New(halDev, halQueue, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer dev.Close()

	if dev.Name() != backend.BackendWGPU {
		t.Errorf("Name() = %q, want %q", dev.Name(), backend.BackendWGPU)
	}
	if q == nil {
		t.Fatal("New() returned nil queue")
	}
}

func TestNewNilHandles(t *testing.T) {
	halDev, halQueue, cleanup := createNoopDevice(t)
	defer cleanup()

	if _, _, err := New(nil, halQueue, nil); !errors.Is(err, ErrNilHALDevice) {
		t.Errorf("nil device: error = %v, want ErrNilHALDevice", err)
	}
	if _, _, err := New(halDev, nil, nil); !errors.Is(err, ErrNilHALQueue) {
		t.Errorf("nil queue: error = %v, want ErrNilHALQueue", err)
	}
}

func TestCreateBuffer(t *testing.T) {
	halDev, halQueue, cleanup := createNoopDevice(t)
	defer cleanup()

	dev, _, err := New(halDev, halQueue, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer dev.Close()

	buf, err := dev.CreateBuffer(256, backend.AccessReadWrite)
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	if buf.Size() != 256 {
		t.Errorf("Size() = %d, want 256", buf.Size())
	}

	wb, ok := buf.(*Buffer)
	if !ok {
		t.Fatalf("CreateBuffer() returned %T, want *Buffer", buf)
	}
	if wb.Access() != backend.AccessReadWrite {
		t.Errorf("Access() = %v, want ReadWrite", wb.Access())
	}
	if wb.Raw() == nil {
		t.Error("Raw() = nil, want live handle")
	}

	dev.DestroyBuffer(buf)
	if wb.Raw() != nil {
		t.Error("Raw() should be nil after DestroyBuffer")
	}
	// Destroying twice must be harmless.
	dev.DestroyBuffer(buf)
}

func TestCreateBufferInvalidAccess(t *testing.T) {
	halDev, halQueue, cleanup := createNoopDevice(t)
	defer cleanup()

	dev, _, err := New(halDev, halQueue, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer dev.Close()

	if _, err := dev.CreateBuffer(16, 0); !errors.Is(err, backend.ErrInvalidAccess) {
		t.Errorf("CreateBuffer(0): error = %v, want ErrInvalidAccess", err)
	}
}

func TestCreateBufferClosed(t *testing.T) {
	halDev, halQueue, cleanup := createNoopDevice(t)
	defer cleanup()

	dev, _, err := New(halDev, halQueue, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	dev.Close()

	if _, err := dev.CreateBuffer(16, backend.AccessReadOnly); !errors.Is(err, backend.ErrDeviceClosed) {
		t.Errorf("CreateBuffer() on closed adapter: error = %v, want ErrDeviceClosed", err)
	}
}

func TestCapabilities(t *testing.T) {
	halDev, halQueue, cleanup := createNoopDevice(t)
	defer cleanup()

	limits := gputypes.DefaultLimits()
	dev, _, err := New(halDev, halQueue, &limits)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer dev.Close()

	caps := dev.Capabilities()
	if caps.FillBuffer {
		t.Error("FillBuffer = true, want false: the HAL has no fill primitive")
	}
	if caps.MaxBufferSize != limits.MaxBufferSize {
		t.Errorf("MaxBufferSize = %d, want %d", caps.MaxBufferSize, limits.MaxBufferSize)
	}
}

func TestFillUnsupported(t *testing.T) {
	halDev, halQueue, cleanup := createNoopDevice(t)
	defer cleanup()

	dev, q, err := New(halDev, halQueue, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer dev.Close()

	buf, err := dev.CreateBuffer(64, backend.AccessReadWrite)
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	defer dev.DestroyBuffer(buf)

	if err := q.Fill(buf, 64); !errors.Is(err, backend.ErrFillUnsupported) {
		t.Errorf("Fill() error = %v, want ErrFillUnsupported", err)
	}
}

func TestQueueNilBuffer(t *testing.T) {
	halDev, halQueue, cleanup := createNoopDevice(t)
	defer cleanup()

	dev, q, err := New(halDev, halQueue, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer dev.Close()

	if err := q.Write(nil, 0, []byte{1}); !errors.Is(err, backend.ErrNilBuffer) {
		t.Errorf("Write(nil): error = %v, want ErrNilBuffer", err)
	}
	if err := q.Read(nil, 0, make([]byte, 1)); !errors.Is(err, backend.ErrNilBuffer) {
		t.Errorf("Read(nil): error = %v, want ErrNilBuffer", err)
	}
	if err := q.Copy(nil, nil, 1); !errors.Is(err, backend.ErrNilBuffer) {
		t.Errorf("Copy(nil): error = %v, want ErrNilBuffer", err)
	}
}

// The noop backend executes submissions without doing work; these verify
// the command plumbing does not error, not data movement.
func TestQueuePlumbing(t *testing.T) {
	halDev, halQueue, cleanup := createNoopDevice(t)
	defer cleanup()

	dev, q, err := New(halDev, halQueue, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer dev.Close()

	src, err := dev.CreateBuffer(64, backend.AccessReadOnly)
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	defer dev.DestroyBuffer(src)
	dst, err := dev.CreateBuffer(64, backend.AccessWriteOnly)
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	defer dev.DestroyBuffer(dst)

	if err := q.Write(src, 0, make([]byte, 64)); err != nil {
		t.Errorf("Write() error = %v", err)
	}
	if err := q.Copy(dst, src, 64); err != nil {
		t.Errorf("Copy() error = %v", err)
	}
	if err := q.Flush(); err != nil {
		t.Errorf("Flush() error = %v", err)
	}

	// Zero-length transfers are no-ops.
	if err := q.Write(src, 0, nil); err != nil {
		t.Errorf("Write(empty) error = %v", err)
	}
	if err := q.Read(src, 0, nil); err != nil {
		t.Errorf("Read(empty) error = %v", err)
	}
}
