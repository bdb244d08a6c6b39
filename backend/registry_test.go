package backend

import (
	"errors"
	"testing"
)

func TestSoftwareRegistered(t *testing.T) {
	if !IsRegistered(BackendSoftware) {
		t.Fatal("software backend should self-register")
	}

	found := false
	for _, name := range Available() {
		if name == BackendSoftware {
			found = true
		}
	}
	if !found {
		t.Errorf("Available() = %v, missing %q", Available(), BackendSoftware)
	}
}

func TestGet(t *testing.T) {
	dev, q, err := Get(BackendSoftware)
	if err != nil {
		t.Fatalf("Get(software) error = %v", err)
	}
	defer dev.Close()

	if dev.Name() != BackendSoftware {
		t.Errorf("Name() = %q, want %q", dev.Name(), BackendSoftware)
	}
	if q == nil {
		t.Error("Get() returned nil queue")
	}
}

func TestGetUnknown(t *testing.T) {
	_, _, err := Get("no-such-backend")
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Get(unknown): error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestRegisterUnregister(t *testing.T) {
	const name = "test-backend"
	Register(name, func() (Device, Queue, error) {
		dev := NewSoftwareDevice()
		return dev, dev.Queue(), nil
	})
	defer Unregister(name)

	if !IsRegistered(name) {
		t.Fatal("backend should be registered")
	}
	dev, _, err := Get(name)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	dev.Close()

	Unregister(name)
	if IsRegistered(name) {
		t.Error("backend should be unregistered")
	}
}

func TestDefault(t *testing.T) {
	// The wgpu backend is not registered here, so Default falls back to
	// the software device.
	dev, q, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	defer dev.Close()

	if dev.Name() != BackendSoftware {
		t.Errorf("Name() = %q, want %q", dev.Name(), BackendSoftware)
	}
	if q == nil {
		t.Error("Default() returned nil queue")
	}
}
