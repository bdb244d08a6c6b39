package backend

import (
	"sync"
)

// Factory creates a device and its queue.
type Factory func() (Device, Queue, error)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	// An application that wires up a wgpu device registers it under
	// BackendWGPU; the software device is the fallback.
	backendPriority = []string{BackendWGPU, BackendSoftware}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages, or
// by applications after preparing platform handles. If a backend with the
// same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns a list of registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a device and queue by backend name.
// Returns ErrBackendNotAvailable if the backend is not registered.
func Get(name string) (Device, Queue, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, nil, ErrBackendNotAvailable
	}
	return factory()
}

// Default returns the best available backend based on priority.
// Priority order: wgpu > software.
func Default() (Device, Queue, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			dev, q, err := factory()
			if err == nil {
				return dev, q, nil
			}
		}
	}

	return nil, nil, ErrBackendNotAvailable
}
