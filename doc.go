// Package vecbuf provides device-resident storage for arrays of
// 3-component vectors, as used by GPU-accelerated numerical simulations
// for per-entity quantities such as position, spin, or field values.
//
// # Overview
//
// The central type is [Buffer3]: it owns at most one accelerator memory
// allocation sized for N vector elements and exposes host-to-device upload,
// device-to-host readback, device-to-device duplication, zero-fill, raw
// handle access for kernel dispatch, and deterministic release. The package
// performs no numeric computation itself; it is a storage primitive that a
// larger simulation engine composes with.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/vecbuf"
//	    "github.com/gogpu/vecbuf/backend"
//	)
//
//	dev := backend.NewSoftwareDevice()
//	q := dev.Queue()
//
//	xs := []float64{1, 2}
//	ys := []float64{3, 4}
//	zs := []float64{5, 6}
//
//	spins, err := vecbuf.NewFromComponents(dev, q, vecbuf.AccessReadWrite, xs, ys, zs)
//	if err != nil {
//	    // allocation or transfer failure
//	}
//	defer spins.Free()
//
//	// pass spins.Buffer() to kernel dispatch ...
//
// # Backends
//
// Device memory is reached through the narrow [backend.Device] and
// [backend.Queue] interfaces. The backend package ships an in-memory
// software device; backend/wgpu adapts an externally created
// gogpu/wgpu HAL device and queue. Creating or selecting devices and
// queues is out of scope: collaborators own those handles.
//
// # Synchronization
//
// Every data-transfer operation is a synchronization point and blocks the
// calling thread until the underlying device work finishes. A Buffer3
// instance is not safe for concurrent use; host-side orchestration is
// assumed single-threaded per instance.
package vecbuf
