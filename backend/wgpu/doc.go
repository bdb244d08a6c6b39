// Package wgpu adapts an externally created gogpu/wgpu HAL device and
// queue to the vecbuf backend contracts.
//
// The adapter never creates, selects, or destroys the underlying platform
// device; those handles are owned by the surrounding application. Buffer
// reads go through a transient staging buffer with a fence-synchronized
// submit, making backend.Queue.Read blocking as required. The HAL exposes
// no zero-fill primitive, so Capabilities().FillBuffer is false and
// zero-fill callers take the staged-write path.
package wgpu
