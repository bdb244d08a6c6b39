package vecbuf

import "errors"

// Buffer errors.
var (
	// ErrNilDevice is returned when constructing a buffer without a device.
	ErrNilDevice = errors.New("vecbuf: device is nil")

	// ErrNilQueue is returned when a transfer is requested without a queue.
	ErrNilQueue = errors.New("vecbuf: queue is nil")

	// ErrInvalidAccess is returned when the access flags name no valid
	// kernel-access intent.
	ErrInvalidAccess = errors.New("vecbuf: invalid access flags")

	// ErrBudgetExceeded is returned when an allocation would exceed the
	// tracker's memory budget.
	ErrBudgetExceeded = errors.New("vecbuf: memory budget exceeded")
)
