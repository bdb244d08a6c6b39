package vecbuf

import "github.com/gogpu/vecbuf/backend"

// AccessFlags is re-exported from the backend package so that callers of
// the buffer constructors do not need a second import for the common case.
type AccessFlags = backend.AccessFlags

// Kernel-access intents for device buffers.
const (
	AccessReadOnly  = backend.AccessReadOnly
	AccessWriteOnly = backend.AccessWriteOnly
	AccessReadWrite = backend.AccessReadWrite
)
