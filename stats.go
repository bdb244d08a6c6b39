package vecbuf

import (
	"fmt"
	"sync"
)

// MemStats contains device memory usage statistics for tracked buffers.
type MemStats struct {
	// UsedBytes is the currently allocated memory in bytes.
	UsedBytes uint64

	// PeakBytes is the high-water mark of allocated memory.
	PeakBytes uint64

	// BufferCount is the number of live tracked allocations.
	BufferCount int

	// BudgetBytes is the memory budget, or 0 when unlimited.
	BudgetBytes uint64
}

// String returns a human-readable string of memory stats.
func (s MemStats) String() string {
	if s.BudgetBytes == 0 {
		return fmt.Sprintf("Memory[%d bytes used, peak %d, %d buffers]",
			s.UsedBytes, s.PeakBytes, s.BufferCount)
	}
	return fmt.Sprintf("Memory[%d/%d bytes used, peak %d, %d buffers]",
		s.UsedBytes, s.BudgetBytes, s.PeakBytes, s.BufferCount)
}

// Tracker accounts for device memory held by buffers and optionally
// enforces a budget. Attach one to buffers via WithTracker; a simulation
// typically shares a single tracker across all of its field buffers.
//
// Tracker is safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	budget uint64
	used   uint64
	peak   uint64
	count  int
}

// NewTracker creates a tracker with the given budget in bytes.
// A budget of 0 means unlimited.
func NewTracker(budgetBytes uint64) *Tracker {
	return &Tracker{budget: budgetBytes}
}

// Stats returns current memory usage statistics.
func (t *Tracker) Stats() MemStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return MemStats{
		UsedBytes:   t.used,
		PeakBytes:   t.peak,
		BufferCount: t.count,
		BudgetBytes: t.budget,
	}
}

// reserve accounts for an allocation of size bytes, failing when it would
// exceed the budget.
func (t *Tracker) reserve(size uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.budget > 0 && t.used+size > t.budget {
		return fmt.Errorf("%w: need %d bytes, %d of %d in use",
			ErrBudgetExceeded, size, t.used, t.budget)
	}
	t.used += size
	t.count++
	if t.used > t.peak {
		t.peak = t.used
	}
	return nil
}

// release returns size bytes to the tracker.
func (t *Tracker) release(size uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if size > t.used {
		Logger().Warn("vecbuf: releasing more memory than tracked",
			"release", size, "used", t.used)
		t.used = 0
	} else {
		t.used -= size
	}
	if t.count > 0 {
		t.count--
	}
}
