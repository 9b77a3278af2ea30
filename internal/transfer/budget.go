package transfer

import "context"

// Budget limits the number of transfers in flight across the whole process.
// Acquire blocks until a slot frees up or the context ends; Release must be
// called exactly once per successful Acquire, regardless of task outcome.
type Budget struct {
	slots chan struct{}
}

// NewBudget creates a budget admitting at most limit concurrent holders.
// A non-positive limit is treated as 1.
func NewBudget(limit int) *Budget {
	if limit < 1 {
		limit = 1
	}
	return &Budget{slots: make(chan struct{}, limit)}
}

// Acquire claims a slot, blocking until one is available.
func (b *Budget) Acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a slot to the budget.
func (b *Budget) Release() {
	select {
	case <-b.slots:
	default:
		panic("transfer: Release without matching Acquire")
	}
}

// InFlight reports the number of currently held slots.
func (b *Budget) InFlight() int {
	return len(b.slots)
}

// Limit reports the configured concurrency cap.
func (b *Budget) Limit() int {
	return cap(b.slots)
}
