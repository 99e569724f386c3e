package shared

import "context"

// Invalidator drops derived read models after a write.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Bump calls inv when it is set. A failed bump never fails the write that
// triggered it; stale entries still expire with the cache TTL.
func Bump(ctx context.Context, inv Invalidator) {
	if inv == nil {
		return
	}
	_ = inv.Bump(ctx)
}
