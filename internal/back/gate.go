package back

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Gate bounds how many upstream API calls may be in flight at any instant.
// The default capacity of 1 fully serializes lookups to respect the rate
// limits of the shared BAR API.
type Gate struct {
	sem *semaphore.Weighted
}

func NewGate(capacity int64) *Gate {
	if capacity < 1 {
		capacity = 1
	}

	return &Gate{sem: semaphore.NewWeighted(capacity)}
}

// Acquire blocks until a slot is free or ctx expires.
func (g *Gate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

func (g *Gate) Release() {
	g.sem.Release(1)
}
