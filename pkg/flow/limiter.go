package flow

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Limiter bounds how many calls run at once. A slot is always released, even
// when fn panics.
type Limiter struct {
	sem      *semaphore.Weighted
	inFlight atomic.Int64
}

func NewLimiter(max int) *Limiter {
	if max < 1 {
		max = 1
	}
	return &Limiter{sem: semaphore.NewWeighted(int64(max))}
}

// Run waits for a free slot or ctx cancellation, then runs fn.
func (l *Limiter) Run(ctx context.Context, fn func() error) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	l.inFlight.Add(1)
	defer func() {
		l.inFlight.Add(-1)
		l.sem.Release(1)
	}()

	return fn()
}

func (l *Limiter) InFlight() int {
	return int(l.inFlight.Load())
}
