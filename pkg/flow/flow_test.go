package flow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "staymi/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutState struct {
	visited []string
}

func record(name string) *Step[checkoutState] {
	return NewStep(name, func(ctx context.Context, s *checkoutState) error {
		s.visited = append(s.visited, name)
		return nil
	})
}

func TestPipeline_RunsStepsInOrder(t *testing.T) {
	p := NewPipeline("checkout", record("validate"), record("price"), record("reserve"))
	state := &checkoutState{}

	require.NoError(t, p.Run(context.Background(), state))
	assert.Equal(t, []string{"validate", "price", "reserve"}, state.visited)
	assert.Equal(t, "checkout", p.Name())
}

func TestPipeline_StopsAtFirstFailureAndKeepsCause(t *testing.T) {
	conflict := apperrors.Conflict("no rooms left")
	failing := NewStep("reserve", func(ctx context.Context, s *checkoutState) error {
		return conflict
	})
	p := NewPipeline("checkout", record("validate"), failing, record("pay"))
	state := &checkoutState{}

	err := p.Run(context.Background(), state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserve step failed")
	assert.Equal(t, []string{"validate"}, state.visited)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestPipeline_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state := &checkoutState{}
	err := NewPipeline("checkout", record("validate")).Run(ctx, state)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, state.visited)
}

func TestLimiter_BoundsConcurrency(t *testing.T) {
	l := NewLimiter(2)
	var current, peak int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Run(context.Background(), func() error {
				n := atomic.AddInt32(&current, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&current, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.Equal(t, 0, l.InFlight())
}

func TestLimiter_ReleasesSlotOnPanic(t *testing.T) {
	l := NewLimiter(1)
	func() {
		defer func() { _ = recover() }()
		_ = l.Run(context.Background(), func() error { panic("boom") })
	}()
	assert.Equal(t, 0, l.InFlight())
}

func TestLimiter_ContextCancelledWhileWaiting(t *testing.T) {
	l := NewLimiter(1)
	release := make(chan struct{})
	go func() {
		_ = l.Run(context.Background(), func() error { <-release; return nil })
	}()
	for l.InFlight() == 0 {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := l.Run(ctx, func() error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
}
