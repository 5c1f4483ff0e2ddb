package app

import (
	"context"
	"sync"
	"time"

	"staymi/pkg/logger"
)

const sweepBatch = 100

type staleOrderExpirer interface {
	ExpireStale(ctx context.Context, limit int) (int, error)
}

// OrderSweeper gives rooms and product stock back from checkouts that were
// never paid, once their hold lapses.
type OrderSweeper struct {
	orders   staleOrderExpirer
	interval time.Duration
	timeout  time.Duration
	log      *logger.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewOrderSweeper(orders staleOrderExpirer, interval, timeout time.Duration, log *logger.Logger) *OrderSweeper {
	return &OrderSweeper{
		orders:   orders,
		interval: interval,
		timeout:  timeout,
		log:      log,
		stopCh:   make(chan struct{}),
	}
}

func (s *OrderSweeper) Start() {
	go s.run()
}

func (s *OrderSweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep expires stale orders batch by batch until a batch comes back short.
func (s *OrderSweeper) sweep() int {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var total int
	for {
		n, err := s.orders.ExpireStale(ctx, sweepBatch)
		total += n
		if err != nil {
			s.log.Error("Order sweep failed", "expired", total, "error", err)
			break
		}
		if n < sweepBatch {
			break
		}
	}
	if total > 0 {
		s.log.Info("Expired unpaid orders", "count", total)
	}
	return total
}

func (s *OrderSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
