// Package pool runs per-animal scoring across a fixed set of workers.
// Scoring is pure per animal, so the fan-out is an optimization only;
// a single worker degenerates to the sequential reference behavior.
package pool

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/woolshed/flockmark/internal/domain/model"
	"github.com/woolshed/flockmark/pkg/logger"
	"github.com/woolshed/flockmark/pkg/metrics"
)

// ScoreFunc evaluates one fused animal.
type ScoreFunc func(ctx context.Context, a *model.Animal) model.ScoredAnimal

// Pool distributes scoring work over a bounded number of goroutines while
// preserving input order in the results.
type Pool struct {
	workers int
	logger  logger.Logger
}

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkers sets the number of scoring goroutines.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a pool with default configuration.
func New(opts ...Option) *Pool {
	p := &Pool{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Map scores every animal and returns the results in input order. Work stops
// early when ctx is cancelled; unprocessed slots keep zero values, so callers
// should treat a cancelled context's results as incomplete.
func (p *Pool) Map(ctx context.Context, animals []*model.Animal, score ScoreFunc) []model.ScoredAnimal {
	results := make([]model.ScoredAnimal, len(animals))
	if len(animals) == 0 {
		return results
	}

	workers := p.workers
	if workers > len(animals) {
		workers = len(animals)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				start := time.Now()
				results[idx] = score(ctx, animals[idx])
				metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
			}
		}()
	}

feed:
	for i := range animals {
		select {
		case jobs <- i:
		case <-ctx.Done():
			if p.logger != nil {
				p.logger.Warn(ctx, "scoring cancelled", logger.Int("remaining", len(animals)-i))
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	return results
}
