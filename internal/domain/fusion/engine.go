package fusion

import (
	"context"
	"math"
	"time"

	"github.com/woolshed/flockmark/internal/domain/model"
	"github.com/woolshed/flockmark/pkg/logger"
	"github.com/woolshed/flockmark/pkg/metrics"
)

// Batches maps each event batch kind to its ordered records.
type Batches map[model.BatchType][]model.Record

// RunStats summarizes one fusion run. Dropped records are counted but never
// surface as errors; drop-and-continue is part of the engine contract.
type RunStats struct {
	Records        int                     `json:"records"`
	Animals        int                     `json:"animals"`
	Dropped        int                     `json:"dropped"`
	DroppedByBatch map[model.BatchType]int `json:"droppedByBatch,omitempty"`
}

// DropObserver is notified for every record that carried no recognized
// identifier and was skipped.
type DropObserver func(batch model.BatchType, rec model.Record)

// Engine fuses event batches into canonical animal records.
type Engine struct {
	dropObserver DropObserver
	logger       logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDropObserver registers a callback for dropped records.
func WithDropObserver(fn DropObserver) Option {
	return func(e *Engine) {
		e.dropObserver = fn
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New constructs a fusion engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run merges all batches in the canonical order and returns the animals in
// creation order. Each call builds a fresh registry; the engine itself holds
// no run state and is safe to reuse sequentially.
func (e *Engine) Run(ctx context.Context, batches Batches) ([]*model.Animal, RunStats) {
	start := time.Now()
	reg := newRegistry()
	stats := RunStats{DroppedByBatch: make(map[model.BatchType]int)}

	e.apply(ctx, reg, &stats, model.BatchRegistrations, batches, mergeRegistration)
	e.apply(ctx, reg, &stats, model.BatchW1, batches, mergeFirstWeight)
	e.apply(ctx, reg, &stats, model.BatchW2, batches, mergeSecondWeight)

	// ADG is derived once, after all w1/w2 merging and before the fiber
	// batches are applied.
	for _, a := range reg.animals {
		deriveADG(a)
	}

	e.apply(ctx, reg, &stats, model.BatchFleeceWeight, batches, mergeFleeceWeight)
	e.apply(ctx, reg, &stats, model.BatchWTB, batches, mergeWoolTestBureau)
	e.apply(ctx, reg, &stats, model.BatchOFDA, batches, mergeWoolTestOFDA)
	e.apply(ctx, reg, &stats, model.BatchMarks, batches, mergeVisualScores)
	e.apply(ctx, reg, &stats, model.BatchBCS, batches, mergeBCSFallback)
	e.apply(ctx, reg, &stats, model.BatchMotherRepro, batches, mergeMotherRepro)

	stats.Animals = len(reg.animals)
	if len(stats.DroppedByBatch) == 0 {
		stats.DroppedByBatch = nil
	}

	metrics.RecordFusionDuration(float64(time.Since(start).Milliseconds()))
	metrics.UpdateAnimalCount(stats.Animals)

	if e.logger != nil {
		e.logger.Info(ctx, "fusion run complete",
			logger.Int("records", stats.Records),
			logger.Int("animals", stats.Animals),
			logger.Int("dropped", stats.Dropped),
		)
	}
	return reg.animals, stats
}

// apply resolves and merges every record of one batch.
func (e *Engine) apply(ctx context.Context, reg *registry, stats *RunStats, batch model.BatchType, batches Batches, merge func(*model.Animal, model.Record)) {
	for _, rec := range batches[batch] {
		stats.Records++
		a, ok := reg.resolve(rec)
		if !ok {
			stats.Dropped++
			stats.DroppedByBatch[batch]++
			metrics.RecordRecordDropped(string(batch))
			if e.dropObserver != nil {
				e.dropObserver(batch, rec)
			}
			if e.logger != nil {
				e.logger.Debug(ctx, "record carries no recognized identifier, skipping",
					logger.String("batch", string(batch)),
				)
			}
			continue
		}
		merge(a, rec)
	}
}

// deriveADG computes average daily gain when both weights and both dates are
// known and the day delta is nonzero.
func deriveADG(a *model.Animal) {
	if a.W1 == nil || a.W2 == nil || a.W1Date == nil || a.W2Date == nil {
		return
	}
	days := math.Abs(a.W2Date.Sub(*a.W1Date).Hours() / 24)
	if days > 0 {
		adg := (*a.W2 - *a.W1) / days
		a.ADG = &adg
	}
}
