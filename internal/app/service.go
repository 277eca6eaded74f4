// Package app provides the core business service that implements the
// dependencies required by the HTTP API and the CLI.
package app

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/woolshed/flockmark/internal/adapters/pool"
	"github.com/woolshed/flockmark/internal/adapters/repository"
	"github.com/woolshed/flockmark/internal/adapters/rubricstore"
	"github.com/woolshed/flockmark/internal/domain/fusion"
	"github.com/woolshed/flockmark/internal/domain/model"
	"github.com/woolshed/flockmark/internal/domain/scoring"
	"github.com/woolshed/flockmark/internal/domain/stats"
	"github.com/woolshed/flockmark/pkg/logger"
	"github.com/woolshed/flockmark/pkg/metrics"
)

// Service holds the loaded batches, the active rubric, and the results of
// the most recent calculate run.
type Service struct {
	mu sync.RWMutex

	// Core components.
	engine  *fusion.Engine
	scorers *pool.Pool
	results repository.Store
	rubrics *rubricstore.DB

	// Run inputs.
	batches fusion.Batches
	rubric  scoring.Rubric

	// Last run outputs.
	lastRun fusion.RunStats

	// Configuration.
	workerCount  int
	rubricDBPath string

	// State.
	started bool

	// Logging.
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of scoring workers per run.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithRubric sets the initial rubric.
func WithRubric(r scoring.Rubric) Option {
	return func(s *Service) {
		s.rubric = r
	}
}

// WithRubricDB enables sqlite persistence of named rubrics at path.
func WithRubricDB(path string) Option {
	return func(s *Service) {
		s.rubricDBPath = path
	}
}

// WithResultStore sets a custom result store.
func WithResultStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.results = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		batches:     make(fusion.Batches),
		rubric:      scoring.DefaultRubric(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.engine = fusion.New(fusion.WithLogger(s.logger.Named("fusion")))
	s.scorers = pool.New(
		pool.WithWorkers(s.workerCount),
		pool.WithLogger(s.logger.Named("scoring")),
	)
	if s.results == nil {
		s.results = repository.NewMemStore()
	}
	if s.rubricDBPath != "" {
		db, err := rubricstore.Open(s.rubricDBPath)
		if err != nil {
			return fmt.Errorf("open rubric store: %w", err)
		}
		s.rubrics = db
	}

	s.started = true
	s.logger.Info(ctx, "flockmark service started",
		logger.Int("scoringWorkers", s.workerCount),
		logger.String("rubricDB", s.rubricDBPath),
	)
	return nil
}

// Stop releases service resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.rubrics != nil {
		_ = s.rubrics.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "flockmark service stopped")
}

// LoadBatch replaces the records of one event batch.
func (s *Service) LoadBatch(ctx context.Context, batch model.BatchType, records []model.Record) error {
	if !model.KnownBatch(batch) {
		return fmt.Errorf("%w: %s", ErrUnknownBatch, batch)
	}
	s.mu.Lock()
	s.batches[batch] = records
	s.mu.Unlock()

	metrics.RecordBatchLoaded(string(batch), len(records))
	s.logger.Info(ctx, "batch loaded",
		logger.String("batch", string(batch)),
		logger.Int("records", len(records)),
	)
	return nil
}

// BatchCounts returns the record count of every loaded batch.
func (s *Service) BatchCounts(_ context.Context) map[model.BatchType]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[model.BatchType]int, len(s.batches))
	for batch, records := range s.batches {
		out[batch] = len(records)
	}
	return out
}

// ClearBatches drops all loaded batches.
func (s *Service) ClearBatches(ctx context.Context) {
	s.mu.Lock()
	s.batches = make(fusion.Batches)
	s.mu.Unlock()
	s.logger.Info(ctx, "all batches cleared")
}

// Rubric returns the active rubric.
func (s *Service) Rubric(_ context.Context) scoring.Rubric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rubric
}

// SetRubric validates and replaces the active rubric.
func (s *Service) SetRubric(_ context.Context, r scoring.Rubric) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.rubric = r
	s.mu.Unlock()
	return nil
}

// Calculate fuses the loaded batches and scores every animal against the
// active rubric, replacing the result set. Re-running with unchanged inputs
// reproduces an identical animal list.
func (s *Service) Calculate(ctx context.Context) (fusion.RunStats, error) {
	s.mu.RLock()
	started := s.started
	batches := make(fusion.Batches, len(s.batches))
	for batch, records := range s.batches {
		batches[batch] = records
	}
	rubric := s.rubric
	s.mu.RUnlock()

	if !started {
		return fusion.RunStats{}, ErrNotStarted
	}

	animals, runStats := s.engine.Run(ctx, batches)

	scored := s.scorers.Map(ctx, animals, func(_ context.Context, a *model.Animal) model.ScoredAnimal {
		return scoring.Apply(a, rubric)
	})
	if err := ctx.Err(); err != nil {
		return fusion.RunStats{}, fmt.Errorf("calculate cancelled: %w", err)
	}

	if err := s.results.Replace(ctx, scored); err != nil {
		return fusion.RunStats{}, fmt.Errorf("store results: %w", err)
	}

	s.mu.Lock()
	s.lastRun = runStats
	s.mu.Unlock()

	metrics.RecordCalculateRun()
	for _, tier := range []string{scoring.ClassStud, scoring.ClassFlock, scoring.ClassSecondFlock, scoring.ClassCull} {
		metrics.UpdateClassificationCount(tier, 0)
	}
	for tier, n := range s.results.Classifications(ctx) {
		metrics.UpdateClassificationCount(tier, n)
	}

	s.logger.Info(ctx, "calculate run complete",
		logger.Int("records", runStats.Records),
		logger.Int("animals", runStats.Animals),
		logger.Int("dropped", runStats.Dropped),
	)
	return runStats, nil
}

// Animals returns every scored animal in creation order.
func (s *Service) Animals(ctx context.Context) []model.ScoredAnimal {
	return s.results.All(ctx)
}

// TopN returns the n highest-marked animals.
func (s *Service) TopN(ctx context.Context, n int) ([]model.ScoredAnimal, error) {
	return s.results.TopN(ctx, n)
}

// Animal looks one animal up by internal id or any identifier.
func (s *Service) Animal(ctx context.Context, key string) (model.ScoredAnimal, error) {
	return s.results.Get(ctx, key)
}

// Summary returns herd statistics over the most recent run.
func (s *Service) Summary(ctx context.Context) stats.Summary {
	return stats.Summarize(s.results.All(ctx))
}

// CriteriaAverages returns metric spreads over the most recent run.
func (s *Service) CriteriaAverages(ctx context.Context) map[string]stats.FieldStats {
	return stats.CriteriaAverages(s.results.All(ctx))
}

// LastRun returns the fusion stats of the most recent calculate run.
func (s *Service) LastRun(_ context.Context) fusion.RunStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// SaveRubric persists the given rubric under name.
func (s *Service) SaveRubric(ctx context.Context, name string, r scoring.Rubric) error {
	if s.rubrics == nil {
		return ErrRubricStoreDisabled
	}
	return s.rubrics.Save(ctx, name, r)
}

// SavedRubric returns the rubric persisted under name.
func (s *Service) SavedRubric(ctx context.Context, name string) (scoring.Rubric, error) {
	if s.rubrics == nil {
		return scoring.Rubric{}, ErrRubricStoreDisabled
	}
	return s.rubrics.Get(ctx, name)
}

// ListRubrics returns the persisted rubric names.
func (s *Service) ListRubrics(ctx context.Context) ([]string, error) {
	if s.rubrics == nil {
		return nil, ErrRubricStoreDisabled
	}
	return s.rubrics.List(ctx)
}

// DeleteRubric removes the rubric persisted under name.
func (s *Service) DeleteRubric(ctx context.Context, name string) error {
	if s.rubrics == nil {
		return ErrRubricStoreDisabled
	}
	return s.rubrics.Delete(ctx, name)
}
