// Package api exposes the flockmark service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/woolshed/flockmark/internal/adapters/repository"
	"github.com/woolshed/flockmark/internal/adapters/rubricstore"
	"github.com/woolshed/flockmark/internal/app"
	"github.com/woolshed/flockmark/internal/domain/fusion"
	"github.com/woolshed/flockmark/internal/domain/model"
	"github.com/woolshed/flockmark/internal/domain/scoring"
	"github.com/woolshed/flockmark/internal/domain/stats"
	"github.com/woolshed/flockmark/pkg/logger"
)

// Service is the application surface the HTTP handlers depend on.
type Service interface {
	LoadBatch(ctx context.Context, batch model.BatchType, records []model.Record) error
	BatchCounts(ctx context.Context) map[model.BatchType]int
	ClearBatches(ctx context.Context)

	Rubric(ctx context.Context) scoring.Rubric
	SetRubric(ctx context.Context, r scoring.Rubric) error

	Calculate(ctx context.Context) (fusion.RunStats, error)

	Animals(ctx context.Context) []model.ScoredAnimal
	TopN(ctx context.Context, n int) ([]model.ScoredAnimal, error)
	Animal(ctx context.Context, key string) (model.ScoredAnimal, error)

	Summary(ctx context.Context) stats.Summary
	CriteriaAverages(ctx context.Context) map[string]stats.FieldStats
	LastRun(ctx context.Context) fusion.RunStats

	SaveRubric(ctx context.Context, name string, r scoring.Rubric) error
	SavedRubric(ctx context.Context, name string) (scoring.Rubric, error)
	ListRubrics(ctx context.Context) ([]string, error)
	DeleteRubric(ctx context.Context, name string) error
}

// Server wires the HTTP handlers to the service.
type Server struct {
	service  Service
	topLimit int
	logger   logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithTopLimit caps the limit accepted by the top-animals endpoint.
func WithTopLimit(limit int) Option {
	return func(s *Server) {
		if limit > 0 {
			s.topLimit = limit
		}
	}
}

// WithLogger sets a custom logger for the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer constructs a Server for the given service.
func NewServer(service Service, opts ...Option) *Server {
	s := &Server{
		service:  service,
		topLimit: 500,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	return s
}

// Register attaches every route to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.Handle("PUT /batches/{type}", s.metrics("/batches/{type}", s.handleLoadBatch))
	mux.Handle("GET /batches", s.metrics("/batches", s.handleBatchCounts))
	mux.Handle("DELETE /batches", s.metrics("/batches", s.handleClearBatches))

	mux.Handle("GET /rubric", s.metrics("/rubric", s.handleGetRubric))
	mux.Handle("PUT /rubric", s.metrics("/rubric", s.handleSetRubric))

	mux.Handle("GET /rubrics", s.metrics("/rubrics", s.handleListRubrics))
	mux.Handle("GET /rubrics/{name}", s.metrics("/rubrics/{name}", s.handleGetSavedRubric))
	mux.Handle("PUT /rubrics/{name}", s.metrics("/rubrics/{name}", s.handleSaveRubric))
	mux.Handle("DELETE /rubrics/{name}", s.metrics("/rubrics/{name}", s.handleDeleteRubric))

	mux.Handle("POST /calculate", s.metrics("/calculate", s.handleCalculate))

	mux.Handle("GET /animals", s.metrics("/animals", s.handleAnimals))
	mux.Handle("GET /animals/top", s.metrics("/animals/top", s.handleTopAnimals))
	mux.Handle("GET /animals/{key}", s.metrics("/animals/{key}", s.handleAnimal))

	mux.Handle("GET /stats", s.metrics("/stats", s.handleStats))

	mux.Handle("GET /healthz", s.metrics("/healthz", s.handleHealth))
	mux.Handle("GET /metrics", s.metricsHandler())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, rubricstore.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, app.ErrUnknownBatch),
		errors.Is(err, repository.ErrInvalidLimit),
		errors.Is(err, scoring.ErrInvalidRubric),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, app.ErrRubricStoreDisabled):
		status = http.StatusNotImplemented
	case errors.Is(err, app.ErrNotStarted):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
