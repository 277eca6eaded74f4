// Package repository defines the scored-result store interface and errors.
package repository

import (
	"context"

	"github.com/woolshed/flockmark/internal/domain/model"
)

// Store provides read access to the most recent calculate run. Results are
// replaced wholesale per run; there is no incremental update path.
type Store interface {
	// Replace swaps in the results of a new run, in creation order.
	Replace(ctx context.Context, animals []model.ScoredAnimal) error

	// All returns every scored animal in creation order.
	All(ctx context.Context) []model.ScoredAnimal

	// TopN returns the n highest-marked animals, ties broken by creation
	// order.
	TopN(ctx context.Context, n int) ([]model.ScoredAnimal, error)

	// Get looks an animal up by internal id or any stored identifier.
	// Returns ErrNotFound when unknown.
	Get(ctx context.Context, key string) (model.ScoredAnimal, error)

	// Count returns the number of animals in the current run.
	Count(ctx context.Context) int

	// Classifications returns animal counts per classification tier.
	Classifications(ctx context.Context) map[string]int
}
