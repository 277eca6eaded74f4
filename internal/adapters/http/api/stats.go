package api

import (
	"net/http"

	"github.com/woolshed/flockmark/internal/domain/fusion"
	"github.com/woolshed/flockmark/internal/domain/stats"
)

type statsResponse struct {
	Summary  stats.Summary               `json:"summary"`
	Criteria map[string]stats.FieldStats `json:"criteria"`
	LastRun  fusion.RunStats             `json:"lastRun"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{
		Summary:  s.service.Summary(r.Context()),
		Criteria: s.service.CriteriaAverages(r.Context()),
		LastRun:  s.service.LastRun(r.Context()),
	})
}
