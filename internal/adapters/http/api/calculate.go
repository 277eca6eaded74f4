package api

import (
	"net/http"

	"github.com/woolshed/flockmark/internal/domain/fusion"
)

type calculateResponse struct {
	Stats fusion.RunStats `json:"stats"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Calculate(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, calculateResponse{Stats: stats})
}
