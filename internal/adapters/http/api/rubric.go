package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/woolshed/flockmark/internal/domain/scoring"
)

func (s *Server) handleGetRubric(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Rubric(r.Context()))
}

func (s *Server) handleSetRubric(w http.ResponseWriter, r *http.Request) {
	var rubric scoring.Rubric
	if err := json.NewDecoder(r.Body).Decode(&rubric); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: decode rubric: %v", errBadRequest, err))
		return
	}
	if err := s.service.SetRubric(r.Context(), rubric); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rubric)
}
