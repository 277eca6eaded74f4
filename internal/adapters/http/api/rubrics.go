package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/woolshed/flockmark/internal/domain/scoring"
)

type rubricListResponse struct {
	Rubrics []string `json:"rubrics"`
}

func (s *Server) handleListRubrics(w http.ResponseWriter, r *http.Request) {
	names, err := s.service.ListRubrics(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rubricListResponse{Rubrics: names})
}

func (s *Server) handleGetSavedRubric(w http.ResponseWriter, r *http.Request) {
	rubric, err := s.service.SavedRubric(r.Context(), r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rubric)
}

func (s *Server) handleSaveRubric(w http.ResponseWriter, r *http.Request) {
	var rubric scoring.Rubric
	if err := json.NewDecoder(r.Body).Decode(&rubric); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: decode rubric: %v", errBadRequest, err))
		return
	}
	if err := s.service.SaveRubric(r.Context(), r.PathValue("name"), rubric); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rubric)
}

func (s *Server) handleDeleteRubric(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteRubric(r.Context(), r.PathValue("name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
