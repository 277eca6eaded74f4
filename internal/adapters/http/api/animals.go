package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/woolshed/flockmark/internal/domain/model"
)

type animalsResponse struct {
	Count   int                  `json:"count"`
	Animals []model.ScoredAnimal `json:"animals"`
}

func (s *Server) handleAnimals(w http.ResponseWriter, r *http.Request) {
	animals := s.service.Animals(r.Context())

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(w, r, fmt.Errorf("%w: invalid limit %q", errBadRequest, raw))
			return
		}
		if limit < len(animals) {
			animals = animals[:limit]
		}
	}
	writeJSON(w, http.StatusOK, animalsResponse{Count: len(animals), Animals: animals})
}

func (s *Server) handleTopAnimals(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: invalid limit %q", errBadRequest, raw))
			return
		}
		limit = parsed
	}
	if limit > s.topLimit {
		limit = s.topLimit
	}

	animals, err := s.service.TopN(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, animalsResponse{Count: len(animals), Animals: animals})
}

func (s *Server) handleAnimal(w http.ResponseWriter, r *http.Request) {
	animal, err := s.service.Animal(r.Context(), r.PathValue("key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, animal)
}
