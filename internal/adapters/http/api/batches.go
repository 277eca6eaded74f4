package api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/woolshed/flockmark/internal/domain/model"
	"github.com/woolshed/flockmark/internal/importer"
)

type loadBatchResponse struct {
	Batch   model.BatchType `json:"batch"`
	Records int             `json:"records"`
}

// handleLoadBatch replaces one event batch. The body is either a JSON array
// of records or a CSV export with a header row, selected by Content-Type.
func (s *Server) handleLoadBatch(w http.ResponseWriter, r *http.Request) {
	batch := model.BatchType(r.PathValue("type"))
	if !model.KnownBatch(batch) {
		s.writeError(w, r, fmt.Errorf("%w: unknown batch type %q", errBadRequest, batch))
		return
	}

	records, err := s.decodeRecords(batch, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.service.LoadBatch(r.Context(), batch, records); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loadBatchResponse{Batch: batch, Records: len(records)})
}

func (s *Server) decodeRecords(batch model.BatchType, r *http.Request) ([]model.Record, error) {
	contentType := r.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	if strings.Contains(contentType, "csv") {
		records, err := importer.ReadCSV(batch, r.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return records, nil
	}

	var records []model.Record
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode records: %v", errBadRequest, err)
	}
	return records, nil
}

func (s *Server) handleBatchCounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.BatchCounts(r.Context()))
}

func (s *Server) handleClearBatches(w http.ResponseWriter, r *http.Request) {
	s.service.ClearBatches(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
