package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/resume-importer/internal/ingestion"
	"github.com/jonathan/resume-importer/internal/schemas"
)

// handleParse parses a résumé text without storing anything. The response is
// the batch with its per-category sources and diagnostics.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := s.decodeRequest(r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	if err := blankText(req.Text); err != nil {
		s.failure(w, r, err)
		return
	}

	res := s.parser.Parse(r.Context(), ingestion.CleanText(req.Text))
	if err := schemas.ValidateBatch(res.Batch); err != nil {
		s.logger.Warn("parsed batch does not match schema", zap.Error(err))
	}

	s.jsonResponse(w, http.StatusOK, res)
}
