package server

import (
	"net/http"

	"github.com/jonathan/resume-importer/internal/ingestion"
)

func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		s.failure(w, r, err)
		return
	}

	var req CreateSourceRequest
	if err := s.decodeRequest(r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	if req.Filename == "" && req.MimeType == "" {
		req.MimeType = ingestion.TypeText
	}

	doc, err := ingestion.Extract(req.Filename, req.MimeType, []byte(req.Text))
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if err := blankText(doc.Text); err != nil {
		s.failure(w, r, err)
		return
	}

	if req.Parse {
		outcome, err := s.importer.ImportDocument(r.Context(), userID, doc)
		if err != nil {
			s.failure(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusCreated, outcome)
		return
	}

	source, err := s.importer.CreateSource(r.Context(), userID, doc)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, source)
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		s.failure(w, r, err)
		return
	}

	sources, err := s.store.ListSources(r.Context(), userID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"sources": sources, "count": len(sources)})
}

func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	sourceID, err := pathUUID(r, "id")
	if err != nil {
		s.failure(w, r, err)
		return
	}

	source, err := s.store.GetSource(r.Context(), sourceID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, source)
}

// handleParseSource parses a stored source and imports its records. Running
// it again replaces the records imported from that source.
func (s *Server) handleParseSource(w http.ResponseWriter, r *http.Request) {
	sourceID, err := pathUUID(r, "id")
	if err != nil {
		s.failure(w, r, err)
		return
	}

	outcome, err := s.importer.ImportSource(r.Context(), sourceID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, outcome)
}
