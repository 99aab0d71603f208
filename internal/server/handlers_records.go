package server

import (
	"net/http"
)

// ---------------------------------------------------------------------
// Imported record handlers
// ---------------------------------------------------------------------

func (s *Server) handleListExperiences(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		s.failure(w, r, err)
		return
	}

	experiences, err := s.store.ListExperiences(r.Context(), userID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"experiences": experiences, "count": len(experiences)})
}

func (s *Server) handleListEducation(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		s.failure(w, r, err)
		return
	}

	education, err := s.store.ListEducation(r.Context(), userID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"education": education, "count": len(education)})
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		s.failure(w, r, err)
		return
	}

	groups, err := s.store.ListSkillGroups(r.Context(), userID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"skills": groups, "count": len(groups)})
}
