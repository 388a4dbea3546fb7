package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clauselens/clauselens/internal/patterns"
)

// PatternRequest is the body of the pattern lifecycle endpoints
type PatternRequest struct {
	Phrase   string `json:"phrase"`
	Category string `json:"category"`
	Type     string `json:"type"` // "risks" or "good_points"
	Score    int    `json:"score"`
}

func (req *PatternRequest) patternType() (patterns.Type, bool) {
	t := patterns.Type(req.Type)
	return t, t.Valid()
}

// handleGetCorePatterns returns the built-in dictionaries
func (s *Server) handleGetCorePatterns(w http.ResponseWriter, r *http.Request) {
	risks, goodPoints := s.analyzer.Store().Core()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"risks":       risks,
		"good_points": goodPoints,
	})
}

// handleGetCustomPatterns returns the active curated tier
func (s *Server) handleGetCustomPatterns(w http.ResponseWriter, r *http.Request) {
	doc, err := s.analyzer.Store().Custom(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load custom patterns")
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// handleGetPendingPatterns returns the candidate tier awaiting review
func (s *Server) handleGetPendingPatterns(w http.ResponseWriter, r *http.Request) {
	doc, err := s.analyzer.Store().Pending(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load pending patterns")
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// handlePromotePattern moves a pending phrase into the custom tier with a
// reviewer-assigned score.
func (s *Server) handlePromotePattern(w http.ResponseWriter, r *http.Request) {
	var req PatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Phrase == "" || req.Category == "" {
		respondError(w, http.StatusBadRequest, "phrase and category are required")
		return
	}
	t, ok := req.patternType()
	if !ok {
		respondError(w, http.StatusBadRequest, "type must be risks or good_points")
		return
	}

	err := s.analyzer.Store().Promote(r.Context(), req.Phrase, req.Category, t, req.Score)
	if errors.Is(err, patterns.ErrPatternNotFound) {
		respondError(w, http.StatusNotFound, "pattern not found in pending")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to promote pattern")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "promoted"})
}

// handleRejectPattern removes a pending phrase without promoting it
func (s *Server) handleRejectPattern(w http.ResponseWriter, r *http.Request) {
	var req PatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Phrase == "" {
		respondError(w, http.StatusBadRequest, "phrase is required")
		return
	}
	t, ok := req.patternType()
	if !ok {
		respondError(w, http.StatusBadRequest, "type must be risks or good_points")
		return
	}

	err := s.analyzer.Store().Reject(r.Context(), req.Phrase, t)
	if errors.Is(err, patterns.ErrPatternNotFound) {
		respondError(w, http.StatusNotFound, "pattern not found in pending")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to reject pattern")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

// handleAddPattern inserts a phrase straight into the custom tier
func (s *Server) handleAddPattern(w http.ResponseWriter, r *http.Request) {
	var req PatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Phrase == "" || req.Category == "" {
		respondError(w, http.StatusBadRequest, "phrase and category are required")
		return
	}
	t, ok := req.patternType()
	if !ok {
		respondError(w, http.StatusBadRequest, "type must be risks or good_points")
		return
	}

	if err := s.analyzer.Store().AddDirectly(r.Context(), req.Phrase, req.Category, t, req.Score); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to add pattern")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}
