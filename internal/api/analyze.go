package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/clauselens/clauselens/internal/analyze"
	"github.com/clauselens/clauselens/internal/storage"
	"github.com/clauselens/clauselens/pkg/models"
)

const maxUploadSize = 10 << 20 // 10 MB

// AnalysisFailureResponse is the structured body returned when an analysis
// cannot complete. The caller always gets a reason and, for quality
// rejections, the extractor's per-page diagnostics.
type AnalysisFailureResponse struct {
	Error         string   `json:"error"`
	Quality       string   `json:"quality,omitempty"`
	QualityIssues []string `json:"quality_issues,omitempty"`
}

// handleAnalyzeDocument accepts a multipart file upload and runs the full
// analysis pipeline over it.
func (s *Server) handleAnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	fileType, err := s.analyzer.Extractor().ValidateFileType(header.Filename)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The extractor works on paths, so spool the upload to a temp file.
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	if err := tmp.Close(); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	result, err := s.analyzer.AnalyzeDocument(r.Context(), tmpName, fileType)
	if err != nil {
		s.respondAnalysisFailure(w, err)
		return
	}

	s.recordHistory(r, header.Filename, fileType, result)
	respondJSON(w, http.StatusOK, result)
}

// handleAnalyzeText analyzes pasted text without extraction
func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := s.analyzer.AnalyzeText(r.Context(), req.Text)
	if err != nil {
		s.respondAnalysisFailure(w, err)
		return
	}

	s.recordHistory(r, "", "text", result)
	respondJSON(w, http.StatusOK, result)
}

// handleListAnalyses returns recent analysis summaries
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.analysisRepo == nil {
		respondError(w, http.StatusServiceUnavailable, "analysis history not configured")
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	analyses, err := s.analysisRepo.List(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch analyses")
		return
	}

	type AnalysisResponse struct {
		ID           string  `json:"id"`
		Filename     string  `json:"filename"`
		FileType     string  `json:"file_type"`
		Rating       string  `json:"rating"`
		Score        float64 `json:"score"`
		TotalMatches int     `json:"total_matches"`
	}

	response := make([]AnalysisResponse, 0, len(analyses))
	for _, a := range analyses {
		response = append(response, AnalysisResponse{
			ID:           a.ID.String(),
			Filename:     a.Filename,
			FileType:     a.FileType,
			Rating:       a.Rating,
			Score:        a.Score,
			TotalMatches: a.TotalMatches,
		})
	}

	respondJSON(w, http.StatusOK, response)
}

// respondAnalysisFailure maps core error types onto structured HTTP failures
func (s *Server) respondAnalysisFailure(w http.ResponseWriter, err error) {
	var extractionErr *analyze.ExtractionError
	if errors.As(err, &extractionErr) {
		respondJSON(w, http.StatusBadRequest, AnalysisFailureResponse{
			Error:         extractionErr.Reason,
			QualityIssues: extractionErr.Issues,
		})
		return
	}

	var qualityErr *analyze.QualityError
	if errors.As(err, &qualityErr) {
		respondJSON(w, http.StatusUnprocessableEntity, AnalysisFailureResponse{
			Error:         qualityErr.Error(),
			Quality:       string(qualityErr.Assessment),
			QualityIssues: qualityErr.Issues,
		})
		return
	}

	respondError(w, http.StatusInternalServerError, "analysis failed")
}

// recordHistory saves a summary row when history is configured. Failures are
// non-fatal: the analysis result still goes back to the caller.
func (s *Server) recordHistory(r *http.Request, filename, fileType string, result *models.AnalysisResult) {
	if s.analysisRepo == nil {
		return
	}

	_ = s.analysisRepo.Create(r.Context(), &storage.Analysis{
		Filename:     filename,
		FileType:     fileType,
		Rating:       result.ContractRating.Rating,
		Score:        result.ContractRating.ScoreOutOfTen,
		TotalMatches: result.TotalMatches,
	})
}
