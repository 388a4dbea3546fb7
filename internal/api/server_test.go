package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clauselens/clauselens/internal/analyze"
	"github.com/clauselens/clauselens/internal/extract"
	"github.com/clauselens/clauselens/internal/patterns"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	repo, err := patterns.NewFileTierRepository(
		filepath.Join(dir, "custom_patterns.json"),
		filepath.Join(dir, "pending_patterns.json"),
	)
	if err != nil {
		t.Fatalf("failed to create file repository: %v", err)
	}
	analyzer := analyze.NewService(extract.NewExtractor(), patterns.NewStore(repo))
	return NewServer(ServerConfig{Analyzer: analyzer})
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestAnalyzeTextEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/analyze/text", map[string]string{
		"text": "This agreement is non-refundable once signed by the customer.",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result struct {
		TotalMatches   int `json:"total_matches"`
		ContractRating struct {
			Rating string `json:"rating"`
		} `json:"contract_rating"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.TotalMatches != 1 {
		t.Errorf("expected 1 match, got %d", result.TotalMatches)
	}
	if result.ContractRating.Rating == "" {
		t.Error("expected a contract rating")
	}
}

func TestAnalyzeTextEndpoint_MissingText(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/analyze/text", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestAnalyzeEndpoint_RejectsUnsupportedType(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("plain text content")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "unsupported file type") {
		t.Errorf("expected rejection reason in body, got %s", rec.Body.String())
	}
}

func TestListAnalysesEndpoint_WithoutRepository(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/analyses", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}

func TestGetCorePatternsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/patterns/core", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Risks      map[string]json.RawMessage `json:"risks"`
		GoodPoints map[string]json.RawMessage `json:"good_points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := body.Risks["non_refundable"]; !ok {
		t.Error("expected non_refundable in core risks")
	}
	if _, ok := body.GoodPoints["money_back_guarantee"]; !ok {
		t.Error("expected money_back_guarantee in core good points")
	}
}

func TestPatternLifecycleEndpoints(t *testing.T) {
	s := newTestServer(t)

	// Add a phrase straight into the custom tier.
	rec := doJSON(t, s, http.MethodPost, "/api/v1/patterns/", PatternRequest{
		Phrase:   "deposit will be forfeited",
		Category: "non_refundable",
		Type:     "risks",
		Score:    5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/patterns/custom", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "deposit will be forfeited") {
		t.Errorf("expected added phrase in custom tier, got %s", rec.Body.String())
	}

	// Promote fails for a phrase never queued.
	rec = doJSON(t, s, http.MethodPost, "/api/v1/patterns/promote", PatternRequest{
		Phrase:   "never queued phrase",
		Category: "hidden_charges",
		Type:     "risks",
		Score:    3,
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}

	// Reject fails for a phrase never queued.
	rec = doJSON(t, s, http.MethodDelete, "/api/v1/patterns/pending", PatternRequest{
		Phrase: "never queued phrase",
		Type:   "risks",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestPatternEndpoints_ValidateType(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/patterns/", PatternRequest{
		Phrase:   "some phrase",
		Category: "some_category",
		Type:     "bonus_points",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for unknown type, got %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/patterns/", PatternRequest{
		Type: "risks",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for missing phrase, got %d", rec.Code)
	}
}
