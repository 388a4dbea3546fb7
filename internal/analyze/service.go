package analyze

import (
	"context"
	"log/slog"
	"strings"

	"github.com/clauselens/clauselens/internal/detect"
	"github.com/clauselens/clauselens/internal/extract"
	"github.com/clauselens/clauselens/internal/match"
	"github.com/clauselens/clauselens/internal/patterns"
	"github.com/clauselens/clauselens/internal/score"
	"github.com/clauselens/clauselens/pkg/models"
)

// Service composes extraction, matching, candidate detection, and scoring
// into the end-to-end analysis operation. The service is stateless per
// request; the only shared mutable state is the pattern store, which
// serializes its own mutations.
type Service struct {
	extractor *extract.Extractor
	matcher   *match.Matcher
	detector  *detect.Detector
	store     *patterns.Store
	log       *slog.Logger
}

// NewService creates an analysis service on top of the given extractor and
// pattern store.
func NewService(extractor *extract.Extractor, store *patterns.Store) *Service {
	return &Service{
		extractor: extractor,
		matcher:   match.NewMatcher(),
		detector:  detect.NewDetector(store),
		store:     store,
		log:       slog.Default(),
	}
}

// Extractor exposes the underlying extractor for file type validation
func (s *Service) Extractor() *extract.Extractor {
	return s.extractor
}

// Store exposes the pattern store for lifecycle operations
func (s *Service) Store() *patterns.Store {
	return s.store
}

// AnalyzeDocument extracts the file and analyzes its text. Extraction
// failures and disqualifying quality assessments are reported as typed
// errors; matching only runs on documents of good or excellent quality.
func (s *Service) AnalyzeDocument(ctx context.Context, path, fileType string) (*models.AnalysisResult, error) {
	extraction := s.extractor.Extract(ctx, path, fileType)

	if extraction.QualityAssessment == models.DocError || len(extraction.Pages) == 0 {
		return nil, &ExtractionError{
			Reason: "unable to extract text from document",
			Issues: extraction.QualityIssues,
		}
	}

	switch extraction.QualityAssessment {
	case models.DocUnreadable, models.DocPoor, models.DocFair:
		return nil, &QualityError{
			Assessment: extraction.QualityAssessment,
			Issues:     extraction.QualityIssues,
		}
	}

	texts := make([]string, len(extraction.Pages))
	for i, page := range extraction.Pages {
		texts[i] = page.Text
	}
	fullText := strings.Join(texts, " ")

	return s.analyze(ctx, fullText, extraction.Pages)
}

// AnalyzeText analyzes pasted text directly, skipping extraction and the
// quality gate. The text is treated as a single synthetic page.
func (s *Service) AnalyzeText(ctx context.Context, text string) (*models.AnalysisResult, error) {
	page := models.Page{
		PageNumber:       1,
		Text:             text,
		Quality:          extract.AssessTextQuality(text),
		CharCount:        len(text),
		ExtractionMethod: models.MethodNative,
	}
	return s.analyze(ctx, text, []models.Page{page})
}

// ActivePatterns returns the combined core+custom pattern sets used for
// detection.
func (s *Service) ActivePatterns(ctx context.Context) (risks, goodPoints patterns.Set, err error) {
	return s.store.ActivePatterns(ctx)
}

func (s *Service) analyze(ctx context.Context, fullText string, pages []models.Page) (*models.AnalysisResult, error) {
	riskSet, goodSet, err := s.store.ActivePatterns(ctx)
	if err != nil {
		return nil, err
	}

	// Whole-document pass drives the overall rating.
	risks := s.matcher.FindInText(fullText, riskSet)
	goodPoints := s.matcher.FindInText(fullText, goodSet)

	// Candidate detection inspects the union of all matches. A failure to
	// queue candidates must not fail the analysis itself.
	combined := make(models.MatchSet, len(risks)+len(goodPoints))
	for category, matches := range risks {
		combined[category] = matches
	}
	for category, matches := range goodPoints {
		combined[category] = matches
	}
	if _, err := s.detector.DetectNewPatterns(ctx, fullText, combined); err != nil {
		s.log.Warn("failed to queue candidate patterns", "error", err)
	}

	// Per-page pass feeds highlighting with true page numbers.
	pageMatches := make([]models.PageMatches, len(pages))
	for i, page := range pages {
		single := []models.Page{page}
		pageMatches[i] = models.PageMatches{
			PageNumber: page.PageNumber,
			Text:       page.Text,
			Risks:      s.matcher.FindInPages(single, riskSet),
			GoodPoints: s.matcher.FindInPages(single, goodSet),
		}
	}

	return &models.AnalysisResult{
		Risks:          risks,
		GoodPoints:     goodPoints,
		ContractRating: score.ScoreContract(risks, goodPoints),
		TotalMatches:   risks.Count() + goodPoints.Count(),
		Pages:          pageMatches,
	}, nil
}
