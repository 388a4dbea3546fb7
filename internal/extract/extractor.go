package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/clauselens/clauselens/pkg/models"
)

var imageTypes = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"tiff": true,
	"bmp":  true,
	"gif":  true,
}

// Extractor converts uploaded files of any supported type into a uniform
// page-sequence extraction. It never returns an error for malformed input:
// any internal failure degrades to an extraction with the "error" quality
// assessment and a descriptive quality issue.
type Extractor struct {
	ocr        OCRBackend
	ocrTimeout time.Duration
	log        *slog.Logger
}

// ExtractorOption configures the Extractor
type ExtractorOption func(*Extractor)

// WithOCRBackend sets the OCR backend used for scanned pages and images
func WithOCRBackend(backend OCRBackend) ExtractorOption {
	return func(e *Extractor) {
		e.ocr = backend
	}
}

// WithOCRTimeout bounds how long a single OCR invocation may run. On timeout
// the affected pages keep their degraded quality instead of hanging the
// request.
func WithOCRTimeout(d time.Duration) ExtractorOption {
	return func(e *Extractor) {
		if d > 0 {
			e.ocrTimeout = d
		}
	}
}

// WithExtractorLogger sets the diagnostics logger
func WithExtractorLogger(log *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.log = log
	}
}

// NewExtractor creates a new Extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		ocrTimeout: defaultOCRTimeout,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ocrAvailable reports whether an OCR backend is configured and usable
func (e *Extractor) ocrAvailable() bool {
	return e.ocr != nil && e.ocr.Available()
}

// SupportedTypes lists the file extensions the extractor currently accepts.
// Image formats require an available OCR backend.
func (e *Extractor) SupportedTypes() []string {
	types := []string{"pdf", "docx"}
	if e.ocrAvailable() {
		for _, t := range []string{"jpg", "jpeg", "png", "tiff", "bmp", "gif"} {
			types = append(types, t)
		}
	}
	return types
}

// ValidateFileType checks a filename's extension against the supported set.
// Returns the normalized type on success and a human-readable reason on
// rejection.
func (e *Extractor) ValidateFileType(filename string) (string, error) {
	dot := strings.LastIndex(filename, ".")
	if dot < 0 || dot == len(filename)-1 {
		return "", fmt.Errorf("no file extension found")
	}
	ext := strings.ToLower(filename[dot+1:])

	supported := e.SupportedTypes()
	for _, t := range supported {
		if ext == t {
			return ext, nil
		}
	}
	return ext, fmt.Errorf("unsupported file type: .%s (supported: %s)", ext, strings.Join(supported, ", "))
}

// Extract dispatches on the declared file type and produces a uniform
// extraction.
func (e *Extractor) Extract(ctx context.Context, path, fileType string) *models.Extraction {
	switch t := strings.ToLower(fileType); {
	case t == "pdf":
		return e.extractPDF(ctx, path)
	case t == "docx":
		return e.extractDocx(path)
	case imageTypes[t]:
		return e.extractImage(ctx, path)
	default:
		return errorExtraction(fmt.Sprintf("Unsupported file type: %s", fileType))
	}
}

// errorExtraction is the uniform degraded result for any internal failure
func errorExtraction(issue string) *models.Extraction {
	return &models.Extraction{
		Pages:             []models.Page{},
		QualityAssessment: models.DocError,
		QualityIssues:     []string{issue},
	}
}

// finalize computes the document-level roll-up from the final page set.
// Readable pages are those of good or fair quality; only their characters
// count toward the total.
func finalize(pages []models.Page, issues []string) *models.Extraction {
	readable := 0
	totalChars := 0
	for _, page := range pages {
		if page.Quality == models.PageGood || page.Quality == models.PageFair {
			readable++
			totalChars += page.CharCount
		}
	}

	if issues == nil {
		issues = []string{}
	}
	return &models.Extraction{
		Pages:             pages,
		QualityAssessment: AssessOverallQuality(readable, len(pages), totalChars),
		TotalCharacters:   totalChars,
		ReadablePages:     readable,
		TotalPages:        len(pages),
		QualityIssues:     issues,
	}
}
