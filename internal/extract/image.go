package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/clauselens/clauselens/pkg/models"
)

const (
	// ocrConfidenceThreshold discards low-confidence OCR spans before they
	// reach the page text
	ocrConfidenceThreshold = 0.5

	// minImageTextLength is the smallest OCR yield considered readable
	minImageTextLength = 10
)

// extractImage treats the whole image as one page. OCR is mandatory here: an
// unavailable backend or an unreadable image degrades to the corresponding
// quality assessment instead of failing.
func (e *Extractor) extractImage(ctx context.Context, path string) *models.Extraction {
	if !e.ocrAvailable() {
		return errorExtraction("Image OCR support not available")
	}

	ocrCtx, cancel := context.WithTimeout(ctx, e.ocrTimeout)
	defer cancel()

	spans, err := e.ocr.RecognizeImage(ocrCtx, path)
	if err != nil {
		e.log.Warn("image OCR failed", "path", path, "error", err)
		return errorExtraction(fmt.Sprintf("Error processing image: %v", err))
	}

	var kept []string
	for _, span := range spans {
		if span.Confidence > ocrConfidenceThreshold {
			kept = append(kept, span.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(kept, " "))

	if len(text) < minImageTextLength {
		return &models.Extraction{
			Pages:             []models.Page{},
			QualityAssessment: models.DocUnreadable,
			QualityIssues:     []string{"No readable text found in image"},
		}
	}

	page := models.Page{
		PageNumber:       1,
		Text:             text,
		Quality:          models.PageFair,
		CharCount:        len(text),
		ExtractionMethod: models.MethodOCR,
	}
	return finalize([]models.Page{page}, nil)
}
