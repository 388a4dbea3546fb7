package extract

import (
	"regexp"
	"strings"

	"github.com/clauselens/clauselens/pkg/models"
)

var (
	specialCharRe = regexp.MustCompile(`[^\w\s.,!?;:()\-]`)
	shortTokenRe  = regexp.MustCompile(`\b[a-z]{1,2}\b`)
	longDigitRe   = regexp.MustCompile(`[0-9]{10,}`)
	wordTokenRe   = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)
	sentenceEndRe = regexp.MustCompile(`[.!?]`)
)

// AssessTextQuality scores one page of extracted text for OCR and scan
// degradation. Two indicator sets are counted: poor indicators (garbled
// characters, fragmented tokens, digit runs, near-empty pages) and good
// indicators (real words, sentence punctuation, substantial length). Two or
// more poor indicators mark the page poor; two or more good indicators with
// no poor ones mark it good; anything else is fair.
func AssessTextQuality(text string) models.PageQuality {
	stripped := strings.TrimSpace(text)
	if stripped == "" {
		return models.PagePoor
	}

	tokens := strings.Fields(text)
	textLen := len(text)
	tokenCount := len(tokens)

	poor := 0
	if len(specialCharRe.FindAllString(text, -1)) > textLen/10 {
		poor++
	}
	if len(shortTokenRe.FindAllString(text, -1)) > tokenCount*3/10 {
		poor++
	}
	if longDigitRe.MatchString(text) {
		poor++
	}
	if len(stripped) < 50 {
		poor++
	}

	good := 0
	if len(wordTokenRe.FindAllString(text, -1)) > tokenCount/2 {
		good++
	}
	if sentenceEndRe.MatchString(text) {
		good++
	}
	if len(stripped) > 200 {
		good++
	}

	switch {
	case poor >= 2:
		return models.PagePoor
	case good >= 2 && poor == 0:
		return models.PageGood
	default:
		return models.PageFair
	}
}

// AssessOverallQuality rolls per-page readability up into a document-level
// assessment. The thresholds are contractual values, not tunable defaults.
func AssessOverallQuality(readablePages, totalPages, totalCharacters int) models.DocumentQuality {
	if totalPages == 0 {
		return models.DocUnreadable
	}

	readableRatio := float64(readablePages) / float64(totalPages)
	avgCharsPerPage := float64(totalCharacters) / float64(totalPages)

	switch {
	case readableRatio == 1.0 && avgCharsPerPage > 500:
		return models.DocExcellent
	case readableRatio >= 0.8 && avgCharsPerPage > 200:
		return models.DocGood
	case readableRatio >= 0.5 && avgCharsPerPage > 100:
		return models.DocFair
	case readableRatio > 0 && avgCharsPerPage > 50:
		return models.DocPoor
	default:
		return models.DocUnreadable
	}
}
