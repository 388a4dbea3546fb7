package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/clauselens/clauselens/pkg/models"
)

// ocrUpgradeLength is the minimum OCR yield, in characters, for a scanned
// page to be upgraded from poor to fair quality.
const ocrUpgradeLength = 50

// extractPDF extracts text per page natively, then falls back to OCR for
// pages that yielded nothing. OCR failures are recorded as quality issues but
// never abort the page or the document.
func (e *Extractor) extractPDF(ctx context.Context, path string) *models.Extraction {
	f, err := os.Open(path)
	if err != nil {
		return errorExtraction(fmt.Sprintf("Error reading PDF: %v", err))
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return errorExtraction(fmt.Sprintf("Error reading PDF: %v", err))
	}

	var (
		pages   []models.Page
		issues  []string
		needOCR []int
	)

	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		page := nativePage(pageNr, pageText(pdfCtx, pageNr))

		if page.Text == "" {
			issues = append(issues, fmt.Sprintf("Page %d: No text detected (likely scanned image)", pageNr))
			needOCR = append(needOCR, pageNr)
		} else if page.Quality == models.PagePoor {
			issues = append(issues, fmt.Sprintf("Page %d: Poor text quality (may be scanned)", pageNr))
		}

		pages = append(pages, page)
	}

	if len(needOCR) > 0 && e.ocrAvailable() {
		issues = e.ocrScannedPages(ctx, path, pages, needOCR, issues)
	}

	return finalize(pages, issues)
}

// nativePage builds the page record for one natively extracted page. The
// character count covers the raw extraction before trimming; the trimmed text
// is what downstream matching sees.
func nativePage(pageNr int, raw string) models.Page {
	text := strings.TrimSpace(raw)
	quality := AssessTextQuality(text)
	if text == "" {
		quality = models.PagePoor
	}

	return models.Page{
		PageNumber:       pageNr,
		Text:             text,
		Quality:          quality,
		CharCount:        len(raw),
		ExtractionMethod: models.MethodNative,
	}
}

// ocrScannedPages runs OCR over the flagged pages and upgrades any page whose
// OCR yield is substantial enough to be usable.
func (e *Extractor) ocrScannedPages(ctx context.Context, path string, pages []models.Page, pageNumbers []int, issues []string) []string {
	ocrCtx, cancel := context.WithTimeout(ctx, e.ocrTimeout)
	defer cancel()

	recognized, err := e.ocr.RecognizePDFPages(ocrCtx, path, pageNumbers)
	if err != nil {
		e.log.Warn("OCR fallback failed", "path", path, "error", err)
		return append(issues, fmt.Sprintf("OCR failed for scanned pages: %v", err))
	}

	for _, pageNr := range pageNumbers {
		text := strings.TrimSpace(recognized[pageNr])
		if len(text) < ocrUpgradeLength {
			issues = append(issues, fmt.Sprintf("Page %d: OCR yielded too little text", pageNr))
			continue
		}
		page := &pages[pageNr-1]
		page.Text = text
		page.Quality = models.PageFair
		page.CharCount = len(text)
		page.ExtractionMethod = models.MethodOCR
	}
	return issues
}

// pageText pulls the raw content stream of one page and decodes its text
// show operators.
func pageText(pdfCtx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return decodeContentStream(data)
}

// literalStringRe matches PDF literal strings: (text)
var literalStringRe = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)`)

// decodeContentStream walks a page content stream and collects the arguments
// of the text-showing operators (Tj, TJ, ') with rough spacing for the
// positioning operators.
func decodeContentStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range literalStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(unescapePDFString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range literalStringRe.FindAllSubmatch(line, -1) {
				sb.WriteByte('\n')
				sb.WriteString(unescapePDFString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// unescapePDFString resolves the escape sequences of a PDF literal string
func unescapePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteByte(c)
			continue
		}

		i++
		switch esc := raw[i]; esc {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(esc)
		default:
			if esc >= '0' && esc <= '7' {
				val := int(esc - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(esc)
			}
		}
	}
	return sb.String()
}
