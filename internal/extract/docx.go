package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/clauselens/clauselens/pkg/models"
)

// extractDocx walks the paragraphs of a Word document. The format has no true
// pagination, so each non-empty paragraph becomes one page. Extraction is
// lossless structured text, so page quality is uniformly good.
func (e *Extractor) extractDocx(path string) *models.Extraction {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return errorExtraction(fmt.Sprintf("Error reading Word document: %v", err))
	}
	defer zr.Close()

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body = f
			break
		}
	}
	if body == nil {
		return errorExtraction("Error reading Word document: no document body found")
	}

	rc, err := body.Open()
	if err != nil {
		return errorExtraction(fmt.Sprintf("Error reading Word document: %v", err))
	}
	defer rc.Close()

	paragraphs, err := docxParagraphs(rc)
	if err != nil {
		return errorExtraction(fmt.Sprintf("Error reading Word document: %v", err))
	}

	var pages []models.Page
	for i, text := range paragraphs {
		pages = append(pages, models.Page{
			PageNumber:       i + 1,
			Text:             text,
			Quality:          models.PageGood,
			CharCount:        len(text),
			ExtractionMethod: models.MethodDocx,
		})
	}

	return finalize(pages, nil)
}

// docxParagraphs streams word/document.xml and returns the text of each
// non-empty paragraph. Runs within a paragraph concatenate; tabs and line
// breaks become spaces.
func docxParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)

	flush := func() {
		if text := strings.TrimSpace(current.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
		current.Reset()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab", "br":
				current.WriteByte(' ')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flush()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	flush()

	return paragraphs, nil
}
