package models

// PageQuality describes the readability of a single extracted page
type PageQuality string

const (
	PageGood PageQuality = "good"
	PageFair PageQuality = "fair"
	PagePoor PageQuality = "poor"
)

// DocumentQuality describes the overall readability of an extracted document
type DocumentQuality string

const (
	DocExcellent  DocumentQuality = "excellent"
	DocGood       DocumentQuality = "good"
	DocFair       DocumentQuality = "fair"
	DocPoor       DocumentQuality = "poor"
	DocUnreadable DocumentQuality = "unreadable"
	DocError      DocumentQuality = "error"
)

// ExtractionMethod records how a page's text was obtained
type ExtractionMethod string

const (
	MethodNative ExtractionMethod = "native"
	MethodOCR    ExtractionMethod = "ocr"
	MethodDocx   ExtractionMethod = "docx"
)

// Page represents one extracted page of a document
type Page struct {
	PageNumber       int              `json:"page_number"`
	Text             string           `json:"text"`
	Quality          PageQuality      `json:"quality"`
	CharCount        int              `json:"char_count"`
	ExtractionMethod ExtractionMethod `json:"extraction_method"`
}

// Extraction is the uniform result of extracting any supported file type
type Extraction struct {
	Pages             []Page          `json:"pages"`
	QualityAssessment DocumentQuality `json:"quality_assessment"`
	TotalCharacters   int             `json:"total_characters"`
	ReadablePages     int             `json:"readable_pages"`
	TotalPages        int             `json:"total_pages"`
	QualityIssues     []string        `json:"quality_issues"`
}

// Span is a half-open character range into normalized page text
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Match is a single located occurrence of a pattern in a page
type Match struct {
	Match    string `json:"match"`
	Category string `json:"category"`
	Score    int    `json:"score"`
	Page     int    `json:"page"`
	Position Span   `json:"position"`
}

// MatchSet groups matches by category name
type MatchSet map[string][]Match

// Count returns the total number of matches across all categories
func (ms MatchSet) Count() int {
	n := 0
	for _, matches := range ms {
		n += len(matches)
	}
	return n
}

// ScoreRecord is the aggregate contract rating derived from all matches
type ScoreRecord struct {
	Rating            string  `json:"rating"`
	ScoreOutOfTen     float64 `json:"score_out_of_10"`
	RiskLevel         string  `json:"risk_level"`
	BenefitLevel      string  `json:"benefit_level"`
	RiskCount         int     `json:"risk_count"`
	BenefitCount      int     `json:"benefit_count"`
	TotalRiskScore    int     `json:"total_risk_score"`
	TotalBenefitScore int     `json:"total_benefit_score"`
}

// PageMatches is the per-page match breakdown used for highlighting
type PageMatches struct {
	PageNumber int      `json:"page_number"`
	Text       string   `json:"text"`
	Risks      MatchSet `json:"risks"`
	GoodPoints MatchSet `json:"good_points"`
}

// AnalysisResult is the full outcome of analyzing one document
type AnalysisResult struct {
	Risks          MatchSet      `json:"risks"`
	GoodPoints     MatchSet      `json:"good_points"`
	ContractRating ScoreRecord   `json:"contract_rating"`
	TotalMatches   int           `json:"total_matches"`
	Pages          []PageMatches `json:"pages"`
}
