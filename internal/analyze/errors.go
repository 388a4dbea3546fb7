package analyze

import (
	"fmt"
	"strings"

	"github.com/clauselens/clauselens/pkg/models"
)

// ExtractionError reports that no usable text could be obtained from the
// source: corrupt file, unsupported format, or a missing OCR backend.
type ExtractionError struct {
	Reason string
	Issues []string
}

func (e *ExtractionError) Error() string {
	if len(e.Issues) > 0 {
		return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Issues, "; "))
	}
	return e.Reason
}

// QualityError reports that extraction succeeded but the document's quality
// is insufficient for reliable pattern matching. It carries the extractor's
// per-page diagnostics.
type QualityError struct {
	Assessment models.DocumentQuality
	Issues     []string
}

func (e *QualityError) Error() string {
	return fmt.Sprintf("document quality %q is too low for reliable analysis", e.Assessment)
}
