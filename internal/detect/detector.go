package detect

import (
	"context"
	"log/slog"
	"strings"

	"github.com/clauselens/clauselens/internal/patterns"
	"github.com/clauselens/clauselens/pkg/models"
)

// Sentence length bounds for candidate phrases
const (
	minSentenceLength = 20
	maxSentenceLength = 200
)

// Keyword sets signalling potential risk and benefit language. A deliberately
// broad, recall-oriented heuristic: hits become review candidates, never
// active patterns.
var (
	riskKeywords = []string{
		"fee", "charge", "penalty", "terminate", "cancel",
		"waive", "liability", "damage", "cost", "payment",
	}
	benefitKeywords = []string{
		"guarantee", "refund", "secure", "protect",
		"free", "no charge", "capped", "limit",
	}
)

// Candidate categories for detector proposals
const (
	CategoryPotentialRisk    = "potential_risk"
	CategoryPotentialBenefit = "potential_benefit"
)

// Detector proposes new candidate patterns from document text. Candidates go
// to the pattern store's pending tier for human review; the detector never
// writes to the custom tier.
type Detector struct {
	store *patterns.Store
	log   *slog.Logger
}

// NewDetector creates a detector that queues candidates into the given store
func NewDetector(store *patterns.Store) *Detector {
	return &Detector{store: store, log: slog.Default()}
}

// DetectNewPatterns scans the text for sentences that carry risk or benefit
// keywords but were not covered by any existing match, and queues them to the
// pending tier. Returns every candidate found, including ones the store
// skipped as duplicates of core, custom, or pending phrases.
//
// Sentences are split on literal periods; abbreviations and decimals mis-split
// and that is an accepted limitation of the heuristic.
func (d *Detector) DetectNewPatterns(ctx context.Context, text string, existing models.MatchSet) ([]patterns.PendingCandidate, error) {
	var candidates []patterns.PendingCandidate

	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) < minSentenceLength || len(sentence) > maxSentenceLength {
			continue
		}
		if covered(sentence, existing) {
			continue
		}

		lowered := strings.ToLower(sentence)
		switch {
		case containsAny(lowered, riskKeywords):
			candidates = append(candidates, patterns.PendingCandidate{
				Type:     patterns.Risk,
				Category: CategoryPotentialRisk,
				Phrase:   sentence,
			})
		case containsAny(lowered, benefitKeywords):
			candidates = append(candidates, patterns.PendingCandidate{
				Type:     patterns.GoodPoint,
				Category: CategoryPotentialBenefit,
				Phrase:   sentence,
			})
		}
	}

	if len(candidates) > 0 {
		added, err := d.store.AppendPending(ctx, candidates)
		if err != nil {
			return candidates, err
		}
		if added > 0 {
			d.log.Debug("queued candidate patterns for review", "count", added)
		}
	}

	return candidates, nil
}

// covered reports whether the sentence overlaps an existing match: either the
// sentence sits inside some matched text or the matched text sits inside the
// sentence.
func covered(sentence string, existing models.MatchSet) bool {
	for _, matches := range existing {
		for _, match := range matches {
			if match.Match == "" {
				continue
			}
			if strings.Contains(match.Match, sentence) || strings.Contains(sentence, match.Match) {
				return true
			}
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
