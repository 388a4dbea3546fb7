package match

import (
	"strings"
	"testing"

	"github.com/clauselens/clauselens/internal/patterns"
	"github.com/clauselens/clauselens/pkg/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapses runs of whitespace", "foo\n\n  bar\tbaz", "foo bar baz"},
		{"trims leading and trailing", "  hello world  ", "hello world"},
		{"preserves case", "Early Termination FEE", "Early Termination FEE"},
		{"empty input", "   \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFindInText_RepeatedPhraseMatchesEachOccurrence(t *testing.T) {
	m := NewMatcher()
	set := patterns.Set{
		"early_termination_fee": {patterns.LegacyEntry("early termination fee")},
	}

	text := "Early termination fee applies. Early termination fee applies again."
	matches := m.FindInText(text, set)

	got := matches["early_termination_fee"]
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Position == got[1].Position {
		t.Error("expected distinct offsets for the two occurrences")
	}
	for _, match := range got {
		if match.Match != "Early termination fee" {
			t.Errorf("expected match text from original casing, got %q", match.Match)
		}
		if match.Score != patterns.DefaultScore {
			t.Errorf("expected default score %d, got %d", patterns.DefaultScore, match.Score)
		}
		if match.Page != 1 {
			t.Errorf("expected page 1, got %d", match.Page)
		}
	}
}

func TestFindInText_CaseInsensitive(t *testing.T) {
	m := NewMatcher()
	set := patterns.Set{
		"non_refundable": {patterns.LegacyEntry("non-refundable")},
	}

	matches := m.FindInText("This deposit is NON-REFUNDABLE.", set)
	if n := len(matches["non_refundable"]); n != 1 {
		t.Fatalf("expected 1 match, got %d", n)
	}
	if got := matches["non_refundable"][0].Match; got != "NON-REFUNDABLE" {
		t.Errorf("expected match text %q, got %q", "NON-REFUNDABLE", got)
	}
}

func TestFindInText_DuplicateEntriesCollapse(t *testing.T) {
	m := NewMatcher()
	set := patterns.Set{
		"non_refundable": {
			patterns.LegacyEntry("no refunds"),
			patterns.LegacyEntry("no refunds"),
		},
	}

	matches := m.FindInText("All sales are final and no refunds will be given.", set)
	if n := len(matches["non_refundable"]); n != 1 {
		t.Errorf("expected identical matches to collapse to 1, got %d", n)
	}
}

func TestFindInText_ScoredRegexEntries(t *testing.T) {
	m := NewMatcher()
	set := patterns.Set{
		"hidden_charges": {patterns.ScoredEntry(5, `surcharges?\s+apply`)},
	}

	matches := m.FindInText("Fuel surcharges apply to all deliveries.", set)
	got := matches["hidden_charges"]
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].Score != 5 {
		t.Errorf("expected score 5, got %d", got[0].Score)
	}
	if got[0].Match != "surcharges apply" {
		t.Errorf("expected match %q, got %q", "surcharges apply", got[0].Match)
	}
}

func TestFindInText_InvalidRegexSkipped(t *testing.T) {
	m := NewMatcher()
	set := patterns.Set{
		"non_refundable": {patterns.ScoredEntry(4, "(unclosed", "no refunds")},
	}

	matches := m.FindInText("Strictly no refunds after delivery.", set)
	if n := len(matches["non_refundable"]); n != 1 {
		t.Errorf("expected the valid pattern to still match, got %d matches", n)
	}
}

func TestFindInText_NormalizedBeforeMatching(t *testing.T) {
	m := NewMatcher()
	set := patterns.Set{
		"early_termination_fee": {patterns.LegacyEntry("early termination fee")},
	}

	// The phrase is split across a line break in the raw text.
	matches := m.FindInText("An early\ntermination   fee will be charged.", set)
	if n := len(matches["early_termination_fee"]); n != 1 {
		t.Errorf("expected normalization to bridge the line break, got %d matches", n)
	}
}

func TestFindInText_MultibyteTextKeepsOffsets(t *testing.T) {
	m := NewMatcher()
	set := patterns.Set{
		"non_refundable": {patterns.LegacyEntry("no refunds")},
	}

	// İ and Ⱥ change byte length under full Unicode lowercasing; the phrase
	// ends the text so a shifted span would run past the end.
	text := "İstanbul Ⱥgreement clause says No Refunds"
	matches := m.FindInText(text, set)

	got := matches["non_refundable"]
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].Match != "No Refunds" {
		t.Errorf("expected match text %q, got %q", "No Refunds", got[0].Match)
	}

	wantStart := strings.Index(text, "No Refunds")
	wantEnd := wantStart + len("no refunds")
	if got[0].Position.Start != wantStart || got[0].Position.End != wantEnd {
		t.Errorf("expected span %d..%d, got %d..%d",
			wantStart, wantEnd, got[0].Position.Start, got[0].Position.End)
	}
}

func TestFindInPages_ReportsTruePageNumbers(t *testing.T) {
	m := NewMatcher()
	set := patterns.Set{
		"automatic_renewal": {patterns.LegacyEntry("automatic renewal")},
	}

	pages := []models.Page{
		{PageNumber: 1, Text: "Introduction and definitions."},
		{PageNumber: 2, Text: "The plan is subject to automatic renewal each year."},
	}

	matches := m.FindInPages(pages, set)
	got := matches["automatic_renewal"]
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].Page != 2 {
		t.Errorf("expected match on page 2, got page %d", got[0].Page)
	}
}

func TestFindInPages_NoCrossPageMatches(t *testing.T) {
	m := NewMatcher()
	set := patterns.Set{
		"automatic_renewal": {patterns.LegacyEntry("automatic renewal")},
	}

	pages := []models.Page{
		{PageNumber: 1, Text: "subject to automatic"},
		{PageNumber: 2, Text: "renewal each year"},
	}

	matches := m.FindInPages(pages, set)
	if n := len(matches["automatic_renewal"]); n != 0 {
		t.Errorf("expected no match across page boundary, got %d", n)
	}
}

func TestFindInText_Idempotent(t *testing.T) {
	m := NewMatcher()
	set := patterns.Set{
		"non_refundable": {patterns.LegacyEntry("non-refundable", "no refunds")},
	}

	text := "The fee is non-refundable and no refunds are offered."
	first := m.FindInText(text, set)
	second := m.FindInText(text, set)

	if first.Count() != second.Count() {
		t.Errorf("expected identical match counts across runs, got %d then %d", first.Count(), second.Count())
	}
	if first.Count() != 2 {
		t.Errorf("expected 2 matches, got %d", first.Count())
	}
}
