package match

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/clauselens/clauselens/internal/patterns"
	"github.com/clauselens/clauselens/pkg/models"
)

// Matcher locates pattern occurrences in normalized document text. Two modes
// coexist: legacy entries are matched as literal case-insensitive substrings
// and score the flat default, scored entries are compiled as case-insensitive
// regexes and carry their category's score.
type Matcher struct {
	log *slog.Logger
}

// Option configures the Matcher
type Option func(*Matcher)

// WithLogger sets the logger used for pattern-compile diagnostics
func WithLogger(log *slog.Logger) Option {
	return func(m *Matcher) {
		m.log = log
	}
}

// NewMatcher creates a new Matcher
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{log: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FindInText finds all pattern occurrences in a single text. Every match is
// reported against page 1.
func (m *Matcher) FindInText(text string, set patterns.Set) models.MatchSet {
	page := models.Page{PageNumber: 1, Text: text}
	return m.FindInPages([]models.Page{page}, set)
}

// FindInPages finds pattern occurrences page by page. Matching is performed
// independently per page, so a phrase spanning a page boundary never matches.
// Offsets index the normalized page text. Within a category, duplicates with
// identical lowercased text and identical offsets collapse to one match.
func (m *Matcher) FindInPages(pages []models.Page, set patterns.Set) models.MatchSet {
	grouped := make(models.MatchSet)

	for _, page := range pages {
		normalized := Normalize(page.Text)
		lowered := foldASCII(normalized)

		for category, entries := range set {
			for _, entry := range entries {
				var spans []models.Span
				if entry.Legacy {
					spans = m.exactSpans(lowered, entry.Patterns)
				} else {
					spans = m.regexSpans(normalized, entry.Patterns)
				}
				for _, span := range spans {
					grouped[category] = append(grouped[category], models.Match{
						Match:    normalized[span.Start:span.End],
						Category: category,
						Score:    entry.EffectiveScore(),
						Page:     page.PageNumber,
						Position: span,
					})
				}
			}
		}
	}

	return dedupe(grouped)
}

// exactSpans scans for non-overlapping literal occurrences of each phrase,
// advancing past the end of every hit so a phrase cannot overlap itself.
func (m *Matcher) exactSpans(lowered string, phrases []string) []models.Span {
	var spans []models.Span
	for _, phrase := range phrases {
		needle := foldASCII(phrase)
		if needle == "" {
			continue
		}
		start := 0
		for {
			pos := strings.Index(lowered[start:], needle)
			if pos < 0 {
				break
			}
			pos += start
			spans = append(spans, models.Span{Start: pos, End: pos + len(needle)})
			start = pos + len(needle)
		}
	}
	return spans
}

// regexSpans finds all non-overlapping regex matches. A pattern that fails to
// compile is logged and skipped; it never aborts the rest of the category.
func (m *Matcher) regexSpans(normalized string, exprs []string) []models.Span {
	var spans []models.Span
	for _, expr := range exprs {
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			m.log.Warn("skipping invalid regex pattern", "pattern", expr, "error", err)
			continue
		}
		for _, loc := range re.FindAllStringIndex(normalized, -1) {
			spans = append(spans, models.Span{Start: loc[0], End: loc[1]})
		}
	}
	return spans
}

// foldASCII lowercases ASCII letters only. Full Unicode case folding can
// change byte length (İ, Ⱥ), which would desynchronize the spans found in the
// folded text from the normalized text they index. Pattern phrases are ASCII,
// so ASCII folding is sufficient for case-insensitive phrase scanning.
func foldASCII(s string) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 'A' || c > 'Z' {
			continue
		}
		if b == nil {
			b = []byte(s)
		}
		b[i] = c + ('a' - 'A')
	}
	if b == nil {
		return s
	}
	return string(b)
}

type matchKey struct {
	text  string
	start int
	end   int
}

// dedupe collapses matches with identical lowercased text and identical
// offsets. Same text at different offsets, or different text at the same
// offsets, are distinct matches and are kept.
func dedupe(grouped models.MatchSet) models.MatchSet {
	out := make(models.MatchSet, len(grouped))
	for category, matches := range grouped {
		if len(matches) == 0 {
			continue
		}
		seen := make(map[matchKey]bool, len(matches))
		var unique []models.Match
		for _, match := range matches {
			key := matchKey{
				text:  foldASCII(match.Match),
				start: match.Position.Start,
				end:   match.Position.End,
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			unique = append(unique, match)
		}
		out[category] = unique
	}
	return out
}
