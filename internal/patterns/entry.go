package patterns

import (
	"encoding/json"
	"fmt"
)

// DefaultScore is the flat severity assigned to phrases without an explicit score.
const DefaultScore = 3

// Type distinguishes the two pattern dictionaries
type Type string

const (
	Risk      Type = "risks"
	GoodPoint Type = "good_points"
)

// Valid reports whether t is a known pattern type
func (t Type) Valid() bool {
	return t == Risk || t == GoodPoint
}

// Entry is one category's pattern list. Two storage shapes exist: the legacy
// shape is a bare JSON array of phrases matched as literal substrings, the
// scored shape is an object carrying a severity score and regex patterns.
// The shape is resolved once at load time.
type Entry struct {
	Legacy   bool
	Score    int
	Patterns []string
}

// LegacyEntry builds an unscored phrase-list entry
func LegacyEntry(phrases ...string) Entry {
	return Entry{Legacy: true, Patterns: phrases}
}

// ScoredEntry builds a scored pattern entry
func ScoredEntry(score int, phrases ...string) Entry {
	if score <= 0 {
		score = DefaultScore
	}
	return Entry{Score: score, Patterns: phrases}
}

// EffectiveScore returns the severity to assign matches from this entry
func (e Entry) EffectiveScore() int {
	if e.Legacy || e.Score <= 0 {
		return DefaultScore
	}
	return e.Score
}

// Contains reports whether the entry holds the exact phrase
func (e Entry) Contains(phrase string) bool {
	for _, p := range e.Patterns {
		if p == phrase {
			return true
		}
	}
	return false
}

type scoredShape struct {
	Score    int      `json:"score"`
	Patterns []string `json:"patterns"`
}

// MarshalJSON writes the entry back in the shape it was loaded with, so a
// load/save round trip of a tier document is semantically stable.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Legacy {
		return json.Marshal(e.Patterns)
	}
	return json.Marshal(scoredShape{Score: e.EffectiveScore(), Patterns: e.Patterns})
}

// UnmarshalJSON accepts either a bare phrase list or a scored object
func (e *Entry) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*e = Entry{Legacy: true, Patterns: list}
		return nil
	}

	var obj scoredShape
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("pattern entry is neither a phrase list nor a scored object: %w", err)
	}
	if obj.Score <= 0 {
		obj.Score = DefaultScore
	}
	*e = Entry{Score: obj.Score, Patterns: obj.Patterns}
	return nil
}

// Set maps category names to the entries active for that category. A category
// can carry several entries when core and custom patterns overlap; each entry
// keeps its own shape and score.
type Set map[string][]Entry

// Document is one persisted pattern tier: categories keyed by name for both
// pattern types.
type Document struct {
	Risks      map[string]Entry `json:"risks"`
	GoodPoints map[string]Entry `json:"good_points"`
}

// NewDocument returns an empty tier document
func NewDocument() *Document {
	return &Document{
		Risks:      make(map[string]Entry),
		GoodPoints: make(map[string]Entry),
	}
}

// ByType returns the category map for the given pattern type
func (d *Document) ByType(t Type) map[string]Entry {
	if t == GoodPoint {
		return d.GoodPoints
	}
	return d.Risks
}

// Contains reports whether the phrase exists anywhere in the document for the
// given pattern type, in either entry shape.
func (d *Document) Contains(t Type, phrase string) bool {
	for _, entry := range d.ByType(t) {
		if entry.Contains(phrase) {
			return true
		}
	}
	return false
}

// Remove deletes the phrase from whichever category holds it. Categories left
// empty after removal are dropped entirely. Returns the category the phrase
// was found in.
func (d *Document) Remove(t Type, phrase string) (string, bool) {
	categories := d.ByType(t)
	for name, entry := range categories {
		for i, p := range entry.Patterns {
			if p != phrase {
				continue
			}
			entry.Patterns = append(entry.Patterns[:i], entry.Patterns[i+1:]...)
			if len(entry.Patterns) == 0 {
				delete(categories, name)
			} else {
				categories[name] = entry
			}
			return name, true
		}
	}
	return "", false
}

// Add appends the phrase to the named category, creating the category in the
// scored shape when absent. Adding an already-present phrase is a no-op.
func (d *Document) Add(t Type, category, phrase string, score int) bool {
	categories := d.ByType(t)
	entry, ok := categories[category]
	if !ok {
		categories[category] = ScoredEntry(score, phrase)
		return true
	}
	if entry.Contains(phrase) {
		return false
	}
	entry.Patterns = append(entry.Patterns, phrase)
	categories[category] = entry
	return true
}
