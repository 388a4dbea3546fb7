package patterns

import (
	"encoding/json"
	"testing"
)

func TestEntryUnmarshal_LegacyList(t *testing.T) {
	var entry Entry
	if err := json.Unmarshal([]byte(`["no refunds", "non-refundable"]`), &entry); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !entry.Legacy {
		t.Error("expected legacy shape")
	}
	if entry.EffectiveScore() != DefaultScore {
		t.Errorf("expected default score %d, got %d", DefaultScore, entry.EffectiveScore())
	}
	if len(entry.Patterns) != 2 {
		t.Errorf("expected 2 phrases, got %d", len(entry.Patterns))
	}
}

func TestEntryUnmarshal_ScoredObject(t *testing.T) {
	var entry Entry
	if err := json.Unmarshal([]byte(`{"score": 5, "patterns": ["surcharges apply"]}`), &entry); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if entry.Legacy {
		t.Error("expected scored shape")
	}
	if entry.EffectiveScore() != 5 {
		t.Errorf("expected score 5, got %d", entry.EffectiveScore())
	}
}

func TestEntryUnmarshal_MissingScoreDefaults(t *testing.T) {
	var entry Entry
	if err := json.Unmarshal([]byte(`{"patterns": ["hidden costs"]}`), &entry); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if entry.EffectiveScore() != DefaultScore {
		t.Errorf("expected default score %d, got %d", DefaultScore, entry.EffectiveScore())
	}
}

func TestEntryUnmarshal_Invalid(t *testing.T) {
	var entry Entry
	if err := json.Unmarshal([]byte(`42`), &entry); err == nil {
		t.Error("expected error for non-list non-object entry")
	}
}

func TestEntryMarshal_RoundTripKeepsShape(t *testing.T) {
	legacy := LegacyEntry("no refunds")
	data, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `["no refunds"]` {
		t.Errorf("expected legacy entry to marshal as a bare list, got %s", data)
	}

	scored := ScoredEntry(4, "hidden costs")
	data, err = json.Marshal(scored)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"score":4,"patterns":["hidden costs"]}` {
		t.Errorf("expected scored entry to marshal as an object, got %s", data)
	}
}

func TestDocumentAdd(t *testing.T) {
	doc := NewDocument()

	if !doc.Add(Risk, "hidden_charges", "setup fee applies", 4) {
		t.Error("expected first add to succeed")
	}
	if doc.Add(Risk, "hidden_charges", "setup fee applies", 4) {
		t.Error("expected duplicate add to be a no-op")
	}
	if !doc.Add(Risk, "hidden_charges", "activation fee applies", 4) {
		t.Error("expected new phrase in existing category to succeed")
	}

	entry := doc.Risks["hidden_charges"]
	if len(entry.Patterns) != 2 {
		t.Errorf("expected 2 phrases, got %d", len(entry.Patterns))
	}
	if entry.EffectiveScore() != 4 {
		t.Errorf("expected score 4, got %d", entry.EffectiveScore())
	}
}

func TestDocumentRemove(t *testing.T) {
	doc := NewDocument()
	doc.Add(Risk, "hidden_charges", "setup fee applies", 4)
	doc.Add(Risk, "hidden_charges", "activation fee applies", 4)

	category, found := doc.Remove(Risk, "setup fee applies")
	if !found || category != "hidden_charges" {
		t.Fatalf("expected removal from hidden_charges, got %q found=%v", category, found)
	}
	if len(doc.Risks["hidden_charges"].Patterns) != 1 {
		t.Error("expected one phrase to remain")
	}

	// Removing the last phrase drops the category entirely.
	if _, found := doc.Remove(Risk, "activation fee applies"); !found {
		t.Fatal("expected removal to succeed")
	}
	if _, ok := doc.Risks["hidden_charges"]; ok {
		t.Error("expected emptied category to be dropped")
	}

	if _, found := doc.Remove(Risk, "never added"); found {
		t.Error("expected removal of unknown phrase to report not found")
	}
}

func TestDocumentContains_ChecksTypeSeparately(t *testing.T) {
	doc := NewDocument()
	doc.Add(Risk, "hidden_charges", "setup fee applies", 4)

	if !doc.Contains(Risk, "setup fee applies") {
		t.Error("expected risk phrase to be found")
	}
	if doc.Contains(GoodPoint, "setup fee applies") {
		t.Error("expected phrase to be absent from good points")
	}
}

func TestTypeValid(t *testing.T) {
	if !Risk.Valid() || !GoodPoint.Valid() {
		t.Error("expected both known types to be valid")
	}
	if Type("bonus_points").Valid() {
		t.Error("expected unknown type to be invalid")
	}
}

func TestCorePatterns_ReturnsIndependentCopy(t *testing.T) {
	first := CorePatterns(Risk)
	entry := first["non_refundable"]
	entry.Patterns[0] = "mutated"

	second := CorePatterns(Risk)
	if second["non_refundable"].Patterns[0] == "mutated" {
		t.Error("expected core dictionary to be unaffected by caller mutation")
	}
}
