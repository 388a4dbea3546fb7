package patterns

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newFileRepo(t *testing.T) (*FileTierRepository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := NewFileTierRepository(
		filepath.Join(dir, "custom_patterns.json"),
		filepath.Join(dir, "pending_patterns.json"),
	)
	if err != nil {
		t.Fatalf("failed to create file repository: %v", err)
	}
	return repo, dir
}

func TestFileTierRepository_MissingFileReadsAsEmpty(t *testing.T) {
	repo, _ := newFileRepo(t)

	doc, err := repo.Load(context.Background(), TierCustom)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(doc.Risks) != 0 || len(doc.GoodPoints) != 0 {
		t.Error("expected empty document for missing file")
	}
}

func TestFileTierRepository_RoundTripPreservesShapes(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	doc := NewDocument()
	doc.Risks["legacy_category"] = LegacyEntry("no refunds", "non-refundable")
	doc.Risks["scored_category"] = ScoredEntry(4, "setup fee applies")
	doc.GoodPoints["transparency"] = ScoredEntry(2, "itemized invoice provided")

	if err := repo.Save(ctx, TierCustom, doc); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := repo.Load(ctx, TierCustom)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	legacy := loaded.Risks["legacy_category"]
	if !legacy.Legacy || len(legacy.Patterns) != 2 {
		t.Errorf("expected legacy shape with 2 phrases, got %+v", legacy)
	}
	scored := loaded.Risks["scored_category"]
	if scored.Legacy || scored.EffectiveScore() != 4 {
		t.Errorf("expected scored shape with score 4, got %+v", scored)
	}
	if loaded.GoodPoints["transparency"].EffectiveScore() != 2 {
		t.Errorf("expected good point score 2, got %d", loaded.GoodPoints["transparency"].EffectiveScore())
	}
}

func TestFileTierRepository_RejectsMalformedDocuments(t *testing.T) {
	repo, dir := newFileRepo(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
	}{
		{"score out of range", `{"risks": {"cat": {"score": 9, "patterns": ["x"]}}}`},
		{"unknown top-level key", `{"risk_patterns": {}}`},
		{"non-string phrase", `{"risks": {"cat": [42]}}`},
		{"missing patterns field", `{"risks": {"cat": {"score": 3}}}`},
		{"not json at all", `{{{`},
	}

	path := filepath.Join(dir, "custom_patterns.json")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write fixture: %v", err)
			}
			if _, err := repo.Load(ctx, TierCustom); err == nil {
				t.Error("expected load to reject the document")
			}
		})
	}
}

func TestFileTierRepository_AcceptsHandWrittenLegacyFile(t *testing.T) {
	repo, dir := newFileRepo(t)

	content := `{
  "risks": {
    "hidden_charges": ["setup fee applies", "activation fee applies"]
  },
  "good_points": {}
}`
	path := filepath.Join(dir, "custom_patterns.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := repo.Load(context.Background(), TierCustom)
	if err != nil {
		t.Fatalf("expected legacy file to load, got %v", err)
	}
	if !doc.Contains(Risk, "setup fee applies") {
		t.Error("expected legacy phrases to be loaded")
	}
}

func TestFileTierRepository_UnknownTier(t *testing.T) {
	repo, _ := newFileRepo(t)

	if _, err := repo.Load(context.Background(), Tier("core")); err == nil {
		t.Error("expected error for unknown tier")
	}
	if err := repo.Save(context.Background(), Tier("core"), NewDocument()); err == nil {
		t.Error("expected error for unknown tier")
	}
}
