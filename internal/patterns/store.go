package patterns

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPatternNotFound is returned when a lifecycle operation names a phrase
// that does not exist in the pending tier.
var ErrPatternNotFound = errors.New("pattern not found in pending tier")

// Tier names one of the two persisted pattern collections. The core tier is
// code-defined and has no persistence.
type Tier string

const (
	TierCustom  Tier = "custom"
	TierPending Tier = "pending"
)

// StoreIOError wraps a tier read or write failure. The underlying operation
// is aborted with no partial mutation committed; callers should retry.
type StoreIOError struct {
	Tier Tier
	Op   string
	Err  error
}

func (e *StoreIOError) Error() string {
	return fmt.Sprintf("pattern store: %s %s tier: %v", e.Op, e.Tier, e.Err)
}

func (e *StoreIOError) Unwrap() error { return e.Err }

// TierRepository persists tier documents. Documents are read fully into
// memory and rewritten fully on each mutation.
type TierRepository interface {
	Load(ctx context.Context, tier Tier) (*Document, error)
	Save(ctx context.Context, tier Tier, doc *Document) error
}

// PendingCandidate is a detector-proposed phrase awaiting human review
type PendingCandidate struct {
	Type     Type   `json:"type"`
	Category string `json:"category"`
	Phrase   string `json:"phrase"`
}

// Store is the three-tier pattern registry. Core patterns are immutable and
// code-defined; the custom tier holds curated phrases actively used for
// detection; the pending tier holds detector candidates and never feeds
// detection. All mutations are serialized behind a single mutex so that
// concurrent promote/reject/detect cycles cannot lose updates.
type Store struct {
	mu   sync.Mutex
	repo TierRepository
}

// NewStore creates a pattern store backed by the given tier repository
func NewStore(repo TierRepository) *Store {
	return &Store{repo: repo}
}

// Core returns the built-in dictionaries for both pattern types
func (s *Store) Core() (risks, goodPoints map[string]Entry) {
	return CorePatterns(Risk), CorePatterns(GoodPoint)
}

// Custom returns the current custom (active) tier document
func (s *Store) Custom(ctx context.Context) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, TierCustom)
}

// Pending returns the current pending (candidate) tier document
func (s *Store) Pending(ctx context.Context) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, TierPending)
}

// ActivePatterns merges the core and custom tiers into the pattern sets used
// for detection. Phrases already present in a category are not duplicated by
// later entries; core phrases keep their flat default score while scored
// custom entries keep their own. The pending tier never contributes.
func (s *Store) ActivePatterns(ctx context.Context) (risks, goodPoints Set, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	custom, err := s.load(ctx, TierCustom)
	if err != nil {
		return nil, nil, err
	}

	risks = mergeActive(CorePatterns(Risk), custom.Risks)
	goodPoints = mergeActive(CorePatterns(GoodPoint), custom.GoodPoints)
	return risks, goodPoints, nil
}

func mergeActive(core map[string]Entry, custom map[string]Entry) Set {
	set := make(Set, len(core)+len(custom))
	seen := make(map[string]map[string]bool)

	appendEntry := func(category string, entry Entry) {
		if seen[category] == nil {
			seen[category] = make(map[string]bool)
		}
		var phrases []string
		for _, p := range entry.Patterns {
			if seen[category][p] {
				continue
			}
			seen[category][p] = true
			phrases = append(phrases, p)
		}
		if len(phrases) == 0 {
			return
		}
		entry.Patterns = phrases
		set[category] = append(set[category], entry)
	}

	for category, entry := range core {
		appendEntry(category, entry)
	}
	for category, entry := range custom {
		appendEntry(category, entry)
	}
	return set
}

// Promote moves a pending phrase into the custom tier under the given
// category with the reviewer-assigned score. The phrase is removed from
// wherever it occurs in pending; an emptied pending category is dropped.
// Promoting a phrase already present in custom only removes it from pending.
func (s *Store) Promote(ctx context.Context, phrase, category string, t Type, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.load(ctx, TierPending)
	if err != nil {
		return err
	}
	if _, found := pending.Remove(t, phrase); !found {
		return ErrPatternNotFound
	}

	custom, err := s.load(ctx, TierCustom)
	if err != nil {
		return err
	}
	custom.Add(t, category, phrase, score)

	// Both tiers are written before the operation reports success.
	if err := s.save(ctx, TierCustom, custom); err != nil {
		return err
	}
	return s.save(ctx, TierPending, pending)
}

// Reject removes a pending phrase without promoting it
func (s *Store) Reject(ctx context.Context, phrase string, t Type) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.load(ctx, TierPending)
	if err != nil {
		return err
	}
	if _, found := pending.Remove(t, phrase); !found {
		return ErrPatternNotFound
	}
	return s.save(ctx, TierPending, pending)
}

// AddDirectly inserts a phrase straight into the custom tier, bypassing the
// pending review queue. Idempotent: re-adding an existing phrase is a no-op.
func (s *Store) AddDirectly(ctx context.Context, phrase, category string, t Type, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	custom, err := s.load(ctx, TierCustom)
	if err != nil {
		return err
	}
	if !custom.Add(t, category, phrase, score) {
		return nil
	}
	return s.save(ctx, TierCustom, custom)
}

// AppendPending queues detector candidates into the pending tier. A candidate
// whose exact phrase already exists in core, custom, or pending for its
// pattern type is skipped. New pending categories are created with the
// default score. Returns the number of candidates actually queued.
func (s *Store) AppendPending(ctx context.Context, candidates []PendingCandidate) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.load(ctx, TierPending)
	if err != nil {
		return 0, err
	}
	custom, err := s.load(ctx, TierCustom)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, c := range candidates {
		if coreContains(c.Type, c.Phrase) ||
			custom.Contains(c.Type, c.Phrase) ||
			pending.Contains(c.Type, c.Phrase) {
			continue
		}
		if pending.Add(c.Type, c.Category, c.Phrase, DefaultScore) {
			added++
		}
	}

	if added == 0 {
		return 0, nil
	}
	if err := s.save(ctx, TierPending, pending); err != nil {
		return 0, err
	}
	return added, nil
}

func (s *Store) load(ctx context.Context, tier Tier) (*Document, error) {
	doc, err := s.repo.Load(ctx, tier)
	if err != nil {
		return nil, &StoreIOError{Tier: tier, Op: "load", Err: err}
	}
	if doc.Risks == nil {
		doc.Risks = make(map[string]Entry)
	}
	if doc.GoodPoints == nil {
		doc.GoodPoints = make(map[string]Entry)
	}
	return doc, nil
}

func (s *Store) save(ctx context.Context, tier Tier, doc *Document) error {
	if err := s.repo.Save(ctx, tier, doc); err != nil {
		return &StoreIOError{Tier: tier, Op: "save", Err: err}
	}
	return nil
}
