// Package progress holds the in-process itemId -> LearningState map and
// applies the spaced repetition rule to it.
package progress

import (
	"sync"
	"time"

	"github.com/example/vocabmaster/internal/spaced_repetition"
	"github.com/example/vocabmaster/pkg/models"
)

// Store owns every LearningState. Other components read and write through its methods.
type Store struct {
	mu     sync.RWMutex
	states models.ProgressMap
	ladder spaced_repetition.Ladder
}

// NewStore creates an empty store using the default interval ladder
func NewStore() *Store {
	return NewStoreWithLadder(spaced_repetition.DefaultLadder)
}

// NewStoreWithLadder creates an empty store with a custom interval ladder
func NewStoreWithLadder(ladder spaced_repetition.Ladder) *Store {
	return &Store{
		states: make(models.ProgressMap),
		ladder: ladder,
	}
}

// Lookup returns the recorded state for an item, if any
func (s *Store) Lookup(id string) (models.LearningState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[id]
	return state.Clone(), ok
}

// EffectiveState returns the recorded state or the implicit New state
func (s *Store) EffectiveState(id string) models.LearningState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states.EffectiveState(id).Clone()
}

// ApplyReview grades one item and stores the resulting state
func (s *Store) ApplyReview(id string, action spaced_repetition.ReviewAction, now time.Time) models.LearningState {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.ladder.Next(s.states.EffectiveState(id), action, now)
	s.states[id] = next
	return next.Clone()
}

// ApplyReviewBatch grades every id with the same action and time.
// Each result is computed from the state before the batch and all results
// are committed together.
func (s *Store) ApplyReviewBatch(ids []string, action spaced_repetition.ReviewAction, now time.Time) models.ProgressMap {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make(models.ProgressMap, len(ids))
	for _, id := range ids {
		results[id] = s.ladder.Next(s.states.EffectiveState(id), action, now)
	}
	for id, state := range results {
		s.states[id] = state
	}
	return results.Clone()
}

// MarkMastered forces an item to Mastered regardless of its current state
func (s *Store) MarkMastered(id string) models.LearningState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.ladder.Mastered()
	s.states[id] = state
	return state
}

// Reset returns every given id to the New state
func (s *Store) Reset(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		s.states[id] = models.NewState()
	}
}

// Reconcile seeds New states for unseen ids and drops states whose item is gone.
// It reports whether anything changed.
func (s *Store) Reconcile(currentIDs []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	current := make(map[string]struct{}, len(currentIDs))
	for _, id := range currentIDs {
		current[id] = struct{}{}
		if _, ok := s.states[id]; !ok {
			s.states[id] = models.NewState()
			changed = true
		}
	}
	for id := range s.states {
		if _, ok := current[id]; !ok {
			delete(s.states, id)
			changed = true
		}
	}
	return changed
}

// Replace swaps the whole map, used when loading a persisted document
func (s *Store) Replace(states models.ProgressMap) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if states == nil {
		s.states = make(models.ProgressMap)
		return
	}
	s.states = states.Clone()
}

// Snapshot returns a copy of the whole map
func (s *Store) Snapshot() models.ProgressMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states.Clone()
}

// Len returns the number of recorded states
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

// Ladder returns the interval ladder in use
func (s *Store) Ladder() spaced_repetition.Ladder {
	return s.ladder
}
