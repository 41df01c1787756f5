package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/example/vocabmaster/internal/syncer"
	"github.com/example/vocabmaster/pkg/models"
)

// WordStore implements syncer.WordStore
type WordStore struct {
	client *Client
}

var _ syncer.WordStore = (*WordStore)(nil)

// Add stores a new item under a fresh id
func (s *WordStore) Add(ctx context.Context, userID string, item models.NewVocabularyItem) (string, error) {
	id := uuid.NewString()
	data, err := json.Marshal(item.WithID(id))
	if err != nil {
		return "", fmt.Errorf("marshal word: %w", err)
	}

	if _, err := s.client.kv.Create(ctx, wordKey(userID, id), data); err != nil {
		return "", fmt.Errorf("create word: %w", err)
	}
	s.client.logger.Debug("Word added", zap.String("id", id), zap.String("word", item.Word))
	return id, nil
}

// Watch emits the full item set once the current values are loaded and
// again after every change
func (s *WordStore) Watch(ctx context.Context, userID string) (<-chan syncer.WordSnapshot, error) {
	watcher, err := s.client.kv.Watch(ctx, wordsFilter(userID))
	if err != nil {
		return nil, fmt.Errorf("watch words: %w", err)
	}

	out := make(chan syncer.WordSnapshot)
	go func() {
		defer close(out)
		defer watcher.Stop()

		set := newWordSet()
		loaded := false
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-watcher.Updates():
				if !ok {
					return
				}
				if entry == nil {
					// End of initial values
					loaded = true
				} else if !s.apply(set, entry) {
					continue
				}
				if !loaded {
					continue
				}

				select {
				case out <- syncer.WordSnapshot{Items: set.items()}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// apply records one entry and reports whether the set changed
func (s *WordStore) apply(set *wordSet, entry jetstream.KeyValueEntry) bool {
	id := entry.Key()[strings.LastIndex(entry.Key(), ".")+1:]

	if entry.Operation() != jetstream.KeyValuePut {
		return set.remove(id)
	}

	var item models.VocabularyItem
	if err := json.Unmarshal(entry.Value(), &item); err != nil {
		s.client.logger.Warn("Failed to parse word", zap.String("key", entry.Key()), zap.Error(err))
		return false
	}
	item.ID = id
	set.put(item)
	return true
}

// wordSet keeps items in first-seen order
type wordSet struct {
	order []string
	byID  map[string]models.VocabularyItem
}

func newWordSet() *wordSet {
	return &wordSet{byID: map[string]models.VocabularyItem{}}
}

func (s *wordSet) put(item models.VocabularyItem) {
	if _, ok := s.byID[item.ID]; !ok {
		s.order = append(s.order, item.ID)
	}
	s.byID[item.ID] = item
}

func (s *wordSet) remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *wordSet) items() []models.VocabularyItem {
	out := make([]models.VocabularyItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}
