package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabmaster/internal/metrics"
	"github.com/example/vocabmaster/internal/syncer"
	"github.com/example/vocabmaster/pkg/models"
)

type fakeGenerator struct {
	failing     map[string]bool
	unavailable bool
	scanned     []models.NewVocabularyItem
}

func draftFor(word string) models.NewVocabularyItem {
	return models.NewVocabularyItem{
		Word:     word,
		Type:     "noun",
		Meaning:  "nghĩa của " + word,
		Example1: "An example with " + word + ".",
	}
}

func (f *fakeGenerator) FromWord(_ context.Context, word string) (models.NewVocabularyItem, error) {
	if f.unavailable {
		return models.NewVocabularyItem{}, fmt.Errorf("dial api: %w", ErrUnavailable)
	}
	if f.failing[word] {
		return models.NewVocabularyItem{}, errors.New("malformed response")
	}
	return draftFor(word), nil
}

func (f *fakeGenerator) FromImage(context.Context, []byte, string) ([]models.NewVocabularyItem, error) {
	if f.unavailable {
		return nil, ErrUnavailable
	}
	return f.scanned, nil
}

type fakeSaver struct {
	mu     sync.Mutex
	saved  []models.NewVocabularyItem
	errFor map[string]error
}

func (s *fakeSaver) AddWord(_ context.Context, item models.NewVocabularyItem) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errFor[item.Word]; err != nil {
		return "", err
	}
	s.saved = append(s.saved, item)
	return fmt.Sprintf("id-%d", len(s.saved)), nil
}

func newTestBatch(gen Generator, m *metrics.Metrics) *Batch {
	return NewBatch(gen, 2, 1000, nil, m)
}

func TestParseWordList(t *testing.T) {
	assert.Equal(t, []string{"apple", "run fast", "banana"}, ParseWordList(" apple, run fast ,, banana,"))
	assert.Empty(t, ParseWordList(" , ,"))
}

func TestGenerateKeepsOrder(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	drafts, err := newTestBatch(&fakeGenerator{}, nil).Generate(context.Background(), words)
	require.NoError(t, err)
	require.Len(t, drafts, len(words))
	for i, w := range words {
		assert.Equal(t, w, drafts[i].Word)
	}
}

func TestGenerateCollectsFailures(t *testing.T) {
	m := metrics.New()
	gen := &fakeGenerator{failing: map[string]bool{"qwzx": true, "beta": true}}

	drafts, err := newTestBatch(gen, m).Generate(context.Background(), []string{"alpha", "qwzx", "beta", "gamma"})

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, []string{"qwzx", "beta"}, genErr.Failed)
	assert.Contains(t, err.Error(), "qwzx, beta")
	require.Len(t, drafts, 2)
	assert.Equal(t, "alpha", drafts[0].Word)
	assert.Equal(t, "gamma", drafts[1].Word)
}

func TestGenerateAbortsWhenUnavailable(t *testing.T) {
	drafts, err := newTestBatch(&fakeGenerator{unavailable: true}, nil).Generate(context.Background(), []string{"a", "b", "c"})
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Nil(t, drafts)

	var genErr *GenerationError
	assert.False(t, errors.As(err, &genErr))
}

func TestGenerateEmptyInput(t *testing.T) {
	_, err := newTestBatch(&fakeGenerator{}, nil).Generate(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestScan(t *testing.T) {
	b := newTestBatch(&fakeGenerator{}, nil)
	_, err := b.Scan(context.Background(), []byte{0x89}, "image/png")
	require.ErrorIs(t, err, ErrNoWordsFound)

	b = newTestBatch(&fakeGenerator{scanned: []models.NewVocabularyItem{draftFor("cat")}}, nil)
	drafts, err := b.Scan(context.Background(), []byte{0x89}, "image/png")
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	b = newTestBatch(&fakeGenerator{unavailable: true}, nil)
	_, err = b.Scan(context.Background(), []byte{0x89}, "image/png")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestSaveAllSkipsIncompleteDrafts(t *testing.T) {
	incomplete := draftFor("sonder")
	incomplete.Meaning = ""
	drafts := []models.NewVocabularyItem{draftFor("apple"), incomplete, draftFor("banana")}

	saver := &fakeSaver{}
	report, err := SaveAll(context.Background(), saver, drafts)
	require.NoError(t, err)

	assert.Len(t, report.Saved, 2)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "sonder", report.Skipped[0].Word)
	assert.Equal(t, []string{"meaning"}, report.Skipped[0].Missing)
	assert.Contains(t, report.Skipped[0].Error(), `"sonder"`)
	assert.Empty(t, report.Failed)
	assert.Equal(t, "Successfully saved 2 words. 1 entries were not saved.", report.Summary())
}

func TestSaveAllContinuesAfterStoreError(t *testing.T) {
	saver := &fakeSaver{errFor: map[string]error{"apple": errors.New("permission denied")}}
	report, err := SaveAll(context.Background(), saver, []models.NewVocabularyItem{draftFor("apple"), draftFor("banana")})
	require.NoError(t, err)
	assert.Len(t, report.Saved, 1)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "apple", report.Failed[0].Word)
}

func TestSaveAllStopsForGuests(t *testing.T) {
	saver := &fakeSaver{errFor: map[string]error{"apple": syncer.ErrGuestWriteForbidden}}
	report, err := SaveAll(context.Background(), saver, []models.NewVocabularyItem{draftFor("apple"), draftFor("banana")})
	require.ErrorIs(t, err, syncer.ErrGuestWriteForbidden)
	assert.Empty(t, report.Saved)
	assert.Empty(t, saver.saved)
}
