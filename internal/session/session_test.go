package session

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabmaster/internal/progress"
	"github.com/example/vocabmaster/internal/spaced_repetition"
	"github.com/example/vocabmaster/pkg/models"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeEngine struct {
	items   []models.VocabularyItem
	store   *progress.Store
	batches [][]string
}

func newFakeEngine(n int) *fakeEngine {
	items := make([]models.VocabularyItem, n)
	for i := range items {
		items[i] = models.VocabularyItem{
			ID:       fmt.Sprintf("w%d", i+1),
			Word:     fmt.Sprintf("Word%d", i+1),
			Type:     "noun",
			Meaning:  fmt.Sprintf("meaning %d", i+1),
			Example1: "example",
		}
	}
	return &fakeEngine{items: items, store: progress.NewStore()}
}

func (f *fakeEngine) Items() []models.VocabularyItem { return f.items }

func (f *fakeEngine) EffectiveState(id string) models.LearningState {
	return f.store.EffectiveState(id)
}

func (f *fakeEngine) Today() civil.Date { return civil.DateOf(testNow) }

func (f *fakeEngine) ApplyReview(_ context.Context, id string, action spaced_repetition.ReviewAction) (models.LearningState, error) {
	return f.store.ApplyReview(id, action, testNow), nil
}

func (f *fakeEngine) ApplyReviewBatch(_ context.Context, ids []string, action spaced_repetition.ReviewAction) (models.ProgressMap, error) {
	f.batches = append(f.batches, ids)
	return f.store.ApplyReviewBatch(ids, action, testNow), nil
}

func (f *fakeEngine) MarkMastered(_ context.Context, id string) (models.LearningState, error) {
	return f.store.MarkMastered(id), nil
}

// learnAll puts every item in progress with a review due in the future
func (f *fakeEngine) learnAll() {
	for _, item := range f.items {
		f.store.ApplyReview(item.ID, spaced_repetition.Good, testNow)
	}
}

// makeDue sets the first n items InProgress at stage 2, due yesterday
func (f *fakeEngine) makeDue(n int) {
	yesterday := civil.DateOf(testNow).AddDays(-1)
	states := models.ProgressMap{}
	for _, item := range f.items[:n] {
		states[item.ID] = models.LearningState{Status: models.StatusInProgress, Stage: 2, NextReviewDate: &yesterday}
	}
	f.store.Replace(states)
}

func TestLearnDrawsBatchesInOrder(t *testing.T) {
	engine := newFakeEngine(12)
	l := NewLearn(engine, nil)
	require.False(t, l.NotEnoughWords())

	item, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, "w1", item.ID)
	pos, size := l.Position()
	assert.Equal(t, 1, pos)
	assert.Equal(t, 10, size)

	for i := 0; i < 10; i++ {
		_, err := l.Answer(context.Background(), spaced_repetition.Good)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, l.Round(), "queue is regenerated at its end")
	item, ok = l.Current()
	require.True(t, ok)
	assert.Equal(t, "w1", item.ID)
	assert.Equal(t, models.StatusInProgress, engine.EffectiveState("w1").Status)
}

func TestLearnAlreadyKnownSkipsWord(t *testing.T) {
	engine := newFakeEngine(2)
	l := NewLearn(engine, nil)

	state, err := l.AlreadyKnown(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusMastered, state.Status)

	_, err = l.Answer(context.Background(), spaced_repetition.Again)
	require.NoError(t, err)

	item, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, "w2", item.ID, "mastered words are not drawn again")
	_, size := l.Position()
	assert.Equal(t, 1, size)
}

func TestLearnRejectsOtherGrades(t *testing.T) {
	l := NewLearn(newFakeEngine(1), nil)
	_, err := l.Answer(context.Background(), spaced_repetition.Easy)
	require.ErrorIs(t, err, ErrUnsupportedAction)
}

func TestLearnNotEnoughWords(t *testing.T) {
	l := NewLearn(newFakeEngine(0), nil)
	assert.True(t, l.NotEnoughWords())
	_, err := l.Answer(context.Background(), spaced_repetition.Good)
	require.ErrorIs(t, err, ErrSessionFinished)

	engine := newFakeEngine(1)
	l = NewLearn(engine, nil)
	_, err = l.AlreadyKnown(context.Background())
	require.NoError(t, err)
	assert.True(t, l.NotEnoughWords())
}

func TestReviewRequiresCheck(t *testing.T) {
	engine := newFakeEngine(3)
	engine.makeDue(2)
	r := NewReview(engine, All, nil)
	require.Equal(t, 2, r.Remaining())

	assert.Nil(t, r.AllowedGrades())
	_, err := r.Grade(context.Background(), spaced_repetition.Good)
	require.ErrorIs(t, err, ErrNotChecked)
}

func TestReviewFailedCheckForcesAgain(t *testing.T) {
	engine := newFakeEngine(1)
	engine.makeDue(1)
	r := NewReview(engine, All, nil)

	ok, err := r.Check("wrod1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []spaced_repetition.ReviewAction{spaced_repetition.Again}, r.AllowedGrades())

	state, err := r.Grade(context.Background(), spaced_repetition.Easy)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Stage)
	assert.Equal(t, models.StatusInProgress, state.Status)
	assert.True(t, r.Done())
}

func TestReviewPassedCheckUsesChosenGrade(t *testing.T) {
	engine := newFakeEngine(1)
	engine.makeDue(1)
	r := NewReview(engine, All, nil)

	ok, err := r.Check("  word1 ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, r.AllowedGrades(), 4)

	state, err := r.Grade(context.Background(), spaced_repetition.Good)
	require.NoError(t, err)
	assert.Equal(t, 3, state.Stage)
	require.NotNil(t, state.NextReviewDate)
	assert.Equal(t, civil.DateOf(testNow).AddDays(8), *state.NextReviewDate)
	assert.Equal(t, 1, r.Correct())
}

func TestReviewQuickMode(t *testing.T) {
	engine := newFakeEngine(15)
	engine.makeDue(15)

	assert.Equal(t, 15, NewReview(engine, All, nil).Remaining())
	assert.Equal(t, 10, NewReview(engine, Quick, nil).Remaining())
	assert.True(t, NewReview(newFakeEngine(5), All, nil).NotEnoughWords())
}

func TestQuizNeedsFourKnownWords(t *testing.T) {
	engine := newFakeEngine(3)
	engine.learnAll()
	q := NewQuiz(engine, nil, rand.New(rand.NewSource(1)))
	assert.True(t, q.NotEnoughWords())

	_, err := q.Answer(0)
	require.ErrorIs(t, err, ErrSessionFinished)
}

func TestQuizQuestions(t *testing.T) {
	engine := newFakeEngine(12)
	engine.learnAll()
	q := NewQuiz(engine, nil, rand.New(rand.NewSource(7)))
	require.Equal(t, 10, q.Len())

	seen := map[string]bool{}
	for _, question := range q.questions {
		assert.False(t, seen[question.Item.ID], "each word is asked once")
		seen[question.Item.ID] = true

		require.Len(t, question.Options, 4)
		assert.Equal(t, question.Item.Meaning, question.Options[question.CorrectIndex])
		unique := map[string]bool{}
		for _, option := range question.Options {
			unique[option] = true
		}
		assert.Len(t, unique, 4)
	}
}

func TestQuizFinishGradesCorrectAnswers(t *testing.T) {
	engine := newFakeEngine(5)
	engine.learnAll()
	q := NewQuiz(engine, nil, rand.New(rand.NewSource(3)))
	require.Equal(t, 5, q.Len())

	var correctIDs []string
	for i := 0; ; i++ {
		question, ok := q.Current()
		if !ok {
			break
		}
		option := question.CorrectIndex
		if i%2 == 1 {
			option = (question.CorrectIndex + 1) % len(question.Options)
		} else {
			correctIDs = append(correctIDs, question.Item.ID)
		}
		_, err := q.Answer(option)
		require.NoError(t, err)
	}

	result, err := q.Finish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 3, result.Correct)
	assert.Len(t, result.Wrong, 2)

	require.Len(t, engine.batches, 1)
	assert.ElementsMatch(t, correctIDs, engine.batches[0])
	for _, id := range correctIDs {
		assert.Equal(t, 1, engine.EffectiveState(id).Stage)
	}

	_, err = q.Finish(context.Background())
	require.ErrorIs(t, err, ErrSessionFinished)
}

func TestQuizSkipsDuplicateMeanings(t *testing.T) {
	engine := newFakeEngine(5)
	engine.items[1].Meaning = engine.items[0].Meaning
	engine.learnAll()

	q := NewQuiz(engine, nil, rand.New(rand.NewSource(5)))
	for _, question := range q.questions {
		unique := map[string]bool{}
		for _, option := range question.Options {
			assert.False(t, unique[option], "duplicate option %q", option)
			unique[option] = true
		}
	}
}

type recordingSpeaker struct {
	spoken []Utterance
}

func (s *recordingSpeaker) Speak(_ context.Context, u Utterance) error {
	s.spoken = append(s.spoken, u)
	return nil
}

func TestListening(t *testing.T) {
	assert.True(t, NewListening(newFakeEngine(3), All, nil, models.DefaultSettings(), nil, nil).NotEnoughWords())

	engine := newFakeEngine(2)
	engine.learnAll()
	speaker := &recordingSpeaker{}
	settings := models.Settings{Theme: models.ThemeDark, DefaultVoice: models.VoiceUS, SpeechSpeed: 0.75}
	l := NewListening(engine, All, nil, settings, speaker, rand.New(rand.NewSource(1)))
	require.False(t, l.NotEnoughWords())

	first, _ := l.Current()
	u, err := l.Prompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Utterance{Text: first.Word, Lang: "en-US", Rate: 0.75}, u)
	require.Len(t, speaker.spoken, 1)

	ok, state, err := l.Answer(context.Background(), " "+first.Word+" ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, state.Stage)

	second, _ := l.Current()
	ok, state, err = l.Answer(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, state.Stage)
	assert.Equal(t, 0, engine.EffectiveState(second.ID).Stage)

	correct, answered := l.Score()
	assert.Equal(t, 1, correct)
	assert.Equal(t, 2, answered)
	assert.True(t, l.Done())
}

func TestNewUtteranceDefaults(t *testing.T) {
	u := NewUtterance("schedule", models.DefaultSettings())
	assert.Equal(t, "en-GB", u.Lang)
	assert.Equal(t, 1.0, u.Rate)
}
