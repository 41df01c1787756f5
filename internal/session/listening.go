package session

import (
	"context"
	"math/rand"
	"time"

	"github.com/example/vocabmaster/internal/scheduler"
	"github.com/example/vocabmaster/internal/spaced_repetition"
	"github.com/example/vocabmaster/pkg/models"
)

// Listening is a dictation round over known words. Each answer is graded
// immediately: Good on an exact case-insensitive match, Again otherwise.
type Listening struct {
	engine   Engine
	speaker  Synthesizer
	settings models.Settings
	queue    []models.VocabularyItem
	pos      int
	correct  int
}

// NewListening shuffles the known words. speaker and rnd may be nil.
func NewListening(engine Engine, mode Mode, config *Config, settings models.Settings, speaker Synthesizer, rnd *rand.Rand) *Listening {
	config = config.orDefault()
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	known := scheduler.KnownWords(engine.Items(), engine)
	queue := make([]models.VocabularyItem, len(known))
	copy(queue, known)
	rnd.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})
	if mode == Quick {
		queue = limit(queue, config.QuickSize)
	}

	return &Listening{engine: engine, speaker: speaker, settings: settings, queue: queue}
}

// NotEnoughWords reports that no word is known yet
func (l *Listening) NotEnoughWords() bool {
	return len(l.queue) == 0
}

// Done reports whether every word has been answered
func (l *Listening) Done() bool {
	return l.pos >= len(l.queue)
}

// Current returns the word to be dictated
func (l *Listening) Current() (models.VocabularyItem, bool) {
	if l.Done() {
		return models.VocabularyItem{}, false
	}
	return l.queue[l.pos], true
}

// Score returns correct answers and answered words
func (l *Listening) Score() (int, int) {
	return l.correct, l.pos
}

// Prompt speaks the current word
func (l *Listening) Prompt(ctx context.Context) (Utterance, error) {
	item, ok := l.Current()
	if !ok {
		return Utterance{}, ErrSessionFinished
	}
	u := NewUtterance(item.Word, l.settings)
	if l.speaker == nil {
		return u, nil
	}
	return u, l.speaker.Speak(ctx, u)
}

// Answer grades what the learner typed and moves on
func (l *Listening) Answer(ctx context.Context, typed string) (bool, models.LearningState, error) {
	item, ok := l.Current()
	if !ok {
		return false, models.LearningState{}, ErrSessionFinished
	}

	correct := matches(typed, item.Word)
	action := spaced_repetition.Again
	if correct {
		action = spaced_repetition.Good
		l.correct++
	}
	state, err := l.engine.ApplyReview(ctx, item.ID, action)
	l.pos++
	return correct, state, err
}
