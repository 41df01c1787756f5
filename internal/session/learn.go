package session

import (
	"context"

	"github.com/example/vocabmaster/internal/scheduler"
	"github.com/example/vocabmaster/internal/spaced_repetition"
	"github.com/example/vocabmaster/pkg/models"
)

// Learn presents not-yet-mastered words in batches. When a batch runs out
// a fresh one is drawn, so the session only ends when nothing is left to learn.
type Learn struct {
	engine Engine
	config *Config
	queue  []models.VocabularyItem
	pos    int
	rounds int
}

// NewLearn draws the first batch
func NewLearn(engine Engine, config *Config) *Learn {
	l := &Learn{engine: engine, config: config.orDefault()}
	l.refill()
	return l
}

func (l *Learn) refill() {
	words := scheduler.WordsToLearn(l.engine.Items(), l.engine)
	l.queue = limit(words, l.config.BatchSize)
	l.pos = 0
	l.rounds++
}

// NotEnoughWords reports the terminal state of an empty queue
func (l *Learn) NotEnoughWords() bool {
	return len(l.queue) == 0
}

// Current returns the item being learned
func (l *Learn) Current() (models.VocabularyItem, bool) {
	if l.pos >= len(l.queue) {
		return models.VocabularyItem{}, false
	}
	return l.queue[l.pos], true
}

// Position returns the 1-based index of the current item and the batch size
func (l *Learn) Position() (int, int) {
	return l.pos + 1, len(l.queue)
}

// Round returns how many batches have been drawn
func (l *Learn) Round() int {
	return l.rounds
}

// Answer grades the current item with Again or Good and moves on
func (l *Learn) Answer(ctx context.Context, action spaced_repetition.ReviewAction) (models.LearningState, error) {
	if action != spaced_repetition.Again && action != spaced_repetition.Good {
		return models.LearningState{}, ErrUnsupportedAction
	}
	item, ok := l.Current()
	if !ok {
		return models.LearningState{}, ErrSessionFinished
	}
	state, err := l.engine.ApplyReview(ctx, item.ID, action)
	l.advance()
	return state, err
}

// AlreadyKnown marks the current item mastered and moves on
func (l *Learn) AlreadyKnown(ctx context.Context) (models.LearningState, error) {
	item, ok := l.Current()
	if !ok {
		return models.LearningState{}, ErrSessionFinished
	}
	state, err := l.engine.MarkMastered(ctx, item.ID)
	l.advance()
	return state, err
}

func (l *Learn) advance() {
	l.pos++
	if l.pos >= len(l.queue) {
		l.refill()
	}
}
