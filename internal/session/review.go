package session

import (
	"context"

	"github.com/example/vocabmaster/internal/scheduler"
	"github.com/example/vocabmaster/internal/spaced_repetition"
	"github.com/example/vocabmaster/pkg/models"
)

// Review walks the due words. Each word is recalled by typing it before it
// can be graded; a failed recall only allows Again.
type Review struct {
	engine  Engine
	queue   []models.VocabularyItem
	pos     int
	checked bool
	passed  bool
	correct int
}

// NewReview snapshots the due words for today
func NewReview(engine Engine, mode Mode, config *Config) *Review {
	config = config.orDefault()
	due := scheduler.WordsToReview(engine.Items(), engine, engine.Today())
	if mode == Quick {
		due = limit(due, config.QuickSize)
	}
	return &Review{engine: engine, queue: due}
}

// NotEnoughWords reports that nothing is due
func (r *Review) NotEnoughWords() bool {
	return len(r.queue) == 0
}

// Done reports whether every queued word has been graded
func (r *Review) Done() bool {
	return r.pos >= len(r.queue)
}

// Current returns the word under review
func (r *Review) Current() (models.VocabularyItem, bool) {
	if r.Done() {
		return models.VocabularyItem{}, false
	}
	return r.queue[r.pos], true
}

// Remaining returns the number of words left including the current one
func (r *Review) Remaining() int {
	return len(r.queue) - r.pos
}

// Correct returns how many recall checks passed so far
func (r *Review) Correct() int {
	return r.correct
}

// Check compares the typed word with the current item. It can be called
// once per item.
func (r *Review) Check(typed string) (bool, error) {
	item, ok := r.Current()
	if !ok {
		return false, ErrSessionFinished
	}
	if r.checked {
		return r.passed, nil
	}
	r.checked = true
	r.passed = matches(typed, item.Word)
	if r.passed {
		r.correct++
	}
	return r.passed, nil
}

// AllowedGrades lists the grades the learner may choose for the current item
func (r *Review) AllowedGrades() []spaced_repetition.ReviewAction {
	if !r.checked {
		return nil
	}
	if !r.passed {
		return []spaced_repetition.ReviewAction{spaced_repetition.Again}
	}
	return []spaced_repetition.ReviewAction{
		spaced_repetition.Again,
		spaced_repetition.Hard,
		spaced_repetition.Good,
		spaced_repetition.Easy,
	}
}

// Grade applies the chosen grade. After a failed check the grade is always Again.
func (r *Review) Grade(ctx context.Context, action spaced_repetition.ReviewAction) (models.LearningState, error) {
	item, ok := r.Current()
	if !ok {
		return models.LearningState{}, ErrSessionFinished
	}
	if !r.checked {
		return models.LearningState{}, ErrNotChecked
	}
	if !r.passed {
		action = spaced_repetition.Again
	}

	state, err := r.engine.ApplyReview(ctx, item.ID, action)
	r.pos++
	r.checked, r.passed = false, false
	return state, err
}
