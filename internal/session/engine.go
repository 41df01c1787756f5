// Package session implements the study activities: learning, review, quiz
// and listening. Sessions read the vocabulary through an Engine and send
// every grade back through it.
package session

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/example/vocabmaster/internal/spaced_repetition"
	"github.com/example/vocabmaster/pkg/models"
)

var (
	// ErrSessionFinished is returned when answering after the last item
	ErrSessionFinished = errors.New("session finished")
	// ErrNotChecked is returned when a review item is graded before the typed recall check
	ErrNotChecked = errors.New("recall check required before grading")
	// ErrUnsupportedAction is returned for grades an activity does not offer
	ErrUnsupportedAction = errors.New("action not available in this activity")
	// ErrInvalidOption is returned for an out-of-range quiz answer
	ErrInvalidOption = errors.New("invalid option")
)

// Engine is the vocabulary and progress backend a session works against.
// Grading errors are recoverable: the local state has already changed.
type Engine interface {
	Items() []models.VocabularyItem
	EffectiveState(id string) models.LearningState
	Today() civil.Date
	ApplyReview(ctx context.Context, id string, action spaced_repetition.ReviewAction) (models.LearningState, error)
	ApplyReviewBatch(ctx context.Context, ids []string, action spaced_repetition.ReviewAction) (models.ProgressMap, error)
	MarkMastered(ctx context.Context, id string) (models.LearningState, error)
}

// Mode selects how much of the due pool a round covers
type Mode int

const (
	// All covers the whole pool
	All Mode = iota
	// Quick covers at most Config.QuickSize items
	Quick
)

func limit(items []models.VocabularyItem, n int) []models.VocabularyItem {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// matches compares a typed answer with the expected word
func matches(typed, want string) bool {
	return strings.EqualFold(strings.TrimSpace(typed), strings.TrimSpace(want))
}
