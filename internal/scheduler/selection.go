// Package scheduler decides which vocabulary items are new, due or known,
// and runs the periodic due-review reminder job.
package scheduler

import (
	"cloud.google.com/go/civil"
	"github.com/example/vocabmaster/pkg/models"
)

// ProgressView resolves the effective learning state of an item.
// Both *progress.Store and models.ProgressMap satisfy it.
type ProgressView interface {
	EffectiveState(id string) models.LearningState
}

// WordsToLearn returns the items that are not mastered yet, in source order.
// In-progress items are included so a returning learner sees them again.
func WordsToLearn(items []models.VocabularyItem, progress ProgressView) []models.VocabularyItem {
	return filter(items, progress, func(state models.LearningState) bool {
		return state.Status != models.StatusMastered
	})
}

// WordsToReview returns in-progress items whose review date is today or earlier.
// Source order is kept; overdue items are not moved forward.
func WordsToReview(items []models.VocabularyItem, progress ProgressView, today civil.Date) []models.VocabularyItem {
	return filter(items, progress, func(state models.LearningState) bool {
		return state.IsDue(today)
	})
}

// KnownWords returns items the learner has seen at least once
func KnownWords(items []models.VocabularyItem, progress ProgressView) []models.VocabularyItem {
	return filter(items, progress, func(state models.LearningState) bool {
		return state.Status != models.StatusNew
	})
}

func filter(items []models.VocabularyItem, progress ProgressView, keep func(models.LearningState) bool) []models.VocabularyItem {
	out := make([]models.VocabularyItem, 0, len(items))
	for _, item := range items {
		if keep(progress.EffectiveState(item.ID)) {
			out = append(out, item)
		}
	}
	return out
}

// Stats summarizes a vocabulary set
type Stats struct {
	Total      int `json:"total"`
	New        int `json:"new"`
	InProgress int `json:"in_progress"`
	Mastered   int `json:"mastered"`
	Due        int `json:"due"`
}

// Summarize counts items per status and how many are due today
func Summarize(items []models.VocabularyItem, progress ProgressView, today civil.Date) Stats {
	stats := Stats{Total: len(items)}
	for _, item := range items {
		state := progress.EffectiveState(item.ID)
		switch state.Status {
		case models.StatusNew:
			stats.New++
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusMastered:
			stats.Mastered++
		}
		if state.IsDue(today) {
			stats.Due++
		}
	}
	return stats
}
