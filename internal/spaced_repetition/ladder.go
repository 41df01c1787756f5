package spaced_repetition

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/example/vocabmaster/pkg/models"
)

// ReviewAction is the learner's self-assessed recall quality
type ReviewAction int

const (
	// Again resets the item to the first stage
	Again ReviewAction = iota
	// Hard moves the item back one stage
	Hard
	// Good moves the item up one stage
	Good
	// Easy moves the item up two stages
	Easy
)

func (a ReviewAction) String() string {
	switch a {
	case Again:
		return "again"
	case Hard:
		return "hard"
	case Good:
		return "good"
	case Easy:
		return "easy"
	default:
		return fmt.Sprintf("ReviewAction(%d)", int(a))
	}
}

// ParseReviewAction parses the lowercase action name
func ParseReviewAction(s string) (ReviewAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "again":
		return Again, nil
	case "hard":
		return Hard, nil
	case "good":
		return Good, nil
	case "easy":
		return Easy, nil
	}
	return 0, fmt.Errorf("unknown review action %q", s)
}

// Ladder is the fixed ordered sequence of review intervals in days
type Ladder []int

// DefaultLadder holds the review intervals used by the app
var DefaultLadder = Ladder{1, 2, 4, 8, 15, 30, 60, 120}

// Next applies one review to the current state.
// The stage is not clamped once it leaves the ladder.
func (l Ladder) Next(current models.LearningState, action ReviewAction, now time.Time) models.LearningState {
	stage := current.Stage

	switch action {
	case Again:
		stage = 0
	case Hard:
		stage = current.Stage - 1
		if stage < 0 {
			stage = 0
		}
	case Good:
		if current.Status == models.StatusNew {
			stage = 0
		} else {
			stage = current.Stage + 1
		}
	case Easy:
		if current.Status == models.StatusNew {
			stage = 1
		} else {
			stage = current.Stage + 2
		}
	}

	if stage >= len(l) {
		return models.LearningState{Status: models.StatusMastered, Stage: stage}
	}

	next := civil.DateOf(now).AddDays(l[stage])
	return models.LearningState{
		Status:         models.StatusInProgress,
		Stage:          stage,
		NextReviewDate: &next,
	}
}

// Mastered returns the state forced by the "I already know this" shortcut
func (l Ladder) Mastered() models.LearningState {
	return models.LearningState{Status: models.StatusMastered, Stage: len(l)}
}
