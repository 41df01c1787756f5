package spaced_repetition

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/example/vocabmaster/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)

func today() civil.Date { return civil.DateOf(now) }

func inProgress(stage int) models.LearningState {
	d := today()
	return models.LearningState{Status: models.StatusInProgress, Stage: stage, NextReviewDate: &d}
}

func TestNextAgainAlwaysRestarts(t *testing.T) {
	starts := []models.LearningState{
		models.NewState(),
		inProgress(0),
		inProgress(5),
		DefaultLadder.Mastered(),
		{Status: models.StatusMastered, Stage: 11},
	}
	for _, start := range starts {
		got := DefaultLadder.Next(start, Again, now)
		assert.Equal(t, models.StatusInProgress, got.Status)
		assert.Equal(t, 0, got.Stage)
		require.NotNil(t, got.NextReviewDate)
		assert.Equal(t, today().AddDays(1), *got.NextReviewDate)
	}
}

func TestNextFromNew(t *testing.T) {
	good := DefaultLadder.Next(models.NewState(), Good, now)
	assert.Equal(t, 0, good.Stage)
	assert.Equal(t, today().AddDays(1), *good.NextReviewDate)

	easy := DefaultLadder.Next(models.NewState(), Easy, now)
	assert.Equal(t, 1, easy.Stage)
	assert.Equal(t, today().AddDays(2), *easy.NextReviewDate)

	// Hard on a brand-new item floors at stage 0, same outcome as Again.
	hard := DefaultLadder.Next(models.NewState(), Hard, now)
	assert.True(t, hard.Equal(DefaultLadder.Next(models.NewState(), Again, now)))
}

func TestNextHardStepsBack(t *testing.T) {
	got := DefaultLadder.Next(inProgress(4), Hard, now)
	assert.Equal(t, 3, got.Stage)
	assert.Equal(t, today().AddDays(8), *got.NextReviewDate)
}

func TestGoodReachesMasteryAfterEightReviews(t *testing.T) {
	state := DefaultLadder.Next(models.NewState(), Again, now)
	require.Equal(t, 0, state.Stage)

	for i := 1; i <= 8; i++ {
		state = DefaultLadder.Next(state, Good, now)
		if i < 8 {
			require.Equal(t, models.StatusInProgress, state.Status, "review %d", i)
			require.Equal(t, i, state.Stage)
		}
	}
	assert.Equal(t, models.StatusMastered, state.Status)
	assert.Equal(t, 8, state.Stage)
	assert.Nil(t, state.NextReviewDate)
}

func TestEasyOvershootKeepsStage(t *testing.T) {
	got := DefaultLadder.Next(inProgress(7), Easy, now)
	assert.Equal(t, models.StatusMastered, got.Status)
	assert.Equal(t, 9, got.Stage)
	assert.Nil(t, got.NextReviewDate)
}

func TestNextUsesCalendarDate(t *testing.T) {
	late := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	got := DefaultLadder.Next(inProgress(2), Good, late)
	assert.Equal(t, civil.Date{Year: 2026, Month: time.March, Day: 18}, *got.NextReviewDate)
}

func TestParseReviewAction(t *testing.T) {
	for _, a := range []ReviewAction{Again, Hard, Good, Easy} {
		parsed, err := ParseReviewAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}
	_, err := ParseReviewAction("perfect")
	assert.Error(t, err)
}
