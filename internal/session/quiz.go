package session

import (
	"context"
	"math/rand"
	"time"

	"github.com/example/vocabmaster/internal/scheduler"
	"github.com/example/vocabmaster/internal/spaced_repetition"
	"github.com/example/vocabmaster/pkg/models"
)

// Question represents a single multiple choice question
type Question struct {
	Item         models.VocabularyItem // The word being tested
	Options      []string              // Possible meanings
	CorrectIndex int                   // Index of the correct meaning in Options
}

// QuizResult summarizes a finished quiz
type QuizResult struct {
	Total   int
	Correct int
	Wrong   []models.VocabularyItem
}

// Quiz asks for the meaning of known words. Correct answers are graded
// Good together when the quiz is finished.
type Quiz struct {
	engine    Engine
	questions []Question
	pos       int
	correct   []string
	wrong     []models.VocabularyItem
	finished  bool
}

// NewQuiz builds a quiz from known words. rnd may be nil.
func NewQuiz(engine Engine, config *Config, rnd *rand.Rand) *Quiz {
	config = config.orDefault()
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	q := &Quiz{engine: engine}
	known := scheduler.KnownWords(engine.Items(), engine)
	if len(known) < config.QuizOptions {
		return q
	}

	pool := make([]models.VocabularyItem, len(known))
	copy(pool, known)
	rnd.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	asked := limit(pool, config.QuizSize)
	q.questions = make([]Question, 0, len(asked))
	for _, item := range asked {
		q.questions = append(q.questions, buildQuestion(item, known, config.QuizOptions-1, rnd))
	}
	return q
}

// buildQuestion picks distractor meanings from the rest of the pool and
// shuffles them with the correct one
func buildQuestion(item models.VocabularyItem, pool []models.VocabularyItem, count int, rnd *rand.Rand) Question {
	candidates := make([]models.VocabularyItem, 0, len(pool))
	for _, w := range pool {
		if w.ID != item.ID {
			candidates = append(candidates, w)
		}
	}
	rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	seen := map[string]bool{item.Meaning: true}
	options := make([]string, 0, count+1)
	for i := 0; i < len(candidates) && len(options) < count; i++ {
		meaning := candidates[i].Meaning
		if seen[meaning] {
			continue
		}
		seen[meaning] = true
		options = append(options, meaning)
	}

	options = append(options, item.Meaning)
	correctIndex := len(options) - 1
	rnd.Shuffle(len(options), func(i, j int) {
		if i == correctIndex {
			correctIndex = j
		} else if j == correctIndex {
			correctIndex = i
		}
		options[i], options[j] = options[j], options[i]
	})

	return Question{Item: item, Options: options, CorrectIndex: correctIndex}
}

// NotEnoughWords reports that fewer known words exist than options per question
func (q *Quiz) NotEnoughWords() bool {
	return len(q.questions) == 0
}

// Len returns the number of questions
func (q *Quiz) Len() int {
	return len(q.questions)
}

// Current returns the question being asked
func (q *Quiz) Current() (Question, bool) {
	if q.pos >= len(q.questions) {
		return Question{}, false
	}
	return q.questions[q.pos], true
}

// Answer records the chosen option and moves on
func (q *Quiz) Answer(option int) (bool, error) {
	question, ok := q.Current()
	if !ok {
		return false, ErrSessionFinished
	}
	if option < 0 || option >= len(question.Options) {
		return false, ErrInvalidOption
	}

	correct := option == question.CorrectIndex
	if correct {
		q.correct = append(q.correct, question.Item.ID)
	} else {
		q.wrong = append(q.wrong, question.Item)
	}
	q.pos++
	return correct, nil
}

// Finish grades every correctly answered word Good in one batch.
// Unanswered questions are left untouched.
func (q *Quiz) Finish(ctx context.Context) (QuizResult, error) {
	result := QuizResult{Total: q.pos, Correct: len(q.correct), Wrong: q.wrong}
	if q.finished {
		return result, ErrSessionFinished
	}
	q.finished = true
	q.pos = len(q.questions)

	_, err := q.engine.ApplyReviewBatch(ctx, q.correct, spaced_repetition.Good)
	return result, err
}
