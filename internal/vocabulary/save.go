package vocabulary

import (
	"context"
	"fmt"

	"github.com/example/vocabmaster/internal/syncer"
	"github.com/example/vocabmaster/pkg/models"
)

// Saver stores one new vocabulary item
type Saver interface {
	AddWord(ctx context.Context, item models.NewVocabularyItem) (string, error)
}

// SaveFailure is a draft that passed validation but could not be stored
type SaveFailure struct {
	Word string
	Err  error
}

// SaveReport summarizes a save-all run
type SaveReport struct {
	Saved   []string // ids of stored items
	Skipped []ValidationError
	Failed  []SaveFailure
}

// Summary returns a short human readable result line
func (r SaveReport) Summary() string {
	msg := fmt.Sprintf("Successfully saved %d words.", len(r.Saved))
	if n := len(r.Skipped) + len(r.Failed); n > 0 {
		msg += fmt.Sprintf(" %d entries were not saved.", n)
	}
	return msg
}

// SaveAll stores every complete draft. Incomplete drafts are skipped and
// reported by name; the rest of the batch continues. A capability error
// stops the batch since no later draft can succeed either.
func SaveAll(ctx context.Context, saver Saver, drafts []models.NewVocabularyItem) (SaveReport, error) {
	var report SaveReport

	for _, draft := range drafts {
		if missing := draft.MissingFields(); len(missing) > 0 {
			report.Skipped = append(report.Skipped, ValidationError{Word: draft.Word, Missing: missing})
			continue
		}

		id, err := saver.AddWord(ctx, draft)
		if syncer.IsCapabilityError(err) {
			return report, err
		}
		if err != nil {
			report.Failed = append(report.Failed, SaveFailure{Word: draft.Word, Err: err})
			continue
		}
		report.Saved = append(report.Saved, id)
	}
	return report, nil
}
