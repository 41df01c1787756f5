package vocabulary

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnavailable means the content generator cannot be reached at all.
	// Generators wrap it so a batch stops instead of failing item by item.
	ErrUnavailable = errors.New("content generator unavailable")

	// ErrNoWordsFound is returned by a scan that produced no drafts
	ErrNoWordsFound = errors.New("no words found")

	// ErrEmptyInput is returned when a word list has no words
	ErrEmptyInput = errors.New("please enter at least one word")
)

// GenerationError lists the inputs a batch could not generate drafts for.
// The drafts that did succeed are returned alongside it.
type GenerationError struct {
	Failed []string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("could not generate details for: %s", strings.Join(e.Failed, ", "))
}

// ValidationError reports a draft missing mandatory fields
type ValidationError struct {
	Word    string
	Missing []string
}

func (e ValidationError) Error() string {
	word := e.Word
	if word == "" {
		word = "unknown"
	}
	return fmt.Sprintf("skipping incomplete entry for %q: missing %s", word, strings.Join(e.Missing, ", "))
}
