package syncer

import (
	"context"

	"github.com/example/vocabmaster/pkg/models"
)

// Cache is the local durable key/value store
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// WordSnapshot is the full current item set of a user's collection
type WordSnapshot struct {
	Items []models.VocabularyItem
}

// ProgressSnapshot is the remote progress document.
// Exists is false when the document has never been written.
// Revision increases with every remote change; zero means unknown.
type ProgressSnapshot struct {
	Progress models.ProgressMap
	Exists   bool
	Revision uint64
}

// WordStore is the remote per-user vocabulary collection
type WordStore interface {
	// Watch sends the current set first and then a new full set after every change.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, userID string) (<-chan WordSnapshot, error)
	Add(ctx context.Context, userID string, item models.NewVocabularyItem) (string, error)
}

// ProgressDocument is the remote per-user progress document
type ProgressDocument interface {
	// Watch sends the current document first and then every change.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, userID string) (<-chan ProgressSnapshot, error)
	// MergeWrite updates the given keys and leaves all other keys untouched
	MergeWrite(ctx context.Context, userID string, partial models.ProgressMap) error
	// Replace writes the full map; keys missing from it are removed
	Replace(ctx context.Context, userID string, full models.ProgressMap) error
}
