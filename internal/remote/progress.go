package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/example/vocabmaster/internal/syncer"
	"github.com/example/vocabmaster/pkg/models"
)

// ErrWriteConflict is returned when a merge write lost every retry
var ErrWriteConflict = errors.New("progress document changed concurrently")

// ProgressDocument implements syncer.ProgressDocument
type ProgressDocument struct {
	client *Client
}

var _ syncer.ProgressDocument = (*ProgressDocument)(nil)

// Watch emits the current document, or an absent one, and then every change
func (d *ProgressDocument) Watch(ctx context.Context, userID string) (<-chan syncer.ProgressSnapshot, error) {
	watcher, err := d.client.kv.Watch(ctx, progressKey(userID))
	if err != nil {
		return nil, fmt.Errorf("watch progress: %w", err)
	}

	out := make(chan syncer.ProgressSnapshot)
	go func() {
		defer close(out)
		defer watcher.Stop()

		seen := false
		for {
			var snap syncer.ProgressSnapshot
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-watcher.Updates():
				if !ok {
					return
				}
				if entry == nil {
					if seen {
						continue
					}
					// Document was never written
					snap = syncer.ProgressSnapshot{Exists: false}
				} else {
					decoded, ok := d.decode(entry)
					if !ok {
						continue
					}
					snap = decoded
				}
				seen = true
			}

			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (d *ProgressDocument) decode(entry jetstream.KeyValueEntry) (syncer.ProgressSnapshot, bool) {
	if entry.Operation() != jetstream.KeyValuePut {
		return syncer.ProgressSnapshot{Exists: false, Revision: entry.Revision()}, true
	}

	progress := models.ProgressMap{}
	if err := json.Unmarshal(entry.Value(), &progress); err != nil {
		d.client.logger.Warn("Failed to parse progress document",
			zap.String("key", entry.Key()), zap.Uint64("revision", entry.Revision()), zap.Error(err))
		return syncer.ProgressSnapshot{}, false
	}
	return syncer.ProgressSnapshot{Progress: progress, Exists: true, Revision: entry.Revision()}, true
}

// MergeWrite updates the given item states and keeps every other key of
// the document. Concurrent writers are resolved by compare-and-set on the
// entry revision.
func (d *ProgressDocument) MergeWrite(ctx context.Context, userID string, partial models.ProgressMap) error {
	key := progressKey(userID)

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		entry, err := d.client.kv.Get(ctx, key)
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			data, err := json.Marshal(partial)
			if err != nil {
				return fmt.Errorf("marshal progress: %w", err)
			}
			_, err = d.client.kv.Create(ctx, key, data)
			if errors.Is(err, jetstream.ErrKeyExists) {
				continue
			}
			if err != nil {
				return fmt.Errorf("create progress: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("get progress: %w", err)
		}

		existing := models.ProgressMap{}
		if err := json.Unmarshal(entry.Value(), &existing); err != nil {
			d.client.logger.Warn("Overwriting unreadable progress document", zap.String("key", key), zap.Error(err))
			existing = models.ProgressMap{}
		}

		data, err := json.Marshal(mergeProgress(existing, partial))
		if err != nil {
			return fmt.Errorf("marshal progress: %w", err)
		}

		_, err = d.client.kv.Update(ctx, key, data, entry.Revision())
		if isRevisionConflict(err) {
			d.client.logger.Debug("Progress write conflict, retrying", zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return fmt.Errorf("update progress: %w", err)
		}
		return nil
	}
	return ErrWriteConflict
}

// Replace overwrites the whole document, dropping states of deleted items
func (d *ProgressDocument) Replace(ctx context.Context, userID string, full models.ProgressMap) error {
	if full == nil {
		full = models.ProgressMap{}
	}
	data, err := json.Marshal(full)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if _, err := d.client.kv.Put(ctx, progressKey(userID), data); err != nil {
		return fmt.Errorf("put progress: %w", err)
	}
	return nil
}

// mergeProgress overlays partial on existing in place
func mergeProgress(existing, partial models.ProgressMap) models.ProgressMap {
	if existing == nil {
		existing = models.ProgressMap{}
	}
	for id, state := range partial {
		existing[id] = state
	}
	return existing
}

func isRevisionConflict(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *jetstream.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
}
