// Package syncer keeps the progress store and the vocabulary set consistent
// with durable storage in guest and authenticated mode.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"github.com/example/vocabmaster/internal/database"
	"github.com/example/vocabmaster/internal/metrics"
	"github.com/example/vocabmaster/internal/progress"
	"github.com/example/vocabmaster/internal/scheduler"
	"github.com/example/vocabmaster/internal/spaced_repetition"
	"github.com/example/vocabmaster/pkg/models"
)

// Mode is the current operating mode
type Mode int

const (
	ModeSignedOut Mode = iota
	ModeGuest
	ModeAuthenticated
)

func (m Mode) String() string {
	switch m {
	case ModeGuest:
		return "guest"
	case ModeAuthenticated:
		return "authenticated"
	default:
		return "signed_out"
	}
}

const defaultWriteTimeout = 15 * time.Second

// Coordinator is the only writer of the progress store outside sessions.
// Local mutations update memory first and then persist: synchronously to the
// local cache for guests, asynchronously to the remote document otherwise.
type Coordinator struct {
	store   *progress.Store
	cache   Cache
	words   WordStore
	remote  ProgressDocument
	sample  []models.VocabularyItem
	now     func() time.Time
	logger  *zap.Logger
	metrics *metrics.Metrics

	writeTimeout time.Duration

	mu             sync.Mutex
	mode           Mode
	userID         string
	items          []models.VocabularyItem
	wordsLoaded    bool
	progressLoaded bool
	dirty          bool   // a local mutation was applied in this session
	revision       uint64 // last applied remote progress revision
	version        uint64 // last issued write version
	acked          uint64 // highest completed write version
	lastErr        error
	cancel         context.CancelFunc
	ready          chan struct{} // closed once items and progress are loaded

	// Remote writes go through one writer at a time. pending holds the newest
	// unsent snapshot; older queued snapshots are replaced, never sent.
	pending *pendingWrite
	writing bool
	idle    *sync.Cond

	loop       sync.WaitGroup
	syncErrors chan error
}

type pendingWrite struct {
	userID  string
	version uint64
	payload models.ProgressMap
	op      string
	replace bool // drop remote keys missing from payload
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records reviews and writes
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithSampleVocabulary replaces the built-in guest vocabulary
func WithSampleVocabulary(items []models.VocabularyItem) Option {
	return func(c *Coordinator) { c.sample = items }
}

// WithWriteTimeout bounds each remote write
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.writeTimeout = d }
}

// New creates a signed-out coordinator. words and remote may be nil when
// only guest mode is used.
func New(store *progress.Store, cache Cache, words WordStore, remote ProgressDocument, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:        store,
		cache:        cache,
		words:        words,
		remote:       remote,
		sample:       SampleVocabulary(),
		now:          time.Now,
		logger:       zap.NewNop(),
		writeTimeout: defaultWriteTimeout,
		syncErrors:   make(chan error, 16),
		ready:        make(chan struct{}),
	}
	c.idle = sync.NewCond(&c.mu)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the current operating mode
func (c *Coordinator) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Items returns a copy of the current vocabulary set
func (c *Coordinator) Items() []models.VocabularyItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.VocabularyItem, len(c.items))
	copy(out, c.items)
	return out
}

// EffectiveState implements scheduler.ProgressView
func (c *Coordinator) EffectiveState(id string) models.LearningState {
	return c.store.EffectiveState(id)
}

// Progress returns a copy of the whole progress map
func (c *Coordinator) Progress() models.ProgressMap {
	return c.store.Snapshot()
}

// Today returns the current calendar date
func (c *Coordinator) Today() civil.Date {
	return civil.DateOf(c.now())
}

// DueCount implements scheduler.DueCounter
func (c *Coordinator) DueCount(today civil.Date) int {
	return len(scheduler.WordsToReview(c.Items(), c, today))
}

// Stats summarizes the current vocabulary
func (c *Coordinator) Stats() scheduler.Stats {
	return scheduler.Summarize(c.Items(), c, c.Today())
}

// SyncErrors delivers asynchronous write failures. Slow readers miss errors;
// LastSyncError always holds the latest outcome.
func (c *Coordinator) SyncErrors() <-chan error {
	return c.syncErrors
}

// LastSyncError returns the error of the newest completed write, nil if it succeeded
func (c *Coordinator) LastSyncError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Switch moves to the mode implied by the identity. Switching to the
// current identity does nothing.
func (c *Coordinator) Switch(ctx context.Context, identity models.Identity) error {
	c.mu.Lock()
	mode, userID := c.mode, c.userID
	c.mu.Unlock()

	switch {
	case identity.Guest:
		if mode == ModeGuest {
			return nil
		}
		return c.EnterGuest(ctx)
	case identity.UserID != "":
		if mode == ModeAuthenticated && userID == identity.UserID {
			return nil
		}
		return c.SignIn(ctx, identity.UserID)
	default:
		c.SignOut()
		return nil
	}
}

// EnterGuest loads the sample vocabulary and the guest progress from the local cache
func (c *Coordinator) EnterGuest(ctx context.Context) error {
	c.teardown()

	saved := models.ProgressMap{}
	data, ok, err := c.cache.Get(ctx, database.GuestProgressKey)
	if err != nil {
		return &SyncError{Op: "load guest progress", Err: err}
	}
	if ok {
		if err := json.Unmarshal(data, &saved); err != nil {
			c.logger.Warn("Failed to parse guest progress, starting fresh", zap.Error(err))
			saved = models.ProgressMap{}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetSessionLocked(ModeGuest, "")
	c.items = make([]models.VocabularyItem, len(c.sample))
	copy(c.items, c.sample)
	c.wordsLoaded = true
	c.progressLoaded = true
	c.markReadyLocked()

	c.store.Replace(saved)
	c.store.Reconcile(models.ItemIDs(c.items))
	c.version++
	if err := c.saveGuestLocked(ctx, c.version); err != nil {
		return err
	}

	c.logger.Info("Entered guest mode", zap.Int("items", len(c.items)), zap.Int("progress", c.store.Len()))
	return nil
}

// SignIn subscribes to the user's remote collection and progress document
func (c *Coordinator) SignIn(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("sign in: empty user id")
	}
	if c.words == nil || c.remote == nil {
		return fmt.Errorf("sign in: remote storage is not configured")
	}
	c.teardown()

	sessionCtx, cancel := context.WithCancel(context.Background())
	wordsCh, err := c.words.Watch(sessionCtx, userID)
	if err != nil {
		cancel()
		return &SyncError{Op: "watch words", Err: err}
	}
	progressCh, err := c.remote.Watch(sessionCtx, userID)
	if err != nil {
		cancel()
		return &SyncError{Op: "watch progress", Err: err}
	}

	c.mu.Lock()
	c.resetSessionLocked(ModeAuthenticated, userID)
	c.cancel = cancel
	c.store.Replace(nil)
	c.mu.Unlock()

	c.loop.Add(1)
	go c.run(sessionCtx, userID, wordsCh, progressCh)

	c.logger.Info("Signed in", zap.String("user", userID))
	return nil
}

// SignOut drops the current session state
func (c *Coordinator) SignOut() {
	c.teardown()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetSessionLocked(ModeSignedOut, "")
	c.store.Replace(nil)
}

// Close signs out and waits for in-flight writes
func (c *Coordinator) Close() {
	c.SignOut()
	c.Flush()
}

// Flush waits until every issued remote write has completed
func (c *Coordinator) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.writing {
		c.idle.Wait()
	}
}

func (c *Coordinator) teardown() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		c.loop.Wait()
	}
	// Queued writes belong to the session being left.
	c.Flush()
}

func (c *Coordinator) resetSessionLocked(mode Mode, userID string) {
	c.mode = mode
	c.userID = userID
	c.items = nil
	c.wordsLoaded = false
	c.progressLoaded = false
	c.dirty = false
	c.revision = 0
	c.lastErr = nil
	c.ready = make(chan struct{})
}

func (c *Coordinator) markReadyLocked() {
	select {
	case <-c.ready:
	default:
		close(c.ready)
	}
}

// WaitReady blocks until the current session has loaded its items and progress
func (c *Coordinator) WaitReady(ctx context.Context) error {
	c.mu.Lock()
	ready := c.ready
	c.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) run(ctx context.Context, userID string, wordsCh <-chan WordSnapshot, progressCh <-chan ProgressSnapshot) {
	defer c.loop.Done()

	for wordsCh != nil || progressCh != nil {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-wordsCh:
			if !ok {
				wordsCh = nil
				continue
			}
			c.applyWords(userID, snap)
		case snap, ok := <-progressCh:
			if !ok {
				progressCh = nil
				continue
			}
			c.applyProgress(userID, snap)
		}
	}
}

// applyWords always replaces the item set; remote is authoritative for it
func (c *Coordinator) applyWords(userID string, snap WordSnapshot) {
	c.mu.Lock()
	if c.mode != ModeAuthenticated || c.userID != userID {
		c.mu.Unlock()
		return
	}
	c.items = make([]models.VocabularyItem, len(snap.Items))
	copy(c.items, snap.Items)
	c.wordsLoaded = true
	c.logger.Debug("Vocabulary snapshot applied", zap.String("user", userID), zap.Int("items", len(c.items)))
	c.mu.Unlock()

	c.reconcile(userID)
}

// applyProgress replaces local progress only until the first local mutation
func (c *Coordinator) applyProgress(userID string, snap ProgressSnapshot) {
	c.mu.Lock()
	if c.mode != ModeAuthenticated || c.userID != userID {
		c.mu.Unlock()
		return
	}
	if snap.Revision != 0 && snap.Revision <= c.revision {
		c.logger.Debug("Discarding stale progress snapshot",
			zap.Uint64("revision", snap.Revision), zap.Uint64("applied", c.revision))
		c.mu.Unlock()
		return
	}
	if snap.Revision != 0 {
		c.revision = snap.Revision
	}
	if c.dirty {
		c.logger.Debug("Ignoring remote progress after local review", zap.Uint64("revision", snap.Revision))
	} else if snap.Exists {
		c.store.Replace(snap.Progress)
	} else {
		c.store.Replace(nil)
	}
	c.progressLoaded = true
	c.mu.Unlock()

	c.reconcile(userID)
}

// reconcile seeds and prunes states once both remote sources have loaded,
// and replaces the remote document when the local map changed
func (c *Coordinator) reconcile(userID string) {
	c.mu.Lock()
	if !c.wordsLoaded || !c.progressLoaded {
		c.mu.Unlock()
		return
	}
	changed := c.store.Reconcile(models.ItemIDs(c.items))
	c.markReadyLocked()
	if !changed {
		c.mu.Unlock()
		return
	}
	c.version++
	c.queueWriteLocked(pendingWrite{
		userID:  userID,
		version: c.version,
		payload: c.store.Snapshot(),
		op:      "reconcile",
		replace: true,
	})
	c.mu.Unlock()
}

// ApplyReview grades one item
func (c *Coordinator) ApplyReview(ctx context.Context, id string, action spaced_repetition.ReviewAction) (models.LearningState, error) {
	var state models.LearningState
	err := c.mutate(ctx, "apply review", func() {
		state = c.store.ApplyReview(id, action, c.now())
	})
	c.metrics.ReviewApplied(action.String())
	return state, err
}

// ApplyReviewBatch grades several items with one action and one timestamp
func (c *Coordinator) ApplyReviewBatch(ctx context.Context, ids []string, action spaced_repetition.ReviewAction) (models.ProgressMap, error) {
	if len(ids) == 0 {
		return models.ProgressMap{}, nil
	}
	var states models.ProgressMap
	err := c.mutate(ctx, "apply review batch", func() {
		states = c.store.ApplyReviewBatch(ids, action, c.now())
	})
	for range states {
		c.metrics.ReviewApplied(action.String())
	}
	return states, err
}

// MarkMastered applies the "I already know this" shortcut
func (c *Coordinator) MarkMastered(ctx context.Context, id string) (models.LearningState, error) {
	var state models.LearningState
	err := c.mutate(ctx, "mark mastered", func() {
		state = c.store.MarkMastered(id)
	})
	return state, err
}

// ResetProgress returns every current item to New
func (c *Coordinator) ResetProgress(ctx context.Context) error {
	return c.mutate(ctx, "reset progress", func() {
		c.store.Reset(models.ItemIDs(c.items))
	})
}

// AddWord stores a new item in the user's remote collection
func (c *Coordinator) AddWord(ctx context.Context, item models.NewVocabularyItem) (string, error) {
	c.mu.Lock()
	mode, userID := c.mode, c.userID
	c.mu.Unlock()

	switch mode {
	case ModeGuest:
		return "", ErrGuestWriteForbidden
	case ModeSignedOut:
		return "", ErrNotSignedIn
	}

	id, err := c.words.Add(ctx, userID, item)
	if err != nil {
		return "", &SyncError{Op: "add word", Err: err}
	}
	return id, nil
}

// mutate applies a local change and persists the resulting map.
// The in-memory result stands even when persisting fails.
func (c *Coordinator) mutate(ctx context.Context, op string, apply func()) error {
	c.mu.Lock()
	apply()
	c.dirty = true
	c.version++
	version := c.version
	mode, userID := c.mode, c.userID

	switch mode {
	case ModeGuest:
		err := c.saveGuestLocked(ctx, version)
		c.mu.Unlock()
		return err
	case ModeAuthenticated:
		c.queueWriteLocked(pendingWrite{userID: userID, version: version, payload: c.store.Snapshot(), op: op})
		c.mu.Unlock()
		return nil
	default:
		c.mu.Unlock()
		return nil
	}
}

func (c *Coordinator) saveGuestLocked(ctx context.Context, version uint64) error {
	data, err := json.Marshal(c.store.Snapshot())
	if err != nil {
		return &SyncError{Op: "encode guest progress", Version: version, Err: err}
	}
	if err := c.cache.Set(ctx, database.GuestProgressKey, data); err != nil {
		c.metrics.SyncWrite(ModeGuest.String(), metrics.ResultError)
		c.logger.Warn("Failed to save guest progress", zap.Uint64("version", version), zap.Error(err))
		c.lastErr = &SyncError{Op: "save guest progress", Version: version, Err: err}
		return c.lastErr
	}
	c.metrics.SyncWrite(ModeGuest.String(), metrics.ResultOK)
	c.acked = version
	c.lastErr = nil
	return nil
}

// queueWriteLocked makes w the next snapshot to send and starts the writer
// if it is idle. A queued snapshot that was not sent yet is superseded; a
// pending replace stays a replace.
func (c *Coordinator) queueWriteLocked(w pendingWrite) {
	if c.pending != nil && c.pending.userID == w.userID {
		w.replace = w.replace || c.pending.replace
		c.logger.Debug("Coalescing queued write",
			zap.String("op", c.pending.op), zap.Uint64("version", c.pending.version), zap.Uint64("by", w.version))
	}
	c.pending = &w
	if c.writing {
		return
	}
	c.writing = true
	go c.writeLoop()
}

// writeLoop sends queued snapshots one at a time until none is left
func (c *Coordinator) writeLoop() {
	for {
		c.mu.Lock()
		w := c.pending
		c.pending = nil
		if w == nil {
			c.writing = false
			c.idle.Broadcast()
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
		var err error
		if w.replace {
			err = c.remote.Replace(ctx, w.userID, w.payload)
		} else {
			err = c.remote.MergeWrite(ctx, w.userID, w.payload)
		}
		cancel()

		c.completeWrite(w.userID, w.version, w.op, err)
	}
}

// completeWrite records a write outcome unless a newer write already completed
func (c *Coordinator) completeWrite(userID string, version uint64, op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.userID != userID || version <= c.acked {
		c.metrics.SyncWrite(ModeAuthenticated.String(), metrics.ResultStale)
		c.logger.Debug("Discarding stale write completion",
			zap.String("op", op), zap.Uint64("version", version), zap.Uint64("acked", c.acked))
		return
	}
	c.acked = version

	if err == nil {
		c.metrics.SyncWrite(ModeAuthenticated.String(), metrics.ResultOK)
		c.lastErr = nil
		return
	}

	syncErr := &SyncError{Op: op, Version: version, Err: err}
	c.metrics.SyncWrite(ModeAuthenticated.String(), metrics.ResultError)
	c.logger.Warn("Failed to persist progress",
		zap.String("user", userID), zap.Uint64("version", version), zap.Error(err))
	c.lastErr = syncErr

	select {
	case c.syncErrors <- syncErr:
	default:
	}
}

// IsCapabilityError reports whether err means the current mode cannot perform the operation
func IsCapabilityError(err error) bool {
	return errors.Is(err, ErrGuestWriteForbidden) || errors.Is(err, ErrNotSignedIn)
}
