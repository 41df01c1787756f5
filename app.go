package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/vocabmaster/internal/ai"
	"github.com/example/vocabmaster/internal/config"
	"github.com/example/vocabmaster/internal/database"
	"github.com/example/vocabmaster/internal/metrics"
	"github.com/example/vocabmaster/internal/progress"
	"github.com/example/vocabmaster/internal/remote"
	"github.com/example/vocabmaster/internal/settings"
	"github.com/example/vocabmaster/internal/syncer"
	"github.com/example/vocabmaster/internal/vocabulary"
	"github.com/example/vocabmaster/pkg/models"
)

const loadTimeout = 15 * time.Second

// app holds the wired components for one command run
type app struct {
	cfg         *config.Config
	db          *database.DB
	cache       *database.CacheRepository
	settings    *settings.Manager
	metrics     *metrics.Metrics
	coordinator *syncer.Coordinator
	closeRemote func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if userID != "" {
		cfg.UserID = userID
	}
	if guest {
		cfg.UserID = ""
	}

	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, db: db, cache: database.NewCacheRepository(db), metrics: metrics.New()}

	a.settings, err = settings.Load(ctx, a.cache)
	if err != nil {
		a.Close()
		return nil, err
	}

	var (
		words syncer.WordStore
		doc   syncer.ProgressDocument
	)
	identity := models.GuestIdentity()
	if cfg.UserID != "" {
		if cfg.NATS.URL == "" {
			a.Close()
			return nil, fmt.Errorf("NATS_URL is required when a user id is set")
		}
		client, closeFn, err := remote.Connect(ctx, cfg.NATS.URL, cfg.NATS.Bucket, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closeRemote = closeFn
		words, doc = client.Words(), client.Progress()
		identity = models.Identity{UserID: cfg.UserID}
	}

	a.coordinator = syncer.New(progress.NewStore(), a.cache, words, doc,
		syncer.WithLogger(logger),
		syncer.WithMetrics(a.metrics),
	)
	if err := a.coordinator.Switch(ctx, identity); err != nil {
		a.Close()
		return nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()
	if err := a.coordinator.WaitReady(waitCtx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}

	logger.Debug("Ready",
		zap.String("mode", a.coordinator.Mode().String()),
		zap.Int("items", len(a.coordinator.Items())))
	return a, nil
}

// Close waits for pending writes and releases connections
func (a *app) Close() {
	if a.coordinator != nil {
		a.coordinator.Close()
	}
	if a.closeRemote != nil {
		a.closeRemote()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}
}

// reportSyncErrors logs asynchronous write failures until ctx is done
func (a *app) reportSyncErrors(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-a.coordinator.SyncErrors():
			logger.Warn("Progress not saved remotely, it will be retried with the next change", zap.Error(err))
		}
	}
}

func (a *app) batch(ctx context.Context) (*vocabulary.Batch, error) {
	gen, err := a.generator(ctx)
	if err != nil {
		return nil, err
	}
	g := a.cfg.Generator
	return vocabulary.NewBatch(gen, g.Concurrency, g.RPS, logger, a.metrics), nil
}

func (a *app) generator(ctx context.Context) (vocabulary.Generator, error) {
	g := a.cfg.Generator
	if g.Provider == "openai" {
		return ai.NewChatGPT(g.OpenAIAPIKey, g.MeaningLanguage)
	}
	return ai.NewGemini(ctx, g.GeminiAPIKey, g.GeminiModel, g.MeaningLanguage)
}
