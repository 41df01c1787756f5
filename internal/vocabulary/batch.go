// Package vocabulary turns word lists, images and spreadsheets into
// vocabulary drafts and saves the valid ones.
package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/example/vocabmaster/internal/metrics"
	"github.com/example/vocabmaster/pkg/models"
)

const (
	DefaultConcurrency = 3
	DefaultRPS         = 2.0
)

// Generator produces vocabulary drafts
type Generator interface {
	FromWord(ctx context.Context, word string) (models.NewVocabularyItem, error)
	// FromImage returns every word found in the image, possibly none
	FromImage(ctx context.Context, data []byte, mimeType string) ([]models.NewVocabularyItem, error)
}

// ParseWordList splits comma separated input into trimmed words
func ParseWordList(input string) []string {
	parts := strings.Split(input, ",")
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if w := strings.TrimSpace(p); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// Batch runs generation requests with bounded concurrency and rate
type Batch struct {
	generator   Generator
	limiter     *rate.Limiter
	concurrency int
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// NewBatch creates a batch runner. Non-positive limits fall back to defaults.
func NewBatch(generator Generator, concurrency int, rps float64, logger *zap.Logger, m *metrics.Metrics) *Batch {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if rps <= 0 {
		rps = DefaultRPS
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Batch{
		generator:   generator,
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		concurrency: concurrency,
		logger:      logger,
		metrics:     m,
	}
}

// Generate creates one draft per word. Drafts keep the input order.
// Words that fail are reported in a *GenerationError next to the drafts
// that succeeded; an unreachable generator aborts the whole batch.
func (b *Batch) Generate(ctx context.Context, words []string) ([]models.NewVocabularyItem, error) {
	if len(words) == 0 {
		return nil, ErrEmptyInput
	}

	drafts := make([]models.NewVocabularyItem, len(words))
	failed := make([]bool, len(words))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, word := range words {
		g.Go(func() error {
			if err := b.limiter.Wait(gctx); err != nil {
				return err
			}

			draft, err := b.generator.FromWord(gctx, word)
			if errors.Is(err, ErrUnavailable) {
				b.metrics.Generation(metrics.ResultError)
				return err
			}
			if err != nil {
				b.metrics.Generation(metrics.ResultError)
				b.logger.Warn("Failed to generate word details", zap.String("word", word), zap.Error(err))
				failed[i] = true
				return nil
			}

			b.metrics.Generation(metrics.ResultOK)
			drafts[i] = draft
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to generate words: %w", err)
	}

	result := make([]models.NewVocabularyItem, 0, len(words))
	var failedWords []string
	for i := range words {
		if failed[i] {
			failedWords = append(failedWords, words[i])
			continue
		}
		result = append(result, drafts[i])
	}

	if len(failedWords) > 0 {
		return result, &GenerationError{Failed: failedWords}
	}
	return result, nil
}

// Scan extracts drafts from an image
func (b *Batch) Scan(ctx context.Context, data []byte, mimeType string) ([]models.NewVocabularyItem, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	drafts, err := b.generator.FromImage(ctx, data, mimeType)
	if err != nil {
		b.metrics.Generation(metrics.ResultError)
		return nil, fmt.Errorf("failed to analyze image: %w", err)
	}
	b.metrics.Generation(metrics.ResultOK)

	if len(drafts) == 0 {
		return nil, ErrNoWordsFound
	}
	b.logger.Info("Scanned image", zap.Int("words", len(drafts)))
	return drafts, nil
}
