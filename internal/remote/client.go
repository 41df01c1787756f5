// Package remote stores per-user vocabulary and progress in a NATS
// JetStream key/value bucket.
//
// Key layout:
//
//	users.<uid>.words.<itemID>  one VocabularyItem per key
//	users.<uid>.progress        the full progress map
//
// The user id is base64url encoded so any id is a valid key token.
package remote

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

const (
	DefaultBucket = "vocabmaster"

	// maxWriteAttempts bounds optimistic concurrency retries of a merge write
	maxWriteAttempts = 5
)

// Client wraps the key/value bucket
type Client struct {
	kv     jetstream.KeyValue
	logger *zap.Logger
}

// New wraps an existing bucket
func New(kv jetstream.KeyValue, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{kv: kv, logger: logger}
}

// Connect dials NATS and creates the bucket if needed. The returned
// function drains the connection.
func Connect(ctx context.Context, url, bucket string, logger *zap.Logger) (*Client, func(), error) {
	if bucket == "" {
		bucket = DefaultBucket
	}

	nc, err := nats.Connect(url, nats.Name("vocabmaster"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("get jetstream: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "Vocabulary items and learning progress per user",
		History:     1,
	})
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create/update kv bucket: %w", err)
	}

	client := New(kv, logger)
	return client, client.drainer(nc), nil
}

// drainer returns a close function that drains conn and logs failures
func (c *Client) drainer(conn interface{ Drain() error }) func() {
	return func() {
		if err := conn.Drain(); err != nil {
			c.logger.Warn("Failed to drain NATS connection", zap.Error(err))
		}
	}
}

// Words returns the per-user vocabulary collection
func (c *Client) Words() *WordStore {
	return &WordStore{client: c}
}

// Progress returns the per-user progress document
func (c *Client) Progress() *ProgressDocument {
	return &ProgressDocument{client: c}
}

func userPrefix(userID string) string {
	return "users." + base64.RawURLEncoding.EncodeToString([]byte(userID))
}

func wordsFilter(userID string) string {
	return userPrefix(userID) + ".words.*"
}

func wordKey(userID, itemID string) string {
	return userPrefix(userID) + ".words." + itemID
}

func progressKey(userID string) string {
	return userPrefix(userID) + ".progress"
}
