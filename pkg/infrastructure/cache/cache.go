package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ResultCache memoizes decision results. Values are stored JSON-encoded so every
// hit decodes into a fresh value that shares nothing with the cached copy.
type ResultCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Close() error
}

// Key derives a stable cache key for an operation and its inputs
func Key(operation string, inputs ...interface{}) (string, error) {
	payload, err := json.Marshal(inputs)
	if err != nil {
		return "", fmt.Errorf("encode cache key for %s: %w", operation, err)
	}
	sum := sha256.Sum256(payload)
	return operation + ":" + hex.EncodeToString(sum[:]), nil
}

// NoopCache never stores anything
type NoopCache struct{}

var _ ResultCache = NoopCache{}

// Get always misses
func (NoopCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

// Set discards value
func (NoopCache) Set(ctx context.Context, key string, value interface{}) error {
	return nil
}

// Close is a no-op
func (NoopCache) Close() error {
	return nil
}
