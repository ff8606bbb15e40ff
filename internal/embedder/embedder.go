// Package embedder provides the text embedding capability used for
// semantic query matching.
//
// The capability is deliberately opaque: Encode maps text to a
// fixed-length vector, deterministic for a given provider and model
// version, safe for repeated and concurrent calls. Callers must never
// pass empty text; the matcher guards for that and scores empty product
// text as zero similarity instead.
package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Common errors.
var (
	ErrEmptyText         = errors.New("text cannot be empty")
	ErrEmptyBatch        = errors.New("batch contains no texts")
	ErrBatchTooLarge     = errors.New("batch size exceeds limit")
	ErrProviderFailed    = errors.New("embedding provider failed")
	ErrUnknownProvider   = errors.New("unknown embedding provider")
	ErrNoProviderEnabled = errors.New("no embedding provider configured")
)

// Embedder is the embedding capability consumed by the matcher.
type Embedder interface {
	// Encode returns the embedding vector for text.
	Encode(ctx context.Context, text string) ([]float32, error)

	// EncodeBatch returns one vector per input text, in input order.
	// Implementations should issue a single provider call per batch.
	EncodeBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the vector length this provider produces.
	Dimension() int

	// Provider returns the provider name.
	Provider() string

	// Model returns the model name.
	Model() string

	// Close releases any resources held by the embedder.
	Close() error
}

// Cache is an in-memory LRU cache of vectors keyed by content hash.
// Shared by the HTTP providers so one text is encoded at most once per
// process regardless of how many products or queries reuse it.
type Cache struct {
	cache *lru.Cache[string, []float32]
}

// DefaultCacheSize bounds the cache when no size is configured.
const DefaultCacheSize = 10000

// NewCache creates an embedding cache with LRU eviction.
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = DefaultCacheSize
	}
	cache, err := lru.New[string, []float32](maxLen)
	if err != nil {
		// Only reachable with a non-positive size, which is guarded above.
		cache, _ = lru.New[string, []float32](DefaultCacheSize)
	}
	return &Cache{cache: cache}
}

// Get returns a copy of the cached vector for hash, if present. Copying
// keeps caller mutations out of the cache.
func (c *Cache) Get(hash string) ([]float32, bool) {
	vec, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	return out, true
}

// Set stores a vector under hash, evicting the least recently used entry
// when full.
func (c *Cache) Set(hash string, vec []float32) {
	c.cache.Add(hash, vec)
}

// Len returns the current number of cached vectors.
func (c *Cache) Len() int {
	return c.cache.Len()
}

// Purge empties the cache.
func (c *Cache) Purge() {
	c.cache.Purge()
}

// HashText computes the SHA-256 content hash used as cache key.
func HashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

func validateBatch(texts []string) error {
	if len(texts) == 0 {
		return ErrEmptyBatch
	}
	for i, t := range texts {
		if t == "" {
			return fmt.Errorf("%w: text at index %d is empty", ErrEmptyText, i)
		}
	}
	return nil
}
