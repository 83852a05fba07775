package embedding

import (
	"context"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// EmbeddingCache keeps model vectors by model name and text. It is shared
// by every request and safe for concurrent use. Cached vectors are shared,
// so callers must not modify them.
type EmbeddingCache struct {
	items  *lru.Cache[string, []float64]
	hits   atomic.Int64
	misses atomic.Int64
}

func NewEmbeddingCache(size int) (*EmbeddingCache, error) {
	items, err := lru.New[string, []float64](size)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &EmbeddingCache{items: items}, nil
}

func cacheKey(model, text string) string {
	return model + "\x00" + text
}

// GetMissing fills found with cached vectors and returns the positions of
// texts that still need encoding.
func (c *EmbeddingCache) GetMissing(model string, texts []string, found [][]float64) []int {
	var missing []int
	for i, text := range texts {
		if vec, ok := c.items.Get(cacheKey(model, text)); ok {
			found[i] = vec
			c.hits.Add(1)
			continue
		}
		missing = append(missing, i)
		c.misses.Add(1)
	}
	return missing
}

func (c *EmbeddingCache) Add(model, text string, vec []float64) {
	c.items.Add(cacheKey(model, text), vec)
}

func (c *EmbeddingCache) Size() int {
	return c.items.Len()
}

func (c *EmbeddingCache) Hits() int64 {
	return c.hits.Load()
}

func (c *EmbeddingCache) Misses() int64 {
	return c.misses.Load()
}

func (c *EmbeddingCache) HitRate() float64 {
	hits, misses := c.Hits(), c.Misses()
	if hits+misses > 0 {
		return float64(hits) / float64(hits+misses)
	}
	return 0.0
}

type cachedEncoder struct {
	enc   TextEncoder
	cache *EmbeddingCache
}

// NewCachedEncoder serves repeated texts from cache and sends only the
// misses to enc.
func NewCachedEncoder(enc TextEncoder, cache *EmbeddingCache) TextEncoder {
	return &cachedEncoder{enc: enc, cache: cache}
}

func (c *cachedEncoder) ModelName() string {
	return c.enc.ModelName()
}

func (c *cachedEncoder) EncodeTexts(ctx context.Context, texts []string) ([][]float64, error) {
	model := c.enc.ModelName()
	vectors := make([][]float64, len(texts))

	missing := c.cache.GetMissing(model, texts, vectors)
	if len(missing) == 0 {
		return vectors, nil
	}

	batch := make([]string, len(missing))
	for k, i := range missing {
		batch[k] = texts[i]
	}

	encoded, err := c.enc.EncodeTexts(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(encoded) != len(batch) {
		return nil, fmt.Errorf("got %d vectors for %d texts", len(encoded), len(batch))
	}

	for k, i := range missing {
		vectors[i] = encoded[k]
		c.cache.Add(model, texts[i], encoded[k])
	}
	return vectors, nil
}
