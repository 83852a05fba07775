package embedding

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/wgomg/rezumat/internal/config"
	"github.com/wgomg/rezumat/internal/utils"
)

// EncoderFactory builds a model-backed encoder. It runs at most once per
// successful build.
type EncoderFactory func() (TextEncoder, error)

type lazyEncoder struct {
	mu      sync.Mutex
	factory EncoderFactory
	enc     TextEncoder
}

// Registry resolves an embedding Choice. TF-IDF embedders are built fresh
// for every call; model-backed encoders are loaded on first use and then
// shared process-wide. A failed load is retried on the next call.
type Registry struct {
	logger  *utils.Logger
	cache   *EmbeddingCache
	mu      sync.Mutex
	entries map[Choice]*lazyEncoder
}

func NewRegistry(logger *utils.Logger, cache *EmbeddingCache) *Registry {
	return &Registry{
		logger:  logger,
		cache:   cache,
		entries: make(map[Choice]*lazyEncoder),
	}
}

// NewDefaultRegistry wires every model-backed choice from cfg.
func NewDefaultRegistry(logger *utils.Logger, cfg *config.SemanticConfig) (*Registry, error) {
	var cache *EmbeddingCache
	if cfg.CacheSize > 0 {
		c, err := NewEmbeddingCache(cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		cache = c
	}

	r := NewRegistry(logger, cache)
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond

	r.Register(BERTChoice, pythonFactory(logger, cfg.BertModel, cfg))
	r.Register(RoBERTaChoice, pythonFactory(logger, cfg.RobertaModel, cfg))
	r.Register(OllamaChoice, func() (TextEncoder, error) {
		return NewOllamaEncoder(&cfg.Ollama, timeout)
	})
	r.Register(OpenAIChoice, func() (TextEncoder, error) {
		return NewOpenAIEncoder(&cfg.OpenAI)
	})

	return r, nil
}

func pythonFactory(logger *utils.Logger, model string, cfg *config.SemanticConfig) EncoderFactory {
	return func() (TextEncoder, error) {
		enc := NewPythonEncoder(logger, model, cfg)
		if err := enc.Initialize(); err != nil {
			enc.Close()
			return nil, fmt.Errorf("failed to initialize python encoder: %w", err)
		}
		return enc, nil
	}
}

func (r *Registry) Register(choice Choice, factory EncoderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[choice] = &lazyEncoder{factory: factory}
}

func (r *Registry) Cache() *EmbeddingCache {
	return r.cache
}

// Embedder returns the embedder for choice, loading its model if needed.
func (r *Registry) Embedder(choice Choice) (Embedder, error) {
	if choice == TFIDFChoice {
		return NewTFIDF(), nil
	}

	r.mu.Lock()
	entry, ok := r.entries[choice]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEmbedding, choice)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.enc == nil {
		r.logger.Info(nil, "Loading %s embedding model", choice)
		enc, err := entry.factory()
		if err != nil {
			return nil, fmt.Errorf("load %s embedding: %w", choice, err)
		}
		if r.cache != nil {
			enc = &closingCachedEncoder{TextEncoder: NewCachedEncoder(enc, r.cache), inner: enc}
		}
		entry.enc = enc
	}

	return FromTextEncoder(entry.enc), nil
}

// Close shuts down every loaded encoder that holds resources.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for choice, entry := range r.entries {
		entry.mu.Lock()
		if closer, ok := entry.enc.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				r.logger.Error(nil, "Failed to close %s encoder: %v", choice, err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		entry.enc = nil
		entry.mu.Unlock()
	}
	return firstErr
}

type closingCachedEncoder struct {
	TextEncoder
	inner TextEncoder
}

func (c *closingCachedEncoder) Close() error {
	if closer, ok := c.inner.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
