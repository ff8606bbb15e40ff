package embedder

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables consulted by NewFromEnv.
const (
	EnvProvider     = "CATALOGPIPE_EMBEDDING_PROVIDER"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvJinaAPIKey   = "JINA_API_KEY"
)

// Config holds embedder construction options.
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	CacheSize int
}

// New creates an embedder from explicit configuration.
func New(cfg Config) (Embedder, error) {
	cache := NewCache(cfg.CacheSize)

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cache)
	case ProviderJina:
		return NewJinaProvider(cfg.APIKey, cfg.Model, cache)
	case ProviderLocal, "":
		return NewLocalProvider(cache), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

// NewFromEnv creates an embedder from the environment. Priority:
//  1. CATALOGPIPE_EMBEDDING_PROVIDER (openai, jina, local)
//  2. whichever API key is set (OPENAI_API_KEY, then JINA_API_KEY)
//  3. the deterministic local provider
func NewFromEnv() (Embedder, error) {
	cache := NewCache(DefaultCacheSize)

	if provider := strings.ToLower(os.Getenv(EnvProvider)); provider != "" {
		switch provider {
		case ProviderOpenAI:
			return NewOpenAIProvider(os.Getenv(EnvOpenAIAPIKey), "", cache)
		case ProviderJina:
			return NewJinaProvider(os.Getenv(EnvJinaAPIKey), "", cache)
		case ProviderLocal:
			return NewLocalProvider(cache), nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
		}
	}

	if key := os.Getenv(EnvOpenAIAPIKey); key != "" {
		return NewOpenAIProvider(key, "", cache)
	}
	if key := os.Getenv(EnvJinaAPIKey); key != "" {
		return NewJinaProvider(key, "", cache)
	}

	return NewLocalProvider(cache), nil
}
