package embedder

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Provider names and defaults.
const (
	ProviderOpenAI = "openai"
	ProviderJina   = "jina"
	ProviderLocal  = "local"

	DefaultOpenAIModel = "text-embedding-3-small"
	DefaultJinaModel   = "jina-embeddings-v3"

	OpenAIDimension = 1536
	JinaDimension   = 1024
	LocalDimension  = 384

	MaxBatchSize = 100

	openAIEndpoint = "https://api.openai.com/v1/embeddings"
	jinaEndpoint   = "https://api.jina.ai/v1/embeddings"

	httpTimeout = 30 * time.Second
)

// httpProvider is the shared implementation behind the OpenAI and Jina
// embedders; both expose the same request/response shape.
type httpProvider struct {
	name      string
	endpoint  string
	apiKey    string
	model     string
	dimension int

	httpClient *http.Client
	cache      *Cache
}

// NewOpenAIProvider creates an embedder backed by the OpenAI API.
func NewOpenAIProvider(apiKey, model string, cache *Cache) (Embedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai api key missing", ErrNoProviderEnabled)
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &httpProvider{
		name:       ProviderOpenAI,
		endpoint:   openAIEndpoint,
		apiKey:     apiKey,
		model:      model,
		dimension:  OpenAIDimension,
		httpClient: &http.Client{Timeout: httpTimeout},
		cache:      cache,
	}, nil
}

// NewJinaProvider creates an embedder backed by the Jina AI API.
func NewJinaProvider(apiKey, model string, cache *Cache) (Embedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: jina api key missing", ErrNoProviderEnabled)
	}
	if model == "" {
		model = DefaultJinaModel
	}
	return &httpProvider{
		name:       ProviderJina,
		endpoint:   jinaEndpoint,
		apiKey:     apiKey,
		model:      model,
		dimension:  JinaDimension,
		httpClient: &http.Client{Timeout: httpTimeout},
		cache:      cache,
	}, nil
}

func (p *httpProvider) Encode(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	if p.cache != nil {
		if vec, ok := p.cache.Get(HashText(text)); ok {
			return vec, nil
		}
	}

	vecs, err := p.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (p *httpProvider) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateBatch(texts); err != nil {
		return nil, err
	}
	if len(texts) > MaxBatchSize {
		return nil, fmt.Errorf("%w: max %d texts allowed", ErrBatchTooLarge, MaxBatchSize)
	}

	// Serve cached vectors and collect the misses into one API call.
	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if p.cache != nil {
			if vec, ok := p.cache.Get(HashText(text)); ok {
				out[i] = vec
				continue
			}
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := retryWithBackoff(ctx, func() ([][]float32, error) {
		return p.callAPI(ctx, missing)
	})
	if err != nil {
		return nil, fmt.Errorf("%w after %d retries: %v", ErrProviderFailed, maxRetries, err)
	}
	if len(vecs) != len(missing) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrProviderFailed, len(vecs), len(missing))
	}

	for j, vec := range vecs {
		out[missingIdx[j]] = vec
		if p.cache != nil {
			p.cache.Set(HashText(missing[j]), vec)
		}
	}

	return out, nil
}

func (p *httpProvider) callAPI(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(map[string]interface{}{
		"input": texts,
		"model": p.model,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	vecs := make([][]float32, len(apiResp.Data))
	for i, d := range apiResp.Data {
		vecs[i] = d.Embedding
	}
	return vecs, nil
}

func (p *httpProvider) Dimension() int { return p.dimension }
func (p *httpProvider) Provider() string {
	return p.name
}
func (p *httpProvider) Model() string { return p.model }

func (p *httpProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

// LocalProvider produces deterministic hash-derived vectors without any
// network dependency. Useful for offline runs and tests; the vectors
// carry no semantic signal beyond text identity.
type LocalProvider struct {
	model string
	cache *Cache
}

// NewLocalProvider creates the offline embedder.
func NewLocalProvider(cache *Cache) *LocalProvider {
	return &LocalProvider{model: "local-hash-embeddings", cache: cache}
}

func (l *LocalProvider) Encode(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	hash := HashText(text)
	if l.cache != nil {
		if vec, ok := l.cache.Get(hash); ok {
			return vec, nil
		}
	}

	// Expand the content hash across the whole vector so distinct texts
	// land far apart.
	vec := make([]float32, LocalDimension)
	seed := sha256.Sum256([]byte(text))
	block := seed
	for i := 0; i < LocalDimension; i++ {
		if i%len(block) == 0 && i > 0 {
			block = sha256.Sum256(block[:])
		}
		vec[i] = float32(block[i%len(block)])/255.0 - 0.5
	}

	if l.cache != nil {
		l.cache.Set(hash, vec)
	}
	return vec, nil
}

func (l *LocalProvider) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateBatch(texts); err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := l.Encode(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("encoding text %d: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}

func (l *LocalProvider) Dimension() int   { return LocalDimension }
func (l *LocalProvider) Provider() string { return ProviderLocal }
func (l *LocalProvider) Model() string    { return l.model }
func (l *LocalProvider) Close() error     { return nil }
