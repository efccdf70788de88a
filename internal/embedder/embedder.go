package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/wayfinder-ai/wayfinder-mcp/pkg/types"
)

// Common errors
var (
	ErrUnsupportedProvider = errors.New("unsupported embedding provider")
	ErrProviderFailed      = errors.New("embedding provider failed")
)

// Provider dimensions and limits.
const (
	LocalDimension  = 512  // deterministic fallback
	AzureDimension  = 1536 // ada-002 class deployments
	VertexDimension = 768  // gecko class models

	// MaxContentChars caps the characters sent in a single embedding
	// request. Overlong content is truncated, not rejected.
	MaxContentChars = 32000
)

// Provider generates one embedding vector per piece of file content.
// Implementations must be safe for sequential reuse across a whole job but
// are not required to support concurrent calls; the pipeline issues one
// request at a time.
type Provider interface {
	// Generate embeds a single text. Remote implementations return
	// classified errors (RateLimitError, TransportError, APIError).
	Generate(ctx context.Context, text string) ([]float32, error)

	// ValidateConfig reports whether the provider has everything it needs
	// to start a job. Called before any work begins.
	ValidateConfig() error

	// Name returns the provider kind ("local", "azure", "gcp").
	Name() string

	// Model returns the model identifier recorded in embedding sets.
	Model() string

	// Dimension returns the vector dimension this provider produces.
	Dimension() int

	// Close releases any resources held by the provider.
	Close() error
}

// Fingerprint computes the stable SHA-256 content hash used for cache
// validation and change detection.
func Fingerprint(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// CacheValid reports whether a stored record can be reused for content with
// the given current fingerprint: the fingerprint must match and the stored
// vector must have the provider's expected dimension.
func CacheValid(rec types.EmbeddingRecord, fingerprint string, dimension int) bool {
	return rec.ContentHash == fingerprint && len(rec.Embedding) == dimension
}

// Truncate caps text at MaxContentChars.
func Truncate(text string) string {
	if len(text) > MaxContentChars {
		return text[:MaxContentChars]
	}
	return text
}

// Cache provides in-memory LRU caching of vectors by content fingerprint,
// so a job never pays for the same content twice.
type Cache struct {
	cache *lru.Cache[string, []float32]
}

// NewCache creates an embedding cache with LRU eviction.
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 10000
	}
	cache, err := lru.New[string, []float32](maxLen)
	if err != nil {
		cache, _ = lru.New[string, []float32](10000)
	}
	return &Cache{cache: cache}
}

// Get retrieves a copy of a cached vector. Returning a copy keeps caller
// mutations out of the cache.
func (c *Cache) Get(fingerprint string) ([]float32, bool) {
	vec, ok := c.cache.Get(fingerprint)
	if !ok {
		return nil, false
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	return out, true
}

// Set stores a vector under its content fingerprint.
func (c *Cache) Set(fingerprint string, vec []float32) {
	c.cache.Add(fingerprint, vec)
}

// Size returns the current cache size.
func (c *Cache) Size() int {
	return c.cache.Len()
}
