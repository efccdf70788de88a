package embedder

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/wayfinder-ai/wayfinder-mcp/internal/index"
)

// LocalModelName identifies vectors produced by the deterministic fallback.
const LocalModelName = "local-fallback"

// seedFallback replaces a zero seed so the xorshift stream never collapses.
const seedFallback = 0x9E3779B97F4A7C15

// LocalProvider produces reproducible pseudo-embeddings without network
// access: a xorshift64* stream seeded from a stable hash of the text. Two
// calls on identical text always yield an identical vector, which is what
// makes fingerprint-based cache reuse testable offline.
type LocalProvider struct {
	model string
}

// NewLocalProvider creates the offline fallback provider. The model name is
// recorded in embedding sets; empty defaults to the configured local model.
func NewLocalProvider(model string) *LocalProvider {
	if model == "" {
		model = index.DefaultLocalModel
	}
	return &LocalProvider{model: model}
}

func (l *LocalProvider) Generate(_ context.Context, text string) ([]float32, error) {
	return deterministicVector(text, LocalDimension), nil
}

func (l *LocalProvider) ValidateConfig() error { return nil }

func (l *LocalProvider) Name() string { return index.ProviderLocal }

func (l *LocalProvider) Model() string { return l.model }

func (l *LocalProvider) Dimension() int { return LocalDimension }

func (l *LocalProvider) Close() error { return nil }

// deterministicVector draws dim samples from a xorshift64* stream seeded by
// a stable hash of text, mapping each raw draw into [-1, 1].
func deterministicVector(text string, dim int) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	state := h.Sum64()
	if state == 0 {
		state = seedFallback
	}

	vec := make([]float32, dim)
	for i := range vec {
		r := nextXorshift(&state)
		vec[i] = float32(float64(r)/float64(math.MaxUint64)*2 - 1)
	}
	return vec
}

// nextXorshift advances a xorshift64* state and returns the next draw.
func nextXorshift(state *uint64) uint64 {
	x := *state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	*state = x
	return x * 2685821657736338717
}
