package cluster

import (
	"math"
	"math/rand"
	"time"

	"github.com/wayfinder-ai/wayfinder-mcp/pkg/types"
)

// Clustering bounds.
const (
	MaxIterations = 50
	MinClusters   = 2
	MaxClusters   = 20

	// epsilon keeps cosine similarity finite for zero-norm vectors.
	epsilon = 1e-10
)

// Option configures a clustering run.
type Option func(*options)

type options struct {
	seed   int64
	seeded bool
}

// WithSeed makes centroid initialization reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// DefaultK returns round(sqrt(n)) clamped to [MinClusters, MaxClusters] and
// never above n.
func DefaultK(n int) int {
	k := int(math.Round(math.Sqrt(float64(n))))
	if k < MinClusters {
		k = MinClusters
	}
	if k > MaxClusters {
		k = MaxClusters
	}
	if k > n {
		k = n
	}
	return k
}

// Run clusters the embedding set into at most k groups. k <= 0 selects
// DefaultK. Only centroids with at least one member are emitted; cluster ids
// are the centroid's index in the pre-drop ordering.
func Run(set *types.EmbeddingSet, k int, opts ...Option) []types.Cluster {
	n := len(set.Embeddings)
	if n == 0 {
		return nil
	}
	if k <= 0 {
		k = DefaultK(n)
	}
	if k > n {
		k = n
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	seed := o.seed
	if !o.seeded {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	dim := len(set.Embeddings[0].Embedding)

	// Sample k unique indices for the initial centroids.
	centroids := make([][]float32, 0, k)
	for _, idx := range rng.Perm(n)[:k] {
		c := make([]float32, dim)
		copy(c, set.Embeddings[idx].Embedding)
		centroids = append(centroids, c)
	}

	assignments := make([]int, n)
	for iter := 0; iter < MaxIterations; iter++ {
		changed := false
		for i, rec := range set.Embeddings {
			best := 0
			bestDist := float32(math.MaxFloat32)
			for j, centroid := range centroids {
				if d := CosineDistance(rec.Embedding, centroid); d < bestDist {
					bestDist = d
					best = j
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		// Recompute each centroid as the mean of its members. A centroid
		// with no members keeps its previous value.
		for j := range centroids {
			sum := make([]float32, dim)
			count := 0
			for i, rec := range set.Embeddings {
				if assignments[i] != j {
					continue
				}
				for d, v := range rec.Embedding {
					sum[d] += v
				}
				count++
			}
			if count > 0 {
				for d := range sum {
					sum[d] /= float32(count)
				}
				centroids[j] = sum
			}
		}
	}

	clusters := make([]types.Cluster, 0, k)
	for j, centroid := range centroids {
		var paths []string
		for i, rec := range set.Embeddings {
			if assignments[i] == j {
				paths = append(paths, rec.Path)
			}
		}
		if len(paths) == 0 {
			continue
		}
		clusters = append(clusters, types.Cluster{
			ID:        j,
			Centroid:  centroid,
			FilePaths: paths,
			Label:     synthesizeLabel(paths),
		})
	}
	return clusters
}

// CosineDistance returns 1 − cosine similarity over the common prefix of a
// and b. The epsilon in the denominator keeps zero-norm vectors finite.
func CosineDistance(a, b []float32) float32 {
	var dot, normA, normB float32
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	similarity := dot / (float32(math.Sqrt(float64(normA)))*float32(math.Sqrt(float64(normB))) + epsilon)
	return 1 - similarity
}
