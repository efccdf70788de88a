package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/wayfinder-ai/wayfinder-mcp/internal/embedder"
	"github.com/wayfinder-ai/wayfinder-mcp/internal/index"
	"github.com/wayfinder-ai/wayfinder-mcp/internal/recorder"
	"github.com/wayfinder-ai/wayfinder-mcp/pkg/types"
)

// Defaults for embedding jobs.
const (
	DefaultBatchSize    = 100
	DefaultSaveInterval = 100
	DefaultRequestDelay = 50 * time.Millisecond
	DefaultCacheSize    = 10000
)

// Config tunes one embedding job.
type Config struct {
	BatchSize    int           // files per checkpointed batch
	SaveInterval int           // local run: save every N processed files
	RequestDelay time.Duration // minimum spacing between remote requests
	MaxFiles     int           // optional cap on files processed; 0 = all
	Retry        embedder.RetryConfig
}

// DefaultConfig returns the standard job configuration.
func DefaultConfig() Config {
	return Config{
		BatchSize:    DefaultBatchSize,
		SaveInterval: DefaultSaveInterval,
		RequestDelay: DefaultRequestDelay,
		Retry:        embedder.DefaultRetryConfig(),
	}
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.SaveInterval <= 0 {
		c.SaveInterval = DefaultSaveInterval
	}
	if c.RequestDelay <= 0 {
		c.RequestDelay = DefaultRequestDelay
	}
	if c.Retry.MaxRetries <= 0 {
		c.Retry = embedder.DefaultRetryConfig()
	}
	return c
}

// Result reports what one embedding job did.
type Result struct {
	Generated int    // vectors computed by the provider
	Cached    int    // vectors reused via fingerprint match
	Skipped   int    // unreadable or blank files
	Errors    int    // per-file remote failures
	Total     int    // records in the consolidated set
	Model     string // provider model identifier
}

// Generator runs embedding jobs against one index directory. Not safe for
// concurrent jobs against the same directory: the last writer to an output
// file wins.
type Generator struct {
	dir      index.Dir
	provider embedder.Provider
	rec      *recorder.Recorder
	cache    *embedder.Cache
	limiter  *rate.Limiter
	cfg      Config
}

// New creates a Generator with the provider selected by the directory's
// persisted provider config. Missing or incomplete credentials fail here.
func New(dir index.Dir, cfg Config) (*Generator, error) {
	provider, err := embedder.NewFromConfig(dir)
	if err != nil {
		return nil, err
	}
	return NewWithProvider(dir, provider, cfg), nil
}

// NewWithProvider creates a Generator with an explicit provider.
func NewWithProvider(dir index.Dir, provider embedder.Provider, cfg Config) *Generator {
	cfg = cfg.withDefaults()
	return &Generator{
		dir:      dir,
		provider: provider,
		rec:      recorder.New(dir),
		cache:    embedder.NewCache(DefaultCacheSize),
		limiter:  rate.NewLimiter(rate.Every(cfg.RequestDelay), 1),
		cfg:      cfg,
	}
}

// Provider exposes the selected provider.
func (g *Generator) Provider() embedder.Provider { return g.provider }

// Close releases the provider.
func (g *Generator) Close() error { return g.provider.Close() }

// Run executes one embedding job: load the index, embed every file not
// already covered by a valid cached record, and write the consolidated set.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	if err := g.provider.ValidateConfig(); err != nil {
		return nil, err
	}
	idx, err := g.dir.LoadIndex()
	if err != nil {
		return nil, err
	}

	files := idx.Files
	if g.cfg.MaxFiles > 0 && len(files) > g.cfg.MaxFiles {
		files = files[:g.cfg.MaxFiles]
	}

	if g.provider.Name() == index.ProviderLocal {
		return g.runLocal(ctx, files)
	}
	return g.runRemote(ctx, files)
}

// runLocal embeds files with the offline provider, reusing stored vectors
// whose fingerprints still match and saving at a fixed interval.
func (g *Generator) runLocal(ctx context.Context, files []types.FileRecord) (*Result, error) {
	prior := make(map[string]types.EmbeddingRecord)
	for _, rec := range g.dir.LoadEmbeddings().Embeddings {
		prior[rec.Path] = rec
	}

	res := &Result{Model: g.provider.Model()}
	out := make([]types.EmbeddingRecord, 0, len(files))

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := os.ReadFile(f.Path)
		if err != nil {
			g.rec.Log("generate_embeddings_local", f.Path, fmt.Sprintf("failed to read file: %v", err), "")
			res.Skipped++
			continue
		}
		fp := embedder.Fingerprint(string(content))

		if rec, ok := prior[f.Path]; ok && embedder.CacheValid(rec, fp, g.provider.Dimension()) {
			out = append(out, rec)
			res.Cached++
		} else {
			vec, err := g.provider.Generate(ctx, string(content))
			if err != nil {
				g.rec.Log("generate_embeddings_local", f.Path, err.Error(), "")
				res.Errors++
				continue
			}
			out = append(out, types.EmbeddingRecord{Path: f.Path, Embedding: vec, ContentHash: fp})
			res.Generated++
		}

		if (res.Generated+res.Cached)%g.cfg.SaveInterval == 0 {
			_ = g.saveSet(out)
		}
	}

	if err := g.saveSet(out); err != nil {
		return nil, err
	}
	res.Total = len(out)
	return res, nil
}

func (g *Generator) saveSet(records []types.EmbeddingRecord) error {
	return g.dir.SaveEmbeddings(&types.EmbeddingSet{
		Embeddings: records,
		Model:      g.provider.Model(),
		CreatedAt:  types.Now(),
	})
}
