package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/wayfinder-ai/wayfinder-mcp/internal/embedder"
	"github.com/wayfinder-ai/wayfinder-mcp/pkg/types"
)

// runRemote executes the batched, checkpointed job shared by every remote
// provider variant.
func (g *Generator) runRemote(ctx context.Context, files []types.FileRecord) (*Result, error) {
	total := len(files)
	totalBatches := (total + g.cfg.BatchSize - 1) / g.cfg.BatchSize

	// Reconstruct prior progress: every checkpoint plus any earlier
	// consolidated set. First record per path wins.
	processed := make(map[string]bool)
	consolidated := make([]types.EmbeddingRecord, 0, total)
	for _, rec := range g.dir.LoadBatchCheckpoints() {
		if !processed[rec.Path] {
			processed[rec.Path] = true
			consolidated = append(consolidated, rec)
		}
	}
	for _, rec := range g.dir.LoadEmbeddings().Embeddings {
		if !processed[rec.Path] {
			processed[rec.Path] = true
			consolidated = append(consolidated, rec)
		}
	}

	res := &Result{Cached: len(processed), Model: g.provider.Model()}

	progress := &types.BatchProgress{
		BatchID:        uuid.NewString(),
		TotalFiles:     total,
		ProcessedFiles: len(processed),
		TotalBatches:   totalBatches,
		BatchSize:      g.cfg.BatchSize,
		Status:         types.StatusRunning,
		StartedAt:      types.Now(),
	}
	g.rec.WriteProgress(progress)

	batchIdx := 0
	for start := 0; start < total; start += g.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			progress.Status = types.StatusError
			g.rec.WriteProgress(progress)
			return nil, err
		}

		end := start + g.cfg.BatchSize
		if end > total {
			end = total
		}

		batchRecords, attempted := g.runBatch(ctx, files[start:end], processed, progress, res)
		if !attempted {
			// Every file in this batch was already covered by a
			// checkpoint; its checkpoint file exists from the prior run.
			batchIdx++
			continue
		}

		if err := g.dir.SaveBatch(batchIdx, &types.EmbeddingSet{
			Embeddings: batchRecords,
			Model:      g.provider.Model(),
			CreatedAt:  types.Now(),
		}); err != nil {
			progress.Status = types.StatusError
			g.rec.WriteProgress(progress)
			return nil, fmt.Errorf("write batch checkpoint %d: %w", batchIdx, err)
		}

		for _, rec := range batchRecords {
			processed[rec.Path] = true
		}
		consolidated = append(consolidated, batchRecords...)
		batchIdx++

		progress.ProcessedFiles = len(consolidated)
		progress.CurrentBatch = batchIdx
		g.rec.WriteProgress(progress)
	}

	if err := g.saveSet(consolidated); err != nil {
		progress.Status = types.StatusError
		g.rec.WriteProgress(progress)
		return nil, err
	}

	progress.Status = types.StatusComplete
	g.rec.WriteProgress(progress)

	res.Total = len(consolidated)
	return res, nil
}

// runBatch embeds every not-yet-processed file in one batch. attempted is
// false when the whole batch was already covered by prior checkpoints.
func (g *Generator) runBatch(ctx context.Context, batch []types.FileRecord,
	processed map[string]bool, progress *types.BatchProgress, res *Result) ([]types.EmbeddingRecord, bool) {

	records := make([]types.EmbeddingRecord, 0, len(batch))
	attempted := false

	for _, f := range batch {
		if processed[f.Path] {
			continue
		}
		attempted = true

		content, err := os.ReadFile(f.Path)
		if err != nil {
			g.rec.Log("read_file", f.Path, err.Error(), "")
			res.Skipped++
			continue
		}
		text := string(content)
		if strings.TrimSpace(text) == "" {
			res.Skipped++
			continue
		}
		fp := embedder.Fingerprint(text)

		if vec, ok := g.cache.Get(fp); ok {
			records = append(records, types.EmbeddingRecord{Path: f.Path, Embedding: vec, ContentHash: fp})
			res.Cached++
			continue
		}

		vec, ok := g.embedOne(ctx, f, embedder.Truncate(text), progress)
		if !ok {
			res.Errors++
			continue
		}
		g.cache.Set(fp, vec)
		records = append(records, types.EmbeddingRecord{Path: f.Path, Embedding: vec, ContentHash: fp})
		res.Generated++
	}

	return records, attempted
}

// embedOne issues one paced request with the per-file retry budget. Rate
// limits and transport failures back off exponentially; permanent API
// errors abandon immediately. Returns false when the file is given up on.
func (g *Generator) embedOne(ctx context.Context, f types.FileRecord, text string,
	progress *types.BatchProgress) ([]float32, bool) {

	var lastErr error
	for attempt := 0; attempt < g.cfg.Retry.MaxRetries; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, false
		}

		vec, err := g.provider.Generate(ctx, text)
		if err == nil {
			return vec, true
		}
		lastErr = err

		var rateErr *embedder.RateLimitError
		var transportErr *embedder.TransportError
		var apiErr *embedder.APIError
		switch {
		case errors.As(err, &rateErr):
			g.rec.Log("rate_limit", f.Path, rateErr.Message, "429")
			if !embedder.Sleep(ctx, g.cfg.Retry.RateLimitDelay(attempt)) {
				return nil, false
			}

		case errors.As(err, &transportErr):
			if attempt < g.cfg.Retry.MaxRetries-1 {
				if !embedder.Sleep(ctx, g.cfg.Retry.TransportDelay(attempt)) {
					return nil, false
				}
				continue
			}
			g.rec.Log("request_error", f.Path, transportErr.Error(), "")
			progress.Errors = append(progress.Errors, fmt.Sprintf("%s: %v", f.Name, transportErr))
			return nil, false

		case errors.As(err, &apiErr):
			g.rec.Log("api_error", f.Path, apiErr.Body, strconv.Itoa(apiErr.Status))
			progress.Errors = append(progress.Errors, fmt.Sprintf("%s: %v", f.Name, apiErr))
			return nil, false

		default:
			g.rec.Log("api_error", f.Path, err.Error(), "")
			progress.Errors = append(progress.Errors, fmt.Sprintf("%s: %v", f.Name, err))
			return nil, false
		}
	}

	g.rec.Log("request_error", f.Path, fmt.Sprintf("retries exhausted: %v", lastErr), "")
	progress.Errors = append(progress.Errors, fmt.Sprintf("%s: retries exhausted", f.Name))
	return nil, false
}
