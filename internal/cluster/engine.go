package cluster

import (
	"path/filepath"
	"strconv"

	"github.com/wayfinder-ai/wayfinder-mcp/internal/index"
	"github.com/wayfinder-ai/wayfinder-mcp/pkg/types"
)

// Result reports what one clustering run produced.
type Result struct {
	ClustersCreated int
	TotalFiles      int
}

// Create runs a clustering job against an index directory: load the
// consolidated embeddings, cluster them, rewrite clusters.json. A missing or
// empty embedding set is a missing prerequisite and aborts before any work.
func Create(dir index.Dir, k int, opts ...Option) (*Result, error) {
	set := dir.LoadEmbeddings()
	if len(set.Embeddings) == 0 {
		return nil, index.ErrNoEmbeddings
	}

	clusters := Run(set, k, opts...)

	if err := dir.SaveClusters(&types.ClusterSet{
		Clusters:  clusters,
		CreatedAt: types.Now(),
	}); err != nil {
		return nil, err
	}

	return &Result{
		ClustersCreated: len(clusters),
		TotalFiles:      len(set.Embeddings),
	}, nil
}

// FileRef names one cluster member for display.
type FileRef struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Summary is the display projection of a cluster: centroids stripped, only
// id, label, and membership exposed.
type Summary struct {
	ID        int       `json:"id"`
	Label     string    `json:"label"`
	FileCount int       `json:"file_count"`
	Files     []FileRef `json:"files"`
}

// Summaries projects a cluster set for display. Clusters without labels get
// a positional fallback.
func Summaries(set *types.ClusterSet) []Summary {
	summaries := make([]Summary, 0, len(set.Clusters))
	for _, c := range set.Clusters {
		label := c.Label
		if label == "" {
			label = "Cluster " + strconv.Itoa(c.ID+1)
		}
		files := make([]FileRef, 0, len(c.FilePaths))
		for _, p := range c.FilePaths {
			files = append(files, FileRef{Name: filepath.Base(p), Path: p})
		}
		summaries = append(summaries, Summary{
			ID:        c.ID,
			Label:     label,
			FileCount: len(c.FilePaths),
			Files:     files,
		})
	}
	return summaries
}
