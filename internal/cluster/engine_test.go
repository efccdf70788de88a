package cluster

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder-ai/wayfinder-mcp/internal/index"
	"github.com/wayfinder-ai/wayfinder-mcp/pkg/types"
)

func TestCreate(t *testing.T) {
	t.Run("clusters and persists", func(t *testing.T) {
		dir := index.New(t.TempDir())
		require.NoError(t, dir.SaveEmbeddings(separableSet(10)))

		result, err := Create(dir, 2, WithSeed(5))
		require.NoError(t, err)

		assert.Equal(t, 20, result.TotalFiles)
		assert.GreaterOrEqual(t, result.ClustersCreated, 1)
		assert.LessOrEqual(t, result.ClustersCreated, 2)

		stored := dir.LoadClusters()
		assert.Len(t, stored.Clusters, result.ClustersCreated)
		assert.NotEmpty(t, stored.CreatedAt)
	})

	t.Run("no embeddings is a missing prerequisite", func(t *testing.T) {
		dir := index.New(t.TempDir())
		_, err := Create(dir, 2)
		assert.True(t, errors.Is(err, index.ErrNoEmbeddings))
	})

	t.Run("rerun replaces stored clusters", func(t *testing.T) {
		dir := index.New(t.TempDir())
		require.NoError(t, dir.SaveEmbeddings(separableSet(10)))

		_, err := Create(dir, 2, WithSeed(1))
		require.NoError(t, err)
		first := dir.LoadClusters()

		_, err = Create(dir, 2, WithSeed(1))
		require.NoError(t, err)
		second := dir.LoadClusters()

		assert.Equal(t, first.Clusters, second.Clusters)
	})
}

func TestSummaries(t *testing.T) {
	set := &types.ClusterSet{
		Clusters: []types.Cluster{
			{
				ID:        0,
				FilePaths: []string{"/docs/a.md", "/docs/b.md"},
				Label:     "Docs",
			},
			{
				ID:        2,
				FilePaths: []string{"/src/main.rs"},
			},
		},
	}

	summaries := Summaries(set)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Docs", summaries[0].Label)
	assert.Equal(t, 2, summaries[0].FileCount)
	assert.Equal(t, "a.md", summaries[0].Files[0].Name)
	assert.Equal(t, "/docs/a.md", summaries[0].Files[0].Path)

	// Unlabeled clusters get a positional fallback from their id.
	assert.Equal(t, "Cluster 3", summaries[1].Label)
	assert.Equal(t, 1, summaries[1].FileCount)
}
