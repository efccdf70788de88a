package recorder

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder-ai/wayfinder-mcp/internal/index"
	"github.com/wayfinder-ai/wayfinder-mcp/pkg/types"
)

func TestLogAppendAndRead(t *testing.T) {
	rec := New(index.New(t.TempDir()))

	rec.Log("api_error", "/docs/a.md", "boom", "500")
	rec.Log("rate_limit", "/docs/b.md", "slow down", "429")

	log := rec.ReadLog(0)
	require.Len(t, log.Entries, 2)
	assert.Equal(t, "api_error", log.Entries[0].Operation)
	assert.Equal(t, "/docs/a.md", log.Entries[0].FilePath)
	assert.Equal(t, "boom", log.Entries[0].ErrorMessage)
	assert.Equal(t, "500", log.Entries[0].ErrorCode)
	assert.Equal(t, "rate_limit", log.Entries[1].Operation)
	assert.NotEmpty(t, log.Entries[0].Timestamp)
	assert.NotEmpty(t, log.LastUpdated)
}

func TestLogCapEvictsOldest(t *testing.T) {
	rec := New(index.New(t.TempDir()))

	for i := 0; i < MaxLogEntries+50; i++ {
		rec.Log("op", "", fmt.Sprintf("failure %d", i), "")
	}

	log := rec.ReadLog(MaxLogEntries + 100)
	require.Len(t, log.Entries, MaxLogEntries)

	// The 50 oldest entries were evicted; the survivors keep append order.
	assert.Equal(t, "failure 50", log.Entries[0].ErrorMessage)
	assert.Equal(t, fmt.Sprintf("failure %d", MaxLogEntries+49), log.Entries[len(log.Entries)-1].ErrorMessage)
}

func TestReadLogLimit(t *testing.T) {
	rec := New(index.New(t.TempDir()))
	for i := 0; i < 10; i++ {
		rec.Log("op", "", fmt.Sprintf("failure %d", i), "")
	}

	t.Run("limit keeps the most recent entries", func(t *testing.T) {
		log := rec.ReadLog(3)
		require.Len(t, log.Entries, 3)
		assert.Equal(t, "failure 7", log.Entries[0].ErrorMessage)
		assert.Equal(t, "failure 9", log.Entries[2].ErrorMessage)
	})

	t.Run("zero limit uses the default", func(t *testing.T) {
		log := rec.ReadLog(0)
		assert.Len(t, log.Entries, 10)
	})

	t.Run("limit above count returns everything", func(t *testing.T) {
		log := rec.ReadLog(500)
		assert.Len(t, log.Entries, 10)
	})
}

func TestClearLog(t *testing.T) {
	dir := index.New(t.TempDir())
	rec := New(dir)

	rec.Log("op", "", "failure", "")
	require.NoError(t, rec.ClearLog())
	assert.Empty(t, rec.ReadLog(0).Entries)

	_, err := os.Stat(dir.ErrorLogFile())
	assert.True(t, os.IsNotExist(err))

	t.Run("clearing an absent log succeeds", func(t *testing.T) {
		assert.NoError(t, rec.ClearLog())
	})
}

func TestLogSurvivesCorruption(t *testing.T) {
	dir := index.New(t.TempDir())
	rec := New(dir)

	rec.Log("op", "", "first", "")
	require.NoError(t, os.WriteFile(dir.ErrorLogFile(), []byte("{ruined"), 0o644))

	// A wrecked log file reads as empty and the next append starts fresh.
	rec.Log("op", "", "second", "")
	log := rec.ReadLog(0)
	require.Len(t, log.Entries, 1)
	assert.Equal(t, "second", log.Entries[0].ErrorMessage)
}

func TestProgress(t *testing.T) {
	rec := New(index.New(t.TempDir()))

	t.Run("absent before any job", func(t *testing.T) {
		_, found := rec.ReadProgress()
		assert.False(t, found)
	})

	t.Run("write stamps last_updated", func(t *testing.T) {
		rec.WriteProgress(&types.BatchProgress{
			BatchID:    "job-1",
			TotalFiles: 10,
			Status:     types.StatusRunning,
			StartedAt:  types.Now(),
		})

		p, found := rec.ReadProgress()
		require.True(t, found)
		assert.Equal(t, "job-1", p.BatchID)
		assert.NotEmpty(t, p.LastUpdated)
	})

	t.Run("rewrite replaces the record", func(t *testing.T) {
		rec.WriteProgress(&types.BatchProgress{BatchID: "job-2", Status: types.StatusComplete})
		p, found := rec.ReadProgress()
		require.True(t, found)
		assert.Equal(t, "job-2", p.BatchID)
		assert.Equal(t, types.StatusComplete, p.Status)
	})
}
