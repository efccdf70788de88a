package types

import "time"

// TimeLayout is the timestamp format used in every persisted record.
const TimeLayout = "2006-01-02 15:04:05"

// Now returns the current local time formatted with TimeLayout.
func Now() string {
	return time.Now().Format(TimeLayout)
}

// FileRecord describes one scanned file. Records are produced by the scanner
// and immutable afterwards; the pipeline treats them as read-only input.
type FileRecord struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Modified  string `json:"modified"`
	Extension string `json:"extension"`
}

// IndexData is the scanner's output document (index.json).
type IndexData struct {
	Files     []FileRecord `json:"files"`
	ScanPath  string       `json:"scan_path"`
	CreatedAt string       `json:"created_at"`
}

// EmbeddingRecord holds one file's vector and the content fingerprint the
// vector was computed from. A record is superseded, never mutated, when the
// file changes.
type EmbeddingRecord struct {
	Path        string    `json:"path"`
	Embedding   []float32 `json:"embedding"`
	ContentHash string    `json:"content_hash"`
}

// EmbeddingSet is a consolidated or per-batch collection of embeddings
// (embeddings.json, embedding_batches/embeddings_part_NNN.json).
// All vectors in a set share one dimension.
type EmbeddingSet struct {
	Embeddings []EmbeddingRecord `json:"embeddings"`
	Model      string            `json:"model"`
	CreatedAt  string            `json:"created_at"`
}

// Batch job status values.
const (
	StatusRunning  = "running"
	StatusPaused   = "paused"
	StatusComplete = "complete"
	StatusError    = "error"
)

// BatchProgress is the mutable per-job progress record
// (embedding_progress.json), rewritten after every batch.
type BatchProgress struct {
	BatchID        string   `json:"batch_id"`
	TotalFiles     int      `json:"total_files"`
	ProcessedFiles int      `json:"processed_files"`
	CurrentBatch   int      `json:"current_batch"`
	TotalBatches   int      `json:"total_batches"`
	BatchSize      int      `json:"batch_size"`
	Status         string   `json:"status"`
	StartedAt      string   `json:"started_at"`
	LastUpdated    string   `json:"last_updated"`
	Errors         []string `json:"errors"`
}

// ErrorLogEntry records one per-file failure.
type ErrorLogEntry struct {
	Timestamp    string `json:"timestamp"`
	Operation    string `json:"operation"`
	FilePath     string `json:"file_path,omitempty"`
	ErrorMessage string `json:"error_message"`
	ErrorCode    string `json:"error_code,omitempty"`
}

// ErrorLog is the bounded, append-only failure record (error_log.json).
// Appends beyond the cap evict the oldest entries first.
type ErrorLog struct {
	Entries     []ErrorLogEntry `json:"entries"`
	LastUpdated string          `json:"last_updated"`
}

// Cluster groups member file paths around a centroid. The centroid has the
// same dimension as the source embeddings; every member path belongs to
// exactly one cluster.
type Cluster struct {
	ID        int       `json:"id"`
	Centroid  []float32 `json:"centroid"`
	FilePaths []string  `json:"file_paths"`
	Label     string    `json:"label,omitempty"`
}

// ClusterSet is the clustering engine's output document (clusters.json).
type ClusterSet struct {
	Clusters  []Cluster `json:"clusters"`
	CreatedAt string    `json:"created_at"`
}
