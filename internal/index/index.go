package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wayfinder-ai/wayfinder-mcp/pkg/types"
)

// Common errors surfaced to callers as missing prerequisites.
var (
	ErrNoIndex      = errors.New("index not found: scan a directory first")
	ErrNoEmbeddings = errors.New("no embeddings found: generate embeddings first")
)

// DefaultDirName is the index directory created next to a scanned tree when
// the caller does not name one.
const DefaultDirName = ".wayfinder_index"

// Dir is an index root directory. The zero value is not usable; construct
// with New.
type Dir struct {
	root string
}

// New returns a Dir for the given root path. The directory is created lazily
// by the first save.
func New(root string) Dir {
	return Dir{root: root}
}

// Root returns the index root path.
func (d Dir) Root() string { return d.root }

// Ensure creates the index root if it does not exist.
func (d Dir) Ensure() error {
	return os.MkdirAll(d.root, 0o755)
}

func (d Dir) IndexFile() string          { return filepath.Join(d.root, "index.json") }
func (d Dir) EmbeddingsFile() string     { return filepath.Join(d.root, "embeddings.json") }
func (d Dir) BatchDir() string           { return filepath.Join(d.root, "embedding_batches") }
func (d Dir) ProgressFile() string       { return filepath.Join(d.root, "embedding_progress.json") }
func (d Dir) ErrorLogFile() string       { return filepath.Join(d.root, "error_log.json") }
func (d Dir) ClustersFile() string       { return filepath.Join(d.root, "clusters.json") }
func (d Dir) ProviderConfigFile() string { return filepath.Join(d.root, "provider_config.json") }
func (d Dir) AzureConfigFile() string    { return filepath.Join(d.root, "azure_config.json") }
func (d Dir) GCPConfigFile() string      { return filepath.Join(d.root, "gcp_config.json") }

// BatchFile returns the checkpoint path for batch n, zero-padded to three
// digits (embeddings_part_007.json).
func (d Dir) BatchFile(n int) string {
	return filepath.Join(d.BatchDir(), fmt.Sprintf("embeddings_part_%03d.json", n))
}

// LoadIndex reads index.json. Unlike derived state, a missing or corrupt
// index is fatal: every downstream operation depends on it.
func (d Dir) LoadIndex() (*types.IndexData, error) {
	data, err := os.ReadFile(d.IndexFile())
	if err != nil {
		return nil, ErrNoIndex
	}
	var idx types.IndexData
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse %s: %w", d.IndexFile(), err)
	}
	return &idx, nil
}

// SaveIndex writes index.json, creating the index root if needed.
func (d Dir) SaveIndex(idx *types.IndexData) error {
	if err := d.Ensure(); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	return writeJSON(d.IndexFile(), idx)
}

// LoadEmbeddings reads the consolidated embedding set. Missing or corrupt
// data reads as an empty set.
func (d Dir) LoadEmbeddings() *types.EmbeddingSet {
	set := &types.EmbeddingSet{}
	readJSONLenient(d.EmbeddingsFile(), set)
	return set
}

// SaveEmbeddings rewrites the consolidated embedding set.
func (d Dir) SaveEmbeddings(set *types.EmbeddingSet) error {
	return writeJSON(d.EmbeddingsFile(), set)
}

// SaveBatch writes the checkpoint file for batch n.
func (d Dir) SaveBatch(n int, set *types.EmbeddingSet) error {
	if err := os.MkdirAll(d.BatchDir(), 0o755); err != nil {
		return fmt.Errorf("create batch directory: %w", err)
	}
	return writeJSON(d.BatchFile(n), set)
}

// LoadBatchCheckpoints reads every batch checkpoint in sequence order and
// returns the union of their records. Unparsable checkpoints are skipped.
func (d Dir) LoadBatchCheckpoints() []types.EmbeddingRecord {
	entries, err := os.ReadDir(d.BatchDir())
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var records []types.EmbeddingRecord
	for _, name := range names {
		var set types.EmbeddingSet
		if readJSONLenient(filepath.Join(d.BatchDir(), name), &set) {
			records = append(records, set.Embeddings...)
		}
	}
	return records
}

// LoadClusters reads clusters.json; missing or corrupt data reads as empty.
func (d Dir) LoadClusters() *types.ClusterSet {
	set := &types.ClusterSet{}
	readJSONLenient(d.ClustersFile(), set)
	return set
}

// SaveClusters rewrites clusters.json.
func (d Dir) SaveClusters(set *types.ClusterSet) error {
	return writeJSON(d.ClustersFile(), set)
}

// LoadErrorLog reads error_log.json; missing or corrupt data reads as empty.
func (d Dir) LoadErrorLog() *types.ErrorLog {
	log := &types.ErrorLog{}
	readJSONLenient(d.ErrorLogFile(), log)
	return log
}

// SaveErrorLog rewrites error_log.json.
func (d Dir) SaveErrorLog(log *types.ErrorLog) error {
	return writeJSON(d.ErrorLogFile(), log)
}

// LoadProgress reads the job progress record, reporting false when no job
// has written one or the file is unparsable.
func (d Dir) LoadProgress() (*types.BatchProgress, bool) {
	p := &types.BatchProgress{}
	if !readJSONLenient(d.ProgressFile(), p) {
		return nil, false
	}
	return p, true
}

// SaveProgress rewrites the job progress record.
func (d Dir) SaveProgress(p *types.BatchProgress) error {
	return writeJSON(d.ProgressFile(), p)
}

// readJSONLenient unmarshals path into v, reporting whether it succeeded.
// Any failure leaves v untouched beyond partial decoding and is not an error:
// corrupted derived state is treated as absent.
func readJSONLenient(path string, v interface{}) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// writeJSON rewrites path atomically: marshal, write a sibling temp file,
// rename over the target.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
