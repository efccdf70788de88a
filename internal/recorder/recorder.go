// Package recorder persists job progress and the capped error log for an
// index directory.
//
// The error log is the durable record of per-file failures across a job's
// lifetime: one timestamped entry per failure, truncated to the most recent
// 1000 after every append, rewritten as a single file. The progress record
// is one mutable document per job, rewritten after every batch. Failures to
// persist either are swallowed — a broken log must never abort a running
// job.
package recorder

import (
	"os"

	"github.com/wayfinder-ai/wayfinder-mcp/internal/index"
	"github.com/wayfinder-ai/wayfinder-mcp/pkg/types"
)

// MaxLogEntries caps error_log.json; oldest entries are evicted first.
const MaxLogEntries = 1000

// DefaultReadLimit bounds ReadLog when the caller gives no limit.
const DefaultReadLimit = 100

// Recorder reads and writes the progress and error-log documents of one
// index directory.
type Recorder struct {
	dir index.Dir
}

// New creates a Recorder for the given index directory.
func New(dir index.Dir) *Recorder {
	return &Recorder{dir: dir}
}

// Log appends one failure entry and rewrites the log, truncated to the most
// recent MaxLogEntries. filePath and code may be empty. Best-effort: persist
// errors are dropped.
func (r *Recorder) Log(operation, filePath, message, code string) {
	log := r.load()
	log.Entries = append(log.Entries, types.ErrorLogEntry{
		Timestamp:    types.Now(),
		Operation:    operation,
		FilePath:     filePath,
		ErrorMessage: message,
		ErrorCode:    code,
	})
	if len(log.Entries) > MaxLogEntries {
		log.Entries = log.Entries[len(log.Entries)-MaxLogEntries:]
	}
	log.LastUpdated = types.Now()
	_ = r.dir.SaveErrorLog(log)
}

// ReadLog returns up to limit of the most recent entries, oldest first.
// limit <= 0 uses DefaultReadLimit.
func (r *Recorder) ReadLog(limit int) *types.ErrorLog {
	if limit <= 0 {
		limit = DefaultReadLimit
	}
	log := r.load()
	if len(log.Entries) > limit {
		log.Entries = log.Entries[len(log.Entries)-limit:]
	}
	return log
}

// ClearLog deletes the error log file.
func (r *Recorder) ClearLog() error {
	err := os.Remove(r.dir.ErrorLogFile())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// WriteProgress rewrites the progress record with a fresh update timestamp.
func (r *Recorder) WriteProgress(p *types.BatchProgress) {
	p.LastUpdated = types.Now()
	_ = r.dir.SaveProgress(p)
}

// ReadProgress loads the progress record, reporting false when no job has
// written one (or the file is unparsable).
func (r *Recorder) ReadProgress() (*types.BatchProgress, bool) {
	return r.dir.LoadProgress()
}

func (r *Recorder) load() *types.ErrorLog {
	return r.dir.LoadErrorLog()
}
