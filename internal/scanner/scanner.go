// Package scanner discovers text files under a directory tree and writes the
// resulting file index that the embedding pipeline consumes.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wayfinder-ai/wayfinder-mcp/internal/index"
	"github.com/wayfinder-ai/wayfinder-mcp/pkg/types"
)

// textExtensions lists the file extensions treated as indexable text.
var textExtensions = map[string]bool{
	"md": true, "txt": true, "text": true, "markdown": true, "mdx": true,
	"py": true, "pyw": true, "pyi": true,
	"js": true, "jsx": true, "ts": true, "tsx": true,
	"json": true, "yaml": true, "yml": true, "toml": true, "ini": true, "cfg": true,
	"html": true, "htm": true, "css": true, "scss": true, "sass": true,
	"rs": true, "go": true, "java": true, "c": true, "cpp": true, "h": true, "hpp": true,
	"sh": true, "bash": true, "zsh": true, "ps1": true, "bat": true, "cmd": true,
	"xml": true, "svg": true, "log": true,
}

// Config contains configuration for a scan.
type Config struct {
	Workers int // concurrent stat workers (default: runtime.NumCPU())
}

// Result summarizes a completed scan.
type Result struct {
	FilesScanned int    `json:"files_scanned"`
	TotalSize    int64  `json:"total_size"`
	IndexPath    string `json:"index_path"`
}

// Scan walks the tree rooted at scanPath, records every text file, and writes
// index.json under indexDir. An empty indexDir defaults to
// <scanPath>/.wayfinder_index. Hidden files and directories are skipped.
func Scan(ctx context.Context, scanPath, indexDir string, config *Config) (*Result, error) {
	if config == nil {
		config = &Config{}
	}
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	info, err := os.Stat(scanPath)
	if err != nil {
		return nil, fmt.Errorf("path does not exist: %s", scanPath)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", scanPath)
	}

	paths, err := discover(scanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", scanPath, err)
	}

	records, totalSize, err := collect(ctx, paths, workers)
	if err != nil {
		return nil, err
	}

	if indexDir == "" {
		indexDir = filepath.Join(scanPath, index.DefaultDirName)
	}
	dir := index.New(indexDir)
	if err := dir.Ensure(); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	data := &types.IndexData{
		Files:     records,
		ScanPath:  scanPath,
		CreatedAt: types.Now(),
	}
	if err := dir.SaveIndex(data); err != nil {
		return nil, fmt.Errorf("failed to write index file: %w", err)
	}

	return &Result{
		FilesScanned: len(records),
		TotalSize:    totalSize,
		IndexPath:    dir.IndexFile(),
	}, nil
}

// discover walks the tree and returns the paths of indexable text files.
func discover(root string) ([]string, error) {
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped rather than aborting the scan.
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		name := info.Name()
		if strings.HasPrefix(name, ".") && path != root {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if textExtensions[extensionOf(name)] {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// collect stats the discovered paths concurrently and builds FileRecords.
// Files that vanish between discovery and stat are dropped silently.
func collect(ctx context.Context, paths []string, workers int) ([]types.FileRecord, int64, error) {
	records := make([]types.FileRecord, len(paths))
	present := make([]bool, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)
	var mu sync.Mutex
	var totalSize int64

	for i, path := range paths {
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}

			info, err := os.Stat(path)
			if err != nil {
				return nil
			}
			records[i] = types.FileRecord{
				Path:      path,
				Name:      info.Name(),
				Size:      info.Size(),
				Modified:  info.ModTime().Format(types.TimeLayout),
				Extension: extensionOf(info.Name()),
			}
			present[i] = true

			mu.Lock()
			totalSize += info.Size()
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	// Preserve walk order.
	kept := make([]types.FileRecord, 0, len(paths))
	for i := range records {
		if present[i] {
			kept = append(kept, records[i])
		}
	}
	return kept, totalSize, nil
}

func extensionOf(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}
