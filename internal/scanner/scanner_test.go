package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder-ai/wayfinder-mcp/internal/index"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "readme.md"), "# hello")
	writeFile(t, filepath.Join(root, "notes", "todo.txt"), "buy milk")
	writeFile(t, filepath.Join(root, "src", "main.go"), "package main")
	writeFile(t, filepath.Join(root, "img", "photo.jpg"), "not text")
	writeFile(t, filepath.Join(root, ".hidden.md"), "skipped")
	writeFile(t, filepath.Join(root, ".git", "config.txt"), "skipped too")

	result, err := Scan(context.Background(), root, "", nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.FilesScanned)
	assert.Equal(t, filepath.Join(root, index.DefaultDirName, "index.json"), result.IndexPath)

	dir := index.New(filepath.Join(root, index.DefaultDirName))
	data, err := dir.LoadIndex()
	require.NoError(t, err)
	require.Len(t, data.Files, 3)
	assert.Equal(t, root, data.ScanPath)
	assert.NotEmpty(t, data.CreatedAt)

	names := map[string]bool{}
	var totalSize int64
	for _, f := range data.Files {
		names[f.Name] = true
		totalSize += f.Size
		assert.NotEmpty(t, f.Modified)
		assert.NotEmpty(t, f.Extension)
	}
	assert.True(t, names["readme.md"])
	assert.True(t, names["todo.txt"])
	assert.True(t, names["main.go"])
	assert.False(t, names["photo.jpg"], "binary extensions are not indexed")
	assert.False(t, names[".hidden.md"], "hidden files are skipped")
	assert.False(t, names["config.txt"], "hidden directories are skipped")
	assert.Equal(t, totalSize, result.TotalSize)
}

func TestScanExplicitIndexDir(t *testing.T) {
	root := t.TempDir()
	indexDir := filepath.Join(t.TempDir(), "custom_index")
	writeFile(t, filepath.Join(root, "a.md"), "content")

	result, err := Scan(context.Background(), root, indexDir, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(indexDir, "index.json"), result.IndexPath)

	_, err = index.New(indexDir).LoadIndex()
	assert.NoError(t, err)
}

func TestScanErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := Scan(context.Background(), "/does/not/exist", "", nil)
		assert.Error(t, err)
	})

	t.Run("path is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "f.txt")
		writeFile(t, file, "x")
		_, err := Scan(context.Background(), file, "", nil)
		assert.Error(t, err)
	})
}

func TestScanRescanReplacesIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "one")

	_, err := Scan(context.Background(), root, "", nil)
	require.NoError(t, err)

	writeFile(t, filepath.Join(root, "b.md"), "two")
	result, err := Scan(context.Background(), root, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesScanned)

	data, err := index.New(filepath.Join(root, index.DefaultDirName)).LoadIndex()
	require.NoError(t, err)
	assert.Len(t, data.Files, 2)
}

func TestExtensionOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"file.MD", "md"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{"trailingdot.", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extensionOf(tt.in), tt.in)
	}
}
