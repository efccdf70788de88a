package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wayfinder-ai/wayfinder-mcp/internal/cluster"
	"github.com/wayfinder-ai/wayfinder-mcp/internal/index"
	"github.com/wayfinder-ai/wayfinder-mcp/internal/pipeline"
	"github.com/wayfinder-ai/wayfinder-mcp/internal/recorder"
	"github.com/wayfinder-ai/wayfinder-mcp/internal/scanner"
)

// MCP error codes
const (
	ErrorCodeInvalidParams  = -32602 // Invalid method parameters
	ErrorCodeInternalError  = -32603 // Internal JSON-RPC error
	ErrorCodeIndexNotFound  = -32001 // No index.json in the given index directory
	ErrorCodeNoEmbeddings   = -32002 // Embeddings required but not generated yet
	ErrorCodeProviderConfig = -32003 // Provider configuration missing or invalid
)

// handleScanDirectory handles the scan_directory tool invocation
func (s *Server) handleScanDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if err := validateDir(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	indexDir := getStringDefault(args, "index_dir", "")

	result, err := scanner.Scan(ctx, path, indexDir, nil)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "scan failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"files_scanned": result.FilesScanned,
		"total_size":    result.TotalSize,
		"index_path":    result.IndexPath,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGenerateEmbeddings handles the generate_embeddings tool invocation
func (s *Server) handleGenerateEmbeddings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	dir, mcpErr := indexDirParam(args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	cfg := pipeline.DefaultConfig()
	cfg.MaxFiles = getIntDefault(args, "max_files", 0)
	if cfg.MaxFiles < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "max_files must be positive", map[string]interface{}{
			"param": "max_files",
			"value": cfg.MaxFiles,
		})
	}
	cfg.BatchSize = getIntDefault(args, "batch_size", 0)
	if cfg.BatchSize < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "batch_size must be positive", map[string]interface{}{
			"param": "batch_size",
			"value": cfg.BatchSize,
		})
	}

	gen, err := pipeline.New(dir, cfg)
	if err != nil {
		return nil, newMCPError(ErrorCodeProviderConfig, "failed to initialize embedding provider", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() { _ = gen.Close() }()

	result, err := gen.Run(ctx)
	if err != nil {
		if errors.Is(err, index.ErrNoIndex) {
			return nil, newMCPError(ErrorCodeIndexNotFound, "index not found; run scan_directory first", map[string]interface{}{
				"index_dir": dir.Root(),
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "embedding generation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"embeddings_generated": result.Generated,
		"embeddings_cached":    result.Cached,
		"embeddings_skipped":   result.Skipped,
		"embeddings_errors":    result.Errors,
		"embeddings_path":      dir.EmbeddingsFile(),
		"model":                result.Model,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleCreateClusters handles the create_clusters tool invocation
func (s *Server) handleCreateClusters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	dir, mcpErr := indexDirParam(args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	k := getIntDefault(args, "num_clusters", 0)
	if k != 0 && (k < cluster.MinClusters || k > cluster.MaxClusters) {
		return nil, newMCPError(ErrorCodeInvalidParams,
			fmt.Sprintf("num_clusters must be between %d and %d", cluster.MinClusters, cluster.MaxClusters),
			map[string]interface{}{
				"param": "num_clusters",
				"value": k,
			})
	}

	result, err := cluster.Create(dir, k)
	if err != nil {
		if errors.Is(err, index.ErrNoEmbeddings) {
			return nil, newMCPError(ErrorCodeNoEmbeddings, "no embeddings found; run generate_embeddings first", map[string]interface{}{
				"index_dir": dir.Root(),
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "clustering failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"clusters_created": result.ClustersCreated,
		"total_files":      result.TotalFiles,
		"message":          fmt.Sprintf("Created %d clusters from %d files", result.ClustersCreated, result.TotalFiles),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetEmbeddingProgress handles the get_embedding_progress tool invocation
func (s *Server) handleGetEmbeddingProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	dir, mcpErr := indexDirParam(args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	rec := recorder.New(dir)
	progress, found := rec.ReadProgress()
	if !found {
		response := map[string]interface{}{
			"status":  "not_started",
			"message": "No embedding job has been started",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	return mcp.NewToolResultText(formatJSONValue(progress)), nil
}

// handleGetErrorLog handles the get_error_log tool invocation
func (s *Server) handleGetErrorLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	dir, mcpErr := indexDirParam(args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	limit := getIntDefault(args, "limit", recorder.DefaultReadLimit)
	if limit < 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be positive", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	log := recorder.New(dir).ReadLog(limit)
	if len(log.Entries) == 0 {
		response := map[string]interface{}{
			"entries": []interface{}{},
			"message": "No errors logged",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	return mcp.NewToolResultText(formatJSONValue(log)), nil
}

// handleClearErrorLog handles the clear_error_log tool invocation
func (s *Server) handleClearErrorLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	dir, mcpErr := indexDirParam(args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	if err := recorder.New(dir).ClearLog(); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to clear error log", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"success": true,
		"message": "Error log cleared",
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetClustersSummary handles the get_clusters_summary tool invocation
func (s *Server) handleGetClustersSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	dir, mcpErr := indexDirParam(args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	set := dir.LoadClusters()
	if len(set.Clusters) == 0 {
		response := map[string]interface{}{
			"clusters": []interface{}{},
			"message":  "No clusters found. Please create clusters first.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	summaries := cluster.Summaries(set)
	response := map[string]interface{}{
		"clusters":       summaries,
		"created_at":     set.CreatedAt,
		"total_clusters": len(summaries),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStats handles the get_stats tool invocation
func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	dir, mcpErr := indexDirParam(args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	data, err := dir.LoadIndex()
	if err != nil {
		if errors.Is(err, index.ErrNoIndex) {
			return nil, newMCPError(ErrorCodeIndexNotFound, "index not found", map[string]interface{}{
				"index_dir": dir.Root(),
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to read index", map[string]interface{}{
			"error": err.Error(),
		})
	}

	var totalSize int64
	extensions := make(map[string]int)
	for _, f := range data.Files {
		totalSize += f.Size
		extensions[f.Extension]++
	}

	embeddings := dir.LoadEmbeddings()
	clusters := dir.LoadClusters()

	response := map[string]interface{}{
		"total_files":      len(data.Files),
		"total_size_bytes": totalSize,
		"extensions":       extensions,
		"last_updated":     data.CreatedAt,
		"scan_path":        data.ScanPath,
		"has_embeddings":   len(embeddings.Embeddings) > 0,
		"embedding_count":  len(embeddings.Embeddings),
		"has_clusters":     len(clusters.Clusters) > 0,
		"cluster_count":    len(clusters.Clusters),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// EnvIndexDir names the environment variable consulted when a tool call
// omits index_dir.
const EnvIndexDir = "WAYFINDER_INDEX_DIR"

// indexDirParam extracts and validates the index_dir parameter shared by most
// tools, returning the corresponding index.Dir.
func indexDirParam(args map[string]interface{}) (index.Dir, error) {
	indexDir, ok := args["index_dir"].(string)
	if !ok || indexDir == "" {
		indexDir = os.Getenv(EnvIndexDir)
	}
	if indexDir == "" {
		return index.Dir{}, newMCPError(ErrorCodeInvalidParams, "index_dir parameter is required", map[string]interface{}{
			"param":  "index_dir",
			"reason": "missing or empty, and " + EnvIndexDir + " is not set",
		})
	}
	if !filepath.IsAbs(indexDir) {
		return index.Dir{}, newMCPError(ErrorCodeInvalidParams, "index_dir must be absolute", map[string]interface{}{
			"param": "index_dir",
			"value": indexDir,
		})
	}
	return index.New(indexDir), nil
}

// validateDir checks if a path exists and is a readable directory
func validateDir(path string) error {
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}
	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()
	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// formatJSONValue formats an arbitrary value as indented JSON
func formatJSONValue(v interface{}) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)
