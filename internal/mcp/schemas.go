package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexDirProperty is the schema fragment shared by every tool that operates
// on an existing index directory.
func indexDirProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the index directory (e.g. <project>/.wayfinder_index); defaults to WAYFINDER_INDEX_DIR",
	}
}

// scanDirectoryTool returns the tool definition for scan_directory
func scanDirectoryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "scan_directory",
		Description: "Scan a directory tree for text files and write a file index",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the directory to scan",
				},
				"index_dir": map[string]interface{}{
					"type":        "string",
					"description": "Index directory to write; defaults to <path>/.wayfinder_index",
				},
			},
			Required: []string{"path"},
		},
	}
}

// generateEmbeddingsTool returns the tool definition for generate_embeddings
func generateEmbeddingsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "generate_embeddings",
		Description: "Generate embeddings for every indexed file using the configured provider",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"index_dir": indexDirProperty(),
				"max_files": map[string]interface{}{
					"type":        "integer",
					"description": "Limit the number of files processed (useful for testing)",
					"minimum":     1,
				},
				"batch_size": map[string]interface{}{
					"type":        "integer",
					"description": "Files per checkpoint batch for remote providers",
					"default":     100,
					"minimum":     1,
				},
			},
		},
	}
}

// createClustersTool returns the tool definition for create_clusters
func createClustersTool() mcp.Tool {
	return mcp.Tool{
		Name:        "create_clusters",
		Description: "Group embedded files into clusters by semantic similarity",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"index_dir": indexDirProperty(),
				"num_clusters": map[string]interface{}{
					"type":        "integer",
					"description": "Number of clusters; defaults to sqrt of the file count, clamped to 2-20",
					"minimum":     2,
					"maximum":     20,
				},
			},
		},
	}
}

// getEmbeddingProgressTool returns the tool definition for get_embedding_progress
func getEmbeddingProgressTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_embedding_progress",
		Description: "Report the status of the current or most recent embedding job",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"index_dir": indexDirProperty(),
			},
		},
	}
}

// getErrorLogTool returns the tool definition for get_error_log
func getErrorLogTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_error_log",
		Description: "Read the most recent entries from the per-file error log",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"index_dir": indexDirProperty(),
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of entries to return",
					"default":     100,
					"minimum":     1,
					"maximum":     1000,
				},
			},
		},
	}
}

// clearErrorLogTool returns the tool definition for clear_error_log
func clearErrorLogTool() mcp.Tool {
	return mcp.Tool{
		Name:        "clear_error_log",
		Description: "Erase all entries from the per-file error log",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"index_dir": indexDirProperty(),
			},
		},
	}
}

// getClustersSummaryTool returns the tool definition for get_clusters_summary
func getClustersSummaryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_clusters_summary",
		Description: "Summarize stored clusters: labels, file counts, and member files",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"index_dir": indexDirProperty(),
			},
		},
	}
}

// getStatsTool returns the tool definition for get_stats
func getStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_stats",
		Description: "Report index statistics: file totals, extension breakdown, embedding and cluster presence",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"index_dir": indexDirProperty(),
			},
		},
	}
}
