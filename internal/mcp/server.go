package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
)

const (
	// ServerName is the MCP server name
	ServerName = "wayfinder-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server. All tools take the index directory as a
// parameter, so the server itself carries no per-index state.
type Server struct {
	mcp *server.MCPServer
}

// NewServer creates a new MCP server instance with all tools registered.
func NewServer() (*Server, error) {
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{mcp: mcpServer}
	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(scanDirectoryTool(), s.handleScanDirectory)
	s.mcp.AddTool(generateEmbeddingsTool(), s.handleGenerateEmbeddings)
	s.mcp.AddTool(createClustersTool(), s.handleCreateClusters)
	s.mcp.AddTool(getEmbeddingProgressTool(), s.handleGetEmbeddingProgress)
	s.mcp.AddTool(getErrorLogTool(), s.handleGetErrorLog)
	s.mcp.AddTool(clearErrorLogTool(), s.handleClearErrorLog)
	s.mcp.AddTool(getClustersSummaryTool(), s.handleGetClustersSummary)
	s.mcp.AddTool(getStatsTool(), s.handleGetStats)
}
