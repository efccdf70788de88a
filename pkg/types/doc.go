// Package types provides shared type definitions for the Wayfinder MCP server.
//
// This package defines the domain records persisted under an index root and
// exchanged between the scanner, embedding pipeline, and clustering engine:
// FileRecord, EmbeddingRecord, BatchProgress, ErrorLog, and Cluster.
//
// All records serialize as JSON documents with the exact field names the
// desktop application reads, so the Go core can share an index directory with
// existing frontends. Timestamps are formatted with TimeLayout in local time:
//
//	set := &types.EmbeddingSet{
//	    Embeddings: records,
//	    Model:      "local-fallback",
//	    CreatedAt:  types.Now(),
//	}
package types
