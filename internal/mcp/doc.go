// Package mcp implements the Model Context Protocol (MCP) server for Wayfinder.
//
// The MCP server exposes the file-organization pipeline to AI assistants as a
// set of tools over JSON-RPC 2.0 on stdio:
//   - scan_directory: Walk a directory tree and index its text files
//   - generate_embeddings: Embed every indexed file with the configured provider
//   - create_clusters: Group embedded files by semantic similarity
//   - get_embedding_progress: Report the status of the current embedding job
//   - get_error_log / clear_error_log: Inspect and reset the per-file error log
//   - get_clusters_summary: List stored clusters with labels and members
//   - get_stats: Index statistics and derived-state presence
//
// # State Model
//
// The server itself is stateless. Every tool takes an index_dir parameter
// (falling back to the WAYFINDER_INDEX_DIR environment variable) naming the
// index directory where all state lives as JSON documents
// (index.json, embeddings.json, clusters.json, progress and error logs, and
// the provider configuration files). Two assistants pointing at different
// index directories never interact.
//
// # Typical Flow
//
//	scan_directory        {"path": "/home/me/docs"}
//	generate_embeddings   {"index_dir": "/home/me/docs/.wayfinder_index"}
//	create_clusters       {"index_dir": "/home/me/docs/.wayfinder_index"}
//	get_clusters_summary  {"index_dir": "/home/me/docs/.wayfinder_index"}
//
// Long-running embedding jobs can be observed from a second client with
// get_embedding_progress and resumed after interruption by calling
// generate_embeddings again; completed batches are not re-billed.
//
// # Error Handling
//
// Parameter problems return MCP error -32602 with a data object naming the
// offending parameter. Domain preconditions use dedicated codes: -32001 when
// index.json is missing, -32002 when clustering is requested before any
// embeddings exist, -32003 when the provider configuration cannot be loaded.
// Per-file failures during embedding never fail the tool call; they are
// recorded in the error log and surfaced through get_error_log.
//
// stdout is reserved for protocol messages. All diagnostic logging goes to
// stderr.
package mcp
