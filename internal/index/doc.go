// Package index owns the on-disk layout of a Wayfinder index directory and
// the JSON persistence for every record stored there.
//
// An index root holds one JSON document per concern:
//
//	index.json                                scanned file list (scanner output)
//	embeddings.json                           consolidated embedding set
//	embedding_batches/embeddings_part_NNN.json  per-batch checkpoints
//	embedding_progress.json                   batch job progress
//	error_log.json                            capped failure log
//	clusters.json                             clustering output
//	provider_config.json                      provider selection
//	azure_config.json / gcp_config.json       remote provider credentials
//
// Loads are lenient for derived state: a missing or unparsable embeddings,
// clusters, progress, or error-log file reads as its zero value so a corrupt
// write never bricks an index. The primary index.json is the exception —
// without it nothing downstream can run, so its absence is a hard error.
//
// Saves are whole-file rewrites through a temp file renamed into place;
// a crash mid-write can lose the newest document but never corrupt an
// already-committed checkpoint.
package index
