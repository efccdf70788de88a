// Package pipeline orchestrates embedding generation for a scanned file
// collection: provider selection, batching, checkpointing, cache merging,
// and progress recording.
//
// A job reads the scanned index, selects a provider from the persisted
// provider config, and runs as a single long-lived task with no internal
// parallelism — remote requests go out one at a time, paced by a rate
// limiter, so rate-limit backoff stays simple and correct with a single
// in-flight request.
//
// # Local jobs
//
// Local generation is cheap to rerun, so it only saves the consolidated set
// at a fixed interval and on completion; a crash loses at most one
// interval's work.
//
// # Remote jobs
//
// Remote generation is billed per request, so it checkpoints every completed
// batch to embedding_batches/embeddings_part_NNN.json and rewrites the
// progress record after each batch. On startup the runner reconstructs
// already-processed paths from all existing checkpoints plus any prior
// consolidated set: a job killed mid-run and restarted with the same
// parameters continues where it left off without re-billing a single file.
// Checkpoints are left in place after the final consolidated write, keeping
// reruns idempotent.
//
// Per-file failures never abort a job. Unreadable or blank files are
// skipped and logged; rate limits back off exponentially; transport errors
// retry up to the budget; permanent API errors are logged and abandoned.
// Only a missing index or provider misconfiguration aborts before work
// starts.
package pipeline
