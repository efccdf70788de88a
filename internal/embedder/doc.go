// Package embedder turns file content into fixed-dimension embedding vectors
// using pluggable providers.
//
// Three providers are available: a deterministic offline fallback
// (LocalProvider), Azure OpenAI (AzureProvider, API-key based), and Google
// Vertex AI (VertexProvider, service-account token based). All implement
// the Provider interface, so the pipeline depends only on the capability:
//
//	provider, err := embedder.NewFromConfig(dir)
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
//
//	vec, err := provider.Generate(ctx, content)
//
// # Error classification
//
// Remote providers classify failures so the pipeline's retry loop can treat
// each kind differently:
//
//   - *RateLimitError — HTTP 429; retried with exponential backoff without
//     consuming a content-level error slot
//   - *TransportError — connection failures; retried with backoff up to the
//     budget
//   - *APIError — permanent failures (non-retryable status, explicit error
//     payload, malformed response); logged and abandoned immediately
//
// The Azure provider handles unsupported-API-version rejections internally:
// it switches to a fallback version at most once per provider lifetime and
// reissues the request immediately, without surfacing an error or consuming
// a retry.
//
// # Fingerprinting
//
// Fingerprint computes a stable SHA-256 content hash used to detect file
// changes and validate cached vectors. Records whose fingerprint still
// matches the file's current content (and whose dimension matches the
// provider) are reused without a provider call. An in-process LRU cache
// keyed by fingerprint fronts remote providers within a job.
package embedder
