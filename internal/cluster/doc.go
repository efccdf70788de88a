// Package cluster groups embedding vectors into labeled clusters with
// k-means over cosine distance.
//
// The engine assigns every embedding to the nearest centroid by cosine
// distance (1 − cosine similarity, with a small epsilon in the denominator
// so zero-norm vectors stay finite), recomputes centroids as member means,
// and stops at convergence or after 50 iterations. Initialization samples k
// unique records; pass WithSeed for reproducible runs. Centroids that end
// with no members are dropped from the output, so the final cluster count
// may be below k.
//
// When the caller gives no k it defaults to round(sqrt(n)) clamped to
// [2, 20] and never above n.
//
// Each cluster gets a synthesized label from its member paths: the most
// frequent meaningful filename word, parent directory, and extension
// category, in that priority order. Ties between equally frequent
// candidates break to the lexicographically smallest, so labels are
// deterministic for a given membership.
package cluster
