// Package stats computes per-campaign delivery rollups and the owner-level
// dashboard summary. Rollups are cached in Redis with a short TTL; a cache
// failure degrades to a recompute, never to an error.
package stats
