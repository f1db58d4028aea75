// Package store persists conversation state keyed by conversation ID.
//
// Two backends implement the same contract: a Redis-backed store with a
// two-hour inactivity TTL, and an in-process fallback that lives for the
// lifetime of the process. The selector tries Redis first and degrades to
// the in-process store when Redis is not configured or not reachable.
//
// Invariants:
// - A record is either absent or fully present; an unreadable record reads
//   back as absent, never as a partial record.
// - Writes replace the whole record. Concurrent writers for the same
//   conversation resolve last-write-wins.
// - Read and write failures are reported as *StoreError so callers can
//   degrade instead of failing the request.
//
// Usage:
//
//	st := store.Select(store.Config{URL: os.Getenv("REDIS_URL")}, logger)
//	rec, _ := st.Get(ctx, "abc123")
//	_ = st.Save(ctx, "abc123", rec)
package store
