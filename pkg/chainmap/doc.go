// Package chainmap provides a fixed-capacity concurrent map for GridMap.
//
// This package implements a chained-bucket hash table for int64 keys and
// values with the following properties:
//
//   - Fixed capacity: The bucket count is set at construction and never
//     changes; there is no rehashing.
//   - Fine-grained locking: One mutex per bucket. Operations on different
//     buckets never block each other; operations on the same bucket
//     serialize behind that bucket's lock.
//   - Chained collision resolution: Each bucket holds a singly-linked
//     chain of entries; new keys are appended at the tail.
//   - Lifetime operation counter: Every Get/Put/Delete call is counted,
//     including misses. The counter is an atomic and advisory only.
//
// Usage:
//
//	m, err := chainmap.New(64)
//	if err != nil { ... }
//	prev, err := m.Put(1, 10)   // prev == chainmap.NotFound for a new key
//	v, ok := m.Lookup(1)        // flag form
//	v = m.Get(1)                // sentinel form, NotFound when absent
//	m.Delete(1)
//	m.Close()
//
// Thread Safety:
//
// All operations are safe for concurrent use. Each operation acquires at
// most one bucket lock, so no deadlock is possible. Close must not run
// concurrently with other operations on the same map.
//
// @adr AD-0101
package chainmap
