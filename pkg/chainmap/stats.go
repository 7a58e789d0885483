// Package chainmap provides a fixed-capacity concurrent chained-bucket map.
package chainmap

// BucketStats describes one bucket's chain.
type BucketStats struct {
	Index int
	Depth int
}

// Stats returns the chain depth of every bucket. Each bucket is read under
// its own lock; the slice is not a map-wide snapshot.
func (m *Map) Stats() []BucketStats {
	stats := make([]BucketStats, m.capacity)
	for i := range m.buckets {
		m.locks[i].Lock()
		depth := 0
		for e := m.buckets[i]; e != nil; e = e.next {
			depth++
		}
		m.locks[i].Unlock()
		stats[i] = BucketStats{Index: i, Depth: depth}
	}
	return stats
}

// MaxDepth returns the deepest chain length.
func (m *Map) MaxDepth() int {
	max := 0
	for _, s := range m.Stats() {
		if s.Depth > max {
			max = s.Depth
		}
	}
	return max
}
