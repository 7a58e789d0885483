// Package chainmap provides a fixed-capacity concurrent chained-bucket map.
package chainmap

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// Option configures a Map at construction.
type Option func(*Map)

// WithScatterHash replaces the default modulo bucket placement with a
// murmur3 hash over the key bytes. Sequential key ranges then spread
// across buckets instead of cycling through them, which keeps chain depth
// even under skewed key distributions.
//
// Placement changes; the external contract does not.
func WithScatterHash() Option {
	return func(m *Map) {
		m.indexFn = func(key int64) int {
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], uint64(key))
			return int(murmur3.Sum64(buf[:]) % uint64(m.capacity))
		}
	}
}
