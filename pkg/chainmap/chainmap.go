// Package chainmap provides a fixed-capacity concurrent chained-bucket map.
//
// @req RQ-0101
// @design DS-0101
package chainmap

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
)

// NotFound is the reserved sentinel returned by the sentinel-form accessors
// when a key is absent. It is excluded from the legal value domain: Put
// rejects it with ErrReservedValue.
const NotFound int64 = math.MaxInt64

// Common errors.
var (
	// ErrInvalidCapacity is returned by New for a non-positive capacity.
	ErrInvalidCapacity = errors.New("chainmap: capacity must be positive")

	// ErrReservedValue is returned by Put when the value equals NotFound.
	ErrReservedValue = errors.New("chainmap: value is the reserved not-found sentinel")

	// ErrClosed is returned by Put after Close.
	ErrClosed = errors.New("chainmap: map is closed")
)

// entry is one node of a bucket's singly-linked chain.
type entry struct {
	key   int64
	value int64
	next  *entry
}

// Map is a fixed-capacity concurrent map with one lock per bucket.
//
// The zero value is not usable; construct with New.
type Map struct {
	capacity int
	locks    []sync.Mutex
	buckets  []*entry

	// size is mutated only while the owning bucket's lock is held.
	size atomic.Int64

	// ops counts every public Get/Put/Delete call, misses included.
	// It is advisory and not part of any correctness invariant.
	ops atomic.Uint64

	closed atomic.Bool

	indexFn func(key int64) int
}

// New creates a map with the given number of buckets.
func New(capacity int, opts ...Option) (*Map, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	m := &Map{
		capacity: capacity,
		locks:    make([]sync.Mutex, capacity),
		buckets:  make([]*entry, capacity),
	}
	m.indexFn = m.modIndex

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// modIndex computes key mod capacity, normalized to a non-negative index
// so that negative keys land in a valid bucket.
func (m *Map) modIndex(key int64) int {
	i := int(key % int64(m.capacity))
	if i < 0 {
		i += m.capacity
	}
	return i
}

// Get returns the value for key, or NotFound if the key is absent.
func (m *Map) Get(key int64) int64 {
	v, ok := m.lookup(key)
	if !ok {
		return NotFound
	}
	return v
}

// Lookup returns the value for key and whether it is present.
func (m *Map) Lookup(key int64) (int64, bool) {
	return m.lookup(key)
}

func (m *Map) lookup(key int64) (int64, bool) {
	m.ops.Add(1)

	if m.closed.Load() {
		return 0, false
	}

	idx := m.indexFn(key)
	m.locks[idx].Lock()
	defer m.locks[idx].Unlock()

	for e := m.buckets[idx]; e != nil; e = e.next {
		if e.key == key {
			return e.value, true
		}
	}
	return 0, false
}

// Put associates value with key and returns the previous value, or NotFound
// if the key was absent. An existing entry is updated in place without
// changing its position in the chain; a new key is appended at the tail.
func (m *Map) Put(key, value int64) (int64, error) {
	m.ops.Add(1)

	if value == NotFound {
		return NotFound, ErrReservedValue
	}
	if m.closed.Load() {
		return NotFound, ErrClosed
	}

	idx := m.indexFn(key)
	m.locks[idx].Lock()
	defer m.locks[idx].Unlock()

	head := m.buckets[idx]
	if head == nil {
		m.buckets[idx] = &entry{key: key, value: value}
		m.size.Add(1)
		return NotFound, nil
	}

	for e := head; ; e = e.next {
		if e.key == key {
			prev := e.value
			e.value = value
			return prev, nil
		}
		if e.next == nil {
			e.next = &entry{key: key, value: value}
			m.size.Add(1)
			return NotFound, nil
		}
	}
}

// Delete removes key and returns its value, or NotFound if the key is
// absent. Deleting an absent key is a counted no-op.
func (m *Map) Delete(key int64) int64 {
	m.ops.Add(1)

	if m.closed.Load() {
		return NotFound
	}

	idx := m.indexFn(key)
	m.locks[idx].Lock()
	defer m.locks[idx].Unlock()

	e := m.buckets[idx]
	if e == nil {
		return NotFound
	}

	if e.key == key {
		m.buckets[idx] = e.next
		m.size.Add(-1)
		return e.value
	}

	prev := e
	for e = e.next; e != nil; prev, e = e, e.next {
		if e.key == key {
			prev.next = e.next
			m.size.Add(-1)
			return e.value
		}
	}
	return NotFound
}

// Len returns the number of live entries.
func (m *Map) Len() int {
	return int(m.size.Load())
}

// Cap returns the bucket count fixed at construction.
func (m *Map) Cap() int {
	return m.capacity
}

// Ops returns the lifetime count of Get/Put/Delete calls.
func (m *Map) Ops() uint64 {
	return m.ops.Load()
}

// Range calls fn for every entry. Each bucket's lock is held while its
// chain is visited, so the view of a single bucket is consistent, but the
// map-wide view is not a snapshot. fn returns false to stop.
func (m *Map) Range(fn func(key, value int64) bool) {
	if m.closed.Load() {
		return
	}
	for i := range m.buckets {
		m.locks[i].Lock()
		for e := m.buckets[i]; e != nil; e = e.next {
			if !fn(e.key, e.value) {
				m.locks[i].Unlock()
				return
			}
		}
		m.locks[i].Unlock()
	}
}

// Dump writes a human-readable rendering of every bucket chain, one line
// per bucket: "[i] -> (k,v) -> (k,v)".
func (m *Map) Dump(w io.Writer) error {
	for i := range m.buckets {
		m.locks[i].Lock()
		if _, err := fmt.Fprintf(w, "[%d]", i); err != nil {
			m.locks[i].Unlock()
			return err
		}
		for e := m.buckets[i]; e != nil; e = e.next {
			if _, err := fmt.Fprintf(w, " -> (%d,%d)", e.key, e.value); err != nil {
				m.locks[i].Unlock()
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			m.locks[i].Unlock()
			return err
		}
		m.locks[i].Unlock()
	}
	return nil
}

// Close tears the map down: every chain is released and the map is marked
// closed. After Close, Get and Delete report absence and Put returns
// ErrClosed. Close must not run concurrently with other operations.
func (m *Map) Close() {
	if !m.closed.CompareAndSwap(false, true) {
		return
	}
	for i := range m.buckets {
		m.locks[i].Lock()
		for e := m.buckets[i]; e != nil; e = e.next {
			m.size.Add(-1)
		}
		m.buckets[i] = nil
		m.locks[i].Unlock()
	}
}
