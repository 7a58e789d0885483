// Package service implements the application service layer for GridMap.
//
// @design DS-0201
package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/yndnr/gridmap-go/internal/core/domain"
	"github.com/yndnr/gridmap-go/internal/telemetry/logger"
	"github.com/yndnr/gridmap-go/internal/telemetry/metric"
	"github.com/yndnr/gridmap-go/pkg/chainmap"
)

// KVService exposes the key-value operations backed by one chainmap.Map.
type KVService struct {
	table   *chainmap.Map
	log     logger.Logger
	metrics *metric.Registry
}

// NewKVService creates a new KVService. metrics may be nil.
func NewKVService(table *chainmap.Map, log logger.Logger, metrics *metric.Registry) *KVService {
	if log == nil {
		log = logger.Default()
	}
	return &KVService{
		table:   table,
		log:     log,
		metrics: metrics,
	}
}

// Table returns the underlying map, for the metrics collector.
func (s *KVService) Table() *chainmap.Map {
	return s.table
}

// Get returns the value for key, or ErrKeyNotFound.
func (s *KVService) Get(ctx context.Context, key int64) (int64, error) {
	start := time.Now()
	v, ok := s.table.Lookup(key)
	if !ok {
		s.observe(metric.OpGet, metric.OutcomeMiss, start)
		return 0, domain.ErrKeyNotFound
	}
	s.observe(metric.OpGet, metric.OutcomeHit, start)
	logger.L(ctx).Debug("get", "key", key, "value", v)
	return v, nil
}

// Set stores value under key. It returns the previous value and whether
// the key existed before the call.
func (s *KVService) Set(ctx context.Context, key, value int64) (int64, bool, error) {
	start := time.Now()
	prev, err := s.table.Put(key, value)
	if err != nil {
		s.observe(metric.OpSet, metric.OutcomeError, start)
		return 0, false, translate(err)
	}

	existed := prev != chainmap.NotFound
	if existed {
		s.observe(metric.OpSet, metric.OutcomeUpdate, start)
	} else {
		s.observe(metric.OpSet, metric.OutcomeInsert, start)
	}
	logger.L(ctx).Debug("set", "key", key, "value", value, "existed", existed)
	return prev, existed, nil
}

// Del removes key and returns its last value, or ErrKeyNotFound.
func (s *KVService) Del(ctx context.Context, key int64) (int64, error) {
	start := time.Now()
	v := s.table.Delete(key)
	if v == chainmap.NotFound {
		s.observe(metric.OpDel, metric.OutcomeMiss, start)
		return 0, domain.ErrKeyNotFound
	}
	s.observe(metric.OpDel, metric.OutcomeHit, start)
	logger.L(ctx).Debug("del", "key", key, "value", v)
	return v, nil
}

// Exists reports whether key is present.
func (s *KVService) Exists(_ context.Context, key int64) bool {
	_, ok := s.table.Lookup(key)
	return ok
}

// Size returns the number of live entries.
func (s *KVService) Size() int {
	return s.table.Len()
}

// Capacity returns the bucket count.
func (s *KVService) Capacity() int {
	return s.table.Cap()
}

// OpCount returns the lifetime operation counter.
func (s *KVService) OpCount() uint64 {
	return s.table.Ops()
}

// Stats returns per-bucket chain depths.
func (s *KVService) Stats() []chainmap.BucketStats {
	return s.table.Stats()
}

// Dump writes the diagnostic bucket rendering to w.
func (s *KVService) Dump(w io.Writer) error {
	return s.table.Dump(w)
}

// Close tears down the underlying table.
func (s *KVService) Close() {
	s.table.Close()
	s.log.Info("kv store closed")
}

func (s *KVService) observe(op, outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.OpsTotal.WithLabelValues(op, outcome).Inc()
	s.metrics.OpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// translate maps library errors onto the domain taxonomy.
func translate(err error) error {
	switch {
	case errors.Is(err, chainmap.ErrReservedValue):
		return domain.ErrReservedValue.WithCause(err)
	case errors.Is(err, chainmap.ErrClosed):
		return domain.ErrStoreClosed.WithCause(err)
	case errors.Is(err, chainmap.ErrInvalidCapacity):
		return domain.ErrInvalidCapacity.WithCause(err)
	default:
		return err
	}
}
