// Package metric provides Prometheus metrics for GridMap.
//
// It exposes operation counters and latencies for the key-value surface
// plus a custom collector that reads live table statistics (entry count,
// capacity, lifetime operation count, bucket chain depth) straight from
// the map on every scrape.
package metric
