// Package metric provides Prometheus metrics for GridMap.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/gridmap-go/pkg/chainmap"
)

// StatsSource is the view of the table the collector scrapes.
// *chainmap.Map satisfies it.
type StatsSource interface {
	Len() int
	Cap() int
	Ops() uint64
	Stats() []chainmap.BucketStats
}

// TableCollector collects live table statistics on every scrape.
type TableCollector struct {
	source StatsSource

	entries   *prometheus.Desc
	capacity  *prometheus.Desc
	opsTotal  *prometheus.Desc
	depthMax  *prometheus.Desc
	depthMean *prometheus.Desc
}

// NewTableCollector creates a collector over the given table.
func NewTableCollector(source StatsSource) *TableCollector {
	return &TableCollector{
		source: source,
		entries: prometheus.NewDesc(
			"gridmap_entries",
			"Live entries in the table.",
			nil, nil),
		capacity: prometheus.NewDesc(
			"gridmap_capacity",
			"Bucket count fixed at construction.",
			nil, nil),
		opsTotal: prometheus.NewDesc(
			"gridmap_lifetime_ops_total",
			"Lifetime get/put/delete calls, misses included.",
			nil, nil),
		depthMax: prometheus.NewDesc(
			"gridmap_bucket_depth_max",
			"Deepest bucket chain.",
			nil, nil),
		depthMean: prometheus.NewDesc(
			"gridmap_bucket_depth_mean",
			"Mean bucket chain depth.",
			nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *TableCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.capacity
	ch <- c.opsTotal
	ch <- c.depthMax
	ch <- c.depthMean
}

// Collect implements prometheus.Collector.
func (c *TableCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.source.Len()))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(c.source.Cap()))
	ch <- prometheus.MustNewConstMetric(c.opsTotal, prometheus.CounterValue, float64(c.source.Ops()))

	stats := c.source.Stats()
	max, total := 0, 0
	for _, s := range stats {
		total += s.Depth
		if s.Depth > max {
			max = s.Depth
		}
	}
	mean := 0.0
	if len(stats) > 0 {
		mean = float64(total) / float64(len(stats))
	}
	ch <- prometheus.MustNewConstMetric(c.depthMax, prometheus.GaugeValue, float64(max))
	ch <- prometheus.MustNewConstMetric(c.depthMean, prometheus.GaugeValue, mean)
}
