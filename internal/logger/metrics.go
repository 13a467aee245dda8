package logger

import (
	"sync"
	"time"
)

// Metric names recorded by the service
const (
	MetricHTTPRequests    = "http.requests"
	MetricHTTPRequest     = "http.request"
	MetricHTTPErrors      = "http.errors"
	MetricUpstreamFetch   = "upstream.fetch"
	MetricUpstreamError   = "upstream.error"
	MetricCacheHitRaw     = "cache.hit.raw"
	MetricCacheMissRaw    = "cache.miss.raw"
	MetricCacheHitParsed  = "cache.hit.parsed"
	MetricCacheMissParsed = "cache.miss.parsed"
	MetricMatchesParsed   = "matches.parsed"
)

// Metrics tracks operational metrics including counters, gauges, and timings.
// All operations are thread-safe.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	gauges   map[string]float64
	timings  map[string]*timingStats
}

// timingStats aggregates durations as they arrive so a long-running server
// does not keep every sample
type timingStats struct {
	count int
	total time.Duration
	min   time.Duration
	max   time.Duration
}

var defaultMetrics *Metrics

func init() {
	defaultMetrics = NewMetrics()
}

// NewMetrics creates a new metrics tracker with empty counters, gauges, and timings.
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
		timings:  make(map[string]*timingStats),
	}
}

// IncrCounter increments a counter by 1
func (m *Metrics) IncrCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// SetGauge sets a gauge to the specified value, overwriting any previous value
func (m *Metrics) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = value
}

// RecordTiming records a duration measurement
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ts, ok := m.timings[name]
	if !ok {
		m.timings[name] = &timingStats{count: 1, total: duration, min: duration, max: duration}
		return
	}

	ts.count++
	ts.total += duration
	if duration < ts.min {
		ts.min = duration
	}
	if duration > ts.max {
		ts.max = duration
	}
}

// GetSnapshot returns a snapshot of all metrics as a map containing:
//   - "counters": map of counter names to values
//   - "gauges": map of gauge names to values
//   - "timings": map of timing names to statistics (count, total, average, min, max)
//
// The snapshot is a deep copy, safe to use concurrently with metric updates.
func (m *Metrics) GetSnapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	counters := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		counters[k] = v
	}

	gauges := make(map[string]float64, len(m.gauges))
	for k, v := range m.gauges {
		gauges[k] = v
	}

	timings := make(map[string]map[string]interface{}, len(m.timings))
	for name, ts := range m.timings {
		timings[name] = map[string]interface{}{
			"count":   ts.count,
			"total":   ts.total.String(),
			"average": (ts.total / time.Duration(ts.count)).String(),
			"min":     ts.min.String(),
			"max":     ts.max.String(),
		}
	}

	return map[string]interface{}{
		"counters": counters,
		"gauges":   gauges,
		"timings":  timings,
	}
}

// IncrCounter increments a counter on the default metrics tracker
func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

// SetGauge sets a gauge on the default metrics tracker
func SetGauge(name string, value float64) {
	defaultMetrics.SetGauge(name, value)
}

// RecordTiming records a timing on the default metrics tracker
func RecordTiming(name string, duration time.Duration) {
	defaultMetrics.RecordTiming(name, duration)
}

// GetMetricsSnapshot returns a snapshot of all metrics from the default tracker
func GetMetricsSnapshot() map[string]interface{} {
	return defaultMetrics.GetSnapshot()
}
