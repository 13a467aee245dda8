package logger

import (
	"sync"
	"testing"
	"time"
)

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter(MetricCacheHitParsed)
	m.IncrCounter(MetricCacheHitParsed)
	m.IncrCounter(MetricCacheHitParsed)

	snapshot := m.GetSnapshot()
	counters := snapshot["counters"].(map[string]int64)

	if counters[MetricCacheHitParsed] != 3 {
		t.Errorf("Counter = %v, want 3", counters[MetricCacheHitParsed])
	}
}

func TestMetrics_Gauge(t *testing.T) {
	m := NewMetrics()

	m.SetGauge(MetricMatchesParsed, 4)
	m.SetGauge(MetricMatchesParsed, 7)

	snapshot := m.GetSnapshot()
	gauges := snapshot["gauges"].(map[string]float64)

	if gauges[MetricMatchesParsed] != 7 {
		t.Errorf("Gauge = %v, want 7", gauges[MetricMatchesParsed])
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming(MetricUpstreamFetch, 100*time.Millisecond)
	m.RecordTiming(MetricUpstreamFetch, 200*time.Millisecond)
	m.RecordTiming(MetricUpstreamFetch, 150*time.Millisecond)

	snapshot := m.GetSnapshot()
	timings := snapshot["timings"].(map[string]map[string]interface{})

	fetch := timings[MetricUpstreamFetch]
	if fetch["count"].(int) != 3 {
		t.Errorf("Timing count = %v, want 3", fetch["count"])
	}
	if fetch["min"].(string) != "100ms" {
		t.Errorf("Min timing = %v, want 100ms", fetch["min"])
	}
	if fetch["max"].(string) != "200ms" {
		t.Errorf("Max timing = %v, want 200ms", fetch["max"])
	}
	if fetch["average"].(string) != "150ms" {
		t.Errorf("Average timing = %v, want 150ms", fetch["average"])
	}
}

func TestMetrics_SnapshotIsCopy(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter(MetricHTTPRequests)

	snapshot := m.GetSnapshot()
	m.IncrCounter(MetricHTTPRequests)

	counters := snapshot["counters"].(map[string]int64)
	if counters[MetricHTTPRequests] != 1 {
		t.Errorf("snapshot changed after update: %v", counters[MetricHTTPRequests])
	}
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncrCounter(MetricHTTPRequests)
			m.RecordTiming(MetricHTTPRequest, time.Millisecond)
		}()
	}
	wg.Wait()

	counters := m.GetSnapshot()["counters"].(map[string]int64)
	if counters[MetricHTTPRequests] != 50 {
		t.Errorf("Counter = %v, want 50", counters[MetricHTTPRequests])
	}
}

func TestPackageLevelMetrics(t *testing.T) {
	IncrCounter("test")
	SetGauge("test", 42.0)
	RecordTiming("test", time.Second)

	snapshot := GetMetricsSnapshot()
	if snapshot == nil {
		t.Fatal("GetMetricsSnapshot() returned nil")
	}
	if snapshot["counters"].(map[string]int64)["test"] < 1 {
		t.Error("package-level counter not recorded")
	}
}
