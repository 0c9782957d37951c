// internal/metrics/aggregator.go
// Package metrics aggregates latency and outcome of backend requests.
package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/mwiater/predictdash/internal/logging"
)

// Aggregator collects request metrics per endpoint. It is safe for concurrent use.
type Aggregator struct {
	mutex     sync.Mutex
	endpoints map[string]*EndpointMetrics
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{endpoints: make(map[string]*EndpointMetrics)}
}

// Record adds one request to the metrics of endpoint. status is 0 when no
// response was received; failed marks transport errors and non-2xx answers.
func (a *Aggregator) Record(endpoint string, status int, elapsed time.Duration, failed bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	m, exists := a.endpoints[endpoint]
	if !exists {
		m = &EndpointMetrics{Endpoint: endpoint}
		a.endpoints[endpoint] = m
	}

	m.Requests++
	if failed {
		m.Failures++
	}
	m.LastStatus = status
	m.LastUpdatedUTC = time.Now().UTC()
	updateRunningStat(&m.LatencyMillis, float64(elapsed)/float64(time.Millisecond))
}

// MarkFailed counts the last recorded request of endpoint as failed. It is
// used when a response arrived but could not be used.
func (a *Aggregator) MarkFailed(endpoint string) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if m, ok := a.endpoints[endpoint]; ok && m.Failures < m.Requests {
		m.Failures++
	}
}

// Endpoint returns a copy of the metrics recorded for endpoint.
func (a *Aggregator) Endpoint(endpoint string) (EndpointMetrics, bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	m, ok := a.endpoints[endpoint]
	if !ok {
		return EndpointMetrics{}, false
	}
	return *m, true
}

// Snapshot returns a copy of every endpoint's metrics ordered by endpoint.
func (a *Aggregator) Snapshot() []EndpointMetrics {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	out := make([]EndpointMetrics, 0, len(a.endpoints))
	for _, m := range a.endpoints {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out
}

// LogSummary writes one line per endpoint to the application log.
func (a *Aggregator) LogSummary() {
	for _, m := range a.Snapshot() {
		logging.LogEvent("[METRICS] %s requests=%d failures=%d latency_ms mean=%.1f min=%.1f max=%.1f stddev=%.1f",
			m.Endpoint, m.Requests, m.Failures,
			m.LatencyMillis.Mean, m.LatencyMillis.Min, m.LatencyMillis.Max, m.LatencyMillis.StdDev())
	}
}

// updateRunningStat updates a single running statistic using Welford's online algorithm.
func updateRunningStat(rs *RunningStat, value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}
