package obs

import (
	"sync/atomic"
	"time"

	"tradereport/internal/schema"
)

const maxEventType = int(schema.MaxEventType)

// Metrics collects lightweight counters and latency stats for the ledger.
type Metrics struct {
	applied    [maxEventType + 1]uint64
	rejected   [maxEventType + 1]uint64
	queueDrops uint64

	eventLatency LatencyStats
	applyLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	Applied      map[schema.EventType]uint64
	Rejected     map[schema.EventType]uint64
	QueueDrops   uint64
	EventLatency LatencySnapshot
	ApplyLatency LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveApplied counts an accepted event and tracks its receive latency when
// both timestamps are present.
func (m *Metrics) ObserveApplied(header schema.EventHeader, took time.Duration) {
	if m == nil {
		return
	}
	if idx := int(header.Type); idx >= 0 && idx < len(m.applied) {
		atomic.AddUint64(&m.applied[idx], 1)
	}
	if header.TsEvent > 0 && header.TsRecv > 0 {
		if delta := header.TsRecv - header.TsEvent; delta >= 0 {
			m.eventLatency.Observe(time.Duration(delta))
		}
	}
	m.applyLatency.Observe(took)
}

// IncRejected counts an event the aggregates refused.
func (m *Metrics) IncRejected(eventType schema.EventType) {
	if m == nil {
		return
	}
	if idx := int(eventType); idx >= 0 && idx < len(m.rejected) {
		atomic.AddUint64(&m.rejected[idx], 1)
	}
}

// IncQueueDrop records a queue drop.
func (m *Metrics) IncQueueDrop() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.queueDrops, 1)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		Applied:      loadCounts(m.applied[:]),
		Rejected:     loadCounts(m.rejected[:]),
		QueueDrops:   atomic.LoadUint64(&m.queueDrops),
		EventLatency: m.eventLatency.Snapshot(),
		ApplyLatency: m.applyLatency.Snapshot(),
	}
}

func loadCounts(counters []uint64) map[schema.EventType]uint64 {
	counts := make(map[schema.EventType]uint64)
	for i := range counters {
		if v := atomic.LoadUint64(&counters[i]); v > 0 {
			counts[schema.EventType(i)] = v
		}
	}
	return counts
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(atomic.LoadUint64(&l.min)),
		Max:   time.Duration(atomic.LoadUint64(&l.max)),
		Avg:   time.Duration(sum / count),
	}
}
