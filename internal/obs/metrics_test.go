package obs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tradereport/internal/schema"
)

func TestMetricsCounts(t *testing.T) {
	m := NewMetrics()
	m.ObserveApplied(schema.NewHeader(schema.EventOrderFilled, 1, 100, 400), 2*time.Microsecond)
	m.ObserveApplied(schema.NewHeader(schema.EventOrderFilled, 2, 0, 0), 4*time.Microsecond)
	m.ObserveApplied(schema.NewHeader(schema.EventPositionFill, 3, 0, 0), 6*time.Microsecond)
	m.IncRejected(schema.EventPositionFill)
	m.IncQueueDrop()

	s := m.Snapshot()
	assert.Equal(t, map[schema.EventType]uint64{schema.EventOrderFilled: 2, schema.EventPositionFill: 1}, s.Applied)
	assert.Equal(t, map[schema.EventType]uint64{schema.EventPositionFill: 1}, s.Rejected)
	assert.Equal(t, uint64(1), s.QueueDrops)

	assert.Equal(t, uint64(1), s.EventLatency.Count)
	assert.Equal(t, 300*time.Nanosecond, s.EventLatency.Max)

	assert.Equal(t, LatencySnapshot{
		Count: 3,
		Min:   2 * time.Microsecond,
		Max:   6 * time.Microsecond,
		Avg:   4 * time.Microsecond,
	}, s.ApplyLatency)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveApplied(schema.EventHeader{}, time.Second)
	m.IncRejected(schema.EventOrderFilled)
	m.IncQueueDrop()
	assert.Equal(t, Snapshot{}, m.Snapshot())
}
