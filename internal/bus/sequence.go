package bus

import "sync/atomic"

// Sequencer hands out monotonically increasing event sequence numbers.
type Sequencer struct {
	next uint64
}

// NewSequencer returns a sequencer whose first Next is last+1.
func NewSequencer(last uint64) *Sequencer {
	return &Sequencer{next: last}
}

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 {
	if s == nil {
		return 0
	}
	return atomic.AddUint64(&s.next, 1)
}

// Last returns the most recently issued sequence number.
func (s *Sequencer) Last() uint64 {
	if s == nil {
		return 0
	}
	return atomic.LoadUint64(&s.next)
}

// Observe raises the sequence to seq if it is behind, so later Next calls
// never reissue an observed number.
func (s *Sequencer) Observe(seq uint64) {
	if s == nil {
		return
	}
	for {
		last := atomic.LoadUint64(&s.next)
		if seq <= last || atomic.CompareAndSwapUint64(&s.next, last, seq) {
			return
		}
	}
}
