package compute

import (
	"time"

	"github.com/gammazero/deque"
)

type sample struct {
	nanos int64
	value int64
}

// Summing keeps a rolling sum of a child metric over a time window.
// Samples arrive with monotonic feed timestamps, so eviction from the
// front is amortized O(1) per evaluation.
type Summing struct {
	child  Computation
	window time.Duration

	samples   deque.Deque[sample]
	sum       int64
	available bool
}

func NewSumming(child Computation, window time.Duration) *Summing {
	return &Summing{
		child:  child,
		window: window,
	}
}

func (s *Summing) OnStateChange(state BookState) {
	s.child.OnStateChange(state)

	value, ok := s.child.Result()
	if !ok {
		return
	}

	now := state.Nanos()
	s.samples.PushBack(sample{nanos: now, value: value})
	s.sum += value
	s.available = true

	horizon := now - s.window.Nanoseconds()
	for s.samples.Len() > 0 && s.samples.Front().nanos < horizon {
		s.sum -= s.samples.PopFront().value
	}
}

// OnStateReset drops all buffered history, not just the cached sum.
// Windowed samples surviving a rebuild would corrupt later results.
func (s *Summing) OnStateReset() {
	s.child.OnStateReset()
	s.samples.Clear()
	s.sum = 0
	s.available = false
}

func (s *Summing) Result() (int64, bool) {
	return s.sum, s.available
}
