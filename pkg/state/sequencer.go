package state

// Disposition is the sequencer's verdict on an incoming feed event.
type Disposition int

const (
	// DispositionApply means the event is next in sequence.
	DispositionApply Disposition = iota
	// DispositionDrop means the event is a duplicate or arrived
	// before the current cutoff and is already represented.
	DispositionDrop
	// DispositionGap means at least one event was lost. The book can
	// no longer be trusted and must be rebuilt.
	DispositionGap
)

// Sequencer validates that feed sequence numbers advance one at a
// time. Any forward gap is a rebuild trigger; there is no tolerance
// window.
type Sequencer struct {
	next    uint64
	started bool
}

func NewSequencer() *Sequencer {
	return &Sequencer{}
}

func (s *Sequencer) Observe(seq uint64) Disposition {
	if !s.started {
		s.started = true
		s.next = seq + 1
		return DispositionApply
	}

	switch {
	case seq < s.next:
		return DispositionDrop
	case seq == s.next:
		s.next++
		return DispositionApply
	default:
		return DispositionGap
	}
}

// Reset forgets the stream position. Used on rebuild entry.
func (s *Sequencer) Reset() {
	s.started = false
	s.next = 0
}

// Restart re-anchors the stream at seq, accepting it as in sequence.
// Used when leaving a rebuild: the snapshot supersedes everything at
// or below its cutoff.
func (s *Sequencer) Restart(seq uint64) {
	s.started = true
	s.next = seq + 1
}
