package compute

// Spread is best ask price minus best bid price. Unavailable while
// either side of the book is empty.
type Spread struct {
	result    int64
	available bool

	// optional observer, fired after each evaluation
	onResult func(int64)
}

func NewSpread() *Spread {
	return &Spread{}
}

func (s *Spread) Observe(fn func(int64)) {
	s.onResult = fn
}

func (s *Spread) OnStateChange(state BookState) {
	bid, _, bidOK := state.BestBid()
	ask, _, askOK := state.BestAsk()

	if !bidOK || !askOK {
		s.available = false
		return
	}

	s.result = ask - bid
	s.available = true
	if s.onResult != nil {
		s.onResult(s.result)
	}
}

func (s *Spread) OnStateReset() {
	s.result = 0
	s.available = false
}

func (s *Spread) Result() (int64, bool) {
	return s.result, s.available
}
