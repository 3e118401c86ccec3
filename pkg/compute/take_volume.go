package compute

import (
	"github.com/joripage/bookfeed/pkg/book"
)

// TakeVolume reports the size taken on a configured side by the
// current event's match, zero when the event matched nothing.
type TakeVolume struct {
	side      book.Side
	result    int64
	available bool
}

func NewTakeVolume(side book.Side) *TakeVolume {
	return &TakeVolume{side: side}
}

func (t *TakeVolume) OnStateChange(state BookState) {
	t.result = 0
	t.available = true

	side, takeSize, _, ok := state.LastTake()
	if ok && side == t.side {
		t.result = takeSize
	}
}

func (t *TakeVolume) OnStateReset() {
	t.result = 0
	t.available = false
}

func (t *TakeVolume) Result() (int64, bool) {
	return t.result, t.available
}
