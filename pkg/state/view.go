package state

import (
	"github.com/joripage/bookfeed/pkg/book"
	"github.com/joripage/bookfeed/pkg/feed"
)

// LevelQuote is one price level in a read view.
type LevelQuote struct {
	Price  int64 `json:"price"`
	Volume int64 `json:"volume"`
}

// View is an immutable snapshot of book state after one accepted
// event. Observers and computations read it instead of holding live
// references into the book.
type View struct {
	Event *feed.Event

	Bids []LevelQuote
	Asks []LevelQuote

	TakeSide   book.Side
	TakeSize   int64
	TakeValue  int64
	TakeMakers int
	hasTake    bool
}

func newView(ev *feed.Event, lob *book.LimitOrderBook, result *book.TakeResult, depth int) *View {
	v := &View{Event: ev}

	for _, limit := range lob.Bids().BestLimits(depth) {
		v.Bids = append(v.Bids, LevelQuote{Price: limit.Price(), Volume: limit.Volume()})
	}
	for _, limit := range lob.Asks().BestLimits(depth) {
		v.Asks = append(v.Asks, LevelQuote{Price: limit.Price(), Volume: limit.Volume()})
	}

	if result != nil && result.TakeSize > 0 {
		v.hasTake = true
		v.TakeSide = result.Taker.TakerSide()
		v.TakeSize = result.TakeSize
		v.TakeValue = result.TakeValue
		v.TakeMakers = len(result.Makers)
	}

	return v
}

func (v *View) BestBid() (price, volume int64, ok bool) {
	if len(v.Bids) == 0 {
		return 0, 0, false
	}
	return v.Bids[0].Price, v.Bids[0].Volume, true
}

func (v *View) BestAsk() (price, volume int64, ok bool) {
	if len(v.Asks) == 0 {
		return 0, 0, false
	}
	return v.Asks[0].Price, v.Asks[0].Volume, true
}

func (v *View) LastTake() (side book.Side, takeSize, takeValue int64, ok bool) {
	return v.TakeSide, v.TakeSize, v.TakeValue, v.hasTake
}

func (v *View) Nanos() int64 {
	return v.Event.Nanos
}
