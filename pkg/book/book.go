package book

// TakeResult aggregates every maker touched while a taker swept the
// book, across all levels consumed.
type TakeResult struct {
	Taker     Taker
	Makers    []*Order
	TakeSize  int64
	TakeValue int64
}

// LimitOrderBook holds both sides of a single instrument's book and
// owns the cross-matching algorithm.
type LimitOrderBook struct {
	bids *LimitQueue
	asks *LimitQueue
}

func NewLimitOrderBook() *LimitOrderBook {
	return &LimitOrderBook{
		bids: NewLimitQueue(Bid),
		asks: NewLimitQueue(Ask),
	}
}

func (b *LimitOrderBook) Bids() *LimitQueue {
	return b.bids
}

func (b *LimitOrderBook) Asks() *LimitQueue {
	return b.asks
}

// Add sweeps the opposite side until the taker is satisfied or no
// takeable limit remains. A limit taker's residual demand is rested on
// its own side; market takers never rest.
func (b *LimitOrderBook) Add(taker Taker) TakeResult {
	result := TakeResult{Taker: taker}
	opposite := b.sideQueue(taker.TakerSide().Opposite())

	for {
		makers := opposite.TakeLiquidityFromBestLimit(taker)
		if len(makers) == 0 {
			break
		}
		for _, maker := range makers {
			result.Makers = append(result.Makers, maker)
			result.TakeSize += maker.ValueRemoved / maker.Price
			result.TakeValue += maker.ValueRemoved
		}
	}

	if order, ok := taker.(*Order); ok && order.SizeRemaining > 0 {
		// the residual rests as a maker; value it removed while taking
		// must not count toward a later sweep that consumes it
		order.ClearValueRemoved()
		b.sideQueue(order.Side).AddOrder(order)
	}

	return result
}

func (b *LimitOrderBook) RemoveOrder(side Side, price int64, orderID string) *Order {
	return b.sideQueue(side).RemoveOrder(price, orderID)
}

func (b *LimitOrderBook) ReduceOrder(side Side, price int64, orderID string, newSize int64) (*Order, error) {
	return b.sideQueue(side).ReduceOrder(price, orderID, newSize)
}

func (b *LimitOrderBook) Clear() {
	b.bids.Clear()
	b.asks.Clear()
}

func (b *LimitOrderBook) sideQueue(side Side) *LimitQueue {
	if side == Bid {
		return b.bids
	}
	return b.asks
}
