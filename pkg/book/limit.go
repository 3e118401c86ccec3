package book

import (
	"github.com/gammazero/deque"
)

// Limit is a single price level: resting orders in strict arrival
// order plus their aggregate remaining volume.
type Limit struct {
	price  int64
	volume int64
	orders deque.Deque[*Order]
}

func NewLimit(price int64) *Limit {
	return &Limit{price: price}
}

func (l *Limit) Price() int64 {
	return l.price
}

func (l *Limit) Volume() int64 {
	return l.volume
}

func (l *Limit) Len() int {
	return l.orders.Len()
}

func (l *Limit) Add(order *Order) {
	l.orders.PushBack(order)
	l.volume += order.SizeRemaining
}

// Remove detaches an order by id. Returns nil when absent; late or
// duplicate cancel messages are expected from the feed.
func (l *Limit) Remove(orderID string) *Order {
	at := l.orders.Index(func(o *Order) bool { return o.OrderID == orderID })
	if at < 0 {
		return nil
	}
	order := l.orders.Remove(at)
	l.volume -= order.SizeRemaining
	return order
}

// Reduce lowers a resting order's remaining size to newSize. A fully
// reduced order is detached from the queue.
func (l *Limit) Reduce(orderID string, newSize int64) (*Order, error) {
	at := l.orders.Index(func(o *Order) bool { return o.OrderID == orderID })
	if at < 0 {
		return nil, nil
	}

	order := l.orders.At(at)
	delta := order.SizeRemaining - newSize
	if err := order.Reduce(newSize); err != nil {
		return nil, err
	}
	l.volume -= delta

	if order.SizeRemaining <= 0 {
		l.orders.Remove(at)
	}
	return order, nil
}

// TakeLiquidity consumes resting orders front to back until the taker
// has no demand left at this price or the level is empty. The price
// charged is always this level's price. Returns every maker touched.
func (l *Limit) TakeLiquidity(taker Taker) []*Order {
	var makers []*Order

	for l.orders.Len() > 0 {
		demand := taker.RemainingAt(l.price)
		if demand <= 0 {
			break
		}

		maker := l.orders.Front()
		taken := maker.TakeSize(demand)
		taker.Fill(taken, l.price)
		l.volume -= taken
		makers = append(makers, maker)

		if maker.SizeRemaining <= 0 {
			l.orders.PopFront()
		}
	}

	return makers
}

func (l *Limit) Clear() {
	l.orders.Clear()
	l.volume = 0
}

// Each iterates resting orders in priority order.
func (l *Limit) Each(fn func(*Order)) {
	for i := 0; i < l.orders.Len(); i++ {
		fn(l.orders.At(i))
	}
}
