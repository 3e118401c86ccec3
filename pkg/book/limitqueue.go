package book

import (
	"container/heap"
)

// LimitQueue is one side of the book: price-indexed limits kept in
// priority order. Asks sort lowest price first, bids highest first.
type LimitQueue struct {
	side   Side
	limits map[int64]*Limit
	queue  *PriceHeap
}

func NewLimitQueue(side Side) *LimitQueue {
	var less func(i, j int64) bool
	if side == Ask {
		less = func(i, j int64) bool { return i < j }
	} else {
		less = func(i, j int64) bool { return i > j }
	}

	return &LimitQueue{
		side:   side,
		limits: make(map[int64]*Limit),
		queue:  NewPriceHeap(less),
	}
}

func (q *LimitQueue) Side() Side {
	return q.side
}

// Peek returns the best limit, nil when the side is empty.
func (q *LimitQueue) Peek() *Limit {
	price, ok := q.queue.Peek()
	if !ok {
		return nil
	}
	return q.limits[price]
}

func (q *LimitQueue) AddOrder(order *Order) {
	limit, ok := q.limits[order.Price]
	if !ok {
		limit = NewLimit(order.Price)
		q.limits[order.Price] = limit
		heap.Push(q.queue, order.Price)
	}
	limit.Add(order)
}

func (q *LimitQueue) RemoveOrder(price int64, orderID string) *Order {
	limit, ok := q.limits[price]
	if !ok {
		return nil
	}

	order := limit.Remove(orderID)
	if order != nil && limit.Volume() <= 0 {
		q.removeLimit(price)
	}
	return order
}

func (q *LimitQueue) ReduceOrder(price int64, orderID string, newSize int64) (*Order, error) {
	limit, ok := q.limits[price]
	if !ok {
		return nil, nil
	}

	order, err := limit.Reduce(orderID, newSize)
	if err != nil {
		return nil, err
	}
	if order != nil && limit.Volume() <= 0 {
		q.removeLimit(price)
	}
	return order, nil
}

// TakeLiquidityFromBestLimit sweeps only the current best limit. The
// book achieves multi-level sweeps by calling this repeatedly.
func (q *LimitQueue) TakeLiquidityFromBestLimit(taker Taker) []*Order {
	maker := q.Peek()
	if maker == nil || !taker.Crosses(maker.Price()) {
		return nil
	}

	makers := maker.TakeLiquidity(taker)
	if maker.Volume() <= 0 {
		q.removeLimit(maker.Price())
	}
	return makers
}

// Volume is the remaining size summed across all levels.
func (q *LimitQueue) Volume() int64 {
	var sum int64
	for _, limit := range q.limits {
		sum += limit.Volume()
	}
	return sum
}

func (q *LimitQueue) Len() int {
	return len(q.limits)
}

func (q *LimitQueue) HasPrice(price int64) bool {
	_, inIndex := q.limits[price]
	return inIndex && q.queue.Contains(price)
}

// BestLimits returns up to n limits in priority order.
func (q *LimitQueue) BestLimits(n int) []*Limit {
	prices := q.queue.Sorted(n)
	limits := make([]*Limit, 0, len(prices))
	for _, price := range prices {
		limits = append(limits, q.limits[price])
	}
	return limits
}

func (q *LimitQueue) Clear() {
	for price, limit := range q.limits {
		limit.Clear()
		delete(q.limits, price)
	}
	q.queue.Reset()
}

func (q *LimitQueue) removeLimit(price int64) {
	delete(q.limits, price)
	for i, p := range q.queue.prices {
		if p == price {
			heap.Remove(q.queue, i)
			break
		}
	}
}
