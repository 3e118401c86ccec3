package book

import "fmt"

// DuplicatePolicy decides what Take does when the order id is already
// checked out.
type DuplicatePolicy string

const (
	// DuplicateReject fails the take and leaves the live order alone.
	DuplicateReject DuplicatePolicy = "reject"
	// DuplicateOverwrite releases the live order and checks out a
	// fresh one under the same id.
	DuplicateOverwrite DuplicatePolicy = "overwrite"
)

type PoolConfig struct {
	InitialCapacity int             `yaml:"initial_capacity"`
	DuplicatePolicy DuplicatePolicy `yaml:"duplicate_policy"`
}

// OrderPool is the sole long-lived owner of Order storage. Everything
// else borrows orders between Take and ReturnOrder. Serial numbers
// assigned at check-out give equal-price FIFO ordering its identity.
type OrderPool struct {
	free   []*Order
	live   map[string]*Order
	serial int64
	policy DuplicatePolicy

	// market orders never rest, so their pool is small and separate
	freeMarket []*MarketOrder
	liveMarket map[string]*MarketOrder
}

func NewOrderPool(cfg *PoolConfig) *OrderPool {
	capacity := 0
	policy := DuplicateReject
	if cfg != nil {
		capacity = cfg.InitialCapacity
		if cfg.DuplicatePolicy != "" {
			policy = cfg.DuplicatePolicy
		}
	}

	pool := &OrderPool{
		free:       make([]*Order, 0, capacity),
		live:       make(map[string]*Order, capacity),
		policy:     policy,
		liveMarket: make(map[string]*MarketOrder),
	}
	for i := 0; i < capacity; i++ {
		pool.free = append(pool.free, &Order{})
	}
	return pool
}

// Take checks out an order, reusing a free slot when one exists. There
// is never more than one live order per id.
func (p *OrderPool) Take(orderID string, side Side, price, size int64) (*Order, error) {
	if prev, ok := p.live[orderID]; ok {
		if p.policy == DuplicateReject {
			return nil, ErrDuplicateOrderID
		}
		p.release(prev)
	}

	order := p.checkout()
	order.init(orderID, side, price, size)
	p.live[orderID] = order
	return order, nil
}

// ReturnOrder releases an order for reuse. Returning an order that is
// not checked out is a programming error and panics.
func (p *OrderPool) ReturnOrder(order *Order) {
	live, ok := p.live[order.OrderID]
	if !ok || live != order {
		panic(fmt.Sprintf("order pool: double return of order %s", order.OrderID))
	}
	delete(p.live, order.OrderID)
	p.release(order)
}

// TakeMarket checks out a market order. Size and funds may each be
// Sentinel (-1) when the feed omits that budget, never both.
func (p *OrderPool) TakeMarket(orderID string, side Side, size, funds int64) (*MarketOrder, error) {
	if prev, ok := p.liveMarket[orderID]; ok {
		if p.policy == DuplicateReject {
			return nil, ErrDuplicateOrderID
		}
		p.releaseMarket(prev)
	}

	order := p.checkoutMarket()
	order.initMarket(orderID, side, size, funds)
	p.liveMarket[orderID] = order
	return order, nil
}

// ReturnMarketOrder releases a market order for reuse. Panics on a
// double return, like ReturnOrder.
func (p *OrderPool) ReturnMarketOrder(order *MarketOrder) {
	live, ok := p.liveMarket[order.OrderID]
	if !ok || live != order {
		panic(fmt.Sprintf("order pool: double return of market order %s", order.OrderID))
	}
	delete(p.liveMarket, order.OrderID)
	p.releaseMarket(order)
}

// MarketOrderFor returns the live market order for an id, nil when
// none is checked out.
func (p *OrderPool) MarketOrderFor(orderID string) *MarketOrder {
	return p.liveMarket[orderID]
}

// ReturnAll drains every checked-out order. Used only on rebuild; cost
// is bounded by the checked-out count.
func (p *OrderPool) ReturnAll() {
	for id, order := range p.live {
		delete(p.live, id)
		p.release(order)
	}
	for id, order := range p.liveMarket {
		delete(p.liveMarket, id)
		p.releaseMarket(order)
	}
}

// LiveCount reports how many limit orders are currently checked out.
func (p *OrderPool) LiveCount() int {
	return len(p.live)
}

// LiveMarketCount reports how many market orders are checked out.
func (p *OrderPool) LiveMarketCount() int {
	return len(p.liveMarket)
}

func (p *OrderPool) checkout() *Order {
	p.serial++
	n := len(p.free)
	if n == 0 {
		return &Order{serial: p.serial}
	}

	order := p.free[n-1]
	p.free = p.free[:n-1]
	order.serial = p.serial
	return order
}

func (p *OrderPool) release(order *Order) {
	order.init("", "", 0, 0)
	p.free = append(p.free, order)
}

func (p *OrderPool) checkoutMarket() *MarketOrder {
	p.serial++
	n := len(p.freeMarket)
	if n == 0 {
		return &MarketOrder{Order: Order{serial: p.serial}}
	}

	order := p.freeMarket[n-1]
	p.freeMarket = p.freeMarket[:n-1]
	order.serial = p.serial
	return order
}

func (p *OrderPool) releaseMarket(order *MarketOrder) {
	order.initMarket("", "", noValue, noValue)
	p.freeMarket = append(p.freeMarket, order)
}
