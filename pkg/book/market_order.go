package book

// noValue marks an absent size or funds constraint on a market order.
const noValue int64 = -1

// MarketOrder aggresses with a base-asset size budget, a quote-asset
// funds budget, or both. Funds are value-scaled (price scale x size
// scale) so that funds divided by price yields a size.
type MarketOrder struct {
	Order

	Funds          int64
	FundsRemaining int64
	VolumeRemoved  int64
}

func NewMarketOrder(serial int64, orderID string, side Side, size, funds int64) *MarketOrder {
	m := &MarketOrder{Order: Order{serial: serial}}
	m.initMarket(orderID, side, size, funds)
	return m
}

func (m *MarketOrder) initMarket(orderID string, side Side, size, funds int64) {
	m.init(orderID, side, noValue, size)
	if size < 0 {
		m.Size = noValue
		m.SizeRemaining = noValue
	}
	m.Funds = funds
	m.FundsRemaining = funds
	m.VolumeRemoved = 0
}

func NewMarketOrderWithSize(serial int64, orderID string, side Side, size int64) *MarketOrder {
	return NewMarketOrder(serial, orderID, side, size, noValue)
}

func NewMarketOrderWithFunds(serial int64, orderID string, side Side, funds int64) *MarketOrder {
	return NewMarketOrder(serial, orderID, side, noValue, funds)
}

// SizeRemainingFor reports how much can still be taken at the given
// price under whichever of the size and funds constraints bind.
func (m *MarketOrder) SizeRemainingFor(price int64) int64 {
	sized := m.Size >= 0
	funded := m.Funds >= 0

	switch {
	case sized && funded:
		return min(m.SizeRemaining, m.FundsRemaining/price)
	case funded:
		return m.FundsRemaining / price
	default:
		return m.SizeRemaining
	}
}

// Subtract consumes size filled at price against both budgets.
func (m *MarketOrder) Subtract(size, price int64) {
	if m.Size >= 0 {
		m.SizeRemaining -= size
	}
	if m.Funds >= 0 {
		m.FundsRemaining -= size * price
	}
	m.VolumeRemoved += size
}

func (m *MarketOrder) ClearVolumeRemoved() {
	m.VolumeRemoved = 0
}

func (m *MarketOrder) RemainingAt(price int64) int64 {
	return m.SizeRemainingFor(price)
}

func (m *MarketOrder) Crosses(int64) bool {
	return true
}

func (m *MarketOrder) Fill(size, price int64) {
	m.Subtract(size, price)
}
