package book

// Prices and sizes are fixed-point scaled int64 throughout. Values
// (price x size products) carry the combined scale.

type Side string

const (
	Bid Side = "BID"
	Ask Side = "ASK"
)

func (s Side) Opposite() Side {
	if s == Bid {
		return Ask
	}
	return Bid
}

// Taker is an aggressing intent consuming resting liquidity. Both
// limit orders and market orders implement it.
type Taker interface {
	TakerID() string
	TakerSide() Side

	// RemainingAt reports how much base-asset demand remains at a
	// candidate fill price. For limit takers this is independent of
	// price; for funds-constrained market takers it is not.
	RemainingAt(price int64) int64

	// Crosses reports whether the taker is willing to trade at the
	// given maker price.
	Crosses(makerPrice int64) bool

	// Fill consumes size at the maker's price.
	Fill(size, price int64)
}

type Order struct {
	serial int64

	OrderID       string
	Side          Side
	Price         int64
	Size          int64
	SizeRemaining int64
	ValueRemoved  int64
}

func NewOrder(serial int64, orderID string, side Side, price, size int64) *Order {
	o := &Order{serial: serial}
	o.init(orderID, side, price, size)
	return o
}

func (o *Order) init(orderID string, side Side, price, size int64) {
	o.OrderID = orderID
	o.Side = side
	o.Price = price
	o.Size = size
	o.SizeRemaining = size
	o.ValueRemoved = 0
}

// Serial is the arrival sequence assigned at pool check-out. Equal-price
// FIFO ordering is by serial, never by order id.
func (o *Order) Serial() int64 {
	return o.serial
}

// TakeSize consumes up to size from the order at its own price and
// returns the amount actually taken.
func (o *Order) TakeSize(size int64) int64 {
	taken := min(size, o.SizeRemaining)
	o.SizeRemaining -= taken
	o.ValueRemoved += o.Price * taken
	return taken
}

// Reduce lowers the remaining size to newSize. Feed-informed cancels
// may only shrink an order.
func (o *Order) Reduce(newSize int64) error {
	if newSize < 0 || newSize > o.SizeRemaining {
		return ErrInvalidReduction
	}
	o.SizeRemaining = newSize
	return nil
}

func (o *Order) ClearValueRemoved() {
	o.ValueRemoved = 0
}

func (o *Order) TakerID() string {
	return o.OrderID
}

func (o *Order) TakerSide() Side {
	return o.Side
}

func (o *Order) RemainingAt(int64) int64 {
	return o.SizeRemaining
}

func (o *Order) Crosses(makerPrice int64) bool {
	if o.Side == Bid {
		return makerPrice <= o.Price
	}
	return makerPrice >= o.Price
}

func (o *Order) Fill(size, price int64) {
	o.SizeRemaining -= size
	o.ValueRemoved += price * size
}
