package feed

import (
	"github.com/joripage/bookfeed/pkg/book"
)

// Sentinel marks a numeric field that is absent, inapplicable for the
// event kind, or failed to parse. Callers must check for it before
// constructing orders.
const Sentinel int64 = -1

type Kind string

const (
	LimitRx      Kind = "LIMIT_RX"
	MarketRx     Kind = "MARKET_RX"
	LimitOpen    Kind = "LIMIT_OPEN"
	LimitDone    Kind = "LIMIT_DONE"
	MarketDone   Kind = "MARKET_DONE"
	Match        Kind = "MATCH"
	LimitChange  Kind = "LIMIT_CHANGE"
	MarketChange Kind = "MARKET_CHANGE"
	RebuildStart Kind = "REBUILD_START"
	RebuildEnd   Kind = "REBUILD_END"
)

// Event is one parsed market-data message. Kind decides which fields
// are meaningful; the rest hold Sentinel or empty strings.
type Event struct {
	Nanos    int64
	Sequence uint64
	Kind     Kind

	OrderID  string
	Side     book.Side
	Price    int64
	Size     int64
	Funds    int64
	MakerID  string
	TakerID  string
	OldSize  int64
	NewSize  int64
	OldFunds int64
	NewFunds int64

	// Synthetic events are generated locally (snapshot replay) and
	// bypass sequence validation.
	Synthetic bool
}

func newEvent(nanos int64, seq uint64, kind Kind) *Event {
	return &Event{
		Nanos:    nanos,
		Sequence: seq,
		Kind:     kind,
		Price:    Sentinel,
		Size:     Sentinel,
		Funds:    Sentinel,
		OldSize:  Sentinel,
		NewSize:  Sentinel,
		OldFunds: Sentinel,
		NewFunds: Sentinel,
	}
}

func NewLimitRx(nanos int64, seq uint64, orderID string, side book.Side, price, size int64) *Event {
	ev := newEvent(nanos, seq, LimitRx)
	ev.OrderID = orderID
	ev.Side = side
	ev.Price = price
	ev.Size = size
	return ev
}

func NewMarketRx(nanos int64, seq uint64, orderID string, side book.Side, size, funds int64) *Event {
	ev := newEvent(nanos, seq, MarketRx)
	ev.OrderID = orderID
	ev.Side = side
	ev.Size = size
	ev.Funds = funds
	return ev
}

func NewLimitOpen(nanos int64, seq uint64, orderID string, side book.Side, price, openSize int64) *Event {
	ev := newEvent(nanos, seq, LimitOpen)
	ev.OrderID = orderID
	ev.Side = side
	ev.Price = price
	ev.Size = openSize
	return ev
}

func NewLimitDone(nanos int64, seq uint64, orderID string, side book.Side, price, doneSize int64) *Event {
	ev := newEvent(nanos, seq, LimitDone)
	ev.OrderID = orderID
	ev.Side = side
	ev.Price = price
	ev.Size = doneSize
	return ev
}

func NewMarketDone(nanos int64, seq uint64, orderID string, side book.Side) *Event {
	ev := newEvent(nanos, seq, MarketDone)
	ev.OrderID = orderID
	ev.Side = side
	return ev
}

func NewMatch(nanos int64, seq uint64, makerID, takerID string, side book.Side, price, size int64) *Event {
	ev := newEvent(nanos, seq, Match)
	ev.MakerID = makerID
	ev.TakerID = takerID
	ev.Side = side
	ev.Price = price
	ev.Size = size
	return ev
}

func NewLimitChange(nanos int64, seq uint64, orderID string, side book.Side, price, oldSize, newSize int64) *Event {
	ev := newEvent(nanos, seq, LimitChange)
	ev.OrderID = orderID
	ev.Side = side
	ev.Price = price
	ev.OldSize = oldSize
	ev.NewSize = newSize
	return ev
}

func NewMarketChange(nanos int64, seq uint64, orderID string, side book.Side, oldSize, newSize, oldFunds, newFunds int64) *Event {
	ev := newEvent(nanos, seq, MarketChange)
	ev.OrderID = orderID
	ev.Side = side
	ev.OldSize = oldSize
	ev.NewSize = newSize
	ev.OldFunds = oldFunds
	ev.NewFunds = newFunds
	return ev
}

func NewRebuildStart(nanos int64) *Event {
	ev := newEvent(nanos, 0, RebuildStart)
	ev.Synthetic = true
	return ev
}

func NewRebuildEnd(nanos int64) *Event {
	ev := newEvent(nanos, 0, RebuildEnd)
	ev.Synthetic = true
	return ev
}
