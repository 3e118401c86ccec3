package state

import (
	"errors"
	"fmt"

	"github.com/joripage/bookfeed/pkg/book"
	"github.com/joripage/bookfeed/pkg/feed"
)

// Builder applies feed events to the book and pool. Events are
// validated before any mutation, so a rejected event leaves no trace.
type Builder struct {
	book *book.LimitOrderBook
	pool *book.OrderPool
}

func NewBuilder(lob *book.LimitOrderBook, pool *book.OrderPool) *Builder {
	return &Builder{book: lob, pool: pool}
}

// Apply mutates the book for one event. The TakeResult is non-nil
// only for MATCH events; the caller owns reclaiming its pooled
// orders. An ErrMalformedEvent means the event was dropped whole; an
// ErrConsistency means the book must be rebuilt.
func (b *Builder) Apply(ev *feed.Event) (*book.TakeResult, error) {
	switch ev.Kind {
	case feed.LimitOpen:
		return nil, b.applyLimitOpen(ev)
	case feed.LimitDone:
		return nil, b.applyLimitDone(ev)
	case feed.LimitChange:
		return nil, b.applyLimitChange(ev)
	case feed.Match:
		return b.applyMatch(ev)
	case feed.MarketRx:
		return nil, b.applyMarketRx(ev)
	case feed.MarketDone:
		return nil, b.applyMarketDone(ev)
	case feed.MarketChange:
		return nil, b.applyMarketChange(ev)
	case feed.LimitRx:
		// pre-open receipt; nothing rests until the open arrives
		if ev.Price <= 0 || ev.Size <= 0 {
			return nil, fmt.Errorf("%w: limit rx with price %d size %d", ErrMalformedEvent, ev.Price, ev.Size)
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unexpected kind %s", ErrMalformedEvent, ev.Kind)
	}
}

func (b *Builder) applyLimitOpen(ev *feed.Event) error {
	if ev.OrderID == "" || ev.Price <= 0 || ev.Size <= 0 {
		return fmt.Errorf("%w: open with price %d size %d", ErrMalformedEvent, ev.Price, ev.Size)
	}

	order, err := b.pool.Take(ev.OrderID, ev.Side, ev.Price, ev.Size)
	if err != nil {
		if errors.Is(err, book.ErrDuplicateOrderID) {
			return fmt.Errorf("%w: open for live order %s", ErrMalformedEvent, ev.OrderID)
		}
		return err
	}

	result := b.book.Add(order)
	if result.TakeSize > 0 {
		// a freshly opened order crossing our book means the local
		// book has drifted
		return fmt.Errorf("%w: opened order %s took %d", ErrConsistency, ev.OrderID, result.TakeSize)
	}
	return nil
}

func (b *Builder) applyLimitDone(ev *feed.Event) error {
	if ev.OrderID == "" || ev.Price <= 0 {
		return fmt.Errorf("%w: done with price %d", ErrMalformedEvent, ev.Price)
	}

	// late and duplicate cancels are expected; absence is not a fault
	if removed := b.book.RemoveOrder(ev.Side, ev.Price, ev.OrderID); removed != nil {
		b.pool.ReturnOrder(removed)
	}
	return nil
}

func (b *Builder) applyLimitChange(ev *feed.Event) error {
	if ev.OrderID == "" || ev.Price <= 0 || ev.NewSize < 0 {
		return fmt.Errorf("%w: change with price %d new size %d", ErrMalformedEvent, ev.Price, ev.NewSize)
	}

	order, err := b.book.ReduceOrder(ev.Side, ev.Price, ev.OrderID, ev.NewSize)
	if err != nil {
		// the feed can only shrink resting orders; a grow means drift
		return fmt.Errorf("%w: change on %s: %v", ErrConsistency, ev.OrderID, err)
	}
	if order != nil && order.SizeRemaining <= 0 {
		b.pool.ReturnOrder(order)
	}
	return nil
}

func (b *Builder) applyMatch(ev *feed.Event) (*book.TakeResult, error) {
	if ev.MakerID == "" || ev.TakerID == "" || ev.Price <= 0 || ev.Size <= 0 {
		return nil, fmt.Errorf("%w: match with price %d size %d", ErrMalformedEvent, ev.Price, ev.Size)
	}

	// the event's side is the maker's; the taker aggresses opposite
	taker, err := b.pool.Take(ev.TakerID, ev.Side.Opposite(), ev.Price, ev.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: match taker %s: %v", ErrMalformedEvent, ev.TakerID, err)
	}

	result := b.book.Add(taker)

	switch {
	case len(result.Makers) != 1:
		return &result, fmt.Errorf("%w: match took %d makers", ErrConsistency, len(result.Makers))
	case result.Makers[0].OrderID != ev.MakerID:
		return &result, fmt.Errorf("%w: match maker %s, book gave %s",
			ErrConsistency, ev.MakerID, result.Makers[0].OrderID)
	case result.TakeSize != ev.Size:
		return &result, fmt.Errorf("%w: match size %d, book took %d",
			ErrConsistency, ev.Size, result.TakeSize)
	case taker.SizeRemaining > 0:
		return &result, fmt.Errorf("%w: match taker %s left %d on the book",
			ErrConsistency, ev.TakerID, taker.SizeRemaining)
	}

	return &result, nil
}

// Market orders never rest in the book, but they are tracked in the
// pool between receipt and done so change events have something to
// act on.

func (b *Builder) applyMarketRx(ev *feed.Event) error {
	if ev.OrderID == "" || (ev.Size == feed.Sentinel && ev.Funds == feed.Sentinel) {
		return fmt.Errorf("%w: market rx without size or funds", ErrMalformedEvent)
	}

	if _, err := b.pool.TakeMarket(ev.OrderID, ev.Side, ev.Size, ev.Funds); err != nil {
		return fmt.Errorf("%w: market rx for live order %s", ErrMalformedEvent, ev.OrderID)
	}
	return nil
}

func (b *Builder) applyMarketDone(ev *feed.Event) error {
	if ev.OrderID == "" {
		return fmt.Errorf("%w: market done without order id", ErrMalformedEvent)
	}

	// dones for orders we never saw received are expected after rebuild
	if order := b.pool.MarketOrderFor(ev.OrderID); order != nil {
		b.pool.ReturnMarketOrder(order)
	}
	return nil
}

func (b *Builder) applyMarketChange(ev *feed.Event) error {
	if ev.OrderID == "" || (ev.NewSize == feed.Sentinel && ev.NewFunds == feed.Sentinel) {
		return fmt.Errorf("%w: market change without new size or funds", ErrMalformedEvent)
	}

	order := b.pool.MarketOrderFor(ev.OrderID)
	if order == nil {
		return nil
	}

	if ev.NewSize != feed.Sentinel {
		if order.Size >= 0 && ev.NewSize > order.SizeRemaining {
			return fmt.Errorf("%w: market change grows size on %s", ErrConsistency, ev.OrderID)
		}
		order.SizeRemaining = ev.NewSize
	}
	if ev.NewFunds != feed.Sentinel {
		if order.Funds >= 0 && ev.NewFunds > order.FundsRemaining {
			return fmt.Errorf("%w: market change grows funds on %s", ErrConsistency, ev.OrderID)
		}
		order.FundsRemaining = ev.NewFunds
	}
	return nil
}
