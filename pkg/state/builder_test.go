package state

import (
	"errors"
	"testing"

	"github.com/joripage/bookfeed/pkg/book"
	"github.com/joripage/bookfeed/pkg/feed"
)

func newTestBuilder() (*Builder, *book.LimitOrderBook, *book.OrderPool) {
	lob := book.NewLimitOrderBook()
	pool := book.NewOrderPool(&book.PoolConfig{InitialCapacity: 16})
	return NewBuilder(lob, pool), lob, pool
}

func TestBuilderLimitOpen(t *testing.T) {
	builder, lob, pool := newTestBuilder()

	_, err := builder.Apply(feed.NewLimitOpen(1, 1, "a", book.Ask, 101, 5))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if !lob.Asks().HasPrice(101) {
		t.Errorf("order should rest at 101")
	}
	if pool.LiveCount() != 1 {
		t.Errorf("expected 1 pooled order, got %d", pool.LiveCount())
	}
}

func TestBuilderLimitOpenSentinelRejected(t *testing.T) {
	builder, lob, pool := newTestBuilder()

	_, err := builder.Apply(feed.NewLimitOpen(1, 1, "a", book.Ask, feed.Sentinel, 5))
	if !errors.Is(err, ErrMalformedEvent) {
		t.Fatalf("expected malformed event, got %v", err)
	}
	if lob.Asks().Len() != 0 || pool.LiveCount() != 0 {
		t.Errorf("rejected event must not mutate state")
	}
}

func TestBuilderLimitOpenCrossingIsFault(t *testing.T) {
	builder, _, _ := newTestBuilder()

	builder.Apply(feed.NewLimitOpen(1, 1, "a", book.Ask, 100, 5)) // nolint
	_, err := builder.Apply(feed.NewLimitOpen(2, 2, "b", book.Bid, 100, 5))
	if !errors.Is(err, ErrConsistency) {
		t.Fatalf("crossing open must be a consistency fault, got %v", err)
	}
}

func TestBuilderLimitDone(t *testing.T) {
	builder, lob, pool := newTestBuilder()

	builder.Apply(feed.NewLimitOpen(1, 1, "a", book.Ask, 101, 5)) // nolint
	if _, err := builder.Apply(feed.NewLimitDone(2, 2, "a", book.Ask, 101, 5)); err != nil {
		t.Fatalf("done failed: %v", err)
	}
	if lob.Asks().Len() != 0 {
		t.Errorf("level should be gone")
	}
	if pool.LiveCount() != 0 {
		t.Errorf("done order should return to the pool")
	}

	// a second done for the same order is noise, not a fault
	if _, err := builder.Apply(feed.NewLimitDone(3, 3, "a", book.Ask, 101, 5)); err != nil {
		t.Errorf("duplicate done must be tolerated: %v", err)
	}
}

func TestBuilderLimitChange(t *testing.T) {
	builder, lob, _ := newTestBuilder()

	builder.Apply(feed.NewLimitOpen(1, 1, "a", book.Ask, 101, 10)) // nolint
	if _, err := builder.Apply(feed.NewLimitChange(2, 2, "a", book.Ask, 101, 10, 4)); err != nil {
		t.Fatalf("change failed: %v", err)
	}
	if lob.Asks().Peek().Volume() != 4 {
		t.Errorf("expected volume 4, got %d", lob.Asks().Peek().Volume())
	}

	_, err := builder.Apply(feed.NewLimitChange(3, 3, "a", book.Ask, 101, 4, 9))
	if !errors.Is(err, ErrConsistency) {
		t.Errorf("grow change must be a consistency fault, got %v", err)
	}
}

func TestBuilderChangeToZeroReturnsOrder(t *testing.T) {
	builder, lob, pool := newTestBuilder()

	builder.Apply(feed.NewLimitOpen(1, 1, "a", book.Ask, 101, 10)) // nolint
	if _, err := builder.Apply(feed.NewLimitChange(2, 2, "a", book.Ask, 101, 10, 0)); err != nil {
		t.Fatalf("change failed: %v", err)
	}
	if lob.Asks().Len() != 0 || pool.LiveCount() != 0 {
		t.Errorf("fully reduced order should leave book and pool")
	}
}

func TestBuilderMatchAgreement(t *testing.T) {
	builder, _, _ := newTestBuilder()

	builder.Apply(feed.NewLimitOpen(1, 1, "maker", book.Ask, 101, 10)) // nolint
	result, err := builder.Apply(feed.NewMatch(2, 2, "maker", "taker", book.Ask, 101, 4))
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if result == nil || result.TakeSize != 4 || len(result.Makers) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Makers[0].SizeRemaining != 6 {
		t.Errorf("expected maker remaining 6, got %d", result.Makers[0].SizeRemaining)
	}
}

func TestBuilderMatchSizeDisagreement(t *testing.T) {
	builder, _, _ := newTestBuilder()

	builder.Apply(feed.NewLimitOpen(1, 1, "maker", book.Ask, 101, 3)) // nolint
	// feed claims 4 were taken but only 3 rest locally
	_, err := builder.Apply(feed.NewMatch(2, 2, "maker", "taker", book.Ask, 101, 4))
	if !errors.Is(err, ErrConsistency) {
		t.Fatalf("expected consistency fault, got %v", err)
	}
}

func TestBuilderMatchWrongMaker(t *testing.T) {
	builder, _, _ := newTestBuilder()

	builder.Apply(feed.NewLimitOpen(1, 1, "other", book.Ask, 101, 10)) // nolint
	_, err := builder.Apply(feed.NewMatch(2, 2, "maker", "taker", book.Ask, 101, 4))
	if !errors.Is(err, ErrConsistency) {
		t.Fatalf("expected consistency fault, got %v", err)
	}
}

func TestBuilderMatchUnknownMaker(t *testing.T) {
	builder, _, _ := newTestBuilder()

	_, err := builder.Apply(feed.NewMatch(1, 1, "maker", "taker", book.Ask, 101, 4))
	if !errors.Is(err, ErrConsistency) {
		t.Fatalf("match against an empty book must fault, got %v", err)
	}
}

func TestBuilderMarketLifecycle(t *testing.T) {
	builder, lob, pool := newTestBuilder()

	if _, err := builder.Apply(feed.NewMarketRx(1, 1, "m", book.Bid, 100, feed.Sentinel)); err != nil {
		t.Fatalf("market rx failed: %v", err)
	}
	if pool.LiveMarketCount() != 1 {
		t.Errorf("market order should be checked out between rx and done")
	}

	if _, err := builder.Apply(feed.NewMarketChange(2, 2, "m", book.Bid, 100, 50, feed.Sentinel, feed.Sentinel)); err != nil {
		t.Errorf("market change failed: %v", err)
	}
	if got := pool.MarketOrderFor("m").SizeRemaining; got != 50 {
		t.Errorf("expected size remaining 50 after change, got %d", got)
	}

	_, err := builder.Apply(feed.NewMarketChange(3, 3, "m", book.Bid, 50, 80, feed.Sentinel, feed.Sentinel))
	if !errors.Is(err, ErrConsistency) {
		t.Errorf("grow market change must be a consistency fault, got %v", err)
	}

	if _, err := builder.Apply(feed.NewMarketDone(4, 4, "m", book.Bid)); err != nil {
		t.Errorf("market done failed: %v", err)
	}
	if pool.LiveMarketCount() != 0 {
		t.Errorf("market done should return the order")
	}

	// change and done for unknown market orders are noise after rebuild
	if _, err := builder.Apply(feed.NewMarketChange(5, 5, "m", book.Bid, 100, 50, feed.Sentinel, feed.Sentinel)); err != nil {
		t.Errorf("change for unknown market order must be tolerated: %v", err)
	}
	if _, err := builder.Apply(feed.NewMarketDone(6, 6, "m", book.Bid)); err != nil {
		t.Errorf("duplicate market done must be tolerated: %v", err)
	}

	if lob.Bids().Len() != 0 || lob.Asks().Len() != 0 || pool.LiveCount() != 0 {
		t.Errorf("market lifecycle events must not mutate the book")
	}
}
