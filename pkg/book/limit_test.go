package book

import (
	"fmt"
	"testing"
)

func limitVolumeMatches(t *testing.T, l *Limit) {
	t.Helper()
	var sum int64
	l.Each(func(o *Order) { sum += o.SizeRemaining })
	if l.Volume() != sum {
		t.Fatalf("volume %d disagrees with resting sum %d", l.Volume(), sum)
	}
}

func TestLimitAddAndTake(t *testing.T) {
	limit := NewLimit(1020)

	limit.Add(NewOrder(1, "A", Ask, 1020, 10))
	if limit.Volume() != 10 {
		t.Fatalf("expected volume 10, got %d", limit.Volume())
	}
	limitVolumeMatches(t, limit)

	taker := NewOrder(2, "T", Bid, 1020, 8)
	makers := limit.TakeLiquidity(taker)

	if taker.SizeRemaining != 0 {
		t.Errorf("expected taker fully filled, got %d remaining", taker.SizeRemaining)
	}
	if len(makers) != 1 {
		t.Fatalf("expected 1 maker, got %d", len(makers))
	}
	if makers[0].SizeRemaining != 2 {
		t.Errorf("expected maker remaining 2, got %d", makers[0].SizeRemaining)
	}
	if limit.Volume() != 2 {
		t.Errorf("expected volume 2, got %d", limit.Volume())
	}
	limitVolumeMatches(t, limit)
}

func TestLimitTakeAcrossMakers(t *testing.T) {
	limit := NewLimit(1020)
	limit.Add(NewOrder(1, "A", Ask, 1020, 10))
	limit.Add(NewOrder(2, "B", Ask, 1020, 30))

	taker := NewOrder(3, "T", Bid, 1020, 30)
	makers := limit.TakeLiquidity(taker)

	if taker.SizeRemaining != 0 {
		t.Errorf("expected taker fully filled, got %d remaining", taker.SizeRemaining)
	}
	if len(makers) != 2 {
		t.Fatalf("expected 2 makers, got %d", len(makers))
	}
	if makers[0].OrderID != "A" || makers[0].SizeRemaining != 0 {
		t.Errorf("expected A fully consumed first, got %+v", makers[0])
	}
	if makers[1].OrderID != "B" || makers[1].SizeRemaining != 10 {
		t.Errorf("expected B remaining 10, got %+v", makers[1])
	}
	if limit.Volume() != 10 {
		t.Errorf("expected volume 10, got %d", limit.Volume())
	}
	limitVolumeMatches(t, limit)
}

func TestLimitPriceTimePriority(t *testing.T) {
	limit := NewLimit(500)
	limit.Add(NewOrder(1, "A", Ask, 500, 5))
	limit.Add(NewOrder(2, "B", Ask, 500, 5))
	limit.Add(NewOrder(3, "C", Ask, 500, 5))

	taker := NewOrder(4, "T", Bid, 500, 12)
	makers := limit.TakeLiquidity(taker)

	if len(makers) != 3 {
		t.Fatalf("expected 3 makers, got %d", len(makers))
	}
	if makers[0].OrderID != "A" || makers[0].SizeRemaining != 0 {
		t.Errorf("A should be consumed fully first: %+v", makers[0])
	}
	if makers[1].OrderID != "B" || makers[1].SizeRemaining != 0 {
		t.Errorf("B should be consumed fully second: %+v", makers[1])
	}
	if makers[2].OrderID != "C" || makers[2].SizeRemaining != 3 {
		t.Errorf("C should be touched last with 3 remaining: %+v", makers[2])
	}
}

func TestLimitTakeConservation(t *testing.T) {
	limit := NewLimit(777)
	sizes := []int64{7, 13, 2, 40}
	var before int64
	for i, size := range sizes {
		limit.Add(NewOrder(int64(i+1), fmt.Sprintf("M%d", i), Ask, 777, size))
		before += size
	}

	taker := NewOrder(10, "T", Bid, 777, 25)
	makers := limit.TakeLiquidity(taker)

	var makerTaken int64
	for _, m := range makers {
		makerTaken += m.ValueRemoved / m.Price
	}
	takerTaken := taker.Size - taker.SizeRemaining

	if takerTaken != makerTaken {
		t.Errorf("conservation violated: taker took %d, makers gave %d", takerTaken, makerTaken)
	}
	if limit.Volume() != before-makerTaken {
		t.Errorf("expected volume %d, got %d", before-makerTaken, limit.Volume())
	}
	limitVolumeMatches(t, limit)
}

func TestLimitEmptyTake(t *testing.T) {
	limit := NewLimit(1020)
	taker := NewOrder(1, "T", Bid, 1020, 8)

	makers := limit.TakeLiquidity(taker)
	if len(makers) != 0 {
		t.Fatalf("expected no makers, got %d", len(makers))
	}
	if taker.SizeRemaining != 8 {
		t.Errorf("taker remaining changed on empty take: %d", taker.SizeRemaining)
	}
}

func TestLimitRemove(t *testing.T) {
	limit := NewLimit(100)
	limit.Add(NewOrder(1, "A", Bid, 100, 10))
	limit.Add(NewOrder(2, "B", Bid, 100, 20))

	removed := limit.Remove("A")
	if removed == nil || removed.OrderID != "A" {
		t.Fatalf("expected to remove A, got %+v", removed)
	}
	if limit.Volume() != 20 {
		t.Errorf("expected volume 20, got %d", limit.Volume())
	}

	if limit.Remove("A") != nil {
		t.Errorf("duplicate remove should report not found")
	}
	if limit.Remove("missing") != nil {
		t.Errorf("remove of unknown id should report not found")
	}
	limitVolumeMatches(t, limit)
}

func TestLimitReduce(t *testing.T) {
	limit := NewLimit(100)
	limit.Add(NewOrder(1, "A", Bid, 100, 10))

	order, err := limit.Reduce("A", 4)
	if err != nil || order == nil {
		t.Fatalf("expected reduce success, got order=%v err=%v", order, err)
	}
	if order.SizeRemaining != 4 || limit.Volume() != 4 {
		t.Errorf("expected remaining 4 and volume 4, got %d and %d", order.SizeRemaining, limit.Volume())
	}

	if _, err := limit.Reduce("A", 9); err == nil {
		t.Errorf("reduce above remaining should fail")
	}

	order, err = limit.Reduce("A", 0)
	if err != nil || order == nil {
		t.Fatalf("expected reduce to zero to succeed, got %v", err)
	}
	if limit.Len() != 0 || limit.Volume() != 0 {
		t.Errorf("fully reduced order should leave the queue, len=%d volume=%d", limit.Len(), limit.Volume())
	}
}
