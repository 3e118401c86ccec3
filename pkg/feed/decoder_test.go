package feed

import (
	"testing"

	"github.com/joripage/bookfeed/pkg/book"
)

func TestDecodeOpen(t *testing.T) {
	d := NewDecoder(Scale{PriceDecimals: 2, SizeDecimals: 2})

	frame := []byte(`{"type":"open","sequence":7,"order_id":"o1","side":"sell",` +
		`"price":"101.50","remaining_size":"2.25","time":"2016-11-08T19:08:00.000000Z"}`)

	ev, err := d.Decode(frame)
	if err != nil || ev == nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ev.Kind != LimitOpen || ev.Sequence != 7 {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.Side != book.Ask || ev.Price != 10150 || ev.Size != 225 {
		t.Errorf("unexpected fields: %+v", ev)
	}
}

func TestDecodeMatch(t *testing.T) {
	d := NewDecoder(Scale{PriceDecimals: 2, SizeDecimals: 2})

	frame := []byte(`{"type":"match","sequence":9,"maker_order_id":"m1",` +
		`"taker_order_id":"t1","side":"buy","price":"100.00","size":"1.00"}`)

	ev, err := d.Decode(frame)
	if err != nil || ev == nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ev.Kind != Match || ev.MakerID != "m1" || ev.TakerID != "t1" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.Side != book.Bid || ev.Price != 10000 || ev.Size != 100 {
		t.Errorf("unexpected fields: %+v", ev)
	}
}

func TestDecodeMalformedNumericYieldsSentinel(t *testing.T) {
	d := NewDecoder(DefaultScale)

	frame := []byte(`{"type":"open","sequence":3,"order_id":"o1","side":"buy",` +
		`"price":"garbage","remaining_size":"1.0"}`)

	ev, err := d.Decode(frame)
	if err != nil || ev == nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ev.Price != Sentinel {
		t.Errorf("malformed price must be sentinel, got %d", ev.Price)
	}
}

func TestDecodeIgnoresNonBookFrames(t *testing.T) {
	d := NewDecoder(DefaultScale)

	ev, err := d.Decode([]byte(`{"type":"heartbeat","sequence":11}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ev != nil {
		t.Errorf("heartbeats should not produce events, got %+v", ev)
	}
}

func TestDecodeMarketReceived(t *testing.T) {
	d := NewDecoder(Scale{PriceDecimals: 2, SizeDecimals: 2})

	frame := []byte(`{"type":"received","sequence":4,"order_id":"o2","side":"buy",` +
		`"order_type":"market","funds":"50.00"}`)

	ev, err := d.Decode(frame)
	if err != nil || ev == nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ev.Kind != MarketRx {
		t.Fatalf("expected MARKET_RX, got %s", ev.Kind)
	}
	if ev.Size != Sentinel {
		t.Errorf("absent size must be sentinel, got %d", ev.Size)
	}
	if ev.Funds != 500000 {
		t.Errorf("funds should carry combined scale, got %d", ev.Funds)
	}
}
