package feed

import (
	"encoding/json"
	"time"

	"github.com/joripage/bookfeed/pkg/book"
)

// wireMessage is the raw JSON shape of the exchange's full channel.
type wireMessage struct {
	Type          string `json:"type"`
	Sequence      uint64 `json:"sequence"`
	Time          string `json:"time"`
	OrderID       string `json:"order_id"`
	OrderType     string `json:"order_type"`
	Side          string `json:"side"`
	Price         string `json:"price"`
	Size          string `json:"size"`
	RemainingSize string `json:"remaining_size"`
	Funds         string `json:"funds"`
	MakerOrderID  string `json:"maker_order_id"`
	TakerOrderID  string `json:"taker_order_id"`
	OldSize       string `json:"old_size"`
	NewSize       string `json:"new_size"`
	OldFunds      string `json:"old_funds"`
	NewFunds      string `json:"new_funds"`
}

// Decoder turns raw feed frames into events. It never fails on bad
// numerics; those surface as Sentinel fields for the builder to
// reject.
type Decoder struct {
	scale Scale
	now   func() time.Time
}

func NewDecoder(scale Scale) *Decoder {
	return &Decoder{scale: scale, now: time.Now}
}

// Decode parses one frame. A nil event with nil error means the frame
// is not an order-book message (heartbeats, subscriptions).
func (d *Decoder) Decode(frame []byte) (*Event, error) {
	var msg wireMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		return nil, err
	}

	nanos := d.nanos(msg.Time)
	side := sideOf(msg.Side)

	switch msg.Type {
	case "received":
		if msg.OrderType == "market" {
			return NewMarketRx(nanos, msg.Sequence, msg.OrderID, side,
				d.scale.ParseSize(msg.Size), d.scale.ParseFunds(msg.Funds)), nil
		}
		return NewLimitRx(nanos, msg.Sequence, msg.OrderID, side,
			d.scale.ParsePrice(msg.Price), d.scale.ParseSize(msg.Size)), nil

	case "open":
		return NewLimitOpen(nanos, msg.Sequence, msg.OrderID, side,
			d.scale.ParsePrice(msg.Price), d.scale.ParseSize(msg.RemainingSize)), nil

	case "done":
		if msg.OrderType == "market" || msg.Price == "" {
			return NewMarketDone(nanos, msg.Sequence, msg.OrderID, side), nil
		}
		return NewLimitDone(nanos, msg.Sequence, msg.OrderID, side,
			d.scale.ParsePrice(msg.Price), d.scale.ParseSize(msg.RemainingSize)), nil

	case "match":
		return NewMatch(nanos, msg.Sequence, msg.MakerOrderID, msg.TakerOrderID, side,
			d.scale.ParsePrice(msg.Price), d.scale.ParseSize(msg.Size)), nil

	case "change":
		if msg.Price == "" {
			return NewMarketChange(nanos, msg.Sequence, msg.OrderID, side,
				d.scale.ParseSize(msg.OldSize), d.scale.ParseSize(msg.NewSize),
				d.scale.ParseFunds(msg.OldFunds), d.scale.ParseFunds(msg.NewFunds)), nil
		}
		ev := NewLimitChange(nanos, msg.Sequence, msg.OrderID, side,
			d.scale.ParsePrice(msg.Price),
			d.scale.ParseSize(msg.OldSize), d.scale.ParseSize(msg.NewSize))
		return ev, nil

	default:
		return nil, nil
	}
}

func (d *Decoder) nanos(raw string) int64 {
	if raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return ts.UnixNano()
		}
	}
	return d.now().UnixNano()
}

func sideOf(raw string) book.Side {
	if raw == "buy" {
		return book.Bid
	}
	return book.Ask
}
