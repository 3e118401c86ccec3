package persist

import (
	"time"

	"github.com/google/uuid"

	"github.com/joripage/bookfeed/pkg/state"
)

// BookEvent is one accepted feed event as stored in the journal table.
type BookEvent struct {
	EventID   string `gorm:"primaryKey" json:"event_id"`
	ProductID string `json:"product_id"`
	Sequence  uint64 `json:"sequence"`
	Kind      string `json:"kind"`
	OrderID   string `json:"order_id"`
	Side      string `json:"side"`
	Price     int64  `json:"price"`
	Size      int64  `json:"size"`
	MakerID   string `json:"maker_id"`
	TakerID   string `json:"taker_id"`
	TakeSize  int64  `json:"take_size"`
	TakeValue int64  `json:"take_value"`
	Nanos     int64  `json:"nanos"`

	CreatedAt time.Time `json:"created_at"`
}

func (BookEvent) TableName() string {
	return "book_events"
}

// NewBookEvent flattens an accepted view into a journal row.
func NewBookEvent(productID string, v *state.View) *BookEvent {
	ev := v.Event
	record := &BookEvent{
		EventID:   uuid.New().String(),
		ProductID: productID,
		Sequence:  ev.Sequence,
		Kind:      string(ev.Kind),
		OrderID:   ev.OrderID,
		Side:      string(ev.Side),
		Price:     ev.Price,
		Size:      ev.Size,
		MakerID:   ev.MakerID,
		TakerID:   ev.TakerID,
		Nanos:     ev.Nanos,
	}
	if _, takeSize, takeValue, ok := v.LastTake(); ok {
		record.TakeSize = takeSize
		record.TakeValue = takeValue
	}
	return record
}
