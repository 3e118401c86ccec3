package persist

import (
	"context"
	"encoding/json"
	"errors"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Worker drains the event journal stream into postgres.
type Worker struct {
	bookEvent IBookEvent
}

func NewWorker(repo IRepo) *Worker {
	return &Worker{
		bookEvent: repo.BookEvent(),
	}
}

func (w *Worker) StartConsumer(ctx context.Context, js nats.JetStreamContext, subject, durable string) error {
	cons, err := js.PullSubscribe(subject, durable)
	if err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := cons.Fetch(10, nats.Context(ctx))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			if !errors.Is(err, nats.ErrTimeout) {
				zap.S().Warnw("fetch journal batch", "err", err)
			}
			continue
		}

		for _, msg := range msgs {
			var record BookEvent
			if err := json.Unmarshal(msg.Data, &record); err != nil {
				zap.S().Warnw("unmarshal journal event", "err", err)
				_ = msg.Ack()
				continue
			}
			if _, err := w.bookEvent.Create(ctx, &record); err != nil {
				zap.S().Warnw("store journal event", "event_id", record.EventID, "err", err)
				continue
			}
			_ = msg.Ack()
		}
	}
}
