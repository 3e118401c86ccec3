package publish

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/joripage/bookfeed/pkg/persist"
	"github.com/joripage/bookfeed/pkg/state"
)

const (
	StreamName     = "BOOK"
	JournalSubject = "BOOK.events"
)

type JournalConfig struct {
	URL       string `yaml:"url"`
	ProductID string `yaml:"product_id"`
}

// Journal publishes every accepted event to JetStream for the persist
// worker. PublishAsync keeps the curator goroutine off the wire.
type Journal struct {
	cfg *JournalConfig
	js  nats.JetStreamContext
}

func NewJournal(cfg *JournalConfig, js nats.JetStreamContext) (*Journal, error) {
	_, err := js.AddStream(&nats.StreamConfig{
		Name:     StreamName,
		Subjects: []string{StreamName + ".*"},
	})
	if err != nil && err != nats.ErrStreamNameAlreadyInUse {
		return nil, err
	}
	return &Journal{cfg: cfg, js: js}, nil
}

// OnView journals the accepted event behind the view.
func (j *Journal) OnView(v *state.View) {
	record := persist.NewBookEvent(j.cfg.ProductID, v)
	data, err := json.Marshal(record)
	if err != nil {
		zap.S().Errorw("marshal journal event", "err", err)
		return
	}
	if _, err := j.js.PublishAsync(JournalSubject, data); err != nil {
		zap.S().Warnw("journal event", "sequence", record.Sequence, "err", err)
	}
}
