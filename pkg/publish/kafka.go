package publish

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/joripage/bookfeed/pkg/state"
)

type ProducerConfig struct {
	Brokers        []string `yaml:"brokers"`
	BatchSize      int      `yaml:"batch_size"`
	BatchBytes     int64    `yaml:"batch_bytes"`
	BatchTimeoutMs int64    `yaml:"batch_timeout_ms"`
}

type Producer struct {
	w *kafka.Writer
}

func NewProducer(cfg ProducerConfig) *Producer {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchBytes == 0 {
		cfg.BatchBytes = 1 << 20
	}
	if cfg.BatchTimeoutMs == 0 {
		cfg.BatchTimeoutMs = 50
	}
	wr := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchBytes:             cfg.BatchBytes,
		BatchTimeout:           time.Duration(cfg.BatchTimeoutMs) * time.Millisecond,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireNone,
		Async:                  true,
	}
	return &Producer{w: wr}
}

func (p *Producer) Publish(ctx context.Context, topic string, key []byte, value []byte) error {
	if p == nil || p.w == nil {
		return errors.New("producer not initialized")
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Producer) PublishJSON(ctx context.Context, topic string, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.Publish(ctx, topic, []byte(key), b)
}

func (p *Producer) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}

type MatchFeedConfig struct {
	Topic     string `yaml:"topic"`
	ProductID string `yaml:"product_id"`
}

type matchPrint struct {
	ProductID string `json:"product_id"`
	Sequence  uint64 `json:"sequence"`
	Nanos     int64  `json:"nanos"`
	Side      string `json:"side"`
	Price     int64  `json:"price"`
	Size      int64  `json:"size"`
	Value     int64  `json:"value"`
	Makers    int    `json:"makers"`
}

// MatchFeed streams trade prints to kafka. The writer is async so the
// curator goroutine never blocks on the broker.
type MatchFeed struct {
	cfg      *MatchFeedConfig
	producer *Producer
}

func NewMatchFeed(cfg *MatchFeedConfig, producer *Producer) *MatchFeed {
	return &MatchFeed{cfg: cfg, producer: producer}
}

// OnView publishes a print when the view carries a take.
func (m *MatchFeed) OnView(v *state.View) {
	if _, takeSize, takeValue, ok := v.LastTake(); !ok || takeSize <= 0 || takeValue < 0 {
		return
	}

	print := &matchPrint{
		ProductID: m.cfg.ProductID,
		Sequence:  v.Event.Sequence,
		Nanos:     v.Event.Nanos,
		Side:      string(v.TakeSide),
		Price:     v.Event.Price,
		Size:      v.TakeSize,
		Value:     v.TakeValue,
		Makers:    v.TakeMakers,
	}
	if err := m.producer.PublishJSON(context.Background(), m.cfg.Topic, m.cfg.ProductID, print); err != nil {
		zap.S().Warnw("publish match print", "topic", m.cfg.Topic, "err", err)
	}
}
