package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/joripage/bookfeed/pkg/state"
)

type BookCacheConfig struct {
	ProductID  string `yaml:"product_id"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

type cachedBook struct {
	Sequence uint64             `json:"sequence"`
	Nanos    int64              `json:"nanos"`
	Bids     []state.LevelQuote `json:"bids"`
	Asks     []state.LevelQuote `json:"asks"`
}

// BookCache mirrors the top of the book into redis so API nodes can
// serve quotes without talking to the feed process. Writes happen off
// the curator goroutine; only the freshest view is kept when redis
// falls behind.
type BookCache struct {
	cfg     *BookCacheConfig
	client  *redis.Client
	updates chan *state.View
}

func NewBookCache(cfg *BookCacheConfig, client *redis.Client) *BookCache {
	return &BookCache{
		cfg:     cfg,
		client:  client,
		updates: make(chan *state.View, 1),
	}
}

func (b *BookCache) key() string {
	return fmt.Sprintf("book:%s", b.cfg.ProductID)
}

// OnView queues a view for caching, replacing any stale pending one.
func (b *BookCache) OnView(v *state.View) {
	for {
		select {
		case b.updates <- v:
			return
		default:
			select {
			case <-b.updates:
			default:
			}
		}
	}
}

// Run writes queued views until the context ends.
func (b *BookCache) Run(ctx context.Context) {
	ttl := time.Duration(b.cfg.TTLSeconds) * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		case v := <-b.updates:
			payload, err := json.Marshal(&cachedBook{
				Sequence: v.Event.Sequence,
				Nanos:    v.Event.Nanos,
				Bids:     v.Bids,
				Asks:     v.Asks,
			})
			if err != nil {
				zap.S().Errorw("marshal book cache", "err", err)
				continue
			}
			if err := b.client.Set(ctx, b.key(), payload, ttl).Err(); err != nil {
				zap.S().Warnw("cache book", "key", b.key(), "err", err)
			}
		}
	}
}
