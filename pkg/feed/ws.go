package feed

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WSConfig struct {
	URL          string `yaml:"url"`
	ProductID    string `yaml:"product_id"`
	ReadTimeout  int    `yaml:"read_timeout_seconds"`
	PingInterval int    `yaml:"ping_interval_seconds"`
}

// WSWorker owns the websocket connection to the feed and pushes every
// frame through the decoder into the handler. It reconnects with
// exponential backoff; sequencing downstream detects the resulting
// gaps and rebuilds.
type WSWorker struct {
	cfg     *WSConfig
	decoder *Decoder
	handler func(*Event)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWSWorker(cfg *WSConfig, decoder *Decoder, handler func(*Event)) *WSWorker {
	return &WSWorker{
		cfg:     cfg,
		decoder: decoder,
		handler: handler,
	}
}

func (w *WSWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.runLoop(ctx)
}

func (w *WSWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *WSWorker) runLoop(ctx context.Context) {
	defer w.wg.Done()

	boff := backoff.NewExponentialBackOff()
	boff.MaxElapsedTime = 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.readUntilClosed(ctx); err != nil {
			delay := boff.NextBackOff()
			zap.S().Warnw("feed connection lost", "err", err, "retry_in", delay)

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			continue
		}
		return
	}
}

func (w *WSWorker) readUntilClosed(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.cfg.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	subscribe := map[string]any{
		"type":        "subscribe",
		"product_ids": []string{w.cfg.ProductID},
		"channels":    []string{"full"},
	}
	if err := conn.WriteJSON(subscribe); err != nil {
		return err
	}
	zap.S().Infow("feed subscribed", "url", w.cfg.URL, "product", w.cfg.ProductID)

	readTimeout := time.Duration(w.cfg.ReadTimeout) * time.Second
	if readTimeout == 0 {
		readTimeout = 60 * time.Second
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout)) // nolint
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		ev, err := w.decoder.Decode(frame)
		if err != nil {
			zap.S().Warnw("undecodable feed frame dropped", "err", err)
			continue
		}
		if ev != nil {
			w.handler(ev)
		}
	}
}
