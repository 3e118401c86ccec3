package state

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/joripage/bookfeed/pkg/book"
	"github.com/joripage/bookfeed/pkg/compute"
	"github.com/joripage/bookfeed/pkg/feed"
)

const latencyLogInterval = 50

// SnapshotFetcher pulls the authoritative full book. Fetching happens
// off the writer goroutine; the result is injected back into the
// single-writer event sequence.
type SnapshotFetcher interface {
	Fetch(ctx context.Context) (*feed.Snapshot, error)
}

// Observer receives the read view once per accepted event.
type Observer func(*View)

type CuratorConfig struct {
	InboxSize int `yaml:"inbox_size"`
	Depth     int `yaml:"depth"`
}

// Curator is the single-writer event loop. The book, pool, and
// computations are only ever touched from Run's goroutine; everything
// outside sees immutable views.
type Curator struct {
	cfg     *CuratorConfig
	book    *book.LimitOrderBook
	pool    *book.OrderPool
	builder *Builder
	seq     *Sequencer
	fetcher SnapshotFetcher

	computations []compute.Computation
	observers    []Observer

	inbox     chan *feed.Event
	snapshots chan *feed.Snapshot

	rebuilding bool
	fetching   bool
	cutoff     uint64
	cutoffSet  bool

	latestView *View
	nanosSum   int64
	applied    uint64
}

func NewCurator(
	cfg *CuratorConfig,
	lob *book.LimitOrderBook,
	pool *book.OrderPool,
	fetcher SnapshotFetcher,
	computations []compute.Computation,
) *Curator {
	if cfg == nil {
		cfg = &CuratorConfig{}
	}
	inboxSize := cfg.InboxSize
	if inboxSize == 0 {
		inboxSize = 4096
	}
	if cfg.Depth == 0 {
		cfg.Depth = 10
	}

	return &Curator{
		cfg:          cfg,
		book:         lob,
		pool:         pool,
		builder:      NewBuilder(lob, pool),
		seq:          NewSequencer(),
		fetcher:      fetcher,
		computations: computations,
		inbox:        make(chan *feed.Event, inboxSize),
		snapshots:    make(chan *feed.Snapshot, 1),
	}
}

// Inbox is where the feed worker delivers events.
func (c *Curator) Inbox() chan<- *feed.Event {
	return c.inbox
}

// RegisterObserver adds an event-applied callback. Must be called
// before Run.
func (c *Curator) RegisterObserver(fn Observer) {
	c.observers = append(c.observers, fn)
}

// Run processes events until the context ends. It must be the only
// goroutine mutating the book, pool, and computations.
func (c *Curator) Run(ctx context.Context) {
	zap.S().Info("curator started")
	c.startRebuild(ctx, "initial sync")

	for {
		select {
		case <-ctx.Done():
			zap.S().Info("curator stopping")
			return
		case snap := <-c.snapshots:
			c.onSnapshot(ctx, snap)
		case ev := <-c.inbox:
			c.processEvent(ctx, ev)
		}
	}
}

// Rebuilding reports whether the book is being rebuilt. Only valid
// from the writer goroutine or observers.
func (c *Curator) Rebuilding() bool {
	return c.rebuilding
}

// LatestView returns the view of the last accepted event, nil before
// the first. Only valid from the writer goroutine or observers.
func (c *Curator) LatestView() *View {
	return c.latestView
}

func (c *Curator) processEvent(ctx context.Context, ev *feed.Event) {
	start := time.Now()

	switch ev.Kind {
	case feed.RebuildStart:
		c.startRebuild(ctx, "feed requested rebuild")
		return
	case feed.RebuildEnd:
		// generated internally once the cutoff passes; from the feed
		// it carries no information we can trust
		return
	}

	if c.rebuilding {
		if !c.cutoffSet || ev.Sequence <= c.cutoff {
			return
		}
		// anchor at the cutoff, not at this event: events discarded
		// while the fetch was in flight must still surface as a gap
		c.finishRebuild()
	}

	switch c.seq.Observe(ev.Sequence) {
	case DispositionDrop:
		return
	case DispositionGap:
		zap.S().Warnw("sequence gap", "sequence", ev.Sequence)
		c.startRebuild(ctx, "sequence gap")
		return
	}

	c.apply(ctx, ev)
	c.trackLatency(ev, start)
}

func (c *Curator) apply(ctx context.Context, ev *feed.Event) {
	result, err := c.builder.Apply(ev)

	switch {
	case errors.Is(err, ErrMalformedEvent):
		zap.S().Warnw("event rejected", "kind", ev.Kind, "sequence", ev.Sequence, "err", err)
		return
	case errors.Is(err, ErrConsistency):
		zap.S().Warnw("consistency fault", "kind", ev.Kind, "sequence", ev.Sequence, "err", err)
		c.startRebuild(ctx, "consistency fault")
		return
	case err != nil:
		zap.S().Errorw("event failed", "kind", ev.Kind, "sequence", ev.Sequence, "err", err)
		return
	}

	view := newView(ev, c.book, result, c.cfg.Depth)
	c.latestView = view

	if !c.rebuilding {
		for _, computation := range c.computations {
			computation.OnStateChange(view)
		}
	}
	for _, observer := range c.observers {
		observer(view)
	}

	c.reclaim(ev, result)
}

// reclaim returns pooled orders fully consumed by a match and clears
// the value accumulators of the survivors.
func (c *Curator) reclaim(ev *feed.Event, result *book.TakeResult) {
	if ev.Kind != feed.Match || result == nil {
		return
	}

	if taker, ok := result.Taker.(*book.Order); ok {
		c.pool.ReturnOrder(taker)
	}
	for _, maker := range result.Makers {
		if maker.SizeRemaining <= 0 {
			c.pool.ReturnOrder(maker)
		} else {
			maker.ClearValueRemoved()
		}
	}
}

func (c *Curator) startRebuild(ctx context.Context, reason string) {
	zap.S().Infow("rebuilding order book", "reason", reason)

	c.book.Clear()
	c.pool.ReturnAll()
	for _, computation := range c.computations {
		computation.OnStateReset()
	}
	c.seq.Reset()
	c.latestView = nil
	c.rebuilding = true
	c.cutoffSet = false

	if c.fetching {
		return
	}
	c.fetching = true

	go func() {
		boff := backoff.NewExponentialBackOff()
		boff.MaxElapsedTime = 0

		var snap *feed.Snapshot
		err := backoff.Retry(func() error {
			var ferr error
			snap, ferr = c.fetcher.Fetch(ctx)
			if ferr != nil {
				zap.S().Warnw("snapshot fetch failed", "err", ferr)
			}
			return ferr
		}, backoff.WithContext(boff, ctx))
		if err != nil {
			return
		}

		select {
		case c.snapshots <- snap:
		case <-ctx.Done():
		}
	}()
}

func (c *Curator) onSnapshot(ctx context.Context, snap *feed.Snapshot) {
	c.fetching = false
	if !c.rebuilding {
		return
	}

	// feed events discarded since rebuild entry are superseded by the
	// snapshot; replay it as synthetic opens
	c.book.Clear()
	c.pool.ReturnAll()

	nanos := time.Now().UnixNano()
	for _, ev := range snap.Replay(nanos) {
		if _, err := c.builder.Apply(ev); err != nil {
			zap.S().Errorw("snapshot replay failed, refetching", "err", err)
			c.startRebuild(ctx, "snapshot replay failure")
			return
		}
	}

	c.cutoff = snap.Sequence
	c.cutoffSet = true
	zap.S().Infow("snapshot replayed",
		"sequence", snap.Sequence,
		"bids", len(snap.Bids),
		"asks", len(snap.Asks))
}

func (c *Curator) finishRebuild() {
	c.rebuilding = false
	c.cutoffSet = false
	c.seq.Restart(c.cutoff)
	zap.S().Infow("order book rebuild complete", "cutoff", c.cutoff)
}

func (c *Curator) trackLatency(ev *feed.Event, start time.Time) {
	c.applied++
	c.nanosSum += time.Since(start).Nanoseconds()
	if c.applied%latencyLogInterval == 0 {
		zap.S().Debugw("event latency",
			"avg_ns", c.nanosSum/latencyLogInterval,
			"applied", c.applied,
			"kind", ev.Kind)
		c.nanosSum = 0
	}
}
