package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/joripage/bookfeed/pkg/book"
)

// SnapshotEntry is one resting order from a full-book snapshot.
type SnapshotEntry struct {
	OrderID string
	Price   int64
	Size    int64
}

// Snapshot is the authoritative full book at a sequence cutoff. Feed
// events at or below Sequence are already represented in it.
type Snapshot struct {
	Sequence uint64
	Bids     []SnapshotEntry
	Asks     []SnapshotEntry
}

// Replay converts the snapshot into synthetic LIMIT_OPEN events in
// book priority order.
func (s *Snapshot) Replay(nanos int64) []*Event {
	events := make([]*Event, 0, len(s.Bids)+len(s.Asks))
	for _, entry := range s.Bids {
		ev := NewLimitOpen(nanos, s.Sequence, entry.OrderID, book.Bid, entry.Price, entry.Size)
		ev.Synthetic = true
		events = append(events, ev)
	}
	for _, entry := range s.Asks {
		ev := NewLimitOpen(nanos, s.Sequence, entry.OrderID, book.Ask, entry.Price, entry.Size)
		ev.Synthetic = true
		events = append(events, ev)
	}
	return events
}

// restSnapshot is the level-3 REST response shape: sequence plus
// [price, size, order_id] triples per side.
type restSnapshot struct {
	Sequence uint64      `json:"sequence"`
	Bids     [][3]string `json:"bids"`
	Asks     [][3]string `json:"asks"`
}

type SnapshotConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// RestSnapshotFetcher pulls the full book over REST. It lives on the
// transport boundary; the curator injects its result back into the
// single-writer event sequence.
type RestSnapshotFetcher struct {
	cfg    *SnapshotConfig
	scale  Scale
	client *http.Client
}

func NewRestSnapshotFetcher(cfg *SnapshotConfig, scale Scale) *RestSnapshotFetcher {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &RestSnapshotFetcher{
		cfg:    cfg,
		scale:  scale,
		client: &http.Client{Timeout: timeout},
	}
}

func (f *RestSnapshotFetcher) Fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot fetch status %d", resp.StatusCode)
	}

	var raw restSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	snap := &Snapshot{Sequence: raw.Sequence}
	for _, row := range raw.Bids {
		entry, err := f.entry(row)
		if err != nil {
			return nil, err
		}
		snap.Bids = append(snap.Bids, entry)
	}
	for _, row := range raw.Asks {
		entry, err := f.entry(row)
		if err != nil {
			return nil, err
		}
		snap.Asks = append(snap.Asks, entry)
	}
	return snap, nil
}

func (f *RestSnapshotFetcher) entry(row [3]string) (SnapshotEntry, error) {
	price := f.scale.ParsePrice(row[0])
	size := f.scale.ParseSize(row[1])
	if price <= 0 || size <= 0 {
		return SnapshotEntry{}, fmt.Errorf("snapshot row has invalid price or size: %v", row)
	}
	return SnapshotEntry{
		OrderID: row[2],
		Price:   price,
		Size:    size,
	}, nil
}
