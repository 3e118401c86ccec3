package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/joripage/bookfeed/config"
	"github.com/joripage/bookfeed/pkg/book"
	"github.com/joripage/bookfeed/pkg/compute"
	"github.com/joripage/bookfeed/pkg/feed"
	redis_wrapper "github.com/joripage/bookfeed/pkg/infra/redis"
	"github.com/joripage/bookfeed/pkg/logging"
	"github.com/joripage/bookfeed/pkg/publish"
	"github.com/joripage/bookfeed/pkg/state"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	logCfg := cfg.Logging
	if logCfg == nil {
		logCfg = &logging.Config{}
	}
	logger, err := logging.Init(logCfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // nolint

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	go func() {
		http.ListenAndServe("localhost:6060", nil) // nolint
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	scale := feed.DefaultScale
	if cfg.Scale != nil {
		scale = *cfg.Scale
	}

	lob := book.NewLimitOrderBook()
	pool := book.NewOrderPool(cfg.Pool)
	fetcher := feed.NewRestSnapshotFetcher(cfg.Snapshot, scale)

	spread := compute.NewSpread()
	bidTakeVolume := compute.NewSumming(compute.NewTakeVolume(book.Bid), time.Minute)
	askTakeVolume := compute.NewSumming(compute.NewTakeVolume(book.Ask), time.Minute)

	curator := state.NewCurator(cfg.Curator, lob, pool, fetcher, []compute.Computation{
		spread, bidTakeVolume, askTakeVolume,
	})

	if cfg.Redis != nil && cfg.BookCache != nil {
		redisClient, err := redis_wrapper.InitRedis(cfg.Redis)
		if err != nil {
			zap.S().Errorf("init redis fail with err: %v", err)
			panic(err)
		}
		cache := publish.NewBookCache(cfg.BookCache, redisClient)
		curator.RegisterObserver(cache.OnView)
		go cache.Run(ctx)
	}

	if cfg.Kafka != nil && cfg.MatchFeed != nil {
		producer := publish.NewProducer(*cfg.Kafka)
		defer producer.Close() // nolint
		matchFeed := publish.NewMatchFeed(cfg.MatchFeed, producer)
		curator.RegisterObserver(matchFeed.OnView)
	}

	if cfg.Journal != nil {
		nc, err := nats.Connect(cfg.Journal.URL)
		if err != nil {
			zap.S().Errorf("connect nats fail with err: %v", err)
			panic(err)
		}
		defer nc.Close()

		js, err := nc.JetStream(nats.PublishAsyncMaxPending(65536))
		if err != nil {
			zap.S().Errorf("init jetstream fail with err: %v", err)
			panic(err)
		}
		journal, err := publish.NewJournal(cfg.Journal, js)
		if err != nil {
			zap.S().Errorf("init journal fail with err: %v", err)
			panic(err)
		}
		curator.RegisterObserver(journal.OnView)
	}

	go curator.Run(ctx)

	decoder := feed.NewDecoder(scale)
	worker := feed.NewWSWorker(cfg.Feed, decoder, func(ev *feed.Event) {
		select {
		case curator.Inbox() <- ev:
		case <-ctx.Done():
		}
	})
	worker.Start(ctx)

	zap.S().Infof("%s started", cfg.ServiceName)

	<-sigs
	zap.S().Info("shutting down...")

	worker.Stop()
	cancel()
}
