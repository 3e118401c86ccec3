package main

import (
	"context"
	"encoding/json"
	"flag"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/joripage/bookfeed/config"
	postgres_wrapper "github.com/joripage/bookfeed/pkg/infra/postgres"
	"github.com/joripage/bookfeed/pkg/logging"
	"github.com/joripage/bookfeed/pkg/persist"
	"github.com/joripage/bookfeed/pkg/publish"
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

	ctx := context.Background()

	nc, err := nats.Connect(cfg.Journal.URL)
	if err != nil {
		zap.S().Errorf("connect nats fail with err: %v", err)
		panic(err)
	}
	defer nc.Close()

	js, err := nc.JetStream()
	if err != nil {
		zap.S().Errorf("init jetstream fail with err: %v", err)
		panic(err)
	}

	_, _ = js.AddStream(&nats.StreamConfig{
		Name:     publish.StreamName,
		Subjects: []string{publish.StreamName + ".*"},
	})

	db, err := postgres_wrapper.InitPostgres(cfg.BookDB)
	if err != nil {
		zap.S().Errorf("init db fail with err: %v", err)
		panic(err)
	}

	sqlRepo := persist.NewRepo(db)

	w := persist.NewWorker(sqlRepo)
	go w.StartConsumer(ctx, js, publish.JournalSubject, "book_event_worker") // nolint

	select {}
}
