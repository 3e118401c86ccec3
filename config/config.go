package config

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/joripage/bookfeed/pkg/book"
	"github.com/joripage/bookfeed/pkg/feed"
	postgres_wrapper "github.com/joripage/bookfeed/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/bookfeed/pkg/infra/redis"
	"github.com/joripage/bookfeed/pkg/logging"
	"github.com/joripage/bookfeed/pkg/publish"
	"github.com/joripage/bookfeed/pkg/state"
)

type AppConfig struct {
	ServiceName string          `yaml:"service_name"`
	Logging     *logging.Config `yaml:"logging"`

	Feed     *feed.WSConfig       `yaml:"feed"`
	Snapshot *feed.SnapshotConfig `yaml:"snapshot"`
	Scale    *feed.Scale          `yaml:"scale"`
	Pool     *book.PoolConfig     `yaml:"pool"`
	Curator  *state.CuratorConfig `yaml:"curator"`

	BookCache *publish.BookCacheConfig         `yaml:"book_cache"`
	MatchFeed *publish.MatchFeedConfig         `yaml:"match_feed"`
	Kafka     *publish.ProducerConfig          `yaml:"kafka"`
	Journal   *publish.JournalConfig           `yaml:"journal"`
	Redis     *redis_wrapper.RedisConfig       `yaml:"redis"`
	BookDB    *postgres_wrapper.PostgresConfig `yaml:"book_db"`
}

// Load load config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")
	zap.S().Debugf("CONFIG_FILE=%v", filePath)

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}
