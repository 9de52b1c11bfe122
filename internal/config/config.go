package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds one analysis run's settings, loaded from flags, env, or
// config file. It is built once and passed into every component; core logic
// never reads ambient state.
type Config struct {
	Date                string
	Contract            string
	Wallet              string
	AnchorHour          int
	APIURL              string
	APIKey              string
	RPCURL              string
	Topic0              string
	TxBatch             uint64
	LogBatch            uint64
	DiscoverConcurrency int
	RetryDelay          time.Duration
	Out                 string
	HashesOut           string
	PGDSN               string
	LogLevel            string
}

// Load merges config file, ANALYZER_* environment variables, and flags.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("anchor-hour", 14)
	v.SetDefault("api-url", "https://api.etherscan.io/api")
	v.SetDefault("tx-batch", uint64(10_000))
	v.SetDefault("log-batch", uint64(1_000))
	v.SetDefault("discover-concurrency", 100)
	v.SetDefault("retry-delay", time.Second)
	v.SetDefault("out", "./data/daily_analysis.json")
	v.SetDefault("hashes-out", "./data/tx_hashes.json")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Date:                v.GetString("date"),
		Contract:            strings.ToLower(strings.TrimSpace(v.GetString("contract"))),
		Wallet:              strings.ToLower(strings.TrimSpace(v.GetString("wallet"))),
		AnchorHour:          v.GetInt("anchor-hour"),
		APIURL:              v.GetString("api-url"),
		APIKey:              v.GetString("api-key"),
		RPCURL:              v.GetString("rpc"),
		Topic0:              strings.TrimSpace(v.GetString("topic0")),
		TxBatch:             v.GetUint64("tx-batch"),
		LogBatch:            v.GetUint64("log-batch"),
		DiscoverConcurrency: v.GetInt("discover-concurrency"),
		RetryDelay:          v.GetDuration("retry-delay"),
		Out:                 v.GetString("out"),
		HashesOut:           v.GetString("hashes-out"),
		PGDSN:               v.GetString("pg-dsn"),
		LogLevel:            v.GetString("log-level"),
	}

	return cfg, nil
}
