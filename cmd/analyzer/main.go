package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "analyzer",
		Short:        "Daily transaction profit analyzer",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one day of contract activity for the main wallet",
		RunE:  runAnalyze,
	}
	addCommonFlags(analyzeCmd)
	analyzeCmd.Flags().String("contract", "", "contract address")
	analyzeCmd.Flags().Int("discover-concurrency", 100, "max in-flight contract discovery lookups")
	root.AddCommand(analyzeCmd)

	inflowCmd := &cobra.Command{
		Use:   "inflow",
		Short: "Analyze one day of direct internal transfers into the wallet",
		RunE:  runInflow,
	}
	addCommonFlags(inflowCmd)
	root.AddCommand(inflowCmd)

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Collect one day of contract event transaction hashes",
		RunE:  runEvents,
	}
	addCommonFlags(eventsCmd)
	eventsCmd.Flags().String("contract", "", "contract address")
	eventsCmd.Flags().String("topic0", "", "event topic0 hash")
	eventsCmd.Flags().String("rpc", "", "chain RPC URL")
	eventsCmd.Flags().Uint64("log-batch", 1000, "blocks per log listing call")
	eventsCmd.Flags().Int("discover-concurrency", 100, "max in-flight contract discovery lookups")
	root.AddCommand(eventsCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "analysis date (YYYY-MM-DD)")
	cmd.Flags().String("wallet", "", "main wallet address")
	cmd.Flags().Int("anchor-hour", 14, "UTC hour at which the daily window begins")
	cmd.Flags().String("api-url", "https://api.etherscan.io/api", "ledger query API URL")
	cmd.Flags().String("api-key", "", "ledger query API key")
	cmd.Flags().Uint64("tx-batch", 10000, "blocks per transaction listing call")
	cmd.Flags().Duration("retry-delay", time.Second, "delay before the single listing retry")
	cmd.Flags().String("out", "./data/daily_analysis.json", "analysis report output path")
	cmd.Flags().String("hashes-out", "./data/tx_hashes.json", "transaction hash list output path")
	cmd.Flags().String("pg-dsn", "", "optional Postgres DSN for persistence")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
