package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"profitScope/internal/analyzer"
	"profitScope/internal/chain"
	"profitScope/internal/config"
	"profitScope/internal/ledger"
	"profitScope/internal/storage"
)

func runEvents(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.ValidateContract(); err != nil {
		return err
	}
	if cfg.Topic0 == "" {
		return &config.ValidationError{Field: "topic0", Reason: "required"}
	}
	if cfg.RPCURL == "" {
		return &config.ValidationError{Field: "rpc", Reason: "required"}
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	ledgerClient := ledger.NewClient(cfg.APIURL, cfg.APIKey, logger)

	window, err := analyzer.DayWindow(cfg.Date, cfg.AnchorHour)
	if err != nil {
		return err
	}

	logger.Info("events start",
		zap.String("date", cfg.Date),
		zap.String("contract", cfg.Contract),
		zap.String("topic0", cfg.Topic0),
		zap.Uint64("log_batch", cfg.LogBatch),
	)

	resolver := analyzer.NewResolver(ledgerClient, chainClient, logger)
	blockRange, err := resolver.Resolve(ctx, window)
	if err != nil {
		return err
	}

	fetcher := analyzer.NewFetcher(analyzer.FetchConfig{
		LogStep:    cfg.LogBatch,
		RetryDelay: cfg.RetryDelay,
	}, ledgerClient, chainClient, logger)

	logs, err := fetcher.Logs(ctx, common.HexToAddress(cfg.Contract), common.HexToHash(cfg.Topic0), blockRange)
	if err != nil {
		return fmt.Errorf("fetch logs: %w", err)
	}

	// Keep only logs whose block falls inside the daily window, one hash per
	// transaction, in encounter order.
	hashes := make([]string, 0, len(logs))
	seen := make(map[string]struct{}, len(logs))
	for _, log := range logs {
		ts, err := chainClient.BlockTimestamp(ctx, log.BlockNumber)
		if err != nil {
			return fmt.Errorf("block timestamp %d: %w", log.BlockNumber, err)
		}
		if !window.Contains(ts) {
			continue
		}
		hash := log.TxHash.Hex()
		if _, ok := seen[hash]; ok {
			continue
		}
		seen[hash] = struct{}{}
		hashes = append(hashes, hash)
	}

	contracts := analyzer.DiscoverContracts(ctx, ledgerClient, hashes, cfg.DiscoverConcurrency, logger)
	logger.Info("destination contracts discovered",
		zap.Int("hashes", len(hashes)),
		zap.Int("distinct", distinctCount(contracts)),
	)

	var sink storage.Sink = storage.NewFileSink(cfg.Out, cfg.HashesOut)
	if err := sink.PutHashList(hashes); err != nil {
		return fmt.Errorf("write hash list: %w", err)
	}

	logger.Info("events complete",
		zap.Int("logs", len(logs)),
		zap.Int("hashes", len(hashes)),
		zap.String("hashes_out", cfg.HashesOut),
	)
	return nil
}
