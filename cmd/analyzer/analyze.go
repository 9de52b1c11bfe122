package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"profitScope/internal/analyzer"
	"profitScope/internal/config"
	"profitScope/internal/ledger"
	"profitScope/internal/model"
	"profitScope/internal/storage"
	"profitScope/internal/storage/postgres"
)

func runAnalyze(cmd *cobra.Command, _ []string) error {
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

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledgerClient := ledger.NewClient(cfg.APIURL, cfg.APIKey, logger)

	window, err := analyzer.DayWindow(cfg.Date, cfg.AnchorHour)
	if err != nil {
		return err
	}

	logger.Info("analyze start",
		zap.String("date", cfg.Date),
		zap.String("contract", cfg.Contract),
		zap.String("wallet", cfg.Wallet),
		zap.Int("anchor_hour", cfg.AnchorHour),
		zap.Uint64("start_ts", window.Start),
		zap.Uint64("end_ts", window.End),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)

	resolver := analyzer.NewResolver(ledgerClient, ledgerClient, logger)
	blockRange, err := resolver.Resolve(ctx, window)
	if err != nil {
		return err
	}
	logger.Info("block range resolved",
		zap.Uint64("from", blockRange.From),
		zap.Uint64("to", blockRange.To),
	)

	fetcher := analyzer.NewFetcher(analyzer.FetchConfig{
		TxStep:     cfg.TxBatch,
		RetryDelay: cfg.RetryDelay,
	}, ledgerClient, nil, logger)

	txs, err := fetcher.Transactions(ctx, cfg.Contract, blockRange)
	if err != nil {
		return fmt.Errorf("fetch transactions: %w", err)
	}
	if len(txs) == 0 {
		logger.Warn("no transactions returned for range, totals may be incomplete",
			zap.Uint64("from", blockRange.From),
			zap.Uint64("to", blockRange.To),
		)
	}

	calc := analyzer.NewCalculator(ledgerClient, cfg.Contract, cfg.Wallet, logger)
	analysis := analyzer.NewAggregator(calc, logger).Aggregate(ctx, cfg.Date, window, txs)
	analysis.AssetPriceUSD = assetPrice(ctx, ledgerClient, logger)

	hashes := make([]string, 0, len(analysis.Transactions))
	for _, tx := range analysis.Transactions {
		hashes = append(hashes, tx.Hash)
	}

	contracts := analyzer.DiscoverContracts(ctx, ledgerClient, hashes, cfg.DiscoverConcurrency, logger)
	logger.Info("destination contracts discovered",
		zap.Int("hashes", len(hashes)),
		zap.Int("distinct", distinctCount(contracts)),
	)

	var sink storage.Sink = storage.NewFileSink(cfg.Out, cfg.HashesOut)
	if err := sink.PutAnalysis(analysis); err != nil {
		return fmt.Errorf("write analysis: %w", err)
	}
	if err := sink.PutHashList(hashes); err != nil {
		return fmt.Errorf("write hash list: %w", err)
	}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.SaveAnalysis(ctx, analysis); err != nil {
			return fmt.Errorf("persist analysis: %w", err)
		}
	}

	logger.Info("analyze complete",
		zap.Int("transactions", analysis.TotalTransactions),
		zap.String("total_profit", model.BigString(analysis.TotalProfit)),
		zap.String("total_gas_fees", model.BigString(analysis.TotalGasFees)),
		zap.String("out", cfg.Out),
	)
	return nil
}

func assetPrice(ctx context.Context, client *ledger.Client, logger *zap.Logger) float64 {
	price, err := client.AssetPrice(ctx)
	if err != nil {
		logger.Warn("asset price unavailable, using zero", zap.Error(err))
		return 0
	}
	return price
}

func distinctCount(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}
