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

func runInflow(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
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

	logger.Info("inflow start",
		zap.String("date", cfg.Date),
		zap.String("wallet", cfg.Wallet),
		zap.Int("anchor_hour", cfg.AnchorHour),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)

	resolver := analyzer.NewResolver(ledgerClient, ledgerClient, logger)
	blockRange, err := resolver.Resolve(ctx, window)
	if err != nil {
		return err
	}

	fetcher := analyzer.NewFetcher(analyzer.FetchConfig{
		TxStep:     cfg.TxBatch,
		RetryDelay: cfg.RetryDelay,
	}, ledgerClient, nil, logger)

	transfers, err := fetcher.InternalTransfers(ctx, cfg.Wallet, blockRange)
	if err != nil {
		return fmt.Errorf("fetch internal transfers: %w", err)
	}

	agg := analyzer.NewAggregator(nil, logger)
	analysis := agg.AggregateInflows(cfg.Date, cfg.Wallet, window, transfers)
	analysis.AssetPriceUSD = assetPrice(ctx, ledgerClient, logger)

	var sink storage.Sink = storage.NewFileSink(cfg.Out, cfg.HashesOut)
	if err := sink.PutAnalysis(analysis); err != nil {
		return fmt.Errorf("write analysis: %w", err)
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

	logger.Info("inflow complete",
		zap.Int("transfers", analysis.TotalTransactions),
		zap.String("total_profit", model.BigString(analysis.TotalProfit)),
		zap.String("out", cfg.Out),
	)
	return nil
}
