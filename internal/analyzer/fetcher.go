package analyzer

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"profitScope/internal/model"
)

// TransactionSource is the slice of the ledger-query service the fetcher
// consumes for account listings.
type TransactionSource interface {
	TransactionsByAddress(ctx context.Context, address string, startBlock, endBlock uint64) ([]model.RawTransaction, error)
	InternalTransfersByAddress(ctx context.Context, address string, startBlock, endBlock uint64) ([]model.InternalTransfer, error)
}

// LogSource lists event logs for one address and topic0 over a block range.
type LogSource interface {
	FilterLogs(ctx context.Context, fromBlock, toBlock uint64, address common.Address, topic0 common.Hash) ([]types.Log, error)
}

// FetchConfig holds the fetcher's batching parameters. TxStep is the coarse
// window for account listings, LogStep the finer window for log listings.
type FetchConfig struct {
	TxStep     uint64
	LogStep    uint64
	RetryDelay time.Duration
}

// Fetcher retrieves all matching records across a block range when the
// upstream caps each call's window or row count. A window whose listing call
// fails twice contributes an empty step rather than aborting the fetch.
type Fetcher struct {
	cfg    FetchConfig
	source TransactionSource
	logs   LogSource
	logger *zap.Logger
}

// NewFetcher builds a Fetcher. logs may be nil when no log listing is used.
func NewFetcher(cfg FetchConfig, source TransactionSource, logs LogSource, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TxStep == 0 {
		cfg.TxStep = 10_000
	}
	if cfg.LogStep == 0 {
		cfg.LogStep = 1_000
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	return &Fetcher{cfg: cfg, source: source, logs: logs, logger: logger}
}

// Transactions lists primary transactions for the address across the range,
// window by window in ascending order.
func (f *Fetcher) Transactions(ctx context.Context, address string, rng BlockRange) ([]model.RawTransaction, error) {
	windows, err := SplitRange(rng.From, rng.To, f.cfg.TxStep)
	if err != nil {
		return nil, err
	}

	all := make([]model.RawTransaction, 0)
	for _, window := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var batch []model.RawTransaction
		err := retryOnce(ctx, f.cfg.RetryDelay, func(ctx context.Context) error {
			var err error
			batch, err = f.source.TransactionsByAddress(ctx, address, window.From, window.To)
			return err
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.logger.Warn("transaction window degraded to empty",
				zap.Error(err),
				zap.Uint64("from", window.From),
				zap.Uint64("to", window.To),
			)
			continue
		}

		f.logger.Debug("transaction window fetched",
			zap.Int("count", len(batch)),
			zap.Uint64("from", window.From),
			zap.Uint64("to", window.To),
		)
		all = append(all, batch...)
	}

	return all, nil
}

// InternalTransfers lists internal transfers touching the address across the
// range, used by the wallet-inflow variant.
func (f *Fetcher) InternalTransfers(ctx context.Context, address string, rng BlockRange) ([]model.InternalTransfer, error) {
	windows, err := SplitRange(rng.From, rng.To, f.cfg.TxStep)
	if err != nil {
		return nil, err
	}

	all := make([]model.InternalTransfer, 0)
	for _, window := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var batch []model.InternalTransfer
		err := retryOnce(ctx, f.cfg.RetryDelay, func(ctx context.Context) error {
			var err error
			batch, err = f.source.InternalTransfersByAddress(ctx, address, window.From, window.To)
			return err
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.logger.Warn("transfer window degraded to empty",
				zap.Error(err),
				zap.Uint64("from", window.From),
				zap.Uint64("to", window.To),
			)
			continue
		}

		all = append(all, batch...)
	}

	return all, nil
}

// Logs lists event logs for the contract and topic across the range using
// the finer batching step.
func (f *Fetcher) Logs(ctx context.Context, address common.Address, topic0 common.Hash, rng BlockRange) ([]types.Log, error) {
	windows, err := SplitRange(rng.From, rng.To, f.cfg.LogStep)
	if err != nil {
		return nil, err
	}

	all := make([]types.Log, 0)
	for _, window := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var batch []types.Log
		err := retryOnce(ctx, f.cfg.RetryDelay, func(ctx context.Context) error {
			var err error
			batch, err = f.logs.FilterLogs(ctx, window.From, window.To, address, topic0)
			return err
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.logger.Warn("log window degraded to empty",
				zap.Error(err),
				zap.Uint64("from", window.From),
				zap.Uint64("to", window.To),
			)
			continue
		}

		all = append(all, batch...)
	}

	return all, nil
}
