package analyzer

import (
	"context"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"profitScope/internal/model"
)

// TransferSource lists internal transfers belonging to one parent
// transaction hash.
type TransferSource interface {
	InternalTransfersByHash(ctx context.Context, hash string) ([]model.InternalTransfer, error)
}

// Calculator computes per-transaction profit for the configured contract and
// main wallet. Both addresses are lowercase-normalized at construction.
type Calculator struct {
	transfers TransferSource
	contract  string
	wallet    string
	logger    *zap.Logger
}

// NewCalculator builds a Calculator for one (contract, wallet) pair.
func NewCalculator(transfers TransferSource, contract, wallet string, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{
		transfers: transfers,
		contract:  strings.ToLower(contract),
		wallet:    strings.ToLower(wallet),
		logger:    logger,
	}
}

// Profit computes the profit breakdown for one transaction. A failed
// internal-transfer lookup is logged and treated as an empty list for this
// transaction only.
func (c *Calculator) Profit(ctx context.Context, tx model.RawTransaction) model.TransactionProfit {
	gasFee := new(big.Int).Mul(tx.GasUsedInt(), tx.GasPriceInt())

	transfers, err := c.transfers.InternalTransfersByHash(ctx, tx.Hash)
	if err != nil {
		c.logger.Warn("internal transfer lookup failed",
			zap.Error(err),
			zap.String("hash", tx.Hash),
		)
		transfers = nil
	}

	toWallet := big.NewInt(0)
	toOrigin := big.NewInt(0)
	origin := strings.ToLower(tx.From)
	for _, transfer := range transfers {
		from := strings.ToLower(transfer.From)
		to := strings.ToLower(transfer.To)
		if from != c.contract {
			continue
		}
		switch {
		case to == c.wallet:
			toWallet.Add(toWallet, transfer.ValueInt())
		case to == origin && to != c.wallet:
			toOrigin.Add(toOrigin, transfer.ValueInt())
		}
	}

	total := new(big.Int).Add(toWallet, toOrigin)
	return model.TransactionProfit{
		Hash:                  tx.Hash,
		BlockNumber:           tx.Block(),
		Timestamp:             tx.Timestamp(),
		From:                  tx.From,
		GasFee:                gasFee,
		ContractToWalletValue: toWallet,
		ContractToOriginValue: toOrigin,
		TotalInternalValue:    total,
		NetProfit:             new(big.Int).Sub(total, gasFee),
	}
}
