package analyzer

import (
	"context"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"profitScope/internal/model"
)

// Aggregator filters candidate transactions into the exact daily window and
// sums profit fields with exact integer arithmetic.
type Aggregator struct {
	calc   *Calculator
	logger *zap.Logger
}

// NewAggregator builds an Aggregator around a Calculator.
func NewAggregator(calc *Calculator, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{calc: calc, logger: logger}
}

// Aggregate drives the calculator over every transaction inside the window,
// in encounter order, and returns the daily aggregate. An empty day is a
// zero-valued aggregate, not an error.
func (a *Aggregator) Aggregate(ctx context.Context, date string, window TimeWindow, txs []model.RawTransaction) model.DailyAnalysis {
	analysis := model.NewDailyAnalysis(date, a.calc.contract, a.calc.wallet, window.Start, window.End)

	var skipped int
	for _, tx := range txs {
		if !window.Contains(tx.Timestamp()) {
			skipped++
			continue
		}
		profit := a.calc.Profit(ctx, tx)
		accumulate(&analysis, profit)
	}

	a.logger.Info("daily aggregate complete",
		zap.String("date", date),
		zap.Int("transactions", analysis.TotalTransactions),
		zap.Int("outside_window", skipped),
		zap.String("total_profit", model.BigString(analysis.TotalProfit)),
	)
	return analysis
}

// AggregateInflows builds the aggregate for the simplified wallet-inflow
// variant: each transfer into the wallet counts its own value as profit, no
// gas is deducted, and the recipient filter is case-insensitive.
func (a *Aggregator) AggregateInflows(date, wallet string, window TimeWindow, transfers []model.InternalTransfer) model.DailyAnalysis {
	wallet = strings.ToLower(wallet)
	analysis := model.NewDailyAnalysis(date, "", wallet, window.Start, window.End)

	for _, transfer := range transfers {
		if !window.Contains(transfer.Timestamp()) {
			continue
		}
		if strings.ToLower(transfer.To) != wallet {
			continue
		}

		value := transfer.ValueInt()
		profit := model.TransactionProfit{
			Hash:                  transfer.Hash,
			Timestamp:             transfer.Timestamp(),
			From:                  transfer.From,
			GasFee:                big.NewInt(0),
			ContractToWalletValue: value,
			ContractToOriginValue: big.NewInt(0),
			TotalInternalValue:    value,
			NetProfit:             value,
		}
		accumulate(&analysis, profit)
	}

	a.logger.Info("inflow aggregate complete",
		zap.String("date", date),
		zap.Int("transfers", analysis.TotalTransactions),
		zap.String("total_profit", model.BigString(analysis.TotalProfit)),
	)
	return analysis
}

func accumulate(analysis *model.DailyAnalysis, profit model.TransactionProfit) {
	analysis.Transactions = append(analysis.Transactions, profit)
	analysis.TotalTransactions = len(analysis.Transactions)
	analysis.TotalProfit.Add(analysis.TotalProfit, profit.NetProfit)
	analysis.TotalGasFees.Add(analysis.TotalGasFees, profit.GasFee)
	analysis.TotalInternalValue.Add(analysis.TotalInternalValue, profit.TotalInternalValue)
}
