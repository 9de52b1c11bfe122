package model

import (
	"encoding/json"
	"math/big"
)

// DailyAnalysis is the aggregate result for one (date, contract, wallet)
// run. Every total is the exact integer sum of the corresponding field over
// Transactions; AssetPriceUSD is best-effort display context only and never
// participates in profit arithmetic.
type DailyAnalysis struct {
	Date               string
	Contract           string
	Wallet             string
	StartTimestamp     uint64
	EndTimestamp       uint64
	Transactions       []TransactionProfit
	TotalTransactions  int
	TotalProfit        *big.Int
	TotalGasFees       *big.Int
	TotalInternalValue *big.Int
	AssetPriceUSD      float64
}

// NewDailyAnalysis returns an empty analysis with zero-valued totals.
func NewDailyAnalysis(date, contract, wallet string, startTs, endTs uint64) DailyAnalysis {
	return DailyAnalysis{
		Date:               date,
		Contract:           contract,
		Wallet:             wallet,
		StartTimestamp:     startTs,
		EndTimestamp:       endTs,
		Transactions:       []TransactionProfit{},
		TotalProfit:        big.NewInt(0),
		TotalGasFees:       big.NewInt(0),
		TotalInternalValue: big.NewInt(0),
	}
}

type dailyAnalysisWire struct {
	Date               string              `json:"date"`
	Contract           string              `json:"contract"`
	Wallet             string              `json:"wallet"`
	StartTimestamp     uint64              `json:"start_timestamp"`
	EndTimestamp       uint64              `json:"end_timestamp"`
	Transactions       []TransactionProfit `json:"transactions"`
	TotalTransactions  int                 `json:"total_transactions"`
	TotalProfit        string              `json:"total_profit"`
	TotalGasFees       string              `json:"total_gas_fees"`
	TotalInternalValue string              `json:"total_internal_value"`
	AssetPriceUSD      float64             `json:"asset_price_usd"`
}

// MarshalJSON encodes aggregate totals as decimal strings.
func (a DailyAnalysis) MarshalJSON() ([]byte, error) {
	txs := a.Transactions
	if txs == nil {
		txs = []TransactionProfit{}
	}
	return json.Marshal(dailyAnalysisWire{
		Date:               a.Date,
		Contract:           a.Contract,
		Wallet:             a.Wallet,
		StartTimestamp:     a.StartTimestamp,
		EndTimestamp:       a.EndTimestamp,
		Transactions:       txs,
		TotalTransactions:  a.TotalTransactions,
		TotalProfit:        BigString(a.TotalProfit),
		TotalGasFees:       BigString(a.TotalGasFees),
		TotalInternalValue: BigString(a.TotalInternalValue),
		AssetPriceUSD:      a.AssetPriceUSD,
	})
}

// UnmarshalJSON decodes aggregate totals from decimal strings.
func (a *DailyAnalysis) UnmarshalJSON(data []byte) error {
	var wire dailyAnalysisWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*a = DailyAnalysis{
		Date:               wire.Date,
		Contract:           wire.Contract,
		Wallet:             wire.Wallet,
		StartTimestamp:     wire.StartTimestamp,
		EndTimestamp:       wire.EndTimestamp,
		Transactions:       wire.Transactions,
		TotalTransactions:  wire.TotalTransactions,
		TotalProfit:        ParseBigInt(wire.TotalProfit),
		TotalGasFees:       ParseBigInt(wire.TotalGasFees),
		TotalInternalValue: ParseBigInt(wire.TotalInternalValue),
		AssetPriceUSD:      wire.AssetPriceUSD,
	}
	return nil
}
