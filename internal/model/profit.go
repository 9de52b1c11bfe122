package model

import (
	"encoding/json"
	"math/big"
)

// TransactionProfit is the per-transaction profit breakdown for the main
// wallet. All monetary fields are exact base-unit integers:
// TotalInternalValue = ContractToWalletValue + ContractToOriginValue and
// NetProfit = TotalInternalValue - GasFee.
type TransactionProfit struct {
	Hash                  string
	BlockNumber           uint64
	Timestamp             uint64
	From                  string
	GasFee                *big.Int
	ContractToWalletValue *big.Int
	ContractToOriginValue *big.Int
	TotalInternalValue    *big.Int
	NetProfit             *big.Int
}

type transactionProfitWire struct {
	Hash                  string `json:"hash"`
	BlockNumber           uint64 `json:"block_number"`
	Timestamp             uint64 `json:"timestamp"`
	From                  string `json:"from"`
	GasFee                string `json:"gas_fee"`
	ContractToWalletValue string `json:"contract_to_wallet_value"`
	ContractToOriginValue string `json:"contract_to_origin_value"`
	TotalInternalValue    string `json:"total_internal_value"`
	NetProfit             string `json:"net_profit"`
}

// MarshalJSON encodes monetary fields as decimal strings.
func (p TransactionProfit) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionProfitWire{
		Hash:                  p.Hash,
		BlockNumber:           p.BlockNumber,
		Timestamp:             p.Timestamp,
		From:                  p.From,
		GasFee:                BigString(p.GasFee),
		ContractToWalletValue: BigString(p.ContractToWalletValue),
		ContractToOriginValue: BigString(p.ContractToOriginValue),
		TotalInternalValue:    BigString(p.TotalInternalValue),
		NetProfit:             BigString(p.NetProfit),
	})
}

// UnmarshalJSON decodes monetary fields from decimal strings.
func (p *TransactionProfit) UnmarshalJSON(data []byte) error {
	var wire transactionProfitWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*p = TransactionProfit{
		Hash:                  wire.Hash,
		BlockNumber:           wire.BlockNumber,
		Timestamp:             wire.Timestamp,
		From:                  wire.From,
		GasFee:                ParseBigInt(wire.GasFee),
		ContractToWalletValue: ParseBigInt(wire.ContractToWalletValue),
		ContractToOriginValue: ParseBigInt(wire.ContractToOriginValue),
		TotalInternalValue:    ParseBigInt(wire.TotalInternalValue),
		NetProfit:             ParseBigInt(wire.NetProfit),
	}
	return nil
}

// BigString renders a big integer as a decimal string, "0" for nil.
func BigString(value *big.Int) string {
	if value == nil {
		return "0"
	}
	return value.String()
}
