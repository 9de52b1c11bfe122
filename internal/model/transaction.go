package model

import "math/big"

// RawTransaction is a primary transaction row as returned by the ledger
// query service. Numeric fields arrive as decimal strings in base units.
type RawTransaction struct {
	Hash        string `json:"hash"`
	BlockNumber string `json:"blockNumber"`
	TimeStamp   string `json:"timeStamp"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	GasUsed     string `json:"gasUsed"`
	GasPrice    string `json:"gasPrice"`
}

// Block returns the block number, zero if malformed.
func (t RawTransaction) Block() uint64 {
	return parseUint(t.BlockNumber)
}

// Timestamp returns the unix timestamp in seconds, zero if malformed.
func (t RawTransaction) Timestamp() uint64 {
	return parseUint(t.TimeStamp)
}

// ValueInt returns the transferred value in base units.
func (t RawTransaction) ValueInt() *big.Int {
	return ParseBigInt(t.Value)
}

// GasUsedInt returns the consumed gas units.
func (t RawTransaction) GasUsedInt() *big.Int {
	return ParseBigInt(t.GasUsed)
}

// GasPriceInt returns the gas unit price in base units.
func (t RawTransaction) GasPriceInt() *big.Int {
	return ParseBigInt(t.GasPrice)
}

// InternalTransfer is a value movement caused by contract execution inside a
// parent transaction. Hash refers to the parent transaction.
type InternalTransfer struct {
	Hash      string `json:"hash"`
	From      string `json:"from"`
	To        string `json:"to"`
	Value     string `json:"value"`
	TimeStamp string `json:"timeStamp"`
}

// Timestamp returns the unix timestamp in seconds, zero if malformed.
func (t InternalTransfer) Timestamp() uint64 {
	return parseUint(t.TimeStamp)
}

// ValueInt returns the transferred value in base units.
func (t InternalTransfer) ValueInt() *big.Int {
	return ParseBigInt(t.Value)
}

// ParseBigInt parses a decimal string into a big integer. Empty or malformed
// input yields zero so that one bad upstream row cannot poison arithmetic.
func ParseBigInt(value string) *big.Int {
	if value == "" {
		return big.NewInt(0)
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return big.NewInt(0)
	}
	return parsed
}

func parseUint(value string) uint64 {
	parsed := ParseBigInt(value)
	if !parsed.IsUint64() {
		return 0
	}
	return parsed.Uint64()
}
