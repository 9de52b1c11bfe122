package model

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"
)

func TestDailyAnalysisJSONRoundTrip(t *testing.T) {
	original := NewDailyAnalysis("2025-09-10",
		"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		1757512800, 1757599200)
	original.Transactions = []TransactionProfit{{
		Hash:                  "0x1",
		BlockNumber:           23300123,
		Timestamp:             1757512900,
		From:                  "0xcccccccccccccccccccccccccccccccccccccccc",
		GasFee:                big.NewInt(1050000000000000),
		ContractToWalletValue: big.NewInt(2000000000000000),
		ContractToOriginValue: big.NewInt(0),
		TotalInternalValue:    big.NewInt(2000000000000000),
		NetProfit:             big.NewInt(950000000000000),
	}}
	original.TotalTransactions = 1
	original.TotalProfit = big.NewInt(950000000000000)
	original.TotalGasFees = big.NewInt(1050000000000000)
	original.TotalInternalValue = big.NewInt(2000000000000000)

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Monetary fields must serialize as decimal strings, never JSON numbers.
	if !strings.Contains(string(b), `"total_profit":"950000000000000"`) {
		t.Fatalf("total profit not encoded as string: %s", b)
	}
	if !strings.Contains(string(b), `"gas_fee":"1050000000000000"`) {
		t.Fatalf("gas fee not encoded as string: %s", b)
	}

	var decoded DailyAnalysis
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.TotalProfit.Cmp(original.TotalProfit) != 0 {
		t.Fatalf("total profit mismatch after round trip")
	}
	if len(decoded.Transactions) != 1 || decoded.Transactions[0].NetProfit.Cmp(original.Transactions[0].NetProfit) != 0 {
		t.Fatalf("transactions mismatch after round trip")
	}
}

func TestParseBigIntMalformed(t *testing.T) {
	for _, input := range []string{"", "abc", "1.5", "0x10"} {
		if got := ParseBigInt(input); got.Sign() != 0 {
			t.Fatalf("ParseBigInt(%q) = %s, want 0", input, got)
		}
	}
	if got := ParseBigInt("-42"); got.String() != "-42" {
		t.Fatalf("ParseBigInt(-42) = %s", got)
	}
}

func TestNegativeNetProfitSerializes(t *testing.T) {
	profit := TransactionProfit{
		Hash:                  "0x1",
		GasFee:                big.NewInt(100),
		ContractToWalletValue: big.NewInt(0),
		ContractToOriginValue: big.NewInt(0),
		TotalInternalValue:    big.NewInt(0),
		NetProfit:             big.NewInt(-100),
	}

	b, err := json.Marshal(profit)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(b), `"net_profit":"-100"`) {
		t.Fatalf("negative profit not preserved: %s", b)
	}
}
