package analyzer

import (
	"context"
	"errors"
	"testing"

	"profitScope/internal/model"
)

const (
	testContract = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testWallet   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	testOrigin   = "0xcccccccccccccccccccccccccccccccccccccccc"
)

type fakeTransfers struct {
	byHash map[string][]model.InternalTransfer
	errFor map[string]error
}

func (f *fakeTransfers) InternalTransfersByHash(_ context.Context, hash string) ([]model.InternalTransfer, error) {
	if err := f.errFor[hash]; err != nil {
		return nil, err
	}
	return f.byHash[hash], nil
}

func TestProfitGasAndTransfer(t *testing.T) {
	source := &fakeTransfers{byHash: map[string][]model.InternalTransfer{
		"0x1": {
			{Hash: "0x1", From: testContract, To: testWallet, Value: "2000000000000000"},
		},
	}}
	calc := NewCalculator(source, testContract, testWallet, nil)

	profit := calc.Profit(context.Background(), model.RawTransaction{
		Hash:     "0x1",
		From:     testOrigin,
		GasUsed:  "21000",
		GasPrice: "50000000000",
	})

	if got := profit.GasFee.String(); got != "1050000000000000" {
		t.Fatalf("gas fee = %s, want 1050000000000000", got)
	}
	if got := profit.ContractToWalletValue.String(); got != "2000000000000000" {
		t.Fatalf("contract-to-wallet = %s, want 2000000000000000", got)
	}
	if got := profit.NetProfit.String(); got != "950000000000000" {
		t.Fatalf("net profit = %s, want 950000000000000", got)
	}
}

func TestProfitInvariants(t *testing.T) {
	source := &fakeTransfers{byHash: map[string][]model.InternalTransfer{
		"0x1": {
			{Hash: "0x1", From: testContract, To: testWallet, Value: "300"},
			{Hash: "0x1", From: testContract, To: testOrigin, Value: "200"},
			// unrelated transfer, ignored
			{Hash: "0x1", From: testWallet, To: testOrigin, Value: "999"},
		},
	}}
	calc := NewCalculator(source, testContract, testWallet, nil)

	profit := calc.Profit(context.Background(), model.RawTransaction{
		Hash:     "0x1",
		From:     testOrigin,
		GasUsed:  "10",
		GasPrice: "10",
	})

	sum := profit.ContractToWalletValue.String()
	if sum != "300" {
		t.Fatalf("contract-to-wallet = %s, want 300", sum)
	}
	if got := profit.ContractToOriginValue.String(); got != "200" {
		t.Fatalf("contract-to-origin = %s, want 200", got)
	}
	if got := profit.TotalInternalValue.String(); got != "500" {
		t.Fatalf("total internal = %s, want 500", got)
	}
	if got := profit.NetProfit.String(); got != "400" {
		t.Fatalf("net profit = %s, want 400 (can differ from total by exactly gas)", got)
	}
}

func TestProfitAddressCaseInsensitive(t *testing.T) {
	source := &fakeTransfers{byHash: map[string][]model.InternalTransfer{
		"0x1": {
			{Hash: "0x1", From: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", To: "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB", Value: "100"},
		},
	}}
	calc := NewCalculator(source, testContract, "0xBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBb", nil)

	profit := calc.Profit(context.Background(), model.RawTransaction{Hash: "0x1", From: testOrigin})
	if got := profit.ContractToWalletValue.String(); got != "100" {
		t.Fatalf("contract-to-wallet = %s, want 100 despite case differences", got)
	}
}

func TestProfitOriginEqualsWalletNotDoubleCounted(t *testing.T) {
	source := &fakeTransfers{byHash: map[string][]model.InternalTransfer{
		"0x1": {
			{Hash: "0x1", From: testContract, To: testWallet, Value: "100"},
		},
	}}
	calc := NewCalculator(source, testContract, testWallet, nil)

	// The origin is the wallet itself: the transfer counts once, as
	// contract-to-wallet.
	profit := calc.Profit(context.Background(), model.RawTransaction{Hash: "0x1", From: testWallet})
	if got := profit.ContractToWalletValue.String(); got != "100" {
		t.Fatalf("contract-to-wallet = %s, want 100", got)
	}
	if got := profit.ContractToOriginValue.String(); got != "0" {
		t.Fatalf("contract-to-origin = %s, want 0", got)
	}
}

func TestProfitEnrichmentFailureIsolated(t *testing.T) {
	source := &fakeTransfers{
		byHash: map[string][]model.InternalTransfer{
			"0xgood": {{Hash: "0xgood", From: testContract, To: testWallet, Value: "500"}},
		},
		errFor: map[string]error{"0xbad": errors.New("lookup failed")},
	}
	calc := NewCalculator(source, testContract, testWallet, nil)

	bad := calc.Profit(context.Background(), model.RawTransaction{Hash: "0xbad", From: testOrigin, GasUsed: "2", GasPrice: "3"})
	if got := bad.TotalInternalValue.String(); got != "0" {
		t.Fatalf("failed enrichment total = %s, want 0", got)
	}
	if got := bad.NetProfit.String(); got != "-6" {
		t.Fatalf("failed enrichment net = %s, want -6 (gas still paid)", got)
	}

	good := calc.Profit(context.Background(), model.RawTransaction{Hash: "0xgood", From: testOrigin})
	if got := good.NetProfit.String(); got != "500" {
		t.Fatalf("sibling transaction net = %s, want 500", got)
	}
}
