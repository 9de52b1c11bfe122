package analyzer

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"profitScope/internal/model"
)

// fakeListing serves transactions keyed by block number and can fail
// selected windows a configurable number of times.
type fakeListing struct {
	txs      []model.RawTransaction
	failFrom map[uint64]int
	calls    int
}

func (f *fakeListing) TransactionsByAddress(_ context.Context, _ string, startBlock, endBlock uint64) ([]model.RawTransaction, error) {
	f.calls++
	if remaining := f.failFrom[startBlock]; remaining > 0 {
		f.failFrom[startBlock] = remaining - 1
		return nil, errors.New("listing unavailable")
	}

	var out []model.RawTransaction
	for _, tx := range f.txs {
		if block := tx.Block(); block >= startBlock && block <= endBlock {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeListing) InternalTransfersByAddress(_ context.Context, _ string, startBlock, endBlock uint64) ([]model.InternalTransfer, error) {
	return nil, nil
}

func makeTxs(blocks ...uint64) []model.RawTransaction {
	txs := make([]model.RawTransaction, 0, len(blocks))
	for i, block := range blocks {
		txs = append(txs, model.RawTransaction{
			Hash:        fmt.Sprintf("0x%d", i),
			BlockNumber: fmt.Sprintf("%d", block),
		})
	}
	return txs
}

func newTestFetcher(source TransactionSource, txStep uint64) *Fetcher {
	return NewFetcher(FetchConfig{
		TxStep:     txStep,
		RetryDelay: time.Millisecond,
	}, source, nil, nil)
}

func TestFetcherConcatenatesWindowsInOrder(t *testing.T) {
	source := &fakeListing{txs: makeTxs(100, 150, 250, 399)}
	fetcher := newTestFetcher(source, 100)

	got, err := fetcher.Transactions(context.Background(), testContract, BlockRange{From: 100, To: 399})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d transactions, want 4", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Block() < got[i-1].Block() {
			t.Fatalf("transactions out of order at %d", i)
		}
	}
}

func TestFetcherIdempotentAcrossStepSizes(t *testing.T) {
	txs := makeTxs(10, 55, 120, 121, 300)

	var results [][]model.RawTransaction
	for _, step := range []uint64{1000, 50, 7} {
		source := &fakeListing{txs: txs}
		fetcher := newTestFetcher(source, step)
		got, err := fetcher.Transactions(context.Background(), testContract, BlockRange{From: 0, To: 1000})
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", step, err)
		}
		results = append(results, got)
	}

	for i := 1; i < len(results); i++ {
		if !reflect.DeepEqual(results[0], results[i]) {
			t.Fatalf("results differ between step sizes")
		}
	}
}

func TestFetcherRetriesOnceThenSucceeds(t *testing.T) {
	source := &fakeListing{
		txs:      makeTxs(5),
		failFrom: map[uint64]int{0: 1},
	}
	fetcher := newTestFetcher(source, 1000)

	got, err := fetcher.Transactions(context.Background(), testContract, BlockRange{From: 0, To: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d transactions, want 1 after retry", len(got))
	}
	if source.calls != 2 {
		t.Fatalf("calls = %d, want 2", source.calls)
	}
}

func TestFetcherDegradedWindowIsEmptyNotFatal(t *testing.T) {
	source := &fakeListing{
		txs:      makeTxs(50, 150),
		failFrom: map[uint64]int{0: 2},
	}
	fetcher := newTestFetcher(source, 100)

	got, err := fetcher.Transactions(context.Background(), testContract, BlockRange{From: 0, To: 199})
	if err != nil {
		t.Fatalf("degraded window must not fail the fetch: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d transactions, want 1 from the healthy window", len(got))
	}
	if got[0].Block() != 150 {
		t.Fatalf("surviving transaction block = %d, want 150", got[0].Block())
	}
}

func TestFetcherCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := newTestFetcher(&fakeListing{}, 10)
	if _, err := fetcher.Transactions(ctx, testContract, BlockRange{From: 0, To: 100}); err == nil {
		t.Fatalf("expected context error")
	}
}
