package analyzer

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// TransactionLookup resolves the destination address of a transaction hash.
type TransactionLookup interface {
	TransactionTo(ctx context.Context, hash string) (string, error)
}

// DiscoverContracts resolves the destination contract for each transaction
// hash with at most concurrency lookups in flight. The result slice is
// indexed by input position, not completion order. A failed lookup yields an
// empty string; the fan-out never aborts because of one item.
func DiscoverContracts(ctx context.Context, lookup TransactionLookup, hashes []string, concurrency int, logger *zap.Logger) []string {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]string, len(hashes))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, hash := range hashes {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, hash string) {
			defer wg.Done()
			defer func() { <-sem }()

			to, err := lookup.TransactionTo(ctx, hash)
			if err != nil {
				logger.Warn("contract discovery failed", zap.Error(err), zap.String("hash", hash))
				return
			}
			results[i] = to
		}(i, hash)
	}

	wg.Wait()
	return results
}
