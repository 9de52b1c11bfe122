package analyzer

import "fmt"

// BlockRange represents an inclusive block range.
type BlockRange struct {
	From uint64
	To   uint64
}

// SplitRange splits a block range into consecutive windows of at most step
// blocks, in ascending order. Re-running with any step > 0 over the same
// range covers the same blocks exactly once.
func SplitRange(from, to, step uint64) ([]BlockRange, error) {
	if step == 0 {
		return nil, fmt.Errorf("step must be greater than zero")
	}
	if to < from {
		return nil, fmt.Errorf("to block must be >= from block")
	}

	windows := make([]BlockRange, 0)
	for cursor := from; cursor <= to; {
		end := to
		if remaining := to - cursor + 1; remaining > step {
			end = cursor + step - 1
		}
		windows = append(windows, BlockRange{From: cursor, To: end})
		if end == to {
			break
		}
		cursor = end + 1
	}

	return windows, nil
}
