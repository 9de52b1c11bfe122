package analyzer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"profitScope/internal/ledger"
)

// TimeWindow is the half-open [Start, End) daily window in unix seconds.
type TimeWindow struct {
	Start uint64
	End   uint64
}

// Contains reports whether ts falls inside the half-open window.
func (w TimeWindow) Contains(ts uint64) bool {
	return ts >= w.Start && ts < w.End
}

// HeadSource provides the current chain head.
type HeadSource interface {
	LatestBlock(ctx context.Context) (uint64, error)
}

// TimestampSource maps a timestamp to the closest block on one side.
type TimestampSource interface {
	BlockByTime(ctx context.Context, timestamp uint64, closest ledger.Closest) (uint64, error)
}

// Resolver converts a calendar date into a block range. Resolved once per
// analysis and immutable thereafter.
type Resolver struct {
	timestamps TimestampSource
	head       HeadSource
	maxRetries int
	baseDelay  time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// NewResolver builds a Resolver from the timestamp and head sources.
func NewResolver(timestamps TimestampSource, head HeadSource, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		timestamps: timestamps,
		head:       head,
		maxRetries: 2,
		baseDelay:  500 * time.Millisecond,
		now:        time.Now,
		logger:     logger,
	}
}

// DayWindow computes the 24-hour UTC window for a date anchored at
// anchorHour. The window is half-open: [start, start+86400).
func DayWindow(date string, anchorHour int) (TimeWindow, error) {
	if anchorHour < 0 || anchorHour > 23 {
		return TimeWindow{}, fmt.Errorf("anchor hour must be in [0,23], got %d", anchorHour)
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("parse date: %w", err)
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), anchorHour, 0, 0, 0, time.UTC)
	return TimeWindow{
		Start: uint64(start.Unix()),
		End:   uint64(start.Unix()) + 86400,
	}, nil
}

// Resolve maps the window to [startBlock, endBlock]. A window ending in the
// future degrades to the current chain head; a stale lookup past the head is
// clamped to it. Lookup failure is a ResolutionError and fatal.
func (r *Resolver) Resolve(ctx context.Context, window TimeWindow) (BlockRange, error) {
	head, err := r.head.LatestBlock(ctx)
	if err != nil {
		return BlockRange{}, fmt.Errorf("get latest block: %w", err)
	}

	startBlock, err := r.blockByTime(ctx, window.Start, ledger.ClosestAfter)
	if err != nil {
		return BlockRange{}, &ResolutionError{Timestamp: window.Start, Closest: string(ledger.ClosestAfter), Err: err}
	}

	var endBlock uint64
	if window.End > uint64(r.now().Unix()) {
		endBlock = head
		r.logger.Info("window ends in the future, using chain head",
			zap.Uint64("end_ts", window.End),
			zap.Uint64("head", head),
		)
	} else {
		endBlock, err = r.blockByTime(ctx, window.End, ledger.ClosestBefore)
		if err != nil {
			return BlockRange{}, &ResolutionError{Timestamp: window.End, Closest: string(ledger.ClosestBefore), Err: err}
		}
	}

	if endBlock > head {
		r.logger.Warn("end block past chain head, clamping",
			zap.Uint64("end_block", endBlock),
			zap.Uint64("head", head),
		)
		endBlock = head
	}

	if startBlock > endBlock {
		return BlockRange{}, &ResolutionError{
			Timestamp: window.Start,
			Closest:   string(ledger.ClosestAfter),
			Err:       fmt.Errorf("start block %d past end block %d", startBlock, endBlock),
		}
	}

	return BlockRange{From: startBlock, To: endBlock}, nil
}

func (r *Resolver) blockByTime(ctx context.Context, ts uint64, closest ledger.Closest) (uint64, error) {
	var block uint64
	err := withRetry(ctx, r.maxRetries, r.baseDelay, func(ctx context.Context) error {
		var err error
		block, err = r.timestamps.BlockByTime(ctx, ts, closest)
		if err != nil {
			r.logger.Warn("block by time failed",
				zap.Error(err),
				zap.Uint64("timestamp", ts),
				zap.String("closest", string(closest)),
			)
		}
		return err
	})
	return block, err
}
