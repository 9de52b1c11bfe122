package storage

import "profitScope/internal/model"

// Sink persists the artifacts an analysis run produces.
type Sink interface {
	PutAnalysis(analysis model.DailyAnalysis) error
	PutHashList(hashes []string) error
}
