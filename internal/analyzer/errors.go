package analyzer

import "fmt"

// ResolutionError indicates a date could not be mapped to a block range.
// It is fatal for the whole analysis.
type ResolutionError struct {
	Timestamp uint64
	Closest   string
	Err       error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve block %s timestamp %d: %v", e.Closest, e.Timestamp, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
