package analyzer

import (
	"reflect"
	"testing"
)

func TestSplitRange(t *testing.T) {
	got, err := SplitRange(100, 105, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []BlockRange{
		{From: 100, To: 101},
		{From: 102, To: 103},
		{From: 104, To: 105},
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("windows mismatch: %+v != %+v", got, want)
	}
}

func TestSplitRangeSingle(t *testing.T) {
	got, err := SplitRange(5, 5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []BlockRange{{From: 5, To: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("windows mismatch: %+v != %+v", got, want)
	}
}

func TestSplitRangeInvalid(t *testing.T) {
	if _, err := SplitRange(10, 9, 1); err == nil {
		t.Fatalf("expected error for inverted range")
	}
	if _, err := SplitRange(1, 10, 0); err == nil {
		t.Fatalf("expected error for zero step")
	}
}

// Any two step sizes must cover the same blocks exactly once.
func TestSplitRangeIdempotent(t *testing.T) {
	const from, to = 1000, 1237

	for _, step := range []uint64{1, 7, 100, 238, 10000} {
		windows, err := SplitRange(from, to, step)
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", step, err)
		}

		cursor := uint64(from)
		for _, w := range windows {
			if w.From != cursor {
				t.Fatalf("step %d: window starts at %d, want %d", step, w.From, cursor)
			}
			if w.To < w.From {
				t.Fatalf("step %d: inverted window %+v", step, w)
			}
			if w.To-w.From+1 > step {
				t.Fatalf("step %d: window %+v exceeds step", step, w)
			}
			cursor = w.To + 1
		}
		if cursor != to+1 {
			t.Fatalf("step %d: coverage ends at %d, want %d", step, cursor-1, to)
		}
	}
}
