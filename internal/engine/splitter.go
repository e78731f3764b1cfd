package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/chronicle/internal/domain"
)

// ErrSplitContract indicates the caller handed the splitter durations that do
// not fill the window. This is an upstream defect, not a user error.
var ErrSplitContract = errors.New("sub-durations do not sum to the split window")

// splitTolerance is the accepted drift, in hours, between the window length
// and the sum of sub-durations.
const splitTolerance = 1e-3

// SplitWindow slices [start, end) into len(hours) consecutive half-open
// windows. The first window starts at start, each subsequent window starts
// where the previous ended, and the last ends exactly at end. The duration
// list is trusted verbatim; nothing is recomputed from totals.
func SplitWindow(start, end time.Time, hours []float64) ([]domain.TimeWindow, error) {
	if len(hours) == 0 {
		return nil, fmt.Errorf("%w: empty duration list", ErrSplitContract)
	}

	var sum float64
	for _, h := range hours {
		sum += h
	}
	window := end.Sub(start).Hours()
	if math.Abs(sum-window) > splitTolerance {
		return nil, fmt.Errorf("%w: durations sum to %.6fh, window is %.6fh", ErrSplitContract, sum, window)
	}

	out := make([]domain.TimeWindow, len(hours))
	cursor := start
	for i, h := range hours {
		next := cursor.Add(time.Duration(h * float64(time.Hour)))
		if i == len(hours)-1 {
			next = end
		}
		out[i] = domain.TimeWindow{Start: cursor, End: next}
		cursor = next
	}
	return out, nil
}
