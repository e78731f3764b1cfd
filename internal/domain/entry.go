package domain

import "time"

// TimeEntry is one raw worklog row. Entries are loaded once per run and are
// read-only afterwards; every derived work item traces back to exactly one
// entry, and the sum of derived durations must reconstruct Hours exactly.
type TimeEntry struct {
	Index       int
	Description string
	Start       time.Time
	End         time.Time
	Hours       float64
}

// Date returns the entry's start date formatted as YYYY-MM-DD in the
// timestamp's own location.
func (e TimeEntry) Date() string {
	return e.Start.Format("2006-01-02")
}

// TimeWindow is a half-open [Start, End) interval produced by splitting an
// entry's original window across its sub-tasks.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Hours returns the window length in fractional hours.
func (w TimeWindow) Hours() float64 {
	return w.End.Sub(w.Start).Hours()
}
