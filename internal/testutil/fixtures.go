package testutil

import (
	"time"

	"github.com/alexanderramin/chronicle/internal/domain"
)

// Day parses a YYYY-MM-DD date into a UTC midnight instant.
func Day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic("testutil: bad date " + s)
	}
	return t
}

// Entry options
type EntryOption func(*domain.TimeEntry)

func WithEntryStart(t time.Time) EntryOption {
	return func(e *domain.TimeEntry) {
		e.Start = t
		e.End = t.Add(time.Duration(e.Hours * float64(time.Hour)))
	}
}

// NewTestEntry builds a time entry starting at 09:00 UTC on the given date.
func NewTestEntry(index int, desc, date string, hours float64, opts ...EntryOption) domain.TimeEntry {
	start := Day(date).Add(9 * time.Hour)
	e := domain.TimeEntry{
		Index:       index,
		Description: desc,
		Start:       start,
		End:         start.Add(time.Duration(hours * float64(time.Hour))),
		Hours:       hours,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Commit options
type EvidenceOption func(*domain.EvidenceRecord)

func WithLinesChanged(n int) EvidenceOption {
	return func(r *domain.EvidenceRecord) { r.LinesChanged = n }
}

func WithStoryPoints(p float64) EvidenceOption {
	return func(r *domain.EvidenceRecord) { r.StoryPoints = p }
}

func WithRefs(refs ...string) EvidenceOption {
	return func(r *domain.EvidenceRecord) { r.Refs = refs }
}

// NewTestCommit builds a commit evidence record timestamped 14:00 UTC on the
// given date. Refs default to nothing; pass WithRefs for linked tickets.
func NewTestCommit(id, date, message string, opts ...EvidenceOption) domain.EvidenceRecord {
	r := domain.EvidenceRecord{
		Kind:      domain.EvidenceCommit,
		ID:        id,
		Timestamp: Day(date).Add(14 * time.Hour),
		Text:      message,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// NewTestTicket builds a ticket evidence record; its own key is always a ref.
func NewTestTicket(key, date, summary string, opts ...EvidenceOption) domain.EvidenceRecord {
	r := domain.EvidenceRecord{
		Kind:      domain.EvidenceTicket,
		ID:        key,
		Timestamp: Day(date).Add(10 * time.Hour),
		Text:      summary,
		Refs:      []string{key},
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// NewTestLedgerRecord builds a ledger record for the given key string.
func NewTestLedgerRecord(key, description string) *domain.LedgerRecord {
	k, err := domain.ParseWorkItemKey(key)
	if err != nil {
		panic("testutil: bad work item key " + key)
	}
	return &domain.LedgerRecord{
		Key:         k,
		Description: description,
		Confidence:  domain.ConfidenceHigh,
		Model:       "test-model",
		CreatedAt:   time.Now().UTC(),
	}
}
