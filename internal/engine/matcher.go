package engine

import (
	"time"

	"github.com/alexanderramin/chronicle/internal/domain"
)

// Matcher matches time entries against a fixed evidence snapshot using
// identifier intersection and calendar-day proximity. The snapshot is loaded
// once per run and never mutated.
type Matcher struct {
	evidence []domain.EvidenceRecord
	aliases  map[string]string
}

// NewMatcher builds a matcher over the run's evidence snapshot. aliases may
// be nil; when present it widens identifier extraction with discovered
// shorthand prefixes.
func NewMatcher(evidence []domain.EvidenceRecord, aliases map[string]string) *Matcher {
	return &Matcher{evidence: evidence, aliases: aliases}
}

// Match resolves one entry against the evidence set.
//
// With identifiers: exact matches are records sharing at least one
// identifier; among those, records within ±1 calendar day rank first, then
// the remaining exact matches, preserving evidence order and never repeating
// a record. Without identifiers: a lower-priority date-only ±1 day match.
func (m *Matcher) Match(entry domain.TimeEntry) domain.MatchResult {
	ids := CanonicalizeIdentifiers(ExtractIdentifiers(entry.Description), m.aliases)

	result := domain.MatchResult{
		Entry:       entry,
		Identifiers: ids,
		Phase:       domain.PhaseNone,
		Confidence:  domain.ConfidenceLow,
	}

	if len(ids) > 0 {
		exact := m.exactMatches(ids)
		result.Evidence = rankNearFirst(exact, entry.Start)
		if len(result.Evidence) > 0 {
			result.Phase = domain.PhaseExact
			result.Confidence = domain.ConfidenceHigh
		}
		return result
	}

	for _, ev := range m.evidence {
		if withinOneCalendarDay(ev.Timestamp, entry.Start) {
			result.Evidence = append(result.Evidence, ev)
		}
	}
	if len(result.Evidence) > 0 {
		result.Phase = domain.PhaseExact
		result.Confidence = domain.ConfidenceMedium
	}
	return result
}

func (m *Matcher) exactMatches(ids []string) []domain.EvidenceRecord {
	var out []domain.EvidenceRecord
	for _, ev := range m.evidence {
		for _, id := range ids {
			if ev.HasRef(id) {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}

// rankNearFirst orders exact matches so that records within ±1 calendar day
// of the entry come first. Both partitions preserve evidence order; no record
// appears twice.
func rankNearFirst(exact []domain.EvidenceRecord, at time.Time) []domain.EvidenceRecord {
	if len(exact) == 0 {
		return nil
	}
	out := make([]domain.EvidenceRecord, 0, len(exact))
	near := make([]bool, len(exact))
	for i, ev := range exact {
		if withinOneCalendarDay(ev.Timestamp, at) {
			near[i] = true
			out = append(out, ev)
		}
	}
	for i, ev := range exact {
		if !near[i] {
			out = append(out, ev)
		}
	}
	return out
}

// withinOneCalendarDay compares the local calendar dates of two instants,
// each in its own location, and reports whether they differ by at most one day.
func withinOneCalendarDay(a, b time.Time) bool {
	diff := civilDays(a) - civilDays(b)
	return diff >= -1 && diff <= 1
}

// civilDays returns the number of days between the Unix epoch and the
// instant's local calendar date.
func civilDays(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
