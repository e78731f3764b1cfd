package domain

// MatchResult pairs one time entry with the evidence that corroborates it.
// Created by the matcher; the semantic resolver may upgrade Phase and attach
// evidence, and the aggregator reads it when clustering entries.
type MatchResult struct {
	Entry       TimeEntry
	Identifiers []string
	Evidence    []EvidenceRecord
	Phase       MatchPhase
	Confidence  Confidence
}

// PrimaryKey returns the key used to cluster related entries across days:
// the first extracted identifier, else the raw description, else a sentinel.
func (m MatchResult) PrimaryKey() string {
	if len(m.Identifiers) > 0 {
		return m.Identifiers[0]
	}
	if m.Entry.Description != "" {
		return m.Entry.Description
	}
	return NoKeySentinel
}

// NoKeySentinel groups entries that carry neither an identifier nor a description.
const NoKeySentinel = "(no-key)"

// AggregationGroup is a transient cluster of match results sharing a primary
// key. TotalHours is always the sum of member entry hours.
type AggregationGroup struct {
	Key        string
	Members    []MatchResult
	MultiDay   bool
	TotalHours float64
	Evidence   []EvidenceRecord
}

// DecompositionEligible reports whether the group should be decomposed into
// sub-tasks: more than one member, or a single member spanning several
// identifiers.
func (g AggregationGroup) DecompositionEligible() bool {
	if len(g.Members) > 1 {
		return true
	}
	return len(g.Members) == 1 && len(g.Members[0].Identifiers) > 1
}

// DistinctEvidence returns the group evidence deduplicated by (kind, id),
// preserving order. The raw Evidence slice tolerates duplicates because
// decomposition weighting counts repeated references.
func (g AggregationGroup) DistinctEvidence() []EvidenceRecord {
	seen := make(map[string]bool, len(g.Evidence))
	out := make([]EvidenceRecord, 0, len(g.Evidence))
	for _, ev := range g.Evidence {
		k := string(ev.Kind) + ":" + ev.ID
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, ev)
	}
	return out
}
