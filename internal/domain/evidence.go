package domain

import "time"

// EvidenceRecord is one commit-like or ticket-like corroborating record.
// The variant is closed: Kind selects which complexity signal is meaningful,
// and accessors below replace field probing at call sites. Records are
// immutable after load.
type EvidenceRecord struct {
	Kind      EvidenceKind
	ID        string
	Timestamp time.Time
	Text      string

	// Complexity signals. LinesChanged is populated for commits,
	// StoryPoints for tickets; the other is zero.
	LinesChanged int
	StoryPoints  float64

	// Refs holds ticket identifiers this record carries: for a ticket its
	// own key, for a commit the keys extracted from its message. Populated
	// at load time, uppercase, deduplicated.
	Refs []string
}

// Weight returns the variant's primary complexity signal.
func (r EvidenceRecord) Weight() float64 {
	switch r.Kind {
	case EvidenceTicket:
		return r.StoryPoints
	default:
		return 0
	}
}

// Churn returns the lines-changed-equivalent secondary signal.
func (r EvidenceRecord) Churn() int {
	if r.Kind == EvidenceCommit {
		return r.LinesChanged
	}
	return 0
}

// HasRef reports whether the record carries the given identifier.
func (r EvidenceRecord) HasRef(id string) bool {
	for _, ref := range r.Refs {
		if ref == id {
			return true
		}
	}
	return false
}
