package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// WorkItemKey identifies one canonical work unit: the source entry index plus
// the sub-task position within that entry.
type WorkItemKey struct {
	EntryIndex int
	SubIndex   int
}

// String renders the key in its persisted "{entryIndex}:{subIndex}" form.
func (k WorkItemKey) String() string {
	return fmt.Sprintf("%d:%d", k.EntryIndex, k.SubIndex)
}

// ParseWorkItemKey parses a persisted key. Legacy records written before
// entries were splittable carry a bare entry index; those are read as
// sub-index 0.
func ParseWorkItemKey(s string) (WorkItemKey, error) {
	entry, sub, found := strings.Cut(s, ":")
	ei, err := strconv.Atoi(strings.TrimSpace(entry))
	if err != nil {
		return WorkItemKey{}, fmt.Errorf("parsing work item key %q: %w", s, err)
	}
	if !found {
		return WorkItemKey{EntryIndex: ei, SubIndex: 0}, nil
	}
	si, err := strconv.Atoi(strings.TrimSpace(sub))
	if err != nil {
		return WorkItemKey{}, fmt.Errorf("parsing work item key %q: %w", s, err)
	}
	return WorkItemKey{EntryIndex: ei, SubIndex: si}, nil
}

// WorkItem is the canonical schedulable unit flattened out of matching and
// decomposition. For every entry, the Hours of its work items sum exactly to
// the entry's original duration.
type WorkItem struct {
	Key         WorkItemKey
	Description string
	Hours       float64
	Identifiers []string
	Evidence    []EvidenceRecord
	Confidence  Confidence
	Phase       MatchPhase

	Aggregated bool
	MultiDay   bool

	// Split metadata. SplitGroupID is shared by all items decomposed out of
	// the same entry; SplitCount records how many pieces the entry produced.
	SplitGroupID string
	SplitCount   int

	// Entry-level context carried along for enrichment and splitting.
	EntryDescription string
	EntryDate        string
}

// BatchKey returns the key used to group items for enrichment: the first
// identifier if any, else the entry's calendar date, else a sentinel.
func (w WorkItem) BatchKey() string {
	if len(w.Identifiers) > 0 {
		return w.Identifiers[0]
	}
	if w.EntryDate != "" {
		return w.EntryDate
	}
	return UnknownBatchSentinel
}

// UnknownBatchSentinel groups items that have neither identifier nor date.
const UnknownBatchSentinel = "(unknown)"

// Batch is an ordered slice of work items sharing a batching key, bounded by
// the scheduler's maximum batch size.
type Batch struct {
	Key   string
	Items []WorkItem
}
