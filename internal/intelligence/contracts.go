package intelligence

import "github.com/alexanderramin/chronicle/internal/domain"

// SemanticMatch is one element of the generator's semantic-match array. All
// fields except the entry index are optional; unresolved references are
// dropped, never escalated.
type SemanticMatch struct {
	EntryIndex int    `json:"entry_index"`
	EvidenceID string `json:"evidence_id,omitempty"`
	TicketID   string `json:"ticket_id,omitempty"`
	Confidence string `json:"confidence,omitempty"`
}

// ProposedSubTask is one element of the generator's decomposition array.
type ProposedSubTask struct {
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
	TicketID    string  `json:"ticket_id,omitempty"`
	Confidence  string  `json:"confidence,omitempty"`
}

// EnrichedItem is one element of the generator's enrichment array, keyed by
// the work item key it refers to.
type EnrichedItem struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Confidence  string `json:"confidence,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// EnrichedResult is a parsed, validated enrichment outcome for a work item
// that was present in the request batch.
type EnrichedResult struct {
	Key         domain.WorkItemKey
	Description string
	Confidence  domain.Confidence
	Notes       string
	Model       string
}

// PatternGroups maps a canonical project prefix to shorthand aliases the
// generator observed in entry descriptions.
type PatternGroups map[string][]string
