package domain

import "time"

// LedgerRecord is the persisted, append-only proof that a work item finished
// enrichment. Records are never updated in place; a key present in the ledger
// excludes the item from subsequent runs entirely.
type LedgerRecord struct {
	Key         WorkItemKey
	Description string
	Confidence  Confidence
	Notes       string
	Model       string
	CreatedAt   time.Time
}
