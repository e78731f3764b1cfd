package service

import (
	"context"

	"github.com/alexanderramin/chronicle/internal/domain"
	"github.com/alexanderramin/chronicle/internal/llm"
)

// RunRequest carries one reconciliation run's inputs. Entries and evidence
// are loaded once and read-only for the duration of the run.
type RunRequest struct {
	Entries  []domain.TimeEntry
	Evidence []domain.EvidenceRecord

	// BatchSize bounds enrichment batches; 0 means the default of 10.
	BatchSize int

	// DiscoverPatterns enables the optional alias-discovery pass for runs
	// with many identifier-less entries.
	DiscoverPatterns bool
}

// FinalItem is one unit of downstream output: the work item, its enriched
// description, and its rebuilt time window.
type FinalItem struct {
	Item        domain.WorkItem
	Window      domain.TimeWindow
	Description string
	Confidence  domain.Confidence
	Notes       string
	Model       string

	// FromLedger marks items whose enrichment was reused from a prior run.
	// Pending marks items the batch response did not cover; they carry
	// draft values and stay unledgered for the next run.
	FromLedger bool
	Pending    bool
}

// RunResult summarizes a completed run.
type RunResult struct {
	RunID string
	Items []FinalItem

	EntryCount       int
	ExactMatched     int
	SemanticResolved int
	GroupsDecomposed int
	WorkItemCount    int
	SkippedLedgered  int
	BatchesEnriched  int

	Usage llm.Usage
}

// ReconcileService runs the full reconciliation pipeline: match, resolve,
// aggregate, decompose, build, batch, enrich, split.
type ReconcileService interface {
	Run(ctx context.Context, req RunRequest) (*RunResult, error)
}

// LedgerService exposes the resume ledger for inspection and reset.
type LedgerService interface {
	List(ctx context.Context) ([]*domain.LedgerRecord, error)
	Clear(ctx context.Context) error
}
