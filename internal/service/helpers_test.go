package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/chronicle/internal/db"
	"github.com/alexanderramin/chronicle/internal/domain"
	"github.com/alexanderramin/chronicle/internal/engine"
	"github.com/alexanderramin/chronicle/internal/intelligence"
	"github.com/alexanderramin/chronicle/internal/llm"
	"github.com/alexanderramin/chronicle/internal/repository"
	"github.com/alexanderramin/chronicle/internal/testutil"
)

// testUsage is charged per stubbed generator call so tests can assert that
// the run accumulates usage across phases.
var testUsage = llm.Usage{PromptTokens: 100, CompletionTokens: 50, Calls: 1}

type stubSemantic struct {
	fn func(unmatched []domain.MatchResult, evidence []domain.EvidenceRecord) []domain.MatchResult
	// err makes every call fail.
	err error
	// calls counts invocations (skipped-empty calls never reach the stub).
	calls int
}

func (s *stubSemantic) Resolve(_ context.Context, unmatched []domain.MatchResult, evidence []domain.EvidenceRecord) ([]domain.MatchResult, llm.Usage, error) {
	if len(unmatched) == 0 {
		return nil, llm.Usage{}, nil
	}
	s.calls++
	if s.err != nil {
		return nil, llm.Usage{}, s.err
	}
	if s.fn == nil {
		return unmatched, testUsage, nil
	}
	return s.fn(unmatched, evidence), testUsage, nil
}

type stubDecompose struct {
	fn    func(group domain.AggregationGroup) []domain.SubTask
	err   error
	calls int
}

func (s *stubDecompose) Decompose(_ context.Context, group domain.AggregationGroup, _ []engine.AdvisoryTarget) ([]domain.SubTask, llm.Usage, error) {
	s.calls++
	if s.err != nil {
		return nil, llm.Usage{}, s.err
	}
	if s.fn == nil {
		// Default: split the group evenly into two sub-tasks.
		half := group.TotalHours / 2
		return []domain.SubTask{
			{Description: "part one of " + group.Key, Hours: half, Confidence: domain.ConfidenceHigh},
			{Description: "part two of " + group.Key, Hours: group.TotalHours - half, Confidence: domain.ConfidenceMedium},
		}, testUsage, nil
	}
	return s.fn(group), testUsage, nil
}

type stubEnrich struct {
	fn func(batch domain.Batch) []intelligence.EnrichedResult
	// failAfter fails every call once calls > failAfter (0 disables).
	failAfter int
	calls     int
}

func (s *stubEnrich) EnrichBatch(_ context.Context, batch domain.Batch) ([]intelligence.EnrichedResult, llm.Usage, error) {
	s.calls++
	if s.failAfter > 0 && s.calls > s.failAfter {
		return nil, llm.Usage{}, fmt.Errorf("%w: generator unreachable", llm.ErrUnavailable)
	}
	if s.fn == nil {
		out := make([]intelligence.EnrichedResult, 0, len(batch.Items))
		for _, it := range batch.Items {
			out = append(out, intelligence.EnrichedResult{
				Key:         it.Key,
				Description: "enriched: " + it.Description,
				Confidence:  domain.ConfidenceHigh,
				Notes:       "batch " + batch.Key,
				Model:       "test-model",
			})
		}
		return out, testUsage, nil
	}
	return s.fn(batch), testUsage, nil
}

type pipelineFixture struct {
	svc       ReconcileService
	ledger    repository.LedgerRepo
	semantic  *stubSemantic
	decompose *stubDecompose
	enrich    *stubEnrich
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	ledger := repository.NewSQLiteLedgerRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	f := &pipelineFixture{
		ledger:    ledger,
		semantic:  &stubSemantic{},
		decompose: &stubDecompose{},
		enrich:    &stubEnrich{},
	}
	f.svc = NewReconcileService(ledger, uow, f.semantic, f.decompose, f.enrich, nil)
	return f
}

// entryHours sums the final item hours per entry index.
func entryHours(items []FinalItem) map[int]float64 {
	out := make(map[int]float64)
	for _, it := range items {
		out[it.Item.Key.EntryIndex] += it.Item.Hours
	}
	return out
}
