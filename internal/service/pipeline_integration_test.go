package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/chronicle/internal/domain"
	"github.com/alexanderramin/chronicle/internal/intelligence"
	"github.com/alexanderramin/chronicle/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureInputs is a three-entry scenario: two entries sharing PROJ-1 across
// days (decomposition-eligible group) and one identifier-less entry far from
// any evidence (low confidence, semantic candidate).
func fixtureInputs() ([]domain.TimeEntry, []domain.EvidenceRecord) {
	entries := []domain.TimeEntry{
		testutil.NewTestEntry(0, "PROJ-1 refactor auth", "2025-03-10", 3),
		testutil.NewTestEntry(1, "proj-1 continued", "2025-03-11", 2),
		testutil.NewTestEntry(2, "standup and email", "2025-04-01", 1),
	}
	evidence := []domain.EvidenceRecord{
		testutil.NewTestCommit("c1", "2025-03-10", "PROJ-1 extract token service",
			testutil.WithRefs("PROJ-1"), testutil.WithLinesChanged(120)),
		testutil.NewTestTicket("PROJ-1", "2025-03-09", "Auth refactor", testutil.WithStoryPoints(5)),
	}
	return entries, evidence
}

func TestRun_EndToEnd(t *testing.T) {
	f := newPipelineFixture(t)
	entries, evidence := fixtureInputs()

	result, err := f.svc.Run(context.Background(), RunRequest{Entries: entries, Evidence: evidence})
	require.NoError(t, err)

	assert.Equal(t, 3, result.EntryCount)
	assert.Equal(t, 2, result.ExactMatched)
	assert.Equal(t, 1, result.GroupsDecomposed)

	// Group PROJ-1 (5h) splits 2.5/2.5; member 0 (3h) takes the first whole
	// plus a 0.5h partial, member 1 (2h) takes the remainder.
	require.Len(t, result.Items, 4)
	assert.Equal(t, 4, result.WorkItemCount)

	hours := entryHours(result.Items)
	assert.InDelta(t, 3, hours[0], 1e-6)
	assert.InDelta(t, 2, hours[1], 1e-6)
	assert.InDelta(t, 1, hours[2], 1e-6)

	// PROJ-1 items and the date-keyed item land in separate batches.
	assert.Equal(t, 2, result.BatchesEnriched)
	assert.Equal(t, 0, result.SkippedLedgered)

	// One semantic call, one decomposition, two enrichments.
	assert.Equal(t, 4, result.Usage.Calls)
	assert.Equal(t, 400, result.Usage.PromptTokens)

	for _, item := range result.Items {
		assert.False(t, item.Pending)
		assert.False(t, item.FromLedger)
		assert.Contains(t, item.Description, "enriched: ")
		assert.Equal(t, "test-model", item.Model)
	}

	records, err := f.ledger.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestRun_WindowsAreConsecutive(t *testing.T) {
	f := newPipelineFixture(t)
	entries, evidence := fixtureInputs()

	result, err := f.svc.Run(context.Background(), RunRequest{Entries: entries, Evidence: evidence})
	require.NoError(t, err)

	byEntry := make(map[int][]FinalItem)
	for _, it := range result.Items {
		byEntry[it.Item.Key.EntryIndex] = append(byEntry[it.Item.Key.EntryIndex], it)
	}

	for _, entry := range entries {
		items := byEntry[entry.Index]
		require.NotEmpty(t, items)
		assert.Equal(t, entry.Start, items[0].Window.Start)
		assert.Equal(t, entry.End, items[len(items)-1].Window.End)
		for i := 1; i < len(items); i++ {
			assert.Equal(t, items[i-1].Window.End, items[i].Window.Start)
		}
	}
}

func TestRun_SemanticUpgrade(t *testing.T) {
	f := newPipelineFixture(t)
	entries, evidence := fixtureInputs()

	f.semantic.fn = func(unmatched []domain.MatchResult, ev []domain.EvidenceRecord) []domain.MatchResult {
		out := make([]domain.MatchResult, len(unmatched))
		for i, r := range unmatched {
			out[i] = r
			out[i].Evidence = []domain.EvidenceRecord{ev[1]}
			out[i].Identifiers = []string{"PROJ-1"}
			out[i].Phase = domain.PhaseSemantic
			out[i].Confidence = domain.ConfidenceMedium
		}
		return out
	}

	result, err := f.svc.Run(context.Background(), RunRequest{Entries: entries, Evidence: evidence})
	require.NoError(t, err)

	assert.Equal(t, 1, result.SemanticResolved)
	assert.Equal(t, 1, f.semantic.calls)

	for _, it := range result.Items {
		if it.Item.Key.EntryIndex == 2 {
			assert.Equal(t, domain.PhaseSemantic, it.Item.Phase)
		}
	}
}

func TestRun_SemanticFailureIsNonFatal(t *testing.T) {
	f := newPipelineFixture(t)
	entries, evidence := fixtureInputs()
	f.semantic.err = fmt.Errorf("generator down")

	result, err := f.svc.Run(context.Background(), RunRequest{Entries: entries, Evidence: evidence})
	require.NoError(t, err)

	assert.Equal(t, 0, result.SemanticResolved)
	for _, it := range result.Items {
		if it.Item.Key.EntryIndex == 2 {
			assert.Equal(t, domain.PhaseNone, it.Item.Phase)
			// Enrichment may still raise confidence; the match itself stayed low.
			assert.Equal(t, domain.ConfidenceLow, it.Item.Confidence)
		}
	}
}

func TestRun_DecomposeFailureFallsBackToWholeEntries(t *testing.T) {
	f := newPipelineFixture(t)
	entries, evidence := fixtureInputs()
	f.decompose.err = fmt.Errorf("malformed breakdown")

	result, err := f.svc.Run(context.Background(), RunRequest{Entries: entries, Evidence: evidence})
	require.NoError(t, err)

	assert.Equal(t, 0, result.GroupsDecomposed)
	require.Len(t, result.Items, 3)

	hours := entryHours(result.Items)
	assert.InDelta(t, 3, hours[0], 1e-6)
	assert.InDelta(t, 2, hours[1], 1e-6)

	for _, it := range result.Items {
		assert.Equal(t, 0, it.Item.Key.SubIndex)
		assert.Equal(t, 1, it.Item.SplitCount)
	}
}

func TestRun_ResumeSkipsLedgeredItems(t *testing.T) {
	f := newPipelineFixture(t)
	entries, evidence := fixtureInputs()
	ctx := context.Background()

	first, err := f.svc.Run(ctx, RunRequest{Entries: entries, Evidence: evidence})
	require.NoError(t, err)
	require.Len(t, first.Items, 4)

	firstByKey := make(map[domain.WorkItemKey]FinalItem)
	for _, it := range first.Items {
		firstByKey[it.Item.Key] = it
	}

	// A different generator answer must not change already-ledgered output.
	f.enrich.fn = func(batch domain.Batch) []intelligence.EnrichedResult {
		out := make([]intelligence.EnrichedResult, 0, len(batch.Items))
		for _, it := range batch.Items {
			out = append(out, intelligence.EnrichedResult{Key: it.Key, Description: "rewritten", Model: "other"})
		}
		return out
	}

	second, err := f.svc.Run(ctx, RunRequest{Entries: entries, Evidence: evidence})
	require.NoError(t, err)

	assert.Equal(t, 4, second.SkippedLedgered)
	assert.Equal(t, 0, second.BatchesEnriched)
	require.Len(t, second.Items, 4)

	for _, it := range second.Items {
		assert.True(t, it.FromLedger)
		prior := firstByKey[it.Item.Key]
		assert.Equal(t, prior.Description, it.Description)
		assert.Equal(t, prior.Confidence, it.Confidence)
		assert.Equal(t, prior.Window, it.Window)
	}

	records, err := f.ledger.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestRun_BatchFailureAbortsAndResumes(t *testing.T) {
	f := newPipelineFixture(t)
	entries, evidence := fixtureInputs()
	ctx := context.Background()

	// First batch (PROJ-1) succeeds, second (date-keyed) fails.
	f.enrich.failAfter = 1

	_, err := f.svc.Run(ctx, RunRequest{Entries: entries, Evidence: evidence})
	require.Error(t, err)

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, StepEnrichment, runErr.Step)
	assert.Equal(t, "2025-04-01", runErr.BatchKey)

	// The committed batch survives the abort.
	records, err := f.ledger.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// The resumed run enriches only the remaining item.
	f.enrich.failAfter = 0
	f.enrich.calls = 0

	result, err := f.svc.Run(ctx, RunRequest{Entries: entries, Evidence: evidence})
	require.NoError(t, err)

	assert.Equal(t, 3, result.SkippedLedgered)
	assert.Equal(t, 1, result.BatchesEnriched)
	assert.Equal(t, 1, f.enrich.calls)

	records, err = f.ledger.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestRun_UncoveredItemsStayPending(t *testing.T) {
	f := newPipelineFixture(t)
	entries, evidence := fixtureInputs()
	ctx := context.Background()

	// The generator answers for the first item of each batch only.
	f.enrich.fn = func(batch domain.Batch) []intelligence.EnrichedResult {
		it := batch.Items[0]
		return []intelligence.EnrichedResult{{
			Key: it.Key, Description: "enriched: " + it.Description, Confidence: domain.ConfidenceHigh,
		}}
	}

	result, err := f.svc.Run(ctx, RunRequest{Entries: entries, Evidence: evidence})
	require.NoError(t, err)

	var pending int
	for _, it := range result.Items {
		if it.Pending {
			pending++
			assert.Equal(t, it.Item.Description, it.Description)
		}
	}
	assert.Equal(t, 2, pending)

	records, err := f.ledger.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	// Pending items are picked up by the next run.
	f.enrich.fn = nil
	second, err := f.svc.Run(ctx, RunRequest{Entries: entries, Evidence: evidence})
	require.NoError(t, err)
	assert.Equal(t, 2, second.SkippedLedgered)

	records, err = f.ledger.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestRun_CustomBatchSize(t *testing.T) {
	f := newPipelineFixture(t)

	// Six same-day identifier-less entries share one date batch key.
	var entries []domain.TimeEntry
	for i := 0; i < 6; i++ {
		entries = append(entries, testutil.NewTestEntry(i, fmt.Sprintf("misc work %d", i), "2025-05-01", 1))
	}

	result, err := f.svc.Run(context.Background(), RunRequest{Entries: entries, BatchSize: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, result.BatchesEnriched)
}

func TestRun_LedgerServiceRoundTrip(t *testing.T) {
	f := newPipelineFixture(t)
	entries, evidence := fixtureInputs()
	ctx := context.Background()

	_, err := f.svc.Run(ctx, RunRequest{Entries: entries, Evidence: evidence})
	require.NoError(t, err)

	ledgerSvc := NewLedgerService(f.ledger)
	records, err := ledgerSvc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 4)

	require.NoError(t, ledgerSvc.Clear(ctx))
	records, err = ledgerSvc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRunError_Unwrap(t *testing.T) {
	base := fmt.Errorf("boom")
	err := &RunError{Step: StepEnrichment, BatchKey: "PROJ-1", Err: base}

	assert.True(t, errors.Is(err, base))
	assert.Contains(t, err.Error(), "batch_enrichment")
	assert.Contains(t, err.Error(), "re-run to resume")
}
