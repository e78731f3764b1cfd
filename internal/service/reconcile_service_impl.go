package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/chronicle/internal/db"
	"github.com/alexanderramin/chronicle/internal/domain"
	"github.com/alexanderramin/chronicle/internal/engine"
	"github.com/alexanderramin/chronicle/internal/intelligence"
	"github.com/alexanderramin/chronicle/internal/repository"
	"github.com/google/uuid"
)

type reconcileService struct {
	ledger    repository.LedgerRepo
	uow       db.UnitOfWork
	semantic  intelligence.SemanticService
	decompose intelligence.DecomposeService
	enrich    intelligence.EnrichService
	patterns  intelligence.PatternService
	observer  PhaseObserver
}

// NewReconcileService wires the pipeline. patterns may be nil when alias
// discovery is disabled.
func NewReconcileService(
	ledger repository.LedgerRepo,
	uow db.UnitOfWork,
	semantic intelligence.SemanticService,
	decompose intelligence.DecomposeService,
	enrich intelligence.EnrichService,
	patterns intelligence.PatternService,
	observers ...PhaseObserver,
) ReconcileService {
	return &reconcileService{
		ledger:    ledger,
		uow:       uow,
		semantic:  semantic,
		decompose: decompose,
		enrich:    enrich,
		patterns:  patterns,
		observer:  phaseObserverOrNoop(observers),
	}
}

func (s *reconcileService) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	runStart := time.Now()
	result := &RunResult{
		RunID:      uuid.New().String(),
		EntryCount: len(req.Entries),
	}
	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = engine.MaxBatchSize
	}

	aliases := s.discoverAliases(ctx, req, result)

	// Phase 1: deterministic matching.
	matchStart := time.Now()
	matcher := engine.NewMatcher(req.Evidence, aliases)
	results := make([]domain.MatchResult, 0, len(req.Entries))
	for _, entry := range req.Entries {
		r := matcher.Match(entry)
		if r.Confidence == domain.ConfidenceHigh {
			result.ExactMatched++
		}
		results = append(results, r)
	}
	s.observePhase(ctx, "match", matchStart, nil, map[string]any{
		"entries": len(results),
		"exact":   result.ExactMatched,
	})

	// Phase 2: semantic resolution for everything still low-confidence.
	results = s.resolveSemantic(ctx, results, req.Evidence, result)

	// Phase 3: aggregation and decomposition.
	groups := engine.BuildGroups(results)
	allocations := s.decomposeGroups(ctx, groups, result)

	// Phase 4: canonical work items.
	items := engine.BuildWorkItems(results, groups, allocations)
	result.WorkItemCount = len(items)

	// Phase 5: ledger load, batching, enrichment.
	records, err := s.ledger.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	recordByKey := make(map[domain.WorkItemKey]*domain.LedgerRecord, len(records))
	done := make(map[domain.WorkItemKey]bool, len(records))
	for _, rec := range records {
		recordByKey[rec.Key] = rec
		done[rec.Key] = true
	}

	pending := engine.FilterPending(items, done)
	result.SkippedLedgered = len(items) - len(pending)
	batches := engine.BuildBatches(pending, batchSize)

	enriched := make(map[domain.WorkItemKey]intelligence.EnrichedResult, len(pending))
	for _, batch := range batches {
		if err := s.enrichBatch(ctx, batch, enriched, result); err != nil {
			return nil, err
		}
		result.BatchesEnriched++
	}

	// Phase 6: final assembly with rebuilt time windows.
	if err := s.assemble(req.Entries, items, recordByKey, enriched, result); err != nil {
		return nil, err
	}

	s.observePhase(ctx, "run_complete", runStart, nil, map[string]any{
		"run_id":       result.RunID,
		"work_items":   result.WorkItemCount,
		"batches":      result.BatchesEnriched,
		"skipped":      result.SkippedLedgered,
		"total_tokens": result.Usage.TotalTokens(),
	})
	return result, nil
}

// discoverAliases runs the optional pattern pass. Any failure is logged and
// ignored; the fixed extraction pattern stays in charge.
func (s *reconcileService) discoverAliases(ctx context.Context, req RunRequest, result *RunResult) map[string]string {
	if !req.DiscoverPatterns || s.patterns == nil {
		return nil
	}
	start := time.Now()

	var bare []string
	for _, entry := range req.Entries {
		if len(engine.ExtractIdentifiers(entry.Description)) == 0 {
			bare = append(bare, entry.Description)
		}
	}
	prefixes := knownPrefixes(req.Evidence)

	aliases, usage, err := s.patterns.Discover(ctx, bare, prefixes)
	result.Usage = result.Usage.Add(usage)
	if err != nil {
		s.observeOptionalFailure(ctx, "pattern_discovery", start, err)
		return nil
	}
	s.observePhase(ctx, "pattern_discovery", start, nil, map[string]any{"aliases": len(aliases)})
	return aliases
}

func (s *reconcileService) resolveSemantic(ctx context.Context, results []domain.MatchResult, evidence []domain.EvidenceRecord, result *RunResult) []domain.MatchResult {
	start := time.Now()

	var low []domain.MatchResult
	lowIdx := make(map[int]int) // entry index -> position in results
	for i, r := range results {
		if r.Confidence == domain.ConfidenceLow {
			low = append(low, r)
			lowIdx[r.Entry.Index] = i
		}
	}
	if len(low) == 0 {
		return results
	}

	resolved, usage, err := s.semantic.Resolve(ctx, low, evidence)
	result.Usage = result.Usage.Add(usage)
	if err != nil {
		// Non-fatal: the run proceeds on exact-only results.
		s.observeOptionalFailure(ctx, "semantic_resolve", start, err)
		return results
	}

	for _, r := range resolved {
		i, ok := lowIdx[r.Entry.Index]
		if !ok {
			continue
		}
		results[i] = r
		if r.Phase == domain.PhaseSemantic {
			result.SemanticResolved++
		}
	}
	s.observePhase(ctx, "semantic_resolve", start, nil, map[string]any{
		"unmatched": len(low),
		"resolved":  result.SemanticResolved,
	})
	return results
}

// decomposeGroups asks the generator to break down every eligible group and
// allocates the reconciled sub-tasks back to group members. A failed or
// malformed decomposition leaves the group whole.
func (s *reconcileService) decomposeGroups(ctx context.Context, groups []domain.AggregationGroup, result *RunResult) map[int][]domain.SubTask {
	allocations := make(map[int][]domain.SubTask)
	for _, group := range groups {
		if !group.DecompositionEligible() {
			continue
		}
		start := time.Now()

		targets := engine.PreweightEvidence(group.Evidence, group.TotalHours)
		subs, usage, err := s.decompose.Decompose(ctx, group, targets)
		result.Usage = result.Usage.Add(usage)
		if err != nil {
			s.observeOptionalFailure(ctx, "decompose", start, err)
			continue
		}

		members := make([]domain.TimeEntry, len(group.Members))
		for i, m := range group.Members {
			members[i] = m.Entry
		}
		assigned := engine.AllocateToMembers(members, subs)
		for i, m := range group.Members {
			allocations[m.Entry.Index] = assigned[i]
		}

		result.GroupsDecomposed++
		s.observePhase(ctx, "decompose", start, nil, map[string]any{
			"group":     group.Key,
			"members":   len(group.Members),
			"sub_tasks": len(subs),
		})
	}
	return allocations
}

// enrichBatch runs the mandatory enrichment call for one batch and commits
// its ledger appends in a single transaction. Failure aborts the run; batches
// already committed stay in the ledger for the resumed run.
func (s *reconcileService) enrichBatch(ctx context.Context, batch domain.Batch, enriched map[domain.WorkItemKey]intelligence.EnrichedResult, result *RunResult) error {
	start := time.Now()

	results, usage, err := s.enrich.EnrichBatch(ctx, batch)
	result.Usage = result.Usage.Add(usage)
	if err != nil {
		runErr := &RunError{Step: StepEnrichment, BatchKey: batch.Key, Err: err}
		s.observePhase(ctx, "enrich", start, runErr, map[string]any{"batch": batch.Key})
		return runErr
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLedger := repository.NewSQLiteLedgerRepo(tx)
		for _, r := range results {
			rec := &domain.LedgerRecord{
				Key:         r.Key,
				Description: r.Description,
				Confidence:  r.Confidence,
				Notes:       r.Notes,
				Model:       r.Model,
			}
			if err := txLedger.Append(ctx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		runErr := &RunError{Step: StepEnrichment, BatchKey: batch.Key, Err: err}
		s.observePhase(ctx, "enrich", start, runErr, map[string]any{"batch": batch.Key})
		return runErr
	}

	for _, r := range results {
		enriched[r.Key] = r
	}
	s.observePhase(ctx, "enrich", start, nil, map[string]any{
		"batch":    batch.Key,
		"items":    len(batch.Items),
		"enriched": len(results),
	})
	return nil
}

// assemble merges ledgered and freshly enriched values onto the run's work
// items and rebuilds each entry's time windows from its item durations.
func (s *reconcileService) assemble(
	entries []domain.TimeEntry,
	items []domain.WorkItem,
	ledgered map[domain.WorkItemKey]*domain.LedgerRecord,
	enriched map[domain.WorkItemKey]intelligence.EnrichedResult,
	result *RunResult,
) error {
	entryByIndex := make(map[int]domain.TimeEntry, len(entries))
	for _, e := range entries {
		entryByIndex[e.Index] = e
	}

	itemsByEntry := make(map[int][]domain.WorkItem, len(entries))
	for _, it := range items {
		itemsByEntry[it.Key.EntryIndex] = append(itemsByEntry[it.Key.EntryIndex], it)
	}

	result.Items = make([]FinalItem, 0, len(items))
	for _, entry := range entries {
		entryItems := itemsByEntry[entry.Index]
		if len(entryItems) == 0 {
			continue
		}

		hours := make([]float64, len(entryItems))
		for i, it := range entryItems {
			hours[i] = it.Hours
		}
		windows, err := engine.SplitWindow(entry.Start, entry.End, hours)
		if err != nil {
			return &RunError{Step: StepSplit, Err: err}
		}

		for i, it := range entryItems {
			final := FinalItem{
				Item:        it,
				Window:      windows[i],
				Description: it.Description,
				Confidence:  it.Confidence,
			}
			switch r, ok := enriched[it.Key]; {
			case ok:
				final.Description = r.Description
				final.Confidence = r.Confidence
				final.Notes = r.Notes
				final.Model = r.Model
			case ledgered[it.Key] != nil:
				rec := ledgered[it.Key]
				final.Description = rec.Description
				final.Confidence = rec.Confidence
				final.Notes = rec.Notes
				final.Model = rec.Model
				final.FromLedger = true
			default:
				final.Pending = true
			}
			result.Items = append(result.Items, final)
		}
	}
	return nil
}

func (s *reconcileService) observePhase(ctx context.Context, phase string, start time.Time, err error, fields map[string]any) {
	s.observer.ObservePhase(ctx, PhaseEvent{
		Phase:     phase,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: start,
	})
}

// observeOptionalFailure logs a degraded-but-successful phase: the call
// failed, the run continues on the deterministic fallback.
func (s *reconcileService) observeOptionalFailure(ctx context.Context, phase string, start time.Time, err error) {
	s.observer.ObservePhase(ctx, PhaseEvent{
		Phase:     phase,
		Duration:  time.Since(start),
		Success:   true,
		Err:       err,
		StartedAt: start,
	})
}

// knownPrefixes collects the distinct project prefixes present in evidence
// refs, in first-seen order.
func knownPrefixes(evidence []domain.EvidenceRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ev := range evidence {
		for _, ref := range ev.Refs {
			prefix, _, ok := strings.Cut(ref, "-")
			if !ok || seen[prefix] {
				continue
			}
			seen[prefix] = true
			out = append(out, prefix)
		}
	}
	return out
}
