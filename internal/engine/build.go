package engine

import (
	"github.com/alexanderramin/chronicle/internal/domain"
	"github.com/google/uuid"
)

// BuildWorkItems flattens match results and sub-task allocations into
// canonical work items, one per sub-task for decomposed entries and exactly
// one for everything else. Items are emitted in entry order, sub-tasks in
// allocation order, so downstream batching is deterministic.
//
// allocations maps entry index to that entry's assigned sub-tasks; entries
// absent from the map produce a single item keyed "{index}:0" carrying the
// original description.
func BuildWorkItems(results []domain.MatchResult, groups []domain.AggregationGroup, allocations map[int][]domain.SubTask) []domain.WorkItem {
	groupByKey := make(map[string]domain.AggregationGroup, len(groups))
	for _, g := range groups {
		groupByKey[g.Key] = g
	}

	var out []domain.WorkItem
	for _, r := range results {
		group, aggregated := groupByKey[r.PrimaryKey()]
		aggregated = aggregated && len(group.Members) > 1

		evidence := r.Evidence
		if aggregated {
			evidence = group.DistinctEvidence()
		}

		base := domain.WorkItem{
			Identifiers:      r.Identifiers,
			Evidence:         evidence,
			Confidence:       r.Confidence,
			Phase:            r.Phase,
			Aggregated:       aggregated,
			MultiDay:         group.MultiDay,
			EntryDescription: r.Entry.Description,
			EntryDate:        r.Entry.Date(),
		}

		subs := allocations[r.Entry.Index]
		if len(subs) == 0 {
			item := base
			item.Key = domain.WorkItemKey{EntryIndex: r.Entry.Index, SubIndex: 0}
			item.Description = r.Entry.Description
			item.Hours = r.Entry.Hours
			item.SplitCount = 1
			out = append(out, item)
			continue
		}

		splitGroup := uuid.New().String()
		for si, st := range subs {
			item := base
			item.Key = domain.WorkItemKey{EntryIndex: r.Entry.Index, SubIndex: si}
			item.Description = st.Description
			item.Hours = st.Hours
			item.SplitGroupID = splitGroup
			item.SplitCount = len(subs)
			if st.TicketID != "" {
				item.Identifiers = prependIdentifier(r.Identifiers, st.TicketID)
			}
			if st.Confidence != "" {
				item.Confidence = st.Confidence
			}
			out = append(out, item)
		}
	}
	return out
}

// prependIdentifier puts the sub-task's own ticket first without disturbing
// the entry's extracted identifiers or introducing duplicates.
func prependIdentifier(ids []string, ticket string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, ticket)
	for _, id := range ids {
		if id != ticket {
			out = append(out, id)
		}
	}
	return out
}
