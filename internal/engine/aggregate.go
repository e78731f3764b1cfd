package engine

import "github.com/alexanderramin/chronicle/internal/domain"

// BuildGroups clusters match results by primary key, preserving the order in
// which keys first appear. Group evidence is the concatenation of member
// evidence: duplicates are kept because decomposition weighting counts
// repeated references, and display paths deduplicate separately.
func BuildGroups(results []domain.MatchResult) []domain.AggregationGroup {
	index := make(map[string]int, len(results))
	groups := make([]domain.AggregationGroup, 0, len(results))

	for _, r := range results {
		key := r.PrimaryKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.AggregationGroup{Key: key})
		}
		groups[i].Members = append(groups[i].Members, r)
		groups[i].TotalHours += r.Entry.Hours
		groups[i].Evidence = append(groups[i].Evidence, r.Evidence...)
	}

	for i := range groups {
		groups[i].MultiDay = len(groups[i].Members) > 1
	}
	return groups
}
