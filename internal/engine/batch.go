package engine

import "github.com/alexanderramin/chronicle/internal/domain"

// MaxBatchSize bounds how many work items share one enrichment request. It is
// the pipeline's only admission-control knob.
const MaxBatchSize = 10

// FilterPending drops work items whose keys already appear in the ledger,
// preserving order. Re-runs are idempotent for ledgered items.
func FilterPending(items []domain.WorkItem, done map[domain.WorkItemKey]bool) []domain.WorkItem {
	if len(done) == 0 {
		return items
	}
	out := make([]domain.WorkItem, 0, len(items))
	for _, it := range items {
		if done[it.Key] {
			continue
		}
		out = append(out, it)
	}
	return out
}

// BuildBatches groups items by batching key in first-seen key order, then
// chunks any oversized group into consecutive pieces of at most maxSize.
// Concatenating the batches of one key reproduces the original item order.
func BuildBatches(items []domain.WorkItem, maxSize int) []domain.Batch {
	if maxSize <= 0 {
		maxSize = MaxBatchSize
	}

	index := make(map[string]int, len(items))
	var keys []string
	grouped := make(map[string][]domain.WorkItem, len(items))
	for _, it := range items {
		key := it.BatchKey()
		if _, ok := index[key]; !ok {
			index[key] = len(keys)
			keys = append(keys, key)
		}
		grouped[key] = append(grouped[key], it)
	}

	var out []domain.Batch
	for _, key := range keys {
		group := grouped[key]
		for len(group) > maxSize {
			out = append(out, domain.Batch{Key: key, Items: group[:maxSize]})
			group = group[maxSize:]
		}
		out = append(out, domain.Batch{Key: key, Items: group})
	}
	return out
}
