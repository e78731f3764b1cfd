package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/chronicle/internal/domain"
	"github.com/alexanderramin/chronicle/internal/llm"
)

// EnrichService issues one enrichment request per batch. Enrichment is the
// mandatory pipeline stage: a failed or unparseable call is a run-fatal
// error, unlike the optional semantic and decomposition stages.
type EnrichService interface {
	// EnrichBatch returns one result per response element whose key matches
	// an item in the batch. Elements referencing unknown keys are discarded;
	// batch items without a result stay pending for the next run.
	EnrichBatch(ctx context.Context, batch domain.Batch) ([]EnrichedResult, llm.Usage, error)
}

type enrichService struct {
	client llm.Client
}

// NewEnrichService creates an EnrichService backed by a generation client.
func NewEnrichService(client llm.Client) EnrichService {
	return &enrichService{client: client}
}

func (s *enrichService) EnrichBatch(ctx context.Context, batch domain.Batch) ([]EnrichedResult, llm.Usage, error) {
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskEnrich,
		SystemPrompt: enrichSystemPrompt,
		UserPrompt:   buildEnrichPrompt(batch),
	})
	if err != nil {
		return nil, llm.Usage{}, fmt.Errorf("enrichment call failed for batch %q: %w", batch.Key, err)
	}

	items, err := llm.ExtractJSONArray[EnrichedItem](resp.Text, nil)
	if err != nil {
		return nil, resp.Usage, fmt.Errorf("enrichment response for batch %q: %w", batch.Key, err)
	}

	inBatch := make(map[domain.WorkItemKey]domain.WorkItem, len(batch.Items))
	for _, it := range batch.Items {
		inBatch[it.Key] = it
	}

	var out []EnrichedResult
	seen := make(map[domain.WorkItemKey]bool, len(items))
	for _, item := range items {
		key, err := domain.ParseWorkItemKey(item.Key)
		if err != nil {
			continue
		}
		source, ok := inBatch[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true

		// Missing fields default to the draft values, never crash the batch.
		description := strings.TrimSpace(item.Description)
		if description == "" {
			description = source.Description
		}
		confidence := source.Confidence
		if item.Confidence != "" {
			confidence = domain.ParseConfidence(item.Confidence)
		}

		out = append(out, EnrichedResult{
			Key:         key,
			Description: description,
			Confidence:  confidence,
			Notes:       strings.TrimSpace(item.Notes),
			Model:       resp.Model,
		})
	}
	return out, resp.Usage, nil
}
