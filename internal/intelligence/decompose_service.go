package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/chronicle/internal/domain"
	"github.com/alexanderramin/chronicle/internal/engine"
	"github.com/alexanderramin/chronicle/internal/llm"
)

// DecomposeService asks the generator to break an aggregation group's work
// into sub-tasks. The returned hours are reconciled to sum exactly to the
// group total; the caller handles allocation across members.
type DecomposeService interface {
	Decompose(ctx context.Context, group domain.AggregationGroup, targets []engine.AdvisoryTarget) ([]domain.SubTask, llm.Usage, error)
}

type decomposeService struct {
	client llm.Client
}

// NewDecomposeService creates a DecomposeService backed by a generation client.
func NewDecomposeService(client llm.Client) DecomposeService {
	return &decomposeService{client: client}
}

func (s *decomposeService) Decompose(ctx context.Context, group domain.AggregationGroup, targets []engine.AdvisoryTarget) ([]domain.SubTask, llm.Usage, error) {
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskDecompose,
		SystemPrompt: decomposeSystemPrompt,
		UserPrompt:   buildDecomposePrompt(group, targets),
	})
	if err != nil {
		return nil, llm.Usage{}, fmt.Errorf("decomposition call failed: %w", err)
	}

	proposed, err := llm.ExtractJSONArray[ProposedSubTask](resp.Text, validateProposedSubTasks)
	if err != nil {
		return nil, resp.Usage, fmt.Errorf("decomposition response: %w", err)
	}

	hours := make([]float64, len(proposed))
	for i, p := range proposed {
		hours[i] = p.Hours
	}
	hours = engine.ReconcileHours(hours, group.TotalHours)

	subs := make([]domain.SubTask, len(proposed))
	for i, p := range proposed {
		subs[i] = domain.SubTask{
			Description: strings.TrimSpace(p.Description),
			Hours:       hours[i],
			TicketID:    strings.ToUpper(strings.TrimSpace(p.TicketID)),
			Confidence:  domain.ParseConfidence(p.Confidence),
		}
	}
	return subs, resp.Usage, nil
}

// validateProposedSubTasks is a schema validator for ExtractJSONArray.
func validateProposedSubTasks(items []ProposedSubTask) error {
	if len(items) == 0 {
		return fmt.Errorf("empty decomposition")
	}
	for i, p := range items {
		if strings.TrimSpace(p.Description) == "" {
			return fmt.Errorf("sub-task %d has an empty description", i)
		}
		if p.Hours < 0 {
			return fmt.Errorf("sub-task %d has negative hours %f", i, p.Hours)
		}
	}
	return nil
}
