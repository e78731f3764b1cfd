package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/chronicle/internal/domain"
	"github.com/alexanderramin/chronicle/internal/llm"
)

// SemanticService resolves low-confidence entries against the evidence
// catalog using the text generator. One consolidated call covers all
// unmatched entries of a run.
type SemanticService interface {
	// Resolve returns updated copies of the given match results. Entries the
	// generator matched are upgraded to the semantic phase; the rest pass
	// through unchanged. The returned usage covers this call only.
	Resolve(ctx context.Context, unmatched []domain.MatchResult, evidence []domain.EvidenceRecord) ([]domain.MatchResult, llm.Usage, error)
}

type semanticService struct {
	client llm.Client
}

// NewSemanticService creates a SemanticService backed by a generation client.
func NewSemanticService(client llm.Client) SemanticService {
	return &semanticService{client: client}
}

func (s *semanticService) Resolve(ctx context.Context, unmatched []domain.MatchResult, evidence []domain.EvidenceRecord) ([]domain.MatchResult, llm.Usage, error) {
	if len(unmatched) == 0 {
		return nil, llm.Usage{}, nil
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSemanticMatch,
		SystemPrompt: semanticSystemPrompt,
		UserPrompt:   buildSemanticPrompt(unmatched, evidence),
	})
	if err != nil {
		return nil, llm.Usage{}, fmt.Errorf("semantic match call failed: %w", err)
	}

	matches, err := llm.ExtractJSONArray[SemanticMatch](resp.Text, nil)
	if err != nil {
		return nil, resp.Usage, fmt.Errorf("semantic match response: %w", err)
	}

	byIndex := make(map[int]SemanticMatch, len(matches))
	for _, m := range matches {
		byIndex[m.EntryIndex] = m
	}

	out := make([]domain.MatchResult, len(unmatched))
	for i, r := range unmatched {
		out[i] = r
		m, ok := byIndex[r.Entry.Index]
		if !ok {
			continue
		}

		var attached []domain.EvidenceRecord
		if ev, ok := lookupEvidence(evidence, domain.EvidenceCommit, m.EvidenceID); ok {
			attached = append(attached, ev)
		}
		if tk, ok := lookupEvidence(evidence, domain.EvidenceTicket, m.TicketID); ok {
			attached = append(attached, tk)
			out[i].Identifiers = appendIdentifier(out[i].Identifiers, tk.ID)
		}
		if len(attached) == 0 {
			// Both references unresolved: drop silently, entry stays unmatched.
			continue
		}

		out[i].Evidence = attached
		out[i].Phase = domain.PhaseSemantic
		out[i].Confidence = domain.ParseConfidence(m.Confidence)
	}
	return out, resp.Usage, nil
}

// lookupEvidence finds a record of the given kind by exact id, falling back
// to a unique identifier-prefix match. Ambiguous prefixes resolve to nothing.
func lookupEvidence(evidence []domain.EvidenceRecord, kind domain.EvidenceKind, id string) (domain.EvidenceRecord, bool) {
	if id == "" {
		return domain.EvidenceRecord{}, false
	}
	id = strings.ToUpper(id)

	for _, ev := range evidence {
		if ev.Kind == kind && strings.ToUpper(ev.ID) == id {
			return ev, true
		}
	}

	var hit domain.EvidenceRecord
	var count int
	for _, ev := range evidence {
		if ev.Kind == kind && strings.HasPrefix(strings.ToUpper(ev.ID), id) {
			hit = ev
			count++
		}
	}
	if count == 1 {
		return hit, true
	}
	return domain.EvidenceRecord{}, false
}

func appendIdentifier(ids []string, id string) []string {
	id = strings.ToUpper(id)
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
