package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/chronicle/internal/llm"
)

// PatternService discovers shorthand ticket prefixes in entry descriptions so
// the matcher can widen identifier extraction. Purely additive: a failure or
// empty result leaves the fixed extraction pattern in charge.
type PatternService interface {
	// Discover returns an alias-prefix -> canonical-prefix map, uppercase.
	Discover(ctx context.Context, descriptions, knownPrefixes []string) (map[string]string, llm.Usage, error)
}

type patternService struct {
	client llm.Client
}

// NewPatternService creates a PatternService backed by a generation client.
func NewPatternService(client llm.Client) PatternService {
	return &patternService{client: client}
}

func (s *patternService) Discover(ctx context.Context, descriptions, knownPrefixes []string) (map[string]string, llm.Usage, error) {
	if len(descriptions) == 0 || len(knownPrefixes) == 0 {
		return nil, llm.Usage{}, nil
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskPatterns,
		SystemPrompt: patternsSystemPrompt,
		UserPrompt:   buildPatternsPrompt(descriptions, knownPrefixes),
	})
	if err != nil {
		return nil, llm.Usage{}, fmt.Errorf("pattern discovery call failed: %w", err)
	}

	groups, err := llm.ExtractJSON[PatternGroups](resp.Text, nil)
	if err != nil {
		return nil, resp.Usage, fmt.Errorf("pattern discovery response: %w", err)
	}

	canonical := make(map[string]bool, len(knownPrefixes))
	for _, p := range knownPrefixes {
		canonical[strings.ToUpper(p)] = true
	}

	aliases := make(map[string]string)
	for prefix, shorthand := range groups {
		prefix = strings.ToUpper(strings.TrimSpace(prefix))
		if !canonical[prefix] {
			continue
		}
		for _, alias := range shorthand {
			alias = strings.ToUpper(strings.TrimSpace(alias))
			if alias == "" || alias == prefix {
				continue
			}
			aliases[alias] = prefix
		}
	}
	return aliases, resp.Usage, nil
}
