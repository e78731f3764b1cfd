package llm

// Usage counts tokens consumed by generation calls. Each phase returns its
// own usage and the caller combines them; there is no shared running counter.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	Calls            int
}

// Add returns the combined usage of two phases.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		Calls:            u.Calls + other.Calls,
	}
}

// TotalTokens returns prompt plus completion tokens.
func (u Usage) TotalTokens() int {
	return u.PromptTokens + u.CompletionTokens
}
