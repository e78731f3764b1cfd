package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of generation task being performed.
type TaskType string

const (
	TaskSemanticMatch TaskType = "semantic_match"
	TaskDecompose     TaskType = "decompose"
	TaskEnrich        TaskType = "enrich"
	TaskPatterns      TaskType = "patterns"
)

// TaskConfig holds per-task generation parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// Config holds all configuration for the generation subsystem.
type Config struct {
	LogCalls   bool
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns a Config with sensible defaults for a local Ollama
// instance.
func DefaultConfig() Config {
	return Config{
		LogCalls:   false,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  30000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskSemanticMatch: {Temperature: 0.1, MaxTokens: 2048, TimeoutMs: 30000},
			TaskDecompose:     {Temperature: 0.2, MaxTokens: 2048, TimeoutMs: 30000},
			TaskEnrich:        {Temperature: 0.3, MaxTokens: 4096, TimeoutMs: 60000},
			TaskPatterns:      {Temperature: 0.1, MaxTokens: 512, TimeoutMs: 15000},
		},
	}
}

// LoadConfig reads generation configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("CHRONICLE_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CHRONICLE_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("CHRONICLE_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("CHRONICLE_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("CHRONICLE_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskSemanticMatch, "CHRONICLE_LLM_SEMANTIC_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskDecompose, "CHRONICLE_LLM_DECOMPOSE_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskEnrich, "CHRONICLE_LLM_ENRICH_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskPatterns, "CHRONICLE_LLM_PATTERNS_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c Config) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *Config, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
