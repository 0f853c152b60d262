package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "docpipe/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LLMConfig holds settings for the LLM mapping strategy, which talks to an
// OpenAI-compatible completion server (vLLM by default).
type LLMConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the server address including the API prefix
	// (default "http://localhost:8000/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the completion model identifier
	// (default "Qwen/Qwen2.5-7B-Instruct").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates the request. vLLM servers conventionally accept
	// the literal "EMPTY".
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens bounds the completion length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature. Kept low (default 0.1) so the
	// reply stays within the JSON schema the prompt demands.
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// PipelineConfig groups the settings for one conversion run.
type PipelineConfig struct {
	// Pattern selects the placeholder delimiter style: default, bracket,
	// angle, or underscore.
	Pattern string `json:"pattern" yaml:"pattern"`

	LLM LLMConfig `json:"llm" yaml:"llm"`
}
