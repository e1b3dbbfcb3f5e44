package manager

import "context"

// InferenceAdapter abstracts the model runtime used by the Manager.
// Concrete implementations: an OpenAI-compatible server, in-process
// llama.cpp, and Gemini.
type InferenceAdapter interface {
	// Name identifies the backend in logs, metrics and /status.
	Name() string
	// Load prepares the runtime (loads weights, builds clients). The manager
	// calls it once before the first generation; it must be idempotent.
	Load(ctx context.Context) error
	// Start prepares a session for one generation with the given parameters.
	Start(params InferParams) (InferSession, error)
	// Close releases runtime resources.
	Close() error
}

// InferSession represents a single inference session.
type InferSession interface {
	// Generate runs the chat. Streaming backends invoke onToken for each
	// fragment; others may call it once with the full text or not at all.
	// Implementations must return when the context is canceled.
	Generate(ctx context.Context, messages []Message, onToken func(string) error) (FinalResult, error)
	// Close releases any resources associated with the session.
	Close() error
}

// InferParams captures generation parameters passed to the adapter.
type InferParams struct {
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
	Stop        []string
}

// FinalResult summarizes the generation.
type FinalResult struct {
	Content      string
	Usage        Usage
	FinishReason string
}

// Usage contains token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
