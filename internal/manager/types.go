package manager

// State represents lifecycle state of the backend.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
	StateClosed  State = "closed"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a single generation. Zero sampling values fall back to the
// manager defaults.
type ChatRequest struct {
	Messages    []Message
	Temperature float64
	TopP        float64
	MaxTokens   int
	// Endpoint labels logs and metrics (analyze, checklist, ...).
	Endpoint string
}
