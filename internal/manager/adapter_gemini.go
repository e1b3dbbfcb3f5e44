package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

// geminiAdapter implements InferenceAdapter with the Google GenAI SDK.
type geminiAdapter struct {
	apiKey     string
	baseURL    string
	reqTimeout time.Duration

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiAdapter constructs a Gemini-backed adapter. The client is created
// on Load. An empty baseURL uses the public Gemini API endpoint.
func NewGeminiAdapter(apiKey, baseURL string, reqTimeout time.Duration) InferenceAdapter {
	return &geminiAdapter{apiKey: apiKey, baseURL: baseURL, reqTimeout: reqTimeout}
}

func (a *geminiAdapter) Name() string { return "gemini" }

func (a *geminiAdapter) Load(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return nil
	}
	if a.apiKey == "" {
		return ErrDependencyUnavailable("gemini api key is not configured")
	}
	cc := &genai.ClientConfig{
		APIKey:  a.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if a.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: a.baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return ErrDependencyUnavailable(fmt.Sprintf("create genai client: %v", err))
	}
	a.client = client
	return nil
}

func (a *geminiAdapter) Start(params InferParams) (InferSession, error) {
	a.mu.Lock()
	client := a.client
	a.mu.Unlock()
	if client == nil {
		return nil, errors.New("gemini client not loaded")
	}
	return &geminiSession{client: client, params: params, reqTimeout: a.reqTimeout}, nil
}

// Close drops the client; genai.Client holds no resources that need releasing.
func (a *geminiAdapter) Close() error {
	a.mu.Lock()
	a.client = nil
	a.mu.Unlock()
	return nil
}

type geminiSession struct {
	client     *genai.Client
	params     InferParams
	reqTimeout time.Duration
}

// splitForGemini moves system messages into the system instruction and maps
// assistant turns to the model role.
func splitForGemini(messages []Message) (*genai.Content, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(system) == 0 {
		return nil, contents
	}
	return genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser), contents
}

func (s *geminiSession) Generate(ctx context.Context, messages []Message, onToken func(string) error) (FinalResult, error) {
	if s.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.reqTimeout)
		defer cancel()
	}
	system, contents := splitForGemini(messages)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(s.params.Temperature),
		ResponseMIMEType:  "application/json",
	}
	if s.params.TopP > 0 {
		cfg.TopP = genai.Ptr(s.params.TopP)
	}
	if s.params.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(s.params.MaxTokens)
	}
	if len(s.params.Stop) > 0 {
		cfg.StopSequences = s.params.Stop
	}
	resp, err := s.client.Models.GenerateContent(ctx, s.params.Model, contents, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return FinalResult{}, ctx.Err()
		}
		return FinalResult{}, err
	}
	final := FinalResult{Content: resp.Text()}
	if len(resp.Candidates) > 0 {
		final.FinishReason = strings.ToLower(string(resp.Candidates[0].FinishReason))
	}
	if u := resp.UsageMetadata; u != nil {
		final.Usage = Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	if final.Content == "" {
		return final, errors.New("gemini returned no text")
	}
	if onToken != nil {
		if err := onToken(final.Content); err != nil {
			return final, err
		}
	}
	return final, nil
}

func (s *geminiSession) Close() error { return nil }
