package manager

import (
	"context"
	"fmt"
	"time"

	"propadvisor/internal/config"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultMaxQueueDepth = 32
	defaultMaxInflight   = 1
	defaultMaxWait       = 30 * time.Second
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Adapter InferenceAdapter
	// Model is sent to the backend with every call.
	Model string
	// Sampling defaults for calls that leave them unset.
	Temperature float64
	TopP        float64
	MaxTokens   int
	// Admission control. MaxQueueDepth counts generating and waiting calls.
	MaxQueueDepth int
	MaxInflight   int
	MaxWait       time.Duration
	// CallTimeout bounds a generation shared by coalesced callers. It runs
	// detached from any single caller; defaults to MaxWait plus
	// config.DefaultLLMTimeout.
	CallTimeout time.Duration
	// Cache is optional; nil disables caching and call coalescing.
	Cache     ResponseCache
	Publisher EventPublisher
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		state:   StateIdle,
		adapter: cfg.Adapter,
		model:   cfg.Model,
		defaults: InferParams{
			Model:       cfg.Model,
			Temperature: float32(cfg.Temperature),
			TopP:        float32(cfg.TopP),
			MaxTokens:   cfg.MaxTokens,
		},
		cache:     cfg.Cache,
		pub:       cfg.Publisher,
		startTime: time.Now(),
	}
	m.maxQueueDepth = cfg.MaxQueueDepth
	if m.maxQueueDepth <= 0 {
		m.maxQueueDepth = defaultMaxQueueDepth
	}
	m.maxInflight = cfg.MaxInflight
	if m.maxInflight <= 0 {
		m.maxInflight = defaultMaxInflight
	}
	if m.maxInflight > m.maxQueueDepth {
		m.maxQueueDepth = m.maxInflight
	}
	m.maxWait = cfg.MaxWait
	if m.maxWait <= 0 {
		m.maxWait = defaultMaxWait
	}
	m.callTimeout = cfg.CallTimeout
	if m.callTimeout <= 0 {
		m.callTimeout = m.maxWait + config.DefaultLLMTimeout
	}
	if m.pub == nil {
		m.pub = logPublisher{}
	}
	m.queueCh = make(chan struct{}, m.maxQueueDepth)
	m.genCh = make(chan struct{}, m.maxInflight)
	return m
}

// NewAdapter builds the adapter selected by cfg.Backend.
func NewAdapter(cfg config.LLMConfig) (InferenceAdapter, error) {
	switch cfg.Backend {
	case config.BackendOpenAI:
		return NewOpenAIAdapter(OpenAIOptions{
			BaseURL:        cfg.BaseURL,
			APIKey:         cfg.APIKey,
			Stream:         cfg.Stream,
			RequestTimeout: cfg.RequestTimeout.Std(),
			ConnectTimeout: cfg.ConnectTimeout.Std(),
		}), nil
	case config.BackendLlama:
		return NewLlamaAdapter(cfg.ModelPath, cfg.Model, cfg.ContextSize, cfg.Threads), nil
	case config.BackendGemini:
		return NewGeminiAdapter(cfg.APIKey, cfg.BaseURL, cfg.RequestTimeout.Std()), nil
	default:
		return nil, fmt.Errorf("unsupported llm backend %q", cfg.Backend)
	}
}

// NewFromConfig wires a Manager from the service configuration: the backend
// adapter and, when cache.redis_url is set, the Redis response cache.
func NewFromConfig(ctx context.Context, cfg config.Config) (*Manager, error) {
	adapter, err := NewAdapter(cfg.LLM)
	if err != nil {
		return nil, err
	}
	var cache ResponseCache
	if cfg.Cache.RedisURL != "" {
		rc, err := NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.Cache.Prefix, cfg.Cache.TTL.Std())
		if err != nil {
			_ = adapter.Close()
			return nil, err
		}
		cache = rc
	}
	return NewWithConfig(ManagerConfig{
		Adapter:       adapter,
		Model:         cfg.LLM.Model,
		Temperature:   cfg.LLM.Temperature,
		TopP:          cfg.LLM.TopP,
		MaxTokens:     cfg.LLM.MaxNewTokens,
		MaxQueueDepth: cfg.LLM.MaxQueueDepth,
		MaxInflight:   cfg.LLM.MaxInflight,
		MaxWait:       cfg.LLM.MaxWait.Std(),
		CallTimeout:   cfg.LLM.MaxWait.Std() + cfg.LLM.RequestTimeout.Std(),
		Cache:         cache,
	}), nil
}
