package config

import (
	"fmt"
	"strings"
	"time"
)

// Backends understood by the manager.
const (
	BackendOpenAI = "openai"
	BackendLlama  = "llama"
	BackendGemini = "gemini"
)

// Defaults applied when the corresponding fields are unset.
const (
	DefaultAddr          = ":8080"
	DefaultModel         = "QuantTrio/Qwen3-235B-A22B-Instruct-2507-AWQ"
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultBaseURL       = "http://127.0.0.1:8000/v1"
	DefaultMaxNewTokens  = 512
	DefaultTemperature   = 0.35
	DefaultTopP          = 0.9
	DefaultMaxBodyBytes  = 16 << 20
	DefaultMaxFileBytes  = 4 << 20
	DefaultMaxQueueDepth = 32
	DefaultMaxInflight   = 1
	DefaultMaxWait       = 30 * time.Second
	DefaultLLMTimeout    = 120 * time.Second
	DefaultConnTimeout   = 5 * time.Second
	DefaultCacheTTL      = 10 * time.Minute
	DefaultContextSize   = 4096
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`
	// Upper bound for a whole request body, uploads included.
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	// Upper bound for a single uploaded attachment.
	MaxFileBytes int64 `json:"max_file_bytes" yaml:"max_file_bytes" toml:"max_file_bytes"`
	// Per-request deadline; zero disables it.
	RequestTimeout Duration    `json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`
	CORS           CORSConfig  `json:"cors" yaml:"cors" toml:"cors"`
	LLM            LLMConfig   `json:"llm" yaml:"llm" toml:"llm"`
	Cache          CacheConfig `json:"cache" yaml:"cache" toml:"cache"`
}

// CORSConfig is opt-in; when disabled no CORS middleware is installed.
type CORSConfig struct {
	Enabled        bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods" yaml:"allowed_methods" toml:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers" yaml:"allowed_headers" toml:"allowed_headers"`
}

// LLMConfig selects and tunes the model backend.
type LLMConfig struct {
	Backend string `json:"backend" yaml:"backend" toml:"backend"`
	Model   string `json:"model" yaml:"model" toml:"model"`
	// openai: base URL of an OpenAI-compatible server (vLLM, llama-server).
	BaseURL string `json:"base_url" yaml:"base_url" toml:"base_url"`
	APIKey  string `json:"api_key" yaml:"api_key" toml:"api_key"`
	// openai: request SSE streaming instead of a single JSON response.
	Stream         bool     `json:"stream" yaml:"stream" toml:"stream"`
	MaxNewTokens   int      `json:"max_new_tokens" yaml:"max_new_tokens" toml:"max_new_tokens"`
	Temperature    float64  `json:"temperature" yaml:"temperature" toml:"temperature"`
	TopP           float64  `json:"top_p" yaml:"top_p" toml:"top_p"`
	RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`
	ConnectTimeout Duration `json:"connect_timeout" yaml:"connect_timeout" toml:"connect_timeout"`
	// llama: a *.gguf file, or a directory scanned for one matching Model.
	ModelPath   string `json:"model_path" yaml:"model_path" toml:"model_path"`
	ContextSize int    `json:"context_size" yaml:"context_size" toml:"context_size"`
	Threads     int    `json:"threads" yaml:"threads" toml:"threads"`
	// Admission control.
	MaxQueueDepth int      `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	MaxInflight   int      `json:"max_inflight" yaml:"max_inflight" toml:"max_inflight"`
	MaxWait       Duration `json:"max_wait" yaml:"max_wait" toml:"max_wait"`
}

// CacheConfig enables the optional Redis response cache when RedisURL is set.
type CacheConfig struct {
	RedisURL string   `json:"redis_url" yaml:"redis_url" toml:"redis_url"`
	TTL      Duration `json:"ttl" yaml:"ttl" toml:"ttl"`
	Prefix   string   `json:"prefix" yaml:"prefix" toml:"prefix"`
}

// Duration is a time.Duration written as a string ("30s") in config files.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Default returns a Config with every default applied.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.MaxFileBytes <= 0 {
		c.MaxFileBytes = DefaultMaxFileBytes
	}
	if c.CORS.Enabled {
		if len(c.CORS.AllowedOrigins) == 0 {
			c.CORS.AllowedOrigins = []string{"*"}
		}
		if len(c.CORS.AllowedMethods) == 0 {
			c.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
		}
		if len(c.CORS.AllowedHeaders) == 0 {
			c.CORS.AllowedHeaders = []string{"Accept", "Content-Type", "X-Request-ID", "X-Log-Level"}
		}
	}
	l := &c.LLM
	if l.Backend == "" {
		l.Backend = BackendOpenAI
	}
	l.Backend = strings.ToLower(strings.TrimSpace(l.Backend))
	if l.Model == "" {
		l.Model = DefaultModel
		if l.Backend == BackendGemini {
			l.Model = DefaultGeminiModel
		}
	}
	if l.BaseURL == "" && l.Backend == BackendOpenAI {
		l.BaseURL = DefaultBaseURL
	}
	if l.MaxNewTokens <= 0 {
		l.MaxNewTokens = DefaultMaxNewTokens
	}
	if l.Temperature <= 0 {
		l.Temperature = DefaultTemperature
	}
	if l.TopP <= 0 {
		l.TopP = DefaultTopP
	}
	if l.RequestTimeout <= 0 {
		l.RequestTimeout = Duration(DefaultLLMTimeout)
	}
	if l.ConnectTimeout <= 0 {
		l.ConnectTimeout = Duration(DefaultConnTimeout)
	}
	if l.ContextSize <= 0 {
		l.ContextSize = DefaultContextSize
	}
	if l.MaxQueueDepth <= 0 {
		l.MaxQueueDepth = DefaultMaxQueueDepth
	}
	if l.MaxInflight <= 0 {
		l.MaxInflight = DefaultMaxInflight
	}
	if l.MaxWait <= 0 {
		l.MaxWait = Duration(DefaultMaxWait)
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = Duration(DefaultCacheTTL)
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "propadvisor:llm:"
	}
}

// Validate reports configuration that cannot work.
func (c Config) Validate() error {
	switch c.LLM.Backend {
	case BackendOpenAI:
		if c.LLM.BaseURL == "" {
			return fmt.Errorf("llm.base_url is required for the %s backend", c.LLM.Backend)
		}
	case BackendLlama:
		if c.LLM.ModelPath == "" {
			return fmt.Errorf("llm.model_path is required for the %s backend", c.LLM.Backend)
		}
	case BackendGemini:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key (or GEMINI_API_KEY) is required for the %s backend", c.LLM.Backend)
		}
	default:
		return fmt.Errorf("unsupported llm.backend: %q", c.LLM.Backend)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature out of range: %v", c.LLM.Temperature)
	}
	if c.LLM.TopP < 0 || c.LLM.TopP > 1 {
		return fmt.Errorf("llm.top_p out of range: %v", c.LLM.TopP)
	}
	if c.MaxFileBytes > c.MaxBodyBytes {
		return fmt.Errorf("max_file_bytes (%d) exceeds max_body_bytes (%d)", c.MaxFileBytes, c.MaxBodyBytes)
	}
	return nil
}
