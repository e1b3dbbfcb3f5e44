package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, BackendOpenAI, cfg.LLM.Backend)
	assert.Equal(t, DefaultModel, cfg.LLM.Model)
	assert.Equal(t, DefaultBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, DefaultMaxNewTokens, cfg.LLM.MaxNewTokens)
	assert.InDelta(t, DefaultTopP, cfg.LLM.TopP, 1e-9)
	assert.Equal(t, DefaultMaxWait, cfg.LLM.MaxWait.Std())
	assert.NoError(t, cfg.Validate())
}

func TestDefaults_GeminiModel(t *testing.T) {
	cfg := Config{LLM: LLMConfig{Backend: "Gemini", APIKey: "k"}}
	cfg.ApplyDefaults()
	assert.Equal(t, BackendGemini, cfg.LLM.Backend)
	assert.Equal(t, DefaultGeminiModel, cfg.LLM.Model)
	assert.Empty(t, cfg.LLM.BaseURL)
	assert.NoError(t, cfg.Validate())
}

func TestDefaults_CORSOnlyWhenEnabled(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.CORS.AllowedOrigins)

	cfg = Config{CORS: CORSConfig{Enabled: true}}
	cfg.ApplyDefaults()
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Contains(t, cfg.CORS.AllowedMethods, "POST")
}

func TestApplyEnv(t *testing.T) {
	var cfg Config
	err := ApplyEnv(&cfg, envMap(map[string]string{
		"MODEL_NAME":          "Qwen/Qwen2.5-7B-Instruct",
		"MAX_NEW_TOKENS":      "1024",
		"LLM_BASE_URL":        "http://vllm:8000/v1",
		"LLM_REQUEST_TIMEOUT": "45s",
		"REDIS_URL":           "redis://cache:6379/0",
		"PROPADVISOR_ADDR":    ":9090",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Qwen/Qwen2.5-7B-Instruct", cfg.LLM.Model)
	assert.Equal(t, 1024, cfg.LLM.MaxNewTokens)
	assert.Equal(t, "http://vllm:8000/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.LLM.RequestTimeout.Std())
	assert.Equal(t, "redis://cache:6379/0", cfg.Cache.RedisURL)
	assert.Equal(t, ":9090", cfg.Addr)
}

func TestApplyEnv_GeminiKey(t *testing.T) {
	cfg := Config{LLM: LLMConfig{Backend: BackendGemini}}
	require.NoError(t, ApplyEnv(&cfg, envMap(map[string]string{"GEMINI_API_KEY": "secret"})))
	assert.Equal(t, "secret", cfg.LLM.APIKey)

	cfg = Config{LLM: LLMConfig{Backend: BackendOpenAI}}
	require.NoError(t, ApplyEnv(&cfg, envMap(map[string]string{"GEMINI_API_KEY": "secret"})))
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestApplyEnv_BadNumber(t *testing.T) {
	var cfg Config
	err := ApplyEnv(&cfg, envMap(map[string]string{"MAX_NEW_TOKENS": "lots"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_NEW_TOKENS")
}

func TestValidate(t *testing.T) {
	cases := map[string]Config{
		"unknown backend": {LLM: LLMConfig{Backend: "bard"}},
		"llama no path":   {LLM: LLMConfig{Backend: BackendLlama}},
		"gemini no key":   {LLM: LLMConfig{Backend: BackendGemini}},
		"top_p range":     {LLM: LLMConfig{TopP: 1.5}},
		"file over body":  {MaxBodyBytes: 10, MaxFileBytes: 20},
	}
	for name, cfg := range cases {
		cfg.ApplyDefaults()
		assert.Error(t, cfg.Validate(), name)
	}
}

func TestResolve_FileEnvAndDotEnv(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :7000\nllm:\n  backend: llama\n  model_path: /models/a.gguf\n")
	envFile := filepath.Join(d, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("LLM_THREADS=6\n"), 0o644))
	t.Setenv("LLM_THREADS", "")
	require.NoError(t, os.Unsetenv("LLM_THREADS"))

	cfg, err := Resolve(p, envFile)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, BackendLlama, cfg.LLM.Backend)
	assert.Equal(t, 6, cfg.LLM.Threads)
}

func TestResolve_Invalid(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "llm:\n  backend: llama\n")
	_, err := Resolve(p, filepath.Join(d, "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model_path")
}

func TestResolveWith_OverrideWinsOverEnv(t *testing.T) {
	t.Setenv("LLM_BACKEND", "llama")
	cfg, err := ResolveWith("", []string{filepath.Join(t.TempDir(), "none.env")}, func(c *Config) {
		c.LLM.Backend = BackendOpenAI
		c.Addr = ":9999"
	})
	require.NoError(t, err)
	assert.Equal(t, BackendOpenAI, cfg.LLM.Backend)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, DefaultBaseURL, cfg.LLM.BaseURL)
}
