package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Resolve builds the effective configuration: the optional file at path,
// then .env files, then environment overrides, then defaults. The result is
// validated.
func Resolve(path string, envFiles ...string) (Config, error) {
	return ResolveWith(path, envFiles, nil)
}

// ResolveWith is Resolve with a final override step (command-line flags)
// applied after the environment and before defaults and validation.
func ResolveWith(path string, envFiles []string, override func(*Config)) (Config, error) {
	var cfg Config
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = loaded
	}
	if err := LoadEnvFiles(envFiles...); err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if override != nil {
		override(&cfg)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadEnvFiles loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load env file %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays environment variables on cfg. MODEL_NAME and
// MAX_NEW_TOKENS keep the names operators already use for the model server.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
				*dst = strings.TrimSpace(v)
				return
			}
		}
	}
	var firstErr error
	num := func(dst *int, key string) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", key, err)
			}
			return
		}
		*dst = n
	}
	dur := func(dst *Duration, key string) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", key, err)
			}
			return
		}
		*dst = Duration(d)
	}

	str(&cfg.Addr, "PROPADVISOR_ADDR")
	str(&cfg.LogLevel, "PROPADVISOR_LOG_LEVEL")
	str(&cfg.LogFormat, "PROPADVISOR_LOG_FORMAT")
	dur(&cfg.RequestTimeout, "PROPADVISOR_REQUEST_TIMEOUT")
	str(&cfg.LLM.Backend, "LLM_BACKEND")
	str(&cfg.LLM.Model, "MODEL_NAME", "LLM_MODEL")
	str(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	str(&cfg.LLM.APIKey, "LLM_API_KEY")
	if strings.EqualFold(cfg.LLM.Backend, BackendGemini) {
		str(&cfg.LLM.APIKey, "GEMINI_API_KEY")
	}
	str(&cfg.LLM.ModelPath, "LLM_MODEL_PATH")
	num(&cfg.LLM.MaxNewTokens, "MAX_NEW_TOKENS")
	num(&cfg.LLM.Threads, "LLM_THREADS")
	dur(&cfg.LLM.RequestTimeout, "LLM_REQUEST_TIMEOUT")
	str(&cfg.Cache.RedisURL, "REDIS_URL")
	if v, ok := lookup("PROPADVISOR_CORS_ORIGINS"); ok {
		if origins := splitCSV(v); len(origins) > 0 {
			cfg.CORS.Enabled = true
			cfg.CORS.AllowedOrigins = origins
		}
	}
	return firstErr
}

// splitCSV splits a comma-separated list, dropping blank entries.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
