package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"propadvisor/internal/advisor"
	"propadvisor/internal/config"
	"propadvisor/internal/httpapi"
	"propadvisor/internal/manager"
)

const shutdownTimeout = 5 * time.Second

type serveFlags struct {
	addr           string
	backend        string
	model          string
	baseURL        string
	modelPath      string
	redisURL       string
	stream         bool
	requestTimeout time.Duration
	noWarmup       bool
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	sf := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Example: "  propadvisor serve --backend openai --base-url http://127.0.0.1:8000/v1\n" +
			"  propadvisor serve -c propadvisor.yaml --log-format console",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(sf.apply(cmd))
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			return runServe(ctx, cfg, logger, ln, !sf.noWarmup)
		},
	}
	f := cmd.Flags()
	f.StringVar(&sf.addr, "addr", "", "HTTP listen address, e.g. :8080")
	f.StringVar(&sf.backend, "backend", "", "Model backend: openai|llama|gemini")
	f.StringVar(&sf.model, "model", "", "Model name sent to the backend")
	f.StringVar(&sf.baseURL, "base-url", "", "Base URL of an OpenAI-compatible server")
	f.StringVar(&sf.modelPath, "model-path", "", "GGUF file or directory for the llama backend")
	f.StringVar(&sf.redisURL, "redis-url", "", "Enable the response cache at this Redis URL")
	f.BoolVar(&sf.stream, "stream", false, "Use SSE streaming against the openai backend")
	f.DurationVar(&sf.requestTimeout, "request-timeout", 0, "Per-request deadline (0 keeps config)")
	f.BoolVar(&sf.noWarmup, "no-warmup", false, "Load the backend on first request instead of at startup")
	return cmd
}

// apply returns an override that copies explicitly set flags into the config.
func (sf *serveFlags) apply(cmd *cobra.Command) func(*config.Config) {
	return func(c *config.Config) {
		changed := cmd.Flags().Changed
		if changed("addr") {
			c.Addr = sf.addr
		}
		if changed("backend") {
			c.LLM.Backend = sf.backend
		}
		if changed("model") {
			c.LLM.Model = sf.model
		}
		if changed("base-url") {
			c.LLM.BaseURL = sf.baseURL
		}
		if changed("model-path") {
			c.LLM.ModelPath = sf.modelPath
		}
		if changed("redis-url") {
			c.Cache.RedisURL = sf.redisURL
		}
		if changed("stream") {
			c.LLM.Stream = sf.stream
		}
		if changed("request-timeout") {
			c.RequestTimeout = config.Duration(sf.requestTimeout)
		}
	}
}

// runServe serves the API on ln until ctx is done. Shutdown cancels in-flight
// model calls through the handler base context.
func runServe(ctx context.Context, cfg config.Config, logger zerolog.Logger, ln net.Listener, warmup bool) error {
	mgr, err := manager.NewFromConfig(ctx, cfg)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			logger.Warn().Err(err).Msg("close backend")
		}
	}()

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetLogger(logger)
	httpapi.SetDefaultLogLevel(cfg.LogLevel)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetMaxFileBytes(cfg.MaxFileBytes)
	httpapi.SetRequestTimeout(cfg.RequestTimeout.Std())
	httpapi.SetCORSOptions(cfg.CORS.Enabled, cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders)
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{
		Handler:           httpapi.NewMux(advisor.New(mgr), mgr),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	if warmup {
		go func() {
			if err := mgr.Warmup(baseCtx); err != nil {
				logger.Warn().Err(err).Str("backend", mgr.Backend()).Msg("warmup failed; retrying on first request")
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", ln.Addr().String()).
			Str("backend", mgr.Backend()).
			Str("model", mgr.Model()).
			Bool("cache", cfg.Cache.RedisURL != "").
			Msg("propadvisor listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	cancelBase()
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}
