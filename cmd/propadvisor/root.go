package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"propadvisor/internal/config"
	"propadvisor/internal/manager"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	envFiles   []string
	logLevel   string
	logFormat  string
}

func buildRootCmd(stdout io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "propadvisor",
		Short:         "LLM-backed real-estate advisory service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", os.Getenv("PROPADVISOR_CONFIG"), "Config file (.yaml, .yml, .json, .toml)")
	pf.StringSliceVar(&opts.envFiles, "env-file", nil, "KEY=VALUE files loaded into the environment (default .env)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: trace|debug|info|warn|error (overrides config)")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format: json|console (overrides config)")

	root.AddCommand(newServeCmd(opts), newPromptCmd(), newVersionCmd())
	return root
}

// resolve loads the effective configuration, applying log flags and the
// command's own overrides last.
func (o *rootOptions) resolve(override func(*config.Config)) (config.Config, error) {
	return config.ResolveWith(o.configPath, o.envFiles, func(c *config.Config) {
		if o.logLevel != "" {
			c.LogLevel = o.logLevel
		}
		if o.logFormat != "" {
			c.LogFormat = o.logFormat
		}
		if override != nil {
			override(c)
		}
	})
}

// newLogger builds the process logger from config and installs it as the
// zerolog global.
func newLogger(cfg config.Config, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel)))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("log level: %w", err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "console", "text":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json", "":
	default:
		return zerolog.Logger{}, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}
	l := zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "propadvisor").Logger()
	zerolog.SetGlobalLevel(lvl)
	log.Logger = l
	return l, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			llama := "no"
			if manager.LlamaBuilt() {
				llama = "yes"
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "propadvisor %s (llama: %s)\n", version, llama)
			return err
		},
	}
}
