package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/pthm/hxhydrate"
	"github.com/pthm/hxhydrate/internal/config"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// app carries the configuration shared by all commands.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	timeout time.Duration

	shutdownTracing func(context.Context) error
}

func newRootCmd() *cobra.Command {
	a := &app{}

	var (
		baseURL   string
		formCodec string
		maxDepth  int
		logLevel  string
		trace     bool
	)

	rootCmd := &cobra.Command{
		Use:   "hxhydrate",
		Short: "Recursive component hydration for HTML pages",
		Long: `hxhydrate resolves component placeholders in HTML pages.

A placeholder is any element carrying data-component (and optionally a
base64url JSON data-object payload). Hydration POSTs the payload to the
component endpoint, splices the returned fragment in place and repeats
until no placeholder is left.

Configuration is read from HXHYDRATE_* environment variables; flags
override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("base-url") {
				cfg.BaseURL = baseURL
			}
			if flags.Changed("form-codec") {
				cfg.FormCodec = formCodec
			}
			if flags.Changed("max-depth") {
				cfg.MaxDepth = maxDepth
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("trace") {
				cfg.Trace = trace
			}
			return a.init(cfg, cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.shutdownTracing == nil {
				return nil
			}
			return a.shutdownTracing(context.Background())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&baseURL, "base-url", "", "Base URL for relative component references (env HXHYDRATE_BASE_URL)")
	pf.StringVar(&formCodec, "form-codec", "cbor", "Form body codec: cbor or msgpack (env HXHYDRATE_FORM_CODEC)")
	pf.IntVar(&maxDepth, "max-depth", 0, "Maximum placeholder nesting depth, 0 for unlimited (env HXHYDRATE_MAX_DEPTH)")
	pf.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error (env HXHYDRATE_LOG_LEVEL)")
	pf.BoolVar(&trace, "trace", false, "Write OpenTelemetry spans to stderr (env HXHYDRATE_TRACE)")
	pf.DurationVar(&a.timeout, "timeout", 30*time.Second, "Timeout for each outbound request")

	rootCmd.AddCommand(
		hydrateCmd(a),
		triggerCmd(a),
		encodeCmd(),
		decodeCmd(),
		serveCmd(a),
		versionCmd(),
	)

	return rootCmd
}

func (a *app) init(cfg config.Config, logOut io.Writer) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if _, err := cfg.Codec(); err != nil {
		return err
	}
	if _, err := cfg.Base(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	if cfg.Trace {
		shutdown, err := setupTracing(logOut)
		if err != nil {
			return err
		}
		a.shutdownTracing = shutdown
	}
	return nil
}

// engineOptions translates the configuration into engine options.
func (a *app) engineOptions(extra ...hxhydrate.Option) []hxhydrate.Option {
	// init validated both.
	codec, _ := a.cfg.Codec()
	base, _ := a.cfg.Base()

	opts := []hxhydrate.Option{
		hxhydrate.WithLogger(a.logger),
		hxhydrate.WithFormCodec(codec),
		hxhydrate.WithMaxDepth(a.cfg.MaxDepth),
		hxhydrate.WithHTTPClient(&http.Client{Timeout: a.timeout}),
	}
	if base != nil {
		opts = append(opts, hxhydrate.WithBaseURL(base))
	}
	return append(opts, extra...)
}
