// Package main provides the jobfit command line tool and HTTP API server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/jobfit-kit/internal/app"
	"github.com/jonathan/jobfit-kit/internal/config"
	"github.com/jonathan/jobfit-kit/internal/gateway"
	"github.com/jonathan/jobfit-kit/internal/llm"
	"github.com/jonathan/jobfit-kit/internal/logging"
	"github.com/jonathan/jobfit-kit/internal/observability"
	"github.com/jonathan/jobfit-kit/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	configPath string
	workspace  string
	verbose    bool
	apiKey     string
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "jobfit",
		Short: "JobFit resume and job-fit assistant",
		Long: `JobFit extracts a structured resume, scores it against job descriptions,
writes cover letters and ATS-optimized resumes, and keeps a history of past applications.

Configuration can be loaded from a JSON file using --config. Environment variables
override the file and command-line flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&o.configPath, "config", "", "Path to config.json file")
	cmd.PersistentFlags().StringVarP(&o.workspace, "workspace", "w", "", "Workspace whose profile and history are used")
	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "Print boxed summaries instead of JSON")
	cmd.PersistentFlags().StringVar(&o.apiKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")

	cmd.AddCommand(
		newServeCmd(o),
		newProfileCmd(o),
		newAnalyzeCmd(o),
		newHistoryCmd(o),
		newExportCmd(o),
		newTokenCmd(o),
	)
	return cmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, the environment and flags
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	if o.workspace != "" {
		merged.Workspace = o.workspace
	}
	if o.apiKey != "" {
		merged.APIKey = o.apiKey
	}
	if o.verbose {
		merged.Verbose = true
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// newGateway builds the AI gateway. Tests replace it with a stub.
var newGateway = func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (app.Gateway, io.Closer, error) {
	if cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	client, err := llm.NewClient(ctx, llm.ConfigForModel(cfg.Model), cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return gateway.New(client, logger), client, nil
}

// env is everything a command needs, opened from the layered config
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	backend  storage.Backend
	gateway  app.Gateway
	closers  []io.Closer
	out      io.Writer
	printer  *observability.Printer
	registry *app.Registry
}

// open builds the logger and storage backend, and the AI gateway when needAI is set
func (o *rootOptions) open(cmd *cobra.Command, needAI bool) (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	ctx := cmd.Context()

	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage, err)
	}
	e := &env{
		cfg:     cfg,
		logger:  logger,
		backend: backend,
		closers: []io.Closer{backend},
		out:     cmd.OutOrStdout(),
		printer: observability.NewPrinter(cmd.OutOrStdout()),
	}

	if needAI {
		gw, closer, err := newGateway(ctx, cfg, logger)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.gateway = gw
		if closer != nil {
			e.closers = append(e.closers, closer)
		}
	}

	e.registry = app.NewRegistry(backend, e.gateway, cfg.AITimeout(), logger)
	return e, nil
}

// app returns the App of the configured workspace
func (e *env) app(ctx context.Context) *app.App {
	return e.registry.Get(ctx, e.cfg.Workspace)
}

// Close releases the backend and the model client
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			e.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

// printJSON writes v as indented JSON
func (e *env) printJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
