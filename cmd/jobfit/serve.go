package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/jobfit-kit/internal/config"
	"github.com/jonathan/jobfit-kit/internal/fetch"
	"github.com/jonathan/jobfit-kit/internal/ingestion"
	"github.com/jonathan/jobfit-kit/internal/rendering"
	"github.com/jonathan/jobfit-kit/internal/server"
	"github.com/jonathan/jobfit-kit/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

// browserTimeout bounds headless Chrome for job pages and PDF export
const browserTimeout = 60 * time.Second

func newServeCmd(o *rootOptions) *cobra.Command {
	var (
		addr          string
		latexTemplate string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start an HTTP server that exposes the profile, analysis, history and export endpoints.

Every workspace gets its own profile and history. With require_auth set, the
workspace is taken from the bearer token subject; otherwise from the X-Workspace header.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.open(cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()

			cfg := server.Config{
				Addr:        e.cfg.Addr,
				CORSOrigins: e.cfg.CORSOrigins,
				RateLimit:   ratelimit.LoadConfig(),
				Export: rendering.ExportOptions{
					LaTeXTemplate: latexTemplate,
					PDFTimeout:    browserTimeout,
				},
				Jobs: jobOptions(e),
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if e.cfg.RequireAuth {
				jwtCfg, err := config.NewJWTConfig()
				if err != nil {
					return fmt.Errorf("auth is required: %w", err)
				}
				cfg.JWT = jwtCfg
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(cfg, e.registry, e.logger).Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")
	cmd.Flags().StringVar(&latexTemplate, "latex-template", "", "LaTeX template used instead of the built-in one")
	return cmd
}

// jobOptions configures job posting fetches with the page cache on the storage backend
func jobOptions(e *env) ingestion.JobOptions {
	opts := ingestion.JobOptions{
		Fetcher: fetch.NewCachedFetcher(e.backend, nil, e.logger),
		Logger:  e.logger,
	}
	if e.cfg.UseBrowser {
		opts.Render = ingestion.BrowserRenderer(browserTimeout, e.logger)
	}
	return opts
}
