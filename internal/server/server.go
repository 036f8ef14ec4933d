package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/jobfit-kit/internal/app"
	"github.com/jonathan/jobfit-kit/internal/config"
	"github.com/jonathan/jobfit-kit/internal/ingestion"
	"github.com/jonathan/jobfit-kit/internal/metrics"
	"github.com/jonathan/jobfit-kit/internal/rendering"
	"github.com/jonathan/jobfit-kit/internal/server/middleware"
	"github.com/jonathan/jobfit-kit/internal/server/ratelimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// WorkspaceHeader selects the workspace when authentication is disabled
const WorkspaceHeader = "X-Workspace"

// DefaultMaxUploadBytes bounds a resume upload
const DefaultMaxUploadBytes = 10 << 20

// maxJSONBytes bounds a JSON request body
const maxJSONBytes = 1 << 20

// JobLoader fetches a job description from a posting URL
type JobLoader func(ctx context.Context, url string) (*ingestion.JobDescription, error)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	registry    *app.Registry
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	corsOrigins []string
	export      rendering.ExportOptions
	loadJob     JobLoader
	maxUpload   int64
	logger      *zap.Logger
}

// Config holds server configuration
type Config struct {
	Addr        string
	CORSOrigins []string
	// JWT enables bearer token auth; the token subject selects the workspace
	JWT       *config.JWTConfig
	RateLimit *ratelimit.Config
	Export    rendering.ExportOptions
	// Jobs configures fetching job postings for POST /analysis with a jobUrl
	Jobs           ingestion.JobOptions
	MaxUploadBytes int64
}

// New creates a new server instance
func New(cfg Config, registry *app.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Jobs.Logger == nil {
		cfg.Jobs.Logger = logger
	}

	s := &Server{
		registry:    registry,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		corsOrigins: cfg.CORSOrigins,
		export:      cfg.Export,
		maxUpload:   cfg.MaxUploadBytes,
		logger:      logger,
	}
	jobs := cfg.Jobs
	s.loadJob = func(ctx context.Context, url string) (*ingestion.JobDescription, error) {
		return ingestion.JobFromURL(ctx, url, jobs)
	}
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	api := http.NewServeMux()
	s.routes(api)

	var apiHandler http.Handler = api
	if s.jwtService != nil {
		apiHandler = middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(api)
	}

	root := http.NewServeMux()
	s.handle(root, "GET /health", s.handleHealth)
	root.Handle("GET /metrics", promhttp.Handler())
	root.Handle("/", apiHandler)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(root)))
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      5 * time.Minute, // AI calls and PDF printing
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	s.handle(mux, "GET /view", s.handleGetView)
	s.handle(mux, "POST /view", s.handleNavigate)
	s.handle(mux, "POST /view/back", s.handleBack)

	s.handle(mux, "GET /profile", s.handleGetProfile)
	s.handle(mux, "PUT /profile/resume-text", s.handleSetResumeText)
	s.handle(mux, "POST /profile/resume-file", s.handleUploadResume)
	s.handle(mux, "DELETE /profile/resume", s.handleRemoveResume)
	s.handle(mux, "PUT /profile/target-role", s.handleSetTargetRole)
	s.handle(mux, "PUT /profile/personal-info", s.handleUpdatePersonalInfo)
	s.handle(mux, "POST /profile/extract", s.handleExtractResume)
	s.handle(mux, "PUT /profile/section-order", s.handleSetSectionOrder)
	s.handle(mux, "POST /profile/sections/move", s.handleMoveSection)
	s.handle(mux, "GET /profile/document", s.handleGetDocument)
	s.handle(mux, "GET /profile/export", s.handleExportProfile)

	s.handle(mux, "POST /analysis", s.handleAnalyze)
	s.handle(mux, "GET /analysis", s.handleGetSession)
	s.handle(mux, "DELETE /analysis", s.handleClearAnalysis)
	s.handle(mux, "PUT /analysis/cover-letter", s.handleUpdateCoverLetter)
	s.handle(mux, "POST /analysis/optimize", s.handleOptimize)
	s.handle(mux, "GET /analysis/optimization/export", s.handleExportOptimization)

	s.handle(mux, "GET /history", s.handleListHistory)
	s.handle(mux, "DELETE /history", s.handleClearHistory)
	s.handle(mux, "GET /history/{id}", s.handleGetHistoryEntry)
	s.handle(mux, "POST /history/{id}/select", s.handleSelectHistory)
}

// handle registers h and records its pattern for request metrics
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if rec, ok := w.(*statusRecorder); ok {
			rec.route = pattern
		}
		h(w, r)
	})
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()), zap.Bool("auth", s.jwtService != nil))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer s.rateLimiter.Stop()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// workspaceApp returns the App of the request's workspace: the token subject
// when auth is enabled, the X-Workspace header otherwise.
func (s *Server) workspaceApp(r *http.Request) *app.App {
	workspace, err := middleware.GetWorkspace(r)
	if err != nil && s.jwtService == nil {
		workspace = strings.TrimSpace(r.Header.Get(WorkspaceHeader))
	}
	return s.registry.Get(r.Context(), workspace)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowedOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+WorkspaceHeader)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowedOrigin(origin string) string {
	if slices.Contains(s.corsOrigins, "*") {
		return "*"
	}
	if origin != "" && slices.Contains(s.corsOrigins, origin) {
		return origin
	}
	return ""
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code and matched route of a response
type statusRecorder struct {
	http.ResponseWriter
	status int
	route  string
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging adds request logging and request metrics
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		route := rec.route
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes the error with the status HTTPStatus maps it to
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	s.jsonResponse(w, status, map[string]string{"error": err.Error()})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; proxy headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds() + 0.999)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("path", r.URL.Path),
		zap.String("client", s.extractClientID(r)),
		zap.Int("limit", info.Limit))
	metrics.HTTPRequests.WithLabelValues(r.Method, "rate_limited", strconv.Itoa(http.StatusTooManyRequests)).Inc()

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
