package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/jobfit-kit/internal/browser"
	"github.com/jonathan/jobfit-kit/internal/fetch"
	"go.uber.org/zap"
)

var (
	// ErrHTTPRequestFailed is returned when the page could not be downloaded
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when no text could be extracted
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// PageFetcher downloads a page. *fetch.CachedFetcher implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, urlStr string) (*fetch.CachedResult, error)
}

// RenderFunc renders a page in a headless browser and returns its HTML
type RenderFunc func(ctx context.Context, url string) (string, error)

// JobOptions configures JobFromURL
type JobOptions struct {
	Fetcher PageFetcher // nil uses an uncached fetcher
	// Render is used when the fetched text is too short; nil disables the fallback
	Render RenderFunc
	Logger *zap.Logger
}

// BrowserRenderer returns a RenderFunc backed by headless Chrome
func BrowserRenderer(timeout time.Duration, logger *zap.Logger) RenderFunc {
	return func(ctx context.Context, url string) (string, error) {
		return browser.RenderHTML(ctx, url, timeout, logger)
	}
}

// JobFromURL fetches a job posting, extracts the posting text with
// platform-specific selectors and cleans it. Pages too short to be a posting
// are re-rendered in the browser when opts.Render is set.
func JobFromURL(ctx context.Context, urlStr string, opts JobOptions) (*JobDescription, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = fetch.NewCachedFetcher(nil, nil, logger)
	}

	platform := fetch.DetectPlatform(urlStr)
	logger.Debug("fetching job posting", zap.String("url", urlStr), zap.String("platform", string(platform)))

	result, err := fetcher.Fetch(ctx, urlStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	text, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	rendered := false
	if opts.Render != nil && fetch.ShouldUseBrowser(text) {
		logger.Info("job posting text too short, rendering in browser",
			zap.Int("chars", len(text)), zap.Int("min", fetch.MinContentLength))
		html, renderErr := opts.Render(ctx, urlStr)
		if renderErr != nil {
			logger.Warn("browser rendering failed, using fetched content", zap.Error(renderErr))
		} else if browserText, extractErr := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...); extractErr == nil {
			text = browserText
			rendered = true
		}
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: page %s has no text", ErrContentExtractionFailed, urlStr)
	}

	metadata := NewMetadata(cleaned, urlStr)
	metadata.Platform = string(platform)
	metadata.FromCache = result.FromCache
	metadata.Rendered = rendered

	return &JobDescription{Text: cleaned, Metadata: metadata}, nil
}
