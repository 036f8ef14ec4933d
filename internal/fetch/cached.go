package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// DefaultPageCacheTTL is how long a fetched page stays fresh
const DefaultPageCacheTTL = 24 * time.Hour

// Cache is the key-value store cached pages are written to. storage.Backend satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CachedFetcher wraps URL fetching with a TTL cache of the raw page.
type CachedFetcher struct {
	cache    Cache
	options  *Options
	cacheTTL time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL time.Duration
	Options  *Options
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL: DefaultPageCacheTTL,
		Options:  DefaultOptions(),
	}
}

// NewCachedFetcher creates a new cached fetcher. A nil cache disables caching.
func NewCachedFetcher(cache Cache, config *CachedFetcherConfig, logger *zap.Logger) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultPageCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFetcher{
		cache:    cache,
		options:  config.Options,
		cacheTTL: config.CacheTTL,
		now:      time.Now,
		logger:   logger,
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool
	FetchedAt time.Time
}

type cachedPage struct {
	URL         string    `json:"url"`
	HTML        string    `json:"html"`
	ContentType string    `json:"contentType"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// CacheKey returns the cache key of a URL
func CacheKey(urlStr string) string {
	sum := sha256.Sum256([]byte(urlStr))
	return "fetch:" + hex.EncodeToString(sum[:])
}

// Fetch retrieves a URL, using the cache if available and fresh.
// Cache failures are logged and never fail the fetch.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	key := CacheKey(urlStr)

	if f.cache != nil {
		if data, err := f.cache.Get(ctx, key); err == nil {
			var page cachedPage
			if err := json.Unmarshal(data, &page); err == nil && f.now().Sub(page.FetchedAt) < f.cacheTTL {
				return &CachedResult{
					Result: &Result{
						URL:         page.URL,
						HTML:        page.HTML,
						ContentType: page.ContentType,
						StatusCode:  200,
					},
					FromCache: true,
					FetchedAt: page.FetchedAt,
				}, nil
			}
		}
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}
	fetchedAt := f.now()

	if f.cache != nil {
		data, err := json.Marshal(cachedPage{
			URL:         result.URL,
			HTML:        result.HTML,
			ContentType: result.ContentType,
			FetchedAt:   fetchedAt,
		})
		if err == nil {
			err = f.cache.Set(ctx, key, data)
		}
		if err != nil {
			f.logger.Warn("failed to cache page", zap.String("url", urlStr), zap.Error(err))
		}
	}

	return &CachedResult{Result: result, FetchedAt: fetchedAt}, nil
}
