package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	fail bool
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("quota")
	}
	c.data[key] = value
	return nil
}

func countingServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><main>Staff Engineer</main></body></html>"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCachedFetcher_ServesFreshPagesFromCache(t *testing.T) {
	var hits int32
	server := countingServer(t, &hits)
	f := NewCachedFetcher(newMapCache(), nil, nil)

	first, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Contains(t, second.HTML, "Staff Engineer")
	assert.Equal(t, "text/html", second.ContentType)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestCachedFetcher_RefetchesStalePages(t *testing.T) {
	var hits int32
	server := countingServer(t, &hits)
	f := NewCachedFetcher(newMapCache(), &CachedFetcherConfig{CacheTTL: time.Hour}, nil)

	now := time.Now()
	f.now = func() time.Time { return now }
	_, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	f.now = func() time.Time { return now.Add(2 * time.Hour) }
	got, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, got.FromCache)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestCachedFetcher_CacheWriteFailureIsIgnored(t *testing.T) {
	var hits int32
	server := countingServer(t, &hits)
	cache := newMapCache()
	cache.fail = true
	f := NewCachedFetcher(cache, nil, nil)

	got, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, got.HTML, "Staff Engineer")
}

func TestCachedFetcher_NilCache(t *testing.T) {
	var hits int32
	server := countingServer(t, &hits)
	f := NewCachedFetcher(nil, nil, nil)

	_, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	_, err = f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("https://jobs.example.com/1")
	assert.Equal(t, a, CacheKey("https://jobs.example.com/1"))
	assert.NotEqual(t, a, CacheKey("https://jobs.example.com/2"))
	assert.Contains(t, a, "fetch:")
}
