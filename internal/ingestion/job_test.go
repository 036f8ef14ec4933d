package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingHTML = `<!DOCTYPE html>
<html>
<body>
<nav>Nav</nav>
<main>
<h1>Senior Software Engineer</h1>
<article>
<h2>Requirements</h2>
<ul>
<li>Go experience</li>
<li>Distributed systems</li>
</ul>
</article>
<form>Apply here</form>
</main>
<footer>Footer</footer>
</body>
</html>`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestJobFromURL_Success(t *testing.T) {
	server := serve(t, http.StatusOK, postingHTML)

	job, err := JobFromURL(context.Background(), server.URL, JobOptions{})
	require.NoError(t, err)

	assert.Contains(t, job.Text, "Senior Software Engineer")
	assert.Contains(t, job.Text, "Go experience")
	assert.NotContains(t, job.Text, "Nav")
	assert.NotContains(t, job.Text, "Footer")
	assert.NotContains(t, job.Text, "Apply here")
	assert.Equal(t, server.URL, job.Metadata.URL)
	assert.Equal(t, "unknown", job.Metadata.Platform)
	assert.False(t, job.Metadata.Rendered)
}

func TestJobFromURL_HTTPError(t *testing.T) {
	server := serve(t, http.StatusNotFound, "gone")

	_, err := JobFromURL(context.Background(), server.URL, JobOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
}

func TestJobFromURL_InvalidURL(t *testing.T) {
	_, err := JobFromURL(context.Background(), "not a url", JobOptions{})
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
}

func TestJobFromURL_EmptyPage(t *testing.T) {
	server := serve(t, http.StatusOK, "<html><body><script>app()</script></body></html>")

	_, err := JobFromURL(context.Background(), server.URL, JobOptions{})
	assert.ErrorIs(t, err, ErrContentExtractionFailed)
}

func TestJobFromURL_BrowserFallback(t *testing.T) {
	server := serve(t, http.StatusOK, `<html><body><div id="root">Loading</div></body></html>`)
	rendered := "<html><body><main><p>" + strings.Repeat("Own the platform roadmap. ", 30) + "</p></main></body></html>"

	calls := 0
	render := func(_ context.Context, url string) (string, error) {
		calls++
		assert.Equal(t, server.URL, url)
		return rendered, nil
	}

	job, err := JobFromURL(context.Background(), server.URL, JobOptions{Render: render})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, job.Metadata.Rendered)
	assert.Contains(t, job.Text, "Own the platform roadmap.")
}

func TestJobFromURL_BrowserFailureKeepsFetchedText(t *testing.T) {
	server := serve(t, http.StatusOK, `<html><body><main>Short posting</main></body></html>`)
	render := func(context.Context, string) (string, error) {
		return "", errors.New("chrome not installed")
	}

	job, err := JobFromURL(context.Background(), server.URL, JobOptions{Render: render})
	require.NoError(t, err)
	assert.Equal(t, "Short posting", job.Text)
	assert.False(t, job.Metadata.Rendered)
}
