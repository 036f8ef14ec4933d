package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/jobfit-kit/internal/app"
	"github.com/jonathan/jobfit-kit/internal/config"
	"github.com/jonathan/jobfit-kit/internal/gateway"
	"github.com/jonathan/jobfit-kit/internal/server/ratelimit"
	"github.com/jonathan/jobfit-kit/internal/storage"
	"github.com/jonathan/jobfit-kit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	mu     sync.Mutex
	lastJD string
}

func (g *stubGateway) ExtractResume(_ context.Context, profile types.UserProfile) (*types.ResumeAnalysis, error) {
	if !profile.HasResume() {
		return nil, &gateway.MissingResumeError{Message: "upload or paste a resume first"}
	}
	return &types.ResumeAnalysis{
		PersonalInfo:        types.PersonalInfo{Name: "Ada Lovelace", Links: []string{}},
		ProfessionalSummary: "Backend engineer & mentor.",
		Skills:              types.Skills{Technical: []string{"Go"}, Soft: []string{}, Tools: []string{}},
		WorkExperience:      []types.Experience{{Role: "Engineer", Company: "Acme", Duration: "2020 - 2024", KeyAchievements: []string{}}},
		Education:           []types.Education{},
		Strengths:           []string{},
	}, nil
}

func (g *stubGateway) AnalyzeApplication(_ context.Context, jd string, profile types.UserProfile, _ string) (*types.ApplicationAnalysis, error) {
	if !profile.HasResume() {
		return nil, &gateway.MissingResumeError{Message: "upload or paste a resume first"}
	}
	g.mu.Lock()
	g.lastJD = jd
	g.mu.Unlock()
	return &types.ApplicationAnalysis{
		Job: types.Job{RoleTitle: "Platform Engineer"},
		MatchAnalysis: types.MatchAnalysis{
			Score:           70,
			Verdict:         types.VerdictGoodMatch,
			ComparisonTable: []types.ComparisonRow{{Requirement: "Kubernetes", Status: types.StatusMissing}},
		},
		CoverLetter: "Dear team",
	}, nil
}

func (g *stubGateway) OptimizeResume(ctx context.Context, _ string, profile types.UserProfile, score types.Score) (*types.ResumeOptimization, error) {
	resume, err := g.ExtractResume(ctx, profile)
	if err != nil {
		return nil, err
	}
	return &types.ResumeOptimization{OriginalScore: score, NewScore: 85, StructuredResume: *resume, Changes: []types.Change{}}, nil
}

type testServer struct {
	*Server
	gateway *stubGateway
}

func newTestServer(t *testing.T, cfg Config) *testServer {
	t.Helper()
	gw := &stubGateway{}
	registry := app.NewRegistry(storage.NewMemoryBackend(0), gw, time.Second, nil)
	if cfg.RateLimit == nil {
		cfg.RateLimit = &ratelimit.Config{Enabled: false}
	}
	if cfg.CORSOrigins == nil {
		cfg.CORSOrigins = []string{"*"}
	}
	s := New(cfg, registry, nil)
	t.Cleanup(s.rateLimiter.Stop)
	return &testServer{Server: s, gateway: gw}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	w := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, w))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})
	s.do(t, http.MethodGet, "/profile", nil)

	w := s.do(t, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `jobfit_http_requests_total{method="GET",route="GET /profile",status="200"}`)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, Config{CORSOrigins: []string{"https://app.example.com"}})

	w := s.do(t, http.MethodOptions, "/profile", nil, "Origin", "https://app.example.com")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")

	w = s.do(t, http.MethodGet, "/profile", nil, "Origin", "https://evil.example.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestProfileLifecycle(t *testing.T) {
	s := newTestServer(t, Config{})

	w := s.do(t, http.MethodPut, "/profile/resume-text", map[string]string{"text": "Ada Lovelace\nEngineer"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Ada Lovelace\nEngineer", decode[types.UserProfile](t, w).ResumeText)

	w = s.do(t, http.MethodPut, "/profile/target-role", map[string]string{"targetRole": "SRE"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/profile/document", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "no extracted resume yet")

	w = s.do(t, http.MethodPost, "/profile/extract", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := decode[types.UserProfile](t, w)
	require.NotNil(t, profile.Analysis)
	assert.Equal(t, "SRE", profile.TargetRole)
	assert.Len(t, profile.SectionOrder, 7)

	w = s.do(t, http.MethodPost, "/profile/sections/move", map[string]int{"from": 2, "to": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "experience", decode[types.UserProfile](t, w).SectionOrder[0])

	w = s.do(t, http.MethodPost, "/profile/sections/move", map[string]int{"from": 0, "to": 99})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPut, "/profile/personal-info", map[string]any{"name": "Ada King", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/profile/personal-info", map[string]any{"name": "Ada King", "email": "ada@king.org"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/profile/document", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		Header   types.PersonalInfo
		Sections []struct{ Key string }
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Ada King", doc.Header.Name)
	require.NotEmpty(t, doc.Sections)
	assert.Equal(t, "experience", doc.Sections[0].Key)

	w = s.do(t, http.MethodDelete, "/profile/resume", nil)
	require.Equal(t, http.StatusOK, w.Code)
	gone := decode[types.UserProfile](t, w)
	assert.False(t, gone.HasResume())
}

func TestSetResumeText_Validation(t *testing.T) {
	s := newTestServer(t, Config{})

	w := s.do(t, http.MethodPut, "/profile/resume-text", map[string]string{"text": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPut, "/profile/resume-text", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON")
}

func upload(t *testing.T, s *testServer, name, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + name + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile/resume-file", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestUploadResume(t *testing.T) {
	s := newTestServer(t, Config{})

	w := upload(t, s, "cv.txt", "text/plain", []byte("Grace Hopper"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := decode[types.UserProfile](t, w)
	assert.Equal(t, "Grace Hopper", profile.ResumeText)
	require.NotNil(t, profile.ResumeFile)
	assert.Equal(t, "cv.txt", profile.ResumeFile.Name)

	w = upload(t, s, "photo.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = upload(t, s, "cv.pdf", "application/pdf", []byte("not a pdf"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodPost, "/profile/resume-file", map[string]string{"file": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadResume_TooLarge(t *testing.T) {
	s := newTestServer(t, Config{MaxUploadBytes: 64})

	w := upload(t, s, "cv.txt", "text/plain", bytes.Repeat([]byte("x"), 1024))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestAnalysisFlow(t *testing.T) {
	s := newTestServer(t, Config{})

	w := s.do(t, http.MethodPost, "/analysis", map[string]string{"jobDescription": "We need Go"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "no resume yet")

	s.do(t, http.MethodPut, "/profile/resume-text", map[string]string{"text": "Ada"})
	w = s.do(t, http.MethodPost, "/view", map[string]string{"view": "analysis"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/analysis", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodPost, "/analysis", map[string]string{"jobDescription": "We need Go", "instructions": "short"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[analysisResponse](t, w)
	require.NotNil(t, result.Analysis)
	assert.NotEmpty(t, result.Analysis.ID)
	assert.Equal(t, types.StatusMissing, result.Analysis.MatchAnalysis.ComparisonTable[0].Status)

	w = s.do(t, http.MethodPut, "/analysis/cover-letter", map[string]string{"coverLetter": "Edited"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Edited", decode[app.Session](t, w).Result.CoverLetter)

	w = s.do(t, http.MethodGet, "/analysis/optimization/export", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/analysis/optimize", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	opt := decode[types.ResumeOptimization](t, w)
	assert.Equal(t, types.Score(70), opt.OriginalScore)
	assert.Equal(t, types.Score(85), opt.NewScore)

	w = s.do(t, http.MethodGet, "/analysis/optimization/export?format=html", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ada Lovelace")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "resume-optimized.html")

	w = s.do(t, http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[[]types.ApplicationAnalysis](t, w)
	require.Len(t, history, 1)
	assert.Equal(t, "Dear team", history[0].CoverLetter, "history keeps the generated letter")
	assert.NotNil(t, history[0].Optimization)

	w = s.do(t, http.MethodDelete, "/analysis", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodPost, "/analysis/optimize", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAnalyze_Validation(t *testing.T) {
	s := newTestServer(t, Config{})

	for name, body := range map[string]map[string]string{
		"neither": {},
		"both":    {"jobDescription": "x", "jobUrl": "https://example.com/job"},
		"bad url": {"jobUrl": "not a url"},
	} {
		t.Run(name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/analysis", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAnalyze_JobURL(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/42" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<html><body><nav>Menu</nav><main><h1>Platform Engineer</h1><p>Run Kubernetes in production.</p></main></body></html>`)
	}))
	defer page.Close()

	s := newTestServer(t, Config{})
	s.do(t, http.MethodPut, "/profile/resume-text", map[string]string{"text": "Ada"})

	w := s.do(t, http.MethodPost, "/analysis", map[string]string{"jobUrl": page.URL + "/jobs/42"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	s.gateway.mu.Lock()
	jd := s.gateway.lastJD
	s.gateway.mu.Unlock()
	assert.Contains(t, jd, "Run Kubernetes in production.")
	assert.NotContains(t, jd, "Menu")

	w = s.do(t, http.MethodPost, "/analysis", map[string]string{"jobUrl": page.URL + "/missing"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHistoryNavigation(t *testing.T) {
	s := newTestServer(t, Config{})
	s.do(t, http.MethodPut, "/profile/resume-text", map[string]string{"text": "Ada"})
	w := s.do(t, http.MethodPost, "/analysis", map[string]string{"jobDescription": "Go"})
	require.Equal(t, http.StatusOK, w.Code)
	id := decode[analysisResponse](t, w).Analysis.ID

	w = s.do(t, http.MethodPost, "/history/"+id+"/select", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "select needs the history view")

	w = s.do(t, http.MethodPost, "/view", map[string]string{"view": "history-detail"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.do(t, http.MethodPost, "/view", map[string]string{"view": "history"})
	w = s.do(t, http.MethodPost, "/history/"+id+"/select", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[app.ViewState](t, w)
	assert.Equal(t, app.ViewHistoryDetail, state.View)
	require.NotNil(t, state.Detail)
	assert.Equal(t, id, state.Detail.ID)

	w = s.do(t, http.MethodGet, "/history/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/history/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/view/back", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, app.ViewHistory, decode[app.ViewState](t, w).View)

	w = s.do(t, http.MethodDelete, "/history", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/history", nil)
	assert.Empty(t, decode[[]types.ApplicationAnalysis](t, w))
}

func TestExportProfile(t *testing.T) {
	s := newTestServer(t, Config{})
	s.do(t, http.MethodPut, "/profile/resume-text", map[string]string{"text": "Ada"})
	s.do(t, http.MethodPost, "/profile/extract", nil)

	w := s.do(t, http.MethodGet, "/profile/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "inline"))
	assert.Contains(t, w.Body.String(), "Backend engineer &amp; mentor.")

	w = s.do(t, http.MethodGet, "/profile/export?format=latex", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `Backend engineer \& mentor.`)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="resume.tex"`)

	w = s.do(t, http.MethodGet, "/profile/export?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkspaceHeader(t *testing.T) {
	s := newTestServer(t, Config{})

	s.do(t, http.MethodPut, "/profile/resume-text", map[string]string{"text": "Alice"}, WorkspaceHeader, "alice")
	s.do(t, http.MethodPut, "/profile/resume-text", map[string]string{"text": "Default"})

	w := s.do(t, http.MethodGet, "/profile", nil, WorkspaceHeader, "alice")
	assert.Equal(t, "Alice", decode[types.UserProfile](t, w).ResumeText)
	w = s.do(t, http.MethodGet, "/profile", nil)
	assert.Equal(t, "Default", decode[types.UserProfile](t, w).ResumeText)
}

func TestAuth(t *testing.T) {
	jwtCfg := &config.JWTConfig{Secret: testSecret, ExpirationHours: 1, Issuer: "jobfit"}
	s := newTestServer(t, Config{JWT: jwtCfg})

	w := s.do(t, http.MethodGet, "/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code, "health is public")

	token, err := NewJWTService(jwtCfg).GenerateToken("alice")
	require.NoError(t, err)
	auth := "Bearer " + token

	w = s.do(t, http.MethodPut, "/profile/resume-text", map[string]string{"text": "Alice"}, "Authorization", auth, WorkspaceHeader, "mallory")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/profile", nil, "Authorization", auth)
	assert.Equal(t, "Alice", decode[types.UserProfile](t, w).ResumeText)
	assert.Empty(t, s.registry.Get(context.Background(), "mallory").Profile().ResumeText, "header is ignored when auth is on")
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Config{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/profile/extract", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
		},
	}})
	s.do(t, http.MethodPut, "/profile/resume-text", map[string]string{"text": "Ada"})

	w := s.do(t, http.MethodPost, "/profile/extract", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = s.do(t, http.MethodPost, "/profile/extract", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[map[string]any](t, w)["error"])

	w = s.do(t, http.MethodGet, "/profile", nil)
	assert.Equal(t, http.StatusOK, w.Code, "other endpoints keep their own bucket")
}
