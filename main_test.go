package main

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/the-drafts/internal/config"
	"github.com/debemdeboas/the-drafts/internal/editor"
	"github.com/debemdeboas/the-drafts/internal/gateway"
	"github.com/debemdeboas/the-drafts/internal/metrics"
	"github.com/debemdeboas/the-drafts/internal/publish"
	"github.com/debemdeboas/the-drafts/internal/source"
	"github.com/debemdeboas/the-drafts/internal/store"
)

type stubReader struct {
	content string
	err     error
}

func (s stubReader) GetFile(context.Context, string, string) (string, error) {
	return s.content, s.err
}

func newTestHandler(t *testing.T, cfg config.GitHubConfig) http.Handler {
	t.Helper()

	gh, err := gateway.New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	collector := metrics.NewCollector()
	workflow := publish.NewWorkflow(gh, cfg, publish.WithMetrics(collector))
	editorHandler := editor.NewHandler(store.NewDraftStore(store.NewMemoryBackend()), workflow, content)

	return newHandler(zerolog.Nop(), editorHandler, workflow, collector)
}

func TestServeIndex(t *testing.T) {
	sourceLoader = source.NewLoader(stubReader{content: "# Hello from GitHub\n\nSome **bold** text.\n"},
		config.GitHubConfig{Owner: "octo", Repo: "notes", SourcePath: "content/hello.md"})

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	serveIndex(rec, req)

	res := rec.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 OK, got %d", res.StatusCode)
	}

	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "Hello from GitHub</h1>") {
		t.Errorf("Expected rendered heading, got %s", body)
	}
	if !strings.Contains(string(body), "<strong>bold</strong>") {
		t.Errorf("Expected rendered markdown, got %s", body)
	}
	if !strings.Contains(string(body), "<code>content/hello.md</code>") {
		t.Errorf("Expected source path, got %s", body)
	}
	if res.Header.Get(config.HETag) == "" {
		t.Error("Expected an ETag")
	}
}

func TestServeIndexFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.GitHubConfig
		reader stubReader
		want   string
	}{
		{"missing repository", config.GitHubConfig{}, stubReader{}, "Missing repository configuration"},
		{"not found", config.GitHubConfig{Owner: "o", Repo: "r"}, stubReader{err: &gateway.Error{Status: 404, Message: "Not Found"}}, "Status: 404 Not Found"},
		{"empty file", config.GitHubConfig{Owner: "o", Repo: "r"}, stubReader{}, "No content found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sourceLoader = source.NewLoader(tt.reader, tt.cfg)

			rec := httptest.NewRecorder()
			serveIndex(rec, httptest.NewRequest("GET", "/", nil))

			if rec.Code != http.StatusOK {
				t.Errorf("Expected 200, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("Expected %q in page, got %s", tt.want, rec.Body.String())
			}
		})
	}
}

func TestServeIndexFrontMatterTitle(t *testing.T) {
	md := "%%%\ntitle = \"Front Matter Title\"\n%%%\n\n# Body\n"
	sourceLoader = source.NewLoader(stubReader{content: md}, config.GitHubConfig{Owner: "o", Repo: "r"})

	rec := httptest.NewRecorder()
	serveIndex(rec, httptest.NewRequest("GET", "/", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "<title>Front Matter Title</title>") {
		t.Errorf("Expected front matter title, got %s", body)
	}
	if strings.Contains(body, "%%%") {
		t.Errorf("Expected front matter to be stripped, got %s", body)
	}
}

func TestRoutes(t *testing.T) {
	sourceLoader = source.NewLoader(stubReader{content: "# Hi\n"}, config.GitHubConfig{Owner: "o", Repo: "r"})
	hashStatic()
	h := newTestHandler(t, config.GitHubConfig{Owner: "o", Repo: "r"})

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantBody   string
	}{
		{"robots", "GET", "/robots.txt", http.StatusOK, "User-agent: *"},
		{"index", "GET", "/", http.StatusOK, "Hi</h1>"},
		{"unknown", "GET", "/nope", http.StatusNotFound, ""},
		{"drafts", "GET", "/drafts", http.StatusOK, "Saved Drafts (0)"},
		{"static", "GET", "/static/style.css", http.StatusOK, ".draft"},
		{"syntax theme", "GET", "/syntax-theme/monokai", http.StatusOK, ".chroma"},
		{"metrics", "GET", "/metrics", http.StatusOK, "drafts_http_requests_total"},
		{"publish method", "GET", "/api/publish", http.StatusMethodNotAllowed, "Method not allowed"},
		{"publish not configured", "POST", "/api/publish", http.StatusInternalServerError, config.ErrNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(`{"drafts":[]}`)))

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("Expected body to contain %q, got %s", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestMiddlewareHeaders(t *testing.T) {
	sourceLoader = source.NewLoader(stubReader{content: "# Hi\n"}, config.GitHubConfig{Owner: "o", Repo: "r"})
	hashStatic()
	h := newTestHandler(t, config.GitHubConfig{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Header().Get("X-Frame-Options") != "deny" {
		t.Error("Expected secure headers on pages")
	}
	if rec.Header().Get(config.HCacheControl) != "no-cache" {
		t.Errorf("Expected no-cache on pages, got %q", rec.Header().Get(config.HCacheControl))
	}
	if rec.Header().Get("Request-Id") == "" {
		t.Error("Expected a request id header")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/static/style.css", nil))
	if rec.Header().Get(config.HCacheControl) != "public, max-age=3600" || rec.Header().Get(config.HETag) == "" {
		t.Errorf("Expected cacheable static file, got %v", rec.Header())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/robots.txt", nil))
	if rec.Header().Get("X-Frame-Options") != "" {
		t.Error("Expected robots.txt to skip secure headers")
	}
}

func TestPublishThroughServer(t *testing.T) {
	var puts int
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		puts++
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"content":{"path":"content/hello-1.md"},"commit":{"sha":"abc"}}`)
	}))
	defer api.Close()

	h := newTestHandler(t, config.GitHubConfig{Token: "t", Owner: "o", Repo: "r", Branch: "main", TargetPath: "content", APIURL: api.URL})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/publish", strings.NewReader(`{"drafts":[{"title":"Hello","body":"x"}]}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"commit":"abc"`) || puts != 1 {
		t.Errorf("Expected one committed draft, got %s", rec.Body.String())
	}
}

func TestThemeToggle(t *testing.T) {
	req := httptest.NewRequest("POST", "/theme/toggle", nil)
	req.AddCookie(&http.Cookie{Name: config.CookieTheme, Value: config.DarkTheme})
	req.Header.Set("Hx-Request", "true")
	rec := httptest.NewRecorder()

	serveThemePostToggle(rec, req)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != config.LightTheme {
		t.Errorf("Expected light theme cookie, got %v", cookies)
	}
	if !strings.Contains(rec.Header().Get("Hx-Trigger"), config.LightTheme) {
		t.Errorf("Expected Hx-Trigger with new theme, got %q", rec.Header().Get("Hx-Trigger"))
	}

	req = httptest.NewRequest("POST", "/theme/toggle", nil)
	req.Header.Set("Referer", "/drafts")
	rec = httptest.NewRecorder()
	serveThemePostToggle(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/drafts" {
		t.Errorf("Expected redirect back to /drafts, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestServeIndexDecodesWrappedContent(t *testing.T) {
	// GitHub returns content wrapped at 60 columns; the gateway must decode it.
	raw := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("# Long line ", 20)))
	wrapped := raw[:60] + `\n` + raw[60:]

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"type":"file","encoding":"base64","content":"`+wrapped+`"}`)
	}))
	defer api.Close()

	cfg := config.GitHubConfig{Owner: "o", Repo: "r", SourcePath: "a.md", APIURL: api.URL}
	gh, _ := gateway.New(cfg, api.Client())
	sourceLoader = source.NewLoader(gh, cfg)

	rec := httptest.NewRecorder()
	serveIndex(rec, httptest.NewRequest("GET", "/", nil))
	if !strings.Contains(rec.Body.String(), "Long line") {
		t.Errorf("Expected decoded content, got %s", rec.Body.String())
	}
}
