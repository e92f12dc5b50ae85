package main

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/debemdeboas/the-drafts/internal/cache"
	"github.com/debemdeboas/the-drafts/internal/config"
	"github.com/debemdeboas/the-drafts/internal/db"
	"github.com/debemdeboas/the-drafts/internal/editor"
	"github.com/debemdeboas/the-drafts/internal/gateway"
	"github.com/debemdeboas/the-drafts/internal/logger"
	"github.com/debemdeboas/the-drafts/internal/metrics"
	"github.com/debemdeboas/the-drafts/internal/model"
	"github.com/debemdeboas/the-drafts/internal/publish"
	"github.com/debemdeboas/the-drafts/internal/render"
	"github.com/debemdeboas/the-drafts/internal/routes"
	"github.com/debemdeboas/the-drafts/internal/source"
	"github.com/debemdeboas/the-drafts/internal/store"
	"github.com/debemdeboas/the-drafts/internal/theme"
	"github.com/debemdeboas/the-drafts/internal/util"
)

//go:embed static/* templates/*
var content embed.FS

var mainLogger zerolog.Logger

var sourceLoader *source.Loader

func main() {
	// .env.local wins because godotenv never overrides variables already set
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded environment from %s\n", file)
		}
	}

	config.SetLogger(logger.New("info", "console"))

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	if err := config.LoadConfig(configPath); err != nil {
		bootLogger := logger.New("info", "console")
		bootLogger.Fatal().Err(err).Str("path", configPath).Msg("Error loading config")
	}
	cfg := config.AppConfig

	mainLogger = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	setLoggers(mainLogger)

	backend, closer, err := store.Open(context.Background(), cfg.Store)
	if err != nil {
		mainLogger.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("Error opening draft store")
	}
	defer closer.Close()

	gh, err := gateway.New(cfg.GitHub, nil)
	if err != nil {
		mainLogger.Fatal().Err(err).Msg("Error creating GitHub client")
	}

	if !cfg.GitHub.PublishReady() {
		mainLogger.Warn().Msg("GITHUB_TOKEN, GITHUB_OWNER or GITHUB_REPO missing, publishing is disabled")
	}

	collector := metrics.NewCollector()
	workflow := publish.NewWorkflow(gh, cfg.GitHub, publish.WithMetrics(collector))
	sourceLoader = source.NewLoader(gh, cfg.GitHub)
	editorHandler := editor.NewHandler(store.NewDraftStore(backend), workflow, content)

	hashStatic()

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(mainLogger, editorHandler, workflow, collector),
		ReadHeaderTimeout: 10 * time.Second,
	}

	mainLogger.Info().Str("addr", addr).Msg("Server listening")
	mainLogger.Fatal().Err(srv.ListenAndServe()).Msg("Server stopped")
}

func setLoggers(l zerolog.Logger) {
	config.SetLogger(l)
	db.SetLogger(l.With().Str("component", "db").Logger())
	store.SetLogger(l.With().Str("component", "store").Logger())
	gateway.SetLogger(l.With().Str("component", "gateway").Logger())
	publish.SetLogger(l.With().Str("component", "publish").Logger())
	source.SetLogger(l.With().Str("component", "source").Logger())
	render.SetLogger(l.With().Str("component", "render").Logger())
	editor.SetLogger(l.With().Str("component", "editor").Logger())
}

// hashStatic records a content hash for every embedded static file so cacheIt
// can send ETags.
func hashStatic() {
	static, _ := fs.Sub(content, config.StaticLocalDir)
	fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}
		cache.SetStaticHash(config.StaticUrlPath+path, util.ContentHash(data))
		return nil
	})
}

func newHandler(l zerolog.Logger, editorHandler *editor.Handler, workflow *publish.Workflow, collector *metrics.Collector) http.Handler {
	static, _ := fs.Sub(content, config.StaticLocalDir)

	mux := http.NewServeMux()

	mux.HandleFunc(routes.RobotsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("User-agent: *\nDisallow:"))
	})

	mux.Handle(config.StaticUrlPath, http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(static))))
	mux.HandleFunc(routes.ThemeToggle, serveThemePostToggle)
	mux.HandleFunc(routes.SyntaxThemeGet, serveSyntaxThemeGetTheme)
	mux.Handle(routes.MetricsPath, collector.Handler())
	mux.Handle(routes.APIPublish, publish.NewHandler(workflow))

	mux.HandleFunc("GET "+routes.Drafts, editorHandler.ServeDrafts)
	mux.HandleFunc("POST "+routes.Drafts, editorHandler.AddDraft)
	mux.HandleFunc("POST "+routes.DraftPublish, editorHandler.PublishAll)
	mux.HandleFunc("POST "+routes.DraftEdit, editorHandler.SaveDraft)
	mux.HandleFunc("POST "+routes.DraftDelete, editorHandler.DeleteDraft)

	mux.HandleFunc("GET /{$}", serveIndex)

	securedMux := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == routes.RobotsPath { // Ignore robots.txt
			mux.ServeHTTP(w, r)
		} else {
			secureHeaders(mux.ServeHTTP)(w, r)
		}
	})

	var h http.Handler = cacheIt(securedMux)
	h = middleware.Recoverer(h)
	h = middleware.RealIP(h)
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		collector.RecordRequest(r.Method, status, duration)
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request")
	})(h)
	h = hlog.RemoteAddrHandler("ip")(h)
	h = hlog.RequestIDHandler("req_id", "Request-Id")(h)
	h = hlog.NewHandler(l)(h)

	return h
}

func cacheIt(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCacheControl, "no-cache")
		w.Header().Set("Vary", "Cookie")

		// Add etag header to response if it's a static file
		if hash, ok := cache.GetStaticHash(r.URL.Path); ok {
			w.Header().Set(config.HCacheControl, "public, max-age=3600")
			w.Header().Set(config.HETag, hash)
		}

		h(w, r)
	}
}

func secureHeaders(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-XSS-Protection", "1; mode=block")

		h(w, r)
	}
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	doc := sourceLoader.Load(r.Context())

	tmpl, err := template.ParseFS(content, config.TemplatesLocalDir+"/"+config.TemplateLayout, config.TemplatesLocalDir+"/"+config.TemplateIndex)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	pageData := model.NewPageData(r)

	md := []byte(doc.Display())
	if frontMatter, body, err := util.SplitFrontMatter(md); err == nil {
		if frontMatter.Title != "" {
			pageData.Title = frontMatter.Title
		}
		md = body
	}

	htmlContent := render.RenderMarkdown(md, pageData.SyntaxTheme)

	data := struct {
		*model.PageData
		Heading    string
		Content    template.HTML
		SourcePath string
	}{
		PageData:   pageData,
		Heading:    config.AppConfig.Site.Heading,
		Content:    template.HTML(htmlContent),
		SourcePath: doc.SourcePath,
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.Header().Set(config.HETag, util.ContentHash(append(htmlContent, data.Theme+data.SyntaxTheme...)))

	err = tmpl.ExecuteTemplate(w, config.TemplateLayout, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func serveThemePostToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	newTheme := theme.Opposite(theme.GetThemeFromRequest(r))

	http.SetCookie(w, &http.Cookie{
		Name:  config.CookieTheme,
		Value: newTheme,
		Path:  "/",
	})

	// Plain form submissions go back to the page they came from
	if r.Header.Get("Hx-Request") == "" {
		back := r.Referer()
		if back == "" {
			back = routes.RootPath
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	syntaxTheme := theme.GetDefaultSyntaxTheme(newTheme)
	if cookie, err := r.Cookie(config.CookieSyntaxTheme); err == nil {
		syntaxTheme = cookie.Value
	}

	w.Header().Set("Hx-Trigger", fmt.Sprintf(`{"theme-changed":{"value":"%s","syntaxTheme":"%s"}}`, newTheme, syntaxTheme))
	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.GetThemeIcon(newTheme)))
}

func serveSyntaxThemeGetTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	currTheme := r.PathValue("theme")

	themeStyle := []byte(theme.GenerateSyntaxCSS(currTheme))
	w.Header().Set(config.HCType, config.CTypeCSS)
	w.Header().Set(config.HETag, util.ContentHash(themeStyle))
	w.WriteHeader(http.StatusOK)
	w.Write(themeStyle)
}
