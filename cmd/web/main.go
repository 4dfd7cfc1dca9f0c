package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"quillmarketing.com/quill-web/internal/cms"
	"quillmarketing.com/quill-web/internal/config"
	handlersPkg "quillmarketing.com/quill-web/internal/handlers"
	"quillmarketing.com/quill-web/internal/metrics"
	mw "quillmarketing.com/quill-web/internal/middleware"
	"quillmarketing.com/quill-web/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	baseLogger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("web")

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialise app", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", srv.Addr), zap.Bool("dev_mode", cfg.DevMode))
	go func() {
		serverLogger.Info("web listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// app holds the dependencies shared by every request.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	pages   *handlersPkg.Pages
	metrics *metrics.Metrics

	// tmplCache is nil in dev mode.
	tmplCache *template.Template
}

func newApp(cfg config.Config, logger *zap.Logger) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := metrics.New()
	analytics := handlersPkg.Analytics{
		GA4MeasurementID: cfg.Analytics.GA4MeasurementID,
		Debug:            cfg.Analytics.Debug,
	}
	a := &app{
		cfg:     cfg,
		logger:  logger,
		pages:   handlersPkg.NewPages(cfg.Site, cms.NewClient(cfg.Paths.Content, cfg.Content.CacheTTL), analytics, m),
		metrics: m,
	}
	if !cfg.DevMode {
		// Parse templates once in production
		tc, err := parseTemplates(cfg.Paths.Templates)
		if err != nil {
			return nil, fmt.Errorf("parse templates: %w", err)
		}
		a.tmplCache = tc
	}
	return a, nil
}

func (a *app) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	r.Use(middleware.RealIP)
	r.Use(mw.Logger(a.logger))
	r.Use(middleware.Recoverer)
	r.Use(a.metrics.Middleware)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(a.cfg.Server.HandlerTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", a.metrics.Handler())

	// Static assets under /assets/
	r.Handle("/assets/*", mw.Assets(filepath.Join(a.cfg.Paths.Public, "assets"), mw.AssetsOptions{
		Prefix:  "/assets",
		DevMode: a.cfg.DevMode,
		Logger:  a.logger,
	}))

	r.Get("/", a.homeHandler)
	r.Get("/pricing", a.pricingHandler)
	r.Get("/blog", a.blogHandler)
	r.Get("/blog/{slug}", a.articleHandler)
	r.NotFound(a.notFoundHandler)
	return r
}

func parseTemplates(dir string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"now": time.Now,
	}
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", dir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}

func (a *app) templates() (*template.Template, error) {
	if a.cfg.DevMode {
		return parseTemplates(a.cfg.Paths.Templates)
	}
	if a.tmplCache == nil {
		return nil, errors.New("template not initialized")
	}
	return a.tmplCache, nil
}
