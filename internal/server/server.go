// Package server implements the preview server: pages are rendered on demand
// through the pipeline and served under the wiki URL scheme, with optional
// content watching and scheduled reindexing.
package server

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/linkonce/internal/config"
	loerrors "git.home.luguber.info/inful/linkonce/internal/errors"
	"git.home.luguber.info/inful/linkonce/internal/metrics"
	"git.home.luguber.info/inful/linkonce/internal/pageindex"
	"git.home.luguber.info/inful/linkonce/internal/render"
	"git.home.luguber.info/inful/linkonce/internal/source"
	"git.home.luguber.info/inful/linkonce/internal/titles"
)

// Server serves rendered wiki pages.
type Server struct {
	cfg      config.ServerConfig
	wiki     config.WikiConfig
	loader   source.Loader
	index    *pageindex.Index
	pipeline *render.Pipeline
	recorder metrics.Recorder
	promReg  *prom.Registry
	logger   *slog.Logger

	mu    sync.RWMutex
	pages map[string]source.Page // keyed by source-relative path

	httpServer *http.Server
	watcher    *ContentWatcher
	scheduler  *ReindexScheduler
}

// Options wires the server's collaborators.
type Options struct {
	Config   config.ServerConfig
	Wiki     config.WikiConfig
	Loader   source.Loader
	Index    *pageindex.Index
	Pipeline *render.Pipeline
	Recorder metrics.Recorder
	PromReg  *prom.Registry // required when Config.Metrics is true
	Logger   *slog.Logger
}

// New creates a preview server.
func New(opts Options) (*Server, error) {
	if opts.Loader == nil || opts.Index == nil || opts.Pipeline == nil {
		return nil, loerrors.New(loerrors.CategoryServer, loerrors.SeverityFatal, "server requires loader, index and pipeline")
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Wiki.BasePath == "" {
		opts.Wiki.BasePath = "/wiki/"
	}

	s := &Server{
		cfg:      opts.Config,
		wiki:     opts.Wiki,
		loader:   opts.Loader,
		index:    opts.Index,
		pipeline: opts.Pipeline,
		recorder: opts.Recorder,
		promReg:  opts.PromReg,
		logger:   opts.Logger,
		pages:    make(map[string]source.Page),
	}
	return s, nil
}

// Reindex reloads the content set and rebuilds the title index.
func (s *Server) Reindex(ctx context.Context) error {
	start := time.Now()

	pages, err := s.loader.Load()
	if err != nil {
		return loerrors.IndexError("reload content", err)
	}
	if err := s.index.Rebuild(ctx, pages); err != nil {
		return loerrors.IndexError("rebuild index", err)
	}

	byPath := make(map[string]source.Page, len(pages))
	for _, page := range pages {
		byPath[page.RelativePath] = page
	}

	s.mu.Lock()
	s.pages = byPath
	s.mu.Unlock()

	s.recorder.ObserveIndexRebuildDuration(time.Since(start))
	s.recorder.SetIndexedPages(len(pages))
	s.logger.Info("Content reindexed", "pages", len(pages), "duration", time.Since(start))
	return nil
}

// Run starts the server and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Reindex(ctx); err != nil {
		return err
	}

	if s.cfg.Watch {
		watcher, err := NewContentWatcher(s.loader.Root(), s, s.logger)
		if err != nil {
			return err
		}
		s.watcher = watcher
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	if interval := s.reindexInterval(); interval > 0 {
		scheduler, err := NewReindexScheduler(interval, s, s.logger)
		if err != nil {
			return err
		}
		s.scheduler = scheduler
		scheduler.Start()
		defer func() { _ = scheduler.Stop() }()
	}

	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Preview server listening",
			"addr", s.cfg.Addr,
			"base_path", s.wiki.BasePath,
			"directives", s.pipeline.Directives())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return loerrors.Wrap(err, loerrors.CategoryServer, loerrors.SeverityFatal, "preview server failed")
	}
}

func (s *Server) reindexInterval() time.Duration {
	raw := s.cfg.ReindexInterval
	if raw == "" || raw == "0" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}

// Handler builds the HTTP routing surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.cfg.Metrics && s.promReg != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.promReg))
	}
	mux.HandleFunc(s.wiki.BasePath, s.handlePage)
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, s.wiki.BasePath+"Main_Page", http.StatusFound)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	titlePath := strings.TrimPrefix(r.URL.Path, s.wiki.BasePath)
	if titlePath == "" {
		http.Redirect(w, r, s.wiki.BasePath+"Main_Page", http.StatusFound)
		return
	}

	title := titles.Normalize(titlePath)
	relPath, found, err := s.index.Lookup(r.Context(), title)
	if err != nil {
		s.logger.Error("Title lookup failed", "title", title, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}

	s.mu.RLock()
	page, ok := s.pages[relPath]
	s.mu.RUnlock()
	if !ok {
		// Index and page map can drift briefly between reindex runs.
		http.NotFound(w, r)
		return
	}

	result, err := s.pipeline.RenderPage(r.Context(), page)
	if err != nil {
		s.logger.Error("Page render failed", "page", relPath, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, pageData{
		SiteTitle: s.wiki.Title,
		Title:     result.Title,
		Body:      template.HTML(result.HTML),
	}); err != nil {
		s.logger.Error("Template execution failed", "page", relPath, "error", err)
	}
}

type pageData struct {
	SiteTitle string
	Title     string
	Body      template.HTML
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} - {{.SiteTitle}}</title>
</head>
<body>
<main>
{{.Body}}
</main>
</body>
</html>
`))

// PageCount returns the number of currently loaded pages (status/debugging).
func (s *Server) PageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}
