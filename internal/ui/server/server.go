// Package server serves the prerendered page shell, the WASM bundle and the
// no-script theme toggle.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Its-donkey/tms-ui/internal/config"
	"github.com/Its-donkey/tms-ui/internal/ui/storage"
	"github.com/Its-donkey/tms-ui/internal/ui/theme"
	"github.com/Its-donkey/tms-ui/logging"
)

const logCategory = "server"

// Options configures the UI HTTP server.
type Options struct {
	Config config.Config
	Logger *logging.Logger
	// Registry receives the server's collectors. Nil creates a private registry.
	Registry *prometheus.Registry
	// Now is the clock used for token expiry. Nil means time.Now.
	Now func() time.Time
}

// Server is the UI HTTP server.
type Server struct {
	cfg       config.Config
	assetsDir string
	logger    *logging.Logger
	registry  *prometheus.Registry
	metrics   *metrics
	now       func() time.Time
	router    chi.Router
}

// New builds a Server and its routes.
func New(opts Options) (*Server, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	assetsDir, err := filepath.Abs(opts.Config.App.Assets)
	if err != nil {
		return nil, fmt.Errorf("resolve assets dir: %w", err)
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Server{
		cfg:       opts.Config,
		assetsDir: assetsDir,
		logger:    opts.Logger,
		registry:  reg,
		metrics:   newMetrics(reg),
		now:       now,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(logging.NewHTTPLogger(s.logger).Middleware)
	r.Use(clientHints)

	r.Get("/", s.handleHome)
	r.Post("/theme", s.handleThemeToggle)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Get("/main.wasm", s.assetHandler("main.wasm", "application/wasm"))
	r.Get("/wasm_exec.js", s.assetHandler("wasm_exec.js", "application/javascript"))
	r.Get("/styles.css", s.assetHandler("styles.css", "text/css"))
	r.Handle("/css/*", http.StripPrefix("/css/", http.FileServer(http.Dir(filepath.Join(s.assetsDir, "css")))))
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

// clientHints asks browsers for the colour scheme hint used on first render.
func clientHints(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Accept-CH", colorSchemeHint)
		w.Header().Add("Vary", colorSchemeHint)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	page, err := s.prerender(r)
	if err != nil {
		s.metrics.prerenderErrs.Inc()
		s.logger.Error(logCategory, "prerender failed", err, map[string]any{"path": r.URL.Path})
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	s.metrics.pagesRendered.WithLabelValues(string(page.Boot.Theme), authLabel(page.Boot.Auth.SignedIn)).Inc()
	if page.Notice != nil {
		s.metrics.notices.WithLabelValues(string(page.Notice.Kind)).Inc()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Add("Vary", "Cookie")
	_, _ = io.WriteString(w, page.HTML)
}

// handleThemeToggle flips the stored theme the same way the toggle button
// does, then sends the browser back where it came from.
func (s *Server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	kv := storage.NewCookies(w, r, storage.DefaultCookieMaxAge, s.cfg.Server.SecureCookies)
	store := theme.NewStore(kv, s.cfg.Theme.StorageKey, schemeFor(r), s.logger)
	next := store.ResolveInitialTheme().Opposite()
	store.Persist(next)
	s.metrics.themeToggles.WithLabelValues(string(next)).Inc()
	s.logger.WithRequestID(w.Header().Get("X-Request-ID")).
		WithCategory(logCategory).
		WithField("theme", string(next)).
		Info("theme toggled")
	http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
}

// redirectTarget returns the Referer when it points back at this host.
func redirectTarget(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || r.Referer() == "" {
		return "/"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/"
	}
	if ref.Path == "" || ref.Path[0] != '/' {
		return "/"
	}
	// "//host" and "/\host" are protocol-relative to browsers.
	if strings.HasPrefix(ref.Path, "//") || strings.HasPrefix(ref.Path, "/\\") {
		return "/"
	}
	target := ref.Path
	if ref.RawQuery != "" {
		target += "?" + ref.RawQuery
	}
	if u, err := url.Parse(target); err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return target
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) assetHandler(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(s.assetsDir, name)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		http.ServeFile(w, r, path)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(logCategory, "serving UI", map[string]any{
		"addr":       "http://" + s.cfg.ListenAddr(),
		"theme_mode": string(s.cfg.Theme.Mode),
		"assets":     s.assetsDir,
	})

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}
