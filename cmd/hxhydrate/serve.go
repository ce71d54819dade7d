package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pthm/hxhydrate"
	"github.com/pthm/hxhydrate/internal/demo"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the harbor demo server",
		Long: `Serve runs a small document harbor built on hxhydrate.

  GET  /             the raw page, placeholders unresolved
  GET  /prerendered  the same page hydrated on the server
  POST /harbor/...   component fragments and the save action
  GET  /metrics      Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address (env HXHYDRATE_ADDR)")

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return err
	}

	srv, err := newServer(a, demo.NewStore())
	if err != nil {
		ln.Close()
		return err
	}
	if srv.base == nil {
		srv.setBase(&url.URL{Scheme: "http", Host: loopback(ln.Addr())})
	}

	httpServer := &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("harbor listening", "addr", ln.Addr().String(), "prerender_base", srv.baseURL().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// loopback returns a host:port the server can reach itself on.
func loopback(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok || tcp.IP.IsUnspecified() {
		port := 0
		if ok {
			port = tcp.Port
		}
		return fmt.Sprintf("localhost:%d", port)
	}
	return tcp.String()
}

// server is the harbor demo: the component registry, the pages that embed
// it and the engine used to prerender them.
type server struct {
	app      *app
	store    *demo.Store
	registry *hxhydrate.Registry
	promReg  *prometheus.Registry
	metrics  *hxhydrate.Metrics

	mu   sync.RWMutex
	base *url.URL
}

func newServer(a *app, store *demo.Store) (*server, error) {
	base, err := a.cfg.Base()
	if err != nil {
		return nil, err
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	reg := hxhydrate.NewRegistry()
	reg.OnError = registryErrorHandler(a.logger, reg.OnError)
	demo.Register(reg, store)

	return &server{
		app:      a,
		store:    store,
		registry: reg,
		promReg:  promReg,
		metrics:  hxhydrate.NewMetrics(promReg),
		base:     base,
	}, nil
}

func (s *server) setBase(u *url.URL) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = u
}

func (s *server) baseURL() *url.URL {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.app.logger))

	r.Get("/", s.handlePage)
	r.Get("/prerendered", s.handlePrerendered)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.promReg, promhttp.HandlerOpts{}))
	r.Handle(demo.Prefix+"*", s.registry.Handler())

	return r
}

func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	if err := hxhydrate.Render(w, r, demo.Page(r.URL.Query().Get("q"))); err != nil {
		s.app.logger.Error("rendering page", "err", err)
	}
}

// handlePrerendered hydrates the page on the server, calling back into
// its own component routes, and serves the resolved document.
func (s *server) handlePrerendered(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := demo.Page(r.URL.Query().Get("q")).Render(r.Context(), &buf); err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	doc, err := hxhydrate.Parse(&buf)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	eng := hxhydrate.New(doc, s.app.engineOptions(
		hxhydrate.WithBaseURL(s.baseURL()),
		hxhydrate.WithMetrics(s.metrics),
	)...)
	if err := eng.Hydrate(r.Context(), nil); err != nil {
		s.app.logger.Warn("prerender interrupted", "err", err)
		http.Error(w, "Request cancelled", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := doc.Render(w); err != nil {
		s.app.logger.Error("writing prerendered page", "err", err)
	}
}

// registryErrorHandler logs component errors before answering with next.
func registryErrorHandler(logger *slog.Logger, next func(http.ResponseWriter, *http.Request, error)) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn("component request failed", "path", r.URL.Path, "err", err)
		next(w, r, err)
	}
}

// requestLogger logs each request once it has been served.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
