package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/s00inx/oldhttp/server/engine"
	"github.com/s00inx/oldhttp/server/handler"
	"github.com/s00inx/oldhttp/server/metrics"
)

// New(cfg, log)        - validate config, canonicalize the root, build metrics
// ListenAndServe(ctx)  - bind cfg.Addr (and cfg.MetricsAddr) and serve until ctx ends
// Serve(ctx, ln)       - serve an existing listener, one session per connection

type Server struct {
	cfg     Config
	files   *handler.FileHandler
	metrics *metrics.Metrics
	log     *slog.Logger
}

// New fails only on configuration problems, a missing or unusable root
// directory included.
func New(cfg Config, log *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	files, err := handler.New(cfg.Root)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	return &Server{
		cfg:     cfg,
		files:   files,
		metrics: metrics.New(),
		log:     log,
	}, nil
}

func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := engine.Listen(ctx, s.cfg.Addr)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Serve(gctx, ln)
	})
	if s.cfg.MetricsAddr != "" {
		g.Go(func() error {
			return s.serveMetrics(gctx)
		})
	}
	return g.Wait()
}

// Serve blocks until ctx ends and every running session has finished.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info("serving files", "root", s.files.Root(), "max_sessions", s.cfg.MaxSessions)
	ex := engine.NewExecutor(s.cfg.MaxSessions)
	return engine.Serve(ctx, ln, ex, s.log, s.metrics, s.serveConn)
}

func (s *Server) serveConn(conn net.Conn) {
	sess := engine.NewSession(conn, s.files, engine.Options{
		ReadChunk:  s.cfg.ReadChunk,
		MaxRequest: s.cfg.MaxRequest,
		Logger:     s.log,
		Metrics:    s.metrics,
	})
	if err := sess.Run(); err != nil {
		s.log.Warn("session failed", "session", sess.ID, "err", err)
	}
}

func (s *Server) serveMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	srv := &http.Server{
		Addr:              s.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(sctx)
	})
	defer stop()

	s.log.Info("metrics listening", "addr", s.cfg.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
