package network

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/cors"
)

// Server publishes a chain and a peer registry over HTTP.
type Server struct {
	chain     Ledger
	registry  Registry
	logger    *slog.Logger
	nodeID    string
	timeout   time.Duration
	cors      bool
	tlsConfig *tls.Config
	metrics   *metrics
	server    *http.Server
}

func NewServer(chain Ledger, registry Registry, opts ...ServerOption) *Server {
	s := &Server{
		chain:    chain,
		registry: registry,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		nodeID:   uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newMetrics(chain, registry)
	s.server = &http.Server{
		Handler:      s.routes(),
		ReadTimeout:  s.timeout,
		WriteTimeout: s.timeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	return s
}

// NodeID returns the identifier reported by /status.
func (s *Server) NodeID() string {
	return s.nodeID
}

// Handler returns the router without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Serve accepts connections on l until the server is shut down. It always
// returns a non-nil error; after Shutdown or Close it is
// http.ErrServerClosed.
func (s *Server) Serve(l net.Listener) error {
	if s.tlsConfig != nil {
		l = tls.NewListener(l, s.tlsConfig)
	}
	s.logger.Info("serving", "address", l.Addr().String(), "tls", s.tlsConfig != nil, "node", s.nodeID)
	return s.server.Serve(l)
}

// Start serves l in the background.
func (s *Server) Start(l net.Listener) {
	go func() {
		if err := s.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped", "error", err)
		}
	}()
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.Shutdown(context.Background())
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	if s.cors {
		r.Use(cors.AllowAll().Handler)
	}

	r.Get("/blocks/last", s.handleLastBlock)
	r.Get("/blocks", s.handleListBlocks)
	r.Post("/blocks", s.handleAddBlock)
	r.Get("/peers", s.handleListPeers)
	r.Post("/peers", s.handleAddPeer)
	r.Get("/status", s.handleStatus)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
