// Package server wires the roster admin HTTP API to its SQLite store and
// manages the listener lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/gamekeeper/internal/platform/timeouts"
	"github.com/louisbranch/gamekeeper/internal/services/roster/api/httpapi"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/deletion"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/grant"
	rostersqlite "github.com/louisbranch/gamekeeper/internal/services/roster/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config defines the inputs for the roster admin process.
type Config struct {
	HTTPAddr string
	DBPath   string
	// Grants enables operator grant checks on mutating routes when set.
	Grants *grant.Config
	// RequestTimeout overrides timeouts.Request when positive.
	RequestTimeout time.Duration
}

// Server hosts the roster admin API and owns its store.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      *rostersqlite.Store
}

// NewServer opens the roster store and binds the HTTP listener.
func NewServer(cfg Config) (*Server, error) {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		return nil, errors.New("http address is required")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return nil, errors.New("db path is required")
	}

	store, err := rostersqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open roster sqlite store: %w", err)
	}

	deletions, err := deletion.NewService(store)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init deletion service: %w", err)
	}
	opts := []httpapi.Option{httpapi.WithRequestTimeout(cfg.RequestTimeout)}
	if cfg.Grants != nil {
		opts = append(opts, httpapi.WithGrantVerifier(*cfg.Grants))
	}
	handler, err := httpapi.NewHandler(deletions, store, opts...)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init roster handler: %w", err)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           otelhttp.NewHandler(handler.Routes(), "roster"),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store: store,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates a roster server and serves it until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	server, err := NewServer(cfg)
	if err != nil {
		return err
	}
	defer server.Close()
	return server.Serve(ctx)
}

// Serve accepts connections until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("roster server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	log.Printf("roster listening on %s", s.Addr())
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the listener and the roster store.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close roster store: %v", err)
		}
		s.store = nil
	}
}
