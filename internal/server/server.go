package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Notifier is told when the listener comes up and when it goes away.
type Notifier interface {
	Up(addr string)
	Down(reason string)
}

// Server wraps an *http.Server to provide start/shutdown lifecycle.
type Server struct {
	Notifier Notifier

	mu         sync.Mutex
	httpServer *http.Server
	addr       net.Addr
}

const (
	maxHeaderBytes    = 1 << 20 // 1 MB
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
)

// newHTTPServer builds a configured *http.Server for the given address and handler.
// There is no WriteTimeout: /ws connections are long-lived.
func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// normalizeAddr ensures the provided port is a valid address (accepts "8080", ":8080" or "host:8080").
func normalizeAddr(port string) string {
	if port == "" {
		return ""
	}
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

// Run binds the port and serves until Shutdown. It returns nil after a
// graceful shutdown.
func (s *Server) Run(port string, handler http.Handler) error {
	addr := normalizeAddr(port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.httpServer = newHTTPServer(addr, handler)
	s.addr = ln.Addr()
	srv := s.httpServer
	s.mu.Unlock()

	if s.Notifier != nil {
		s.Notifier.Up(ln.Addr().String())
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		if s.Notifier != nil {
			s.Notifier.Down(err.Error())
		}
		return err
	}
	return nil
}

// Addr returns the bound address once Run has started listening.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if s.Notifier != nil {
		s.Notifier.Down("shutdown")
	}
	return srv.Shutdown(ctx)
}
