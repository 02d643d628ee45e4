// Package rpcserver is the public server-side surface: bind a port,
// register named procedures, and serve accepted connections with a fixed
// worker pool.
package rpcserver

import (
	"context"
	"fmt"
	"net"

	"github.com/VestaKK/rpcbridge/internal/dispatcher"
	"github.com/VestaKK/rpcbridge/internal/payload"
	"github.com/VestaKK/rpcbridge/internal/protocol"
	"github.com/VestaKK/rpcbridge/internal/registry"
)

// Handler is the function a registered procedure dispatches to.
type Handler func(in *payload.Payload) (*payload.Payload, error)

// Metrics is the combined observable-event surface for the dispatcher and
// protocol layers. A nil Metrics is always safe to pass.
type Metrics interface {
	dispatcher.Metrics
	protocol.Metrics
}

// Tracer opens spans around the FUNC_FIND and FUNC_CALL exchanges; CONNECT
// and DISCONNECT are not traced. A nil Tracer is always safe to pass.
type Tracer interface {
	protocol.Tracer
}

// Config configures a Server.
type Config struct {
	// Port must be in 1..65535.
	Port int

	// Workers is the fixed worker pool size. Zero selects
	// dispatcher.DefaultWorkers.
	Workers int

	Metrics Metrics
	Tracer  Tracer
}

// Server binds a listening socket, holds the procedure registry, and runs
// the dispatcher once Serve is called.
type Server struct {
	cfg      Config
	listener net.Listener
	registry *registry.Registry
	disp     *dispatcher.Dispatcher
}

// NewServer validates cfg, binds the listening socket, and returns a Server
// ready to accept Register calls. Register all procedures before calling
// Serve — registration is not synchronized with the worker pool once
// serving starts.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("rpcserver: invalid port %d", cfg.Port)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("rpcserver: listen: %w", err)
	}

	return &Server{
		cfg:      cfg,
		listener: ln,
		registry: registry.New(),
	}, nil
}

// Register installs handler under name. Returns an error for a nil handler
// or an invalid name.
func (s *Server) Register(name string, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("rpcserver: nil handler for %q", name)
	}
	return s.registry.Register(name, registry.Handler(handler))
}

// Serve runs the connection dispatcher until ctx is cancelled or Stop is
// called. It does not return under normal operation.
func (s *Server) Serve(ctx context.Context) error {
	var m dispatcher.Metrics
	var pm protocol.Metrics
	if s.cfg.Metrics != nil {
		m = s.cfg.Metrics
		pm = s.cfg.Metrics
	}
	var tr protocol.Tracer
	if s.cfg.Tracer != nil {
		tr = s.cfg.Tracer
	}

	s.disp = dispatcher.New(s.listener, s.registry, dispatcher.Config{Workers: s.cfg.Workers}, m, pm, tr)
	return s.disp.Serve(ctx)
}

// Stop closes the listening socket and lets in-flight connections drain.
func (s *Server) Stop() {
	if s.disp != nil {
		s.disp.Stop()
		return
	}
	_ = s.listener.Close()
}

// Addr returns the bound listener address, useful for tests that bind port
// 0 and need the assigned port.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}
