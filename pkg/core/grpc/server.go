// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     grpc
// Description: gRPC server wrapper with interceptors and graceful shutdown
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package grpc

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
)

// ServerConfig holds gRPC server configuration
type ServerConfig struct {
	Host              string
	Port              int
	MaxRecvMsgSize    int
	MaxSendMsgSize    int
	EnableReflection  bool
	KeepaliveInterval time.Duration
	KeepaliveTimeout  time.Duration
}

// DefaultServerConfig returns a default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "0.0.0.0",
		Port:              9300,
		MaxRecvMsgSize:    1024 * 1024,     // 1MB
		MaxSendMsgSize:    4 * 1024 * 1024, // 4MB
		EnableReflection:  false,
		KeepaliveInterval: 30 * time.Second,
		KeepaliveTimeout:  10 * time.Second,
	}
}

// Server wraps a gRPC server with additional functionality
type Server struct {
	server   *grpc.Server
	config   ServerConfig
	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a new gRPC server
func NewServer(cfg ServerConfig, opts ...grpc.ServerOption) *Server {
	serverOpts := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(cfg.MaxSendMsgSize),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    cfg.KeepaliveInterval,
			Timeout: cfg.KeepaliveTimeout,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(),
			LoggingInterceptor(),
			RequestIDInterceptor(),
		),
	}

	serverOpts = append(serverOpts, opts...)

	server := grpc.NewServer(serverOpts...)

	if cfg.EnableReflection {
		reflection.Register(server)
	}

	return &Server{
		server: server,
		config: cfg,
	}
}

// GRPCServer returns the underlying gRPC server for service registration
func (s *Server) GRPCServer() *grpc.Server {
	return s.server
}

func (s *Server) listen() (net.Listener, error) {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return listener, nil
}

// Serve serves on an existing listener until stopped
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	return s.server.Serve(listener)
}

// StartAsync starts the gRPC server in a goroutine. Listen errors are
// returned synchronously.
func (s *Server) StartAsync() error {
	listener, err := s.listen()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil {
			log().Error("gRPC server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully stops the gRPC server
func (s *Server) Stop() {
	s.server.GracefulStop()
}

// StopWithTimeout stops gracefully, forcing a hard stop when ctx ends first
func (s *Server) StopWithTimeout(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-ctx.Done():
		s.server.Stop()
	}
}

// Address returns the bound address, or the configured one before Start
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}
