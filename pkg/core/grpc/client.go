// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     grpc
// Description: gRPC client construction with keepalive and interceptors
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package grpc

import (
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// ClientConfig holds gRPC client configuration
type ClientConfig struct {
	Target            string
	MaxRecvMsgSize    int
	MaxSendMsgSize    int
	KeepaliveInterval time.Duration
	KeepaliveTimeout  time.Duration
}

// DefaultClientConfig returns a default client configuration
func DefaultClientConfig(target string) ClientConfig {
	return ClientConfig{
		Target:            target,
		MaxRecvMsgSize:    4 * 1024 * 1024, // 4MB
		MaxSendMsgSize:    1024 * 1024,     // 1MB
		KeepaliveInterval: 30 * time.Second,
		KeepaliveTimeout:  10 * time.Second,
	}
}

// Dial creates a new gRPC client. No connection is made until the first
// call; per-call deadlines are the caller's context.
func Dial(cfg ClientConfig, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	if cfg.Target == "" {
		return nil, fmt.Errorf("failed to dial: empty target")
	}

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(cfg.MaxRecvMsgSize),
			grpc.MaxCallSendMsgSize(cfg.MaxSendMsgSize),
		),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                cfg.KeepaliveInterval,
			Timeout:             cfg.KeepaliveTimeout,
			PermitWithoutStream: true,
		}),
		grpc.WithChainUnaryInterceptor(
			ClientRequestIDInterceptor(),
			ClientLoggingInterceptor(),
		),
	}

	// Custom options last so callers can override credentials or dialers
	dialOpts = append(dialOpts, opts...)

	conn, err := grpc.NewClient(cfg.Target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", cfg.Target, err)
	}

	return conn, nil
}

// DialSimple creates a gRPC client with the default configuration
func DialSimple(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	return Dial(DefaultClientConfig(target), opts...)
}
