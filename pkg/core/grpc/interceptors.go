// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     grpc
// Description: Request id propagation, logging and panic recovery interceptors
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package grpc

import (
	"context"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/msto63/taxon/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var interceptorLogger atomic.Pointer[logging.Logger]

func init() {
	interceptorLogger.Store(logging.New("grpc"))
}

// SetLogger replaces the logger used by all interceptors
func SetLogger(l *logging.Logger) {
	if l != nil {
		interceptorLogger.Store(l)
	}
}

func log() *logging.Logger {
	return interceptorLogger.Load()
}

// Context keys for request metadata
type contextKey string

const (
	RequestIDKey    contextKey = "request_id"
	RequestIDHeader string     = "x-request-id"
)

// RecoveryInterceptor recovers from panics in gRPC handlers
func RecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				log().Error("gRPC panic recovered", "method", info.FullMethod, "panic", r, "stack", string(stack))
				err = status.Errorf(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

// LoggingInterceptor logs gRPC requests
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		requestID := GetRequestID(ctx)

		resp, err := handler(ctx, req)

		log().Info("gRPC request",
			"request_id", requestID,
			"method", info.FullMethod,
			"status", status.Code(err).String(),
			"duration", time.Since(start).String(),
		)

		return resp, err
	}
}

// RequestIDInterceptor makes the request ID available to handlers, creating
// one when the caller did not send it
func RequestIDInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		requestID := extractRequestID(ctx)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx = context.WithValue(ctx, RequestIDKey, requestID)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

		return handler(ctx, req)
	}
}

// ClientRequestIDInterceptor propagates the request ID to outgoing requests
func ClientRequestIDInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		requestID := GetRequestID(ctx)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx = metadata.AppendToOutgoingContext(ctx, RequestIDHeader, requestID)

		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// ClientLoggingInterceptor logs outgoing gRPC requests
func ClientLoggingInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()

		err := invoker(ctx, method, req, reply, cc, opts...)

		log().Debug("gRPC client request",
			"method", method,
			"status", status.Code(err).String(),
			"duration", time.Since(start).String(),
		)

		return err
	}
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return extractRequestID(ctx)
}

// extractRequestID extracts the request ID from incoming metadata
func extractRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	values := md.Get(RequestIDHeader)
	if len(values) > 0 {
		return values[0]
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}
