// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     remote
// Description: Transport and service error taxonomy
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package remote

import (
	"context"
	"errors"
	"net"
	"net/http"

	mdwerror "github.com/msto63/taxon/foundation/core/error"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error layers recorded in the "layer" detail
const (
	LayerTransport = "transport"
	LayerService   = "service"

	detailLayer = "layer"
)

// NewTransportError wraps a connectivity failure of op
func NewTransportError(op Operation, code mdwerror.Code, cause error) *mdwerror.Error {
	return mdwerror.Wrap(cause, "transport failure").
		WithCode(code).
		WithOperation(string(op)).
		WithDetail(detailLayer, LayerTransport)
}

// NewServiceError reports an application failure raised by the service for op
func NewServiceError(op Operation, code mdwerror.Code, message string) *mdwerror.Error {
	return mdwerror.New(message).
		WithCode(code).
		WithOperation(string(op)).
		WithDetail(detailLayer, LayerService)
}

// IsTransportError reports whether err was produced for a connectivity failure
func IsTransportError(err error) bool {
	return layerOf(err) == LayerTransport
}

// IsServiceError reports whether err was raised by the remote service
func IsServiceError(err error) bool {
	return layerOf(err) == LayerService
}

func layerOf(err error) string {
	mdwErr, ok := mdwerror.As(err)
	if !ok {
		return ""
	}
	layer, _ := mdwErr.Detail(detailLayer)
	s, _ := layer.(string)
	return s
}

// fromGRPC classifies an error returned by a gRPC invocation
func fromGRPC(op Operation, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fromNetwork(op, err)
	}

	switch st.Code() {
	case codes.Unavailable:
		return NewTransportError(op, mdwerror.CodeServiceUnavailable, err)
	case codes.DeadlineExceeded:
		return NewTransportError(op, mdwerror.CodeServiceTimeout, err)
	case codes.Canceled:
		return NewTransportError(op, mdwerror.CodeNetworkError, err)
	}

	return NewServiceError(op, codeFromGRPC(st.Code()), st.Message()).
		WithDetail("grpc_code", st.Code().String())
}

func codeFromGRPC(c codes.Code) mdwerror.Code {
	switch c {
	case codes.NotFound:
		return mdwerror.CodeNotFound
	case codes.Unauthenticated:
		return mdwerror.CodeUnauthorized
	case codes.PermissionDenied:
		return mdwerror.CodeForbidden
	case codes.InvalidArgument:
		return mdwerror.CodeInvalidInput
	case codes.ResourceExhausted:
		return mdwerror.CodeQuotaExceeded
	default:
		return mdwerror.CodeExternalServiceError
	}
}

// ToStatus converts a handler error to a gRPC status error. Errors that
// already carry a status pass through.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	mdwErr, ok := mdwerror.As(err)
	if !ok {
		return status.Error(codes.Internal, err.Error())
	}
	return status.Error(grpcCodeFor(mdwErr.Code()), mdwErr.Error())
}

func grpcCodeFor(code mdwerror.Code) codes.Code {
	switch code {
	case mdwerror.CodeNotFound:
		return codes.NotFound
	case mdwerror.CodeUnauthorized, mdwerror.CodeInvalidToken, mdwerror.CodeExpiredToken:
		return codes.Unauthenticated
	case mdwerror.CodeForbidden:
		return codes.PermissionDenied
	case mdwerror.CodeInvalidInput, mdwerror.CodeValidationFailed, mdwerror.CodeRequiredField,
		mdwerror.CodeInvalidFormat, mdwerror.CodeValueOutOfRange:
		return codes.InvalidArgument
	case mdwerror.CodeQuotaExceeded:
		return codes.ResourceExhausted
	case mdwerror.CodeServiceUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// fromNetwork classifies a failure below the RPC layer
func fromNetwork(op Operation, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewTransportError(op, mdwerror.CodeServiceTimeout, err)
	case errors.Is(err, context.Canceled):
		return NewTransportError(op, mdwerror.CodeNetworkError, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTransportError(op, mdwerror.CodeServiceTimeout, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return NewTransportError(op, mdwerror.CodeConnectionFailed, err)
	}
	return NewTransportError(op, mdwerror.CodeNetworkError, err)
}

// fromHTTPStatus classifies a non-2xx HTTP response. Gateway failures are
// transport errors; everything else was raised by the service.
func fromHTTPStatus(op Operation, statusCode int, message string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	switch statusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return NewTransportError(op, mdwerror.CodeFromHTTPStatus(statusCode), errors.New(message)).
			WithDetail("http_status", statusCode)
	}
	return NewServiceError(op, mdwerror.CodeFromHTTPStatus(statusCode), message).
		WithDetail("http_status", statusCode)
}

// undecodable reports a response payload that does not fit the operation
func undecodable(op Operation, message string) error {
	return NewServiceError(op, mdwerror.CodeDataCorruption, message)
}
