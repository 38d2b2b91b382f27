// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     remote
// Description: HTTP transport: client invoker and server handler
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	mdwerror "github.com/msto63/taxon/foundation/core/error"
	coregrpc "github.com/msto63/taxon/pkg/core/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// RequestIDHeader carries the request id on the HTTP transport
const RequestIDHeader = "X-Request-Id"

const maxBodyBytes = 1 << 20

type httpInvoker struct {
	client   *http.Client
	baseURL  string
	protocol ProtocolKind
	owned    bool
}

// normalizeBaseURL accepts host:port as shorthand for http://host:port
func normalizeBaseURL(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if !strings.Contains(url, "://") {
		url = "http://" + url
	}
	return url
}

func (h *httpInvoker) invoke(ctx context.Context, op Operation, req *structpb.Struct) (*structpb.Value, error) {
	body, err := Encode(h.protocol, req)
	if err != nil {
		return nil, NewTransportError(op, mdwerror.CodeInvalidInput, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+HTTPPath(op), bytes.NewReader(body))
	if err != nil {
		return nil, NewTransportError(op, mdwerror.CodeConnectionFailed, err)
	}
	httpReq.Header.Set("Content-Type", h.protocol.ContentType())
	httpReq.Header.Set("Accept", h.protocol.ContentType())

	requestID := coregrpc.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	httpReq.Header.Set(RequestIDHeader, requestID)

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fromNetwork(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fromNetwork(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fromHTTPStatus(op, resp.StatusCode, h.errorMessage(data))
	}

	value := new(structpb.Value)
	if err := Decode(h.protocol, data, value); err != nil {
		return nil, undecodable(op, fmt.Sprintf("cannot decode response: %v", err))
	}
	return value, nil
}

// errorMessage extracts the message of an error body, falling back to the
// raw text for bodies not produced by this service
func (h *httpInvoker) errorMessage(data []byte) string {
	body := new(structpb.Struct)
	if err := Decode(h.protocol, data, body); err == nil {
		if msg := body.GetFields()[FieldMessage].GetStringValue(); msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(string(data))
}

func (h *httpInvoker) close() error {
	if h.owned {
		h.client.CloseIdleConnections()
	}
	return nil
}

// NewHTTPHandler serves the taxonomy service over HTTP: POST
// /taxon/v1/{operation}, body encoded as given by Content-Type.
func NewHTTPHandler(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protocol, ok := ProtocolFromContentType(r.Header.Get("Content-Type"))
		if !ok {
			protocol = ProtocolJSON
			writeHTTPError(w, protocol, http.StatusUnsupportedMediaType,
				mdwerror.CodeInvalidFormat, "unsupported content type")
			return
		}

		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeHTTPError(w, protocol, http.StatusMethodNotAllowed,
				mdwerror.CodeInvalidInput, "method not allowed")
			return
		}

		op := Operation(strings.TrimPrefix(r.URL.Path, HTTPPathPrefix))
		if !strings.HasPrefix(r.URL.Path, HTTPPathPrefix) || !op.Valid() {
			writeHTTPError(w, protocol, http.StatusNotFound,
				mdwerror.CodeNotFound, fmt.Sprintf("unknown operation %q", r.URL.Path))
			return
		}

		data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			writeHTTPError(w, protocol, http.StatusBadRequest, mdwerror.CodeInvalidInput, err.Error())
			return
		}
		msg := new(structpb.Struct)
		if err := Decode(protocol, data, msg); err != nil {
			writeHTTPError(w, protocol, http.StatusBadRequest, mdwerror.CodeInvalidFormat, "cannot decode request: "+err.Error())
			return
		}
		req, err := ParseRequest(msg)
		if err != nil {
			writeHTTPError(w, protocol, http.StatusBadRequest, mdwerror.CodeInvalidInput, err.Error())
			return
		}

		ctx := r.Context()
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx = coregrpc.WithRequestID(ctx, requestID)
		w.Header().Set(RequestIDHeader, requestID)

		value, err := h.Handle(ctx, op, req)
		if err != nil {
			code := mdwerror.GetCode(err)
			if code == mdwerror.CodeUnknown {
				code = mdwerror.CodeInternal
			}
			writeHTTPError(w, protocol, code.HTTPStatus(), code, err.Error())
			return
		}
		if value == nil {
			value = structpb.NewNullValue()
		}

		out, err := Encode(protocol, value)
		if err != nil {
			writeHTTPError(w, protocol, http.StatusInternalServerError, mdwerror.CodeInternal, err.Error())
			return
		}
		w.Header().Set("Content-Type", protocol.ContentType())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out)
	})
}

func writeHTTPError(w http.ResponseWriter, protocol ProtocolKind, statusCode int, code mdwerror.Code, message string) {
	body := &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldCode:    structpb.NewStringValue(code.String()),
		FieldMessage: structpb.NewStringValue(message),
	}}
	out, err := Encode(protocol, body)
	if err != nil {
		http.Error(w, message, statusCode)
		return
	}
	w.Header().Set("Content-Type", protocol.ContentType())
	w.WriteHeader(statusCode)
	_, _ = w.Write(out)
}
