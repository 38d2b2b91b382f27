// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     remote
// Description: WebSocket transport: one socket per connection, one
//              request/reply frame pair per call
// Created:     2025-12-17
// License:     MIT
// ============================================================================

package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	mdwerror "github.com/msto63/taxon/foundation/core/error"
	coregrpc "github.com/msto63/taxon/pkg/core/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// WebSocketPath is the endpoint of the WebSocket transport
const WebSocketPath = "/taxon/v1/ws"

// Frame field names
const (
	FieldOp        = "op"
	FieldRequest   = "request"
	FieldRequestID = "request_id"
	FieldValue     = "value"
	FieldError     = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func messageType(protocol ProtocolKind) int {
	if protocol == ProtocolJSON {
		return websocket.TextMessage
	}
	return websocket.BinaryMessage
}

// websocketURL derives the socket URL from a service URL. http(s) schemes
// map to ws(s); a bare host:port gets ws.
func websocketURL(url string, protocol ProtocolKind) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	switch {
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case !strings.Contains(url, "://"):
		url = "ws://" + url
	}
	if !strings.HasSuffix(url, WebSocketPath) {
		url += WebSocketPath
	}
	return url + "?protocol=" + string(protocol)
}

type wsInvoker struct {
	dialer   *websocket.Dialer
	url      string
	protocol ProtocolKind

	mu   sync.Mutex
	conn *websocket.Conn
}

func newWSInvoker(url string, protocol ProtocolKind, timeout time.Duration) *wsInvoker {
	return &wsInvoker{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: timeout,
		},
		url:      websocketURL(url, protocol),
		protocol: protocol,
	}
}

func (w *wsInvoker) dial(ctx context.Context, op Operation) (*websocket.Conn, error) {
	if w.conn != nil {
		return w.conn, nil
	}
	conn, resp, err := w.dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		if resp != nil && errors.Is(err, websocket.ErrBadHandshake) {
			return nil, fromHTTPStatus(op, resp.StatusCode, "")
		}
		return nil, fromNetwork(op, err)
	}
	w.conn = conn
	return conn, nil
}

func (w *wsInvoker) invoke(ctx context.Context, op Operation, req *structpb.Struct) (*structpb.Value, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	conn, err := w.dial(ctx, op)
	if err != nil {
		return nil, err
	}

	deadline, _ := ctx.Deadline()
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer w.release(stop)

	requestID := coregrpc.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	frame := &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldOp:        structpb.NewStringValue(string(op)),
		FieldRequest:   structpb.NewStructValue(req),
		FieldRequestID: structpb.NewStringValue(requestID),
	}}
	data, err := Encode(w.protocol, frame)
	if err != nil {
		return nil, NewTransportError(op, mdwerror.CodeInvalidInput, err)
	}

	if err := conn.WriteMessage(messageType(w.protocol), data); err != nil {
		return nil, w.ioError(ctx, op, err)
	}
	_, data, err = conn.ReadMessage()
	if err != nil {
		return nil, w.ioError(ctx, op, err)
	}

	reply := new(structpb.Struct)
	if err := Decode(w.protocol, data, reply); err != nil {
		return nil, undecodable(op, fmt.Sprintf("cannot decode reply: %v", err))
	}
	if e, ok := reply.GetFields()[FieldError]; ok {
		fields := e.GetStructValue().GetFields()
		return nil, NewServiceError(op, codeFromWire(fields[FieldCode].GetStringValue()),
			fields[FieldMessage].GetStringValue())
	}
	value, ok := reply.GetFields()[FieldValue]
	if !ok {
		return nil, undecodable(op, "reply carries neither value nor error")
	}
	return value, nil
}

// release detaches the context watcher. A watcher that already fired
// closes the socket, so the next call redials.
func (w *wsInvoker) release(stop func() bool) {
	if !stop() {
		w.conn = nil
	}
}

// ioError drops the broken socket and classifies err. A socket closed by
// the context watcher reports the context error.
func (w *wsInvoker) ioError(ctx context.Context, op Operation, err error) error {
	_ = w.conn.Close()
	w.conn = nil
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fromNetwork(op, ctxErr)
	}
	return fromNetwork(op, err)
}

func (w *wsInvoker) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return nil
	}
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := w.conn.Close()
	w.conn = nil
	return err
}

// codeFromWire maps a code sent by the service. Failures internal to the
// service are external from the caller's point of view.
func codeFromWire(s string) mdwerror.Code {
	code := mdwerror.Code(s)
	if !code.IsValid() || code == mdwerror.CodeUnknown || code == mdwerror.CodeInternal {
		return mdwerror.CodeExternalServiceError
	}
	return code
}

// NewWebSocketHandler serves the taxonomy service over WebSocket. The
// protocol query parameter selects the frame encoding.
func NewWebSocketHandler(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protocol, err := ParseProtocol(r.URL.Query().Get("protocol"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.SetReadLimit(maxBodyBytes)

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			out, err := Encode(protocol, serveFrame(r.Context(), h, protocol, data))
			if err != nil {
				return
			}
			if err := conn.WriteMessage(messageType(protocol), out); err != nil {
				return
			}
		}
	})
}

func serveFrame(ctx context.Context, h Handler, protocol ProtocolKind, data []byte) *structpb.Struct {
	frame := new(structpb.Struct)
	if err := Decode(protocol, data, frame); err != nil {
		return errorFrame(mdwerror.CodeInvalidFormat, "cannot decode frame: "+err.Error())
	}
	fields := frame.GetFields()

	op := Operation(fields[FieldOp].GetStringValue())
	if !op.Valid() {
		return errorFrame(mdwerror.CodeNotFound, fmt.Sprintf("unknown operation %q", op))
	}
	req, err := ParseRequest(fields[FieldRequest].GetStructValue())
	if err != nil {
		return errorFrame(mdwerror.CodeInvalidInput, err.Error())
	}

	requestID := fields[FieldRequestID].GetStringValue()
	if requestID == "" {
		requestID = uuid.New().String()
	}
	value, err := h.Handle(coregrpc.WithRequestID(ctx, requestID), op, req)
	if err != nil {
		code := mdwerror.GetCode(err)
		if code == mdwerror.CodeUnknown {
			code = mdwerror.CodeInternal
		}
		return errorFrame(code, err.Error())
	}
	if value == nil {
		value = structpb.NewNullValue()
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{FieldValue: value}}
}

func errorFrame(code mdwerror.Code, message string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldError: structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			FieldCode:    structpb.NewStringValue(code.String()),
			FieldMessage: structpb.NewStringValue(message),
		}}),
	}}
}
