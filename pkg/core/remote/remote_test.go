package remote

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	mdwerror "github.com/msto63/taxon/foundation/core/error"
	coregrpc "github.com/msto63/taxon/pkg/core/grpc"
	"github.com/msto63/taxon/pkg/core/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

// fakeService answers every operation from a fixed table and records what it
// received
type fakeService struct {
	mu        sync.Mutex
	results   map[Operation]*structpb.Value
	errs      map[Operation]error
	block     bool
	requests  []Request
	requestID string
}

func newFakeService() *fakeService {
	lineage, _ := structpb.NewList([]interface{}{"Eukaryota", "Metazoa", "Chordata"})
	return &fakeService{
		results: map[Operation]*structpb.Value{
			OpGetParent:            structpb.NewStringValue("9605"),
			OpGetChildren:          structpb.NewListValue(mustList("9606", "63221")),
			OpGetGenomeAnnotations: structpb.NewListValue(mustList("GRCh38")),
			OpGetScientificLineage: structpb.NewListValue(lineage),
			OpGetScientificName:    structpb.NewStringValue("Homo sapiens"),
			OpGetTaxonomicID:       structpb.NewNumberValue(9606),
			OpGetKingdom:           structpb.NewStringValue("Metazoa"),
			OpGetDomain:            structpb.NewStringValue("Eukaryota"),
			OpGetGeneticCode:       structpb.NewNumberValue(1),
			OpGetAliases:           structpb.NewListValue(mustList("human", "man")),
		},
		errs: map[Operation]error{},
	}
}

func mustList(items ...string) *structpb.ListValue {
	values := make([]interface{}, len(items))
	for i, s := range items {
		values[i] = s
	}
	l, err := structpb.NewList(values)
	if err != nil {
		panic(err)
	}
	return l
}

func (f *fakeService) Handle(ctx context.Context, op Operation, req Request) (*structpb.Value, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.requestID = coregrpc.GetRequestID(ctx)
	block := f.block
	err := f.errs[op]
	result := f.results[op]
	f.mu.Unlock()

	if block {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (f *fakeService) lastRequest() (Request, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return Request{}, ""
	}
	return f.requests[len(f.requests)-1], f.requestID
}

func startGRPC(t *testing.T, h Handler) Connector {
	t.Helper()
	coregrpc.SetLogger(logging.Discard())

	lis := bufconn.Listen(1024 * 1024)
	srv := coregrpc.NewServer(coregrpc.DefaultServerConfig())
	RegisterService(srv.GRPCServer(), h)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	return NewConnector(WithDialOptions(grpc.WithContextDialer(
		func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		})))
}

const bufTarget = "passthrough:///bufnet"

type endpoint struct {
	name      string
	transport TransportKind
	protocol  ProtocolKind
	connector Connector
	url       string
}

func endpoints(t *testing.T, h Handler) []endpoint {
	grpcConnector := startGRPC(t, h)
	mux := http.NewServeMux()
	mux.Handle(HTTPPathPrefix, NewHTTPHandler(h))
	mux.Handle(WebSocketPath, NewWebSocketHandler(h))
	httpServer := httptest.NewServer(mux)
	t.Cleanup(httpServer.Close)

	return []endpoint{
		{"grpc/proto", TransportGRPC, ProtocolProto, grpcConnector, bufTarget},
		{"grpc/json", TransportGRPC, ProtocolJSON, grpcConnector, bufTarget},
		{"http/proto", TransportHTTP, ProtocolProto, NewConnector(), httpServer.URL},
		{"http/json", TransportHTTP, ProtocolJSON, NewConnector(), httpServer.URL},
		{"websocket/proto", TransportWebSocket, ProtocolProto, NewConnector(), httpServer.URL},
		{"websocket/json", TransportWebSocket, ProtocolJSON, NewConnector(), httpServer.URL},
	}
}

func connect(t *testing.T, ep endpoint, timeout time.Duration) RemoteConnection {
	t.Helper()
	conn, err := ep.connector.Connect(ep.transport, ep.protocol, ep.url, timeout)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestRoundTrip(t *testing.T) {
	svc := newFakeService()
	ctx := context.Background()

	for _, ep := range endpoints(t, svc) {
		t.Run(ep.name, func(t *testing.T) {
			conn := connect(t, ep, 5*time.Second)

			parent, err := conn.GetParent(ctx, "tok", "1/2/3", true)
			require.NoError(t, err)
			assert.Equal(t, "9605", parent)

			req, _ := svc.lastRequest()
			assert.Equal(t, Request{Token: "tok", Ref: "1/2/3", Flag: true, FlagSet: true}, req)

			children, err := conn.GetChildren(ctx, "tok", "1/2/3", true)
			require.NoError(t, err)
			assert.Equal(t, []string{"9606", "63221"}, children)

			annotations, err := conn.GetGenomeAnnotations(ctx, "tok", "1/2/3", true)
			require.NoError(t, err)
			assert.Equal(t, []string{"GRCh38"}, annotations)

			lineage, err := conn.GetScientificLineage(ctx, "tok", "1/2/3", true)
			require.NoError(t, err)
			assert.Equal(t, []interface{}{"Eukaryota", "Metazoa", "Chordata"}, lineage)

			name, err := conn.GetScientificName(ctx, "tok", "1/2/3", true)
			require.NoError(t, err)
			assert.Equal(t, "Homo sapiens", name)

			id, err := conn.GetTaxonomicID(ctx, "tok", "1/2/3", true)
			require.NoError(t, err)
			assert.Equal(t, int64(9606), id)

			kingdom, err := conn.GetKingdom(ctx, "tok", "1/2/3", true)
			require.NoError(t, err)
			assert.Equal(t, "Metazoa", kingdom)

			domain, err := conn.GetDomain(ctx, "tok", "1/2/3", true)
			require.NoError(t, err)
			assert.Equal(t, "Eukaryota", domain)

			code, err := conn.GetGeneticCode(ctx, "tok", "1/2/3", true)
			require.NoError(t, err)
			assert.Equal(t, int64(1), code)

			aliases, err := conn.GetAliases(ctx, "tok", "1/2/3", true)
			require.NoError(t, err)
			assert.Equal(t, []string{"human", "man"}, aliases)
		})
	}
}

func TestRequestIDPropagates(t *testing.T) {
	svc := newFakeService()
	ctx := coregrpc.WithRequestID(context.Background(), "rid-7")

	for _, ep := range endpoints(t, svc) {
		t.Run(ep.name, func(t *testing.T) {
			conn := connect(t, ep, 5*time.Second)
			_, err := conn.GetKingdom(ctx, "tok", "r", true)
			require.NoError(t, err)

			_, requestID := svc.lastRequest()
			assert.Equal(t, "rid-7", requestID)
		})
	}
}

func TestServiceErrors(t *testing.T) {
	svc := newFakeService()
	svc.errs[OpGetParent] = NewServiceError(OpGetParent, mdwerror.CodeNotFound, "no taxon 1/2/3")
	svc.errs[OpGetKingdom] = NewServiceError(OpGetKingdom, mdwerror.CodeUnauthorized, "bad token")
	svc.errs[OpGetDomain] = errors.New("plain failure")

	for _, ep := range endpoints(t, svc) {
		t.Run(ep.name, func(t *testing.T) {
			conn := connect(t, ep, 5*time.Second)
			ctx := context.Background()

			_, err := conn.GetParent(ctx, "tok", "1/2/3", true)
			require.Error(t, err)
			assert.True(t, IsServiceError(err))
			assert.False(t, IsTransportError(err))
			assert.Equal(t, mdwerror.CodeNotFound, mdwerror.GetCode(err))
			assert.Contains(t, err.Error(), "no taxon 1/2/3")

			mdwErr, ok := mdwerror.As(err)
			require.True(t, ok)
			assert.Equal(t, string(OpGetParent), mdwErr.Operation())

			_, err = conn.GetKingdom(ctx, "tok", "1/2/3", true)
			assert.True(t, IsServiceError(err))
			assert.Equal(t, mdwerror.CodeUnauthorized, mdwerror.GetCode(err))

			_, err = conn.GetDomain(ctx, "tok", "1/2/3", true)
			assert.True(t, IsServiceError(err))
			assert.Equal(t, mdwerror.CodeExternalServiceError, mdwerror.GetCode(err))
		})
	}
}

func TestUndecodableResults(t *testing.T) {
	svc := newFakeService()
	svc.results[OpGetChildren] = structpb.NewStringValue("not a list")
	svc.results[OpGetTaxonomicID] = structpb.NewNumberValue(96.5)
	svc.results[OpGetParent] = structpb.NewNumberValue(1)
	svc.results[OpGetAliases] = structpb.NewListValue(&structpb.ListValue{
		Values: []*structpb.Value{structpb.NewStringValue("a"), structpb.NewBoolValue(true)},
	})

	for _, ep := range endpoints(t, svc) {
		t.Run(ep.name, func(t *testing.T) {
			conn := connect(t, ep, 5*time.Second)
			ctx := context.Background()

			_, err := conn.GetChildren(ctx, "t", "r", true)
			assert.Equal(t, mdwerror.CodeDataCorruption, mdwerror.GetCode(err))
			assert.True(t, IsServiceError(err))

			_, err = conn.GetTaxonomicID(ctx, "t", "r", true)
			assert.Equal(t, mdwerror.CodeDataCorruption, mdwerror.GetCode(err))

			_, err = conn.GetParent(ctx, "t", "r", true)
			assert.Equal(t, mdwerror.CodeDataCorruption, mdwerror.GetCode(err))

			_, err = conn.GetAliases(ctx, "t", "r", true)
			assert.Equal(t, mdwerror.CodeDataCorruption, mdwerror.GetCode(err))
		})
	}
}

func TestCallTimeout(t *testing.T) {
	svc := newFakeService()
	svc.block = true

	for _, ep := range endpoints(t, svc) {
		t.Run(ep.name, func(t *testing.T) {
			conn := connect(t, ep, 50*time.Millisecond)

			start := time.Now()
			_, err := conn.GetScientificName(context.Background(), "t", "r", true)
			require.Error(t, err)
			assert.Less(t, time.Since(start), 3*time.Second)
			assert.True(t, IsTransportError(err), "got %v", err)
			assert.Equal(t, mdwerror.CodeServiceTimeout, mdwerror.GetCode(err))
		})
	}
}

func TestTransportErrors(t *testing.T) {
	t.Run("grpc", func(t *testing.T) {
		c := NewConnector(WithDialOptions(grpc.WithContextDialer(
			func(context.Context, string) (net.Conn, error) {
				return nil, errors.New("refused")
			})))
		conn, err := c.Connect(TransportGRPC, ProtocolProto, bufTarget, time.Second)
		require.NoError(t, err)
		defer conn.Close()

		_, err = conn.GetKingdom(context.Background(), "t", "r", true)
		require.Error(t, err)
		assert.True(t, IsTransportError(err))
		assert.Equal(t, mdwerror.CodeServiceUnavailable, mdwerror.GetCode(err))
	})

	t.Run("http", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		conn, err := NewConnector().Connect(TransportHTTP, ProtocolJSON, url, time.Second)
		require.NoError(t, err)
		defer conn.Close()

		_, err = conn.GetKingdom(context.Background(), "t", "r", true)
		require.Error(t, err)
		assert.True(t, IsTransportError(err))
	})

	t.Run("websocket", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		conn, err := NewConnector().Connect(TransportWebSocket, ProtocolJSON, url, time.Second)
		require.NoError(t, err)
		defer conn.Close()

		_, err = conn.GetKingdom(context.Background(), "t", "r", true)
		require.Error(t, err)
		assert.True(t, IsTransportError(err))
	})

	t.Run("websocket handshake", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		conn, err := NewConnector().Connect(TransportWebSocket, ProtocolProto, srv.URL, time.Second)
		require.NoError(t, err)
		defer conn.Close()

		_, err = conn.GetKingdom(context.Background(), "t", "r", true)
		assert.True(t, IsTransportError(err))
		assert.Equal(t, mdwerror.CodeServiceUnavailable, mdwerror.GetCode(err))
	})

	t.Run("http gateway", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		defer srv.Close()

		conn, err := NewConnector().Connect(TransportHTTP, ProtocolJSON, srv.URL, time.Second)
		require.NoError(t, err)
		defer conn.Close()

		_, err = conn.GetKingdom(context.Background(), "t", "r", true)
		assert.True(t, IsTransportError(err))
		assert.Equal(t, mdwerror.CodeServiceUnavailable, mdwerror.GetCode(err))
	})
}

func TestConnectRejectsUnknownKinds(t *testing.T) {
	c := NewConnector()

	_, err := c.Connect("smoke-signal", ProtocolProto, "localhost:1", time.Second)
	require.Error(t, err)
	assert.Equal(t, mdwerror.CodeInvalidConfig, mdwerror.GetCode(err))

	_, err = c.Connect(TransportHTTP, "xml", "localhost:1", time.Second)
	require.Error(t, err)
	assert.Equal(t, mdwerror.CodeInvalidConfig, mdwerror.GetCode(err))

	_, err = c.Connect(TransportHTTP, ProtocolJSON, "  ", time.Second)
	require.Error(t, err)
	assert.Equal(t, mdwerror.CodeInvalidConfig, mdwerror.GetCode(err))
}

func TestHTTPHandlerRejects(t *testing.T) {
	srv := httptest.NewServer(NewHTTPHandler(newFakeService()))
	defer srv.Close()

	body := func() *strings.Reader {
		return strings.NewReader(`{"token":"t","ref":"r","flag":true}`)
	}

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        *strings.Reader
		want        int
	}{
		{"ok", http.MethodPost, HTTPPath(OpGetKingdom), ContentTypeJSON, body(), http.StatusOK},
		{"wrong method", http.MethodGet, HTTPPath(OpGetKingdom), ContentTypeJSON, strings.NewReader(""), http.StatusMethodNotAllowed},
		{"unknown operation", http.MethodPost, HTTPPathPrefix + "get_planet", ContentTypeJSON, body(), http.StatusNotFound},
		{"foreign path", http.MethodPost, "/other/get_kingdom", ContentTypeJSON, body(), http.StatusNotFound},
		{"content type", http.MethodPost, HTTPPath(OpGetKingdom), "text/plain", body(), http.StatusUnsupportedMediaType},
		{"bad body", http.MethodPost, HTTPPath(OpGetKingdom), ContentTypeJSON, strings.NewReader("{"), http.StatusBadRequest},
		{"bad field", http.MethodPost, HTTPPath(OpGetKingdom), ContentTypeJSON, strings.NewReader(`{"flag":"yes"}`), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, tt.body)
			require.NoError(t, err)
			req.Header.Set("Content-Type", tt.contentType)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestURLNormalization(t *testing.T) {
	assert.Equal(t, "http://localhost:9301", normalizeBaseURL("localhost:9301"))
	assert.Equal(t, "https://taxa.example.org", normalizeBaseURL("https://taxa.example.org/"))
	assert.Equal(t, "localhost:9300", grpcTarget("http://localhost:9300/"))
	assert.Equal(t, "localhost:9300", grpcTarget("localhost:9300"))
	assert.Equal(t, bufTarget, grpcTarget(bufTarget))
	assert.Equal(t, "ws://localhost:9301/taxon/v1/ws?protocol=json", websocketURL("localhost:9301", ProtocolJSON))
	assert.Equal(t, "wss://taxa.example.org/taxon/v1/ws?protocol=proto", websocketURL("https://taxa.example.org/", ProtocolProto))
	assert.Equal(t, "ws://h:1/taxon/v1/ws?protocol=proto", websocketURL("ws://h:1/taxon/v1/ws", ProtocolProto))
}

func TestWebSocketReusesSocket(t *testing.T) {
	svc := newFakeService()
	upgrades := 0
	var mu sync.Mutex
	ws := NewWebSocketHandler(svc)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		upgrades++
		mu.Unlock()
		ws.ServeHTTP(w, r)
	}))
	defer srv.Close()

	conn, err := NewConnector().Connect(TransportWebSocket, ProtocolJSON, srv.URL, 5*time.Second)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		name, err := conn.GetScientificName(context.Background(), "t", "r", true)
		require.NoError(t, err)
		assert.Equal(t, "Homo sapiens", name)
	}
	require.NoError(t, conn.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, upgrades)
}

func TestWebSocketRedialsAfterContextClose(t *testing.T) {
	svc := newFakeService()
	upgrades := 0
	var mu sync.Mutex
	ws := NewWebSocketHandler(svc)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		upgrades++
		mu.Unlock()
		ws.ServeHTTP(w, r)
	}))
	defer srv.Close()

	inv := newWSInvoker(srv.URL, ProtocolJSON, 5*time.Second)
	defer inv.close()
	req := NewRequest("t", "r", true)

	_, err := inv.invoke(context.Background(), OpGetScientificName, req)
	require.NoError(t, err)

	// The context ends after the reply was read: its watcher closes the socket.
	ctx, cancel := context.WithCancel(context.Background())
	conn := inv.conn
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	cancel()
	inv.release(stop)
	assert.Nil(t, inv.conn)

	value, err := inv.invoke(context.Background(), OpGetScientificName, req)
	require.NoError(t, err)
	assert.Equal(t, "Homo sapiens", value.GetStringValue())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, upgrades)
}

func TestIntegerResultsExactUpTo2Pow53(t *testing.T) {
	const maxExact = int64(1) << 53
	svc := newFakeService()
	svc.results[OpGetTaxonomicID] = structpb.NewNumberValue(float64(maxExact))
	svc.results[OpGetGeneticCode] = structpb.NewNumberValue(float64(maxExact - 1))

	for _, ep := range endpoints(t, svc) {
		t.Run(ep.name, func(t *testing.T) {
			conn := connect(t, ep, 5*time.Second)
			ctx := context.Background()

			id, err := conn.GetTaxonomicID(ctx, "t", "r", true)
			require.NoError(t, err)
			assert.Equal(t, maxExact, id)

			code, err := conn.GetGeneticCode(ctx, "t", "r", true)
			require.NoError(t, err)
			assert.Equal(t, maxExact-1, code)
		})
	}
}
