// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     remote
// Description: Default connector creating gRPC, HTTP and WebSocket
//              connections
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package remote

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	mdwerror "github.com/msto63/taxon/foundation/core/error"
	coregrpc "github.com/msto63/taxon/pkg/core/grpc"
	"google.golang.org/grpc"
)

// ConnectorOption configures the default connector
type ConnectorOption func(*connector)

// WithDialOptions appends gRPC dial options, e.g. a custom dialer in tests
func WithDialOptions(opts ...grpc.DialOption) ConnectorOption {
	return func(c *connector) {
		c.dialOpts = append(c.dialOpts, opts...)
	}
}

// WithHTTPClient sets a shared HTTP client. Connections created with it do
// not close its idle connections and do not override its timeout.
func WithHTTPClient(client *http.Client) ConnectorOption {
	return func(c *connector) {
		c.httpClient = client
	}
}

type connector struct {
	dialOpts   []grpc.DialOption
	httpClient *http.Client
}

// NewConnector returns the default Connector
func NewConnector(opts ...ConnectorOption) Connector {
	c := &connector{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect implements Connector
func (c *connector) Connect(transport TransportKind, protocol ProtocolKind, url string, timeout time.Duration) (RemoteConnection, error) {
	if !protocol.Valid() {
		return nil, mdwerror.New(fmt.Sprintf("unsupported protocol %q", protocol)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("supported", ProtocolNames())
	}
	if strings.TrimSpace(url) == "" {
		return nil, mdwerror.New("empty service url").WithCode(mdwerror.CodeInvalidConfig)
	}

	switch transport {
	case TransportGRPC:
		return c.connectGRPC(protocol, url, timeout)
	case TransportHTTP:
		return c.connectHTTP(protocol, url, timeout), nil
	case TransportWebSocket:
		return newConnection(newWSInvoker(url, protocol, timeout), timeout), nil
	default:
		return nil, mdwerror.New(fmt.Sprintf("unsupported transport %q", transport)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("supported", TransportNames())
	}
}

func (c *connector) connectGRPC(protocol ProtocolKind, url string, timeout time.Duration) (RemoteConnection, error) {
	conn, err := coregrpc.Dial(coregrpc.DefaultClientConfig(grpcTarget(url)), c.dialOpts...)
	if err != nil {
		return nil, mdwerror.Wrap(err, "cannot create grpc client").
			WithCode(mdwerror.CodeConnectionFailed).
			WithDetail(detailLayer, LayerTransport)
	}
	return newConnection(newGRPCInvoker(conn, protocol), timeout), nil
}

func (c *connector) connectHTTP(protocol ProtocolKind, url string, timeout time.Duration) RemoteConnection {
	inv := &httpInvoker{
		client:   c.httpClient,
		baseURL:  normalizeBaseURL(url),
		protocol: protocol,
	}
	if inv.client == nil {
		inv.client = &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   timeout,
		}
		inv.owned = true
	}
	return newConnection(inv, timeout)
}

// grpcTarget strips an http(s) scheme so that both transports accept the
// same configured url
func grpcTarget(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(url, scheme) {
			return strings.TrimPrefix(url, scheme)
		}
	}
	return url
}
