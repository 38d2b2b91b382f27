package taxonsvc

import (
	"net/http"
	"time"

	"github.com/msto63/taxon/pkg/core/health"
	"github.com/msto63/taxon/pkg/core/remote"
	"google.golang.org/grpc"
)

// HealthPath serves the health report on the HTTP listener
const HealthPath = "/health"

// Register exposes svc on a gRPC server
func Register(s grpc.ServiceRegistrar, svc *Service) {
	remote.RegisterService(s, svc)
}

// NewHTTPHandler serves svc over the HTTP and WebSocket transports. With a
// registry the health report is served at /health.
func NewHTTPHandler(svc *Service, registry *health.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(remote.HTTPPathPrefix, remote.NewHTTPHandler(svc))
	mux.Handle(remote.WebSocketPath, remote.NewWebSocketHandler(svc))
	if registry != nil {
		mux.Handle(HealthPath, registry.Handler(5*time.Second))
	}
	return mux
}
