package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/msto63/taxon/internal/taxonsvc"
	coregrpc "github.com/msto63/taxon/pkg/core/grpc"
	"github.com/msto63/taxon/pkg/core/health"
	"github.com/msto63/taxon/pkg/core/logging"
	"github.com/msto63/taxon/pkg/core/ratelimit"
	"github.com/msto63/taxon/pkg/core/version"
	"github.com/spf13/cobra"
)

var reflection bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Startet den Service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&reflection, "reflection", false, "gRPC Server Reflection aktivieren")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		logging.New("taxond").Error("Failed to load configuration", "error", err)
		return err
	}
	logger := logging.New("taxond")
	logger.Info("Starting taxond", "version", version.Daemon)

	store, err := taxonsvc.OpenStore(cfg.Server.DataFile)
	if err != nil {
		logger.Error("Failed to open data file", "path", cfg.Server.DataFile, "error", err)
		return err
	}
	if taxonsvc.IsSQLitePath(cfg.Server.DataFile) && cfg.Server.CacheSize > 0 {
		store = taxonsvc.NewCachedStore(store, cfg.Server.CacheSize, cfg.Server.CacheTTL.Duration)
	}
	defer store.Close()

	tokens := taxonsvc.NewTokenValidator(cfg.Server.JWTSecret, cfg.Server.TokenTTL.Duration)
	if !tokens.Enforced() {
		logger.Warn("No jwt_secret configured, accepting any non-empty token")
	}

	svc, err := taxonsvc.NewService(taxonsvc.Config{
		Store:   store,
		Tokens:  tokens,
		Limiter: ratelimit.New(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, 10*time.Minute),
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	grpcCfg := coregrpc.DefaultServerConfig()
	grpcCfg.Host = cfg.Server.Host
	grpcCfg.Port = cfg.Server.GRPCPort
	grpcCfg.EnableReflection = reflection
	grpcServer := coregrpc.NewServer(grpcCfg)
	taxonsvc.Register(grpcServer.GRPCServer(), svc)

	registry := health.NewRegistry("taxond", version.Daemon)
	registry.Register(svc.HealthCheck())
	registry.Register(health.TCPCheck("grpc", loopback(cfg.Server.Host, cfg.Server.GRPCPort), 2*time.Second))

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddress(),
		Handler:           taxonsvc.NewHTTPHandler(svc, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := grpcServer.StartAsync(); err != nil {
		logger.Error("Failed to start gRPC server", "error", err)
		return err
	}
	logger.Info("gRPC server started", "address", grpcServer.Address())

	httpErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server started", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		logger.Info("Shutdown signal received, stopping servers...", "signal", sig.String())
	case runErr = <-httpErr:
		logger.Error("HTTP server failed", "error", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Error during HTTP shutdown", "error", err)
	}
	grpcServer.StopWithTimeout(ctx)

	served, rejected := svc.Stats()
	logger.Info("taxond stopped", "served", served, "rejected", rejected)
	return runErr
}

// loopback maps a wildcard listen host to the local address for probing
func loopback(host string, port int) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
