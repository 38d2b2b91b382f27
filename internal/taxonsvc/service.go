package taxonsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	mdwerror "github.com/msto63/taxon/foundation/core/error"
	coregrpc "github.com/msto63/taxon/pkg/core/grpc"
	"github.com/msto63/taxon/pkg/core/health"
	"github.com/msto63/taxon/pkg/core/logging"
	"github.com/msto63/taxon/pkg/core/ratelimit"
	"github.com/msto63/taxon/pkg/core/remote"
	"google.golang.org/protobuf/types/known/structpb"
)

// Config holds the collaborators of a Service
type Config struct {
	Store   Store
	Tokens  *TokenValidator
	Limiter *ratelimit.KeyLimiter
	Logger  *logging.Logger
}

// Service answers remote operations from a Store
type Service struct {
	store   Store
	tokens  *TokenValidator
	limiter *ratelimit.KeyLimiter
	logger  *logging.Logger
	now     func() time.Time

	served   atomic.Int64
	rejected atomic.Int64
}

var _ remote.Handler = (*Service)(nil)

// NewService creates a service. A nil Tokens accepts any non-empty token;
// a nil Limiter disables rate limiting.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("taxonsvc: store is required")
	}
	if cfg.Tokens == nil {
		cfg.Tokens = NewTokenValidator("", 0)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New("taxond")
	}
	return &Service{
		store:   cfg.Store,
		tokens:  cfg.Tokens,
		limiter: cfg.Limiter,
		logger:  cfg.Logger,
		now:     time.Now,
	}, nil
}

// Handle implements remote.Handler
func (s *Service) Handle(ctx context.Context, op remote.Operation, req remote.Request) (*structpb.Value, error) {
	log := s.logger.WithRequestID(coregrpc.GetRequestID(ctx)).WithOperation(string(op))

	value, client, err := s.handle(ctx, op, req)
	if err != nil {
		s.rejected.Add(1)
		log.Info("request rejected", "ref", req.Ref, "client", client, "code", mdwerror.GetCode(err).String())
		return nil, err
	}
	s.served.Add(1)
	log.Debug("request served", "ref", req.Ref, "client", client)
	return value, nil
}

func (s *Service) handle(ctx context.Context, op remote.Operation, req remote.Request) (*structpb.Value, string, error) {
	client, err := s.tokens.Validate(req.Token)
	if err != nil {
		return nil, "", failure(op, mdwerror.CodeUnauthorized, err.Error())
	}
	if !s.limiter.Allow(client, s.now()) {
		return nil, client, failure(op, mdwerror.CodeQuotaExceeded, "rate limit exceeded")
	}
	if !req.FlagSet {
		return nil, client, failure(op, mdwerror.CodeInvalidInput, "flag is required")
	}
	if strings.TrimSpace(req.Ref) == "" {
		return nil, client, failure(op, mdwerror.CodeInvalidInput, "ref is required")
	}

	taxon, err := s.store.Get(ctx, req.Ref)
	if errors.Is(err, ErrNotFound) {
		return nil, client, failure(op, mdwerror.CodeNotFound, fmt.Sprintf("unknown ref %q", req.Ref))
	}
	if err != nil {
		return nil, client, mdwerror.Wrap(err, "store lookup failed").
			WithCode(mdwerror.CodeInternal).
			WithOperation(string(op))
	}

	value, err := taxon.Field(op)
	if err != nil {
		return nil, client, failure(op, mdwerror.CodeInvalidInput, err.Error())
	}
	return value, client, nil
}

func failure(op remote.Operation, code mdwerror.Code, message string) error {
	return mdwerror.New(message).WithCode(code).WithOperation(string(op))
}

// Stats returns the number of served and rejected requests
func (s *Service) Stats() (served, rejected int64) {
	return s.served.Load(), s.rejected.Load()
}

// HealthCheck reports the store as healthy when it can be counted
func (s *Service) HealthCheck() health.Checker {
	return health.NewChecker("store", func(ctx context.Context) health.CheckResult {
		n, err := s.store.Count(ctx)
		if err != nil {
			return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
		}
		served, rejected := s.Stats()
		status := health.StatusHealthy
		if n == 0 {
			status = health.StatusDegraded
		}
		details := map[string]interface{}{
			"taxa":     n,
			"served":   served,
			"rejected": rejected,
			"clients":  s.limiter.Len(),
		}
		if cached, ok := s.store.(*CachedStore); ok {
			hits, misses := cached.Stats()
			details["cache_hits"] = hits
			details["cache_misses"] = misses
		}
		return health.CheckResult{
			Status:  status,
			Message: fmt.Sprintf("%d taxa", n),
			Details: details,
		}
	})
}
