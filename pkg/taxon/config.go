// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     taxon
// Description: Client configuration, defaults and validation
// Created:     2025-12-15
// License:     MIT
// ============================================================================

package taxon

import (
	"time"

	mdwerror "github.com/msto63/taxon/foundation/core/error"
	"github.com/msto63/taxon/foundation/core/validation"
	"github.com/msto63/taxon/foundation/utils/validationx"
	"github.com/msto63/taxon/pkg/core/remote"
)

// DefaultTimeoutMillis is used when Config.TimeoutMillis is zero
const DefaultTimeoutMillis = 30000

// Config describes the taxon a client is bound to and how to reach the
// service. Ref, URL and Token are required.
type Config struct {
	Ref           string
	URL           string
	Token         string
	TimeoutMillis int

	// Transport and Protocol default to grpc and proto
	Transport remote.TransportKind
	Protocol  remote.ProtocolKind
}

// Timeout returns the per-call timeout as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMillis) * time.Millisecond
}

func (c Config) withDefaults() Config {
	if c.TimeoutMillis == 0 {
		c.TimeoutMillis = DefaultTimeoutMillis
	}
	if c.Transport == "" {
		c.Transport = remote.TransportGRPC
	}
	if c.Protocol == "" {
		c.Protocol = remote.ProtocolProto
	}
	return c
}

func (c Config) validate() error {
	urlRules := []validation.Validator{validationx.Required}
	if c.Transport == remote.TransportHTTP || c.Transport == remote.TransportWebSocket {
		urlRules = append(urlRules, validationx.Endpoint)
	}

	result := validation.NewFieldSet().
		Field("ref", c.Ref, validationx.Required).
		Field("url", c.URL, urlRules...).
		Field("token", c.Token, validationx.Required).
		Field("timeout_millis", c.TimeoutMillis, validationx.Min(0)).
		Field("transport", c.Transport, validationx.In(remote.TransportNames()...)).
		Field("protocol", c.Protocol, validationx.In(remote.ProtocolNames()...)).
		Validate()

	if err := result.ToError(); err != nil {
		return mdwerror.Wrap(err, "invalid taxon client configuration").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("taxon.New")
	}
	return nil
}

// IsConfigurationError reports whether err was returned for an invalid
// client configuration
func IsConfigurationError(err error) bool {
	return mdwerror.HasCode(err, mdwerror.CodeInvalidConfig)
}
