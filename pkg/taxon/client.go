// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     taxon
// Description: TaxonClient facade with one asynchronous accessor per
//              remote field
// Created:     2025-12-15
// License:     MIT
// ============================================================================

package taxon

import (
	"context"
	"time"

	"github.com/msto63/taxon/pkg/core/logging"
	"github.com/msto63/taxon/pkg/core/remote"
)

// remoteFlag is sent with every remote call
const remoteFlag = true

// Client is the accessor surface of a taxon client
type Client interface {
	GetParent(ctx context.Context) *Future[string]
	GetChildren(ctx context.Context) *Future[[]string]
	GetGenomeAnnotations(ctx context.Context) *Future[[]string]
	GetScientificLineage(ctx context.Context) *Future[[]string]
	GetScientificName(ctx context.Context) *Future[string]
	GetTaxonomicID(ctx context.Context) *Future[int64]
	GetKingdom(ctx context.Context) *Future[string]
	GetDomain(ctx context.Context) *Future[string]
	GetGeneticCode(ctx context.Context) *Future[int64]
	GetAliases(ctx context.Context) *Future[[]string]
}

// Option configures a TaxonClient
type Option func(*TaxonClient)

// WithConnector replaces the default connection factory
func WithConnector(c remote.Connector) Option {
	return func(tc *TaxonClient) {
		tc.connector = c
	}
}

// WithLogger sets the logger used for call tracing
func WithLogger(l *logging.Logger) Option {
	return func(tc *TaxonClient) {
		tc.logger = l
	}
}

// TaxonClient implements Client against a remote taxonomy service.
// It is safe for concurrent use; calls share no mutable state.
type TaxonClient struct {
	cfg       Config
	connector remote.Connector
	logger    *logging.Logger
}

var _ Client = (*TaxonClient)(nil)

// New validates cfg and returns a client bound to cfg.Ref. No connection
// is made until the first accessor call.
func New(cfg Config, opts ...Option) (*TaxonClient, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &TaxonClient{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.connector == nil {
		c.connector = remote.NewConnector()
	}
	if c.logger == nil {
		c.logger = logging.New("taxon")
	}
	c.logger = c.logger.With("ref", cfg.Ref, "transport", string(cfg.Transport))
	return c, nil
}

func (c *TaxonClient) connection() (remote.RemoteConnection, error) {
	return c.connector.Connect(c.cfg.Transport, c.cfg.Protocol, c.cfg.URL, c.cfg.Timeout())
}

// invoke runs one remote call on its own connection
func invoke[T any](c *TaxonClient, ctx context.Context, op remote.Operation,
	call func(conn remote.RemoteConnection, ctx context.Context, token, ref string, flag bool) (T, error)) *Future[T] {
	return goFuture(func() (T, error) {
		log := c.logger.WithOperation(string(op))

		conn, err := c.connection()
		if err != nil {
			log.Debug("connect failed", "error", err)
			var zero T
			return zero, err
		}
		defer func() {
			if cerr := conn.Close(); cerr != nil {
				log.Debug("close failed", "error", cerr)
			}
		}()

		start := time.Now()
		value, err := call(conn, ctx, c.cfg.Token, c.cfg.Ref, remoteFlag)
		if err != nil {
			log.Debug("remote call failed", "duration", time.Since(start).String(), "error", err)
			return value, err
		}
		log.Debug("remote call", "duration", time.Since(start).String())
		return value, nil
	})
}

// GetParent resolves the reference of the parent taxon
func (c *TaxonClient) GetParent(ctx context.Context) *Future[string] {
	return invoke(c, ctx, remote.OpGetParent, remote.RemoteConnection.GetParent)
}

// GetChildren resolves the references of the child taxa
func (c *TaxonClient) GetChildren(ctx context.Context) *Future[[]string] {
	return invoke(c, ctx, remote.OpGetChildren, remote.RemoteConnection.GetChildren)
}

// GetGenomeAnnotations resolves the genome annotation references
func (c *TaxonClient) GetGenomeAnnotations(ctx context.Context) *Future[[]string] {
	return invoke(c, ctx, remote.OpGetGenomeAnnotations, remote.RemoteConnection.GetGenomeAnnotations)
}

// GetScientificLineage resolves the lineage, least specific rank first.
// The raw value is split on commas and each element trimmed.
func (c *TaxonClient) GetScientificLineage(ctx context.Context) *Future[[]string] {
	return invoke(c, ctx, remote.OpGetScientificLineage,
		func(conn remote.RemoteConnection, ctx context.Context, token, ref string, flag bool) ([]string, error) {
			raw, err := conn.GetScientificLineage(ctx, token, ref, flag)
			if err != nil {
				return nil, err
			}
			return SplitLineage(raw), nil
		})
}

// GetScientificName resolves the scientific name
func (c *TaxonClient) GetScientificName(ctx context.Context) *Future[string] {
	return invoke(c, ctx, remote.OpGetScientificName, remote.RemoteConnection.GetScientificName)
}

// GetTaxonomicID resolves the numeric taxonomy id
func (c *TaxonClient) GetTaxonomicID(ctx context.Context) *Future[int64] {
	return invoke(c, ctx, remote.OpGetTaxonomicID, remote.RemoteConnection.GetTaxonomicID)
}

// GetKingdom resolves the kingdom
func (c *TaxonClient) GetKingdom(ctx context.Context) *Future[string] {
	return invoke(c, ctx, remote.OpGetKingdom, remote.RemoteConnection.GetKingdom)
}

// GetDomain resolves the domain
func (c *TaxonClient) GetDomain(ctx context.Context) *Future[string] {
	return invoke(c, ctx, remote.OpGetDomain, remote.RemoteConnection.GetDomain)
}

// GetGeneticCode resolves the genetic code table number
func (c *TaxonClient) GetGeneticCode(ctx context.Context) *Future[int64] {
	return invoke(c, ctx, remote.OpGetGeneticCode, remote.RemoteConnection.GetGeneticCode)
}

// GetAliases resolves the alternative names
func (c *TaxonClient) GetAliases(ctx context.Context) *Future[[]string] {
	return invoke(c, ctx, remote.OpGetAliases, remote.RemoteConnection.GetAliases)
}
