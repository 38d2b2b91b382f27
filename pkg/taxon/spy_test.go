package taxon

import (
	"context"
	"sync"
	"time"

	"github.com/msto63/taxon/pkg/core/remote"
)

type connectCall struct {
	transport remote.TransportKind
	protocol  remote.ProtocolKind
	url       string
	timeout   time.Duration
}

type remoteCall struct {
	op    remote.Operation
	token string
	ref   string
	flag  bool
}

// spyConnector records every Connect and every remote call made on the
// connections it hands out
type spyConnector struct {
	mu         sync.Mutex
	connects   []connectCall
	calls      []remoteCall
	closes     int
	connectErr error
	callErr    error
	values     map[remote.Operation]interface{}
	gates      map[remote.Operation]chan struct{}
}

func newSpy() *spyConnector {
	return &spyConnector{
		values: map[remote.Operation]interface{}{
			remote.OpGetParent:            "9605",
			remote.OpGetChildren:          []string{"9606", "63221"},
			remote.OpGetGenomeAnnotations: []string{"GRCh38.p14"},
			remote.OpGetScientificLineage: "Life, Eukaryota ,  Animalia,Chordata",
			remote.OpGetScientificName:    "Homo sapiens",
			remote.OpGetTaxonomicID:       int64(9606),
			remote.OpGetKingdom:           "Metazoa",
			remote.OpGetDomain:            "Eukaryota",
			remote.OpGetGeneticCode:       int64(1),
			remote.OpGetAliases:           []string{"human"},
		},
		gates: map[remote.Operation]chan struct{}{},
	}
}

func (s *spyConnector) Connect(transport remote.TransportKind, protocol remote.ProtocolKind, url string, timeout time.Duration) (remote.RemoteConnection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connects = append(s.connects, connectCall{transport, protocol, url, timeout})
	if s.connectErr != nil {
		return nil, s.connectErr
	}
	return &spyConnection{spy: s}, nil
}

func (s *spyConnector) connectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connects)
}

func (s *spyConnector) recorded() ([]connectCall, []remoteCall, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]connectCall(nil), s.connects...), append([]remoteCall(nil), s.calls...), s.closes
}

type spyConnection struct {
	spy *spyConnector
}

func (c *spyConnection) do(ctx context.Context, op remote.Operation, token, ref string, flag bool) (interface{}, error) {
	c.spy.mu.Lock()
	c.spy.calls = append(c.spy.calls, remoteCall{op, token, ref, flag})
	gate := c.spy.gates[op]
	err := c.spy.callErr
	value := c.spy.values[op]
	c.spy.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return value, err
}

func str(v interface{}, err error) (string, error) {
	s, _ := v.(string)
	return s, err
}

func strs(v interface{}, err error) ([]string, error) {
	s, _ := v.([]string)
	return s, err
}

func num(v interface{}, err error) (int64, error) {
	n, _ := v.(int64)
	return n, err
}

func (c *spyConnection) GetParent(ctx context.Context, token, ref string, flag bool) (string, error) {
	return str(c.do(ctx, remote.OpGetParent, token, ref, flag))
}

func (c *spyConnection) GetChildren(ctx context.Context, token, ref string, flag bool) ([]string, error) {
	return strs(c.do(ctx, remote.OpGetChildren, token, ref, flag))
}

func (c *spyConnection) GetGenomeAnnotations(ctx context.Context, token, ref string, flag bool) ([]string, error) {
	return strs(c.do(ctx, remote.OpGetGenomeAnnotations, token, ref, flag))
}

func (c *spyConnection) GetScientificLineage(ctx context.Context, token, ref string, flag bool) (interface{}, error) {
	return c.do(ctx, remote.OpGetScientificLineage, token, ref, flag)
}

func (c *spyConnection) GetScientificName(ctx context.Context, token, ref string, flag bool) (string, error) {
	return str(c.do(ctx, remote.OpGetScientificName, token, ref, flag))
}

func (c *spyConnection) GetTaxonomicID(ctx context.Context, token, ref string, flag bool) (int64, error) {
	return num(c.do(ctx, remote.OpGetTaxonomicID, token, ref, flag))
}

func (c *spyConnection) GetKingdom(ctx context.Context, token, ref string, flag bool) (string, error) {
	return str(c.do(ctx, remote.OpGetKingdom, token, ref, flag))
}

func (c *spyConnection) GetDomain(ctx context.Context, token, ref string, flag bool) (string, error) {
	return str(c.do(ctx, remote.OpGetDomain, token, ref, flag))
}

func (c *spyConnection) GetGeneticCode(ctx context.Context, token, ref string, flag bool) (int64, error) {
	return num(c.do(ctx, remote.OpGetGeneticCode, token, ref, flag))
}

func (c *spyConnection) GetAliases(ctx context.Context, token, ref string, flag bool) ([]string, error) {
	return strs(c.do(ctx, remote.OpGetAliases, token, ref, flag))
}

func (c *spyConnection) Close() error {
	c.spy.mu.Lock()
	defer c.spy.mu.Unlock()
	c.spy.closes++
	return nil
}
