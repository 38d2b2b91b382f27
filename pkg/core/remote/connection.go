// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     remote
// Description: RemoteConnection contract and the transport-neutral decoding
//              of operation results
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package remote

import (
	"context"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// RemoteConnection is a live binding to the taxonomy service. Every
// operation takes the authorization token, the object reference and the
// protocol flag, and performs exactly one remote call.
type RemoteConnection interface {
	GetParent(ctx context.Context, token, ref string, flag bool) (string, error)
	GetChildren(ctx context.Context, token, ref string, flag bool) ([]string, error)
	GetGenomeAnnotations(ctx context.Context, token, ref string, flag bool) ([]string, error)
	// GetScientificLineage returns the raw value as sent by the service:
	// nil, bool, float64, string, []interface{} or map[string]interface{}.
	GetScientificLineage(ctx context.Context, token, ref string, flag bool) (interface{}, error)
	GetScientificName(ctx context.Context, token, ref string, flag bool) (string, error)
	GetTaxonomicID(ctx context.Context, token, ref string, flag bool) (int64, error)
	GetKingdom(ctx context.Context, token, ref string, flag bool) (string, error)
	GetDomain(ctx context.Context, token, ref string, flag bool) (string, error)
	GetGeneticCode(ctx context.Context, token, ref string, flag bool) (int64, error)
	GetAliases(ctx context.Context, token, ref string, flag bool) ([]string, error)

	// Close releases the transport resources of the connection
	Close() error
}

// Connector creates connections. timeout bounds every call made through
// the returned connection.
type Connector interface {
	Connect(transport TransportKind, protocol ProtocolKind, url string, timeout time.Duration) (RemoteConnection, error)
}

// ConnectorFunc adapts a function to the Connector interface
type ConnectorFunc func(transport TransportKind, protocol ProtocolKind, url string, timeout time.Duration) (RemoteConnection, error)

// Connect implements Connector
func (f ConnectorFunc) Connect(transport TransportKind, protocol ProtocolKind, url string, timeout time.Duration) (RemoteConnection, error) {
	return f(transport, protocol, url, timeout)
}

// invoker performs one remote call and returns the raw result. Errors are
// already classified as transport or service errors.
type invoker interface {
	invoke(ctx context.Context, op Operation, req *structpb.Struct) (*structpb.Value, error)
	close() error
}

// connection implements RemoteConnection on top of an invoker
type connection struct {
	inv     invoker
	timeout time.Duration
}

func newConnection(inv invoker, timeout time.Duration) *connection {
	return &connection{inv: inv, timeout: timeout}
}

func (c *connection) call(ctx context.Context, op Operation, token, ref string, flag bool) (*structpb.Value, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.inv.invoke(ctx, op, NewRequest(token, ref, flag))
}

func (c *connection) callString(ctx context.Context, op Operation, token, ref string, flag bool) (string, error) {
	v, err := c.call(ctx, op, token, ref, flag)
	if err != nil {
		return "", err
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", undecodable(op, fmt.Sprintf("expected string result, got %s", kindName(v)))
	}
	return s.StringValue, nil
}

func (c *connection) callStrings(ctx context.Context, op Operation, token, ref string, flag bool) ([]string, error) {
	v, err := c.call(ctx, op, token, ref, flag)
	if err != nil {
		return nil, err
	}
	list, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, undecodable(op, fmt.Sprintf("expected list result, got %s", kindName(v)))
	}
	out := make([]string, 0, len(list.ListValue.GetValues()))
	for i, item := range list.ListValue.GetValues() {
		s, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, undecodable(op, fmt.Sprintf("expected string at index %d, got %s", i, kindName(item)))
		}
		out = append(out, s.StringValue)
	}
	return out, nil
}

// callInt decodes an integer carried as a protobuf number (float64), exact
// up to 2^53
func (c *connection) callInt(ctx context.Context, op Operation, token, ref string, flag bool) (int64, error) {
	v, err := c.call(ctx, op, token, ref, flag)
	if err != nil {
		return 0, err
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, undecodable(op, fmt.Sprintf("expected integer result, got %s", kindName(v)))
	}
	f := n.NumberValue
	if f != math.Trunc(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, undecodable(op, fmt.Sprintf("expected integer result, got %v", f))
	}
	return int64(f), nil
}

func (c *connection) GetParent(ctx context.Context, token, ref string, flag bool) (string, error) {
	return c.callString(ctx, OpGetParent, token, ref, flag)
}

func (c *connection) GetChildren(ctx context.Context, token, ref string, flag bool) ([]string, error) {
	return c.callStrings(ctx, OpGetChildren, token, ref, flag)
}

func (c *connection) GetGenomeAnnotations(ctx context.Context, token, ref string, flag bool) ([]string, error) {
	return c.callStrings(ctx, OpGetGenomeAnnotations, token, ref, flag)
}

func (c *connection) GetScientificLineage(ctx context.Context, token, ref string, flag bool) (interface{}, error) {
	v, err := c.call(ctx, OpGetScientificLineage, token, ref, flag)
	if err != nil {
		return nil, err
	}
	return v.AsInterface(), nil
}

func (c *connection) GetScientificName(ctx context.Context, token, ref string, flag bool) (string, error) {
	return c.callString(ctx, OpGetScientificName, token, ref, flag)
}

func (c *connection) GetTaxonomicID(ctx context.Context, token, ref string, flag bool) (int64, error) {
	return c.callInt(ctx, OpGetTaxonomicID, token, ref, flag)
}

func (c *connection) GetKingdom(ctx context.Context, token, ref string, flag bool) (string, error) {
	return c.callString(ctx, OpGetKingdom, token, ref, flag)
}

func (c *connection) GetDomain(ctx context.Context, token, ref string, flag bool) (string, error) {
	return c.callString(ctx, OpGetDomain, token, ref, flag)
}

func (c *connection) GetGeneticCode(ctx context.Context, token, ref string, flag bool) (int64, error) {
	return c.callInt(ctx, OpGetGeneticCode, token, ref, flag)
}

func (c *connection) GetAliases(ctx context.Context, token, ref string, flag bool) ([]string, error) {
	return c.callStrings(ctx, OpGetAliases, token, ref, flag)
}

func (c *connection) Close() error {
	return c.inv.close()
}

func kindName(v *structpb.Value) string {
	switch v.GetKind().(type) {
	case *structpb.Value_NullValue, nil:
		return "null"
	case *structpb.Value_NumberValue:
		return "number"
	case *structpb.Value_StringValue:
		return "string"
	case *structpb.Value_BoolValue:
		return "bool"
	case *structpb.Value_StructValue:
		return "object"
	case *structpb.Value_ListValue:
		return "list"
	default:
		return "unknown"
	}
}
