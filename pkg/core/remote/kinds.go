// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     remote
// Description: Transport and protocol kinds understood by the connector
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package remote

import (
	"fmt"
	"strings"
)

// TransportKind selects how calls reach the service
type TransportKind string

const (
	TransportGRPC      TransportKind = "grpc"
	TransportHTTP      TransportKind = "http"
	TransportWebSocket TransportKind = "websocket"
)

// Transports lists every supported transport kind
var Transports = []TransportKind{TransportGRPC, TransportHTTP, TransportWebSocket}

// Valid reports whether t is a supported transport kind
func (t TransportKind) Valid() bool {
	for _, k := range Transports {
		if t == k {
			return true
		}
	}
	return false
}

// ParseTransport parses a transport kind; the empty string yields grpc
func ParseTransport(s string) (TransportKind, error) {
	t := TransportKind(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return TransportGRPC, nil
	}
	if !t.Valid() {
		return "", fmt.Errorf("unknown transport %q", s)
	}
	return t, nil
}

// ProtocolKind selects how messages are encoded on the wire
type ProtocolKind string

const (
	// ProtocolProto is protobuf binary encoding
	ProtocolProto ProtocolKind = "proto"
	// ProtocolJSON is protojson encoding
	ProtocolJSON ProtocolKind = "json"
)

// Protocols lists every supported protocol kind
var Protocols = []ProtocolKind{ProtocolProto, ProtocolJSON}

// Valid reports whether p is a supported protocol kind
func (p ProtocolKind) Valid() bool {
	return p == ProtocolProto || p == ProtocolJSON
}

// ContentType returns the HTTP content type of the encoding
func (p ProtocolKind) ContentType() string {
	if p == ProtocolJSON {
		return ContentTypeJSON
	}
	return ContentTypeProto
}

// ParseProtocol parses a protocol kind; the empty string yields proto
func ParseProtocol(s string) (ProtocolKind, error) {
	p := ProtocolKind(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return ProtocolProto, nil
	}
	if !p.Valid() {
		return "", fmt.Errorf("unknown protocol %q", s)
	}
	return p, nil
}

// TransportNames returns the supported transport kinds as strings
func TransportNames() []string {
	out := make([]string, len(Transports))
	for i, t := range Transports {
		out[i] = string(t)
	}
	return out
}

// ProtocolNames returns the supported protocol kinds as strings
func ProtocolNames() []string {
	out := make([]string, len(Protocols))
	for i, p := range Protocols {
		out[i] = string(p)
	}
	return out
}
