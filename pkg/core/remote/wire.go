// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     remote
// Description: Wire contract of the taxonomy service shared by both ends
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package remote

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Operation names one remote field accessor
type Operation string

const (
	OpGetParent            Operation = "get_parent"
	OpGetChildren          Operation = "get_children"
	OpGetGenomeAnnotations Operation = "get_genome_annotations"
	OpGetScientificLineage Operation = "get_scientific_lineage"
	OpGetScientificName    Operation = "get_scientific_name"
	OpGetTaxonomicID       Operation = "get_taxonomic_id"
	OpGetKingdom           Operation = "get_kingdom"
	OpGetDomain            Operation = "get_domain"
	OpGetGeneticCode       Operation = "get_genetic_code"
	OpGetAliases           Operation = "get_aliases"
)

// Operations lists every remote operation in contract order
var Operations = []Operation{
	OpGetParent,
	OpGetChildren,
	OpGetGenomeAnnotations,
	OpGetScientificLineage,
	OpGetScientificName,
	OpGetTaxonomicID,
	OpGetKingdom,
	OpGetDomain,
	OpGetGeneticCode,
	OpGetAliases,
}

// Valid reports whether op is part of the contract
func (op Operation) Valid() bool {
	for _, o := range Operations {
		if o == op {
			return true
		}
	}
	return false
}

// Wire constants
const (
	// ServiceName is the fully qualified gRPC service name
	ServiceName = "taxon.v1.TaxonService"

	// HTTPPathPrefix prefixes every HTTP operation path
	HTTPPathPrefix = "/taxon/v1/"

	ContentTypeProto = "application/x-protobuf"
	ContentTypeJSON  = "application/json"

	// Request field names
	FieldToken = "token"
	FieldRef   = "ref"
	FieldFlag  = "flag"

	// Error body field names (HTTP transport)
	FieldCode    = "code"
	FieldMessage = "message"
)

// MethodName returns the full gRPC method name of op
func MethodName(op Operation) string {
	return "/" + ServiceName + "/" + string(op)
}

// HTTPPath returns the HTTP path of op
func HTTPPath(op Operation) string {
	return HTTPPathPrefix + string(op)
}

// Request is the decoded form of an operation request
type Request struct {
	Token string
	Ref   string
	Flag  bool
	// FlagSet is false when the request carried no flag field
	FlagSet bool
}

// NewRequest builds the wire request message
func NewRequest(token, ref string, flag bool) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldToken: structpb.NewStringValue(token),
		FieldRef:   structpb.NewStringValue(ref),
		FieldFlag:  structpb.NewBoolValue(flag),
	}}
}

// ParseRequest decodes a wire request. Token and ref must be strings when
// present; flag must be a bool when present.
func ParseRequest(msg *structpb.Struct) (Request, error) {
	var req Request
	fields := msg.GetFields()

	if v, ok := fields[FieldToken]; ok {
		s, isString := v.GetKind().(*structpb.Value_StringValue)
		if !isString {
			return req, fmt.Errorf("field %q must be a string", FieldToken)
		}
		req.Token = s.StringValue
	}
	if v, ok := fields[FieldRef]; ok {
		s, isString := v.GetKind().(*structpb.Value_StringValue)
		if !isString {
			return req, fmt.Errorf("field %q must be a string", FieldRef)
		}
		req.Ref = s.StringValue
	}
	if v, ok := fields[FieldFlag]; ok {
		b, isBool := v.GetKind().(*structpb.Value_BoolValue)
		if !isBool {
			return req, fmt.Errorf("field %q must be a bool", FieldFlag)
		}
		req.Flag = b.BoolValue
		req.FlagSet = true
	}
	return req, nil
}

// Encode serializes msg with the given protocol
func Encode(protocol ProtocolKind, msg proto.Message) ([]byte, error) {
	if protocol == ProtocolJSON {
		return protojson.Marshal(msg)
	}
	return proto.Marshal(msg)
}

// Decode parses data into msg with the given protocol
func Decode(protocol ProtocolKind, data []byte, msg proto.Message) error {
	if protocol == ProtocolJSON {
		return protojson.Unmarshal(data, msg)
	}
	return proto.Unmarshal(data, msg)
}

// ProtocolFromContentType maps an HTTP content type to a protocol kind
func ProtocolFromContentType(contentType string) (ProtocolKind, bool) {
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	switch strings.ToLower(mediaType) {
	case ContentTypeProto, "application/protobuf":
		return ProtocolProto, true
	case ContentTypeJSON:
		return ProtocolJSON, true
	default:
		return "", false
	}
}
