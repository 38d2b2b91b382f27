// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     grpc
// Description: protojson codec selectable with the "json" content subtype
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package grpc

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// JSONCodecName is the content subtype of the JSON codec
const JSONCodecName = "json"

func init() {
	encoding.RegisterCodec(JSONCodec{})
}

// JSONCodec encodes protobuf messages with protojson. Registered globally;
// clients select it per call with CallJSON.
type JSONCodec struct{}

// Marshal encodes a protobuf message as JSON
func (JSONCodec) Marshal(v interface{}) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("json codec: cannot marshal %T: not a proto.Message", v)
	}
	return protojson.Marshal(msg)
}

// Unmarshal decodes JSON into a protobuf message
func (JSONCodec) Unmarshal(data []byte, v interface{}) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("json codec: cannot unmarshal into %T: not a proto.Message", v)
	}
	return protojson.Unmarshal(data, msg)
}

// Name returns the codec name used as content subtype
func (JSONCodec) Name() string {
	return JSONCodecName
}

// CallJSON is the call option that selects the JSON codec
func CallJSON() grpc.CallOption {
	return grpc.CallContentSubtype(JSONCodecName)
}
