package sqlite

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/harvest"
	"github.com/google/uuid"
)

// Identifiers nested inside documents are stored in extended JSON binary
// form so their byte layout survives the round trip:
//
//	{"$binary": {"base64": "...", "subType": "04"}}
//
// The primary key is stored as a raw 16-byte BLOB in the id column.
const (
	binaryKey     = "$binary"
	uuidSubType   = "04"
	binaryPayload = binaryKey + ".base64"
)

// encodeValue converts identifiers anywhere in v into their binary form.
func encodeValue(v any) any {
	switch v := v.(type) {
	case uuid.UUID:
		return map[string]any{
			binaryKey: map[string]any{
				"base64":  base64.StdEncoding.EncodeToString(v[:]),
				"subType": uuidSubType,
			},
		}
	case *uuid.UUID:
		if v == nil {
			return nil
		}
		return encodeValue(*v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = encodeValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = encodeValue(e)
		}
		return out
	default:
		return v
	}
}

// marshalDoc encodes a document for storage.
func marshalDoc(doc map[string]any) (string, error) {
	buf, err := json.Marshal(encodeValue(doc))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// unmarshalDoc decodes a stored document, restoring identifiers and
// integral numbers.
func unmarshalDoc(data string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	v, err := decodeValue(raw)
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

func decodeValue(v any) (any, error) {
	switch v := v.(type) {
	case map[string]any:
		if bin, ok := v[binaryKey]; ok && len(v) == 1 {
			return decodeBinary(bin)
		}
		out := make(map[string]any, len(v))
		for k, e := range v {
			d, err := decodeValue(e)
			if err != nil {
				return nil, err
			}
			out[k] = d
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			d, err := decodeValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		return v.Float64()
	default:
		return v, nil
	}
}

func decodeBinary(v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("malformed binary value")
	}
	s, _ := m["base64"].(string)
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed binary value: %w", err)
	}
	if m["subType"] != uuidSubType {
		return b, nil
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("malformed identifier: %w", err)
	}
	return id, nil
}

// idFromBytes converts a primary key column into an identifier.
func idFromBytes(b []byte) (uuid.UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.Nil, harvest.WrapError(harvest.EINTERNAL, err, "malformed document identifier")
	}
	return id, nil
}

// uuidField returns a required identifier field of a decoded document.
func uuidField(doc map[string]any, key string) (uuid.UUID, error) {
	v, ok := doc[key]
	if !ok || v == nil {
		return uuid.Nil, harvest.Errorf(harvest.EINTERNAL, "document missing identifier %q", key)
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil, harvest.Errorf(harvest.EINTERNAL, "document field %q is not an identifier", key)
	}
	return id, nil
}

// stringField returns an optional string field of a decoded document.
func stringField(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}

// mapField returns an optional object field of a decoded document.
func mapField(doc map[string]any, key string) map[string]any {
	m, _ := doc[key].(map[string]any)
	return m
}
