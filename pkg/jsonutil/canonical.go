// Package jsonutil provides deterministic JSON serialization for hashing.
package jsonutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// CanonicalMarshal produces deterministic JSON: keys sorted
// lexicographically, no insignificant whitespace, UTF-8 encoding. Two
// semantically equal values always serialize to the same bytes, which makes
// the output safe to hash.
func CanonicalMarshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonical marshal: %w", err)
	}

	// Round-trip through a generic structure so struct field order and
	// map iteration order stop mattering.
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("canonical unmarshal: %w", err)
	}

	var buf bytes.Buffer
	if err := encodeValue(&buf, generic); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CanonicalHash returns the hex SHA-256 of the canonical serialization of v.
func CanonicalHash(v any) (string, error) {
	data, err := CanonicalMarshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case map[string]any:
		return encodeObject(buf, val)
	case []any:
		return encodeArray(buf, val)
	default:
		// Primitives: string, float64, bool, nil.
		raw, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(raw)
		return nil
	}
}

func encodeObject(buf *bytes.Buffer, obj map[string]any) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		if err := encodeValue(buf, obj[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeArray(buf *bytes.Buffer, arr []any) error {
	buf.WriteByte('[')
	for i, item := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(buf, item); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}
