// Package codec implements the canonical JSON serialization every digest
// and signature in the authority core is computed over: object keys sorted
// lexicographically at every depth, UTF-8, LF-only line endings, no
// scientific notation. Independent implementations that follow the same
// rule agree on digests byte-for-byte.
package codec

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// ErrEncoding is returned when a value cannot be represented in canonical
// JSON: NaN or +/-Inf. Invalid UTF-8 in a string is not rejected:
// encoding/json replaces each invalid byte with U+FFFD before encoding.
var ErrEncoding = errors.New("codec: value is not representable in canonical JSON")

// Canonicalize serializes v as canonical JSON: object keys sorted at every
// depth, compact (no insignificant whitespace), UTF-8, and terminated by a
// single trailing LF.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	var generic any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := encodeCanonical(&buf, generic); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Digest returns SHA-256(Canonicalize(v)).
func Digest(v any) ([32]byte, error) {
	b, err := Canonicalize(v)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(b), nil
}

// VerifyCanonical reports whether b is already exactly its own canonical
// form: it parses b, re-serializes, and compares.
func VerifyCanonical(b []byte) bool {
	var generic any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return false
	}
	reenc, err := encodeCanonicalBytes(generic)
	if err != nil {
		return false
	}
	reenc = append(reenc, '\n')
	return bytes.Equal(b, reenc)
}

func encodeCanonicalBytes(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		s := val.String()
		if strings.ContainsAny(s, "eE") {
			f, ok := new(big.Float).SetString(s)
			if !ok {
				return ErrEncoding
			}
			s = f.Text('f', -1)
		}
		buf.WriteString(s)
	case string:
		return encodeString(buf, val)
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeCanonical(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encodeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return ErrEncoding
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return ErrEncoding
	}
	buf.Write(b)
	return nil
}
