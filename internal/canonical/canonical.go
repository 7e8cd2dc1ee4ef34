// Package canonical implements a byte-deterministic JSON encoder.
//
// encoding/json.Marshal does not guarantee recursive key ordering at every
// nesting depth (only Go 1.12+'s top-level map ordering is documented), so
// this package walks the decoded value tree itself and sorts object keys by
// Unicode code point at every depth. Two implementations given the same
// logical input must produce byte-identical output.
package canonical

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Encode returns the canonical JSON encoding of v: object keys sorted
// ascending by Unicode code point at every depth, no whitespace between
// tokens, array order preserved, integral numbers within the safe-integer
// range (|n| <= 2^53-1) emitted without a decimal point.
func Encode(v interface{}) ([]byte, error) {
	var buf strings.Builder
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// EncodeToString is a convenience wrapper around Encode.
func EncodeToString(v interface{}) (string, error) {
	b, err := Encode(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Unmarshal decodes JSON bytes into a canonical value tree suitable for
// re-encoding with Encode (numbers preserved via json.Number).
func Unmarshal(data []byte) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("canonical: decode: %w", err)
	}
	return v, nil
}

func encodeValue(buf *strings.Builder, v interface{}) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case string:
		return encodeString(buf, t)
	case json.Number:
		return encodeNumberString(buf, string(t))
	case float64:
		return encodeFloat(buf, t)
	case int:
		buf.WriteString(strconv.Itoa(t))
		return nil
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
		return nil
	case []interface{}:
		return encodeArray(buf, t)
	case map[string]interface{}:
		return encodeObject(buf, t)
	default:
		return fmt.Errorf("canonical: unsupported type %T", v)
	}
}

func encodeArray(buf *strings.Builder, arr []interface{}) error {
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(buf, elem); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func encodeObject(buf *strings.Builder, obj map[string]interface{}) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return codePointLess(keys[i], keys[j])
	})

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encodeValue(buf, obj[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// codePointLess compares two strings by Unicode code point, matching the
// ordering encoding/json.Marshal would not otherwise guarantee at nested
// depths.
func codePointLess(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	for i := 0; i < len(ra) && i < len(rb); i++ {
		if ra[i] != rb[i] {
			return ra[i] < rb[i]
		}
	}
	return len(ra) < len(rb)
}

func encodeString(buf *strings.Builder, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("canonical: encode string: %w", err)
	}
	buf.Write(b)
	return nil
}

// maxSafeInteger is 2^53-1, the largest integer every IEEE-754 double
// represents exactly.
const maxSafeInteger = 1<<53 - 1

func encodeFloat(buf *strings.Builder, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("canonical: non-finite number %v is not JSON-serializable", f)
	}
	if f == math.Trunc(f) && math.Abs(f) <= maxSafeInteger {
		buf.WriteString(strconv.FormatInt(int64(f), 10))
		return nil
	}
	buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	return nil
}

func encodeNumberString(buf *strings.Builder, s string) error {
	if s == "" {
		return fmt.Errorf("canonical: empty number literal")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("canonical: invalid number literal %q: %w", s, err)
	}
	return encodeFloat(buf, f)
}
