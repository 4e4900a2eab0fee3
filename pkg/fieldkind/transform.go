package fieldkind

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vango-dev/urlstore/internal/errors"
	"github.com/vango-dev/urlstore/pkg/qs"
)

const (
	yes = "yes"
	no  = "no"
)

var (
	jsonEscaper   = strings.NewReplacer("&", "%26", "=", "%3D", "+", "%2B")
	jsonUnescaper = strings.NewReplacer("%26", "&", "%3D", "=", "%2B", "+")
)

// Truthy reports whether v counts as true when written to a boolean field:
// nil, false, zero, NaN, the empty string and nil pointers are false,
// everything else is true.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	}
	if f, ok := toFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

// SerializeBool writes "yes" for truthy values and "no" otherwise.
func SerializeBool(v any) string {
	if Truthy(v) {
		return yes
	}
	return no
}

// DeserializeBool passes booleans through, maps the string "yes" to true
// and everything else to false.
func DeserializeBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == yes
	default:
		return false
	}
}

// IsNumber reports whether v is a Go numeric value.
func IsNumber(v any) bool {
	_, ok := toFloat(v)
	return ok
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// ParseNumber parses s as a finite decimal number. Surrounding whitespace
// is ignored. NaN, the Infinity spellings and values that overflow
// float64 (such as "1e400") are reported as failures, so a decoded state
// always holds values that JSON can represent.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// SerializeNumber converts v to its string form.
func SerializeNumber(v any) string {
	if s, ok := qs.ScalarString(v); ok {
		return s
	}
	return fmt.Sprint(v)
}

// DeserializeNumber passes numbers through and parses strings into
// float64. The empty string passes through unchanged. Unparsable strings
// and values of any other type yield false.
//
// The false result is kept for compatibility with fragments written by
// earlier versions; a Pipeline built WithStrictNumbers reports an error
// instead.
func DeserializeNumber(v any) any {
	if f, ok := toFloat(v); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
		return v
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	if s == "" {
		return s
	}
	f, ok := ParseNumber(s)
	if !ok {
		return false
	}
	return f
}

// EscapeJSON replaces '&', '=' and '+' with their percent escapes.
func EscapeJSON(s string) string {
	return jsonEscaper.Replace(s)
}

// UnescapeJSON reverses EscapeJSON.
func UnescapeJSON(s string) string {
	return jsonUnescaper.Replace(s)
}

// SerializeJSON JSON-encodes v without HTML escaping and then escapes
// '&', '=' and '+'.
func SerializeJSON(v any) (string, error) {
	s, err := SerializeRawJSON(v)
	if err != nil {
		return "", err
	}
	return EscapeJSON(s), nil
}

// SerializeRawJSON JSON-encodes v without HTML escaping.
func SerializeRawJSON(v any) (string, error) {
	data, err := json.MarshalNoEscape(v)
	if err != nil {
		return "", errors.New("E004").Wrap(err)
	}
	return string(data), nil
}

// DeserializeJSON unescapes and JSON-decodes a non-empty string. Any other
// input is returned unchanged.
func DeserializeJSON(v any) (any, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return v, nil
	}
	return decodeJSON(UnescapeJSON(s))
}

// DeserializeRawJSON JSON-decodes a non-empty string. Any other input is
// returned unchanged.
func DeserializeRawJSON(v any) (any, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return v, nil
	}
	return decodeJSON(s)
}

func decodeJSON(s string) (any, error) {
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		offset := -1
		if se, ok := err.(*json.SyntaxError); ok {
			offset = int(se.Offset)
		}
		return nil, errors.New("E001").WithInput(s, offset).Wrap(err)
	}
	return out, nil
}
