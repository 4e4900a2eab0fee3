package qs

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/urlstore/internal/errors"
)

// Encode flattens v into a query string. Object keys are sorted with Less
// at every level; slice elements keep their order. nil values are written
// as "key=", empty slices and maps write nothing.
func Encode(v map[string]any, opts ...Option) (string, error) {
	o := newOptions(opts)
	e := &encoder{encode: o.Encoder}

	for _, key := range sortedKeys(v) {
		if err := e.walk(key, key, v[key]); err != nil {
			return "", err
		}
	}
	return strings.Join(e.parts, "&"), nil
}

type encoder struct {
	encode EncodeFunc
	parts  []string
}

func (e *encoder) emit(path, owner, value string) {
	e.parts = append(e.parts, e.encode(path, TokenKey, owner)+"="+e.encode(value, TokenValue, owner))
}

func (e *encoder) walk(path, owner string, v any) error {
	switch val := v.(type) {
	case nil:
		e.emit(path, owner, "")
		return nil
	case string:
		e.emit(path, owner, val)
		return nil
	case map[string]any:
		for _, key := range sortedKeys(val) {
			if err := e.walk(path+"["+key+"]", owner, val[key]); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for i, elem := range val {
			if err := e.walk(path+"["+strconv.Itoa(i)+"]", owner, elem); err != nil {
				return err
			}
		}
		return nil
	}

	if s, ok := scalarString(v); ok {
		e.emit(path, owner, s)
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			e.emit(path, owner, "")
			return nil
		}
		return e.walk(path, owner, rv.Elem().Interface())
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Slice(keys, func(i, j int) bool { return Less(keys[i], keys[j]) })
		for _, key := range keys {
			elem := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
			if err := e.walk(path+"["+key+"]", owner, elem.Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := e.walk(path+"["+strconv.Itoa(i)+"]", owner, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	}

	return errors.New("E005").
		WithField(owner).
		WithDetail(fmt.Sprintf("Cannot encode %T at %s.", v, path))
}

// scalarString converts strings, booleans, numbers and Stringers to their
// wire text.
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.FormatInt(int64(val), 10), true
	case int8:
		return strconv.FormatInt(int64(val), 10), true
	case int16:
		return strconv.FormatInt(int64(val), 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint8:
		return strconv.FormatUint(uint64(val), 10), true
	case uint16:
		return strconv.FormatUint(uint64(val), 10), true
	case uint32:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float32:
		return FormatNumber(float64(val)), true
	case float64:
		return FormatNumber(val), true
	case fmt.Stringer:
		return val.String(), true
	}
	return "", false
}

// ScalarString reports the wire text for a scalar value, as Encode writes it.
func ScalarString(v any) (string, bool) {
	if v == nil {
		return "", true
	}
	return scalarString(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return Less(keys[i], keys[j]) })
	return keys
}
